package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mwestbrook/signoff/internal/http/request"
	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/user"
	"github.com/mwestbrook/signoff/internal/workflow"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.register)
	r.Get("/me", h.me)
	r.Patch("/{address}/role", h.updateRole)
}

func (h *Handler) MetricsRoutes(r chi.Router) {
	r.Get("/", h.metrics)
}

type userResponse struct {
	ID        uint64    `json:"id"`
	Address   string    `json:"address"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type receiptResponse struct {
	Ref         string    `json:"ref"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

func toReceiptResponse(receipt *ledger.Receipt) receiptResponse {
	return receiptResponse{Ref: receipt.Ref, ConfirmedAt: receipt.ConfirmedAt}
}

type metricsResponse struct {
	Users            uint64         `json:"users"`
	Transactions     int            `json:"transactions"`
	ByStatus         map[string]int `json:"transactions_by_status"`
	PendingApprovals int            `json:"pending_approvals"`
}

func toResponse(u *workflow.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Address:   u.Address,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toResponse(u)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	v := request.Viewer(r)
	if !v.Registered() {
		http.Error(w, "not registered", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(v.User)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type registerRequest struct {
	Address string        `json:"address"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Role    workflow.Role `json:"role"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Role.Valid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	receipt, err := h.svc.Register(r.Context(), request.Viewer(r), req.Address, req.Name, req.Email, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toReceiptResponse(receipt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateRoleRequest struct {
	Role workflow.Role `json:"role"`
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Role.Valid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	receipt, err := h.svc.UpdateRole(r.Context(), request.Viewer(r), address, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toReceiptResponse(receipt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Metrics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	byStatus := make(map[string]int, len(m.ByStatus))
	for status, n := range m.ByStatus {
		byStatus[status.String()] = n
	}

	resp := metricsResponse{
		Users:            m.Users,
		Transactions:     m.Transactions,
		ByStatus:         byStatus,
		PendingApprovals: m.PendingApprovals,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var rej *ledger.RejectionError

	switch {
	case errors.Is(err, user.ErrNotAllowed):
		http.Error(w, "not allowed", http.StatusForbidden)
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &rej):
		http.Error(w, rej.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

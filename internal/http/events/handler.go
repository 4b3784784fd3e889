// Package events streams per-viewer notifications over SSE. Each
// connection owns one sync engine, so the ledger subscription lives
// exactly as long as the client is attached.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mwestbrook/signoff/internal/http/request"
	"github.com/mwestbrook/signoff/internal/notify"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/reconcile"
)

const (
	feedBuffer        = 32
	heartbeatInterval = 25 * time.Second
)

type Handler struct {
	ledger reconcile.Ledger
	cache  *readmodel.Cache
}

func NewHandler(l reconcile.Ledger, cache *readmodel.Cache) *Handler {
	return &Handler{ledger: l, cache: cache}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.stream)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	v := request.Viewer(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	feed := notify.NewFeed(feedBuffer)
	defer feed.Close()

	engine := reconcile.New(h.ledger, h.cache, feed, v)
	engine.Start(r.Context())
	defer engine.Stop()

	slog.Info("event stream opened", "viewer", v.Address)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("event stream closed", "viewer", v.Address)
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case n := <-feed.C():
			if err := writeNotification(w, n); err != nil {
				slog.Warn("failed to write event", "error", err)
				return
			}

			flusher.Flush()
		}
	}
}

func writeNotification(w http.ResponseWriter, n notify.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)

	return err
}

package transfer

import (
	"time"

	"github.com/mwestbrook/signoff/internal/workflow"
)

type transactionResponse struct {
	ID          uint64    `json:"id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Amount      uint64    `json:"amount"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	ApprovalID  uint64    `json:"approval_id,omitempty"`
}

type approvalResponse struct {
	ID            uint64    `json:"id"`
	TransactionID uint64    `json:"transaction_id"`
	Requester     string    `json:"requester"`
	Approver      string    `json:"approver,omitempty"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type receiptResponse struct {
	Ref         string    `json:"ref"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

func toResponse(tx *workflow.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		From:        tx.From,
		To:          tx.To,
		Amount:      tx.Amount,
		Description: tx.Description,
		Status:      tx.Status.String(),
		Timestamp:   tx.Timestamp,
		ApprovalID:  tx.ApprovalID,
	}
}

func toResponseList(txs []*workflow.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toApprovalResponse(a *workflow.Approval) approvalResponse {
	return approvalResponse{
		ID:            a.ID,
		TransactionID: a.TransactionID,
		Requester:     a.Requester,
		Approver:      a.Approver,
		Status:        a.Status.String(),
		Reason:        a.Reason,
		Timestamp:     a.Timestamp,
	}
}

func toApprovalList(as []*workflow.Approval) []approvalResponse {
	resp := make([]approvalResponse, len(as))
	for i, a := range as {
		resp[i] = toApprovalResponse(a)
	}

	return resp
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WithdrawalStatus represents the lifecycle state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
	WithdrawalStatusFailed    WithdrawalStatus = "FAILED"
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
)

// WithdrawalRecord is the historical fact supplied by the withdrawal service.
// The risk engine reads these records and never modifies them.
type WithdrawalRecord struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	UserID          uuid.UUID        `json:"user_id" db:"user_id"`
	Amount          float64          `json:"amount" db:"amount"`
	Currency        string           `json:"currency" db:"currency"`
	Status          WithdrawalStatus `json:"status" db:"status"`
	BankAccountID   uuid.UUID        `json:"bank_account_id" db:"bank_account_id"`
	RequestedAt     time.Time        `json:"requested_at" db:"requested_at"`
	RejectionReason string           `json:"rejection_reason,omitempty" db:"rejection_reason"`
}

// IsFailure returns true for terminal unsuccessful states
func (w *WithdrawalRecord) IsFailure() bool {
	return w.Status == WithdrawalStatusFailed || w.Status == WithdrawalStatusRejected
}

// IsRejected returns true if the withdrawal was rejected
func (w *WithdrawalRecord) IsRejected() bool {
	return w.Status == WithdrawalStatusRejected
}

// IsCompleted returns true if the withdrawal settled successfully
func (w *WithdrawalRecord) IsCompleted() bool {
	return w.Status == WithdrawalStatusCompleted
}

// policyKeywords are matched against rejection reasons to identify
// limit/policy-driven rejections.
var policyKeywords = []string{"LIMIT", "EXCEEDED", "POLICY"}

// IsPolicyRejection returns true if the withdrawal was rejected for a
// limit or policy reason according to its free-text rejection reason.
func (w *WithdrawalRecord) IsPolicyRejection() bool {
	if w.Status != WithdrawalStatusRejected || w.RejectionReason == "" {
		return false
	}
	reason := strings.ToUpper(w.RejectionReason)
	for _, kw := range policyKeywords {
		if strings.Contains(reason, kw) {
			return true
		}
	}
	return false
}

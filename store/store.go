// Package store provides durable storage for fraud cases, placed orders,
// and wellness check-ins.
//
// Fraud cases live in a queryable keyed store with three interchangeable
// backends:
//   - Gorm: sqlite/postgres/mysql, for production deployments (default)
//   - Memory: for development and testing
//   - Redis: for distributed deployments
//
// A case's status moves away from pending_review at most once; every
// backend enforces that transition atomically per case so that two
// conversations can never double-resolve the same record.
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrNotFound      = errors.New("not found")
	ErrCaseResolved  = errors.New("case already resolved")
	ErrInvalidStatus = errors.New("invalid status transition")
	ErrInvalidInput  = errors.New("invalid input")
	ErrStoreClosed   = errors.New("store is closed")
)

// CaseStatus is the disposition of a fraud case.
type CaseStatus string

const (
	StatusPendingReview      CaseStatus = "pending_review"
	StatusConfirmedSafe      CaseStatus = "confirmed_safe"
	StatusConfirmedFraud     CaseStatus = "confirmed_fraud"
	StatusVerificationFailed CaseStatus = "verification_failed"
)

// IsTerminal reports whether the status permits no further transition.
func (s CaseStatus) IsTerminal() bool {
	switch s {
	case StatusConfirmedSafe, StatusConfirmedFraud, StatusVerificationFailed:
		return true
	}
	return false
}

// FraudCase is one suspicious-transaction record awaiting or having
// received a disposition. The transaction snapshot fields are immutable
// once the case is created; only Status, OutcomeNote and UpdatedAt change,
// and they change together exactly once.
type FraudCase struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CustomerName string     `gorm:"index" json:"customer_name"`
	CardLast4    string     `json:"card_last4"`
	Status       CaseStatus `gorm:"index;default:pending_review" json:"status"`

	// Transaction snapshot
	Merchant string    `json:"merchant"`
	Amount   float64   `json:"amount"`
	TxTime   time.Time `json:"tx_time"`
	Category string    `json:"category"`
	Source   string    `json:"source"`
	Location string    `json:"location"`

	// Security challenge, used only for verification, never spoken back.
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"-"`

	OutcomeNote string    `json:"outcome_note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the gorm table name for fraud cases.
func (FraudCase) TableName() string {
	return "fraud_cases"
}

// CaseStore is the durable record of fraud cases, keyed by case ID and
// queryable by customer name.
type CaseStore interface {
	// Create persists a new case. A zero ID is assigned by the store.
	Create(ctx context.Context, c *FraudCase) error

	// GetByID retrieves a case by its identifier.
	GetByID(ctx context.Context, id uint) (*FraudCase, error)

	// FindPendingByName returns the first pending_review case whose
	// customer name matches (case-insensitive exact match). Which of
	// several matching rows comes back first follows primary-key order;
	// no further tie-break is defined. Returns ErrNotFound when no
	// pending case matches, even if a resolved one does.
	FindPendingByName(ctx context.Context, name string) (*FraudCase, error)

	// SetStatus atomically moves a pending_review case to a terminal
	// status, recording the outcome note and updated-at timestamp in the
	// same write. Returns ErrNotFound for an unknown ID, ErrCaseResolved
	// when the case already reached a terminal status, and
	// ErrInvalidStatus when the target status is not terminal.
	SetStatus(ctx context.Context, id uint, status CaseStatus, note string) error

	// Ping checks if the store is healthy.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// normalizeName canonicalizes a customer name for lookup.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

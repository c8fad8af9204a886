// Package fraud implements the fraud-case verification workflow: a small
// state machine that gates disclosure of transaction detail behind
// identity verification and records the outcome of the conversation
// against the durable case record exactly once.
//
// One Engine serves one conversation. The external platform decides which
// operation runs next; the engine only guarantees that no ordering of
// calls can leak transaction detail before verification or write a second
// terminal outcome.
package fraud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

// State is the engine's position in the verification workflow.
type State string

const (
	StateNoCase     State = "no_case"
	StateCaseLoaded State = "case_loaded"
	StateVerified   State = "verified"
	StateResolved   State = "resolved"
)

// Session is the ephemeral per-conversation verification state. It holds
// a non-owning reference to the loaded case, so status updates always go
// to the authoritative record, and a verified flag that flips true only on
// an exact normalized answer match. It is never persisted.
type Session struct {
	CaseID   uint
	Verified bool
}

// Engine drives a single conversation through the verification workflow:
//
//	NoCase -> CaseLoaded -> Verified -> Resolved(confirmed_safe|confirmed_fraud)
//	              \------------------> Resolved(verification_failed)
type Engine struct {
	cases  store.CaseStore
	logger *zap.Logger

	state   State
	session Session
	loaded  *store.FraudCase // read copy for prompt text; the store row stays authoritative
	outcome store.CaseStatus
}

// NewEngine creates an engine for one conversation.
func NewEngine(cases store.CaseStore, logger *zap.Logger) *Engine {
	return &Engine{
		cases:  cases,
		logger: logger.With(zap.String("component", "fraud_engine")),
		state:  StateNoCase,
	}
}

// State returns the engine's current state.
func (e *Engine) State() State { return e.state }

// Outcome returns the terminal status once resolved, empty otherwise.
func (e *Engine) Outcome() store.CaseStatus { return e.outcome }

// Case returns the loaded case, or nil when none is loaded.
func (e *Engine) Case() *store.FraudCase { return e.loaded }

// LoadCase looks up the pending case for a customer name and loads it into
// the session. A failed lookup leaves the engine in its prior state. A
// second LoadCase before verification replaces the loaded case and resets
// the verified flag; after verification or resolution it is rejected.
func (e *Engine) LoadCase(ctx context.Context, name string) (*store.FraudCase, error) {
	switch e.state {
	case StateResolved:
		return nil, types.NewError(types.ErrCaseResolved, "case already resolved")
	case StateVerified:
		return nil, types.NewError(types.ErrInvalidTransition, "case already loaded and verified")
	}

	c, err := e.cases.FindPendingByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, types.NewError(types.ErrNotFound,
			fmt.Sprintf("no pending case for customer %q", name))
	}
	if err != nil {
		e.logger.Error("case lookup failed", zap.String("customer", name), zap.Error(err))
		return nil, types.NewError(types.ErrPersistenceFailure, "case lookup failed").
			WithCause(err).WithRetryable(true)
	}

	e.state = StateCaseLoaded
	e.session = Session{CaseID: c.ID}
	e.loaded = c

	e.logger.Info("case loaded",
		zap.Uint("case_id", c.ID),
		zap.String("customer", c.CustomerName),
	)
	return c, nil
}

// SecurityQuestion returns the stored challenge question. The answer is
// never exposed through any engine method, and the question itself is not
// re-exposed once the case is resolved.
func (e *Engine) SecurityQuestion() (string, error) {
	if e.state == StateResolved {
		return "", types.NewError(types.ErrCaseResolved, "case already resolved")
	}
	if e.loaded == nil {
		return "", types.NewError(types.ErrNoCaseLoaded, "no case loaded")
	}
	return e.loaded.SecurityQuestion, nil
}

// Verify compares a candidate answer against the case's stored answer,
// case-insensitively and ignoring surrounding whitespace. A match moves
// the engine to Verified; a mismatch keeps it in CaseLoaded so the caller
// may retry or abandon.
func (e *Engine) Verify(answer string) (bool, error) {
	switch e.state {
	case StateNoCase:
		return false, types.NewError(types.ErrNoCaseLoaded, "no case loaded")
	case StateResolved:
		return false, types.NewError(types.ErrCaseResolved, "case already resolved")
	case StateVerified:
		return true, nil
	}

	if !answersMatch(answer, e.loaded.SecurityAnswer) {
		e.session.Verified = false
		e.logger.Info("verification attempt failed", zap.Uint("case_id", e.session.CaseID))
		return false, nil
	}

	e.state = StateVerified
	e.session.Verified = true
	e.logger.Info("identity verified", zap.Uint("case_id", e.session.CaseID))
	return true, nil
}

// Details returns the transaction snapshot. This is the core guard of the
// workflow: it yields data only in Verified, never before.
func (e *Engine) Details() (*store.FraudCase, error) {
	switch e.state {
	case StateNoCase:
		return nil, types.NewError(types.ErrNoCaseLoaded, "no case loaded")
	case StateResolved:
		return nil, types.NewError(types.ErrCaseResolved, "case already resolved")
	}
	if !e.session.Verified {
		return nil, types.NewError(types.ErrNotVerified, "identity not verified")
	}
	return e.loaded, nil
}

// Confirm interprets the customer's yes/no response to "did you make this
// transaction" and resolves the case. Detection is substring-based on the
// normalized response; a response containing neither token leaves the
// engine in Verified and asks again. The affirmative token is checked
// first, so a response carrying both counts as a yes.
func (e *Engine) Confirm(ctx context.Context, response string) (store.CaseStatus, error) {
	switch e.state {
	case StateNoCase:
		return "", types.NewError(types.ErrNoCaseLoaded, "no case loaded")
	case StateResolved:
		return e.outcome, types.NewError(types.ErrCaseResolved, "case already resolved")
	case StateCaseLoaded:
		return "", types.NewError(types.ErrNotVerified, "identity not verified")
	}

	normalized := strings.ToLower(strings.TrimSpace(response))
	switch {
	case strings.Contains(normalized, "yes"):
		note := outcomeNote("customer verified identity and recognized the transaction; case closed as safe")
		if err := e.resolve(ctx, store.StatusConfirmedSafe, note); err != nil {
			return "", err
		}
		return store.StatusConfirmedSafe, nil

	case strings.Contains(normalized, "no"):
		note := outcomeNote("customer verified identity and denied the transaction; card blocked and case closed as fraud")
		if err := e.resolve(ctx, store.StatusConfirmedFraud, note); err != nil {
			return "", err
		}
		return store.StatusConfirmedFraud, nil

	default:
		return "", types.NewError(types.ErrInvalidResponse, "response contains neither yes nor no")
	}
}

// Abandon ends the conversation without completed verification and
// resolves the case as verification_failed. Valid from CaseLoaded or
// Verified; after resolution it is a rejected no-op.
func (e *Engine) Abandon(ctx context.Context) error {
	switch e.state {
	case StateNoCase:
		return types.NewError(types.ErrNoCaseLoaded, "no case loaded")
	case StateResolved:
		return types.NewError(types.ErrCaseResolved, "case already resolved")
	}

	note := outcomeNote("identity verification was not completed; no transaction detail disclosed")
	return e.resolve(ctx, store.StatusVerificationFailed, note)
}

// resolve performs the single terminal store write. On a store failure the
// engine stays in its pre-failure state so the operation can be retried;
// only a successful write latches Resolved.
func (e *Engine) resolve(ctx context.Context, status store.CaseStatus, note string) error {
	err := e.cases.SetStatus(ctx, e.session.CaseID, status, note)
	if errors.Is(err, store.ErrCaseResolved) {
		// Another conversation already resolved this case.
		return types.NewError(types.ErrCaseResolved, "case already resolved").WithCause(err)
	}
	if errors.Is(err, store.ErrNotFound) {
		return types.NewError(types.ErrNotFound, "case no longer exists").WithCause(err)
	}
	if err != nil {
		e.logger.Error("case status write failed",
			zap.Uint("case_id", e.session.CaseID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return types.NewError(types.ErrPersistenceFailure, "failed to record case outcome").
			WithCause(err).WithRetryable(true)
	}

	e.state = StateResolved
	e.outcome = status
	e.logger.Info("case resolved",
		zap.Uint("case_id", e.session.CaseID),
		zap.String("outcome", string(status)),
	)
	return nil
}

// answersMatch reports whether a candidate answer matches the stored one,
// ignoring case and surrounding whitespace.
func answersMatch(candidate, stored string) bool {
	return strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(stored))
}

// outcomeNote stamps a human-readable audit note with the resolution time.
func outcomeNote(description string) string {
	return fmt.Sprintf("[%s] %s", time.Now().Format(time.RFC3339), description)
}

package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/fraud"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/internal/metrics"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/tools"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

const fraudInstructions = `You are a calm and professional fraud-prevention voice agent for a bank.
A suspicious transaction was flagged on the customer's card and you are calling to verify it.

Your workflow, in order:
1. Ask for the customer's full name and use load_case to find their pending fraud alert.
2. Use ask_security_question and verify their identity with verify_answer. Never reveal the expected answer.
3. Only after successful verification, use read_transaction_details to share the flagged transaction.
4. Ask whether they made the transaction and use confirm_transaction with their answer.
5. If the customer cannot or will not verify, use end_verification_failed and close politely.

IMPORTANT GUIDELINES:
- Never disclose transaction details before verification succeeds.
- Ask ONE question at a time and keep responses short and conversational.
- No formatting, emojis, or asterisks; speak plainly.`

// Deterministic spoken texts. Tests and the platform rely on these being
// stable for a given engine state.
const (
	fraudTextVerifyFirst = "I can only share transaction details after your identity has been verified. Let's complete verification first."
	fraudTextNoCase      = "I don't have a fraud case loaded yet. Could you tell me the full name on the account?"
	fraudTextStoreDown   = "I'm having trouble reaching our case system right now. Let's try that again in a moment."
	fraudTextRetryAnswer = "I'm sorry, that answer doesn't match what we have on file. Would you like to try again?"
	fraudTextYesOrNo     = "I'm sorry, I didn't catch that. Did you make this transaction? Please answer yes or no."

	fraudTextClosedSafe = "Thank you for confirming. I've marked this transaction as safe and your card remains active. No further action is needed."
	fraudTextClosedFraud = "Understood. I've flagged this transaction as fraud and blocked your card so no future charge can go through. " +
		"You will not be charged for this transaction, and our team will send a replacement card."
	fraudTextClosedFailed = "For your security I can't discuss this case without verifying your identity. " +
		"The case stays with our fraud team and the card remains restricted. Goodbye."
)

// FraudAssistant gates disclosure of a flagged transaction behind identity
// verification. It owns exactly one verification engine, created with the
// conversation and threaded through every tool call, so verification state
// survives across the platform's separate tool invocations.
type FraudAssistant struct {
	*Assistant
	engine *fraud.Engine
	logger *zap.Logger
}

// NewFraudAssistant creates the fraud-verification assistant for one
// conversation.
func NewFraudAssistant(cases store.CaseStore, logger *zap.Logger) *FraudAssistant {
	fa := &FraudAssistant{
		Assistant: newAssistant("fraud-verification", fraudInstructions, logger),
		engine:    fraud.NewEngine(cases, logger),
		logger:    logger.With(zap.String("agent", "fraud-verification")),
	}

	fa.mustRegister("load_case", fa.loadCase, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Look up the customer's pending fraud case by their full name.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"name":{"type":"string","description":"Full name on the account"}},"required":["name"]}`),
		},
	})
	fa.mustRegister("ask_security_question", fa.askSecurityQuestion, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Get the security question to read to the customer.",
		},
	})
	fa.mustRegister("verify_answer", fa.verifyAnswer, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Check the customer's answer to the security question.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"answer":{"type":"string","description":"The customer's answer"}},"required":["answer"]}`),
		},
	})
	fa.mustRegister("read_transaction_details", fa.readTransactionDetails, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Read out the flagged transaction. Only works after verification.",
		},
	})
	fa.mustRegister("confirm_transaction", fa.confirmTransaction, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Record whether the customer recognizes the transaction (yes/no).",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"response":{"type":"string","description":"The customer's yes or no answer"}},"required":["response"]}`),
		},
	})
	fa.mustRegister("end_verification_failed", fa.endVerificationFailed, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Close the case when the customer cannot verify their identity.",
		},
	})

	return fa
}

// Engine exposes the underlying state machine, for tests and diagnostics.
func (fa *FraudAssistant) Engine() *fraud.Engine { return fa.engine }

func (fa *FraudAssistant) loadCase(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	c, err := fa.engine.LoadCase(ctx, in.Name)
	if err != nil {
		switch types.GetErrorCode(err) {
		case types.ErrNotFound:
			return fmt.Sprintf("I couldn't find a pending fraud case under the name %s. Could you confirm the full name on the account?", in.Name), nil
		case types.ErrCaseResolved:
			return fa.closingText(), nil
		case types.ErrInvalidTransition:
			return "We already have your case open and your identity verified. Let's continue with the flagged transaction.", nil
		default:
			return fa.persistenceApology("load_case", err), nil
		}
	}

	return fmt.Sprintf("Thank you %s. I found a pending fraud alert on your card ending in %s. "+
		"Before I can share any details, I need to verify your identity.", c.CustomerName, c.CardLast4), nil
}

func (fa *FraudAssistant) askSecurityQuestion(ctx context.Context, args json.RawMessage) (string, error) {
	q, err := fa.engine.SecurityQuestion()
	if err != nil {
		if types.GetErrorCode(err) == types.ErrCaseResolved {
			return fa.closingText(), nil
		}
		return fraudTextNoCase, nil
	}
	return "To verify your identity, please answer your security question: " + q, nil
}

func (fa *FraudAssistant) verifyAnswer(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	ok, err := fa.engine.Verify(in.Answer)
	if err != nil {
		switch types.GetErrorCode(err) {
		case types.ErrNoCaseLoaded:
			return fraudTextNoCase, nil
		case types.ErrCaseResolved:
			return fa.closingText(), nil
		default:
			return fa.persistenceApology("verify_answer", err), nil
		}
	}
	if !ok {
		return fraudTextRetryAnswer, nil
	}
	return "Thank you, your identity is verified. Would you like to hear the details of the flagged transaction?", nil
}

func (fa *FraudAssistant) readTransactionDetails(ctx context.Context, args json.RawMessage) (string, error) {
	c, err := fa.engine.Details()
	if err != nil {
		switch types.GetErrorCode(err) {
		case types.ErrNoCaseLoaded:
			return fraudTextNoCase, nil
		case types.ErrCaseResolved:
			return fa.closingText(), nil
		case types.ErrNotVerified:
			return fraudTextVerifyFirst, nil
		default:
			return fa.persistenceApology("read_transaction_details", err), nil
		}
	}

	return fmt.Sprintf("Here are the details of the flagged transaction: a charge of %s at %s on %s, "+
		"category %s, made via %s from %s, on the card ending in %s. "+
		"Did you make this transaction? Please answer yes or no.",
		formatAmount(c.Amount), c.Merchant,
		c.TxTime.Format("January 2, 2006 at 3:04 PM"),
		c.Category, c.Source, c.Location, c.CardLast4), nil
}

func (fa *FraudAssistant) confirmTransaction(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	outcome, err := fa.engine.Confirm(ctx, in.Response)
	if err != nil {
		switch types.GetErrorCode(err) {
		case types.ErrNoCaseLoaded:
			return fraudTextNoCase, nil
		case types.ErrNotVerified:
			return fraudTextVerifyFirst, nil
		case types.ErrInvalidResponse:
			return fraudTextYesOrNo, nil
		case types.ErrCaseResolved:
			return fa.closingText(), nil
		default:
			return fa.persistenceApology("confirm_transaction", err), nil
		}
	}

	metrics.ObserveCaseResolved(string(outcome))
	if outcome == store.StatusConfirmedSafe {
		return fraudTextClosedSafe, nil
	}
	return fraudTextClosedFraud, nil
}

func (fa *FraudAssistant) endVerificationFailed(ctx context.Context, args json.RawMessage) (string, error) {
	err := fa.engine.Abandon(ctx)
	if err != nil {
		switch types.GetErrorCode(err) {
		case types.ErrNoCaseLoaded:
			return fraudTextClosedFailed, nil
		case types.ErrCaseResolved:
			return fa.closingText(), nil
		default:
			return fa.persistenceApology("end_verification_failed", err), nil
		}
	}

	metrics.ObserveCaseResolved(string(store.StatusVerificationFailed))
	return fraudTextClosedFailed, nil
}

// closingText replays the closing narrative for an already resolved case
// without touching the store.
func (fa *FraudAssistant) closingText() string {
	switch fa.engine.Outcome() {
	case store.StatusConfirmedSafe:
		return fraudTextClosedSafe
	case store.StatusConfirmedFraud:
		return fraudTextClosedFraud
	default:
		return fraudTextClosedFailed
	}
}

// persistenceApology logs and counts a store failure, then turns it into a
// spoken retry prompt. Store failures are the one error class that also
// goes to the operator channel.
func (fa *FraudAssistant) persistenceApology(operation string, err error) string {
	fa.logger.Error("case store failure", zap.String("operation", operation), zap.Error(err))
	metrics.ObservePersistenceFailure(operation)
	return fraudTextStoreDown
}

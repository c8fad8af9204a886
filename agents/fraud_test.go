package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/fraud"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

func seedCaseStore(t *testing.T) (store.CaseStore, *store.FraudCase) {
	t.Helper()
	s := store.NewMemoryCaseStore()
	c := &store.FraudCase{
		CustomerName:     "Asha",
		CardLast4:        "4242",
		Merchant:         "XYZ Store",
		Amount:           4999.00,
		TxTime:           time.Date(2025, 11, 3, 14, 12, 0, 0, time.UTC),
		Category:         "electronics",
		Source:           "online",
		Location:         "Mumbai, IN",
		SecurityQuestion: "What is your favorite color?",
		SecurityAnswer:   "blue",
	}
	require.NoError(t, s.Create(context.Background(), c))
	return s, c
}

// call drives one tool invocation through the assistant the way the
// platform does and fails the test on infrastructure errors.
func call(t *testing.T, a *Assistant, name string, args string) string {
	t.Helper()
	result := a.HandleToolCall(context.Background(), types.ToolCall{
		ID:        fmt.Sprintf("call-%s", name),
		Name:      name,
		Arguments: json.RawMessage(args),
	})
	require.False(t, result.IsError(), "tool %s failed: %s", name, result.Error)
	return result.Reply
}

func TestFraudAssistant_RecognizedTransaction(t *testing.T) {
	s, c := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	reply := call(t, fa.Assistant, "load_case", `{"name":"Asha"}`)
	assert.Contains(t, reply, "Asha")
	assert.Contains(t, reply, "4242")
	assert.NotContains(t, reply, "XYZ Store")
	assert.NotContains(t, reply, "4,999")

	reply = call(t, fa.Assistant, "ask_security_question", `{}`)
	assert.Contains(t, reply, "What is your favorite color?")

	reply = call(t, fa.Assistant, "verify_answer", `{"answer":"blue"}`)
	assert.Contains(t, reply, "verified")

	reply = call(t, fa.Assistant, "read_transaction_details", `{}`)
	assert.Contains(t, reply, "4,999.00")
	assert.Contains(t, reply, "XYZ Store")
	assert.Contains(t, reply, "yes or no")

	reply = call(t, fa.Assistant, "confirm_transaction", `{"response":"yes, that was me"}`)
	assert.Equal(t, fraudTextClosedSafe, reply)

	saved, err := s.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusConfirmedSafe, saved.Status)
}

func TestFraudAssistant_WrongAnswerBlocksDetails(t *testing.T) {
	s, c := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	call(t, fa.Assistant, "load_case", `{"name":"Asha"}`)

	reply := call(t, fa.Assistant, "verify_answer", `{"answer":"red"}`)
	assert.Equal(t, fraudTextRetryAnswer, reply)

	reply = call(t, fa.Assistant, "read_transaction_details", `{}`)
	assert.Equal(t, fraudTextVerifyFirst, reply)
	assert.NotContains(t, reply, "XYZ Store")

	// The case is untouched and available for a later attempt.
	saved, err := s.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusPendingReview, saved.Status)
}

func TestFraudAssistant_DeniedTransaction(t *testing.T) {
	s, c := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	call(t, fa.Assistant, "load_case", `{"name":"Asha"}`)
	call(t, fa.Assistant, "verify_answer", `{"answer":" BLUE "}`)
	call(t, fa.Assistant, "read_transaction_details", `{}`)

	reply := call(t, fa.Assistant, "confirm_transaction", `{"response":"No, I never made that purchase"}`)
	assert.Contains(t, reply, "blocked your card")
	assert.Contains(t, reply, "You will not be charged")

	saved, err := s.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusConfirmedFraud, saved.Status)
	assert.Contains(t, saved.OutcomeNote, "fraud")
}

func TestFraudAssistant_UnknownCustomer(t *testing.T) {
	s, _ := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	reply := call(t, fa.Assistant, "load_case", `{"name":"Ravi"}`)
	assert.Contains(t, reply, "couldn't find")
	assert.Contains(t, reply, "Ravi")

	// With no case loaded, the rest of the workflow refuses politely.
	reply = call(t, fa.Assistant, "read_transaction_details", `{}`)
	assert.Equal(t, fraudTextNoCase, reply)
	reply = call(t, fa.Assistant, "confirm_transaction", `{"response":"yes"}`)
	assert.Equal(t, fraudTextNoCase, reply)
}

func TestFraudAssistant_AmbiguousConfirmReprompts(t *testing.T) {
	s, _ := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	call(t, fa.Assistant, "load_case", `{"name":"Asha"}`)
	call(t, fa.Assistant, "verify_answer", `{"answer":"blue"}`)

	reply := call(t, fa.Assistant, "confirm_transaction", `{"response":"hmm, let me think"}`)
	assert.Equal(t, fraudTextYesOrNo, reply)
	assert.Equal(t, fraud.StateVerified, fa.Engine().State())
}

func TestFraudAssistant_VerificationFailedClose(t *testing.T) {
	s, c := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	call(t, fa.Assistant, "load_case", `{"name":"Asha"}`)
	call(t, fa.Assistant, "verify_answer", `{"answer":"green"}`)

	reply := call(t, fa.Assistant, "end_verification_failed", `{}`)
	assert.Equal(t, fraudTextClosedFailed, reply)

	saved, err := s.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusVerificationFailed, saved.Status)
}

func TestFraudAssistant_PostResolutionReplaysClosing(t *testing.T) {
	s, _ := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	call(t, fa.Assistant, "load_case", `{"name":"Asha"}`)
	call(t, fa.Assistant, "verify_answer", `{"answer":"blue"}`)
	call(t, fa.Assistant, "confirm_transaction", `{"response":"yes"}`)

	// Every further tool call replays the closing text, with no new
	// store writes.
	for _, tool := range []string{"read_transaction_details", "ask_security_question", "end_verification_failed"} {
		reply := call(t, fa.Assistant, tool, `{}`)
		assert.Equal(t, fraudTextClosedSafe, reply, "tool %s after resolution", tool)
	}
	reply := call(t, fa.Assistant, "confirm_transaction", `{"response":"no"}`)
	assert.Equal(t, fraudTextClosedSafe, reply)
	reply = call(t, fa.Assistant, "verify_answer", `{"answer":"blue"}`)
	assert.Equal(t, fraudTextClosedSafe, reply)
}

func TestFraudAssistant_ToolSchemas(t *testing.T) {
	s, _ := seedCaseStore(t)
	fa := NewFraudAssistant(s, zap.NewNop())

	schemas := fa.ToolSchemas()
	names := make(map[string]bool, len(schemas))
	for _, sc := range schemas {
		names[sc.Name] = true
	}
	for _, want := range []string{
		"load_case", "ask_security_question", "verify_answer",
		"read_transaction_details", "confirm_transaction", "end_verification_failed",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
	assert.NotEmpty(t, fa.Instructions())
	assert.Equal(t, "fraud-verification", fa.Name())
}

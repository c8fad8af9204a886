package fraud

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
)

// Property: for any sequence of operations in any order, transaction
// detail never comes back unless the engine is verified, and the store
// receives at most one terminal write.
func TestEngine_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inner := store.NewMemoryCaseStore()
		ctx := context.Background()
		require.NoError(t, inner.Create(ctx, &store.FraudCase{
			CustomerName:     "Asha",
			SecurityQuestion: "favorite color?",
			SecurityAnswer:   "blue",
			Merchant:         "XYZ Store",
			Amount:           4999.00,
		}))
		cs := &countingStore{CaseStore: inner}
		e := NewEngine(cs, zap.NewNop())

		ops := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 40).Draw(rt, "ops")
		answers := rapid.SliceOfN(rapid.StringMatching(`[a-zA-Z ]{0,12}`), 1, 40).Draw(rt, "answers")

		for i, op := range ops {
			input := answers[i%len(answers)]
			switch op {
			case 0:
				e.LoadCase(ctx, "Asha")
			case 1:
				e.SecurityQuestion()
			case 2:
				verified := e.State() == StateVerified
				ok, err := e.Verify(input)
				if !verified && err == nil && ok {
					// Only the exact normalized answer may verify.
					norm := strings.ToLower(strings.TrimSpace(input))
					if norm != "blue" {
						rt.Fatalf("answer %q verified but is not the stored answer", input)
					}
				}
			case 3:
				details, err := e.Details()
				if err == nil && e.State() != StateVerified {
					rt.Fatalf("details disclosed in state %s", e.State())
				}
				if err != nil && details != nil {
					rt.Fatalf("details returned alongside an error")
				}
			case 4:
				e.Confirm(ctx, input)
			case 5:
				e.Abandon(ctx)
			}

			if cs.writes > 1 {
				rt.Fatalf("more than one terminal store write")
			}
			if cs.writes == 1 && e.State() != StateResolved {
				rt.Fatalf("terminal write happened but engine is in state %s", e.State())
			}
		}
	})
}

// Property: answer matching is insensitive to case and surrounding
// whitespace, and to nothing else.
func TestAnswersMatch_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		stored := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "stored")
		pad := rapid.StringMatching(`[ \t]{0,4}`).Draw(rt, "pad")

		decorated := pad + strings.ToUpper(stored) + pad
		if !answersMatch(decorated, stored) {
			rt.Fatalf("%q should match stored %q", decorated, stored)
		}

		other := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "other")
		if strings.ToLower(other) != strings.ToLower(stored) && answersMatch(other, stored) {
			rt.Fatalf("%q should not match stored %q", other, stored)
		}
	})
}

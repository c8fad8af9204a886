package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/agents"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

// runDemo walks a scripted fraud verification call against an in-memory
// store so the workflow can be inspected without any infrastructure.
func runDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	fs.Parse(args)

	logger := zap.NewNop()
	cases := store.NewMemoryCaseStore()

	ctx := context.Background()
	seeded := demoCases()[0]
	if err := cases.Create(ctx, seeded); err != nil {
		exitErr(err)
	}

	fa := agents.NewFraudAssistant(cases, logger)

	script := []struct {
		caller string
		tool   string
		args   string
	}{
		{"Hi, this is Asha.", "load_case", `{"name":"Asha"}`},
		{"Okay.", "ask_security_question", `{}`},
		{"It's blue.", "verify_answer", `{"answer":"blue"}`},
		{"Yes, go ahead.", "read_transaction_details", `{}`},
		{"Yes, that was me.", "confirm_transaction", `{"response":"yes, that was me"}`},
	}

	fmt.Println("=== scripted fraud verification call ===")
	for i, step := range script {
		fmt.Printf("\n[caller] %s\n", step.caller)
		result := fa.HandleToolCall(ctx, types.ToolCall{
			ID:        fmt.Sprintf("demo-%d", i),
			Name:      step.tool,
			Arguments: json.RawMessage(step.args),
		})
		if result.IsError() {
			exitErr(fmt.Errorf("tool %s failed: %s", step.tool, result.Error))
		}
		fmt.Printf("[agent]  %s\n", result.Reply)
	}

	final, err := cases.GetByID(ctx, seeded.ID)
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("\n=== case %d closed with status %q ===\n", final.ID, final.Status)
	fmt.Printf("note: %s\n", final.OutcomeNote)
}

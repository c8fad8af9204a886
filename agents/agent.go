// Package agents defines the voice assistants exposed to the external
// conversation platform. Each assistant owns the per-conversation state of
// its workflow (verification session, cart, order draft) and exposes it as
// a fixed set of named tools returning spoken text.
//
// One assistant instance serves exactly one conversation: the platform
// creates it when the conversation starts and discards it when the
// conversation ends. Tool invocations for a conversation arrive one at a
// time, so assistants keep no locks around their session state.
package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/tools"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

// Assistant is one configured voice assistant: a name, the instructions
// handed to the platform's language model, and the tool set it may invoke.
type Assistant struct {
	name         string
	instructions string
	registry     *tools.Registry
	executor     *tools.Executor
}

func newAssistant(name, instructions string, logger *zap.Logger) *Assistant {
	registry := tools.NewRegistry(logger)
	return &Assistant{
		name:         name,
		instructions: instructions,
		registry:     registry,
		executor:     tools.NewExecutor(registry, logger),
	}
}

// Name returns the assistant's name.
func (a *Assistant) Name() string { return a.name }

// Instructions returns the system instructions for the platform's model.
func (a *Assistant) Instructions() string { return a.instructions }

// ToolSchemas returns the schemas of every tool this assistant exposes.
func (a *Assistant) ToolSchemas() []types.ToolSchema { return a.registry.List() }

// HandleToolCall executes one tool invocation chosen by the platform.
func (a *Assistant) HandleToolCall(ctx context.Context, call types.ToolCall) types.ToolResult {
	return a.executor.ExecuteOne(ctx, call)
}

// mustRegister panics on a duplicate tool name. Registration happens at
// assistant construction with fixed names, so a failure is a programming
// error, not a runtime condition.
func (a *Assistant) mustRegister(name string, fn tools.Func, meta tools.Metadata) {
	if err := a.registry.Register(name, fn, meta); err != nil {
		panic(err)
	}
}

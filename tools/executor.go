package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/internal/metrics"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

// Executor runs tool calls against a registry. Calls belonging to one
// conversation arrive one at a time and are executed strictly in the
// order given; the executor never reorders or parallelizes them.
type Executor struct {
	registry *Registry
	logger   *zap.Logger
}

// NewExecutor creates a tool executor.
func NewExecutor(registry *Registry, logger *zap.Logger) *Executor {
	return &Executor{
		registry: registry,
		logger:   logger.With(zap.String("component", "tool_executor")),
	}
}

// Execute runs a sequence of tool calls in order.
func (e *Executor) Execute(ctx context.Context, calls []types.ToolCall) []types.ToolResult {
	results := make([]types.ToolResult, len(calls))
	for i, call := range calls {
		results[i] = e.ExecuteOne(ctx, call)
	}
	return results
}

// ExecuteOne runs a single tool call with its configured timeout.
func (e *Executor) ExecuteOne(ctx context.Context, call types.ToolCall) types.ToolResult {
	start := time.Now()
	result := types.ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
	}

	fn, meta, err := e.registry.Get(call.Name)
	if err != nil {
		result.Error = fmt.Sprintf("tool not found: %s", err.Error())
		result.Duration = time.Since(start)
		e.logger.Error("tool not found", zap.String("name", call.Name), zap.Error(err))
		return result
	}

	if !e.registry.allow(call.Name) {
		result.Error = "rate limit exceeded"
		result.Duration = time.Since(start)
		e.logger.Warn("tool rate limit exceeded", zap.String("name", call.Name))
		return result
	}

	// Arguments must at least be valid JSON before the tool sees them.
	if len(call.Arguments) > 0 {
		var tmp any
		if err := json.Unmarshal(call.Arguments, &tmp); err != nil {
			result.Error = fmt.Sprintf("invalid arguments: %s", err.Error())
			result.Duration = time.Since(start)
			e.logger.Error("invalid tool arguments", zap.String("name", call.Name), zap.Error(err))
			return result
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, meta.Timeout)
	defer cancel()

	// Buffered so the goroutine exits even when nobody receives after a
	// timeout.
	doneChan := make(chan struct {
		reply string
		err   error
	}, 1)

	go func() {
		reply, err := fn(execCtx, call.Arguments)
		select {
		case doneChan <- struct {
			reply string
			err   error
		}{reply, err}:
		case <-execCtx.Done():
		}
	}()

	select {
	case done := <-doneChan:
		result.Duration = time.Since(start)
		if done.err != nil {
			result.Error = done.err.Error()
			e.logger.Error("tool execution failed",
				zap.String("name", call.Name),
				zap.Error(done.err),
				zap.Duration("duration", result.Duration))
		} else {
			result.Reply = done.reply
			e.logger.Info("tool executed",
				zap.String("name", call.Name),
				zap.Duration("duration", result.Duration))
		}

	case <-execCtx.Done():
		result.Error = fmt.Sprintf("execution timeout after %s", meta.Timeout)
		result.Duration = time.Since(start)
		e.logger.Error("tool execution timeout",
			zap.String("name", call.Name),
			zap.Duration("timeout", meta.Timeout))
	}

	metrics.ObserveToolInvocation(call.Name, result.Error == "")
	return result
}

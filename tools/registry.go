// Package tools exposes assistant operations as independently invocable
// named tools matching the external platform's tool-invocation contract.
//
// The platform's language model decides which tool runs next and in what
// order; the registry and executor here only guarantee that every
// invocation maps to a registered function and comes back with a spoken
// reply, an error string, and a duration.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

// Func is the tool function signature. The returned string is spoken back
// to the user verbatim; conversational refusals and retry prompts are
// ordinary replies, not errors.
type Func func(ctx context.Context, args json.RawMessage) (string, error)

// Metadata describes a registered tool.
type Metadata struct {
	Schema    types.ToolSchema // tool JSON schema shown to the model
	Timeout   time.Duration    // execution timeout (default 30s)
	RateLimit *RateLimitConfig // optional per-tool rate limit
}

// RateLimitConfig caps how often a tool may run.
type RateLimitConfig struct {
	MaxCalls int           // maximum calls per window
	Window   time.Duration // time window
}

// Registry holds the named tools of one assistant.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Func
	metadata map[string]Metadata
	limiters map[string]*rate.Limiter
	logger   *zap.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		tools:    make(map[string]Func),
		metadata: make(map[string]Metadata),
		limiters: make(map[string]*rate.Limiter),
		logger:   logger.With(zap.String("component", "tool_registry")),
	}
}

// Register adds a tool under a unique name.
func (r *Registry) Register(name string, fn Func, metadata Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	if metadata.Schema.Name == "" {
		metadata.Schema.Name = name
	}
	if metadata.Schema.Name != name {
		return fmt.Errorf("tool name mismatch: schema.Name=%s, register name=%s", metadata.Schema.Name, name)
	}
	if metadata.Timeout == 0 {
		metadata.Timeout = 30 * time.Second
	}

	r.tools[name] = fn
	r.metadata[name] = metadata

	if rl := metadata.RateLimit; rl != nil {
		limit := rate.Limit(float64(rl.MaxCalls) / rl.Window.Seconds())
		r.limiters[name] = rate.NewLimiter(limit, rl.MaxCalls)
	}

	r.logger.Debug("tool registered", zap.String("name", name), zap.Duration("timeout", metadata.Timeout))
	return nil
}

// Get returns a tool function and its metadata.
func (r *Registry) Get(name string) (Func, Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.tools[name]
	if !ok {
		return nil, Metadata{}, fmt.Errorf("tool %s not found", name)
	}
	return fn, r.metadata[name], nil
}

// List returns the schemas of all registered tools.
func (r *Registry) List() []types.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]types.ToolSchema, 0, len(r.metadata))
	for _, meta := range r.metadata {
		schemas = append(schemas, meta.Schema)
	}
	return schemas
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// allow checks the tool's rate limiter.
func (r *Registry) allow(name string) bool {
	r.mu.RLock()
	limiter, ok := r.limiters[name]
	r.mu.RUnlock()
	if !ok {
		return true
	}
	return limiter.Allow()
}

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	echo := func(ctx context.Context, args json.RawMessage) (string, error) {
		return string(args), nil
	}

	require.NoError(t, r.Register("echo", echo, Metadata{}))
	assert.True(t, r.Has("echo"))

	t.Run("DuplicateRejected", func(t *testing.T) {
		err := r.Register("echo", echo, Metadata{})
		assert.Error(t, err)
	})

	t.Run("NameMismatchRejected", func(t *testing.T) {
		err := r.Register("a", echo, Metadata{Schema: types.ToolSchema{Name: "b"}})
		assert.Error(t, err)
	})

	t.Run("DefaultTimeout", func(t *testing.T) {
		_, meta, err := r.Get("echo")
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, meta.Timeout)
	})

	t.Run("List", func(t *testing.T) {
		schemas := r.List()
		require.Len(t, schemas, 1)
		assert.Equal(t, "echo", schemas[0].Name)
	})
}

func TestExecutor_ExecuteOne(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	logger := zap.NewNop()

	require.NoError(t, r.Register("greet", func(ctx context.Context, args json.RawMessage) (string, error) {
		var in struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return "", err
		}
		return "Hello, " + in.Name, nil
	}, Metadata{}))

	require.NoError(t, r.Register("broken", func(ctx context.Context, args json.RawMessage) (string, error) {
		return "", errors.New("boom")
	}, Metadata{}))

	require.NoError(t, r.Register("slow", func(ctx context.Context, args json.RawMessage) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "done", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}, Metadata{Timeout: 50 * time.Millisecond}))

	e := NewExecutor(r, logger)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res := e.ExecuteOne(ctx, types.ToolCall{
			ID:        "1",
			Name:      "greet",
			Arguments: json.RawMessage(`{"name":"Asha"}`),
		})
		assert.False(t, res.IsError())
		assert.Equal(t, "Hello, Asha", res.Reply)
	})

	t.Run("UnknownTool", func(t *testing.T) {
		res := e.ExecuteOne(ctx, types.ToolCall{ID: "2", Name: "missing"})
		assert.True(t, res.IsError())
		assert.Contains(t, res.Error, "not found")
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		res := e.ExecuteOne(ctx, types.ToolCall{
			ID:        "3",
			Name:      "greet",
			Arguments: json.RawMessage(`{not json`),
		})
		assert.True(t, res.IsError())
		assert.Contains(t, res.Error, "invalid arguments")
	})

	t.Run("ToolError", func(t *testing.T) {
		res := e.ExecuteOne(ctx, types.ToolCall{ID: "4", Name: "broken"})
		assert.True(t, res.IsError())
		assert.Equal(t, "boom", res.Error)
	})

	t.Run("Timeout", func(t *testing.T) {
		res := e.ExecuteOne(ctx, types.ToolCall{ID: "5", Name: "slow"})
		assert.True(t, res.IsError())
		assert.Contains(t, res.Error, "timeout")
	})
}

func TestExecutor_SequentialOrder(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	var order []string
	require.NoError(t, r.Register("record", func(ctx context.Context, args json.RawMessage) (string, error) {
		var in struct {
			Step string `json:"step"`
		}
		_ = json.Unmarshal(args, &in)
		order = append(order, in.Step)
		return in.Step, nil
	}, Metadata{}))

	e := NewExecutor(r, zap.NewNop())

	calls := []types.ToolCall{
		{ID: "1", Name: "record", Arguments: json.RawMessage(`{"step":"a"}`)},
		{ID: "2", Name: "record", Arguments: json.RawMessage(`{"step":"b"}`)},
		{ID: "3", Name: "record", Arguments: json.RawMessage(`{"step":"c"}`)},
	}
	results := e.Execute(context.Background(), calls)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"a", "b", "c"}, order, "calls run strictly in the order given")
}

func TestExecutor_RateLimit(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	require.NoError(t, r.Register("limited", func(ctx context.Context, args json.RawMessage) (string, error) {
		return "ok", nil
	}, Metadata{RateLimit: &RateLimitConfig{MaxCalls: 2, Window: time.Hour}}))

	e := NewExecutor(r, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res := e.ExecuteOne(ctx, types.ToolCall{Name: "limited"})
		assert.False(t, res.IsError())
	}
	res := e.ExecuteOne(ctx, types.ToolCall{Name: "limited"})
	assert.True(t, res.IsError())
	assert.Contains(t, res.Error, "rate limit")
}

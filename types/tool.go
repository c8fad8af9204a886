// Package types provides core types shared across the voice-agent backend.
// This package has ZERO dependencies on other packages in this module to
// avoid circular imports.
package types

import (
	"encoding/json"
	"time"
)

// ToolSchema describes a named operation the external conversation platform
// may invoke on an assistant. Parameters is a JSON Schema document.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToolCall represents a tool invocation request chosen by the platform's
// language model. The caller decides the order; the backend never reorders.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult represents the result of a tool execution. Reply carries the
// user-facing spoken text; Error is set only for infrastructure failures
// (unknown tool, timeout), never for conversational refusals.
type ToolResult struct {
	ToolCallID string        `json:"tool_call_id"`
	Name       string        `json:"name"`
	Reply      string        `json:"reply"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// IsError returns true if the tool execution failed.
func (tr ToolResult) IsError() bool {
	return tr.Error != ""
}

// ToMessage converts ToolResult to a Message.
func (tr ToolResult) ToMessage() Message {
	content := tr.Reply
	if tr.Error != "" {
		content = "Error: " + tr.Error
	}
	return Message{
		Role:       RoleTool,
		Content:    content,
		Name:       tr.Name,
		ToolCallID: tr.ToolCallID,
	}
}

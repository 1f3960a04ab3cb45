package llm

import (
	"encoding/json"
	"fmt"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Sampling holds per-call generation parameters.
type Sampling struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// ToolSpec declares a callable function in the OpenAI "tools" format.
type ToolSpec struct {
	Type     string       `json:"type"`
	Function FunctionSpec `json:"function"`
}

type FunctionSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type ChatRequest struct {
	Messages []Message
	Sampling Sampling
	// Tools is sent only when non-empty.
	Tools []ToolSpec
}

type ToolCall struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function"`
}

type ChatResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// ToolNames returns the function names of structured tool calls, skipping blanks.
func (r ChatResponse) ToolNames() []string {
	out := make([]string, 0, len(r.ToolCalls))
	for _, tc := range r.ToolCalls {
		if tc.Function.Name != "" {
			out = append(out, tc.Function.Name)
		}
	}
	return out
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

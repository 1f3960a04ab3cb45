// Package llm talks to OpenAI-compatible inference servers (llama.cpp, vLLM,
// Ollama) over /v1/chat/completions, /v1/models and /v1/embeddings.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

type Client struct {
	endpoint string
	model    string
	apiKey   string
	c        *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		model:    strings.TrimSpace(cfg.Model),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		c:        &http.Client{Timeout: timeout},
	}
}

func (cl *Client) Endpoint() string { return cl.endpoint }

// Chat issues a single non-streaming chat completion. Non-2xx responses are
// returned as *HTTPError.
func (cl *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	body := map[string]any{
		"messages":    req.Messages,
		"temperature": req.Sampling.Temperature,
		"top_p":       req.Sampling.TopP,
		"stream":      false,
	}
	if req.Sampling.MaxTokens > 0 {
		body["max_tokens"] = req.Sampling.MaxTokens
	}
	if cl.model != "" {
		body["model"] = cl.model
	}
	if len(req.Tools) > 0 {
		body["tools"] = req.Tools
	}

	respBody, err := cl.do(ctx, http.MethodPost, "/v1/chat/completions", body)
	if err != nil {
		return ChatResponse{}, err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content   *string    `json:"content"`
				ToolCalls []ToolCall `json:"tool_calls"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return ChatResponse{}, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return ChatResponse{}, errors.New("chat response has no choices")
	}

	choice := parsed.Choices[0]
	out := ChatResponse{
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: strings.TrimSpace(choice.FinishReason),
	}
	if choice.Message.Content != nil {
		out.Content = *choice.Message.Content
	}
	return out, nil
}

// ListModels is the reachability probe used before a run.
func (cl *Client) ListModels(ctx context.Context) ([]string, error) {
	respBody, err := cl.do(ctx, http.MethodGet, "/v1/models", nil)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}
	ids := make([]string, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Embed returns one vector per input text, ordered like the input.
func (cl *Client) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts to embed")
	}
	body := map[string]any{"input": texts}
	if model = strings.TrimSpace(model); model != "" {
		body["model"] = model
	} else if cl.model != "" {
		body["model"] = cl.model
	}

	respBody, err := cl.do(ctx, http.MethodPost, "/v1/embeddings", body)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}

	out := make([][]float32, len(texts))
	for _, item := range parsed.Data {
		if item.Index < 0 || item.Index >= len(out) {
			return nil, fmt.Errorf("embedding index out of range: %d", item.Index)
		}
		out[item.Index] = item.Embedding
	}
	for i, v := range out {
		if len(v) == 0 {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return out, nil
}

func (cl *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, cl.endpoint+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+cl.apiKey)
	}

	resp, err := cl.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

package testutil

import (
	"encoding/json"
	"hash/fnv"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ChatMessage mirrors the wire shape of a chat message. It is declared here so
// that packages under test do not have to be imported.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCall is one recorded /v1/chat/completions request.
type ChatCall struct {
	Messages []ChatMessage
	Body     map[string]any
}

// System returns the first system message content.
func (c ChatCall) System() string {
	for _, m := range c.Messages {
		if m.Role == "system" {
			return m.Content
		}
	}
	return ""
}

// User returns the last user message content.
func (c ChatCall) User() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == "user" {
			return c.Messages[i].Content
		}
	}
	return ""
}

// Reply describes how the fake server answers a chat call. A zero Status means 200.
type Reply struct {
	Status    int
	Content   string
	ToolCalls []string
	RawBody   string
}

// ChatServer is an OpenAI-compatible fake with scripted chat replies,
// deterministic bag-of-words embeddings and a /v1/models listing.
type ChatServer struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []ChatCall
	respond func(call ChatCall, n int) Reply
	dims    int
}

// NewChatServer starts a fake server; it is closed via t.Cleanup.
func NewChatServer(t testing.TB, respond func(call ChatCall, n int) Reply) *ChatServer {
	t.Helper()
	s := &ChatServer{respond: respond, dims: 64}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", s.handleChat)
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"id": "fake-model"}},
		})
	})
	mux.HandleFunc("/v1/embeddings", s.handleEmbeddings)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Script replies with the given sequence, repeating the last entry once exhausted.
func Script(replies ...Reply) func(ChatCall, int) Reply {
	return func(_ ChatCall, n int) Reply {
		if len(replies) == 0 {
			return Reply{}
		}
		if n >= len(replies) {
			return replies[len(replies)-1]
		}
		return replies[n]
	}
}

func (s *ChatServer) Calls() []ChatCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatCall, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *ChatServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	call := ChatCall{Body: body}
	if raw, err := json.Marshal(body["messages"]); err == nil {
		_ = json.Unmarshal(raw, &call.Messages)
	}

	s.mu.Lock()
	n := len(s.calls)
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	reply := Reply{}
	if s.respond != nil {
		reply = s.respond(call, n)
	}
	if reply.Status != 0 && reply.Status != http.StatusOK {
		w.WriteHeader(reply.Status)
		_, _ = w.Write([]byte(reply.RawBody))
		return
	}
	if reply.RawBody != "" {
		_, _ = w.Write([]byte(reply.RawBody))
		return
	}

	msg := map[string]any{"role": "assistant", "content": reply.Content}
	if len(reply.ToolCalls) > 0 {
		calls := make([]any, 0, len(reply.ToolCalls))
		for i, name := range reply.ToolCalls {
			calls = append(calls, map[string]any{
				"id":       "call_" + string(rune('a'+i)),
				"type":     "function",
				"function": map[string]any{"name": name, "arguments": "{}"},
			})
		}
		msg["tool_calls"] = calls
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []any{map[string]any{"message": msg, "finish_reason": "stop"}},
	})
}

func (s *ChatServer) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input []string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	data := make([]any, 0, len(body.Input))
	for i, text := range body.Input {
		data = append(data, map[string]any{"index": i, "embedding": HashEmbedding(text, s.dims)})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

// HashEmbedding is a deterministic, normalized bag-of-words vector: texts that
// share words end up close in cosine space.
func HashEmbedding(text string, dims int) []float32 {
	v := make([]float32, dims)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[h.Sum32()%uint32(dims)] += 1
	}
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm == 0 {
		v[0] = 1
		return v
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v
}

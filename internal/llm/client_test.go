package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golovatskygroup/chainbench/internal/testutil"
)

func TestChatSendsSamplingAndParsesToolCalls(t *testing.T) {
	srv := testutil.NewChatServer(t, testutil.Script(testutil.Reply{
		Content:   "calling",
		ToolCalls: []string{"filesystem.list_dir"},
	}))

	cl := NewClient(Config{Endpoint: srv.URL + "/", Model: "m", Timeout: 5 * time.Second})
	resp, err := cl.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "list files"}},
		Sampling: Sampling{Temperature: 0.1, TopP: 0.2, MaxTokens: 512},
	})
	require.NoError(t, err)
	assert.Equal(t, "calling", resp.Content)
	assert.Equal(t, []string{"filesystem.list_dir"}, resp.ToolNames())

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sys", calls[0].System())
	assert.Equal(t, "list files", calls[0].User())
	assert.Equal(t, false, calls[0].Body["stream"])
	assert.Equal(t, float64(512), calls[0].Body["max_tokens"])
	assert.Equal(t, 0.2, calls[0].Body["top_p"])
	assert.Equal(t, "m", calls[0].Body["model"])
}

func TestChatSendsToolsOnlyWhenSet(t *testing.T) {
	srv := testutil.NewChatServer(t, nil)
	cl := NewClient(Config{Endpoint: srv.URL})

	_, err := cl.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}})
	require.NoError(t, err)
	_, err = cl.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "x"}},
		Tools: []ToolSpec{{Type: "function", Function: FunctionSpec{
			Name:       "filesystem.read_file",
			Parameters: []byte(`{"type":"object"}`),
		}}},
	})
	require.NoError(t, err)

	calls := srv.Calls()
	require.Len(t, calls, 2)
	assert.NotContains(t, calls[0].Body, "tools")
	tools, ok := calls[1].Body["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "filesystem.read_file", fn["name"])
}

func TestChatNonSuccessIsHTTPError(t *testing.T) {
	srv := testutil.NewChatServer(t, testutil.Script(testutil.Reply{Status: http.StatusServiceUnavailable, RawBody: "loading model"}))

	cl := NewClient(Config{Endpoint: srv.URL})
	_, err := cl.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "HTTP 503: loading model", err.Error())
}

func TestChatEmptyChoices(t *testing.T) {
	srv := testutil.NewChatServer(t, testutil.Script(testutil.Reply{RawBody: `{"choices":[]}`}))

	_, err := NewClient(Config{Endpoint: srv.URL}).Chat(context.Background(), ChatRequest{})
	assert.ErrorContains(t, err, "no choices")
}

func TestChatNullContent(t *testing.T) {
	srv := testutil.NewChatServer(t, testutil.Script(testutil.Reply{
		RawBody: `{"choices":[{"message":{"content":null,"tool_calls":[{"function":{"name":"email.send_email"}}]}}]}`,
	}))

	resp, err := NewClient(Config{Endpoint: srv.URL}).Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Content)
	assert.Equal(t, []string{"email.send_email"}, resp.ToolNames())
}

func TestListModels(t *testing.T) {
	srv := testutil.NewChatServer(t, nil)

	ids, err := NewClient(Config{Endpoint: srv.URL}).ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fake-model"}, ids)
}

func TestListModelsUnreachable(t *testing.T) {
	cl := NewClient(Config{Endpoint: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := cl.ListModels(context.Background())
	assert.Error(t, err)
}

func TestEmbedKeepsInputOrder(t *testing.T) {
	srv := testutil.NewChatServer(t, nil)

	vecs, err := NewClient(Config{Endpoint: srv.URL}).Embed(context.Background(), "emb", []string{"read file", "send email"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, testutil.HashEmbedding("read file", 64), vecs[0])
	assert.Equal(t, testutil.HashEmbedding("send email", 64), vecs[1])
}

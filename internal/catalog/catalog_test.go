package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCoversEveryServer(t *testing.T) {
	c := Default()
	byServer := c.ServerTools()
	for _, s := range Servers() {
		assert.NotEmpty(t, byServer[s.Name], "server %s has no tools", s.Name)
	}
	assert.Len(t, byServer, len(Servers()))
}

func TestDefaultMockResultsAreJSON(t *testing.T) {
	for _, tool := range Default().All() {
		var v any
		require.NoError(t, json.Unmarshal([]byte(MockResult(tool.Name)), &v), tool.Name)
		_, canned := mockResults[tool.Name]
		assert.True(t, canned, "no canned result for %s", tool.Name)
	}
}

func TestMockResultFallback(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(MockResult("weather.forecast")), &v))
	assert.Equal(t, "weather.forecast", v["tool"])
}

func TestNewRejectsBadNames(t *testing.T) {
	_, err := New([]ToolDefinition{{Name: "nodot"}})
	assert.ErrorContains(t, err, "server.action")

	_, err = New([]ToolDefinition{{Name: "a.b"}, {Name: "a.b"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New([]ToolDefinition{{Name: "a.b", Params: json.RawMessage(`{"type":12}`)}})
	assert.Error(t, err)
}

func TestRestrictKeepsOrderAndSkipsUnknown(t *testing.T) {
	c := Default()
	got := c.Restrict([]string{"email.send_email", "nope.nope", "filesystem.read_file", "email.send_email"})
	require.Len(t, got, 2)
	assert.Equal(t, "email.send_email", got[0].Name)
	assert.Equal(t, "filesystem.read_file", got[1].Name)
}

func TestValidateArgs(t *testing.T) {
	c := Default()
	assert.NoError(t, c.ValidateArgs("filesystem.read_file", map[string]any{"path": "a.txt"}))

	err := c.ValidateArgs("filesystem.read_file", map[string]any{})
	assert.ErrorContains(t, err, "filesystem.read_file")

	assert.Error(t, c.ValidateArgs("nope.nope", map[string]any{}))
}

func TestSplitName(t *testing.T) {
	s, a := SplitName("calendar.create_event")
	assert.Equal(t, "calendar", s)
	assert.Equal(t, "create_event", a)

	s, a = SplitName("calendar")
	assert.Equal(t, "calendar", s)
	assert.Empty(t, a)
}

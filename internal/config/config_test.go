package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golovatskygroup/chainbench/internal/align"
	"github.com/golovatskygroup/chainbench/internal/executor"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chainbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8082", cfg.Router.URL)
	assert.Equal(t, cfg.Router.URL, cfg.Planner.URL)
	assert.Equal(t, cfg.Router.URL, cfg.Index.Endpoint)
	assert.Equal(t, 15, cfg.Router.TopK)
	assert.Equal(t, executor.DefaultRetryPolicy(), cfg.Router.Retry)
	assert.Equal(t, align.DefaultWeights(), cfg.Align)
	assert.Equal(t, 120*time.Second, cfg.Planner.Timeout)
	assert.Equal(t, IndexLexical, cfg.Index.Kind)
	assert.Equal(t, ".results", cfg.Output.Dir)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
planner:
  endpoint: http://planner:9000/
  model: qwen
  repair_json: true
router:
  endpoint: http://router:8082
  top_k: 5
  retry:
    max_attempts: 5
    attempt_timeout: 10s
    backoff:
      initial: 0s
align:
  keyword: 2
scenarios:
  difficulty: ALL
index:
  kind: embedding
  model: nomic-embed
`)
	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://planner:9000", cfg.Planner.URL)
	assert.Equal(t, "qwen", cfg.Planner.Model)
	assert.True(t, cfg.Planner.RepairJSON)
	assert.Equal(t, 5, cfg.Router.TopK)
	assert.Equal(t, 5, cfg.Router.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Router.Retry.AttemptTimeout)
	assert.Zero(t, cfg.Router.Retry.Backoff.Initial)
	assert.Equal(t, 2, cfg.Align.Keyword)
	assert.Equal(t, 3, cfg.Align.ServerHint)
	assert.Empty(t, cfg.Scenarios.Difficulty)
	assert.Equal(t, "http://router:8082", cfg.Index.Endpoint)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "router:\n  top_k: 5\n")
	t.Setenv("CHAINBENCH_ROUTER_TOP_K", "7")
	t.Setenv("CHAINBENCH_LOG_LEVEL", "debug")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Router.TopK)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFlagsOverrideEverything(t *testing.T) {
	t.Setenv("CHAINBENCH_ROUTER_TOP_K", "7")
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.Int("top-k", 15, "")
	fs.String("difficulty", "", "")
	fs.String("planner-endpoint", "", "")
	require.NoError(t, fs.Parse([]string{"--top-k", "3", "--difficulty", "complex"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Router.TopK)
	assert.Equal(t, "complex", cfg.Scenarios.Difficulty)
	assert.Equal(t, cfg.Router.URL, cfg.Planner.URL)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"bad endpoint":    {"router:\n  endpoint: localhost:8082\n", "router.endpoint"},
		"negative top k":  {"router:\n  top_k: -1\n", "router.top_k must be >= 0"},
		"zero attempts":   {"router:\n  retry:\n    max_attempts: 0\n", "router.retry.max_attempts"},
		"unknown index":   {"index:\n  kind: bm25\n", "index.kind"},
		"embedding model": {"index:\n  kind: embedding\n", "index.model is required"},
		"difficulty":      {"scenarios:\n  difficulty: hard\n", "unknown difficulty"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(New(), writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

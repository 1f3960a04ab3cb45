//go:build integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golovatskygroup/chainbench/internal/testutil"
)

// Runs the simple tier against a real model server:
//
//	CHAINBENCH_LIVE_ENDPOINT=http://localhost:8082 go test -tags=integration ./cmd/chainbench
func TestLiveSimpleTier(t *testing.T) {
	ep := testutil.LiveEndpoint(t)

	out, err := runCLI(t, "run", "--endpoint", ep, "--difficulty", "simple", "--out", t.TempDir())
	require.NoError(t, err, out)
	assert.Contains(t, out, "CHAIN COMPLETION")
}

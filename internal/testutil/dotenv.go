package testutil

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// LiveEndpointEnv names the model server used by live tests.
const LiveEndpointEnv = "CHAINBENCH_LIVE_ENDPOINT"

var loadOnce sync.Once

// LoadDotEnv loads the nearest ".env" found walking up from the working
// directory. Variables already set in the environment win.
func LoadDotEnv() {
	loadOnce.Do(func() {
		path, err := findUpwards(".env")
		if err != nil {
			return
		}
		_ = loadEnvFile(path)
	})
}

// LiveEndpoint returns the live model server or skips the test.
func LiveEndpoint(t testing.TB) string {
	t.Helper()
	LoadDotEnv()
	ep := strings.TrimSpace(os.Getenv(LiveEndpointEnv))
	if ep == "" {
		t.Skipf("%s not set", LiveEndpointEnv)
	}
	return ep
}

func findUpwards(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("not found")
		}
		dir = parent
	}
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, val, ok := parseEnvLine(sc.Text())
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		_ = os.Setenv(key, val)
	}
	return sc.Err()
}

// parseEnvLine handles KEY=VALUE, an optional "export " prefix, comments and
// one level of matching quotes.
func parseEnvLine(line string) (key, val string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, val, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	val = strings.TrimSpace(val)
	if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
		val = val[1 : len(val)-1]
	}
	return key, val, true
}

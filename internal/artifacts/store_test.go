package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := New(Config{Dir: dir})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	item, err := s.WriteJSON("run.json", map[string]any{"runId": "abc"})
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if item.Path != filepath.Join(dir, "run.json") || item.SHA256 == "" || item.Bytes == 0 {
		t.Fatalf("unexpected item: %+v", item)
	}
	b, err := os.ReadFile(item.Path)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil || got["runId"] != "abc" {
		t.Fatalf("unexpected content %q: %v", b, err)
	}
	if list := s.List(); len(list) != 1 || list[0].Name != "run.json" {
		t.Fatalf("expected item indexed, got %+v", list)
	}
}

func TestStoreTrack(t *testing.T) {
	s, err := New(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Track("missing.prom", "text/plain"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := os.WriteFile(s.Path("m.prom"), []byte("x 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	item, err := s.Track("m.prom", "text/plain")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if item.Bytes != 4 {
		t.Fatalf("expected 4 bytes, got %d", item.Bytes)
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))
	cases := map[string]string{
		"simple":  "chainbench-simple-20260304T040607Z.json",
		"":        "chainbench-all-20260304T040607Z.json",
		"a/b c..": "chainbench-a_b_c-20260304T040607Z.json",
	}
	for tag, want := range cases {
		if got := FileName("chainbench", tag, at, "json"); got != want {
			t.Fatalf("FileName(%q) = %q, want %q", tag, got, want)
		}
	}
}

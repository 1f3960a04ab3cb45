// Package artifacts writes run outputs (result JSON, metric textfiles) into
// one directory and keeps an index of what was written.
package artifacts

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// TimestampLayout is the UTC stamp embedded in artifact file names.
const TimestampLayout = "20060102T150405Z"

type Item struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SHA256    string    `json:"sha256"`
	Bytes     int       `json:"bytes"`
	Mime      string    `json:"mime"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	dir   string
	mu    sync.Mutex
	items []Item
}

type Config struct {
	Dir string
}

// DefaultDir is used when Config.Dir is empty.
const DefaultDir = ".results"

func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = DefaultDir
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: create dir: %w", err)
	}
	return &Store{dir: cfg.Dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Path returns where a file with the given name lives in the store.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// FileName builds "<prefix>-<tag>-<UTC stamp><ext>" with every component made
// safe for a file system.
func FileName(prefix, tag string, at time.Time, ext string) string {
	name := sanitizeFileComponent(prefix)
	if name == "" {
		name = "run"
	}
	tag = sanitizeFileComponent(tag)
	if tag == "" {
		tag = "all"
	}
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s-%s-%s%s", name, tag, at.UTC().Format(TimestampLayout), ext)
}

// WriteJSON stores v as indented JSON.
func (s *Store) WriteJSON(name string, v any) (Item, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Item{}, fmt.Errorf("artifacts: marshal %s: %w", name, err)
	}
	return s.WriteBytes(name, "application/json", append(b, '\n'))
}

func (s *Store) WriteBytes(name, mime string, b []byte) (Item, error) {
	if strings.TrimSpace(mime) == "" {
		mime = "application/octet-stream"
	}
	path := s.Path(name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return Item{}, fmt.Errorf("artifacts: write: %w", err)
	}
	return s.record(name, path, mime, b), nil
}

// Track indexes a file that another writer already placed in the store.
func (s *Store) Track(name, mime string) (Item, error) {
	path := s.Path(name)
	b, err := os.ReadFile(path)
	if err != nil {
		return Item{}, fmt.Errorf("artifacts: track %s: %w", name, err)
	}
	return s.record(name, path, mime, b), nil
}

func (s *Store) record(name, path, mime string, b []byte) Item {
	sum := sha256.Sum256(b)
	item := Item{
		Name:      name,
		Path:      path,
		SHA256:    hex.EncodeToString(sum[:]),
		Bytes:     len(b),
		Mime:      mime,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
	return item
}

// List returns written items in write order.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

var reSafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitizeFileComponent(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = reSafe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._-")
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}

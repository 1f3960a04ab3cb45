package toolindex

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache persists embeddings across runs so an unchanged catalog is not
// re-embedded.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (or creates) a cache database at path.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	c, err := NewSQLiteCache(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func NewSQLiteCache(db *sql.DB) (*SQLiteCache, error) {
	c := &SQLiteCache{db: db}
	if err := c.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize embedding cache: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS embeddings (
		key TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		dims INTEGER NOT NULL,
		vector BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the stored vector for key, if any.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx, `SELECT vector FROM embeddings WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read embedding: %w", err)
	}
	v, err := decodeVector(blob)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, key, model string, v []float32) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (key, model, dims, vector) VALUES (?, ?, ?, ?)`,
		key, model, len(v), encodeVector(v))
	if err != nil {
		return fmt.Errorf("write embedding: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings`).Scan(&n)
	return n, err
}

func (c *SQLiteCache) Close() error { return c.db.Close() }

// Vectors are stored as little-endian float32.
func encodeVector(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(x))
	}
	return out
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupt embedding blob: %d bytes", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out, nil
}

package toolindex

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Embedder turns text into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingClient is the part of *llm.Client used for embeddings.
type EmbeddingClient interface {
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

type EmbedderOptions struct {
	CacheSize int          // in-memory LRU entries, default 10000
	Store     *SQLiteCache // optional persistent cache
	Logger    *zap.Logger
}

// CachedEmbedder fronts an embeddings endpoint with an LRU and an optional
// SQLite cache. Keys are sha256(model, text).
type CachedEmbedder struct {
	client EmbeddingClient
	model  string
	cache  *lru.Cache[string, []float32]
	store  *SQLiteCache
	log    *zap.Logger
}

func NewCachedEmbedder(client EmbeddingClient, model string, opts EmbedderOptions) (*CachedEmbedder, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 10000
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	cache, err := lru.New[string, []float32](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &CachedEmbedder{client: client, model: model, cache: cache, store: opts.Store, log: opts.Logger}, nil
}

func (e *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(e.model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	results := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		k := e.key(text)
		if v, ok := e.cache.Get(k); ok {
			results[i] = v
			continue
		}
		if e.store != nil {
			v, ok, err := e.store.Get(ctx, k)
			if err != nil {
				e.log.Warn("embedding cache read failed", zap.Error(err))
			} else if ok {
				e.cache.Add(k, v)
				results[i] = v
				continue
			}
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return results, nil
	}

	vecs, err := e.client.Embed(ctx, e.model, missTexts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embed batch: got %d vectors for %d texts", len(vecs), len(missTexts))
	}
	for j, i := range missIdx {
		k := e.key(texts[i])
		e.cache.Add(k, vecs[j])
		if e.store != nil {
			if err := e.store.Put(ctx, k, e.model, vecs[j]); err != nil {
				e.log.Warn("embedding cache write failed", zap.Error(err))
			}
		}
		results[i] = vecs[j]
	}
	return results, nil
}

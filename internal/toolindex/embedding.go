package toolindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/golovatskygroup/chainbench/internal/catalog"
)

type BuildOptions struct {
	BatchSize   int // texts per embeddings request, default 16
	Concurrency int // concurrent embeddings requests, default 4
	Logger      *zap.Logger
}

// EmbeddingIndex ranks tools by cosine similarity between the query and each
// tool's "name: description" text.
type EmbeddingIndex struct {
	coll  *chromem.Collection
	tools []string
}

var nameReplacer = strings.NewReplacer(".", " ", "_", " ")

func toolText(t catalog.ToolDefinition) string {
	return nameReplacer.Replace(t.Name) + ": " + t.Description
}

// BuildEmbeddingIndex embeds the whole catalog up front. Requests fan out in
// bounded batches.
func BuildEmbeddingIndex(ctx context.Context, c *catalog.Catalog, emb Embedder, opts BuildOptions) (*EmbeddingIndex, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 16
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	tools := c.All()
	if len(tools) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	texts := make([]string, len(tools))
	for i, t := range tools {
		texts[i] = toolText(t)
	}

	vecs := make([][]float32, len(tools))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for start := 0; start < len(texts); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(texts))
		g.Go(func() error {
			out, err := emb.EmbedBatch(gctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(vecs[start:end], out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}

	db := chromem.NewDB()
	coll, err := db.GetOrCreateCollection("tools", nil, func(ctx context.Context, text string) ([]float32, error) {
		return emb.Embed(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	idx := &EmbeddingIndex{coll: coll, tools: make([]string, 0, len(tools))}
	for i, t := range tools {
		err := coll.AddDocument(ctx, chromem.Document{
			ID:        t.Name,
			Content:   texts[i],
			Embedding: vecs[i],
			Metadata:  map[string]string{"server": t.Server()},
		})
		if err != nil {
			return nil, fmt.Errorf("add %s: %w", t.Name, err)
		}
		idx.tools = append(idx.tools, t.Name)
	}

	opts.Logger.Info("tool embedding index built", zap.Int("tools", len(tools)))
	return idx, nil
}

func (x *EmbeddingIndex) Tools() []string {
	out := make([]string, len(x.tools))
	copy(out, x.tools)
	return out
}

func (x *EmbeddingIndex) Search(ctx context.Context, query string, k int) ([]Match, error) {
	n := x.coll.Count()
	if k <= 0 || k > n {
		k = n
	}
	res, err := x.coll.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query tool index: %w", err)
	}
	out := make([]Match, 0, len(res))
	for _, r := range res {
		out = append(out, Match{Name: r.ID, Score: float64(r.Similarity)})
	}
	return out, nil
}

// Package filter narrows the tool catalog to the few tools most relevant to a
// step before the router model sees it.
package filter

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/golovatskygroup/chainbench/internal/toolindex"
)

// Selection is the ordered candidate set offered to the router.
type Selection struct {
	Tools   []string
	Matches []toolindex.Match
}

// Contains reports whether any of names is in the selection.
func (s Selection) Contains(names []string) bool {
	for _, n := range names {
		for _, t := range s.Tools {
			if t == n {
				return true
			}
		}
	}
	return false
}

type memoKey struct {
	index       toolindex.Index
	description string
	topK        int
}

type Filter struct {
	memo *lru.Cache[memoKey, Selection]
}

// New builds a filter memoising up to size selections; size <= 0 disables it.
func New(size int) (*Filter, error) {
	f := &Filter{}
	if size > 0 {
		memo, err := lru.New[memoKey, Selection](size)
		if err != nil {
			return nil, fmt.Errorf("create filter memo: %w", err)
		}
		f.memo = memo
	}
	return f, nil
}

// Select returns up to topK tool names by relevance. topK <= 0 returns the
// whole catalog. Index errors are returned unchanged.
func (f *Filter) Select(ctx context.Context, description string, index toolindex.Index, topK int) (Selection, error) {
	if topK <= 0 {
		return Selection{Tools: index.Tools()}, nil
	}

	key := memoKey{index: index, description: description, topK: topK}
	if f.memo != nil {
		if sel, ok := f.memo.Get(key); ok {
			return clone(sel), nil
		}
	}

	matches, err := index.Search(ctx, description, topK)
	if err != nil {
		return Selection{}, err
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	sel := Selection{Tools: toolindex.Names(matches), Matches: matches}
	if f.memo != nil {
		f.memo.Add(key, clone(sel))
	}
	return sel, nil
}

func clone(s Selection) Selection {
	return Selection{
		Tools:   append([]string(nil), s.Tools...),
		Matches: append([]toolindex.Match(nil), s.Matches...),
	}
}

package toolindex

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/golovatskygroup/chainbench/internal/catalog"
)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "from": true, "with": true, "that": true,
	"this": true, "into": true, "then": true, "using": true, "result": true, "step": true,
	"each": true, "all": true, "any": true, "its": true, "them": true, "are": true, "was": true,
	"my": true, "me": true, "of": true, "to": true, "in": true, "on": true, "a": true, "an": true,
}

type lexicalEntry struct {
	name     string
	server   string
	action   []string
	desc     map[string]bool
	keywords []string
}

// LexicalIndex ranks tools offline by word overlap, fuzzy action-name matching
// and server keyword hits. It needs no model and is deterministic.
type LexicalIndex struct {
	entries []lexicalEntry
}

func NewLexicalIndex(c *catalog.Catalog) *LexicalIndex {
	idx := &LexicalIndex{}
	for _, t := range c.All() {
		e := lexicalEntry{
			name:   t.Name,
			server: t.Server(),
			action: strings.Split(t.Action(), "_"),
			desc:   map[string]bool{},
		}
		for _, w := range tokenize(t.Description) {
			e.desc[w] = true
		}
		if s, ok := catalog.LookupServer(e.server); ok {
			e.keywords = s.Keywords
		}
		idx.entries = append(idx.entries, e)
	}
	return idx
}

func (l *LexicalIndex) Tools() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.name
	}
	return out
}

func (l *LexicalIndex) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lower := strings.ToLower(query)
	tokens := tokenize(query)

	matches := make([]Match, 0, len(l.entries))
	for _, e := range l.entries {
		matches = append(matches, Match{Name: e.name, Score: e.score(lower, tokens)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func (e lexicalEntry) score(lower string, tokens []string) float64 {
	var score float64

	if strings.Contains(lower, e.name) {
		score += 10
	}
	if containsWord(tokens, e.server) {
		score += 2
	}
	for _, kw := range e.keywords {
		if containsWord(tokens, kw) || (len(kw) > 4 && strings.Contains(lower, kw)) {
			score += 2
		}
	}
	for _, tok := range tokens {
		for _, part := range e.action {
			switch {
			case tok == part:
				score += 3
			case len(tok) >= 4 && len(part) >= 4 && fuzzy.MatchFold(part, tok):
				// "scanning" vs "scan", "summarize" vs "summarizes"
				score += 1.5
			}
		}
		if e.desc[tok] {
			score++
		}
	}
	return score
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func containsWord(tokens []string, w string) bool {
	for _, t := range tokens {
		if t == w {
			return true
		}
	}
	return false
}

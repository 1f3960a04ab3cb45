// Package toolindex ranks catalog tools by relevance to a step description.
package toolindex

import "context"

// Match is one ranked tool.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Index retrieves the tools most relevant to a query.
type Index interface {
	// Search returns at most k matches, best first. k <= 0 means every tool.
	Search(ctx context.Context, query string, k int) ([]Match, error)
	// Tools returns every indexed tool name in catalog order.
	Tools() []string
}

// Names flattens matches to tool names.
func Names(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

package bench

import (
	"context"
	"fmt"
)

type ModelLister interface {
	Endpoint() string
	ListModels(ctx context.Context) ([]string, error)
}

// Preflight asks every distinct endpoint for its models. Any failure is fatal
// to the run. The result maps endpoint to model ids.
func Preflight(ctx context.Context, listers ...ModelLister) (map[string][]string, error) {
	out := make(map[string][]string, len(listers))
	for _, l := range listers {
		ep := l.Endpoint()
		if _, seen := out[ep]; seen {
			continue
		}
		models, err := l.ListModels(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot reach model server at %s: %w", ep, err)
		}
		if models == nil {
			models = []string{}
		}
		out[ep] = models
	}
	return out, nil
}

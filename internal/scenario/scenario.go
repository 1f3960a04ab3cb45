// Package scenario loads benchmark scenarios: a natural-language request plus
// the ordered ground-truth tool steps a correct run should perform.
package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/golovatskygroup/chainbench/internal/catalog"
)

type Difficulty string

const (
	Simple  Difficulty = "simple"
	Medium  Difficulty = "medium"
	Complex Difficulty = "complex"
)

// Difficulties lists the known levels in report order.
var Difficulties = []Difficulty{Simple, Medium, Complex}

// ParseDifficulty accepts a level name; "" and "all" mean no filter and
// return an empty Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "", "all":
		return "", nil
	case Simple, Medium, Complex:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want simple, medium, complex or all)", s)
	}
}

type ExpectedStep struct {
	Description   string   `yaml:"description" json:"description"`
	ExpectedTools []string `yaml:"expected_tools" json:"expectedTools"`
}

type Scenario struct {
	ID          string         `yaml:"id" json:"id"`
	Description string         `yaml:"description" json:"description"`
	Difficulty  Difficulty     `yaml:"difficulty" json:"difficulty"`
	Steps       []ExpectedStep `yaml:"steps" json:"steps"`
}

type Set struct {
	Name      string     `yaml:"name"`
	Version   string     `yaml:"version"`
	Scenarios []Scenario `yaml:"scenarios"`
}

//go:embed default.yaml
var defaultYAML []byte

// Default returns the built-in scenario set.
func Default() (*Set, error) {
	set, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in scenarios: %w", err)
	}
	return set, nil
}

// LoadFile reads and validates a YAML scenario set.
func LoadFile(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("scenario file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode scenario set: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

func (s *Set) Validate() error {
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("scenario set must contain scenarios")
	}
	seen := make(map[string]struct{}, len(s.Scenarios))
	for idx, sc := range s.Scenarios {
		id := strings.TrimSpace(sc.ID)
		if id == "" {
			return fmt.Errorf("scenario[%d] id is required", idx)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("duplicate scenario id: %s", id)
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(sc.Description) == "" {
			return fmt.Errorf("scenario %s description is required", id)
		}
		if d, err := ParseDifficulty(string(sc.Difficulty)); err != nil || d == "" {
			return fmt.Errorf("scenario %s has invalid difficulty %q", id, sc.Difficulty)
		}
		if len(sc.Steps) == 0 {
			return fmt.Errorf("scenario %s steps are required", id)
		}
		for i, st := range sc.Steps {
			if len(st.ExpectedTools) == 0 {
				return fmt.Errorf("scenario %s step %d expected_tools is required", id, i+1)
			}
			for _, tool := range st.ExpectedTools {
				if server, action := catalog.SplitName(tool); server == "" || action == "" {
					return fmt.Errorf("scenario %s step %d: tool %q is not server.action", id, i+1, tool)
				}
			}
		}
	}
	return nil
}

// CheckTools reports the first expected tool that the catalog does not define.
func (s *Set) CheckTools(c *catalog.Catalog) error {
	for _, sc := range s.Scenarios {
		for i, st := range sc.Steps {
			for _, tool := range st.ExpectedTools {
				if !c.Has(tool) {
					return fmt.Errorf("scenario %s step %d: unknown tool %q", sc.ID, i+1, tool)
				}
			}
		}
	}
	return nil
}

// Filter keeps scenarios of the given difficulty; an empty difficulty keeps all.
func (s *Set) Filter(d Difficulty) []Scenario {
	out := make([]Scenario, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		if d == "" || sc.Difficulty == d {
			out = append(out, sc)
		}
	}
	return out
}

// Lookup finds a scenario by id.
func (s *Set) Lookup(id string) (Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return Scenario{}, false
}

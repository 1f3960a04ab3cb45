// Package catalog holds the simulated tool surface: tool definitions grouped
// into capability areas and the canned results returned when a tool is "called".
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ToolDefinition describes one callable tool. Name is dotted: server.action.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Params      json.RawMessage `json:"params,omitempty"`
}

func (t ToolDefinition) Server() string {
	server, _ := SplitName(t.Name)
	return server
}

func (t ToolDefinition) Action() string {
	_, action := SplitName(t.Name)
	return action
}

// SplitName splits "server.action". Names without a dot have an empty action.
func SplitName(name string) (server, action string) {
	server, action, _ = strings.Cut(name, ".")
	return server, action
}

type Catalog struct {
	tools   []ToolDefinition
	byName  map[string]int
	schemas map[string]*jsonschema.Schema
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog. It panics if the built-in definitions
// are malformed, which only a broken build can cause.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(builtinTools)
		if err != nil {
			panic(fmt.Sprintf("catalog: built-in tools: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// New validates names and compiles every parameter schema.
func New(tools []ToolDefinition) (*Catalog, error) {
	c := &Catalog{
		tools:   make([]ToolDefinition, 0, len(tools)),
		byName:  make(map[string]int, len(tools)),
		schemas: make(map[string]*jsonschema.Schema, len(tools)),
	}
	for _, t := range tools {
		server, action := SplitName(t.Name)
		if server == "" || action == "" {
			return nil, fmt.Errorf("tool name %q is not server.action", t.Name)
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", t.Name)
		}
		if len(t.Params) > 0 {
			s, err := compileSchema(t.Name, t.Params)
			if err != nil {
				return nil, fmt.Errorf("invalid params schema for %s: %w", t.Name, err)
			}
			c.schemas[t.Name] = s
		}
		c.byName[t.Name] = len(c.tools)
		c.tools = append(c.tools, t)
	}
	return c, nil
}

func compileSchema(name string, schema json.RawMessage) (*jsonschema.Schema, error) {
	sum := sha256.Sum256(schema)
	return jsonschema.CompileString(name+"."+hex.EncodeToString(sum[:8])+".json", string(schema))
}

func (c *Catalog) Len() int { return len(c.tools) }

// All returns a copy of every definition in catalog order.
func (c *Catalog) All() []ToolDefinition {
	out := make([]ToolDefinition, len(c.tools))
	copy(out, c.tools)
	return out
}

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, t.Name)
	}
	return out
}

func (c *Catalog) Get(name string) (ToolDefinition, bool) {
	i, ok := c.byName[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return c.tools[i], true
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Restrict returns the definitions for names, in the order given. Unknown
// names and duplicates are skipped.
func (c *Catalog) Restrict(names []string) []ToolDefinition {
	out := make([]ToolDefinition, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		if t, ok := c.Get(n); ok {
			out = append(out, t)
		}
	}
	return out
}

// ServerTools groups tool names by server, sorted.
func (c *Catalog) ServerTools() map[string][]string {
	out := map[string][]string{}
	for _, t := range c.tools {
		out[t.Server()] = append(out[t.Server()], t.Name)
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}

// ValidateArgs checks arguments against the tool's parameter schema and
// reports the first leaf violation.
func (c *Catalog) ValidateArgs(name string, args any) error {
	s, ok := c.schemas[name]
	if !ok {
		if !c.Has(name) {
			return fmt.Errorf("unknown tool %q", name)
		}
		return nil
	}
	err := s.Validate(args)
	if err == nil {
		return nil
	}
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		leaf := firstLeaf(ve)
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return fmt.Errorf("args for %s invalid at %s: %s", name, loc, leaf.Message)
	}
	return fmt.Errorf("args for %s invalid: %v", name, err)
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// Package schema implements StreamLib's schema-handle registry: a
// process-global, copy-on-write map from a schema handle name (e.g.
// "com.streamlib.videoframe") to its definition, used to validate link
// legality and to describe Data frames.
//
// The registry's shape follows a StateSchema/MapSchema-style
// registration pattern, but definitions are parsed from embedded YAML
// rather than expressed as Go reducer functions, since StreamLib
// schema handles describe wire shapes, not in-process state-merge
// logic.
package schema

import (
	_ "embed"
	"fmt"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// PayloadKind is which of the three native frame shapes a schema
// describes, or "custom" for a Data-frame shape registered by a
// collaborator package.
type PayloadKind string

const (
	PayloadVideo  PayloadKind = "video"
	PayloadAudio  PayloadKind = "audio"
	PayloadData   PayloadKind = "data"
	PayloadCustom PayloadKind = "custom"
)

// Strategy is the payload type's consumption-strategy tag. It is a
// property of the type, not of any particular link.
type Strategy string

const (
	SkipToLatest    Strategy = "skip_to_latest"
	ReadNextInOrder Strategy = "read_next_in_order"
)

// Definition describes one registered payload schema.
type Definition struct {
	Name        string      `yaml:"name" json:"name"`
	PayloadKind PayloadKind `yaml:"payload_kind" json:"payload_kind"`
	Strategy    Strategy    `yaml:"strategy" json:"strategy"`
	Description string      `yaml:"description" json:"description"`
}

type definitionFile struct {
	Schemas []*Definition `yaml:"schemas"`
}

//go:embed definitions.yaml
var embeddedDefinitions []byte

// Registry is a read-mostly, copy-on-write map of schema handle name to
// Definition. The zero value is not usable; use NewRegistry.
type Registry struct {
	defs atomic.Pointer[map[string]*Definition]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make(map[string]*Definition)
	r.defs.Store(&empty)
	return r
}

// Register adds or replaces a definition. Safe for concurrent use with
// Lookup; readers never observe a partially-updated map because the
// whole map is swapped atomically.
func (r *Registry) Register(def *Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("schema: definition must have a non-empty name")
	}
	for {
		old := r.defs.Load()
		next := make(map[string]*Definition, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[def.Name] = def
		if r.defs.CompareAndSwap(old, &next) {
			return nil
		}
	}
}

// Lookup returns the definition registered under name, if any.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	m := r.defs.Load()
	def, ok := (*m)[name]
	return def, ok
}

// LoadYAML parses a definitions.yaml-shaped document and registers
// every definition it contains.
func (r *Registry) LoadYAML(data []byte) error {
	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("schema: parse definitions: %w", err)
	}
	for _, def := range file.Schemas {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Global is the process-global schema registry, populated from the
// embedded YAML at init time.
var Global = NewRegistry()

func init() {
	if err := Global.LoadYAML(embeddedDefinitions); err != nil {
		panic("schema: failed to load embedded definitions: " + err.Error())
	}
}

package processor

import (
	"sync/atomic"

	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/streamerr"
)

// Descriptor is the static metadata every processor type publishes.
// The compiler consults the registry keyed by type name when
// constructing a processor from a ProcessorSpec.
type Descriptor struct {
	Name         string
	Description  string
	UsageContext string
	Inputs       []graph.Port
	Outputs      []graph.Port
	Tags         []string
	New          Factory
}

// Registry is a read-mostly, copy-on-write map of processor type name
// to Descriptor, built around atomic.Pointer[map] swap-on-write rather
// than a sync.RWMutex, since lookups vastly outnumber registrations.
type Registry struct {
	defs atomic.Pointer[map[string]*Descriptor]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make(map[string]*Descriptor)
	r.defs.Store(&empty)
	return r
}

// Register adds or replaces a descriptor under its own Name.
func (r *Registry) Register(desc *Descriptor) error {
	if desc == nil || desc.Name == "" {
		return streamerr.New(streamerr.Configuration, "processor descriptor must have a non-empty name")
	}
	if desc.New == nil {
		return streamerr.New(streamerr.Configuration, "processor descriptor %s has no factory", desc.Name)
	}
	for {
		old := r.defs.Load()
		next := make(map[string]*Descriptor, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[desc.Name] = desc
		if r.defs.CompareAndSwap(old, &next) {
			return nil
		}
	}
}

// Lookup returns the descriptor registered under typeName, if any.
func (r *Registry) Lookup(typeName string) (*Descriptor, bool) {
	m := r.defs.Load()
	d, ok := (*m)[typeName]
	return d, ok
}

// All returns every registered descriptor, in no particular order.
func (r *Registry) All() []*Descriptor {
	m := r.defs.Load()
	out := make([]*Descriptor, 0, len(*m))
	for _, d := range *m {
		out = append(out, d)
	}
	return out
}

// Global is the process-global descriptor registry populated by
// collaborator packages at init time.
var Global = NewRegistry()

package batch

import (
	"sort"

	"github.com/fwojciec/seomate"
)

// Registry maps operation names to batch operations.
type Registry struct {
	operations map[string]seomate.Operation
}

// NewRegistry creates a Registry holding ops.
func NewRegistry(ops ...seomate.Operation) *Registry {
	r := &Registry{operations: make(map[string]seomate.Operation)}
	for _, op := range ops {
		r.Register(op)
	}
	return r
}

// Get returns the operation registered under name.
// Returns nil if no operation is registered for the name.
func (r *Registry) Get(name string) seomate.Operation {
	return r.operations[name]
}

// Register adds op under its name.
// If an operation is already registered for the name, it is replaced.
func (r *Registry) Register(op seomate.Operation) {
	r.operations[op.Name()] = op
}

// List returns all registered operation names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.operations))
	for name := range r.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

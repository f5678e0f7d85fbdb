// Package ops provides the Ice operator library: pure, total
// functions over runtime values, registered against the fixed
// operator catalog. The evaluator receives the registry through its
// options, keeping this package free to depend on the evaluator's
// value types without a cycle.
package ops

import (
	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/evaluator"
)

// Registry maps operator kinds to their definitions.
type Registry struct {
	defs map[ast.OpKind]*evaluator.OpDef
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[ast.OpKind]*evaluator.OpDef)}
}

// Register adds or replaces a definition.
func (r *Registry) Register(op ast.OpKind, def *evaluator.OpDef) {
	r.defs[op] = def
}

// Lookup returns the definition for op, if registered.
func (r *Registry) Lookup(op ast.OpKind) (*evaluator.OpDef, bool) {
	def, ok := r.defs[op]
	return def, ok
}

// Map exposes the registry in the form ExecOptions.Ops takes.
func (r *Registry) Map() map[ast.OpKind]*evaluator.OpDef {
	return r.defs
}

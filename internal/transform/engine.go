// internal/transform/engine.go
package transform

import (
	"github.com/pkanduri1/fabric-transform/internal/types"
)

// Engine binds a compiled template to a convenient per-record API.
// Stateless per call: Apply and EvaluateField read only their arguments and
// the frozen template, so one Engine is safe for concurrent use across
// batch partitions without locking.
type Engine struct {
	tmpl *CompiledTemplate
}

// NewEngine creates an engine over a compiled template.
func NewEngine(tmpl *CompiledTemplate) *Engine {
	return &Engine{tmpl: tmpl}
}

// Template returns the frozen template the engine evaluates.
func (e *Engine) Template() *CompiledTemplate {
	return e.tmpl
}

// EvaluateField computes one output field for one record.
func (e *Engine) EvaluateField(rec types.Record, m *CompiledMapping) string {
	return Evaluate(rec, m)
}

// Apply computes the full output row for one record, in target-position
// order. The caller owns output assembly (fixed-width concatenation or
// delimited join).
func (e *Engine) Apply(rec types.Record) []string {
	out := make([]string, len(e.tmpl.Mappings))
	for i := range e.tmpl.Mappings {
		out[i] = Evaluate(rec, &e.tmpl.Mappings[i])
	}
	return out
}

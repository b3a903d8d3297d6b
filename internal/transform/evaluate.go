// internal/transform/evaluate.go
package transform

import (
	"github.com/pkanduri1/fabric-transform/internal/expr"
	"github.com/pkanduri1/fabric-transform/internal/types"
)

/*
 * Transformation dispatch.
 *
 * Evaluate is the engine's entry point for one (record, mapping) pair.
 * Total for compiled mappings: every kind has defined behavior, per-record
 * data issues resolve through default-value fallback, and nothing here
 * panics or returns an error. A single bad record must not abort a batch.
 *
 * Branches:
 *   - constant: the configured literal, default when no literal configured
 *   - source: resolver lookup with default fallback
 *   - composite: aggregation; empty spec degrades to default
 *   - conditional: first matching predicate wins; a bare predicate is the
 *     else branch and terminates scanning; no match yields the default
 *   - blank: always the default (usually "")
 *
 * A matched condition's then-value that exactly names a record field is
 * resolved as a source reference, otherwise it is the literal result. The
 * collision is inherent to the configuration format: a literal that happens
 * to equal a field name present in the record is resolved, not echoed.
 *
 * Post-processing: a positive length routes the result through Pad for
 * fixed-width output.
 */

// Evaluate computes the output value of one field mapping for one record.
func Evaluate(rec types.Record, m *CompiledMapping) string {
	out := dispatch(rec, m)
	if m.Length > 0 {
		out = Pad(out, m.Length, m.PadSide, m.PadChar)
	}
	return out
}

func dispatch(rec types.Record, m *CompiledMapping) string {
	switch m.Kind {
	case types.KindConstant:
		if m.ConstantValue != nil {
			return *m.ConstantValue
		}
		return m.Default()

	case types.KindSource:
		return Resolve(rec, m.SourceField, m.Default())

	case types.KindComposite:
		return Aggregate(rec, m.Composite, m.DefaultValue)

	case types.KindConditional:
		for i := range m.Conditions {
			cond := &m.Conditions[i]
			if cond.IsElse {
				return resolveThen(rec, cond.Then, m.Default())
			}
			if cond.Expr == nil {
				// Unparseable predicate: never matches, keep scanning.
				continue
			}
			if expr.Eval(cond.Expr, rec) {
				return resolveThen(rec, cond.Then, m.Default())
			}
		}
		return m.Default()

	default: // KindBlank and anything validation let through
		return m.Default()
	}
}

// resolveThen treats a then-value that names a record field as a source
// reference and anything else as a literal.
func resolveThen(rec types.Record, then, def string) string {
	if _, ok := rec[then]; ok {
		return Resolve(rec, then, def)
	}
	return then
}

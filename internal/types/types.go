// Package types provides domain models shared across fabric-transform components.
//
// Zero-dependency design: types.go, mappings.go and errors.go use only the
// standard library so the engine packages stay import-light. ID utilities in
// ids.go import uuid but are isolated for selective inclusion.
package types

// Record is one input data row: field name to dynamically-typed value
// (string, float64, int, int64, bool, or nil). The engine only reads it;
// ownership stays with the caller for the duration of one evaluation.
type Record map[string]any

// Has reports whether the field is present with a non-nil value.
// Absent and explicit null are indistinguishable to the engine on purpose:
// both resolve through default-value fallback.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// Template is one named set of field mappings, loaded once per job and
// reused read-only across all records of that job.
type Template struct {
	TemplateID TemplateID     `json:"template_id"`
	Name       string         `json:"name"`
	Mappings   []FieldMapping `json:"mappings"`
}

// Resource limits enforced at template compilation to keep per-record
// evaluation cost bounded.
const (
	// MaxPredicateLength caps a single conditional expression string.
	// 4KB accommodates deeply chained boolean logic without allowing
	// pathological tokenizer input.
	MaxPredicateLength = 4 * 1024

	// MaxConditions limits the conditions list of one mapping.
	// 64 branches covers realistic else-if chains.
	MaxConditions = 64

	// MaxCompositeSources limits the source list of one composite mapping.
	// 64 fields keeps numeric aggregation linear and small.
	MaxCompositeSources = 64

	// MaxInValues limits IN operator list size to prevent quadratic
	// comparison cost in a single predicate.
	MaxInValues = 64
)

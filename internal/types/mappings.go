// internal/types/mappings.go
package types

/*
 * Domain types for field mapping configuration.
 *
 * Provides FieldMapping, CompositeSpec and Condition structures used by
 * internal/transform for compilation and evaluation. These types are
 * wire-format agnostic - YAML/JSON decoding happens in internal/templates,
 * persistence in internal/core/store.
 *
 * Key types:
 *   - FieldMapping: How one output field is derived (one kind per mapping)
 *   - CompositeSpec: Multi-source aggregation (sum/avg/min/max/concat)
 *   - Condition: One predicate/result pair of a conditional mapping
 *
 * Dependencies: None (standard library only)
 */

// MappingKind selects the dispatch branch for one field mapping.
// Exactly one kind is active per mapping; kinds are mutually exclusive.
type MappingKind int

const (
	KindUnspecified MappingKind = iota
	KindConstant
	KindSource
	KindComposite
	KindConditional
	KindBlank
)

// String returns the canonical lower-case name used in template documents.
func (k MappingKind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindSource:
		return "source"
	case KindComposite:
		return "composite"
	case KindConditional:
		return "conditional"
	case KindBlank:
		return "blank"
	default:
		return "unspecified"
	}
}

// PadSide selects which side pad characters are added to.
type PadSide int

const (
	PadRight PadSide = iota // default
	PadLeft
)

// AggregateOp names the composite aggregation operation.
type AggregateOp int

const (
	AggUnspecified AggregateOp = iota
	AggSum
	AggAvg
	AggMin
	AggMax
	AggConcat
)

// SourceFunc is an optional per-source string function for concat composites,
// applied after resolution and before joining.
type SourceFunc int

const (
	FuncNone SourceFunc = iota
	FuncUpper
	FuncLower
	FuncTrim
)

// CompositeSource is one ordered entry of a composite's source list.
type CompositeSource struct {
	Field    string     `json:"field"`
	Function SourceFunc `json:"function,omitempty"`
}

// CompositeSpec describes a multi-source aggregation. Source order is
// significant and preserved exactly as configured: it fixes the join order
// for concat output.
type CompositeSpec struct {
	Sources   []CompositeSource `json:"sources"`
	Operation AggregateOp       `json:"operation"`
	Delimiter string            `json:"delimiter,omitempty"` // concat only, default ""
}

// Condition is one predicate/result pair of a conditional mapping.
// An empty Predicate marks the unconditional else branch; the first such
// entry terminates evaluation (first-wins when multiple appear).
type Condition struct {
	Predicate string `json:"predicate,omitempty"`
	Then      string `json:"then"`
}

// FieldMapping describes how to produce one output field.
//
// ConstantValue and DefaultValue are pointers because "not configured" and
// "configured as the empty string" produce different output: an absent
// constant falls back to the default, and numeric composites with no default
// render "0" rather than "".
type FieldMapping struct {
	TargetField    string         `json:"target_field"`
	TargetPosition int            `json:"target_position"`
	Kind           MappingKind    `json:"kind"`
	ConstantValue  *string        `json:"constant_value,omitempty"`
	SourceField    string         `json:"source_field,omitempty"`
	Composite      *CompositeSpec `json:"composite,omitempty"`
	Conditions     []Condition    `json:"conditions,omitempty"`
	DefaultValue   *string        `json:"default_value,omitempty"`
	Length         int            `json:"length,omitempty"` // > 0 enables fixed-width formatting
	PadSide        PadSide        `json:"pad_side,omitempty"`
	PadChar        rune           `json:"pad_char,omitempty"` // 0 means space
}

// Default returns the configured default value or the empty string.
func (m *FieldMapping) Default() string {
	if m.DefaultValue == nil {
		return ""
	}
	return *m.DefaultValue
}

// HasDefault reports whether a default value was configured at all.
func (m *FieldMapping) HasDefault() bool {
	return m.DefaultValue != nil
}

// internal/transform/compile.go
package transform

import (
	"fmt"
	"sort"

	"github.com/pkanduri1/fabric-transform/internal/expr"
	"github.com/pkanduri1/fabric-transform/internal/types"
)

/*
 * Template compilation and validation.
 *
 * Compiles types.Template to CompiledTemplate with position-ordered mappings,
 * validated resource limits, and predicates parsed once per distinct
 * expression string.
 *
 * Compilation workflow:
 *   1. Validate structural shape (target field, kind, length, limits)
 *   2. Parse each distinct predicate into a frozen AST
 *   3. Mark degraded mappings and unparseable predicates as diagnostics
 *   4. Stable-sort mappings by target position
 *
 * Error split: defects that make a mapping meaningless to every record
 * (empty target field, unknown kind, negative length, exceeded limits) fail
 * compilation. Defects the dispatcher has defined runtime behavior for
 * (empty composite sources, bad predicate syntax) degrade to diagnostics so
 * one malformed field cannot abort a batch.
 *
 * Why parse at compile time: predicates are frozen before any record is
 * processed, so concurrent evaluation needs no cache synchronization.
 *
 * Why stable sort: mappings with equal target positions keep their
 * configured order, making output column order deterministic.
 */

// CompiledCondition is a pre-parsed condition ready for evaluation.
type CompiledCondition struct {
	Predicate string
	Expr      expr.Node // nil for the else branch and for syntax errors
	IsElse    bool      // empty predicate: unconditional match, stops scanning
	Then      string
}

// CompiledMapping is a fully pre-processed field mapping.
type CompiledMapping struct {
	types.FieldMapping
	Conditions []CompiledCondition // replaces FieldMapping.Conditions
}

// CompiledTemplate is ready for evaluation: immutable after Compile returns,
// safe for concurrent read access across record partitions.
type CompiledTemplate struct {
	TemplateID  types.TemplateID
	Name        string
	Mappings    []CompiledMapping // ordered by target position
	Diagnostics []Diagnostic
}

// Compile validates and pre-processes a template for per-record evaluation.
func Compile(tmpl *types.Template) (*CompiledTemplate, error) {
	if len(tmpl.Mappings) == 0 {
		return nil, types.ErrEmptyTemplate
	}

	compiled := &CompiledTemplate{
		TemplateID: tmpl.TemplateID,
		Name:       tmpl.Name,
		Mappings:   make([]CompiledMapping, 0, len(tmpl.Mappings)),
	}

	// Parse each distinct predicate string exactly once per template.
	parsed := make(map[string]expr.Node)
	failed := make(map[string]string)

	for i := range tmpl.Mappings {
		m := &tmpl.Mappings[i]
		if err := validateMapping(m); err != nil {
			return nil, fmt.Errorf("mapping %d (%s): %w", i, m.TargetField, err)
		}

		cm := CompiledMapping{FieldMapping: *m}
		cm.FieldMapping.Conditions = nil

		switch m.Kind {
		case types.KindComposite:
			if m.Composite == nil || len(m.Composite.Sources) == 0 {
				compiled.Diagnostics = append(compiled.Diagnostics, Diagnostic{
					Kind:        DiagConfiguration,
					TargetField: m.TargetField,
					Detail:      "composite mapping has no sources, degrades to default value",
				})
			}
		case types.KindConditional:
			if len(m.Conditions) == 0 {
				compiled.Diagnostics = append(compiled.Diagnostics, Diagnostic{
					Kind:        DiagConfiguration,
					TargetField: m.TargetField,
					Detail:      "conditional mapping has no conditions, degrades to default value",
				})
			}
			for _, cond := range m.Conditions {
				cc := CompiledCondition{Predicate: cond.Predicate, Then: cond.Then}
				if cond.Predicate == "" {
					cc.IsElse = true
				} else if msg, bad := failed[cond.Predicate]; bad {
					compiled.Diagnostics = append(compiled.Diagnostics, Diagnostic{
						Kind:        DiagPredicateSyntax,
						TargetField: m.TargetField,
						Predicate:   cond.Predicate,
						Detail:      msg,
					})
				} else if node, ok := parsed[cond.Predicate]; ok {
					cc.Expr = node
				} else if node, err := expr.Parse(cond.Predicate); err != nil {
					failed[cond.Predicate] = err.Error()
					compiled.Diagnostics = append(compiled.Diagnostics, Diagnostic{
						Kind:        DiagPredicateSyntax,
						TargetField: m.TargetField,
						Predicate:   cond.Predicate,
						Detail:      err.Error(),
					})
				} else {
					parsed[cond.Predicate] = node
					cc.Expr = node
				}
				cm.Conditions = append(cm.Conditions, cc)
			}
		}

		compiled.Mappings = append(compiled.Mappings, cm)
	}

	// Stable sort: equal positions keep configured order (deterministic output)
	sort.SliceStable(compiled.Mappings, func(i, j int) bool {
		return compiled.Mappings[i].TargetPosition < compiled.Mappings[j].TargetPosition
	})

	return compiled, nil
}

// validateMapping enforces the structural invariants a mapping must satisfy
// for every record. Degradable defects are handled by Compile instead.
func validateMapping(m *types.FieldMapping) error {
	if m.TargetField == "" {
		return types.ErrEmptyTargetField
	}
	switch m.Kind {
	case types.KindConstant, types.KindSource, types.KindComposite,
		types.KindConditional, types.KindBlank:
	default:
		return types.ErrUnknownKind
	}
	if m.Length < 0 {
		return types.ErrNegativeLength
	}
	if len(m.Conditions) > types.MaxConditions {
		return types.ErrTooManyConditions
	}
	if m.Composite != nil && len(m.Composite.Sources) > types.MaxCompositeSources {
		return types.ErrTooManySources
	}
	for _, cond := range m.Conditions {
		if len(cond.Predicate) > types.MaxPredicateLength {
			return types.ErrPredicateTooLong
		}
	}
	return nil
}

// internal/transform/diagnostics.go
package transform

import "fmt"

// DiagnosticKind classifies compile-time template defects.
type DiagnosticKind int

const (
	// DiagConfiguration marks a structurally degraded mapping, e.g. a
	// composite with no sources. The mapping stays in the template and
	// resolves to its default at runtime.
	DiagConfiguration DiagnosticKind = iota

	// DiagPredicateSyntax marks an unparseable conditional expression.
	// The condition never matches; evaluation continues with the next one.
	DiagPredicateSyntax
)

// Diagnostic is one compile-time finding, surfaced to the caller on the
// compiled template instead of failing the batch. Per-record evaluation
// never reports; a single bad mapping must not abort a large run.
type Diagnostic struct {
	Kind        DiagnosticKind
	TargetField string
	Predicate   string // set for DiagPredicateSyntax
	Detail      string
}

func (d Diagnostic) String() string {
	if d.Kind == DiagPredicateSyntax {
		return fmt.Sprintf("field %q: predicate %q: %s", d.TargetField, d.Predicate, d.Detail)
	}
	return fmt.Sprintf("field %q: %s", d.TargetField, d.Detail)
}

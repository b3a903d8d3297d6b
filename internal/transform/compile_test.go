// internal/transform/compile_test.go
package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pkanduri1/fabric-transform/internal/types"
)

func TestCompile_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    types.Template
		wantErr error
	}{
		{
			name:    "empty template",
			tmpl:    types.Template{Name: "empty"},
			wantErr: types.ErrEmptyTemplate,
		},
		{
			name: "empty target field",
			tmpl: types.Template{Mappings: []types.FieldMapping{
				{Kind: types.KindBlank},
			}},
			wantErr: types.ErrEmptyTargetField,
		},
		{
			name: "unknown kind",
			tmpl: types.Template{Mappings: []types.FieldMapping{
				{TargetField: "x", Kind: types.MappingKind(99)},
			}},
			wantErr: types.ErrUnknownKind,
		},
		{
			name: "unspecified kind rejected",
			tmpl: types.Template{Mappings: []types.FieldMapping{
				{TargetField: "x"},
			}},
			wantErr: types.ErrUnknownKind,
		},
		{
			name: "negative length",
			tmpl: types.Template{Mappings: []types.FieldMapping{
				{TargetField: "x", Kind: types.KindBlank, Length: -1},
			}},
			wantErr: types.ErrNegativeLength,
		},
		{
			name: "predicate over limit",
			tmpl: types.Template{Mappings: []types.FieldMapping{
				{TargetField: "x", Kind: types.KindConditional, Conditions: []types.Condition{
					{Predicate: strings.Repeat("a", types.MaxPredicateLength+1), Then: "y"},
				}},
			}},
			wantErr: types.ErrPredicateTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(&tt.tmpl)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_LimitErrors(t *testing.T) {
	conds := make([]types.Condition, types.MaxConditions+1)
	for i := range conds {
		conds[i] = types.Condition{Predicate: "a == 1", Then: "x"}
	}
	_, err := Compile(&types.Template{Mappings: []types.FieldMapping{
		{TargetField: "x", Kind: types.KindConditional, Conditions: conds},
	}})
	if !errors.Is(err, types.ErrTooManyConditions) {
		t.Errorf("Compile() error = %v, want ErrTooManyConditions", err)
	}

	srcs := make([]types.CompositeSource, types.MaxCompositeSources+1)
	for i := range srcs {
		srcs[i] = types.CompositeSource{Field: "f"}
	}
	_, err = Compile(&types.Template{Mappings: []types.FieldMapping{
		{TargetField: "x", Kind: types.KindComposite, Composite: &types.CompositeSpec{
			Sources: srcs, Operation: types.AggSum,
		}},
	}})
	if !errors.Is(err, types.ErrTooManySources) {
		t.Errorf("Compile() error = %v, want ErrTooManySources", err)
	}
}

func TestCompile_PredicatesParsedUpFront(t *testing.T) {
	compiled, err := Compile(&types.Template{
		Name: "t",
		Mappings: []types.FieldMapping{{
			TargetField: "tier",
			Kind:        types.KindConditional,
			Conditions: []types.Condition{
				{Predicate: `a > 1`, Then: "X"},
				{Predicate: `a > 1`, Then: "Y"}, // same predicate, shared tree
				{Then: "Z"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	conds := compiled.Mappings[0].Conditions
	if len(conds) != 3 {
		t.Fatalf("len(Conditions) = %d, want 3", len(conds))
	}
	if conds[0].Expr == nil || conds[1].Expr == nil {
		t.Fatalf("parsed predicates are nil")
	}
	if conds[0].Predicate != conds[1].Predicate {
		t.Errorf("Predicate mismatch: %q vs %q", conds[0].Predicate, conds[1].Predicate)
	}
	if !conds[2].IsElse || conds[2].Expr != nil {
		t.Errorf("conds[2] = %+v, want else branch with nil expr", conds[2])
	}
}

func TestCompile_SortsByTargetPosition(t *testing.T) {
	compiled, err := Compile(&types.Template{
		Mappings: []types.FieldMapping{
			{TargetField: "third", TargetPosition: 30, Kind: types.KindBlank},
			{TargetField: "first", TargetPosition: 10, Kind: types.KindBlank},
			{TargetField: "second-a", TargetPosition: 20, Kind: types.KindBlank},
			{TargetField: "second-b", TargetPosition: 20, Kind: types.KindBlank},
		},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []string{"first", "second-a", "second-b", "third"}
	for i, m := range compiled.Mappings {
		if m.TargetField != want[i] {
			t.Errorf("Mappings[%d] = %s, want %s (stable position order)", i, m.TargetField, want[i])
		}
	}
}

func TestCompile_SyntaxDiagnosticPerMapping(t *testing.T) {
	compiled, err := Compile(&types.Template{
		Mappings: []types.FieldMapping{
			{TargetField: "a", Kind: types.KindConditional, Conditions: []types.Condition{
				{Predicate: `broken ==`, Then: "x"},
			}},
			{TargetField: "b", Kind: types.KindConditional, Conditions: []types.Condition{
				{Predicate: `broken ==`, Then: "y"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	// Both mappings report the shared bad predicate against their own field.
	if len(compiled.Diagnostics) != 2 {
		t.Fatalf("len(Diagnostics) = %d, want 2", len(compiled.Diagnostics))
	}
	for i, want := range []string{"a", "b"} {
		if compiled.Diagnostics[i].TargetField != want {
			t.Errorf("Diagnostics[%d].TargetField = %s, want %s", i, compiled.Diagnostics[i].TargetField, want)
		}
	}
}

// Evaluation is total: any compiled mapping against any record yields a
// string without panicking, covering every kind and sparse records.
func TestEvaluate_Totality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	kinds := []types.MappingKind{
		types.KindConstant, types.KindSource, types.KindComposite,
		types.KindConditional, types.KindBlank,
	}
	predicates := []string{
		`a == '1'`, `a > b`, `a IN (1, 2)`, `a BETWEEN 1 AND 9`,
		`a LIKE '%x%'`, `a IS NULL`, `!a == b && c != 'z'`,
	}

	properties.Property("evaluate never panics and returns a string", prop.ForAll(
		func(kindIdx int, predIdx int, fieldVal string, length int, withDefault bool) (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					ok = false
				}
			}()

			m := types.FieldMapping{
				TargetField: "out",
				Kind:        kinds[kindIdx],
				SourceField: "a",
				Length:      length,
				Composite: &types.CompositeSpec{
					Sources:   []types.CompositeSource{{Field: "a"}, {Field: "b"}},
					Operation: types.AggSum,
				},
				Conditions: []types.Condition{
					{Predicate: predicates[predIdx], Then: "T"},
				},
			}
			if withDefault {
				d := "D"
				m.DefaultValue = &d
			}

			compiled, err := Compile(&types.Template{Mappings: []types.FieldMapping{m}})
			if err != nil {
				return false
			}

			rec := types.Record{"a": fieldVal, "c": nil}
			_ = Evaluate(rec, &compiled.Mappings[0])
			return true
		},
		gen.IntRange(0, len(kinds)-1),
		gen.IntRange(0, len(predicates)-1),
		gen.AnyString(),
		gen.IntRange(0, 32),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

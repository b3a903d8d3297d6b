// internal/transform/composite_test.go
package transform

import (
	"testing"

	"github.com/pkanduri1/fabric-transform/internal/types"
)

func sources(fields ...string) []types.CompositeSource {
	out := make([]types.CompositeSource, len(fields))
	for i, f := range fields {
		out[i] = types.CompositeSource{Field: f}
	}
	return out
}

func TestAggregate_Sum(t *testing.T) {
	tests := []struct {
		name string
		rec  types.Record
		spec types.CompositeSpec
		def  *string
		want string
	}{
		{
			name: "principal plus interest",
			rec:  types.Record{"principal": "100", "interest": "25"},
			spec: types.CompositeSpec{Sources: sources("principal", "interest"), Operation: types.AggSum},
			want: "125",
		},
		{
			name: "decimal sum renders without forced zeros",
			rec:  types.Record{"a": "10.25", "b": "0.75"},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggSum},
			want: "11",
		},
		{
			name: "non-numeric source contributes zero",
			rec:  types.Record{"a": "10", "b": "oops"},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggSum},
			want: "10",
		},
		{
			name: "all absent with default",
			rec:  types.Record{},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggSum},
			def:  str("NONE"),
			want: "NONE",
		},
		{
			name: "all absent without default pins to zero",
			rec:  types.Record{},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggSum},
			want: "0",
		},
		{
			name: "mixed value types",
			rec:  types.Record{"a": 100, "b": 25.5},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggSum},
			want: "125.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.rec, &tt.spec, tt.def); got != tt.want {
				t.Errorf("Aggregate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate_Avg(t *testing.T) {
	tests := []struct {
		name string
		rec  types.Record
		spec types.CompositeSpec
		def  *string
		want string
	}{
		{
			name: "simple average",
			rec:  types.Record{"a": "10", "b": "20"},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggAvg},
			want: "15",
		},
		{
			name: "divides by present count not numeric count",
			rec:  types.Record{"a": "10", "b": "oops"},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggAvg},
			want: "5",
		},
		{
			name: "absent source not in denominator",
			rec:  types.Record{"a": "10"},
			spec: types.CompositeSpec{Sources: sources("a", "ghost"), Operation: types.AggAvg},
			want: "10",
		},
		{
			name: "no present sources returns default",
			rec:  types.Record{},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggAvg},
			def:  str("N/A"),
			want: "N/A",
		},
		{
			name: "no present sources without default returns empty",
			rec:  types.Record{},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggAvg},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.rec, &tt.spec, tt.def); got != tt.want {
				t.Errorf("Aggregate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate_MinMax(t *testing.T) {
	rec := types.Record{"a": "30", "b": "-7", "c": "12", "text": "oops"}

	tests := []struct {
		name string
		spec types.CompositeSpec
		def  *string
		want string
	}{
		{
			name: "min",
			spec: types.CompositeSpec{Sources: sources("a", "b", "c"), Operation: types.AggMin},
			want: "-7",
		},
		{
			name: "max",
			spec: types.CompositeSpec{Sources: sources("a", "b", "c"), Operation: types.AggMax},
			want: "30",
		},
		{
			name: "non-numeric excluded from candidates",
			spec: types.CompositeSpec{Sources: sources("text", "c"), Operation: types.AggMin},
			want: "12",
		},
		{
			name: "no numeric candidate returns default",
			spec: types.CompositeSpec{Sources: sources("text", "ghost"), Operation: types.AggMax},
			def:  str("N/A"),
			want: "N/A",
		},
		{
			name: "no numeric candidate without default returns empty",
			spec: types.CompositeSpec{Sources: sources("text", "ghost"), Operation: types.AggMin},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(rec, &tt.spec, tt.def); got != tt.want {
				t.Errorf("Aggregate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate_Concat(t *testing.T) {
	tests := []struct {
		name string
		rec  types.Record
		spec types.CompositeSpec
		want string
	}{
		{
			name: "join order follows source order",
			rec:  types.Record{"first": "jane", "last": "doe"},
			spec: types.CompositeSpec{Sources: sources("last", "first"), Operation: types.AggConcat, Delimiter: ","},
			want: "doe,jane",
		},
		{
			name: "per-source functions applied before join",
			rec:  types.Record{"first": "jane", "last": "  doe  "},
			spec: types.CompositeSpec{
				Sources: []types.CompositeSource{
					{Field: "first", Function: types.FuncUpper},
					{Field: "last", Function: types.FuncTrim},
				},
				Operation: types.AggConcat,
				Delimiter: " ",
			},
			want: "JANE doe",
		},
		{
			name: "lower function",
			rec:  types.Record{"code": "AB-9"},
			spec: types.CompositeSpec{
				Sources:   []types.CompositeSource{{Field: "code", Function: types.FuncLower}},
				Operation: types.AggConcat,
			},
			want: "ab-9",
		},
		{
			name: "absent source keeps its join position",
			rec:  types.Record{"a": "x", "c": "z"},
			spec: types.CompositeSpec{Sources: sources("a", "b", "c"), Operation: types.AggConcat, Delimiter: "-"},
			want: "x--z",
		},
		{
			name: "default delimiter is empty string",
			rec:  types.Record{"a": "1", "b": "2"},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggConcat},
			want: "12",
		},
		{
			name: "numeric values render through the value model",
			rec:  types.Record{"a": 1.5, "b": true},
			spec: types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggConcat, Delimiter: "|"},
			want: "1.5|true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.rec, &tt.spec, nil); got != tt.want {
				t.Errorf("Aggregate() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Concat equals resolving each source and joining with the delimiter.
func TestAggregate_ConcatMatchesResolve(t *testing.T) {
	rec := types.Record{"a": "left", "b": "right"}
	spec := types.CompositeSpec{Sources: sources("a", "b"), Operation: types.AggConcat, Delimiter: "-"}

	want := Resolve(rec, "a", "") + "-" + Resolve(rec, "b", "")
	if got := Aggregate(rec, &spec, nil); got != want {
		t.Errorf("Aggregate() = %q, want %q", got, want)
	}
}

func TestAggregate_EmptySpec(t *testing.T) {
	if got := Aggregate(types.Record{}, nil, str("D")); got != "D" {
		t.Errorf("Aggregate(nil spec) = %q, want D", got)
	}
	spec := types.CompositeSpec{Operation: types.AggSum}
	if got := Aggregate(types.Record{}, &spec, nil); got != "" {
		t.Errorf("Aggregate(empty sources) = %q, want empty", got)
	}
}

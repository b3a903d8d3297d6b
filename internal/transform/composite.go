// internal/transform/composite.go
package transform

import (
	"strings"

	"github.com/pkanduri1/fabric-transform/internal/types"
)

/*
 * Composite aggregation.
 *
 * Computes a single value from an ordered list of source fields.
 *
 * Numeric operations (sum/avg/min/max) coerce each source to float64:
 *   - Non-numeric and missing sources contribute 0 to sum and avg totals
 *   - Min/max exclude them from candidate selection entirely
 *   - Avg divides by the count of PRESENT sources, not numeric successes,
 *     matching "average over configured fields" semantics
 *   - Sum with zero numeric contributors returns the configured default,
 *     or "0" when no default is configured
 *   - Avg/min/max with zero candidates return the default (else "")
 *
 * Concat resolves each source as a string, applies its optional per-source
 * function (upper/lower/trim) after resolution, and joins with the
 * delimiter. Absent sources contribute "" but keep their position in the
 * join order. Source order is preserved exactly as configured.
 */

// Aggregate computes the composite value for one record.
// def is nil when no default value is configured for the mapping.
func Aggregate(rec types.Record, spec *types.CompositeSpec, def *string) string {
	fallback := ""
	if def != nil {
		fallback = *def
	}
	if spec == nil || len(spec.Sources) == 0 {
		return fallback
	}

	switch spec.Operation {
	case types.AggConcat:
		return aggregateConcat(rec, spec)
	case types.AggSum, types.AggAvg, types.AggMin, types.AggMax:
		return aggregateNumeric(rec, spec, def)
	default:
		return fallback
	}
}

func aggregateConcat(rec types.Record, spec *types.CompositeSpec) string {
	parts := make([]string, 0, len(spec.Sources))
	for _, src := range spec.Sources {
		s := Resolve(rec, src.Field, "")
		switch src.Function {
		case types.FuncUpper:
			s = strings.ToUpper(s)
		case types.FuncLower:
			s = strings.ToLower(s)
		case types.FuncTrim:
			s = strings.TrimSpace(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, spec.Delimiter)
}

func aggregateNumeric(rec types.Record, spec *types.CompositeSpec, def *string) string {
	var (
		total        float64
		minV, maxV   float64
		presentCount int
		numericCount int
	)

	for _, src := range spec.Sources {
		v, ok := rec[src.Field]
		if ok && v != nil {
			presentCount++
		}
		n, isNum := types.NumericValue(v)
		if !isNum {
			continue // contributes 0 to sum/avg, excluded from min/max
		}
		if numericCount == 0 {
			minV, maxV = n, n
		} else {
			if n < minV {
				minV = n
			}
			if n > maxV {
				maxV = n
			}
		}
		numericCount++
		total += n
	}

	fallback := ""
	if def != nil {
		fallback = *def
	}

	switch spec.Operation {
	case types.AggSum:
		if numericCount == 0 {
			if def != nil {
				return *def
			}
			return "0"
		}
		return types.RenderValue(total)
	case types.AggAvg:
		if presentCount == 0 {
			return fallback
		}
		return types.RenderValue(total / float64(presentCount))
	case types.AggMin:
		if numericCount == 0 {
			return fallback
		}
		return types.RenderValue(minV)
	case types.AggMax:
		if numericCount == 0 {
			return fallback
		}
		return types.RenderValue(maxV)
	}
	return fallback
}

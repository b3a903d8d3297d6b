// internal/types/value.go
package types

import (
	"fmt"
	"strconv"
	"strings"
)

/*
 * Value model for record fields.
 *
 * Records carry dynamically-typed values (string, float64, int, int64, bool,
 * nil). The engine works on two canonical views of a value:
 *
 *   - RenderValue: the string representation used for output assembly and
 *     string comparison. Numbers render without forced locale separators or
 *     trailing zeros, booleans as "true"/"false", nil as "".
 *   - NumericValue: the float64 view used for numeric comparison and
 *     aggregation. Strings are whitespace-trimmed before parsing; booleans
 *     and empty strings are not numbers.
 *
 * Null vs coercion failure matter differently downstream: a nil value defers
 * to default-value fallback, a non-numeric value is excluded or zeroed by
 * the aggregation operation.
 */

// RenderValue converts a record value to its canonical string form.
// Lenient: accepts any type and converts to string.
func RenderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NumericValue converts a record value to float64 for numeric comparison.
// Accepts float64, int, int64, and numeric strings. Rejects booleans and nil.
// Whitespace-only strings are not valid numbers.
func NumericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

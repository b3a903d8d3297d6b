// internal/transform/resolve.go
package transform

import (
	"github.com/pkanduri1/fabric-transform/internal/types"
)

// Resolve looks up a source field in a record and returns its string
// representation, applying the default when the field is absent or nil.
// Unresolvable fields are a normal, expected condition: upstream data may
// be sparse, so this never fails.
func Resolve(rec types.Record, field, def string) string {
	v, ok := rec[field]
	if !ok || v == nil {
		return def
	}
	return types.RenderValue(v)
}

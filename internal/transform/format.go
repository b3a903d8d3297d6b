// internal/transform/format.go
package transform

import (
	"strings"

	"github.com/pkanduri1/fabric-transform/internal/types"
)

// Pad formats a value to exactly length characters for positional output.
// Values at or over the length are truncated to the left-most length
// characters; shorter values are padded on the configured side. A zero
// padChar means space. Pure and idempotent; length is counted in runes so
// multi-byte input cannot break fixed-width column alignment.
func Pad(value string, length int, side types.PadSide, padChar rune) string {
	if length <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) >= length {
		return string(runes[:length])
	}
	if padChar == 0 {
		padChar = ' '
	}
	fill := strings.Repeat(string(padChar), length-len(runes))
	if side == types.PadLeft {
		return fill + value
	}
	return value + fill
}

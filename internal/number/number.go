package number

import (
	"strconv"
	"strings"

	"github.com/uganh16/luadec/pkg/lua"
)

/* fractional digits printed before trimming, as "%f" does */
const FRACTION_DIGITS = 6

// Format renders a number constant the way the decompiler emits numerals:
// fixed notation, trailing fractional zeros trimmed.
func Format(n lua.Number) string {
	return Trim(strconv.FormatFloat(n, 'f', FRACTION_DIGITS, 64))
}

// Trim removes trailing zeros after the decimal point. The point itself is
// kept, so "2.000000" becomes "2.". Strings without a point are returned as is.
func Trim(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	end := len(s)
	for end > dot+1 && s[end-1] == '0' {
		end--
	}
	return s[:end]
}

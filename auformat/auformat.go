// Package auformat formats Australian business identifiers, currency and
// dates for document display.
package auformat

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ABN formats an 11-digit Australian Business Number as XX XXX XXX XXX.
// Anything that is not exactly 11 digits after stripping whitespace is
// returned verbatim.
func ABN(abn string) string {
	stripped := stripSpace(abn)
	if len(stripped) != 11 || !allDigits(stripped) {
		return abn
	}
	return stripped[0:2] + " " + stripped[2:5] + " " + stripped[5:8] + " " + stripped[8:11]
}

// ACN formats a 9-digit Australian Company Number as XXX XXX XXX, with the
// same verbatim fallback as ABN.
func ACN(acn string) string {
	stripped := stripSpace(acn)
	if len(stripped) != 9 || !allDigits(stripped) {
		return acn
	}
	return stripped[0:3] + " " + stripped[3:6] + " " + stripped[6:9]
}

// Currency renders an amount as whole dollars with thousands separators,
// e.g. 1000.0 -> "$1,000". Amounts round half away from zero; fractional
// cents are never shown.
func Currency(amount float64) string {
	rounded := int64(math.Round(math.Abs(amount)))
	s := groupThousands(strconv.FormatInt(rounded, 10))
	if amount < 0 && rounded != 0 {
		return "-$" + s
	}
	return "$" + s
}

// Date renders a time in the Australian day-first convention.
func Date(t time.Time) string {
	return t.Format("2 January 2006")
}

// DateTime renders a timestamp for footer display.
func DateTime(t time.Time) string {
	return t.Format("2 Jan 2006 3:04 PM")
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := n % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

func stripSpace(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

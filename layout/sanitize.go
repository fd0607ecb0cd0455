package layout

import (
	"html"
	"regexp"
	"strings"
)

// mojibake pairs seen in LLM-drafted text that passed through a bad
// UTF-8/cp1252 round trip. Order matters: longer sequences first.
var mojibakeReplacer = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", "“",
	"â€", "”",
	"â€“", "–",
	"â€”", "—",
	"â€¦", "…",
	"â€¢", "•",
	"Â ", " ",
	"Â°", "°",
	"Ã—", "×",
)

var (
	headingMarkRe  = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s*`)
	emphasisRe     = regexp.MustCompile(`(\*\*|__|\*|` + "`" + `)`)
	controlCharsRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// CleanText normalizes a raw content string for rendering. The pipeline is
// substitution-based and total: any input yields some (possibly empty)
// output, and malformed markup degrades to literal text.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	s := controlCharsRe.ReplaceAllString(text, "")
	s = mojibakeReplacer.Replace(s)
	s = html.UnescapeString(s)
	s = headingMarkRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	// Collapse all runs of whitespace, newlines included.
	return strings.Join(strings.Fields(s), " ")
}

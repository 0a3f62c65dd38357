package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-=*~.]{3,}\s*$`)
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize collapses noisy whitespace in raw OCR text and drops ruler lines ("-----", "=====").
// Line breaks are kept; runs of blank lines collapse into one.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFKC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Lines splits normalized text into trimmed, non-empty lines.
func Lines(s string) []string {
	raw := strings.Split(Normalize(s), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = NormalizeLine(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// NormalizeLine trims a single line and collapses inner whitespace.
func NormalizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold upper-cases s, strips diacritics and collapses whitespace. Synonym text, item names and
// search queries are compared in this form, so "Crème" and "CREME" are the same key.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(NormalizeLine(folded))
}

// Tokens splits a name into whitespace-delimited tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// HasWhitespace reports whether s contains any whitespace rune.
func HasWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

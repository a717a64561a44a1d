package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Make generates a URL-friendly slug from a title.
// Accents are folded to ASCII and every other run of non-alphanumerics
// becomes a single dash.
// Example: "E-commerce Platform (v2)" -> "e-commerce-platform-v2"
func Make(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	s := nonAlnumRegex.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(s, "-")
}

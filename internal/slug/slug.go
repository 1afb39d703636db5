// Package slug turns article titles into URL path segments.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalid    = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaces     = regexp.MustCompile(`\s+`)
	hyphens    = regexp.MustCompile(`-{2,}`)
	wellFormed = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Generate derives a slug from s, e.g. "Pathaan 2: Box Office!" becomes
// "pathaan-2-box-office". Accents are folded ("Café" gives "cafe"); the
// result is empty when s has no ASCII letters or digits left.
func Generate(s string) string {
	out := strings.ToLower(strings.TrimSpace(fold(s)))
	out = invalid.ReplaceAllString(out, "")
	out = spaces.ReplaceAllString(out, "-")
	out = hyphens.ReplaceAllString(out, "-")

	return strings.Trim(out, "-")
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return wellFormed.MatchString(s)
}

// fold strips combining marks after canonical decomposition.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}

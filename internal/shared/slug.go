package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]+`)
	slugDeaccentT = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify derives a URL slug from a title. Accented characters are
// folded to their ASCII base before non-alphanumerics collapse to dashes.
func Slugify(s string) string {
	folded, _, err := transform.String(slugDeaccentT, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = nonSlugChars.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}

// ValidSlug reports whether s is an acceptable slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

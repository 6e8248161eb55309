package parseutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9]+`)
	nonHandle = regexp.MustCompile(`[^a-zA-Z0-9._]+`)
)

// FoldASCII decomposes s and drops combining marks, so "Société" becomes
// "Societe".
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// DashedSlug folds s and joins its alphanumeric runs with single hyphens:
// "Café Crème SA" -> "cafe-creme-sa".
func DashedSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(FoldASCII(s)))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// HandleSlug folds s and strips everything but letters, digits, dots and
// underscores: "Café Crème" -> "cafecreme".
func HandleSlug(s string) string {
	return strings.ToLower(nonHandle.ReplaceAllString(FoldASCII(s), ""))
}

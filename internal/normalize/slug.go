package normalize

import (
	"regexp"
	"strings"
)

var slugStripRe = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)

// Slugify derives the stable category slug used for get-or-create identity:
// lowercase, strip everything that is not a letter, digit, space or hyphen,
// trim, then turn spaces into hyphens. Slugs must stay bit-identical across
// runs or category rows would silently duplicate.
func Slugify(text string) string {
	s := slugStripRe.ReplaceAllString(strings.ToLower(text), "")
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}

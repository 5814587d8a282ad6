package normalize

import (
	"regexp"
	"sort"
	"strings"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// stopWords are short function words in the catalog's languages (Dutch and
// English) that carry no search value.
var stopWords = map[string]struct{}{
	"de": {}, "het": {}, "een": {}, "van": {}, "en": {}, "in": {},
	"op": {}, "met": {}, "voor": {}, "the": {}, "and": {}, "or": {}, "of": {},
}

// GenerateSearchTags derives a deduplicated tag string from a product's name,
// category and optional brand for downstream full-text search. Tokens shorter
// than 3 characters and stop words are dropped. The result has set semantics;
// tags are rendered sorted so equal inputs always produce equal strings.
func GenerateSearchTags(name, category, brand string) string {
	seen := make(map[string]struct{})
	for _, source := range []string{name, category, brand} {
		for _, word := range wordRe.FindAllString(strings.ToLower(source), -1) {
			if len(word) < 3 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			seen[word] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return strings.Join(tags, ", ")
}

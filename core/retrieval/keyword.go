package retrieval

import (
	"strings"

	"github.com/skillsnav/atlas/model"
)

// stopWords are dropped from the lexical signal. Matching on them would
// reward every document containing filler text.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "do": {}, "for": {}, "from": {}, "how": {},
	"i": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "want": {}, "what": {},
	"which": {}, "will": {}, "with": {}, "you": {}, "my": {}, "me": {},
	"need": {}, "should": {},
}

// extractTerms returns the deduplicated content-bearing terms of a
// normalized query, in first-seen order.
func extractTerms(normalized string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, word := range strings.Fields(normalized) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if len(word) < 2 {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		terms = append(terms, word)
	}
	return terms
}

// keywordScore is the fraction of query terms found in the document's
// title or content, case-insensitively. It is 0 when the query carries
// no content-bearing terms.
func keywordScore(doc *model.Document, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	haystack := strings.ToLower(doc.Title + " " + doc.Content)
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

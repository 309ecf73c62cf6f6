// Package classify decides which category and which company a document
// belongs to. Both matchers are conservative: an ambiguous or weak signal
// yields no match rather than a guess.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/textnorm"
)

// MinKeywordLength is the shortest keyword, in runes, that may produce a match.
const MinKeywordLength = 3

// IdentifyCategory returns the single category whose keywords occur in
// normalizedText. When several categories match, the first one listed in
// priority wins; if none of them is prioritized the document is ambiguous and
// no category is returned.
func IdentifyCategory(normalizedText string, keywords domain.KeywordMap, priority domain.PriorityCategories) (domain.Category, bool) {
	if normalizedText == "" {
		return "", false
	}

	matched := make(map[domain.Category]struct{})
	for category, phrases := range keywords {
		if categoryMatches(normalizedText, phrases) {
			matched[category] = struct{}{}
		}
	}

	switch len(matched) {
	case 0:
		return "", false
	case 1:
		for category := range matched {
			return category, true
		}
	}

	for _, category := range priority {
		if _, ok := matched[category]; ok {
			return category, true
		}
	}
	return "", false
}

func categoryMatches(normalizedText string, phrases []string) bool {
	for _, phrase := range phrases {
		keyword := textnorm.Normalize(phrase)
		if utf8.RuneCountInString(keyword) < MinKeywordLength {
			continue
		}
		if strings.Contains(normalizedText, keyword) {
			return true
		}
	}
	return false
}

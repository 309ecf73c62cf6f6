package domain

import "slices"

// Category names a document category, e.g. "FGTS" or "Simples Nacional".
type Category string

// KeywordMap binds each category to the phrases that identify it.
type KeywordMap map[Category][]string

// PriorityCategories breaks ties when a document matches several categories.
// Earlier entries win.
type PriorityCategories []Category

func (p PriorityCategories) Contains(category Category) bool {
	return slices.Contains(p, category)
}

// CategoryFilter restricts a batch to a set of categories. Empty means all.
type CategoryFilter []Category

func (f CategoryFilter) Allows(category Category) bool {
	return len(f) == 0 || slices.Contains(f, category)
}

// ClassificationRules is the read-only configuration snapshot threaded through
// the matchers and the due-date calculator.
type ClassificationRules struct {
	Keywords KeywordMap
	Priority PriorityCategories
	Holidays []Holiday
	DueDates map[Category]DueDateRule
}

// Categories lists the configured categories in priority order followed by
// the remaining ones sorted by name.
func (r ClassificationRules) Categories() []Category {
	out := make([]Category, 0, len(r.Keywords))
	for _, c := range r.Priority {
		if _, ok := r.Keywords[c]; ok && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	rest := make([]Category, 0, len(r.Keywords))
	for c := range r.Keywords {
		if !slices.Contains(out, c) {
			rest = append(rest, c)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

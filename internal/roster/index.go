package roster

import "strings"

// Search returns the items whose label or place contains text (case-insensitive)
// and whose trade equals category, in input order. An empty text matches every
// item and the Wildcard category matches every trade.
func Search[T Entity](items []T, text string, category Category) []T {
	needle := strings.ToLower(text)

	result := make([]T, 0, len(items))
	for _, item := range items {
		if matchesText(item, needle) && matchesCategory(item, category) {
			result = append(result, item)
		}
	}
	return result
}

func matchesText(e Entity, needle string) bool {
	return strings.Contains(strings.ToLower(e.Label()), needle) ||
		strings.Contains(strings.ToLower(e.Place()), needle)
}

func matchesCategory(e Entity, category Category) bool {
	return category == Wildcard || e.Trade() == category
}

// DistinctCategories lists the trades present in items in order of first appearance.
// The Wildcard is never part of the result; callers prepend it when offering choices.
func DistinctCategories[T Entity](items []T) []Category {
	seen := make(map[Category]struct{})
	result := make([]Category, 0)
	for _, item := range items {
		c := item.Trade()
		if c == Wildcard {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}

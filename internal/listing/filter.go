package listing

import "strings"

type Query struct {
	// Text is matched case-insensitively against title and location.
	Text          string
	CategoryID    string
	FavoritesOnly bool
}

// Filter keeps the items matching every active predicate of q, preserving order.
func Filter(items []Item, q Query) []Item {
	text := strings.ToLower(q.Text)
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if text != "" &&
			!strings.Contains(strings.ToLower(item.Title), text) &&
			!strings.Contains(strings.ToLower(item.Location), text) {
			continue
		}
		if q.CategoryID != "" && item.CategoryID != q.CategoryID {
			continue
		}
		if q.FavoritesOnly && !item.Favorite {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

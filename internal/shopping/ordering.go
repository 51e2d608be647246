package shopping

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

// SortLists orders lists most recently updated first, ties broken by ID.
func SortLists(lists []*models.List) {
	slices.SortStableFunc(lists, func(a, b *models.List) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// SortItems orders incomplete items before completed ones, then by name using
// Brazilian Portuguese collation ignoring case and accents. Equal names fall
// back to a byte-wise comparison of the lowered name and then the ID, so the
// result is a total order.
func SortItems(items []*models.Item) {
	// Collators are not safe for concurrent use.
	coll := collate.New(language.BrazilianPortuguese, collate.Loose)
	slices.SortStableFunc(items, func(a, b *models.Item) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// FilterItems keeps the items whose name contains query, ignoring case.
// An empty query keeps everything.
func FilterItems(items []*models.Item, query string) []*models.Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) {
			out = append(out, item)
		}
	}
	return out
}

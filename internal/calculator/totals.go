package calculator

import (
	"math"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

// Summary is the header shown above a list's items.
type Summary struct {
	// ItemCount and CompletedCount count the items the summary was computed over.
	ItemCount      int
	CompletedCount int

	// Total is the sum of all defined line totals, rounded to cents.
	Total float64
}

// LineTotal computes quantity × unit price. The second result is false when
// either value is missing.
func LineTotal(item *models.Item) (float64, bool) {
	if item.Quantity == nil || item.UnitPrice == nil {
		return 0, false
	}
	return roundCents(*item.Quantity * *item.UnitPrice), true
}

// ListTotal sums the line totals of items. Items without a line total are skipped.
func ListTotal(items []*models.Item) float64 {
	var sum float64
	for _, item := range items {
		if total, ok := LineTotal(item); ok {
			sum += total
		}
	}
	return roundCents(sum)
}

// Summarize counts visible items and totals all items. Counts follow the
// current search while the total always covers the whole list.
func Summarize(all, visible []*models.Item) Summary {
	s := Summary{
		ItemCount: len(visible),
		Total:     ListTotal(all),
	}
	for _, item := range visible {
		if item.Completed {
			s.CompletedCount++
		}
	}
	return s
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

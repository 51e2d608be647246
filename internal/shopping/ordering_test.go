package shopping

import (
	"slices"
	"testing"
	"time"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

func names(items []*models.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestSortItems(t *testing.T) {
	tests := []struct {
		name  string
		items []*models.Item
		want  []string
	}{
		{
			name: "incomplete before completed",
			items: []*models.Item{
				{ID: "1", Name: "Arroz", Completed: true},
				{ID: "2", Name: "Feijão"},
				{ID: "3", Name: "Batata", Completed: true},
				{ID: "4", Name: "Cebola"},
			},
			want: []string{"Cebola", "Feijão", "Arroz", "Batata"},
		},
		{
			name: "case and accent insensitive",
			items: []*models.Item{
				{ID: "1", Name: "Banana"},
				{ID: "2", Name: "Água"},
				{ID: "3", Name: "açúcar"},
				{ID: "4", Name: "abacate"},
			},
			want: []string{"abacate", "açúcar", "Água", "Banana"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := slices.Clone(tt.items)
			SortItems(items)
			if got := names(items); !slices.Equal(got, tt.want) {
				t.Errorf("SortItems() = %v, want %v", got, tt.want)
			}

			// Sorting again changes nothing.
			again := slices.Clone(items)
			SortItems(again)
			if !slices.Equal(again, items) {
				t.Errorf("SortItems() is not idempotent: %v", names(again))
			}
		})
	}
}

func TestSortItemsTotalOrder(t *testing.T) {
	a := []*models.Item{
		{ID: "b", Name: "leite"},
		{ID: "a", Name: "Leite"},
		{ID: "c", Name: "Leite"},
	}
	b := []*models.Item{a[2], a[0], a[1]}

	SortItems(a)
	SortItems(b)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("order depends on input: %v vs %v", a[i].ID, b[i].ID)
		}
	}
}

func TestSortLists(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lists := []*models.List{
		{ID: "a", UpdatedAt: base},
		{ID: "b", UpdatedAt: base.Add(time.Hour)},
		{ID: "c", UpdatedAt: base.Add(time.Minute)},
		{ID: "d", UpdatedAt: base.Add(time.Hour)},
	}
	SortLists(lists)

	var got []string
	for _, l := range lists {
		got = append(got, l.ID)
	}
	if want := []string{"b", "d", "c", "a"}; !slices.Equal(got, want) {
		t.Errorf("SortLists() = %v, want %v", got, want)
	}
}

func TestFilterItems(t *testing.T) {
	items := []*models.Item{
		{ID: "1", Name: "Leite integral"},
		{ID: "2", Name: "Pão", Note: "leite"},
		{ID: "3", Name: "LEITE condensado"},
	}
	if got := FilterItems(items, " leite "); len(got) != 2 {
		t.Errorf("FilterItems() = %v, want 2 items", names(got))
	}
	if got := FilterItems(items, ""); len(got) != 3 {
		t.Errorf("empty query should keep all items, got %d", len(got))
	}
}

func TestShareCodes(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		code, err := NewShareCode()
		if err != nil {
			t.Fatalf("NewShareCode failed: %v", err)
		}
		if !ValidShareCode(code) {
			t.Fatalf("invalid share code %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 190 {
		t.Errorf("only %d distinct codes out of 200", len(seen))
	}

	if got := NormalizeShareCode(" ab12cd "); got != "AB12CD" {
		t.Errorf("NormalizeShareCode() = %q", got)
	}
	if ValidShareCode("ab12cd") || ValidShareCode("AB12C") || ValidShareCode("AB-2CD") {
		t.Error("ValidShareCode accepted a malformed code")
	}
}

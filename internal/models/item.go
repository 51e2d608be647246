package models

import "time"

// Item represents a single entry on a shopping list.
type Item struct {
	ID string

	// ListID is the list this item belongs to. Items are not removed when
	// their list is deleted unless cascade deletes are enabled.
	ListID string

	Name string

	// Quantity is optional. When set it is always > 0.
	Quantity *float64

	// UnitPrice is optional. When set it is always > 0.
	UnitPrice *float64

	Note      string
	Completed bool

	// AddedBy is the user ID of whoever added the item.
	AddedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem carries the fields of an item being added to a list.
type NewItem struct {
	ListID    string
	Name      string
	Quantity  *float64
	UnitPrice *float64
	Note      string
	AddedBy   string
}

// Number is a patch for an optional numeric field.
//
//	Number{}           leave the stored value alone
//	SetNumber(2)       store 2
//	ClearNumber()      remove the stored value
type Number struct {
	Set   bool
	Value *float64
}

// SetNumber returns a patch storing v.
func SetNumber(v float64) Number {
	return Number{Set: true, Value: &v}
}

// ClearNumber returns a patch removing the stored value.
func ClearNumber() Number {
	return Number{Set: true}
}

// Clears reports whether the patch removes the stored value.
func (n Number) Clears() bool {
	return n.Set && n.Value == nil
}

// ItemPatch is a partial update of an item. Nil pointer fields and unset
// Number fields are left untouched.
type ItemPatch struct {
	Name      *string
	Quantity  Number
	UnitPrice Number
	Note      *string
	Completed *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && !p.Quantity.Set && !p.UnitPrice.Set && p.Note == nil && p.Completed == nil
}

// Apply returns a copy of item with the patch applied. Timestamps are not touched.
func (p ItemPatch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Quantity.Set {
		item.Quantity = copyNumber(p.Quantity.Value)
	}
	if p.UnitPrice.Set {
		item.UnitPrice = copyNumber(p.UnitPrice.Value)
	}
	if p.Note != nil {
		item.Note = *p.Note
	}
	if p.Completed != nil {
		item.Completed = *p.Completed
	}
	return item
}

func copyNumber(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

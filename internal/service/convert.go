package service

import (
	"fmt"
	"time"

	"github.com/reginaldodesouza61/listas-compras/internal/calculator"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

func timestamp(t time.Time) *api.Timestamp {
	if t.IsZero() {
		return nil
	}
	return api.NewTimestamp(t)
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		Id:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoUrl:    u.PhotoURL,
		CreatedAt:   timestamp(time.Unix(u.CreatedAt, 0)),
	}
}

func toAPIList(l *models.List) *api.List {
	return &api.List{
		Id:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		OwnerId:      l.OwnerID,
		Members:      l.Members,
		MemberEmails: l.MemberEmails,
		ShareCode:    l.ShareCode,
		CreatedAt:    timestamp(l.CreatedAt),
		UpdatedAt:    timestamp(l.UpdatedAt),
	}
}

func toAPILists(lists []*models.List) []*api.List {
	out := make([]*api.List, len(lists))
	for i, l := range lists {
		out[i] = toAPIList(l)
	}
	return out
}

func toAPIItem(item *models.Item) *api.Item {
	out := &api.Item{
		Id:        item.ID,
		ListId:    item.ListID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Note:      item.Note,
		Completed: item.Completed,
		AddedBy:   item.AddedBy,
		CreatedAt: timestamp(item.CreatedAt),
		UpdatedAt: timestamp(item.UpdatedAt),
	}
	if total, ok := calculator.LineTotal(item); ok {
		out.LineTotal = &total
	}
	return out
}

func toAPIItems(items []*models.Item) []*api.Item {
	out := make([]*api.Item, len(items))
	for i, item := range items {
		out[i] = toAPIItem(item)
	}
	return out
}

func toAPISummary(s calculator.Summary) *api.Summary {
	return &api.Summary{
		ItemCount:      int32(s.ItemCount),
		CompletedCount: int32(s.CompletedCount),
		Total:          s.Total,
	}
}

func toAPIMembers(members []models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = &api.Member{
			Id:          m.ID,
			Email:       m.Email,
			DisplayName: m.DisplayName,
			PhotoUrl:    m.PhotoURL,
			IsOwner:     m.IsOwner,
		}
	}
	return out
}

// ProductMessage renders a product for clients.
func ProductMessage(p models.Product) *api.Product {
	return &api.Product{
		Code:     p.Code,
		Name:     p.Name,
		Brand:    p.Brand,
		Quantity: p.Quantity,
		ImageUrl: p.ImageURL,
	}
}

// toItemPatch builds a patch from an edit request. Masked numbers that are
// nil or <= 0 clear the stored value.
func toItemPatch(req *api.EditItemRequest) (models.ItemPatch, error) {
	var patch models.ItemPatch

	mask := req.UpdateMask
	if len(mask) == 0 {
		if req.Name != nil {
			mask = append(mask, api.FieldName)
		}
		if req.Quantity != nil {
			mask = append(mask, api.FieldQuantity)
		}
		if req.UnitPrice != nil {
			mask = append(mask, api.FieldUnitPrice)
		}
		if req.Note != nil {
			mask = append(mask, api.FieldNote)
		}
		if req.Completed != nil {
			mask = append(mask, api.FieldCompleted)
		}
	}

	for _, field := range mask {
		switch field {
		case api.FieldName:
			name := ""
			if req.Name != nil {
				name = *req.Name
			}
			patch.Name = &name
		case api.FieldQuantity:
			patch.Quantity = numberPatch(req.Quantity)
		case api.FieldUnitPrice, "unit_price":
			patch.UnitPrice = numberPatch(req.UnitPrice)
		case api.FieldNote:
			note := ""
			if req.Note != nil {
				note = *req.Note
			}
			patch.Note = &note
		case api.FieldCompleted:
			completed := req.Completed != nil && *req.Completed
			patch.Completed = &completed
		default:
			return patch, fmt.Errorf("unknown field in update mask: %q", field)
		}
	}
	return patch, nil
}

func numberPatch(v *float64) models.Number {
	if v == nil || *v <= 0 {
		return models.ClearNumber()
	}
	return models.SetNumber(*v)
}

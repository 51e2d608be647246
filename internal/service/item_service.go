package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/reginaldodesouza61/listas-compras/internal/calculator"
	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/shopping"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

// ItemService implements the Connect ItemService
type ItemService struct {
	lists   *shopping.ListStore
	items   *shopping.ItemStore
	metrics *metrics.Metrics
}

// NewItemService creates a new ItemService. The list store is used for membership checks.
func NewItemService(lists *shopping.ListStore, items *shopping.ItemStore, m *metrics.Metrics) *ItemService {
	return &ItemService{lists: lists, items: items, metrics: m}
}

// SubscribeItems streams the items of a list with their summary. A query
// narrows the items by name.
func (s *ItemService) SubscribeItems(ctx context.Context, req *connect.Request[api.SubscribeItemsRequest], stream *connect.ServerStream[api.SubscribeItemsResponse]) error {
	list, caller, err := requireMember(ctx, s.lists, req.Msg.ListId)
	if err != nil {
		return err
	}
	slog.Info("SubscribeItems request received", "list_id", list.ID, "user_id", caller.ID)

	items, err := s.items.SubscribeAsMember(ctx, caller, list.ID)
	if err != nil {
		slog.Error("SubscribeItems failed", "list_id", list.ID, "error", err)
		return toConnectError(err)
	}
	defer items.Cancel()
	defer s.metrics.SubscriptionStarted("items")()

	for snapshot := range items.Snapshots() {
		if err := stream.Send(ItemsSnapshot(snapshot, req.Msg.Query)); err != nil {
			return err
		}
	}
	if err := items.Err(); err != nil {
		slog.Warn("Item subscription ended", "list_id", list.ID, "user_id", caller.ID, "error", err)
		return toConnectError(err)
	}
	return nil
}

// ItemsSnapshot renders one item snapshot, filtered by query, with its summary.
func ItemsSnapshot(items []*models.Item, query string) *api.SubscribeItemsResponse {
	visible := shopping.FilterItems(items, query)
	return &api.SubscribeItemsResponse{
		Items:   toAPIItems(visible),
		Summary: toAPISummary(calculator.Summarize(items, visible)),
	}
}

// AddItem adds an item to a list.
func (s *ItemService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	list, caller, err := requireMember(ctx, s.lists, req.Msg.ListId)
	if err != nil {
		return nil, err
	}

	id, err := s.items.Add(ctx, models.NewItem{
		ListID:    list.ID,
		Name:      req.Msg.Name,
		Quantity:  req.Msg.Quantity,
		UnitPrice: req.Msg.UnitPrice,
		Note:      req.Msg.Note,
		AddedBy:   caller.ID,
	})
	if err != nil {
		slog.Error("AddItem failed", "list_id", list.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Item added", "list_id", list.ID, "item_id", id, "user_id", caller.ID)
	return connect.NewResponse(&api.AddItemResponse{ItemId: id}), nil
}

// ToggleItem marks an item as completed or not.
func (s *ItemService) ToggleItem(ctx context.Context, req *connect.Request[api.ToggleItemRequest]) (*connect.Response[api.ToggleItemResponse], error) {
	if err := s.requireItem(ctx, req.Msg.ListId, req.Msg.ItemId); err != nil {
		return nil, err
	}

	if err := s.items.Toggle(ctx, req.Msg.ItemId, req.Msg.ListId, req.Msg.Completed); err != nil {
		slog.Error("ToggleItem failed", "item_id", req.Msg.ItemId, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ToggleItemResponse{}), nil
}

// DeleteItem removes an item from a list.
func (s *ItemService) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	if err := s.requireItem(ctx, req.Msg.ListId, req.Msg.ItemId); err != nil {
		return nil, err
	}

	if err := s.items.Delete(ctx, req.Msg.ItemId, req.Msg.ListId); err != nil {
		slog.Error("DeleteItem failed", "item_id", req.Msg.ItemId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Item deleted", "list_id", req.Msg.ListId, "item_id", req.Msg.ItemId)
	return connect.NewResponse(&api.DeleteItemResponse{}), nil
}

// EditItem applies a partial update to an item.
func (s *ItemService) EditItem(ctx context.Context, req *connect.Request[api.EditItemRequest]) (*connect.Response[api.EditItemResponse], error) {
	if err := s.requireItem(ctx, req.Msg.ListId, req.Msg.ItemId); err != nil {
		return nil, err
	}

	patch, err := toItemPatch(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := s.items.Edit(ctx, req.Msg.ItemId, req.Msg.ListId, patch); err != nil {
		slog.Error("EditItem failed", "item_id", req.Msg.ItemId, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.EditItemResponse{}), nil
}

// requireItem checks the caller's membership and that the item belongs to the list.
func (s *ItemService) requireItem(ctx context.Context, listID, itemID string) error {
	if _, _, err := requireMember(ctx, s.lists, listID); err != nil {
		return err
	}
	if itemID == "" {
		return connect.NewError(connect.CodeInvalidArgument, errors.New("item_id required"))
	}

	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return toConnectError(err)
	}
	if item.ListID != listID {
		return connect.NewError(connect.CodeNotFound, errors.New("item not found in this list"))
	}
	return nil
}

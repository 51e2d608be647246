package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/notify"
	"github.com/reginaldodesouza61/listas-compras/internal/shopping"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

// Texts of the "list updated" notification.
const (
	notificationTitle = "Lista Atualizada"
	notificationBody  = "Há novidades na lista \"%s\""
)

// ListService implements the Connect ListService
type ListService struct {
	lists    *shopping.ListStore
	notifier notify.Notifier
	metrics  *metrics.Metrics
}

// NewListService creates a new ListService on the given list store.
func NewListService(lists *shopping.ListStore, notifier notify.Notifier, m *metrics.Metrics) *ListService {
	return &ListService{lists: lists, notifier: notifier, metrics: m}
}

// SubscribeLists streams the caller's lists until the client disconnects.
func (s *ListService) SubscribeLists(ctx context.Context, req *connect.Request[api.SubscribeListsRequest], stream *connect.ServerStream[api.SubscribeListsResponse]) error {
	caller, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	slog.Info("SubscribeLists request received", "user_id", caller.ID)

	lists, err := s.lists.Subscribe(ctx, caller)
	if err != nil {
		slog.Error("SubscribeLists failed", "user_id", caller.ID, "error", err)
		return toConnectError(err)
	}
	defer lists.Cancel()
	defer s.metrics.SubscriptionStarted("lists")()

	for snapshot := range lists.Snapshots() {
		if err := stream.Send(ListsSnapshot(snapshot)); err != nil {
			return err
		}
	}
	if err := lists.Err(); err != nil {
		slog.Error("List subscription ended", "user_id", caller.ID, "error", err)
		return connect.NewError(connect.CodeUnavailable, err)
	}
	return nil
}

// ListsSnapshot renders one snapshot of a member's lists.
func ListsSnapshot(lists []*models.List) *api.SubscribeListsResponse {
	return &api.SubscribeListsResponse{Lists: toAPILists(lists)}
}

// GetList retrieves a list by ID.
func (s *ListService) GetList(ctx context.Context, req *connect.Request[api.GetListRequest]) (*connect.Response[api.GetListResponse], error) {
	list, _, err := requireMember(ctx, s.lists, req.Msg.ListId)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetListResponse{List: toAPIList(list)}), nil
}

// CreateList creates a list owned by the caller.
func (s *ListService) CreateList(ctx context.Context, req *connect.Request[api.CreateListRequest]) (*connect.Response[api.CreateListResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateList request received", "user_id", caller.ID, "name", req.Msg.Name)

	id, err := s.lists.Create(ctx, caller, req.Msg.Name, req.Msg.Description)
	if err != nil {
		slog.Error("CreateList failed", "user_id", caller.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateListResponse{ListId: id}), nil
}

// UpdateList changes the name or description of a list.
func (s *ListService) UpdateList(ctx context.Context, req *connect.Request[api.UpdateListRequest]) (*connect.Response[api.UpdateListResponse], error) {
	if _, _, err := requireMember(ctx, s.lists, req.Msg.ListId); err != nil {
		return nil, err
	}

	patch := models.ListPatch{Name: req.Msg.Name, Description: req.Msg.Description}
	if patch.IsEmpty() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("nothing to update"))
	}
	if err := s.lists.Update(ctx, req.Msg.ListId, patch); err != nil {
		slog.Error("UpdateList failed", "list_id", req.Msg.ListId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("List updated", "list_id", req.Msg.ListId)
	return connect.NewResponse(&api.UpdateListResponse{}), nil
}

// DeleteList removes a list. Only its owner may delete it.
func (s *ListService) DeleteList(ctx context.Context, req *connect.Request[api.DeleteListRequest]) (*connect.Response[api.DeleteListResponse], error) {
	list, caller, err := requireMember(ctx, s.lists, req.Msg.ListId)
	if err != nil {
		return nil, err
	}
	if !list.IsOwner(caller.ID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("only the list owner can delete the list"))
	}

	if err := s.lists.Delete(ctx, list.ID); err != nil {
		slog.Error("DeleteList failed", "list_id", list.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("List deleted", "list_id", list.ID, "user_id", caller.ID)
	return connect.NewResponse(&api.DeleteListResponse{}), nil
}

// ShareList adds the account registered with an email to the list.
func (s *ListService) ShareList(ctx context.Context, req *connect.Request[api.ShareListRequest]) (*connect.Response[api.ShareListResponse], error) {
	list, caller, err := requireMember(ctx, s.lists, req.Msg.ListId)
	if err != nil {
		return nil, err
	}
	slog.Info("ShareList request received", "list_id", list.ID, "user_id", caller.ID)

	if err := s.lists.ShareByEmail(ctx, list.ID, req.Msg.Email); err != nil {
		slog.Warn("ShareList failed", "list_id", list.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ShareListResponse{}), nil
}

// RemoveMember removes a member from a list. Only the owner may remove
// members; the owner cannot be removed.
func (s *ListService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	list, caller, err := requireMember(ctx, s.lists, req.Msg.ListId)
	if err != nil {
		return nil, err
	}
	if err := shopping.CheckRemoval(list, caller.ID, req.Msg.UserId); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.lists.RemoveMember(ctx, list.ID, req.Msg.UserId); err != nil {
		slog.Error("RemoveMember failed", "list_id", list.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// JoinList adds the caller to the list with the given share code.
func (s *ListService) JoinList(ctx context.Context, req *connect.Request[api.JoinListRequest]) (*connect.Response[api.JoinListResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("JoinList request received", "user_id", caller.ID)

	id, err := s.lists.JoinByCode(ctx, caller, req.Msg.ShareCode)
	if err != nil {
		slog.Warn("JoinList failed", "user_id", caller.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.JoinListResponse{ListId: id}), nil
}

// ListMembers resolves the members of a list for display.
func (s *ListService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if _, _, err := requireMember(ctx, s.lists, req.Msg.ListId); err != nil {
		return nil, err
	}

	members, err := s.lists.Members(ctx, req.Msg.ListId)
	if err != nil {
		slog.Error("ListMembers failed", "list_id", req.Msg.ListId, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(members)}), nil
}

// NotifyMembers tells the members of a list that it changed. Lists without
// other members have nobody to notify.
func (s *ListService) NotifyMembers(ctx context.Context, req *connect.Request[api.NotifyMembersRequest]) (*connect.Response[api.NotifyMembersResponse], error) {
	list, caller, err := requireMember(ctx, s.lists, req.Msg.ListId)
	if err != nil {
		return nil, err
	}
	if len(list.Members) <= 1 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("the list has no other members"))
	}

	n := models.Notification{
		ListID:   list.ID,
		ListName: list.Name,
		Title:    notificationTitle,
		Body:     fmt.Sprintf(notificationBody, list.Name),
		SenderID: caller.ID,
		SentAt:   time.Now(),
	}
	count, err := s.notifier.Notify(ctx, n, list.Members)
	if err != nil {
		slog.Error("NotifyMembers failed", "list_id", list.ID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	slog.Info("Members notified", "list_id", list.ID, "count", count)
	return connect.NewResponse(&api.NotifyMembersResponse{NotifiedCount: int32(count)}), nil
}

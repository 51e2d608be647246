package shopping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

// maxShareCodeAttempts bounds the retries on share code collisions.
const maxShareCodeAttempts = 5

// ListStore manages lists and their membership.
type ListStore struct {
	backend storage.Store
	opts    options
}

// NewListStore creates a ListStore on backend.
func NewListStore(backend storage.Store, opts ...Option) *ListStore {
	return &ListStore{backend: backend, opts: newOptions(opts)}
}

// Subscribe streams the lists the caller belongs to, most recently updated
// first. Without an identity the stream holds a single empty snapshot.
func (s *ListStore) Subscribe(ctx context.Context, caller models.Identity) (*realtime.Stream[*models.List], error) {
	if caller.ID == "" {
		return realtime.Static(ctx, []*models.List{}), nil
	}

	src, err := s.backend.WatchLists(ctx, caller.ID)
	if err != nil {
		return nil, backendErr("subscribe lists", err)
	}
	return realtime.Map(ctx, src, func(lists []*models.List) []*models.List {
		sorted := slices.Clone(lists)
		SortLists(sorted)
		return sorted
	}), nil
}

// Create creates a list owned by the caller and returns its ID.
func (s *ListStore) Create(ctx context.Context, caller models.Identity, name, description string) (string, error) {
	if caller.ID == "" {
		return "", fmt.Errorf("create list: %w", ErrPermissionDenied)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("list name is required")
	}

	code, err := s.uniqueShareCode(ctx)
	if err != nil {
		return "", err
	}

	now := s.opts.now()
	list := &models.List{
		Name:         name,
		Description:  strings.TrimSpace(description),
		OwnerID:      caller.ID,
		Members:      []string{caller.ID},
		MemberEmails: map[string]string{},
		ShareCode:    code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if caller.Email != "" {
		list.MemberEmails[caller.ID] = caller.Email
	}

	if err := s.backend.CreateList(ctx, list); err != nil {
		return "", backendErr("create list", err)
	}

	slog.Info("List created", "list_id", list.ID, "user_id", caller.ID)
	return list.ID, nil
}

// uniqueShareCode draws share codes until one is not in use.
func (s *ListStore) uniqueShareCode(ctx context.Context) (string, error) {
	for range maxShareCodeAttempts {
		code, err := s.opts.newShareCode()
		if err != nil {
			return "", fmt.Errorf("create list: %w: %w", ErrUnavailable, err)
		}
		_, err = s.backend.FindListByShareCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", backendErr("check share code", err)
		}
		slog.Warn("Share code collision", "code", code)
	}
	return "", fmt.Errorf("create list: %w: no free share code after %d attempts", ErrUnavailable, maxShareCodeAttempts)
}

// Get returns a list by ID.
func (s *ListStore) Get(ctx context.Context, listID string) (*models.List, error) {
	list, err := s.backend.GetList(ctx, listID)
	if err != nil {
		return nil, backendErr("get list", err)
	}
	return list, nil
}

// Update renames or re-describes a list and bumps its update time.
func (s *ListStore) Update(ctx context.Context, listID string, patch models.ListPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return invalid("list name is required")
		}
		patch.Name = &name
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		patch.Description = &desc
	}

	if err := s.backend.UpdateList(ctx, listID, patch, s.opts.now()); err != nil {
		return backendErr("update list", err)
	}
	return nil
}

// Delete removes a list. Its items are removed too only when cascade deletes
// are enabled.
func (s *ListStore) Delete(ctx context.Context, listID string) error {
	if err := s.backend.DeleteList(ctx, listID); err != nil {
		return backendErr("delete list", err)
	}

	if s.opts.cascadeDelete {
		n, err := s.backend.DeleteItemsByList(ctx, listID)
		if err != nil {
			return backendErr("delete list items", err)
		}
		slog.Info("List items deleted", "list_id", listID, "count", n)
	}
	return nil
}

// ShareByEmail adds the account registered with email to the list.
func (s *ListStore) ShareByEmail(ctx context.Context, listID, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return invalid("a valid email is required")
	}

	user, err := s.backend.GetUserByEmail(ctx, email)
	if err != nil {
		return backendErr("find user", err)
	}
	if user == nil {
		return fmt.Errorf("share list with %s: %w", email, ErrUserNotFound)
	}

	if err := s.backend.AddListMember(ctx, listID, user.ID, email, s.opts.now()); err != nil {
		return backendErr("share list", err)
	}

	slog.Info("List shared", "list_id", listID, "user_id", user.ID)
	return nil
}

// CheckRemoval reports whether actor may remove target from list: only the
// owner removes members, the owner is never removed and nobody removes
// themselves.
func CheckRemoval(list *models.List, actorID, targetID string) error {
	switch {
	case !list.IsOwner(actorID):
		return fmt.Errorf("only the list owner can remove members: %w", ErrPermissionDenied)
	case list.IsOwner(targetID):
		return fmt.Errorf("the list owner cannot be removed: %w", ErrPermissionDenied)
	case actorID == targetID:
		return fmt.Errorf("cannot remove yourself: %w", ErrPermissionDenied)
	case !list.IsMember(targetID):
		return fmt.Errorf("user %s is not a member: %w", targetID, ErrNotFound)
	}
	return nil
}

// RemoveMember removes userID from the list. Callers check CheckRemoval first.
func (s *ListStore) RemoveMember(ctx context.Context, listID, userID string) error {
	if userID == "" {
		return invalid("member id is required")
	}
	if err := s.backend.RemoveListMember(ctx, listID, userID, s.opts.now()); err != nil {
		return backendErr("remove member", err)
	}

	slog.Info("Member removed", "list_id", listID, "user_id", userID)
	return nil
}

// JoinByCode adds the caller to the list using code and returns the list ID.
// Codes match case-insensitively.
func (s *ListStore) JoinByCode(ctx context.Context, caller models.Identity, code string) (string, error) {
	if caller.ID == "" {
		return "", fmt.Errorf("join list: %w", ErrPermissionDenied)
	}
	code = NormalizeShareCode(code)
	if code == "" {
		return "", invalid("share code is required")
	}

	list, err := s.backend.FindListByShareCode(ctx, code)
	if err != nil {
		return "", backendErr("find list by code", err)
	}
	if list.IsMember(caller.ID) {
		return "", fmt.Errorf("join list %s: %w", list.ID, ErrAlreadyMember)
	}

	if err := s.backend.AddListMember(ctx, list.ID, caller.ID, caller.Email, s.opts.now()); err != nil {
		return "", backendErr("join list", err)
	}

	slog.Info("List joined", "list_id", list.ID, "user_id", caller.ID)
	return list.ID, nil
}

// Members resolves the members of a list for display. Each member is looked up
// in the user directory, then in the list's email map, and otherwise shown as
// an unknown user.
func (s *ListStore) Members(ctx context.Context, listID string) ([]models.Member, error) {
	list, err := s.Get(ctx, listID)
	if err != nil {
		return nil, err
	}

	users, err := s.backend.GetUsersByIDs(ctx, list.Members)
	if err != nil {
		return nil, backendErr("get members", err)
	}

	members := make([]models.Member, 0, len(list.Members))
	for _, id := range list.Members {
		members = append(members, resolveMember(list, id, users[id]))
	}
	return members, nil
}

func resolveMember(list *models.List, id string, user *models.User) models.Member {
	m := models.Member{ID: id, IsOwner: list.IsOwner(id)}
	switch {
	case user != nil:
		m.Email = user.Email
		if m.Email == "" {
			m.Email = models.UnknownEmail
		}
		m.DisplayName = user.DisplayName
		m.PhotoURL = user.PhotoURL
	case list.MemberEmails[id] != "":
		m.Email = list.MemberEmails[id]
		m.DisplayName, _, _ = strings.Cut(m.Email, "@")
	default:
		m.Email = models.UnknownEmail
		m.DisplayName = models.DefaultDisplayName
	}
	return m
}

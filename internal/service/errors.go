package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/middleware"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/shopping"
)

// toConnectError maps store and auth errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, shopping.ErrInvalidArgument),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail):
		code = connect.CodeInvalidArgument
	case errors.Is(err, shopping.ErrNotFound), errors.Is(err, shopping.ErrUserNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, shopping.ErrAlreadyMember), errors.Is(err, auth.ErrEmailExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, shopping.ErrPermissionDenied):
		code = connect.CodePermissionDenied
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		code = connect.CodeUnauthenticated
	case errors.Is(err, auth.ErrProviderUnavailable):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, shopping.ErrUnavailable):
		code = connect.CodeUnavailable
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}
	return connect.NewError(code, err)
}

// requireCaller returns the authenticated caller or CodeUnauthenticated.
func requireCaller(ctx context.Context) (models.Identity, error) {
	caller := middleware.GetIdentity(ctx)
	if caller.ID == "" {
		return caller, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return caller, nil
}

// requireMember loads a list and checks that the caller belongs to it.
func requireMember(ctx context.Context, lists *shopping.ListStore, listID string) (*models.List, models.Identity, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, caller, err
	}
	if listID == "" {
		return nil, caller, connect.NewError(connect.CodeInvalidArgument, errors.New("list_id required"))
	}

	list, err := lists.Get(ctx, listID)
	if err != nil {
		return nil, caller, toConnectError(err)
	}
	if !list.IsMember(caller.ID) {
		return nil, caller, connect.NewError(connect.CodePermissionDenied, errors.New("not a member of this list"))
	}
	return list, caller, nil
}

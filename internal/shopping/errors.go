package shopping

import (
	"errors"
	"fmt"

	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

// Errors returned by the list and item stores. Callers match them with errors.Is.
var (
	// ErrInvalidArgument is a validation failure detected before any backend call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned for unknown lists, items and share codes.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when an email invite matches no account.
	ErrUserNotFound = errors.New("user not found: the invited user must create an account first")

	// ErrAlreadyMember is returned when joining a list the caller already belongs to.
	ErrAlreadyMember = errors.New("already a member of this list")

	// ErrPermissionDenied is returned when the caller may not perform the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnavailable is a backend failure. The operation may be retried by the user.
	ErrUnavailable = errors.New("backend unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// backendErr classifies a storage error.
func backendErr(action string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", action, ErrUnavailable, err)
}

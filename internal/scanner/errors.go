package scanner

import (
	"context"
	"errors"
	"fmt"
)

// Errors reported by Camera implementations. Wrap them so the scanner can
// classify the failure.
var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoCamera         = errors.New("no camera found")
)

// ErrNoBarcode is returned by a Decoder when a frame holds no readable barcode.
// It never ends a scan.
var ErrNoBarcode = errors.New("no barcode in frame")

// ErrCancelled is returned by Scan when the scan was closed or its context ended.
var ErrCancelled = errors.New("scan cancelled")

// ErrBusy is returned by Scan when a scan is already running.
var ErrBusy = errors.New("scanner busy")

// ErrorKind classifies scan failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindPermissionDenied
	KindNoCamera
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission-denied"
	case KindNoCamera:
		return "no-camera"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a classified scan failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scan failed (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user for the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindPermissionDenied:
		return "Camera access was denied. Allow camera access in the browser settings and try again."
	case KindNoCamera:
		return "No camera found on this device."
	case KindTimeout:
		return "The camera did not respond in time. Close other apps using the camera and try again."
	default:
		return "Could not access the camera. Check the permissions."
	}
}

func classify(err error) *Error {
	var scanErr *Error
	if errors.As(err, &scanErr) {
		return scanErr
	}

	kind := KindUnknown
	switch {
	case errors.Is(err, ErrPermissionDenied):
		kind = KindPermissionDenied
	case errors.Is(err, ErrNoCamera):
		kind = KindNoCamera
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	}
	return &Error{Kind: kind, Err: err}
}

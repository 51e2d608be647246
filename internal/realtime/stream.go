// Package realtime provides live, cancellable snapshot streams and the
// change broker used to build live queries on top of a plain database.
package realtime

import (
	"context"
	"sync"
)

// Producer fills a stream. It calls emit for every snapshot, in order, and
// returns when ctx is cancelled or the source fails. emit returns false once
// the stream has been cancelled; the producer should return promptly then.
type Producer[T any] func(ctx context.Context, emit func([]T) bool) error

// Stream is a live sequence of snapshots. It runs until Cancel is called,
// the parent context ends, or the producer fails.
type Stream[T any] struct {
	ch     chan []T
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

// NewStream starts produce in its own goroutine.
func NewStream[T any](ctx context.Context, produce Producer[T]) *Stream[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream[T]{
		ch:     make(chan []T),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		// done is closed before ch so that a consumer observing the closed
		// channel always sees the final error.
		defer close(s.ch)
		defer close(s.done)
		defer cancel()

		err := produce(ctx, func(docs []T) bool {
			select {
			case s.ch <- docs:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			s.err = err
		}
	}()

	return s
}

// Snapshots returns the channel snapshots are delivered on.
// It is closed when the stream ends.
func (s *Stream[T]) Snapshots() <-chan []T {
	return s.ch
}

// Cancel stops the stream. No snapshot is delivered after Cancel returns.
// It is safe to call more than once and from several goroutines.
func (s *Stream[T]) Cancel() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed once the producer has returned.
func (s *Stream[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that ended the stream, if any.
// Cancellation is not an error.
func (s *Stream[T]) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Static returns a stream that delivers docs once and then stays open,
// without further snapshots, until cancelled.
func Static[T any](ctx context.Context, docs []T) *Stream[T] {
	return NewStream(ctx, func(ctx context.Context, emit func([]T) bool) error {
		if !emit(docs) {
			return nil
		}
		<-ctx.Done()
		return nil
	})
}

// Map returns a stream delivering fn applied to every snapshot of src.
// Cancelling the returned stream cancels src.
func Map[T, U any](ctx context.Context, src *Stream[T], fn func([]T) []U) *Stream[U] {
	return NewStream(ctx, func(ctx context.Context, emit func([]U) bool) error {
		defer src.Cancel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case docs, ok := <-src.Snapshots():
				if !ok {
					return src.Err()
				}
				if !emit(fn(docs)) {
					return nil
				}
			}
		}
	})
}

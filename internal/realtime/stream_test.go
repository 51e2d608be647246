package realtime

import (
	"context"
	"errors"
	"testing"
	"time"
)

func receive[T any](t *testing.T, s *Stream[T]) []T {
	t.Helper()
	select {
	case docs, ok := <-s.Snapshots():
		if !ok {
			t.Fatal("stream closed unexpectedly")
		}
		return docs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestStreamDeliversInOrder(t *testing.T) {
	s := NewStream(context.Background(), func(ctx context.Context, emit func([]int) bool) error {
		for i := 1; i <= 3; i++ {
			if !emit([]int{i}) {
				return nil
			}
		}
		<-ctx.Done()
		return nil
	})
	defer s.Cancel()

	for want := 1; want <= 3; want++ {
		got := receive(t, s)
		if len(got) != 1 || got[0] != want {
			t.Fatalf("snapshot = %v, want [%d]", got, want)
		}
	}
}

func TestStreamCancelStopsDelivery(t *testing.T) {
	produced := make(chan struct{}, 100)
	s := NewStream(context.Background(), func(ctx context.Context, emit func([]int) bool) error {
		for i := 0; ; i++ {
			produced <- struct{}{}
			if !emit([]int{i}) {
				return nil
			}
		}
	})

	receive(t, s)
	s.Cancel()

	if _, ok := <-s.Snapshots(); ok {
		t.Error("expected no snapshot after Cancel")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err after cancel = %v, want nil", err)
	}

	// Idempotent teardown.
	s.Cancel()
	s.Cancel()
}

func TestStreamProducerError(t *testing.T) {
	boom := errors.New("boom")
	s := NewStream(context.Background(), func(ctx context.Context, emit func([]string) bool) error {
		emit([]string{"a"})
		return boom
	})

	receive(t, s)
	for range s.Snapshots() {
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err = %v, want %v", s.Err(), boom)
	}
	s.Cancel()
}

func TestStreamParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := Static(ctx, []string{"x"})
	receive(t, s)

	cancel()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop with its parent context")
	}
}

func TestMap(t *testing.T) {
	src := NewStream(context.Background(), func(ctx context.Context, emit func([]int) bool) error {
		emit([]int{1, 2})
		emit([]int{3})
		<-ctx.Done()
		return nil
	})
	doubled := Map(context.Background(), src, func(in []int) []int {
		out := make([]int, len(in))
		for i, v := range in {
			out[i] = v * 2
		}
		return out
	})

	if got := receive(t, doubled); len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("first snapshot = %v, want [2 4]", got)
	}
	if got := receive(t, doubled); len(got) != 1 || got[0] != 6 {
		t.Errorf("second snapshot = %v, want [6]", got)
	}

	doubled.Cancel()
	select {
	case <-src.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("cancelling the mapped stream did not cancel its source")
	}
}

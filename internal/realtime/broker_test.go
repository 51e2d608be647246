package realtime

import (
	"testing"
	"time"
)

func TestBrokerPublish(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("lists/alice")
	defer a.Close()
	other := b.Subscribe("lists/bob")
	defer other.Close()

	b.Publish("lists/alice")

	select {
	case <-a.C:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive signal")
	}
	select {
	case <-other.C:
		t.Error("unrelated topic received a signal")
	default:
	}
}

func TestBrokerCoalesces(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe("items/1")
	defer sub.Close()

	b.Publish("items/1")
	b.Publish("items/1")
	b.Publish("items/1", "items/1")

	<-sub.C
	select {
	case <-sub.C:
		t.Error("expected pending signals to coalesce into one")
	default:
	}
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe("t")
	if n := b.Subscribers("t"); n != 1 {
		t.Fatalf("Subscribers = %d, want 1", n)
	}

	sub.Close()
	sub.Close()

	if n := b.Subscribers("t"); n != 0 {
		t.Errorf("Subscribers after close = %d, want 0", n)
	}
	b.Publish("t")
}

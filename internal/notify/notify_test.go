package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"firebase.google.com/go/v4/messaging"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered map[string][]models.Notification
}

func (d *recordingDeliverer) Deliver(userID string, n models.Notification) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.delivered == nil {
		d.delivered = make(map[string][]models.Notification)
	}
	d.delivered[userID] = append(d.delivered[userID], n)
	return 1
}

type fakeTokens map[string][]string

func (f fakeTokens) GetPushTokens(ctx context.Context, userIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, id := range userIDs {
		if tokens, ok := f[id]; ok {
			out[id] = tokens
		}
	}
	return out, nil
}

type fakeMulticast struct {
	messages []*messaging.MulticastMessage
	err      error
}

func (f *fakeMulticast) SendEachForMulticast(ctx context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.messages = append(f.messages, m)
	return &messaging.BatchResponse{SuccessCount: len(m.Tokens)}, nil
}

var note = models.Notification{
	ListID:   "list-1",
	ListName: "Mercado",
	Title:    "List updated",
	Body:     `There is news on the list "Mercado"`,
	SenderID: "alice",
}

func TestLocalNotifier(t *testing.T) {
	d := &recordingDeliverer{}
	n := NewLocalNotifier(d, nil)

	count, err := n.Notify(context.Background(), note, []string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if len(d.delivered["alice"]) != 1 {
		t.Error("sender should see the notification")
	}
	if len(d.delivered["bob"]) != 0 {
		t.Error("other members must not receive local notifications")
	}
}

func TestFCMNotifier(t *testing.T) {
	d := &recordingDeliverer{}
	client := &fakeMulticast{}
	tokens := fakeTokens{
		"alice": {"a1"},
		"bob":   {"b1", "b2"},
		"carol": {"c1"},
	}
	n := NewFCMNotifier(client, tokens, NewLocalNotifier(d, nil), nil)

	count, err := n.Notify(context.Background(), note, []string{"alice", "bob", "carol", "dave"})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if len(client.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(client.messages))
	}
	msg := client.messages[0]
	if len(msg.Tokens) != 3 {
		t.Errorf("tokens = %v, want the 3 tokens of bob and carol", msg.Tokens)
	}
	for _, tok := range msg.Tokens {
		if tok == "a1" {
			t.Error("the sender must not be pushed")
		}
	}
	if msg.Data["listId"] != "list-1" || msg.Notification.Title != note.Title {
		t.Errorf("unexpected message: %+v", msg)
	}
	if len(d.delivered["alice"]) != 1 {
		t.Error("sender should also see the notification locally")
	}
}

func TestFCMNotifierChunksTokens(t *testing.T) {
	client := &fakeMulticast{}
	tokens := fakeTokens{}
	for i := range 1200 {
		tokens["bob"] = append(tokens["bob"], fmt.Sprintf("t%d", i))
	}
	n := NewFCMNotifier(client, tokens, nil, nil)

	if _, err := n.Notify(context.Background(), note, []string{"alice", "bob"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(client.messages) != 3 {
		t.Errorf("messages = %d, want 3 chunks", len(client.messages))
	}
}

func TestFCMNotifierError(t *testing.T) {
	client := &fakeMulticast{err: fmt.Errorf("quota exceeded")}
	n := NewFCMNotifier(client, fakeTokens{"bob": {"b1"}}, nil, nil)

	if _, err := n.Notify(context.Background(), note, []string{"alice", "bob"}); err == nil {
		t.Error("expected an error")
	}
}

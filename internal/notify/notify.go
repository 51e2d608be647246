// Package notify tells list members that a list changed.
//
// With Firebase Cloud Messaging configured, members receive a push message on
// every registered device. Without it, the notification is only shown to the
// user who sent it, on their open connections.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"firebase.google.com/go/v4/messaging"

	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

// maxMulticastTokens is the FCM limit of tokens per multicast message.
const maxMulticastTokens = 500

// Notifier delivers a notification about a list to its members.
type Notifier interface {
	// Notify returns the number of members reported as notified.
	Notify(ctx context.Context, n models.Notification, members []string) (int, error)
}

// Deliverer pushes a notification to a user's live connections.
type Deliverer interface {
	// Deliver returns the number of connections the notification was written to.
	Deliver(userID string, n models.Notification) int
}

// LocalNotifier shows the notification to its sender only.
type LocalNotifier struct {
	deliverer Deliverer
	metrics   *metrics.Metrics
}

// NewLocalNotifier creates a LocalNotifier writing to deliverer.
func NewLocalNotifier(deliverer Deliverer, m *metrics.Metrics) *LocalNotifier {
	return &LocalNotifier{deliverer: deliverer, metrics: m}
}

// Notify delivers n to the sender and reports every member as notified.
func (l *LocalNotifier) Notify(ctx context.Context, n models.Notification, members []string) (int, error) {
	delivered := l.deliverer.Deliver(n.SenderID, n)
	l.metrics.NotificationsSent("local", delivered)
	slog.Info("Local notification shown", "list_id", n.ListID, "connections", delivered)
	return len(members), nil
}

// TokenStore returns the push tokens registered by users.
type TokenStore interface {
	GetPushTokens(ctx context.Context, userIDs []string) (map[string][]string, error)
}

// MulticastClient is the part of the FCM client used here.
type MulticastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMNotifier pushes the notification to the devices of the other members and
// shows it locally to the sender.
type FCMNotifier struct {
	client  MulticastClient
	tokens  TokenStore
	local   *LocalNotifier
	metrics *metrics.Metrics
}

// NewFCMNotifier creates an FCMNotifier.
func NewFCMNotifier(client MulticastClient, tokens TokenStore, local *LocalNotifier, m *metrics.Metrics) *FCMNotifier {
	return &FCMNotifier{client: client, tokens: tokens, local: local, metrics: m}
}

// Notify sends n to every registered device of the members other than the sender.
func (f *FCMNotifier) Notify(ctx context.Context, n models.Notification, members []string) (int, error) {
	recipients := slices.DeleteFunc(slices.Clone(members), func(id string) bool {
		return id == n.SenderID
	})

	byUser, err := f.tokens.GetPushTokens(ctx, recipients)
	if err != nil {
		return 0, fmt.Errorf("failed to load push tokens: %w", err)
	}
	var tokens []string
	for _, id := range recipients {
		tokens = append(tokens, byUser[id]...)
	}

	sent := 0
	for chunk := range slices.Chunk(tokens, maxMulticastTokens) {
		resp, err := f.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: chunk,
			Notification: &messaging.Notification{
				Title: n.Title,
				Body:  n.Body,
			},
			Data: map[string]string{
				"listId":   n.ListID,
				"listName": n.ListName,
			},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to send push notification: %w", err)
		}
		sent += resp.SuccessCount
		if resp.FailureCount > 0 {
			slog.Warn("Some push notifications failed", "list_id", n.ListID, "failures", resp.FailureCount)
		}
	}
	f.metrics.NotificationsSent("fcm", sent)
	slog.Info("Push notifications sent", "list_id", n.ListID, "devices", sent)

	if f.local != nil {
		f.local.Notify(ctx, n, nil)
	}
	return len(members), nil
}

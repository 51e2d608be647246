package models

import "time"

// Notification tells list members that a list changed.
type Notification struct {
	ListID   string
	ListName string
	Title    string
	Body     string

	// SenderID is the user who asked for members to be notified.
	SenderID string

	SentAt time.Time
}

// Package shopping implements the shared shopping list core: the list store,
// the item store and list membership and sharing.
//
// Both stores run on an injected storage.Store. Live subscriptions return
// realtime streams whose snapshots are already ordered for presentation.
package shopping

import (
	"time"
)

// Option configures a ListStore or an ItemStore.
type Option func(*options)

type options struct {
	now           func() time.Time
	cascadeDelete bool
	newShareCode  func() (string, error)
}

func newOptions(opts []Option) options {
	o := options{
		now:          time.Now,
		newShareCode: NewShareCode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCascadeDelete makes ListStore.Delete remove the list's items as well.
// By default items of a deleted list are left in place.
func WithCascadeDelete(enabled bool) Option {
	return func(o *options) { o.cascadeDelete = enabled }
}

// WithShareCodeGenerator replaces the share code generator.
func WithShareCodeGenerator(gen func() (string, error)) Option {
	return func(o *options) { o.newShareCode = gen }
}

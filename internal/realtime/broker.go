package realtime

import "sync"

// Broker fans out change signals by topic. Signals carry no payload and
// coalesce: a subscriber that has not consumed the previous signal receives
// only one more. Subscribers re-read their query on every signal.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscription receives change signals for one topic.
type Subscription struct {
	// C receives a value after every publish on the topic.
	C <-chan struct{}

	c      chan struct{}
	broker *Broker
	topic  string
	once   sync.Once
}

// Subscribe registers for signals on topic. Close the subscription when done.
func (b *Broker) Subscribe(topic string) *Subscription {
	c := make(chan struct{}, 1)
	sub := &Subscription{C: c, c: c, broker: b, topic: topic}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]struct{})
	}
	b.subs[topic][sub] = struct{}{}
	return sub
}

// Publish signals every subscriber of the given topics. Duplicate topics are
// signalled once.
func (b *Broker) Publish(topics ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]bool, len(topics))
	for _, topic := range topics {
		if seen[topic] {
			continue
		}
		seen[topic] = true
		for sub := range b.subs[topic] {
			select {
			case sub.c <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers returns the number of subscriptions on topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

// Close unregisters the subscription. It is idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		defer s.broker.mu.Unlock()
		if subs, ok := s.broker.subs[s.topic]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.broker.subs, s.topic)
			}
		}
	})
}

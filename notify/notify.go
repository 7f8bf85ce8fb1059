// Package notify provides the in-process change notifier for Tab.
//
// The engine publishes a typed event to a single topic after every
// successful mutation of the order collection. Subscribers receive events
// on a buffered channel and are expected to re-derive their state from the
// store rather than trust the event payload beyond the order ID hint.
package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TopicOrders is the single topic representing "order collection changed".
const TopicOrders = "orders.changed"

// Kind classifies what happened to the order collection.
type Kind string

// Event kinds.
const (
	KindOrderCreated Kind = "order.created"
	KindOrderUpdated Kind = "order.updated"
	KindOrderSettled Kind = "order.settled"
	KindOrderDeleted Kind = "order.deleted"
)

// Event is the typed change notification. OrderID is a hint for
// incremental consumers; the collection remains the source of truth.
type Event struct {
	Kind    Kind
	OrderID string
	At      time.Time
}

// Subscription is a handle to a topic subscription. Events arrive on C.
type Subscription struct {
	C <-chan Event

	topic string
	ch    chan Event
	n     *Notifier
	once  sync.Once
}

// Unsubscribe detaches the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.n.remove(s) })
}

// Notifier is a topic-based broadcast hub.
type Notifier struct {
	mu      sync.RWMutex
	subs    map[string][]*Subscription
	logger  *slog.Logger
	dropped int64
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// New creates a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subs:   make(map[string][]*Subscription),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// subscriptionBuffer bounds how far a slow subscriber may lag before
// events are dropped. Droppage is safe: consumers rescan the store.
const subscriptionBuffer = 64

// Subscribe registers a handler channel for a topic.
func (n *Notifier) Subscribe(topic string) *Subscription {
	ch := make(chan Event, subscriptionBuffer)
	sub := &Subscription{C: ch, ch: ch, topic: topic, n: n}

	n.mu.Lock()
	n.subs[topic] = append(n.subs[topic], sub)
	n.mu.Unlock()

	return sub
}

// Publish delivers an event to every subscriber of the topic without
// blocking. A subscriber whose buffer is full misses the event and must
// catch up on its next rescan.
func (n *Notifier) Publish(topic string, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	// Sends are non-blocking, so they stay under the read lock: remove
	// closes channels under the write lock, and a channel is never closed
	// while a send is in flight.
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, sub := range n.subs[topic] {
		select {
		case sub.ch <- ev:
		default:
			atomic.AddInt64(&n.dropped, 1)
			n.logger.Warn("notify: dropped event for slow subscriber",
				"topic", topic,
				"kind", ev.Kind,
				"order_id", ev.OrderID,
			)
		}
	}
}

func (n *Notifier) remove(target *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	subs := n.subs[target.topic]
	for i, sub := range subs {
		if sub == target {
			n.subs[target.topic] = append(subs[:i], subs[i+1:]...)
			close(target.ch)
			return
		}
	}
}

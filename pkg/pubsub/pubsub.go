// Package pubsub is the in-process event bus connecting the cycle
// orchestrator to listeners such as the serving loop's summary logger.
// Delivery is best effort: a subscriber that stops draining its channel
// loses events rather than blocking the publisher.
package pubsub

import (
	"context"
	"sync"
)

// Topics published by the cycle orchestrator.
const (
	TopicCycleCompleted = "cycle.completed"
	TopicCycleFailed    = "cycle.failed"
)

// Event is the message published when a cycle reaches a terminal state.
type Event struct {
	CycleID           string
	Status            string
	OverallConfidence float64
	DecisionCount     int
	WorstCaseDelay    int
	WarningCount      int
}

// Bus fans cycle events out to topic subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{}
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription is one listener's handle on a topic.
type Subscription struct {
	topic     string
	events    chan Event
	bus       *Bus
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]map[*Subscription]struct{}),
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers a listener on a topic. The subscription is dropped
// automatically when ctx is cancelled or the bus shuts down. Returns nil
// after shutdown.
func (b *Bus) Subscribe(ctx context.Context, topic string) *Subscription {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:  topic,
		events: make(chan Event, 16),
		bus:    b,
		cancel: cancel,
	}

	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]struct{})
	}
	b.subscribers[topic][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.close()
		}
	}()

	return sub
}

// Publish delivers an event to every subscriber of a topic. Subscribers are
// snapshotted under the lock so a concurrent Unsubscribe cannot corrupt the
// iteration, and sends happen outside the lock so a slow subscriber never
// stalls the publisher. A full subscriber channel drops the event.
func (b *Bus) Publish(topic string, ev Event) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdownMu.Unlock()

	b.mu.RLock()
	topicSubs := b.subscribers[topic]
	if len(topicSubs) == 0 {
		b.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(topicSubs))
	for sub := range topicSubs {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.events <- ev:
		default:
		}
	}
}

// SubscriberCount returns the number of subscribers on a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes every subscription and stops the bus. Idempotent.
func (b *Bus) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for topic := range b.subscribers {
		for sub := range b.subscribers[topic] {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Events returns the subscription's receive channel. The channel closes when
// the subscription ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	if s.bus.subscribers[s.topic] != nil {
		delete(s.bus.subscribers[s.topic], s)
		if len(s.bus.subscribers[s.topic]) == 0 {
			delete(s.bus.subscribers, s.topic)
		}
	}
	s.bus.mu.Unlock()

	s.close()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.events)
	})
}

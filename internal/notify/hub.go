package notify

import (
	"sync"

	"quantumreview/internal/model"
)

// Subscription is one listener on a repo topic. C closes when the
// subscription is closed.
type Subscription struct {
	C      <-chan model.Notification
	ch     chan model.Notification
	cancel func()
	once   sync.Once
}

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Hub fans notifications out to in-process subscribers, one topic per repo.
// Delivery is at most once: a subscriber that cannot keep up loses events
// rather than blocking the publisher. The durable record lives in the store,
// the hub only accelerates it.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// TopicAll receives every notification regardless of repo.
const TopicAll = "*"

const subscriptionBuffer = 16

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe attaches a listener to one repo topic, or to TopicAll.
func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan model.Notification, subscriptionBuffer)
	sub := &Subscription{C: ch, ch: ch}
	sub.cancel = func() {
		h.mu.Lock()
		if set, ok := h.subs[topic]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, topic)
			}
		}
		h.mu.Unlock()
		close(ch)
	}

	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*Subscription]struct{})
	}
	h.subs[topic][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Broadcast delivers n to the repo topic and to TopicAll without blocking.
func (h *Hub) Broadcast(n model.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, topic := range []string{n.RepoID, TopicAll} {
		for sub := range h.subs[topic] {
			select {
			case sub.ch <- n:
			default:
				// Slow subscriber, drop.
			}
		}
	}
}

package webhook

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Deduper remembers recently seen delivery IDs so redelivered webhooks are
// acknowledged without being enqueued again. Entries fall out of the window
// after the configured retention, which must exceed GitHub's redelivery
// horizon.
type Deduper struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, time.Time]
}

func NewDeduper(window time.Duration, capacity int) *Deduper {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Deduper{
		seen: expirable.NewLRU[string, time.Time](capacity, nil, window),
	}
}

// Seen records deliveryID and reports whether it was already present. The
// check and the insert run under one lock, so two concurrent deliveries of
// the same ID can never both observe "new".
func (d *Deduper) Seen(deliveryID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen.Get(deliveryID); ok {
		return true
	}
	d.seen.Add(deliveryID, time.Now())
	return false
}

// Forget drops a delivery ID so a redelivery is accepted again, used when
// enqueueing failed after the ID was recorded.
func (d *Deduper) Forget(deliveryID string) {
	d.mu.Lock()
	d.seen.Remove(deliveryID)
	d.mu.Unlock()
}

// Package ops serves the local operational HTTP surface of the listen
// daemon: liveness, Prometheus metrics, the most recent updates, and a
// WebSocket stream of updates as they arrive.
package ops

import (
	"slices"
	"sync"

	"github.com/flemzord/tgwire/pkg/telegram"
)

// Feed fans received updates out to stream subscribers and keeps a bounded
// ring of the most recent ones for late joiners and the recent endpoint.
// Safe for concurrent use.
type Feed struct {
	mu        sync.Mutex
	ring      []telegram.Update
	size      int
	next      int
	published int64
	subs      map[chan telegram.Update]struct{}
}

// subscriberBuffer is how many updates a subscriber may fall behind before
// it is dropped. A stalled WebSocket must not block the polling loop.
const subscriberBuffer = 32

// NewFeed creates a Feed retaining the last size updates.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 256
	}
	return &Feed{
		ring: make([]telegram.Update, 0, size),
		size: size,
		subs: make(map[chan telegram.Update]struct{}),
	}
}

// Publish records u and delivers it to every subscriber that is keeping up.
// Subscribers that have fallen subscriberBuffer behind are dropped.
func (f *Feed) Publish(u telegram.Update) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.ring) < f.size {
		f.ring = append(f.ring, u)
	} else {
		f.ring[f.next] = u
	}
	f.next = (f.next + 1) % f.size
	f.published++

	for ch := range f.subs {
		select {
		case ch <- u:
		default:
			delete(f.subs, ch)
			close(ch)
		}
	}
}

// Recent returns up to n of the most recent updates, oldest first.
func (f *Feed) Recent(n int) []telegram.Update {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ordered []telegram.Update
	if len(f.ring) < f.size {
		ordered = slices.Clone(f.ring)
	} else {
		ordered = make([]telegram.Update, 0, f.size)
		ordered = append(ordered, f.ring[f.next:]...)
		ordered = append(ordered, f.ring[:f.next]...)
	}

	if n > 0 && n < len(ordered) {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// Published returns how many updates have passed through the feed.
func (f *Feed) Published() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published
}

// Subscribe registers a new subscriber. The returned cancel must be called
// when the subscriber goes away; after cancel the channel is closed. The
// channel is also closed if the subscriber falls too far behind.
func (f *Feed) Subscribe() (<-chan telegram.Update, func()) {
	ch := make(chan telegram.Update, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

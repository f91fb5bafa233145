package telegram

import (
	"context"
	"sync"
	"time"
)

// Poller owns the getUpdates cursor for one bot credential.
//
// The whole read-cursor → long poll → advance sequence runs under the
// Poller's lock, so concurrent Poll calls on the same credential serialize
// instead of racing each other for the server-side queue. Pollers for
// different credentials are fully independent — one bot's long-poll wait
// never delays another's.
//
// Obtain Pollers through a Registry; constructing them any other way defeats
// the one-cursor-per-credential guarantee.
type Poller struct {
	client *Client

	mu     sync.Mutex
	offset int64
}

func newPoller(c *Client) *Poller {
	return &Poller{client: c}
}

// Poll executes one getUpdates long poll and returns the new updates.
//
// timeout is the server-side hold time in seconds (0 = short poll, return
// immediately); limit is the batch size, sent only within 1..100 — anything
// else falls back to the server default. When the caller's context has no
// deadline of its own, Poll derives one slightly beyond the hold time so a
// dead server becomes a *TransportError instead of a hang.
//
// The cursor advances past the last returned update only after the batch has
// decoded, and only for non-empty batches: every update returned by a
// successful Poll is acknowledged and will not be returned again. No error
// path touches the cursor, so the same range is simply requested again next
// time. An empty batch with a nil error is the normal idle outcome.
func (p *Poller) Poll(ctx context.Context, timeout, limit int) ([]Update, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second+pollGrace)
			defer cancel()
		}
	}

	updates, err := p.client.GetUpdates(ctx, p.offset, limit, timeout)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if next := updates[len(updates)-1].UpdateID + 1; next > p.offset {
			p.offset = next
		}
		if m := p.client.metrics; m != nil {
			m.Updates.Add(float64(len(updates)))
		}
	}
	return updates, nil
}

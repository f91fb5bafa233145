package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	maxConsecutivePollErrors = 5
	errorPauseDuration       = 30 * time.Second
	defaultListenTimeout     = 30 // seconds
)

// Handler consumes one update delivered by a Listener. It runs on the polling
// goroutine: a slow handler delays the next poll, not other credentials.
type Handler func(ctx context.Context, u Update)

// ListenerConfig configures a Listener.
type ListenerConfig struct {
	// Timeout is the long-poll hold time in seconds. Values <= 0 fall back to
	// 30; a background loop must not short-poll in a busy loop.
	Timeout int

	// Limit is the batch size per poll; 0 leaves the server default.
	Limit int

	// Logger receives poll failures. Nil discards.
	Logger *slog.Logger
}

// Listener pumps one Poller in the background, feeding each update to a
// handler. Poll failures are logged and retried; after five consecutive
// failures the loop pauses for 30 seconds before trying again.
type Listener struct {
	poller   *Poller
	handler  Handler
	timeout  int
	limit    int
	logger   *slog.Logger
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewListener creates a Listener over p. Start must be called to begin
// polling.
func NewListener(p *Poller, h Handler, cfg ListenerConfig) *Listener {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultListenTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Listener{
		poller:  p,
		handler: h,
		timeout: timeout,
		limit:   cfg.Limit,
		logger:  logger,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the polling loop in a goroutine.
func (l *Listener) Start() {
	go l.loop()
}

// Stop signals the loop to stop, cancels any in-flight poll, and waits for
// the loop to finish. Safe to call more than once.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.done
}

func (l *Listener) loop() {
	defer close(l.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-l.stopCh
		cancel()
	}()

	var consecutive int
	for {
		select {
		case <-l.stopCh:
			return
		default:
		}

		updates, err := l.poller.Poll(ctx, l.timeout, l.limit)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			consecutive++
			l.logger.Error("getUpdates poll failed",
				"error", err,
				"consecutive_errors", consecutive,
			)
			if m := l.poller.client.metrics; m != nil {
				m.PollErrors.Inc()
			}

			if consecutive >= maxConsecutivePollErrors {
				l.logger.Warn("polling paused after repeated errors",
					"pause", errorPauseDuration,
				)
				select {
				case <-l.stopCh:
					return
				case <-time.After(errorPauseDuration):
				}
				consecutive = 0
			}
			continue
		}
		consecutive = 0

		for i := range updates {
			l.handler(ctx, updates[i])
		}
	}
}

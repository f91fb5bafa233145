// Package announce sends cron-scheduled messages while the daemon runs:
// status posts, reminders, recurring channel content.
package announce

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/flemzord/tgwire/internal/config"
	"github.com/flemzord/tgwire/pkg/telegram"
)

// Sender sends one message; *telegram.Client satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, to telegram.ChatRef, text string, opts *telegram.SendMessageOptions) (*telegram.Message, error)
}

// Announcer schedules configured announcements on five-field cron
// expressions. Each entry has its own mutex so a slow send skips overlapping
// ticks instead of stacking them (TryLock — atomic, no race).
type Announcer struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries []config.Announcement
	locks   []*sync.Mutex
	sender  Sender
	logger  *slog.Logger
	cancel  context.CancelFunc
}

// New creates an Announcer for the given entries. Start begins scheduling.
func New(sender Sender, entries []config.Announcement, logger *slog.Logger) *Announcer {
	if logger == nil {
		logger = slog.Default()
	}
	locks := make([]*sync.Mutex, len(entries))
	for i := range locks {
		locks[i] = &sync.Mutex{}
	}
	return &Announcer{
		entries: entries,
		locks:   locks,
		sender:  sender,
		logger:  logger,
	}
}

// Len returns the number of configured announcements.
func (a *Announcer) Len() int {
	return len(a.entries)
}

// Start parses every schedule and begins ticking. An invalid expression in
// any entry fails the whole Start; nothing runs partially configured.
func (a *Announcer) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	a.cron = cron.New(cron.WithParser(parser))

	for i, entry := range a.entries {
		lock := a.locks[i]

		_, err := a.cron.AddFunc(entry.Schedule, func() {
			if !lock.TryLock() {
				a.logger.Warn("announcement still sending, skipping tick",
					"chat", entry.Chat,
				)
				return
			}
			defer lock.Unlock()

			if err := a.announce(ctx, entry); err != nil {
				a.logger.Error("announcement failed",
					"chat", entry.Chat,
					"error", err,
				)
			}
		})
		if err != nil {
			cancel()
			return fmt.Errorf("announce: invalid schedule %q for chat %s: %w", entry.Schedule, entry.Chat, err)
		}
	}

	a.cron.Start()
	a.logger.Info("announcer started", "entries", len(a.entries))
	return nil
}

// announce sends one configured entry.
func (a *Announcer) announce(ctx context.Context, entry config.Announcement) error {
	var opts *telegram.SendMessageOptions
	if entry.ParseMode != "" {
		opts = &telegram.SendMessageOptions{ParseMode: telegram.ParseMode(entry.ParseMode)}
	}

	msg, err := a.sender.SendMessage(ctx, telegram.ChatRef(entry.Chat), entry.Text, opts)
	if err != nil {
		return err
	}

	a.logger.Debug("announcement sent",
		"chat", entry.Chat,
		"message_id", msg.MessageID,
	)
	return nil
}

// Stop cancels scheduling and waits for an in-flight send to finish.
func (a *Announcer) Stop(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
	}
	if a.cron != nil {
		<-a.cron.Stop().Done()
		a.logger.Info("announcer stopped")
	}
	return nil
}

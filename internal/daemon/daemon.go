// Package daemon provides the long-running listen loop behind `tgwire listen`
// and `tgwire service run`.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/flemzord/tgwire/internal/announce"
	"github.com/flemzord/tgwire/internal/config"
	"github.com/flemzord/tgwire/internal/ops"
	"github.com/flemzord/tgwire/internal/recorder"
	"github.com/flemzord/tgwire/internal/redact"
	"github.com/flemzord/tgwire/internal/telemetry"
	"github.com/flemzord/tgwire/pkg/telegram"
)

// startupTimeout bounds the API calls made before the poll loop starts
// (identity check, webhook removal).
const startupTimeout = 30 * time.Second

// pruneInterval is how often the recorder drops rows beyond recorder.keep.
const pruneInterval = time.Hour

// RunParams configures the daemon loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, config.ResolvePath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// LogLevel overrides log.level from the config file when non-empty.
	LogLevel string
}

// Run loads configuration, connects the bot, and blocks polling for updates
// until SIGINT or SIGTERM. SIGHUP re-reads the config file and applies the
// log level; other settings need a restart.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := config.ResolvePath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if params.LogLevel != "" {
		cfg.Log.Level = params.LogLevel
	}

	// The redactor knows the bot token before the first log line is written.
	redactor := redact.New()
	redactor.AddLiteral(cfg.Bot.Token)

	level := new(slog.LevelVar)
	level.Set(toLevel(cfg.Log.Level))
	logger := newLogger(cfg.Log.Format, level, redactor)

	logger.Info("starting tgwire",
		"version", params.Version,
		"commit", params.Commit,
		"date", params.Date,
		"config", cfgPath,
	)
	logger.Debug("configuration loaded", "config", redactedView(cfg, redactor))

	tel, err := telemetry.Setup(context.Background(), cfg.Telemetry, params.Version)
	if err != nil {
		return fmt.Errorf("daemon: telemetry setup: %w", err)
	}
	if tel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(ctx); err != nil {
				logger.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	promRegistry := prometheus.NewRegistry()
	metrics := telegram.NewMetrics(promRegistry)

	opts := []telegram.Option{
		telegram.WithBaseURL(cfg.Bot.APIURL),
		telegram.WithMetrics(metrics),
	}
	if cfg.Bot.RateLimit > 0 {
		opts = append(opts, telegram.WithRateLimit(cfg.Bot.RateLimit))
	}
	if tel != nil {
		opts = append(opts, telegram.WithTracerProvider(tel.TracerProvider()))
	}

	client, err := telegram.NewClient(cfg.Bot.Token, opts...)
	if err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	me, err := client.Identity(startCtx)
	if err != nil {
		return fmt.Errorf("daemon: identity check: %w", err)
	}
	logger.Info("authenticated", "bot", me.Username, "id", me.ID)

	if cfg.Polling.DeleteWebhook {
		if err := client.DeleteWebhook(startCtx); err != nil {
			return fmt.Errorf("daemon: delete webhook: %w", err)
		}
		logger.Info("webhook removed, long polling enabled")
	}

	pollers := telegram.NewRegistry()
	poller, err := pollers.Poller(client)
	if err != nil {
		return err
	}

	feed := ops.NewFeed(cfg.Ops.RecentBuffer)

	var store *recorder.Store
	if cfg.Recorder.Enabled {
		store, err = recorder.Open(cfg.Recorder.Path)
		if err != nil {
			return fmt.Errorf("daemon: open recorder: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("recorder close failed", "error", err)
			}
		}()
		logger.Info("recorder enabled", "path", cfg.Recorder.Path, "keep", cfg.Recorder.Keep)
	}

	pruneStop := make(chan struct{})
	defer close(pruneStop)
	if store != nil && cfg.Recorder.Keep > 0 {
		go pruneLoop(store, cfg.Recorder.Keep, logger, pruneStop)
	}

	handler := func(ctx context.Context, u telegram.Update) {
		feed.Publish(u)
		if store != nil {
			if err := store.Record(ctx, u); err != nil {
				logger.Error("record update failed", "update_id", u.UpdateID, "error", err)
			}
		}
	}

	var opsServer *ops.Server
	if cfg.Ops.Enabled {
		opsServer = ops.NewServer(cfg.Ops, logger, feed, promRegistry, params.Version, me.Username)
		if err := opsServer.Start(); err != nil {
			return fmt.Errorf("daemon: ops server: %w", err)
		}
	}

	var announcer *announce.Announcer
	if len(cfg.Announcements) > 0 {
		announcer = announce.New(client, cfg.Announcements, logger)
		if err := announcer.Start(); err != nil {
			if opsServer != nil {
				_ = opsServer.Stop(context.Background())
			}
			return fmt.Errorf("daemon: announcer: %w", err)
		}
		logger.Info("announcer started", "entries", announcer.Len())
	}

	listener := telegram.NewListener(poller, handler, telegram.ListenerConfig{
		Timeout: cfg.Polling.Timeout,
		Limit:   cfg.Polling.Limit,
		Logger:  logger,
	})
	listener.Start()
	logger.Info("polling for updates", "timeout", cfg.Polling.Timeout, "limit", cfg.Polling.Limit)

	// --- signal handling ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	// --- main event loop ---
	for {
		sig := <-sigCh
		switch sig {
		case syscall.SIGHUP:
			logger.Info("SIGHUP received, reloading configuration")
			if err := applyReload(cfgPath, level, logger); err != nil {
				logger.Error("reload failed", "error", err)
			}
		default:
			logger.Info("shutdown signal received", "signal", sig.String())
			listener.Stop()
			if announcer != nil {
				if err := announcer.Stop(context.Background()); err != nil {
					logger.Error("announcer stop failed", "error", err)
				}
			}
			if opsServer != nil {
				if err := opsServer.Stop(context.Background()); err != nil {
					logger.Error("ops server stop failed", "error", err)
				}
			}
			logger.Info("shutdown complete")
			return nil
		}
	}
}

// applyReload re-reads the config file. Only the log level can change while
// the daemon runs; a different token, endpoint, or polling setup would mean
// tearing down the poll loop, so those changes are reported and ignored.
func applyReload(cfgPath string, level *slog.LevelVar, logger *slog.Logger) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	level.Set(toLevel(cfg.Log.Level))
	logger.Info("configuration reloaded", "log_level", cfg.Log.Level,
		"note", "token, polling, ops, and announcement changes need a restart")
	return nil
}

func pruneLoop(store *recorder.Store, keep int, logger *slog.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			removed, err := store.Prune(context.Background(), keep)
			if err != nil {
				logger.Error("prune failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Debug("pruned recorded updates", "removed", removed, "keep", keep)
			}
		}
	}
}

// redactedView renders the config as a generic map with secrets masked, so it
// can be logged without leaking the token.
func redactedView(cfg *config.Config, r *redact.Redactor) map[string]any {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil
	}
	r.RedactMap(m)
	return m
}

func newLogger(format string, level slog.Leveler, redactor *redact.Redactor) *slog.Logger {
	hOpts := &slog.HandlerOptions{Level: level}
	var inner slog.Handler
	if format == "json" {
		inner = slog.NewJSONHandler(os.Stderr, hOpts)
	} else {
		inner = slog.NewTextHandler(os.Stderr, hOpts)
	}
	return slog.New(redact.NewHandler(inner, redactor))
}

func toLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

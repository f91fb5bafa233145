// Package config handles YAML configuration loading, environment variable
// expansion, defaulting, and validation for tgwire.
package config

import "time"

// Config is the top-level configuration structure.
type Config struct {
	// Bot holds the credential and API endpoint.
	Bot BotConfig `yaml:"bot"`

	// Polling controls the getUpdates loop of the listen daemon.
	Polling PollingConfig `yaml:"polling"`

	// Ops configures the local operational HTTP server (health, metrics,
	// live update stream). Disabled unless enabled explicitly.
	Ops OpsConfig `yaml:"ops"`

	// Recorder persists received updates to a local SQLite database.
	Recorder RecorderConfig `yaml:"recorder"`

	// Announcements are cron-scheduled messages sent while the daemon runs.
	Announcements []Announcement `yaml:"announcements,omitempty"`

	// Telemetry enables OTLP trace export when an endpoint is set.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Log controls log output.
	Log LogConfig `yaml:"log"`
}

// BotConfig identifies the bot and how to reach the API.
type BotConfig struct {
	// Token is the bot credential from @BotFather: <bot_id>:<hash>.
	Token string `yaml:"token"`

	// APIURL overrides the Bot API endpoint, for local test servers or
	// bot-api proxies.
	APIURL string `yaml:"api_url"`

	// RateLimit caps outbound calls per second. 0 disables throttling.
	RateLimit float64 `yaml:"rate_limit"`
}

// PollingConfig controls the long-poll loop.
type PollingConfig struct {
	// Timeout is the server-side hold time in seconds (1-50).
	Timeout int `yaml:"timeout"`

	// Limit is the max updates per batch (1-100), 0 for the server default.
	Limit int `yaml:"limit"`

	// DeleteWebhook removes a configured webhook before polling starts.
	// Telegram rejects getUpdates while a webhook is active.
	DeleteWebhook bool `yaml:"delete_webhook"`
}

// OpsConfig configures the operational HTTP server.
type OpsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Bind is the listen address. Defaults to loopback; exposing metrics
	// and the update stream beyond localhost is a deliberate choice.
	Bind string `yaml:"bind"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RecentBuffer is how many recent updates the in-memory ring keeps for
	// the /updates/recent endpoint and new stream subscribers.
	RecentBuffer int `yaml:"recent_buffer"`
}

// RecorderConfig configures update persistence.
type RecorderConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// Keep is the number of most recent updates retained; older rows are
	// pruned periodically. 0 keeps everything.
	Keep int `yaml:"keep"`
}

// Announcement is one scheduled outbound message.
type Announcement struct {
	// Schedule is a five-field cron expression (minute granularity).
	Schedule string `yaml:"schedule"`

	// Chat is the target: a numeric chat ID or @channelusername.
	Chat string `yaml:"chat"`

	// Text is the message body.
	Text string `yaml:"text"`

	// ParseMode is optional: Markdown, MarkdownV2, or HTML.
	ParseMode string `yaml:"parse_mode,omitempty"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	// OTLPEndpoint is the OTLP/HTTP collector address (host:port). Empty
	// disables tracing.
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// Insecure uses plain HTTP to the collector.
	Insecure bool `yaml:"insecure"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

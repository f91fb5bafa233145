package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"time"
)

// tokenPattern matches the Telegram bot token format: <digits>:<alphanum+dash>.
var tokenPattern = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)

// ValidateToken reports whether s looks like a bot token from @BotFather.
func ValidateToken(s string) error {
	if s == "" {
		return errors.New("token is required")
	}
	if !tokenPattern.MatchString(s) {
		return errors.New("expected <bot_id>:<hash>, e.g. 123456:ABC-DEF1234")
	}
	return nil
}

// defaults applies default values to unset fields.
func (c *Config) defaults() {
	if c.Bot.APIURL == "" {
		c.Bot.APIURL = "https://api.telegram.org"
	}
	if c.Polling.Timeout == 0 {
		c.Polling.Timeout = 30
	}
	if c.Ops.Bind == "" {
		c.Ops.Bind = "127.0.0.1:8731"
	}
	if c.Ops.ReadTimeout <= 0 {
		c.Ops.ReadTimeout = 15 * time.Second
	}
	if c.Ops.WriteTimeout <= 0 {
		c.Ops.WriteTimeout = 15 * time.Second
	}
	if c.Ops.ShutdownTimeout <= 0 {
		c.Ops.ShutdownTimeout = 10 * time.Second
	}
	if c.Ops.RecentBuffer <= 0 {
		c.Ops.RecentBuffer = 256
	}
	if c.Recorder.Path == "" {
		c.Recorder.Path = "tgwire.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks field constraints after defaults have been applied. All
// violations are reported at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Bot.Token == "" {
		errs = append(errs, errors.New("config: bot.token is required"))
	} else if !tokenPattern.MatchString(c.Bot.Token) {
		errs = append(errs, errors.New("config: bot.token format invalid (expected <bot_id>:<hash>)"))
	}

	if u, err := url.Parse(c.Bot.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("config: bot.api_url must be a valid http/https URL, got %q", c.Bot.APIURL))
	}

	if c.Bot.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("config: bot.rate_limit must not be negative, got %g", c.Bot.RateLimit))
	}

	if c.Polling.Timeout < 1 || c.Polling.Timeout > 50 {
		errs = append(errs, fmt.Errorf("config: polling.timeout must be 1-50, got %d", c.Polling.Timeout))
	}
	if c.Polling.Limit < 0 || c.Polling.Limit > 100 {
		errs = append(errs, fmt.Errorf("config: polling.limit must be 0-100, got %d", c.Polling.Limit))
	}

	if c.Ops.Enabled {
		if _, _, err := net.SplitHostPort(c.Ops.Bind); err != nil {
			errs = append(errs, fmt.Errorf("config: ops.bind must be host:port, got %q", c.Ops.Bind))
		}
	}

	if c.Recorder.Enabled && c.Recorder.Keep < 0 {
		errs = append(errs, fmt.Errorf("config: recorder.keep must not be negative, got %d", c.Recorder.Keep))
	}

	for i, a := range c.Announcements {
		if a.Schedule == "" {
			errs = append(errs, fmt.Errorf("config: announcements[%d]: schedule is required", i))
		}
		if a.Chat == "" {
			errs = append(errs, fmt.Errorf("config: announcements[%d]: chat is required", i))
		}
		if a.Text == "" {
			errs = append(errs, fmt.Errorf("config: announcements[%d]: text is required", i))
		}
		switch a.ParseMode {
		case "", "Markdown", "MarkdownV2", "HTML":
		default:
			errs = append(errs, fmt.Errorf("config: announcements[%d]: unknown parse_mode %q", i, a.ParseMode))
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config: log.level must be debug, info, warn, or error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Package redact keeps bot credentials out of anything the process prints.
//
// The bot token is the only secret this program handles, and it travels in
// request URLs, so any error or debug line that quotes a URL is one copy away
// from a credential leak. Every log record and every rendered config view
// passes through a Redactor before it reaches an output.
package redact

import (
	"regexp"
	"strings"
	"sync"
)

// Placeholder replaces redacted secrets.
const Placeholder = "***REDACTED***"

// secretKeyPattern matches config keys that hold secrets.
var secretKeyPattern = regexp.MustCompile(`(?i)(secret|token|password|credential)`)

// botTokenPattern matches Telegram bot tokens (numeric bot ID, a colon, then
// a long base64url-ish secret), both bare and embedded in /bot<token>/ URLs.
var botTokenPattern = regexp.MustCompile(`\d+:[A-Za-z0-9_-]{30,}`)

// Redactor replaces secret values in strings with Placeholder. It matches
// known token shapes by pattern and exact runtime credentials by literal
// value. Safe for concurrent use.
type Redactor struct {
	mu       sync.RWMutex
	patterns []*regexp.Regexp
	literals []string
}

// New creates a Redactor that already knows the Telegram bot token shape.
func New() *Redactor {
	return &Redactor{patterns: []*regexp.Regexp{botTokenPattern}}
}

// AddPattern registers an additional secret pattern.
func (r *Redactor) AddPattern(p *regexp.Regexp) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, p)
}

// AddLiteral registers an exact secret value to redact on sight, regardless
// of shape. Short values are ignored: redacting them would mangle ordinary
// text, and real credentials are never that small.
func (r *Redactor) AddLiteral(secret string) {
	if len(secret) < 8 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.literals = append(r.literals, secret)
}

// Redact returns s with every known secret replaced by Placeholder.
func (r *Redactor) Redact(s string) string {
	if s == "" {
		return s
	}

	r.mu.RLock()
	patterns := r.patterns
	literals := r.literals
	r.mu.RUnlock()

	for _, p := range patterns {
		s = p.ReplaceAllString(s, Placeholder)
	}
	for _, lit := range literals {
		if strings.Contains(s, lit) {
			s = strings.ReplaceAll(s, lit, Placeholder)
		}
	}
	return s
}

// RedactMap walks a decoded config tree and masks values under secret-named
// keys, then pattern-redacts the remaining strings. Used when rendering the
// effective configuration back to a terminal.
func (r *Redactor) RedactMap(m map[string]any) {
	for k, v := range m {
		if secretKeyPattern.MatchString(k) {
			if s, ok := v.(string); ok && s != "" {
				m[k] = Placeholder
				continue
			}
		}
		switch val := v.(type) {
		case map[string]any:
			r.RedactMap(val)
		case []any:
			for _, item := range val {
				if sub, ok := item.(map[string]any); ok {
					r.RedactMap(sub)
				}
			}
		case string:
			if red := r.Redact(val); red != val {
				m[k] = red
			}
		}
	}
}

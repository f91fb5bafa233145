package telegram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

const (
	maxRetries       = 3
	initialBackoff   = time.Second
	maxResponseBytes = 10 << 20 // prevent unbounded reads from API responses

	// pollGrace is how much the transport deadline of a long poll exceeds the
	// requested server hold time, so a stalled server surfaces as a transport
	// error instead of an indefinite hang.
	pollGrace = 5 * time.Second

	tracerName = "github.com/flemzord/tgwire/pkg/telegram"
)

// Client issues RPC calls against the Telegram Bot API for one bot
// credential. The credential and endpoint are fixed at construction; a Client
// is safe for concurrent use.
//
// The token appears only in request URLs, never in errors or anything else a
// caller might log.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
	tracer  trace.Tracer

	mu       sync.Mutex
	identity *User
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at an alternate API endpoint (a local test
// server, a bot-api proxy). Trailing slashes are stripped.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout must exceed
// the longest poll timeout in use (50s max) or long polls will be cut off
// mid-wait.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit caps outbound calls at perSecond using a token bucket
// (Telegram enforces roughly 30 messages per second per bot). Zero or
// negative disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMetrics attaches prometheus collectors; every call is counted by method
// and outcome.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracerProvider enables a client span per RPC call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// NewClient creates a Bot API client for the given credential. An empty token
// is a caller error, rejected before any network use.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	return c, nil
}

// BaseURL returns the API endpoint the client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

// Invoke performs one Bot API call and returns the decoded envelope.
//
// Parameterless methods go out as GET; anything with parameters is a POST
// with a form-encoded body in parameter order. A returned envelope may still
// be a rejection (OK false) — Invoke fails only when no envelope could be
// obtained: *TransportError for an unreachable server,
// *MalformedResponseError for a body that is not an envelope.
//
// The typed wrappers cover the common methods; Invoke is the escape hatch for
// the rest.
func (c *Client) Invoke(ctx context.Context, method string, p *Params) (*Envelope, error) {
	if method == "" {
		return nil, ErrEmptyMethod
	}
	if p != nil {
		if err := p.Err(); err != nil {
			return nil, err
		}
	}

	ctx, span := c.tracer.Start(ctx, "telegram."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("rpc.method", method)),
	)
	defer span.End()

	start := time.Now()
	env, err := c.roundTrip(ctx, method, p)
	c.observe(method, start, env, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "call failed")
		return nil, err
	}
	if !env.OK {
		span.SetAttributes(attribute.Int("telegram.error_code", env.ErrorCode))
		span.SetStatus(codes.Error, "server rejection")
	}
	return env, nil
}

// call is the generic primitive every typed wrapper is built on: Invoke, then
// envelope discrimination, then a single result decode into T.
func call[T any](ctx context.Context, c *Client, method string, p *Params) (*T, error) {
	env, err := c.Invoke(ctx, method, p)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, env.Err()
	}
	return decodeResult[T](env)
}

// roundTrip runs the HTTP exchange, waiting out flood control (429 +
// retry_after) within a bounded retry budget before surfacing it.
func (c *Client) roundTrip(ctx context.Context, method string, p *Params) (*Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newTransportError(method, err)
		}
	}

	target := c.baseURL + "/bot" + c.token + "/" + method
	verb := http.MethodGet
	var body string
	if p != nil && p.Len() > 0 {
		verb = http.MethodPost
		body = p.Encode()
	}

	backoff := initialBackoff
	for attempt := range maxRetries {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, verb, target, r)
		if err != nil {
			return nil, newTransportError(method, err)
		}
		if body != "" {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, newTransportError(method, err)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if err != nil {
			return nil, newTransportError(method, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries-1 {
			if env, derr := decodeEnvelope(method, data); derr == nil && env.Parameters != nil && env.Parameters.RetryAfter > 0 {
				backoff = time.Duration(env.Parameters.RetryAfter) * time.Second
			}
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, newTransportError(method, ctx.Err())
			case <-timer.C:
			}
			backoff *= 2
			continue
		}

		return decodeEnvelope(method, data)
	}

	// Unreachable: the final attempt always returns above.
	return nil, newTransportError(method, errors.New("retry budget exhausted"))
}

// observe records the call outcome on the attached metrics, if any.
func (c *Client) observe(method string, start time.Time, env *Envelope, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil && !env.OK:
		outcome = "rejected"
	case err != nil:
		var merr *MalformedResponseError
		if errors.As(err, &merr) {
			outcome = "malformed"
		} else {
			outcome = "transport"
		}
	}
	c.metrics.Calls.WithLabelValues(method, outcome).Inc()
	c.metrics.CallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

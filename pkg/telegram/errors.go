package telegram

import (
	"errors"
	"fmt"
	"net/url"
)

// Sentinel errors for caller-input failures. These fail fast and are never
// retried.
var (
	// ErrEmptyToken indicates a missing bot credential.
	ErrEmptyToken = errors.New("telegram: empty bot token")

	// ErrEmptyMethod indicates an Invoke call without a method name.
	ErrEmptyMethod = errors.New("telegram: empty method name")

	// ErrNoFilePath indicates a download attempt for a File that has not been
	// resolved via GetFile.
	ErrNoFilePath = errors.New("telegram: file has no file_path (call GetFile first)")
)

var (
	errMissingOK     = errors.New("missing ok field")
	errMissingResult = errors.New("ok response without result")
)

// APIError is a server rejection: the request reached the Bot API and was
// declined (ok:false envelope). The cursor and any other client state are
// unaffected; retrying is the caller's decision, except for flood control
// which the client retries itself within its budget.
type APIError struct {
	Code            int
	Description     string
	RetryAfter      int // seconds, from the response parameters (flood control)
	MigrateToChatID int64
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram: %d %s (retry after %ds)", e.Code, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram: %d %s", e.Code, e.Description)
}

// TransportError reports a failed HTTP round trip: the server was never
// reached or never answered (DNS, TLS, connect, deadline). It is always
// surfaced — an unreachable server must not look like a server with nothing
// to say.
type TransportError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("telegram: %s: transport: %v", e.Method, e.Err)
}

// Unwrap returns the underlying cause, so errors.Is still matches
// context.DeadlineExceeded and friends.
func (e *TransportError) Unwrap() error { return e.Err }

// newTransportError wraps err, stripping any *url.Error so the token-bearing
// request URL cannot reach logs through the error string.
func newTransportError(method string, err error) *TransportError {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return &TransportError{Method: method, Err: err}
}

// MalformedResponseError reports a response body that is not a Bot API
// envelope: not JSON at all, missing the ok discriminator, or ok:true with no
// result. Typical sources are proxies and captive portals answering in place
// of the API.
type MalformedResponseError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("telegram: %s: malformed response: %v", e.Method, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedResponseError) Unwrap() error { return e.Err }

// DecodeError reports a well-formed ok:true envelope whose result payload did
// not match the caller's target shape. Fatal for the call, never retried.
type DecodeError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("telegram: %s: decode result: %v", e.Method, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error { return e.Err }

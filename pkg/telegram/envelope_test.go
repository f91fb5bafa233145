package telegram

import (
	"errors"
	"testing"
)

func TestDecodeEnvelopeMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>gateway timeout</html>"},
		{"missing ok", `{"result":[]}`},
		{"ok without result", `{"ok":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeEnvelope("getUpdates", []byte(tc.body))
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("decodeEnvelope() error = %v, want *MalformedResponseError", err)
			}
			if malformed.Method != "getUpdates" {
				t.Errorf("Method = %q, want %q", malformed.Method, "getUpdates")
			}
		})
	}
}

func TestDecodeEnvelopeRejection(t *testing.T) {
	body := `{"ok":false,"description":"Unauthorized","error_code":401}`

	env, err := decodeEnvelope("getMe", []byte(body))
	if err != nil {
		t.Fatalf("decodeEnvelope() error: %v", err)
	}
	if env.OK {
		t.Error("OK = true, want false")
	}

	var apiErr *APIError
	if !errors.As(env.Err(), &apiErr) {
		t.Fatalf("Err() = %v, want *APIError", env.Err())
	}
	if apiErr.Code != 401 {
		t.Errorf("Code = %d, want 401", apiErr.Code)
	}
	if apiErr.Description != "Unauthorized" {
		t.Errorf("Description = %q, want %q", apiErr.Description, "Unauthorized")
	}
}

func TestDecodeEnvelopeRetryAfter(t *testing.T) {
	body := `{"ok":false,"description":"Too Many Requests","error_code":429,"parameters":{"retry_after":17}}`

	env, err := decodeEnvelope("sendMessage", []byte(body))
	if err != nil {
		t.Fatalf("decodeEnvelope() error: %v", err)
	}

	var apiErr *APIError
	if !errors.As(env.Err(), &apiErr) {
		t.Fatalf("Err() = %v, want *APIError", env.Err())
	}
	if apiErr.RetryAfter != 17 {
		t.Errorf("RetryAfter = %d, want 17", apiErr.RetryAfter)
	}
}

func TestEnvelopeErrNilOnSuccess(t *testing.T) {
	env, err := decodeEnvelope("getMe", []byte(`{"ok":true,"result":{"id":1}}`))
	if err != nil {
		t.Fatalf("decodeEnvelope() error: %v", err)
	}
	if env.Err() != nil {
		t.Errorf("Err() = %v, want nil", env.Err())
	}
}

func TestEnvelopeDecodeResult(t *testing.T) {
	env, err := decodeEnvelope("getUpdates", []byte(`{"ok":true,"result":[{"update_id":5},{"update_id":6}]}`))
	if err != nil {
		t.Fatalf("decodeEnvelope() error: %v", err)
	}

	var updates []Update
	if err := env.DecodeResult(&updates); err != nil {
		t.Fatalf("DecodeResult() error: %v", err)
	}
	if len(updates) != 2 || updates[0].UpdateID != 5 || updates[1].UpdateID != 6 {
		t.Errorf("DecodeResult() = %+v, want update IDs [5 6]", updates)
	}
}

func TestEnvelopeDecodeResultTypeMismatch(t *testing.T) {
	env, err := decodeEnvelope("getUpdates", []byte(`{"ok":true,"result":"nope"}`))
	if err != nil {
		t.Fatalf("decodeEnvelope() error: %v", err)
	}

	var updates []Update
	decodeErr := env.DecodeResult(&updates)
	var de *DecodeError
	if !errors.As(decodeErr, &de) {
		t.Fatalf("DecodeResult() error = %v, want *DecodeError", decodeErr)
	}
	if de.Method != "getUpdates" {
		t.Errorf("Method = %q, want %q", de.Method, "getUpdates")
	}
}

func TestEnvelopeDecodeResultOnRejection(t *testing.T) {
	env, err := decodeEnvelope("getMe", []byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	if err != nil {
		t.Fatalf("decodeEnvelope() error: %v", err)
	}

	var u User
	var apiErr *APIError
	if !errors.As(env.DecodeResult(&u), &apiErr) {
		t.Fatalf("DecodeResult() on rejection = %v, want *APIError", env.DecodeResult(&u))
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Code: 429, Description: "Too Many Requests", RetryAfter: 5}
	want := "telegram: 429 Too Many Requests (retry after 5s)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &APIError{Code: 401, Description: "Unauthorized"}
	want = "telegram: 401 Unauthorized"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

package telegram

import (
	"strings"
	"testing"
)

func TestParamsEncodeKeepsInsertionOrder(t *testing.T) {
	p := NewParams().
		Set("chat_id", "42").
		Set("text", "hi").
		SetInt("reply_to_message_id", 5)

	got := p.Encode()
	want := "chat_id=42&text=hi&reply_to_message_id=5"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsSuppressesZeroValues(t *testing.T) {
	p := NewParams().
		Set("text", "").
		SetPositive("offset", 0).
		SetPositive("timeout", -3).
		SetBool("disable_notification", false).
		SetJSON("reply_markup", nil)

	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (got %q)", p.Len(), p.Encode())
	}
}

func TestParamsIncludesSetValues(t *testing.T) {
	p := NewParams().
		SetPositive("offset", 7).
		SetBool("disable_notification", true).
		SetInt("count", 0).
		SetFloat("latitude", 52.52)

	got := p.Encode()
	want := "offset=7&disable_notification=true&count=0&latitude=52.52"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsEncodeEscapes(t *testing.T) {
	p := NewParams().Set("text", "hello world & more")

	got := p.Encode()
	want := "text=hello+world+%26+more"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsSetJSON(t *testing.T) {
	p := NewParams().SetJSON("allowed_updates", []string{"message"})

	if err := p.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	got := p.Encode()
	if !strings.Contains(got, "allowed_updates=%5B%22message%22%5D") {
		t.Errorf("Encode() = %q, want JSON-encoded allowed_updates", got)
	}
}

func TestParamsSetJSONRecordsMarshalError(t *testing.T) {
	p := NewParams().
		Set("chat_id", "42").
		SetJSON("reply_markup", make(chan int))

	if err := p.Err(); err == nil {
		t.Error("Err() = nil, want marshal error")
	}
}

func TestParamsHas(t *testing.T) {
	p := NewParams().Set("chat_id", "42").SetPositive("limit", 0)

	if !p.Has("chat_id") {
		t.Error("Has(chat_id) = false, want true")
	}
	if p.Has("limit") {
		t.Error("Has(limit) = true, want false")
	}
}

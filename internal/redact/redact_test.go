package redact

import (
	"testing"
)

func TestRedactor_BotTokenPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare token",
			input: "token 123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsa_w loaded",
			want:  "token " + Placeholder + " loaded",
		},
		{
			name:  "token inside request url",
			input: "POST https://api.telegram.org/bot123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw5/getUpdates",
			want:  "POST https://api.telegram.org/bot" + Placeholder + "/getUpdates",
		},
		{
			name:  "chat id with colon is not a token",
			input: "routing 42:7 to shard",
			want:  "routing 42:7 to shard",
		},
		{
			name:  "no secrets",
			input: "this is a normal message",
			want:  "this is a normal message",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	r := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := r.Redact(tt.input)
			if got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_Literals(t *testing.T) {
	t.Parallel()

	r := New()
	r.AddLiteral("my-webhook-secret")
	r.AddLiteral("short") // below the length floor, ignored

	got := r.Redact("header set to my-webhook-secret for short calls")
	want := "header set to " + Placeholder + " for short calls"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRedactor_RedactMap(t *testing.T) {
	t.Parallel()

	r := New()
	m := map[string]any{
		"bot": map[string]any{
			"token":   "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw5",
			"api_url": "https://api.telegram.org",
		},
		"ops": map[string]any{
			"bind": "127.0.0.1:8731",
		},
		"announcements": []any{
			map[string]any{"chat": "@status", "secret_token": "whk-1234567890"},
		},
	}

	r.RedactMap(m)

	bot := m["bot"].(map[string]any)
	if bot["token"] != Placeholder {
		t.Errorf("bot.token = %q, want placeholder", bot["token"])
	}
	if bot["api_url"] != "https://api.telegram.org" {
		t.Errorf("bot.api_url = %q, want untouched", bot["api_url"])
	}
	ops := m["ops"].(map[string]any)
	if ops["bind"] != "127.0.0.1:8731" {
		t.Errorf("ops.bind = %q, want untouched", ops["bind"])
	}
	ann := m["announcements"].([]any)[0].(map[string]any)
	if ann["secret_token"] != Placeholder {
		t.Errorf("announcements[0].secret_token = %q, want placeholder", ann["secret_token"])
	}
}

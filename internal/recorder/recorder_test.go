package recorder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/flemzord/tgwire/pkg/telegram"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func messageUpdate(id int64, chatID int64, from, text string) telegram.Update {
	return telegram.Update{
		UpdateID: id,
		Message: &telegram.Message{
			MessageID: id,
			From:      &telegram.User{ID: 1, Username: from},
			Chat:      telegram.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if err := s.Record(ctx, messageUpdate(i, 42, "alice", "msg")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Chronological order, full payload intact.
	for i, su := range got {
		if su.UpdateID != int64(i+1) {
			t.Errorf("updates[%d].UpdateID = %d, want %d", i, su.UpdateID, i+1)
		}
		if su.Kind != "message" {
			t.Errorf("updates[%d].Kind = %q, want message", i, su.Kind)
		}
		if su.Update.Message == nil || su.Update.Message.Chat.ID != 42 {
			t.Errorf("updates[%d] payload not preserved: %+v", i, su.Update)
		}
		if su.ReceivedAt.IsZero() {
			t.Errorf("updates[%d].ReceivedAt is zero", i)
		}
	}
}

func TestRecordIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := messageUpdate(7, 42, "alice", "once")
	for range 3 {
		if err := s.Record(ctx, u); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 after duplicate records", count)
	}
}

func TestRecentLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		if err := s.Record(ctx, messageUpdate(i, 42, "alice", "msg")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].UpdateID != 4 || got[1].UpdateID != 5 {
		t.Errorf("Recent(2) = %v, want the two newest in order", ids(got))
	}
}

func TestByChat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, messageUpdate(1, 42, "alice", "a")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record(ctx, messageUpdate(2, 99, "bob", "b")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record(ctx, messageUpdate(3, 42, "alice", "c")); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.ByChat(ctx, 42, 10)
	if err != nil {
		t.Fatalf("by chat: %v", err)
	}
	if len(got) != 2 || got[0].UpdateID != 1 || got[1].UpdateID != 3 {
		t.Errorf("ByChat(42) = %v, want [1 3]", ids(got))
	}
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 10; i++ {
		if err := s.Record(ctx, messageUpdate(i, 42, "alice", "msg")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	removed, err := s.Prune(ctx, 4)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 6 {
		t.Errorf("removed = %d, want 6", removed)
	}

	got, err := s.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 4 || got[0].UpdateID != 7 {
		t.Errorf("after prune = %v, want [7 8 9 10]", ids(got))
	}
}

func TestPruneKeepEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, messageUpdate(1, 42, "alice", "msg")); err != nil {
		t.Fatalf("record: %v", err)
	}

	removed, err := s.Prune(ctx, 0)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0 when keep is 0", removed)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.Record(context.Background(), messageUpdate(1, 42, "alice", "persisted")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen: schema migration must be a no-op and data must survive.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer func() { _ = s2.Close() }()

	got, err := s2.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].Update.Message.Text != "persisted" {
		t.Errorf("reopened store = %v, want the recorded update", ids(got))
	}
}

func ids(updates []StoredUpdate) []int64 {
	out := make([]int64, len(updates))
	for i := range updates {
		out[i] = updates[i].UpdateID
	}
	return out
}

package ops

import (
	"testing"

	"github.com/flemzord/tgwire/pkg/telegram"
)

func upd(id int64) telegram.Update {
	return telegram.Update{UpdateID: id}
}

func feedIDs(updates []telegram.Update) []int64 {
	ids := make([]int64, len(updates))
	for i := range updates {
		ids[i] = updates[i].UpdateID
	}
	return ids
}

func TestFeedRecentOrdering(t *testing.T) {
	t.Parallel()

	f := NewFeed(10)
	for i := int64(1); i <= 4; i++ {
		f.Publish(upd(i))
	}

	got := feedIDs(f.Recent(0))
	want := []int64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Recent() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Recent() = %v, want %v", got, want)
			break
		}
	}
}

func TestFeedRingWrapsAround(t *testing.T) {
	t.Parallel()

	f := NewFeed(3)
	for i := int64(1); i <= 5; i++ {
		f.Publish(upd(i))
	}

	got := feedIDs(f.Recent(0))
	want := []int64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Recent() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Recent() = %v, want %v", got, want)
			break
		}
	}
	if f.Published() != 5 {
		t.Errorf("Published() = %d, want 5", f.Published())
	}
}

func TestFeedRecentLimit(t *testing.T) {
	t.Parallel()

	f := NewFeed(10)
	for i := int64(1); i <= 5; i++ {
		f.Publish(upd(i))
	}

	got := feedIDs(f.Recent(2))
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Errorf("Recent(2) = %v, want [4 5]", got)
	}
}

func TestFeedSubscribeDelivers(t *testing.T) {
	t.Parallel()

	f := NewFeed(10)
	ch, cancel := f.Subscribe()
	defer cancel()

	f.Publish(upd(7))

	select {
	case u := <-ch:
		if u.UpdateID != 7 {
			t.Errorf("received update %d, want 7", u.UpdateID)
		}
	default:
		t.Fatal("no update delivered to subscriber")
	}
}

func TestFeedDropsSlowSubscriber(t *testing.T) {
	t.Parallel()

	f := NewFeed(subscriberBuffer * 2)
	ch, cancel := f.Subscribe()
	defer cancel()

	// Never read: one past the buffer overflows and drops the subscriber.
	for i := range subscriberBuffer + 1 {
		f.Publish(upd(int64(i)))
	}

	if f.Subscribers() != 0 {
		t.Fatalf("Subscribers() = %d, want 0 after overflow", f.Subscribers())
	}

	// Drain: the channel must be closed after the buffered items.
	drained := 0
	for range ch {
		drained++
	}
	if drained != subscriberBuffer {
		t.Errorf("drained %d buffered updates, want %d", drained, subscriberBuffer)
	}
}

func TestFeedCancelTwice(t *testing.T) {
	t.Parallel()

	f := NewFeed(10)
	_, cancel := f.Subscribe()
	cancel()
	cancel() // second cancel must not panic
	if f.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", f.Subscribers())
	}
}

package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// listenServer answers the first scripted calls, then holds every further
// poll open until the client goes away, like an idle long poll.
func listenServer(t *testing.T, respond []func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	var call atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(call.Add(1)) - 1
		if i < len(respond) {
			respond[i](w)
			return
		}
		// net/http cancels r.Context() on client disconnect only after the
		// request body has been consumed; without this drain the handler — and
		// srv.Close in cleanup — would hang forever on an abandoned POST poll.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListenerDeliversUpdates(t *testing.T) {
	srv := listenServer(t, []func(w http.ResponseWriter){
		batch(t, 1, 2),
	})
	c := newTestClient(t, "TEST_TOKEN", srv.URL)
	p := newPoller(c)

	got := make(chan int64, 4)
	l := NewListener(p, func(ctx context.Context, u Update) {
		got <- u.UpdateID
	}, ListenerConfig{Timeout: 1, Logger: discardLogger()})

	l.Start()
	defer l.Stop()

	for _, want := range []int64{1, 2} {
		select {
		case id := <-got:
			if id != want {
				t.Errorf("delivered update %d, want %d", id, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("update %d never delivered", want)
		}
	}
}

func TestListenerRecoversAfterPollError(t *testing.T) {
	srv := listenServer(t, []func(w http.ResponseWriter){
		func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>502</html>"))
		},
		batch(t, 9),
	})
	c := newTestClient(t, "TEST_TOKEN", srv.URL)
	p := newPoller(c)

	got := make(chan int64, 1)
	l := NewListener(p, func(ctx context.Context, u Update) {
		got <- u.UpdateID
	}, ListenerConfig{Timeout: 1, Logger: discardLogger()})

	l.Start()
	defer l.Stop()

	select {
	case id := <-got:
		if id != 9 {
			t.Errorf("delivered update %d, want 9", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener never recovered from the failed poll")
	}
}

func TestListenerStopCancelsInFlightPoll(t *testing.T) {
	srv := listenServer(t, nil) // every poll hangs
	c := newTestClient(t, "TEST_TOKEN", srv.URL)
	p := newPoller(c)

	l := NewListener(p, func(ctx context.Context, u Update) {}, ListenerConfig{
		Timeout: 40, // well past the test's patience; Stop must not wait it out
		Logger:  discardLogger(),
	})
	l.Start()
	time.Sleep(50 * time.Millisecond) // let the first poll get in flight

	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not cancel the in-flight poll")
	}
}

func TestListenerStopIsIdempotent(t *testing.T) {
	srv := listenServer(t, nil)
	c := newTestClient(t, "TEST_TOKEN", srv.URL)
	l := NewListener(newPoller(c), func(ctx context.Context, u Update) {}, ListenerConfig{
		Timeout: 1,
		Logger:  discardLogger(),
	})

	l.Start()
	l.Stop()
	l.Stop() // must not panic or block
}

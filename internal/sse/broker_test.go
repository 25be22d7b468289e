package sse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	id    string
	event string
	data  string
}

func parseFrame(t *testing.T, raw []byte) frame {
	t.Helper()
	var f frame
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		key, val, ok := strings.Cut(line, ": ")
		require.True(t, ok, "malformed line %q", line)
		switch key {
		case "id":
			f.id = val
		case "event":
			f.event = val
		case "data":
			f.data = val
		}
	}
	return f
}

func nextFrame(t *testing.T, ch <-chan []byte, wait time.Duration) frame {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return parseFrame(t, msg)
	case <-time.After(wait):
		t.Fatal("timeout waiting for event")
	}
	return frame{}
}

func invalidatedPaths(t *testing.T, f frame) []string {
	t.Helper()
	require.Equal(t, EventHighlightsInvalidated, f.event)
	var inv Invalidation
	require.NoError(t, json.Unmarshal([]byte(f.data), &inv))
	return inv.Paths
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	assert.Equal(t, 0, b.ClientCount())
	ch := b.Subscribe()
	assert.Equal(t, 1, b.ClientCount())
	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.ClientCount())
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "library.rescanned", Data: map[string]int{"sources": 3}})
	b.Publish(Event{Type: "library.rescanned", Data: map[string]int{"sources": 4}})

	first := nextFrame(t, ch, time.Second)
	second := nextFrame(t, ch, time.Second)
	assert.Equal(t, "library.rescanned", first.event)
	assert.JSONEq(t, `{"sources":3}`, first.data)
	assert.Equal(t, "1", first.id)
	assert.Equal(t, "2", second.id)
}

func TestSourceEventsCarryPath(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishSourceEvent("deleted", "bio/cells.json")

	f := nextFrame(t, ch, time.Second)
	assert.Equal(t, EventSourceDeleted, f.event)
	assert.JSONEq(t, `{"path":"bio/cells.json"}`, f.data)

	// The first change after startup is outside any throttle window.
	assert.Equal(t, []string{"bio/cells.json"}, invalidatedPaths(t, nextFrame(t, ch, time.Second)))
}

func TestInvalidationCoalescesPathsWithinWindow(t *testing.T) {
	b := NewBroker(200 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishSourceEvent("created", "a.json")
	assert.Equal(t, EventSourceCreated, nextFrame(t, ch, time.Second).event)
	assert.Equal(t, []string{"a.json"}, invalidatedPaths(t, nextFrame(t, ch, time.Second)))

	// Inside the window: source events go out at once, invalidation waits.
	b.PublishSourceEvent("updated", "c.json")
	b.PublishSourceEvent("updated", "b.json")
	b.PublishSourceEvent("updated", "c.json")
	b.PublishSourceEvent("renamed", "ignored.json")

	for i := 0; i < 3; i++ {
		assert.Equal(t, EventSourceUpdated, nextFrame(t, ch, time.Second).event)
	}

	select {
	case msg := <-ch:
		t.Fatalf("unexpected event before window closed: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}

	// Trailing flush once the window closes, sorted and de-duplicated.
	assert.Equal(t, []string{"b.json", "c.json"}, invalidatedPaths(t, nextFrame(t, ch, time.Second)))

	select {
	case msg := <-ch:
		t.Fatalf("unexpected extra event: %s", msg)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	b.PublishSourceEvent("updated", "x.json")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: source.updated")
	assert.Contains(t, body, `data: {"paths":["x.json"]}`)

	require.Eventually(t, func() bool { return b.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Client buffer holds 64; the rest are dropped without blocking.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: i})
	}
	assert.Equal(t, 1, b.ClientCount())
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(time.Hour)
	ch := b.Subscribe()
	require.Equal(t, 1, b.ClientCount())

	// A pending trailing flush must not outlive Close.
	b.PublishSourceEvent("created", "a.json")
	b.PublishSourceEvent("created", "b.json")

	b.Close()

	closed := false
	deadline := time.After(time.Second)
	for !closed {
		select {
		case _, ok := <-ch:
			closed = !ok
		case <-deadline:
			t.Fatal("timeout waiting for channel close")
		}
	}

	assert.Equal(t, 0, b.ClientCount())

	// No-ops after close.
	b.Publish(Event{Type: "test", Data: 1})
	b.PublishSourceEvent("updated", "x.json")
	b.Unsubscribe(ch)
	b.Close()

	late := b.Subscribe()
	_, ok := <-late
	assert.False(t, ok)
}

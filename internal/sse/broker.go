// Package sse streams library changes to browser clients as Server-Sent Events.
//
// Two families of events are sent. source.created, source.updated and
// source.deleted fire once per change with the affected path.
// highlights.invalidated is throttled: paths changed inside one throttle
// window are coalesced and delivered together when the window closes, so a
// client re-fetches each affected snapshot once.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync/atomic"
	"time"
)

// Event types.
const (
	EventSourceCreated         = "source.created"
	EventSourceUpdated         = "source.updated"
	EventSourceDeleted         = "source.deleted"
	EventHighlightsInvalidated = "highlights.invalidated"
)

var sourceEventTypes = map[string]string{
	"created": EventSourceCreated,
	"updated": EventSourceUpdated,
	"deleted": EventSourceDeleted,
}

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// SourceChange is the payload of the source.* events.
type SourceChange struct {
	Path string `json:"path"`
}

// Invalidation is the payload of highlights.invalidated. Paths is sorted.
type Invalidation struct {
	Paths []string `json:"paths"`
}

type sourceEventReq struct {
	kind string
	path string
}

// Broker fans events out to SSE clients.
//
// A single loop goroutine owns the client set, the pending invalidation set
// and the throttle timer. Public methods talk to it over channels.
type Broker struct {
	throttle time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	sourceEventCh chan sourceEventReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker that emits at most one highlights.invalidated
// event per throttle interval.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}

	b := &Broker{
		throttle:      throttle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		sourceEventCh: make(chan sourceEventReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

// loop state, touched only by run.
type loopState struct {
	clients  map[chan []byte]struct{}
	seq      uint64
	pending  map[string]struct{}
	lastSent time.Time
	timer    *time.Timer
}

func (st *loopState) broadcast(event Event) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return
	}
	st.seq++
	raw := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", st.seq, event.Type, payload))

	for ch := range st.clients {
		select {
		case ch <- raw:
		default:
			// Slow client; drop rather than stall the loop.
		}
	}
}

// flush sends the pending invalidation set, if any.
func (st *loopState) flush(now time.Time) {
	if len(st.pending) == 0 {
		return
	}
	paths := make([]string, 0, len(st.pending))
	for p := range st.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	st.pending = make(map[string]struct{})
	st.lastSent = now
	st.broadcast(Event{Type: EventHighlightsInvalidated, Data: Invalidation{Paths: paths}})
}

func (b *Broker) run() {
	defer close(b.stopped)

	st := &loopState{
		clients: make(map[chan []byte]struct{}),
		pending: make(map[string]struct{}),
	}
	var timerC <-chan time.Time

	for {
		select {
		case <-b.stopCh:
			if st.timer != nil {
				st.timer.Stop()
			}
			for ch := range st.clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			st.clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := st.clients[ch]; ok {
				delete(st.clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			st.broadcast(event)

		case req := <-b.sourceEventCh:
			typ, ok := sourceEventTypes[req.kind]
			if !ok {
				continue
			}
			st.broadcast(Event{Type: typ, Data: SourceChange{Path: req.path}})
			st.pending[req.path] = struct{}{}

			now := time.Now()
			if wait := b.throttle - now.Sub(st.lastSent); wait <= 0 {
				st.flush(now)
			} else if timerC == nil {
				st.timer = time.NewTimer(wait)
				timerC = st.timer.C
			}

		case now := <-timerC:
			timerC, st.timer = nil, nil
			st.flush(now)

		case resp := <-b.countReqCh:
			resp <- len(st.clients)
		}
	}
}

// Close stops the loop and closes every client channel. Safe to call twice.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an arbitrary event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishSourceEvent reports a change to one source. kind is "created",
// "updated" or "deleted"; other kinds are ignored. The path also joins the
// next highlights.invalidated event.
func (b *Broker) PublishSourceEvent(kind, path string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.sourceEventCh <- sourceEventReq{kind: kind, path: path}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}

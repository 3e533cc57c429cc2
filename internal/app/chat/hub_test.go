package chat

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	id string
	ip string

	mu     sync.Mutex
	closed bool
	frames chan []byte
	done   chan struct{}
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{
		id:     id,
		ip:     "10.0.0." + id,
		frames: make(chan []byte, 512),
		done:   make(chan struct{}),
	}
}

func (f *fakeConn) ID() string { return f.id }
func (f *fakeConn) IP() string { return f.ip }

func (f *fakeConn) Enqueue(frame []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	select {
	case f.frames <- frame:
		return true
	default:
		return false
	}
}

func (f *fakeConn) CloseSend() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
}

type wireFrame struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (f *fakeConn) next(t *testing.T) wireFrame {
	t.Helper()
	select {
	case raw := <-f.frames:
		var fr wireFrame
		if err := json.Unmarshal(raw, &fr); err != nil {
			t.Fatalf("invalid frame %s: %v", raw, err)
		}
		return fr
	case <-time.After(2 * time.Second):
		t.Fatalf("%s: timed out waiting for a frame", f.id)
		return wireFrame{}
	}
}

func (f *fakeConn) expect(t *testing.T, name EventName, dst any) {
	t.Helper()
	fr := f.next(t)
	if fr.Event != name {
		t.Fatalf("%s: got event %s (%s), want %s", f.id, fr.Event, fr.Data, name)
	}
	if dst != nil {
		if err := json.Unmarshal(fr.Data, dst); err != nil {
			t.Fatalf("%s: decode %s data: %v", f.id, name, err)
		}
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(NewPresence(), NewHistory(MaxHistory))
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	return hub
}

func TestHubJoinChatLeave(t *testing.T) {
	hub := startHub(t)
	a, b := newFakeConn("1"), newFakeConn("2")

	hub.Connect(a)
	hub.Submit(a, JoinEvent{Name: "Alice"})

	var history []Message
	a.expect(t, EventHistory, &history)
	if len(history) != 0 {
		t.Fatalf("initial history = %+v", history)
	}

	var joined PresencePayload
	a.expect(t, EventUserJoined, &joined)
	if joined.OnlineCount != 1 || joined.User.Name != "Alice" || joined.User.IP != "10.0.0.1" {
		t.Fatalf("userJoined = %+v", joined)
	}

	hub.Connect(b)
	hub.Submit(b, JoinEvent{Name: "Bob"})
	b.expect(t, EventHistory, &history)
	b.expect(t, EventUserJoined, &joined)
	if joined.OnlineCount != 2 {
		t.Fatalf("B userJoined count = %d", joined.OnlineCount)
	}
	a.expect(t, EventUserJoined, &joined)

	hub.Submit(a, ChatMessageEvent{Text: "hi"})
	for _, c := range []*fakeConn{a, b} {
		var msg Message
		c.expect(t, EventMessage, &msg)
		if msg.Type != TypeText || msg.Text != "hi" || msg.User.Name != "Alice" {
			t.Errorf("%s message = %+v", c.id, msg)
		}
	}

	hub.Disconnect(b)
	var left PresencePayload
	a.expect(t, EventUserLeft, &left)
	if left.OnlineCount != 1 || left.User.Name != "Bob" {
		t.Errorf("userLeft = %+v", left)
	}

	select {
	case <-b.done:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnected connection was not closed")
	}
}

func TestHubDropsMessagesBeforeJoin(t *testing.T) {
	hub := startHub(t)
	a, b := newFakeConn("1"), newFakeConn("2")

	hub.Connect(a)
	hub.Submit(a, JoinEvent{Name: "Alice"})
	a.expect(t, EventHistory, nil)
	a.expect(t, EventUserJoined, nil)

	hub.Connect(b)
	hub.Submit(b, ChatMessageEvent{Text: "sneaky"})
	hub.Submit(a, ChatMessageEvent{Text: "legit"})

	var msg Message
	a.expect(t, EventMessage, &msg)
	if msg.Text != "legit" {
		t.Fatalf("first message seen by A = %q, want legit", msg.Text)
	}

	hub.Submit(b, JoinEvent{Name: "Bob"})
	var history []Message
	b.expect(t, EventHistory, &history)
	if len(history) != 1 || history[0].Text != "legit" {
		t.Errorf("history = %+v, want only the legit message", history)
	}
}

func TestHubDuplicateDisconnectEmitsOneUserLeft(t *testing.T) {
	hub := startHub(t)
	a, b := newFakeConn("1"), newFakeConn("2")

	for _, c := range []*fakeConn{a, b} {
		hub.Connect(c)
	}
	hub.Submit(a, JoinEvent{Name: "Alice"})
	hub.Submit(b, JoinEvent{Name: "Bob"})

	a.expect(t, EventHistory, nil)
	a.expect(t, EventUserJoined, nil)
	a.expect(t, EventUserJoined, nil)

	hub.Disconnect(b)
	hub.Disconnect(b)
	hub.Submit(b, ChatMessageEvent{Text: "ghost"})
	hub.Submit(a, ChatMessageEvent{Text: "marker"})

	a.expect(t, EventUserLeft, nil)

	var msg Message
	a.expect(t, EventMessage, &msg)
	if msg.Text != "marker" {
		t.Errorf("next event after userLeft = %+v, want the marker message", msg)
	}
}

func TestHubDisconnectBeforeJoinIsSilent(t *testing.T) {
	hub := startHub(t)
	a, b := newFakeConn("1"), newFakeConn("2")

	hub.Connect(a)
	hub.Submit(a, JoinEvent{Name: "Alice"})
	a.expect(t, EventHistory, nil)
	a.expect(t, EventUserJoined, nil)

	hub.Connect(b)
	hub.Disconnect(b)
	hub.Submit(a, ChatMessageEvent{Text: "marker"})

	a.expect(t, EventMessage, nil)
}

func TestHubRejectsDuplicateConnectionID(t *testing.T) {
	hub := startHub(t)
	first, impostor := newFakeConn("1"), newFakeConn("1")

	hub.Connect(first)
	hub.Connect(impostor)

	select {
	case <-impostor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("duplicate connection was not closed")
	}

	// A disconnect from the rejected connection must not end the original one.
	hub.Disconnect(impostor)
	hub.Submit(first, JoinEvent{Name: "Alice"})
	first.expect(t, EventHistory, nil)
}

func TestHubShutdownClosesConnections(t *testing.T) {
	hub := NewHub(NewPresence(), NewHistory(MaxHistory))
	go hub.Run()

	a := newFakeConn("1")
	hub.Connect(a)
	hub.Submit(a, JoinEvent{Name: "Alice"})
	a.expect(t, EventHistory, nil)

	hub.Shutdown()

	select {
	case <-a.done:
	default:
		t.Fatal("connection still open after Shutdown")
	}

	if hub.Submit(a, ChatMessageEvent{Text: "late"}) {
		t.Error("Submit succeeded after Shutdown")
	}
	hub.Shutdown()
}

func TestHubDoesNotExposeOutbox(t *testing.T) {
	var hub any = NewHub(NewPresence(), NewHistory(MaxHistory))
	if _, ok := hub.(Outbox); ok {
		t.Error("*Hub implements Outbox; delivery must stay on the event loop")
	}
}

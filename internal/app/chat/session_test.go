package chat

import "testing"

func TestSessionTransitions(t *testing.T) {
	s, out := newTestService()
	sess := NewSession("A", "10.0.0.1", s)

	if sess.State() != StateConnected {
		t.Fatalf("initial state = %s", sess.State())
	}

	if sess.Dispatch(ChatMessageEvent{Text: "too early"}) {
		t.Error("message before join was handled")
	}
	if sess.State() != StateConnected || len(out.deliveries) != 0 || s.history.Len() != 0 {
		t.Fatalf("message before join had effects: state=%s deliveries=%d", sess.State(), len(out.deliveries))
	}

	if !sess.Dispatch(JoinEvent{Name: "Alice"}) || sess.State() != StateJoined {
		t.Fatalf("join failed, state = %s", sess.State())
	}
	if u, ok := s.presence.Get("A"); !ok || u.IP != "10.0.0.1" {
		t.Fatalf("registered user = %+v, %v", u, ok)
	}

	for n := 0; n < 3; n++ {
		if !sess.Dispatch(ChatMessageEvent{Text: "hello"}) {
			t.Fatal("message in joined state was not handled")
		}
	}
	if sess.State() != StateJoined || s.history.Len() != 3 {
		t.Fatalf("state = %s, history = %d", sess.State(), s.history.Len())
	}

	if !sess.Close() || sess.State() != StateClosed {
		t.Fatalf("Close() failed, state = %s", sess.State())
	}
	if s.presence.Count() != 0 {
		t.Errorf("presence count after close = %d", s.presence.Count())
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s, out := newTestService()
	watcher := NewSession("W", "", s)
	watcher.Dispatch(JoinEvent{Name: "Watcher"})

	sess := NewSession("B", "", s)
	sess.Dispatch(JoinEvent{Name: "Bob"})
	out.reset()

	sess.Close()
	if sess.Close() {
		t.Error("second Close() reported a transition")
	}
	if n := out.count(EventUserLeft); n != 1 {
		t.Errorf("userLeft deliveries = %d, want 1", n)
	}
}

func TestSessionIgnoresEventsAfterClose(t *testing.T) {
	s, out := newTestService()
	sess := NewSession("A", "", s)
	sess.Close()

	if sess.Dispatch(JoinEvent{Name: "Late"}) {
		t.Error("join after close was handled")
	}
	if s.presence.Count() != 0 || len(out.deliveries) != 0 {
		t.Errorf("closed session had effects: count=%d deliveries=%d", s.presence.Count(), len(out.deliveries))
	}
}

func TestSessionCloseBeforeJoinEmitsNothing(t *testing.T) {
	s, out := newTestService()
	NewSession("W", "", s).Dispatch(JoinEvent{Name: "Watcher"})
	out.reset()

	NewSession("B", "", s).Close()

	if len(out.deliveries) != 0 {
		t.Errorf("deliveries = %+v, want none", out.deliveries)
	}
}

func TestSessionRepeatedJoinStaysJoined(t *testing.T) {
	s, _ := newTestService()
	sess := NewSession("A", "", s)
	sess.Dispatch(JoinEvent{Name: "Alice"})
	sess.Dispatch(JoinEvent{Name: "Alicia"})

	if sess.State() != StateJoined || s.presence.Count() != 1 {
		t.Fatalf("state = %s, count = %d", sess.State(), s.presence.Count())
	}
	if u, _ := s.presence.Get("A"); u.Name != "Alicia" {
		t.Errorf("name = %q, want Alicia", u.Name)
	}
}

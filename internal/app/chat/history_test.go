package chat

import (
	"strconv"
	"testing"
)

func textMessage(n int) Message {
	return Message{ID: strconv.Itoa(n), Type: TypeText, Text: "message " + strconv.Itoa(n)}
}

func TestHistoryKeepsMostRecentInOrder(t *testing.T) {
	for _, n := range []int{0, 1, 50, 99, 100, 101, 105, 250} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			h := NewHistory(MaxHistory)
			for i := 1; i <= n; i++ {
				h.Append(textMessage(i))
			}

			want := min(n, MaxHistory)
			snap := h.Snapshot()
			if len(snap) != want || h.Len() != want {
				t.Fatalf("len(snapshot) = %d, Len() = %d, want %d", len(snap), h.Len(), want)
			}

			first := n - want + 1
			for j, msg := range snap {
				if msg.ID != strconv.Itoa(first+j) {
					t.Fatalf("snapshot[%d].ID = %s, want %d", j, msg.ID, first+j)
				}
			}
		})
	}
}

func TestHistoryOverflowEvictsOldest(t *testing.T) {
	h := NewHistory(MaxHistory)
	for i := 1; i <= 105; i++ {
		h.Append(textMessage(i))
	}

	snap := h.Snapshot()
	if len(snap) != 100 {
		t.Fatalf("len = %d, want 100", len(snap))
	}
	if snap[0].Text != "message 6" {
		t.Errorf("oldest = %q, want message 6", snap[0].Text)
	}
	if snap[99].Text != "message 105" {
		t.Errorf("newest = %q, want message 105", snap[99].Text)
	}
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	h := NewHistory(3)
	h.Append(textMessage(1))
	h.Append(textMessage(2))

	snap := h.Snapshot()
	snap[0].Text = "tampered"

	again := h.Snapshot()
	if again[0].Text != "message 1" || len(again) != 2 {
		t.Errorf("buffer changed through snapshot: %+v", again)
	}
}

func TestHistoryEmptySnapshotIsNotNil(t *testing.T) {
	h := NewHistory(0)

	if h.Cap() != MaxHistory {
		t.Errorf("Cap() = %d, want %d", h.Cap(), MaxHistory)
	}
	if snap := h.Snapshot(); snap == nil || len(snap) != 0 {
		t.Errorf("Snapshot() = %#v, want empty non-nil slice", snap)
	}
}

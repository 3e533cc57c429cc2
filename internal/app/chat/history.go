package chat

import "sync"

// MaxHistory is the default number of messages kept for replay to newcomers.
const MaxHistory = 100

// History is a fixed-capacity FIFO log of the most recent messages.
// Appending to a full buffer evicts the oldest message.
type History struct {
	mu    sync.RWMutex
	buf   []Message
	start int
	size  int
}

// NewHistory creates a buffer that holds at most capacity messages.
// A non-positive capacity falls back to MaxHistory.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = MaxHistory
	}
	return &History{buf: make([]Message, capacity)}
}

// Append adds msg at the tail, evicting the head when the buffer is full.
func (h *History) Append(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	capacity := len(h.buf)
	if h.size < capacity {
		h.buf[(h.start+h.size)%capacity] = msg
		h.size++
		return
	}

	h.buf[h.start] = msg
	h.start = (h.start + 1) % capacity
}

// Snapshot returns a copy of the buffered messages, oldest first.
// The result is never nil.
func (h *History) Snapshot() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, h.size)
	capacity := len(h.buf)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%capacity]
	}
	return out
}

// Len returns the number of buffered messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.size
}

// Cap returns the maximum number of messages the buffer holds.
func (h *History) Cap() int {
	return len(h.buf)
}

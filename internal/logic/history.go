package logic

// History is a fixed-capacity FIFO of tick records. When full, the oldest
// entry is overwritten. Not safe for concurrent use; the controller owns it.
type History struct {
	buf   []HistoryEntry
	head  int // next write position
	count int
}

// NewHistory creates an empty history with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]HistoryEntry, capacity)}
}

// Push appends an entry, evicting the oldest one on overflow.
func (h *History) Push(e HistoryEntry) {
	h.buf[h.head] = e
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return h.count
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return len(h.buf)
}

// First returns the oldest stored entry.
func (h *History) First() (HistoryEntry, bool) {
	if h.count == 0 {
		return HistoryEntry{}, false
	}
	return h.buf[h.start()], true
}

// Last returns the newest stored entry.
func (h *History) Last() (HistoryEntry, bool) {
	if h.count == 0 {
		return HistoryEntry{}, false
	}
	return h.buf[(h.head-1+len(h.buf))%len(h.buf)], true
}

// Entries returns a copy of the stored entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, h.count)
	start := h.start()
	for i := 0; i < h.count; i++ {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

// Reset drops every entry.
func (h *History) Reset() {
	h.head = 0
	h.count = 0
}

// start is the index of the oldest entry: (head - count) mod capacity.
func (h *History) start() int {
	return (h.head - h.count + len(h.buf)) % len(h.buf)
}

package router

import "sync"

// maxHistory bounds the back stack; the oldest entries are dropped first.
const maxHistory = 100

// History is the in-process navigation source: a back/forward stack of
// route paths.
type History struct {
	mu      sync.Mutex
	entries []string
	pos     int
}

func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// Current returns the path at the cursor.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

// Push records path as a new entry after the cursor and drops any forward
// entries. Pushing the current path is a no-op.
func (h *History) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.pos] == path {
		return
	}
	h.entries = append(h.entries[:h.pos+1], path)
	if len(h.entries) > maxHistory {
		h.entries = h.entries[len(h.entries)-maxHistory:]
	}
	h.pos = len(h.entries) - 1
}

// Replace overwrites the entry at the cursor.
func (h *History) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.pos] = path
}

// CompareAndReplace overwrites the entry at the cursor only while it still
// reads old.
func (h *History) CompareAndReplace(old, path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.pos] != old {
		return false
	}
	h.entries[h.pos] = path
	return true
}

// Back moves the cursor one entry back.
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos == 0 {
		return h.entries[h.pos], false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward moves the cursor one entry forward.
func (h *History) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos == len(h.entries)-1 {
		return h.entries[h.pos], false
	}
	h.pos++
	return h.entries[h.pos], true
}

func (h *History) CanBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos > 0
}

func (h *History) CanForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos < len(h.entries)-1
}

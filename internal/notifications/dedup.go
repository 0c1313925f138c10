package notifications

import "sync"

// MessageDedup collapses the two producers of a conversation log (the
// optimistic local append after a send and the realtime echo from the
// match channel) into one sequence keyed by message ID. Every message
// event a consumer handles must pass through Observe before it is
// appended to the visible log.
type MessageDedup struct {
	mu   sync.Mutex
	seen map[uint]struct{}
}

// NewMessageDedup returns an empty dedup set.
func NewMessageDedup() *MessageDedup {
	return &MessageDedup{seen: make(map[uint]struct{})}
}

// Observe records the message ID and reports whether it was seen for
// the first time. The second and later observations return false.
func (d *MessageDedup) Observe(messageID uint) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[messageID]; ok {
		return false
	}
	d.seen[messageID] = struct{}{}
	return true
}

// Len returns the number of distinct message IDs observed.
func (d *MessageDedup) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Reset clears the set. Callers reset when leaving a conversation; a
// rejoin refetches history first, then reattaches the channel.
func (d *MessageDedup) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[uint]struct{})
}

// Package session owns the queue snapshot for one presentation pass.
package session

import "github.com/citygate/interstitial/internal/content"

// Sequencer walks a fixed-order queue of content items. The queue is frozen
// at construction: no reordering, no refill, no looping back. Once the
// cursor passes the end, Current reports none forever.
type Sequencer struct {
	queue  []content.Item
	cursor int
}

// New builds a Sequencer over the given queue snapshot. The slice is copied
// so later mutations by the caller cannot reorder a running session.
func New(items []content.Item) *Sequencer {
	queue := make([]content.Item, len(items))
	copy(queue, items)
	return &Sequencer{queue: queue}
}

// Current returns the item under the cursor, or ok=false when the queue is
// exhausted (or was empty to begin with).
func (s *Sequencer) Current() (content.Item, bool) {
	if s.cursor >= len(s.queue) {
		return content.Item{}, false
	}
	return s.queue[s.cursor], true
}

// HasNext reports whether at least one item follows the current one.
func (s *Sequencer) HasNext() bool {
	return s.cursor+1 < len(s.queue)
}

// Advance moves the cursor forward one position. Advancing past the end is
// a no-op beyond cursor == len(queue); the cursor never decreases.
func (s *Sequencer) Advance() {
	if s.cursor < len(s.queue) {
		s.cursor++
	}
}

// Cursor returns the current cursor position, 0 <= cursor <= Len().
func (s *Sequencer) Cursor() int {
	return s.cursor
}

// Len returns the queue length.
func (s *Sequencer) Len() int {
	return len(s.queue)
}

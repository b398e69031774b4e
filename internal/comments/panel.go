// Package comments holds the state of the lazy comment panel. Comments are
// fetched only when the panel is first opened for an item, never while the
// item sits unseen in the queue.
package comments

import (
	"errors"
	"strings"

	"github.com/citygate/interstitial/internal/interact"
)

// ErrEmptyComment rejects comment submissions that are empty after
// trimming whitespace.
var ErrEmptyComment = errors.New("comment text is empty")

// Panel tracks comment-panel state for the item currently on screen.
type Panel struct {
	contentID string
	open      bool
	loading   bool
	loaded    bool
	items     []interact.Comment
}

// NewPanel returns a closed, unloaded panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Reset points the panel at a new item. Any previously loaded comments are
// discarded; the next Open triggers a fresh load.
func (p *Panel) Reset(contentID string) {
	p.contentID = contentID
	p.open = false
	p.loading = false
	p.loaded = false
	p.items = nil
}

// Open shows the panel. It reports whether the caller needs to start a
// load: true only on the first open for the current item.
func (p *Panel) Open() (needsLoad bool) {
	p.open = true
	if p.loaded || p.loading {
		return false
	}
	p.loading = true
	return true
}

// Close hides the panel. Loaded comments are kept so reopening on the same
// item is instant.
func (p *Panel) Close() {
	p.open = false
}

// SetComments installs the fetched comment list. Ignored if the panel has
// been Reset to a different item since the load started.
func (p *Panel) SetComments(contentID string, items []interact.Comment) {
	if contentID != p.contentID {
		return
	}
	p.loading = false
	p.loaded = true
	p.items = items
}

// LoadFailed clears the loading state so a later Open can retry.
func (p *Panel) LoadFailed(contentID string) {
	if contentID != p.contentID {
		return
	}
	p.loading = false
}

// Append adds a freshly posted comment to the visible list.
func (p *Panel) Append(c interact.Comment) {
	p.items = append(p.items, c)
}

// Validate checks a draft comment and returns the trimmed text.
func Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyComment
	}
	return trimmed, nil
}

// ContentID returns the item the panel is bound to.
func (p *Panel) ContentID() string { return p.contentID }

// IsOpen reports whether the panel is visible.
func (p *Panel) IsOpen() bool { return p.open }

// Loading reports whether a fetch is in flight.
func (p *Panel) Loading() bool { return p.loading }

// Comments returns the loaded comments in display order.
func (p *Panel) Comments() []interact.Comment { return p.items }

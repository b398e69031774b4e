// Package ui provides the Bubble Tea TUI for the interstitial presenter.
package ui

import (
	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/interact"
)

// CatalogLoaded is sent when the interstitial queue has been fetched.
type CatalogLoaded struct {
	Items []content.Item
	Err   error
}

// Tick is the one-second heartbeat driving the presentation engine. Epoch
// identifies the tick run it belongs to; the engine drops stale ones.
type Tick struct {
	Epoch int
}

// ItemState carries refreshed counters and viewer flags for one item.
type ItemState struct {
	ContentID string
	Counters  interact.Counters
	Flags     interact.Flags
	Err       error
}

// ToggleResult is sent when an interaction write finishes.
type ToggleResult struct {
	ContentID string
	Type      interact.Type
	Count     int
	Err       error
}

// ShareResult is sent when a share (or calendar add) completes.
type ShareResult struct {
	Target   interact.ShareTarget
	Calendar bool
	Err      error
}

// CommentsLoaded is sent when an item's comments arrive.
type CommentsLoaded struct {
	ContentID string
	Comments  []interact.Comment
	Err       error
}

// CommentPosted is sent when a comment submission finishes.
type CommentPosted struct {
	ContentID string
	Comment   interact.Comment
	Err       error
}

// ViewRecorded is sent after the fire-and-forget view registration.
type ViewRecorded struct {
	ContentID string
}

// clearNotice expires the transient notice bar.
type clearNotice struct{}

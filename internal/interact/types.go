// Package interact translates viewer interaction intents (like, favorite,
// comment, share, calendar-add) into requests against the portal's
// interaction store, and keeps the engine's read-through cache of aggregate
// counters.
//
// The cache policy is strict: the displayed count for a type is always the
// last value the server returned for it, never a locally incremented or
// decremented guess. Concurrent toggles therefore converge on whatever the
// server says, with no client-side reconciliation to drift.
package interact

import (
	"errors"
	"time"
)

// Type is one interaction counter dimension.
type Type string

const (
	TypeLike     Type = "like"
	TypeFavorite Type = "favorite"
	TypeComment  Type = "comment"
	TypeShare    Type = "share"
	TypeCalendar Type = "calendar"
)

// Types lists every interaction type, in display order.
var Types = []Type{TypeLike, TypeFavorite, TypeComment, TypeShare, TypeCalendar}

// Valid reports whether t is a known interaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeLike, TypeFavorite, TypeComment, TypeShare, TypeCalendar:
		return true
	}
	return false
}

// ShareTarget identifies where a share intent is directed.
type ShareTarget string

const (
	ShareFacebook  ShareTarget = "facebook"
	ShareTwitter   ShareTarget = "twitter"
	ShareWhatsApp  ShareTarget = "whatsapp"
	ShareClipboard ShareTarget = "clipboard"
)

// Counters maps interaction type to the server-held aggregate count.
type Counters map[Type]int

// Flags maps interaction type to whether this viewer has already triggered
// it on an item.
type Flags map[Type]bool

// Comment is one append-only comment on a content item.
type Comment struct {
	ID        string    `json:"id"`
	ContentID string    `json:"content_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrAuthRequired is returned when a write needs an authenticated viewer.
// The host surfaces it as a sign-in prompt; no write happens.
var ErrAuthRequired = errors.New("authentication required")

// ErrWriteFailed wraps network or server errors on interaction writes. The
// local cache is left untouched and the action is not retried.
var ErrWriteFailed = errors.New("interaction write failed")

// ErrNotEvent is returned when calendar-add is requested for a non-event
// item.
var ErrNotEvent = errors.New("calendar add applies to events only")

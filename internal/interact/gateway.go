package interact

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/logging"
)

// Opener opens a URL in a new browsing context (the system browser).
type Opener interface {
	OpenURL(u string) error
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Write(text string) error
}

// Gateway is the single entry point for viewer interaction intents. It
// enforces authentication, at-most-once view registration per session, and
// the read-through counter cache. One Gateway lives per presentation
// session.
type Gateway struct {
	store      Store
	opener     Opener
	clip       Clipboard
	publicBase string
	authed     bool

	mu     sync.Mutex
	viewed map[string]bool
	counts map[string]Counters
	flags  map[string]Flags
}

// NewGateway creates a Gateway. authed reflects whether the viewer holds a
// session with the portal; unauthenticated viewers can watch and share to
// the clipboard but every counted write fails with ErrAuthRequired from
// the backend.
func NewGateway(store Store, opener Opener, clip Clipboard, publicBase string, authed bool) *Gateway {
	return &Gateway{
		store:      store,
		opener:     opener,
		clip:       clip,
		publicBase: strings.TrimRight(publicBase, "/"),
		authed:     authed,
		viewed:     make(map[string]bool),
		counts:     make(map[string]Counters),
		flags:      make(map[string]Flags),
	}
}

// Authenticated reports whether the viewer is signed in.
func (g *Gateway) Authenticated() bool {
	return g.authed
}

// RecordView registers that an item was shown, at most once per item per
// session. Purely analytical: it touches no counter. Failures are logged
// and swallowed; the registration is fire-and-forget and never retried.
func (g *Gateway) RecordView(ctx context.Context, id string) {
	g.mu.Lock()
	if g.viewed[id] {
		g.mu.Unlock()
		return
	}
	g.viewed[id] = true
	g.mu.Unlock()

	if err := g.store.RegisterView(ctx, id); err != nil {
		logging.Debug("view registration failed", "content", id, "err", err)
	}
}

// Refresh fetches counters (and, for authenticated viewers, flags) for an
// item, concurrently, and installs them as the cached display state.
// Unauthenticated viewers get zero-valued flags: the backend would reject
// the call, and "never triggered" is the right display default.
func (g *Gateway) Refresh(ctx context.Context, kind content.Kind, id string) (Counters, Flags, error) {
	var (
		counters Counters
		flags    = Flags{}
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		counters, err = g.store.Counters(gctx, kind, id)
		return err
	})
	if g.authed {
		eg.Go(func() error {
			var err error
			flags, err = g.store.Flags(gctx, kind, id)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, fmt.Errorf("refresh %s/%s: %w", kind, id, err)
	}

	g.mu.Lock()
	g.counts[id] = counters
	g.flags[id] = flags
	g.mu.Unlock()
	return counters, flags, nil
}

// Counters returns the cached display counts for an item. Missing entries
// read as zero.
func (g *Gateway) Counters(id string) Counters {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := Counters{}
	for typ, n := range g.counts[id] {
		out[typ] = n
	}
	return out
}

// Flags returns the cached viewer flags for an item.
func (g *Gateway) Flags(id string) Flags {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := Flags{}
	for typ, v := range g.flags[id] {
		out[typ] = v
	}
	return out
}

// Toggle flips one interaction for the viewer. On success the server's new
// aggregate count replaces the cached value; the count is never computed
// locally. On failure the cache is untouched and the error says why.
func (g *Gateway) Toggle(ctx context.Context, kind content.Kind, id string, typ Type) (int, error) {
	if !g.authed {
		return 0, ErrAuthRequired
	}

	count, err := g.store.Toggle(ctx, kind, id, typ)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	if g.counts[id] == nil {
		g.counts[id] = Counters{}
	}
	g.counts[id][typ] = count
	if typ == TypeLike || typ == TypeFavorite {
		if g.flags[id] == nil {
			g.flags[id] = Flags{}
		}
		g.flags[id][typ] = !g.flags[id][typ]
	}
	g.mu.Unlock()
	return count, nil
}

// Share handles a share intent. Clipboard shares copy the canonical URL
// and return without touching the network. Social shares open the target's
// share endpoint in a new browsing context, then record a share
// interaction the same way Toggle would. Every click counts; there is no
// deduplication.
func (g *Gateway) Share(ctx context.Context, item content.Item, target ShareTarget) error {
	link := CanonicalURL(g.publicBase, item.Kind, item.ID)

	if target == ShareClipboard {
		if err := g.clip.Write(link); err != nil {
			return fmt.Errorf("%w: clipboard: %v", ErrWriteFailed, err)
		}
		return nil
	}

	shareURL, ok := ShareURL(target, link, item.Title)
	if !ok {
		return fmt.Errorf("%w: unknown share target %q", ErrWriteFailed, target)
	}
	if err := g.opener.OpenURL(shareURL); err != nil {
		return fmt.Errorf("%w: open share window: %v", ErrWriteFailed, err)
	}

	_, err := g.Toggle(ctx, item.Kind, item.ID, TypeShare)
	return err
}

// AddToCalendar opens an external calendar-creation link for an event item
// and records a calendar interaction.
func (g *Gateway) AddToCalendar(ctx context.Context, item content.Item) error {
	if item.Kind != content.KindEvent {
		return ErrNotEvent
	}
	if err := g.opener.OpenURL(CalendarURL(item, time.Now())); err != nil {
		return fmt.Errorf("%w: open calendar: %v", ErrWriteFailed, err)
	}
	_, err := g.Toggle(ctx, item.Kind, item.ID, TypeCalendar)
	return err
}

// Comments loads the comment list for an item. Called only when the panel
// is opened; queued-but-unshown items are never prefetched.
func (g *Gateway) Comments(ctx context.Context, kind content.Kind, id string) ([]Comment, error) {
	return g.store.Comments(ctx, kind, id)
}

// PostComment appends a comment and refreshes the item's comment counter
// from the server, read-through like every other count.
func (g *Gateway) PostComment(ctx context.Context, kind content.Kind, id, text string) (Comment, error) {
	if !g.authed {
		return Comment{}, ErrAuthRequired
	}

	created, err := g.store.PostComment(ctx, kind, id, text)
	if err != nil {
		return Comment{}, err
	}

	// Re-read counters so the comment count is the server's, not ours + 1.
	if counters, err := g.store.Counters(ctx, kind, id); err == nil {
		g.mu.Lock()
		g.counts[id] = counters
		g.mu.Unlock()
	} else {
		logging.Debug("comment counter refresh failed", "content", id, "err", err)
	}
	return created, nil
}

package interact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/citygate/interstitial/internal/content"
)

// mockStore scripts interaction responses.
type mockStore struct {
	counters     Counters
	flags        Flags
	toggleCounts []int // successive Toggle return values
	toggleCalls  int
	toggleErr    error
	views        []string
	viewErr      error
	comments     []Comment
	posted       []string
	postErr      error
}

func (m *mockStore) Counters(ctx context.Context, kind content.Kind, id string) (Counters, error) {
	out := Counters{}
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) Flags(ctx context.Context, kind content.Kind, id string) (Flags, error) {
	out := Flags{}
	for k, v := range m.flags {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) Toggle(ctx context.Context, kind content.Kind, id string, typ Type) (int, error) {
	if m.toggleErr != nil {
		return 0, m.toggleErr
	}
	n := m.toggleCounts[m.toggleCalls%len(m.toggleCounts)]
	m.toggleCalls++
	return n, nil
}

func (m *mockStore) RegisterView(ctx context.Context, id string) error {
	m.views = append(m.views, id)
	return m.viewErr
}

func (m *mockStore) Comments(ctx context.Context, kind content.Kind, id string) ([]Comment, error) {
	return m.comments, nil
}

func (m *mockStore) PostComment(ctx context.Context, kind content.Kind, id, text string) (Comment, error) {
	if m.postErr != nil {
		return Comment{}, m.postErr
	}
	m.posted = append(m.posted, text)
	return Comment{ID: "c1", ContentID: id, Text: text, CreatedAt: time.Now()}, nil
}

// mockOpener records opened URLs.
type mockOpener struct {
	opened []string
	err    error
}

func (m *mockOpener) OpenURL(u string) error {
	if m.err != nil {
		return m.err
	}
	m.opened = append(m.opened, u)
	return nil
}

// mockClipboard records copied text.
type mockClipboard struct {
	copied []string
}

func (m *mockClipboard) Write(text string) error {
	m.copied = append(m.copied, text)
	return nil
}

func newTestGateway(store *mockStore, authed bool) (*Gateway, *mockOpener, *mockClipboard) {
	opener := &mockOpener{}
	clip := &mockClipboard{}
	return NewGateway(store, opener, clip, "https://portal.example.org", authed), opener, clip
}

func TestToggleRequiresAuth(t *testing.T) {
	store := &mockStore{counters: Counters{TypeLike: 12}, toggleCounts: []int{13}}
	g, _, _ := newTestGateway(store, false)
	ctx := context.Background()

	if _, _, err := g.Refresh(ctx, content.KindEvent, "e1"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	_, err := g.Toggle(ctx, content.KindEvent, "e1", TypeLike)
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if store.toggleCalls != 0 {
		t.Error("unauthenticated toggle must not reach the store")
	}
	if got := g.Counters("e1")[TypeLike]; got != 12 {
		t.Errorf("counter changed to %d after rejected toggle, want 12", got)
	}
}

func TestToggleDisplaysServerCount(t *testing.T) {
	// The server says 41 after our like: other viewers unliked concurrently.
	// The display takes the server's word, not local count + 1.
	store := &mockStore{counters: Counters{TypeLike: 42}, toggleCounts: []int{41}}
	g, _, _ := newTestGateway(store, true)
	ctx := context.Background()

	if _, _, err := g.Refresh(ctx, content.KindAdvertisement, "a1"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	count, err := g.Toggle(ctx, content.KindAdvertisement, "a1", TypeLike)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if count != 41 {
		t.Errorf("count = %d, want 41", count)
	}
	if got := g.Counters("a1")[TypeLike]; got != 41 {
		t.Errorf("cached counter = %d, want server value 41", got)
	}
	if !g.Flags("a1")[TypeLike] {
		t.Error("like flag should flip on after toggle")
	}
}

func TestToggleFailureLeavesCacheAlone(t *testing.T) {
	store := &mockStore{counters: Counters{TypeFavorite: 7}, toggleErr: ErrWriteFailed}
	g, _, _ := newTestGateway(store, true)
	ctx := context.Background()

	if _, _, err := g.Refresh(ctx, content.KindSurvey, "s1"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, err := g.Toggle(ctx, content.KindSurvey, "s1", TypeFavorite); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
	if got := g.Counters("s1")[TypeFavorite]; got != 7 {
		t.Errorf("counter = %d after failed toggle, want 7", got)
	}
	if g.Flags("s1")[TypeFavorite] {
		t.Error("flag must not flip on a failed toggle")
	}
}

func TestRecordViewOncePerItem(t *testing.T) {
	store := &mockStore{}
	g, _, _ := newTestGateway(store, false)
	ctx := context.Background()

	g.RecordView(ctx, "ad-1")
	g.RecordView(ctx, "ad-1")
	g.RecordView(ctx, "ad-2")

	if len(store.views) != 2 {
		t.Fatalf("views registered %d times, want 2: %v", len(store.views), store.views)
	}
}

func TestRecordViewFailureNotRetried(t *testing.T) {
	store := &mockStore{viewErr: errors.New("backend down")}
	g, _, _ := newTestGateway(store, false)
	ctx := context.Background()

	g.RecordView(ctx, "ad-1")
	g.RecordView(ctx, "ad-1")

	if len(store.views) != 1 {
		t.Fatalf("failed registration retried, %d calls", len(store.views))
	}
}

func TestShareClipboardSkipsNetwork(t *testing.T) {
	store := &mockStore{toggleCounts: []int{1}}
	g, opener, clip := newTestGateway(store, false)
	item := content.Item{ID: "mp-9", Kind: content.KindMissingPerson, Title: "Have you seen"}

	if err := g.Share(context.Background(), item, ShareClipboard); err != nil {
		t.Fatalf("share: %v", err)
	}
	if len(clip.copied) != 1 || clip.copied[0] != "https://portal.example.org/c/missing_person/mp-9" {
		t.Errorf("copied = %v", clip.copied)
	}
	if store.toggleCalls != 0 {
		t.Error("clipboard share must not record a share interaction")
	}
	if len(opener.opened) != 0 {
		t.Error("clipboard share must not open a browser")
	}
}

func TestShareSocialOpensAndCounts(t *testing.T) {
	store := &mockStore{toggleCounts: []int{5}}
	g, opener, _ := newTestGateway(store, true)
	item := content.Item{ID: "ev-3", Kind: content.KindEvent, Title: "Street fair"}

	if err := g.Share(context.Background(), item, ShareFacebook); err != nil {
		t.Fatalf("share: %v", err)
	}
	if len(opener.opened) != 1 {
		t.Fatalf("opened %d URLs, want 1", len(opener.opened))
	}
	if store.toggleCalls != 1 {
		t.Errorf("share toggles = %d, want 1", store.toggleCalls)
	}
	if got := g.Counters("ev-3")[TypeShare]; got != 5 {
		t.Errorf("share count = %d, want server value 5", got)
	}
}

func TestCalendarRejectsNonEvents(t *testing.T) {
	store := &mockStore{toggleCounts: []int{1}}
	g, opener, _ := newTestGateway(store, true)
	item := content.Item{ID: "ad-1", Kind: content.KindAdvertisement}

	if err := g.AddToCalendar(context.Background(), item); !errors.Is(err, ErrNotEvent) {
		t.Fatalf("err = %v, want ErrNotEvent", err)
	}
	if len(opener.opened) != 0 {
		t.Error("non-event must not open a calendar link")
	}
}

func TestCalendarOpensAndCounts(t *testing.T) {
	store := &mockStore{toggleCounts: []int{3}}
	g, opener, _ := newTestGateway(store, true)
	item := content.Item{
		ID:         "ev-7",
		Kind:       content.KindEvent,
		Title:      "Council meeting",
		EventStart: time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC),
	}

	if err := g.AddToCalendar(context.Background(), item); err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(opener.opened) != 1 {
		t.Fatalf("opened %d URLs, want 1", len(opener.opened))
	}
	if store.toggleCalls != 1 {
		t.Errorf("calendar toggles = %d, want 1", store.toggleCalls)
	}
}

func TestRefreshSkipsFlagsWhenUnauthenticated(t *testing.T) {
	store := &mockStore{counters: Counters{TypeLike: 2}, flags: Flags{TypeLike: true}}
	g, _, _ := newTestGateway(store, false)

	_, flags, err := g.Refresh(context.Background(), content.KindEvent, "e1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if flags[TypeLike] {
		t.Error("unauthenticated refresh must not surface viewer flags")
	}
}

func TestPostCommentRefreshesCount(t *testing.T) {
	store := &mockStore{counters: Counters{TypeComment: 9}}
	g, _, _ := newTestGateway(store, true)
	ctx := context.Background()

	created, err := g.PostComment(ctx, content.KindSurvey, "s2", "looks good")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if created.Text != "looks good" {
		t.Errorf("created.Text = %q", created.Text)
	}
	if got := g.Counters("s2")[TypeComment]; got != 9 {
		t.Errorf("comment count = %d, want server value 9", got)
	}
}

func TestPostCommentRequiresAuth(t *testing.T) {
	store := &mockStore{}
	g, _, _ := newTestGateway(store, false)

	if _, err := g.PostComment(context.Background(), content.KindSurvey, "s2", "hi"); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if len(store.posted) != 0 {
		t.Error("unauthenticated comment must not reach the store")
	}
}

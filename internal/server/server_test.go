package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/interact"
	"github.com/citygate/interstitial/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := httptest.NewServer(New(st).Handler())
	t.Cleanup(func() {
		srv.Close()
		st.Close()
	})
	return srv, st
}

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	_, err := st.SeedItems([]content.Item{
		{ID: "ad-1", Kind: content.KindAdvertisement, Title: "Pool opening", TotalSeconds: 10, MandatorySeconds: 5, Skippable: true, Status: content.StatusActive},
		{ID: "ev-1", Kind: content.KindEvent, Title: "Street fair", TotalSeconds: 8, Status: content.StatusActive, EventStart: time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st)

	catalog := content.NewCatalog(srv.URL, 5*time.Second)
	items, err := catalog.Active(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "ad-1" {
		t.Errorf("first item = %s", items[0].ID)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	client := interact.NewClient(srv.URL, "viewer-1", 5*time.Second)
	ctx := context.Background()

	count, err := client.Toggle(ctx, content.KindEvent, "ev-1", interact.TypeLike)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	count, err = client.Toggle(ctx, content.KindEvent, "ev-1", interact.TypeLike)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if count != 0 {
		t.Errorf("count after untoggle = %d, want 0", count)
	}
}

func TestToggleRequiresBearer(t *testing.T) {
	srv, _ := newTestServer(t)

	client := interact.NewClient(srv.URL, "", 5*time.Second)
	_, err := client.Toggle(context.Background(), content.KindEvent, "ev-1", interact.TypeLike)
	if !errors.Is(err, interact.ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
}

func TestFlagsPerViewer(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	alice := interact.NewClient(srv.URL, "alice", 5*time.Second)
	bob := interact.NewClient(srv.URL, "bob", 5*time.Second)

	if _, err := alice.Toggle(ctx, content.KindSurvey, "s-1", interact.TypeFavorite); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	aliceFlags, err := alice.Flags(ctx, content.KindSurvey, "s-1")
	if err != nil {
		t.Fatalf("alice flags: %v", err)
	}
	if !aliceFlags[interact.TypeFavorite] {
		t.Error("alice's favorite flag should be set")
	}

	bobFlags, err := bob.Flags(ctx, content.KindSurvey, "s-1")
	if err != nil {
		t.Fatalf("bob flags: %v", err)
	}
	if bobFlags[interact.TypeFavorite] {
		t.Error("bob's favorite flag should not be set")
	}
}

func TestCommentFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	client := interact.NewClient(srv.URL, "viewer-1", 5*time.Second)

	created, err := client.PostComment(ctx, content.KindEvent, "ev-1", "see you there")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if created.ID == "" || created.Author != "viewer-1" {
		t.Errorf("created = %+v", created)
	}

	list, err := client.Comments(ctx, content.KindEvent, "ev-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Text != "see you there" {
		t.Errorf("list = %+v", list)
	}

	counters, err := client.Counters(ctx, content.KindEvent, "ev-1")
	if err != nil {
		t.Fatalf("counters: %v", err)
	}
	if counters[interact.TypeComment] != 1 {
		t.Errorf("comment count = %d, want 1", counters[interact.TypeComment])
	}
}

func TestBlankCommentRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	client := interact.NewClient(srv.URL, "viewer-1", 5*time.Second)

	_, err := client.PostComment(context.Background(), content.KindEvent, "ev-1", "   ")
	if !errors.Is(err, interact.ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
}

func TestUnknownKindRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	client := interact.NewClient(srv.URL, "viewer-1", 5*time.Second)

	_, err := client.Counters(context.Background(), content.Kind("billboard"), "x")
	if !errors.Is(err, interact.ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
}

func TestViewRegistration(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st)

	client := interact.NewClient(srv.URL, "", 5*time.Second)
	if err := client.RegisterView(context.Background(), "ad-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
}

package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/citygate/interstitial/internal/config"
	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/interact"
)

// stubStore satisfies interact.Store without a backend.
type stubStore struct{}

func (stubStore) Counters(context.Context, content.Kind, string) (interact.Counters, error) {
	return interact.Counters{}, nil
}
func (stubStore) Flags(context.Context, content.Kind, string) (interact.Flags, error) {
	return interact.Flags{}, nil
}
func (stubStore) Toggle(context.Context, content.Kind, string, interact.Type) (int, error) {
	return 0, nil
}
func (stubStore) RegisterView(context.Context, string) error { return nil }
func (stubStore) Comments(context.Context, content.Kind, string) ([]interact.Comment, error) {
	return nil, nil
}
func (stubStore) PostComment(context.Context, content.Kind, string, string) (interact.Comment, error) {
	return interact.Comment{}, nil
}

type noopOpener struct{}

func (noopOpener) OpenURL(string) error { return nil }

type noopClipboard struct{}

func (noopClipboard) Write(string) error { return nil }

func newTestModel(t *testing.T, authed bool) Model {
	t.Helper()
	return newTestModelWith(t, config.DefaultConfig(), authed)
}

func newTestModelWith(t *testing.T, cfg *config.Config, authed bool) Model {
	t.Helper()
	gateway := interact.NewGateway(stubStore{}, noopOpener{}, noopClipboard{}, "https://portal.example.org", authed)
	catalog := content.NewCatalog("http://127.0.0.1:0", time.Second)
	return NewModel(context.Background(), catalog, gateway, cfg)
}

func TestLoadingView(t *testing.T) {
	m := newTestModel(t, false)
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("initial view should show loading, got %q", m.View())
	}
}

func TestEmptyQueueEndsImmediately(t *testing.T) {
	m := newTestModel(t, false)

	updated, cmd := m.Update(CatalogLoaded{Items: nil})
	m = updated.(Model)

	if cmd != nil {
		t.Error("empty queue must not schedule ticks")
	}
	if !strings.Contains(m.View(), "All caught up") {
		t.Errorf("view = %q", m.View())
	}
}

func TestCatalogFailureStaysQuiet(t *testing.T) {
	m := newTestModel(t, false)

	updated, cmd := m.Update(CatalogLoaded{Err: errors.New("backend unreachable")})
	m = updated.(Model)

	if cmd != nil {
		t.Error("a failed fetch must not start the tick loop")
	}
	view := m.View()
	if strings.Contains(view, "backend unreachable") || strings.Contains(view, "Error") {
		t.Errorf("catalog failures must not be shown to the viewer, got %q", view)
	}
	if !strings.Contains(view, "All caught up") {
		t.Errorf("view should settle on the idle screen, got %q", view)
	}
}

func TestLoadedQueueSchedulesFirstTick(t *testing.T) {
	m := newTestModel(t, false)

	items := []content.Item{{
		ID: "ad-1", Kind: content.KindAdvertisement, Title: "Pool opening",
		TotalSeconds: 10, MandatorySeconds: 5, Skippable: true,
		Status: content.StatusActive,
	}}
	updated, cmd := m.Update(CatalogLoaded{Items: items})
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("a non-empty queue must start the tick loop")
	}
	if !strings.Contains(m.View(), "Next update in") {
		t.Errorf("view should show the pre-display countdown, got %q", m.View())
	}
}

func TestQuitTearsDown(t *testing.T) {
	m := newTestModel(t, false)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce tea.Quit")
	}
}

func TestUnauthenticatedLikePromptsSignIn(t *testing.T) {
	m := newTestModel(t, false)

	items := []content.Item{{
		ID: "ad-1", Kind: content.KindAdvertisement, Title: "Pool opening",
		TotalSeconds: 10, Status: content.StatusActive, Skippable: true,
	}}
	updated, _ := m.Update(CatalogLoaded{Items: items})
	m = updated.(Model)

	m = driveUntilShowing(t, m)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = updated.(Model)

	if !strings.Contains(m.View(), "sign in") {
		t.Errorf("like without a session should prompt sign-in, got %q", m.View())
	}
}

// driveUntilShowing feeds synthetic ticks through Update until an item is
// on screen. The model's tracked epoch stands in for the tea.Tick loop, so
// no wall-clock seconds pass.
func driveUntilShowing(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 10; i++ {
		if m.ctrl.Showing() {
			return m
		}
		updated, _ := m.Update(Tick{Epoch: m.epoch})
		m = updated.(Model)
	}
	if !m.ctrl.Showing() {
		t.Fatal("engine never reached the showing state")
	}
	return m
}

func TestCounterRowFollowsPreference(t *testing.T) {
	items := []content.Item{{
		ID: "ad-1", Kind: content.KindAdvertisement, Title: "Pool opening",
		TotalSeconds: 10, MandatorySeconds: 5, Skippable: true,
		Status: content.StatusActive,
	}}

	m := newTestModel(t, false)
	updated, _ := m.Update(CatalogLoaded{Items: items})
	m = driveUntilShowing(t, updated.(Model))
	if !strings.Contains(m.View(), "likes") {
		t.Errorf("default config should render the counter row, got %q", m.View())
	}

	cfg := config.DefaultConfig()
	cfg.UI.ShowCounters = false
	m = newTestModelWith(t, cfg, false)
	updated, _ = m.Update(CatalogLoaded{Items: items})
	m = driveUntilShowing(t, updated.(Model))
	if strings.Contains(m.View(), "likes") {
		t.Errorf("disabled preference should hide the counter row, got %q", m.View())
	}
}

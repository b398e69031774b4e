package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/citygate/interstitial/internal/comments"
	"github.com/citygate/interstitial/internal/config"
	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/engine"
	"github.com/citygate/interstitial/internal/interact"
	"github.com/citygate/interstitial/internal/logging"
)

// shownQueue collects items the engine put on screen during an Update so
// the model can emit their view-registration and state-refresh commands
// afterwards. Needed because engine callbacks fire while Update runs.
type shownQueue struct {
	items []content.Item
}

func (q *shownQueue) drain() []content.Item {
	out := q.items
	q.items = nil
	return out
}

// Model is the root Bubble Tea model.
// IMPORTANT: Model does NOT talk to the backend directly. It receives
// results via messages; blocking work runs in commands.
type Model struct {
	ctx     context.Context
	ctrl    *engine.Controller
	gateway *interact.Gateway
	catalog *content.Catalog
	panel   *comments.Panel
	shown   *shownQueue

	input textinput.Model
	spin  spinner.Model

	width        int
	height       int
	epoch        int
	showCounters bool
	loading      bool
	shareMenu    bool
	composing    bool
	ended        bool
	notice       string
	err          error
}

// NewModel wires the presentation engine to its collaborators.
func NewModel(ctx context.Context, catalog *content.Catalog, gateway *interact.Gateway, cfg *config.Config) Model {
	shown := &shownQueue{}
	ctrl := engine.New(engine.Config{
		OnShow: func(item content.Item) {
			shown.items = append(shown.items, item)
		},
		FirstItemDelay:    cfg.FirstItemDelay(),
		BetweenItemsDelay: cfg.BetweenItemsDelay(),
	})

	input := textinput.New()
	input.Placeholder = "Write a comment..."
	input.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:          ctx,
		ctrl:         ctrl,
		gateway:      gateway,
		catalog:      catalog,
		panel:        comments.NewPanel(),
		shown:        shown,
		input:        input,
		spin:         sp,
		showCounters: cfg.UI.ShowCounters,
		loading:      true,
	}
}

// Init starts the catalog fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCatalog())
}

// Update handles messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case CatalogLoaded:
		m.loading = false
		if msg.Err != nil {
			// A failed catalog fetch is invisible to the viewer: the
			// session simply never starts.
			logging.Warn("catalog unavailable", "err", msg.Err)
			m.ended = true
			return m, nil
		}
		epoch, ok := m.ctrl.StartSession(msg.Items)
		if !ok {
			m.ended = true
			return m, nil
		}
		m.epoch = epoch
		return m, tickCmd(epoch)

	case Tick:
		next, cont := m.ctrl.Tick(msg.Epoch)
		cmds := m.afterEngineStep()
		if m.ctrl.State() == engine.StateIdle && !cont {
			m.ended = true
		}
		if cont {
			m.epoch = next
			cmds = append(cmds, tickCmd(next))
		}
		return m, tea.Batch(cmds...)

	case ItemState:
		if msg.Err != nil {
			logging.Debug("state refresh failed", "content", msg.ContentID, "err", msg.Err)
		}
		return m, nil

	case ToggleResult:
		if msg.Err != nil {
			m.err = humanize(msg.Err)
			return m, nil
		}
		return m, nil

	case ShareResult:
		if msg.Err != nil {
			m.err = humanize(msg.Err)
			return m, nil
		}
		if msg.Calendar {
			m.notice = "Added to calendar"
		} else if msg.Target == interact.ShareClipboard {
			m.notice = "Link copied"
		} else {
			m.notice = "Share window opened"
		}
		return m, noticeTimeout()

	case CommentsLoaded:
		if msg.Err != nil {
			m.panel.LoadFailed(msg.ContentID)
			m.err = humanize(msg.Err)
			return m, nil
		}
		m.panel.SetComments(msg.ContentID, msg.Comments)
		return m, nil

	case CommentPosted:
		if msg.Err != nil {
			m.err = humanize(msg.Err)
			return m, nil
		}
		if msg.ContentID == m.panel.ContentID() {
			m.panel.Append(msg.Comment)
		}
		m.notice = "Comment posted"
		return m, noticeTimeout()

	case ViewRecorded:
		return m, nil

	case clearNotice:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// afterEngineStep reacts to items the engine just put on screen: reset the
// comment panel, register the view, refresh counters.
func (m *Model) afterEngineStep() []tea.Cmd {
	var cmds []tea.Cmd
	for _, item := range m.shown.drain() {
		item := item
		m.panel.Reset(item.ID)
		m.shareMenu = false
		m.composing = false
		cmds = append(cmds,
			m.recordView(item.ID),
			m.refreshState(item.Kind, item.ID),
		)
	}
	return cmds
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Quit works everywhere, even mid-compose.
	if key == "ctrl+c" {
		m.ctrl.Teardown()
		return m, tea.Quit
	}

	if m.composing {
		return m.handleComposeKey(msg)
	}
	if m.shareMenu {
		return m.handleShareKey(key)
	}

	// Clear any existing error on key press
	if m.err != nil {
		m.err = nil
	}

	switch key {
	case "q":
		m.ctrl.Teardown()
		return m, tea.Quit

	case "d", " ":
		if epoch, ok := m.ctrl.Dismiss(); ok {
			m.panel.Close()
			m.epoch = epoch
			return m, tickCmd(epoch)
		}
		return m, nil

	case "l":
		return m.toggleCurrent(interact.TypeLike)

	case "f":
		return m.toggleCurrent(interact.TypeFavorite)

	case "s":
		if m.ctrl.Showing() {
			m.shareMenu = true
		}
		return m, nil

	case "a":
		item, ok := m.ctrl.Current()
		if !ok || !m.ctrl.Showing() {
			return m, nil
		}
		return m, m.addToCalendar(item)

	case "c":
		if !m.ctrl.Showing() {
			return m, nil
		}
		if m.panel.IsOpen() {
			m.panel.Close()
			return m, nil
		}
		item, ok := m.ctrl.Current()
		if !ok {
			return m, nil
		}
		if m.panel.Open() {
			return m, m.loadComments(item.Kind, item.ID)
		}
		return m, nil

	case "n":
		if !m.ctrl.Showing() || !m.gateway.Authenticated() {
			if m.ctrl.Showing() {
				m.err = errors.New("sign in to comment")
			}
			return m, nil
		}
		item, ok := m.ctrl.Current()
		if !ok {
			return m, nil
		}
		m.composing = true
		m.input.Reset()
		m.input.Focus()
		var loadCmd tea.Cmd
		if !m.panel.IsOpen() && m.panel.Open() {
			loadCmd = m.loadComments(item.Kind, item.ID)
		}
		return m, tea.Batch(textinput.Blink, loadCmd)

	case "esc":
		m.panel.Close()
		return m, nil
	}

	return m, nil
}

// handleComposeKey routes keys while the comment input is focused.
func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composing = false
		m.input.Blur()
		return m, nil

	case "enter":
		item, ok := m.ctrl.Current()
		if !ok {
			m.composing = false
			return m, nil
		}
		text, err := comments.Validate(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.composing = false
		m.input.Blur()
		return m, m.postComment(item.Kind, item.ID, text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleShareKey routes keys while the share menu is open.
func (m Model) handleShareKey(key string) (tea.Model, tea.Cmd) {
	targets := map[string]interact.ShareTarget{
		"1": interact.ShareFacebook,
		"2": interact.ShareTwitter,
		"3": interact.ShareWhatsApp,
		"4": interact.ShareClipboard,
	}
	if target, ok := targets[key]; ok {
		m.shareMenu = false
		item, found := m.ctrl.Current()
		if !found {
			return m, nil
		}
		return m, m.share(item, target)
	}
	if key == "esc" || key == "s" {
		m.shareMenu = false
	}
	return m, nil
}

func (m Model) toggleCurrent(typ interact.Type) (tea.Model, tea.Cmd) {
	item, ok := m.ctrl.Current()
	if !ok || !m.ctrl.Showing() {
		return m, nil
	}
	if !m.gateway.Authenticated() {
		m.err = errors.New("sign in to react to content")
		return m, nil
	}
	return m, m.toggle(item.Kind, item.ID, typ)
}

// humanize maps interaction errors to viewer-facing text.
func humanize(err error) error {
	switch {
	case errors.Is(err, interact.ErrAuthRequired):
		return errors.New("sign in to react to content")
	case errors.Is(err, interact.ErrNotEvent):
		return errors.New("only events can be added to the calendar")
	default:
		return err
	}
}

// Commands

func tickCmd(epoch int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return Tick{Epoch: epoch}
	})
}

func noticeTimeout() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNotice{}
	})
}

func (m Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		items, err := m.catalog.Active(m.ctx)
		return CatalogLoaded{Items: items, Err: err}
	}
}

func (m Model) recordView(id string) tea.Cmd {
	return func() tea.Msg {
		m.gateway.RecordView(m.ctx, id)
		return ViewRecorded{ContentID: id}
	}
}

func (m Model) refreshState(kind content.Kind, id string) tea.Cmd {
	return func() tea.Msg {
		counters, flags, err := m.gateway.Refresh(m.ctx, kind, id)
		return ItemState{ContentID: id, Counters: counters, Flags: flags, Err: err}
	}
}

func (m Model) toggle(kind content.Kind, id string, typ interact.Type) tea.Cmd {
	return func() tea.Msg {
		count, err := m.gateway.Toggle(m.ctx, kind, id, typ)
		return ToggleResult{ContentID: id, Type: typ, Count: count, Err: err}
	}
}

func (m Model) share(item content.Item, target interact.ShareTarget) tea.Cmd {
	return func() tea.Msg {
		err := m.gateway.Share(m.ctx, item, target)
		return ShareResult{Target: target, Err: err}
	}
}

func (m Model) addToCalendar(item content.Item) tea.Cmd {
	return func() tea.Msg {
		err := m.gateway.AddToCalendar(m.ctx, item)
		return ShareResult{Calendar: true, Err: err}
	}
}

func (m Model) loadComments(kind content.Kind, id string) tea.Cmd {
	return func() tea.Msg {
		list, err := m.gateway.Comments(m.ctx, kind, id)
		return CommentsLoaded{ContentID: id, Comments: list, Err: err}
	}
}

func (m Model) postComment(kind content.Kind, id, text string) tea.Cmd {
	return func() tea.Msg {
		created, err := m.gateway.PostComment(m.ctx, kind, id, text)
		return CommentPosted{ContentID: id, Comment: created, Err: err}
	}
}

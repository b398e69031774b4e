package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/engine"
	"github.com/citygate/interstitial/internal/interact"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(MutedStyle.Render(m.spin.View() + " Loading community updates..."))

	case m.ended:
		b.WriteString(MutedStyle.Render("All caught up. Press q to quit."))

	case m.ctrl.State() == engine.StateScheduled:
		b.WriteString(MutedStyle.Render(
			fmt.Sprintf("Next update in %ds...", m.ctrl.DelayRemaining())))

	case m.ctrl.Showing():
		b.WriteString(m.renderCard())

	case m.ctrl.State() == engine.StateClosing:
		// Brief blank pause between items.

	default:
		b.WriteString(MutedStyle.Render("Waiting..."))
	}

	if m.panel.IsOpen() {
		b.WriteString("\n")
		b.WriteString(m.renderComments())
	}
	if m.composing {
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}
	if m.shareMenu {
		b.WriteString("\n")
		b.WriteString(StatusBarText.Render("Share: [1] Facebook  [2] Twitter  [3] WhatsApp  [4] Copy link  [esc] cancel"))
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(NoticeStyle.Render(m.notice))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error() + " (press any key to dismiss)"))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderCard draws the interstitial currently on screen.
func (m Model) renderCard() string {
	item, ok := m.ctrl.Current()
	if !ok {
		return ""
	}

	var lines []string

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		KindBadge(item.Kind).Render(kindLabel(item.Kind)),
		" ",
		TitleStyle.Render(item.Title),
	)
	lines = append(lines, header, "")

	if item.Body != "" {
		lines = append(lines, BodyStyle.Render(item.Body), "")
	}
	if item.HasMedia() {
		lines = append(lines, StatusBarText.Render("[media] "+item.MediaURL), "")
	}

	if m.ctrl.Dismissible() {
		lines = append(lines, CountdownStyle.Render(
			fmt.Sprintf("Closes in %ds", m.ctrl.TotalRemaining())))
	} else {
		lines = append(lines, LockedStyle.Render(
			fmt.Sprintf("Dismissible in %ds", m.ctrl.MandatoryRemaining())))
	}

	if m.showCounters {
		lines = append(lines, "", m.renderCounters(item.ID))
	}

	card := Card.Render(strings.Join(lines, "\n"))
	position := StatusBarText.Render(
		fmt.Sprintf(" %d of %d", m.ctrl.Cursor()+1, m.ctrl.QueueLen()))
	return card + "\n" + position
}

// renderCounters draws the interaction row from the gateway's cache.
func (m Model) renderCounters(id string) string {
	counters := m.gateway.Counters(id)
	flags := m.gateway.Flags(id)

	labels := map[interact.Type]string{
		interact.TypeLike:     "likes",
		interact.TypeFavorite: "favorites",
		interact.TypeComment:  "comments",
		interact.TypeShare:    "shares",
		interact.TypeCalendar: "saved",
	}

	var parts []string
	for _, typ := range interact.Types {
		text := fmt.Sprintf("%d %s", counters[typ], labels[typ])
		if flags[typ] {
			parts = append(parts, CounterActive.Render(text))
		} else {
			parts = append(parts, CounterStyle.Render(text))
		}
	}
	return strings.Join(parts, CounterStyle.Render("  ·  "))
}

// renderComments draws the comment panel.
func (m Model) renderComments() string {
	var b strings.Builder
	b.WriteString(PanelHeader.Render("Comments"))
	b.WriteString("\n")

	if m.panel.Loading() {
		b.WriteString(MutedStyle.Render("Loading comments..."))
		return b.String()
	}

	list := m.panel.Comments()
	if len(list) == 0 {
		b.WriteString(MutedStyle.Render("No comments yet."))
		return b.String()
	}

	for _, c := range list {
		b.WriteString("  ")
		b.WriteString(CommentAuthor.Render(c.Author))
		b.WriteString(" ")
		b.WriteString(CommentText.Render(c.Text))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStatusBar draws the key hints.
func (m Model) renderStatusBar() string {
	hint := func(key, desc string) string {
		return StatusBarKey.Render(key) + StatusBarText.Render(" "+desc)
	}

	var hints []string
	if m.ctrl.Dismissible() {
		hints = append(hints, hint("d", "dismiss"))
	}
	if m.ctrl.Showing() {
		hints = append(hints,
			hint("l", "like"),
			hint("f", "favorite"),
			hint("c", "comments"),
			hint("n", "comment"),
			hint("s", "share"),
			hint("a", "calendar"),
		)
	}
	hints = append(hints, hint("q", "quit"))

	bar := strings.Join(hints, StatusBarText.Render("  "))
	if m.width > 0 {
		return StatusBar.Width(m.width).Render(bar)
	}
	return StatusBar.Render(bar)
}

func kindLabel(kind content.Kind) string {
	return strings.ToUpper(strings.ReplaceAll(string(kind), "_", " "))
}

package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/citygate/interstitial/internal/content"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
)

// kindColors gives each content kind its badge color.
var kindColors = map[content.Kind]lipgloss.Color{
	content.KindAdvertisement: colorPrimary,
	content.KindMissingPerson: lipgloss.Color("196"), // Red
	content.KindMissingPet:    colorWarning,
	content.KindEvent:         colorSuccess,
	content.KindSurvey:        lipgloss.Color("39"), // Blue
}

// KindBadge style for the content kind label.
func KindBadge(kind content.Kind) lipgloss.Style {
	color, ok := kindColors[kind]
	if !ok {
		color = colorSecondary
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(color).
		Padding(0, 1)
}

// Card style for the interstitial frame.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// TitleStyle for the item title.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// BodyStyle for the item body text.
var BodyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// CountdownStyle for the per-second countdown line.
var CountdownStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// LockedStyle for the not-yet-dismissible indicator.
var LockedStyle = lipgloss.NewStyle().
	Foreground(colorWarning)

// CounterStyle for the interaction counter row.
var CounterStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

// CounterActive for counters whose flag this viewer has set.
var CounterActive = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// NoticeStyle for transient confirmations.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// PanelHeader for the comments panel title.
var PanelHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// CommentAuthor for comment author names.
var CommentAuthor = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// CommentText for comment bodies.
var CommentText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// MutedStyle for waiting and idle screens.
var MutedStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

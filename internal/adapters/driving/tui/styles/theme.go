// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// Theme is the palette, by role. Each colour adapts to light and dark
// terminal backgrounds.
type Theme struct {
	Accent    lipgloss.AdaptiveColor // titles, selection
	Highlight lipgloss.AdaptiveColor // questions, subtitles
	Text      lipgloss.AdaptiveColor
	Dim       lipgloss.AdaptiveColor // hints, help, secondary text
	Good      lipgloss.AdaptiveColor
	Caution   lipgloss.AdaptiveColor
	Bad       lipgloss.AdaptiveColor
	Frame     lipgloss.AdaptiveColor // borders
	Bar       lipgloss.AdaptiveColor // status bar background
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"},
		Text:      lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"},
		Dim:       lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Good:      lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
		Caution:   lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"},
		Bad:       lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"},
		Frame:     lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"},
		Bar:       lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"},
	}
}

// Styles are the rendering styles the views share.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	Question lipgloss.Style
	Answer   lipgloss.Style // indented under its question
	Result   lipgloss.Style // frames the optimised prompt

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func framed(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c)
}

// NewStyles builds the styles for theme, or the default theme if nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    fg(theme.Accent).Bold(true).MarginBottom(1),
		Subtitle: fg(theme.Highlight).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Selected: fg(theme.Accent).Bold(true).PaddingLeft(1),
		Error:    fg(theme.Bad),
		Success:  fg(theme.Good),
		Warning:  fg(theme.Caution),

		Question: fg(theme.Highlight).Bold(true),
		Answer:   fg(theme.Text).PaddingLeft(3),
		Result:   framed(theme.Good).Padding(0, 1),

		InputField: framed(theme.Frame).Padding(0, 1),
		StatusBar:  fg(theme.Dim).Background(theme.Bar).Padding(0, 1),
		Help:       fg(theme.Dim).Italic(true),
		Border:     framed(theme.Frame),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// ForKind returns the style an error of the given kind is rendered in.
// Input problems are the user's to fix and render as warnings.
func (s *Styles) ForKind(kind domain.ErrorKind) lipgloss.Style {
	switch kind {
	case domain.KindValidation, domain.KindSetup:
		return s.Warning
	default:
		return s.Error
	}
}

// Package status draws the one-line bar under every view: what the app is
// doing on the left, the keys that apply on the right.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// State is what the left side reports.
type State string

const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar is the status line. It is driven by its setters, not by messages.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	help    help.Model
	state   State
	message string
	kind    domain.ErrorKind
	hints   []key.Binding
	width   int
}

// NewBar creates a bar in the ready state. Nil arguments take the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = s.Muted.Bold(true)
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted

	return &Bar{styles: s, keymap: km, help: h, state: StateReady, width: 80}
}

func (s *Bar) Init() tea.Cmd { return nil }

func (s *Bar) Update(tea.Msg) (*Bar, tea.Cmd) { return s, nil }

// View renders the bar at its full width.
func (s *Bar) View() string {
	left, right := s.status(), s.keys()
	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	text, style := s.message, s.styles.Normal
	switch s.state {
	case StateWorking:
		style = s.styles.Muted
		if text == "" {
			text = "Working..."
		}
	case StateError:
		style = s.styles.ForKind(s.kind)
		text = "Error"
		if s.message != "" {
			text += ": " + s.message
		}
	case StateHelp:
		text = "Help"
	}
	if text == "" {
		return s.styles.Muted.Render("Ready")
	}
	return style.Render(text)
}

func (s *Bar) keys() string {
	bindings := s.hints
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
	}
	return s.help.ShortHelpView(bindings)
}

func (s *Bar) SetState(state State) { s.state = state }
func (s *Bar) State() State { return s.state }

func (s *Bar) SetMessage(message string) { s.message = message }
func (s *Bar) Message() string { return s.message }

// SetError reports a failed operation.
func (s *Bar) SetError(kind domain.ErrorKind, message string) {
	s.state, s.kind, s.message = StateError, kind, message
}

// Kind is the kind of the error being shown.
func (s *Bar) Kind() domain.ErrorKind { return s.kind }

// SetHints replaces the key hints. Nil restores the defaults.
func (s *Bar) SetHints(bindings []key.Binding) { s.hints = bindings }

func (s *Bar) SetWidth(width int) { s.width = width }
func (s *Bar) Width() int { return s.width }

// Clear returns to the ready state.
func (s *Bar) Clear() {
	s.state, s.message, s.kind = StateReady, "", ""
}

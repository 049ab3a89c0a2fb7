// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
)

// AnswerInput is a single-line input for answering one clarifying question.
type AnswerInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewAnswerInput creates a new answer input component.
func NewAnswerInput(s *styles.Styles) *AnswerInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Type your answer..."
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 50

	return &AnswerInput{
		textinput: ti,
		styles:    s,
		label:     "Answer: ",
		width:     50,
	}
}

// Init initialises the input.
func (a *AnswerInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (a *AnswerInput) Update(msg tea.Msg) (*AnswerInput, tea.Cmd) {
	var cmd tea.Cmd
	a.textinput, cmd = a.textinput.Update(msg)
	return a, cmd
}

// View renders the input.
func (a *AnswerInput) View() string {
	label := a.styles.Subtitle.Render(a.label)
	field := a.styles.InputField.Render(a.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// SetLabel sets the text shown before the field.
func (a *AnswerInput) SetLabel(label string) {
	a.label = label
}

// Label returns the text shown before the field.
func (a *AnswerInput) Label() string {
	return a.label
}

// Value returns the current input value.
func (a *AnswerInput) Value() string {
	return a.textinput.Value()
}

// SetValue sets the input value.
func (a *AnswerInput) SetValue(value string) {
	a.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (a *AnswerInput) Focus() tea.Cmd {
	return a.textinput.Focus()
}

// Blur removes focus from the input.
func (a *AnswerInput) Blur() {
	a.textinput.Blur()
}

// Focused returns whether the input is focused.
func (a *AnswerInput) Focused() bool {
	return a.textinput.Focused()
}

// SetWidth sets the width of the input.
func (a *AnswerInput) SetWidth(width int) {
	a.width = width
	// Account for label and padding
	inputWidth := width - lipgloss.Width(a.label) - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	a.textinput.Width = inputWidth
}

// Width returns the current width.
func (a *AnswerInput) Width() int {
	return a.width
}

// Reset clears the input.
func (a *AnswerInput) Reset() {
	a.textinput.Reset()
}

// Package refine provides the prompt refinement view for the TUI.
//
// The view walks one refinement cycle: the prompt is edited and submitted,
// each clarifying question is answered in turn, and the optimised prompt is
// shown. Adopting the result loads it back into the editor as a template.
package refine

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/boundary"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// Mode is the step of the cycle the view is showing.
type Mode int

const (
	ModeEditing Mode = iota
	ModeAwaitingQuestions
	ModeAnswering
	ModeAwaitingResult
	ModeResult
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeAwaitingQuestions:
		return "awaiting_questions"
	case ModeAnswering:
		return "answering"
	case ModeAwaitingResult:
		return "awaiting_result"
	case ModeResult:
		return "result"
	default:
		return "unknown"
	}
}

// View is the prompt refinement view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	editor  textarea.Model
	answer  *input.AnswerInput
	spinner spinner.Model

	mode         Mode
	prompt       string
	questions    []string
	answers      []string
	optimized    string
	improvements string
	notice       string
	errMsg       string
	errKind      domain.ErrorKind

	width  int
	height int
	ready  bool
}

// NewView creates a new refinement view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	editor := textarea.New()
	editor.Placeholder = "Describe what you want the model to do..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetWidth(76)
	editor.SetHeight(8)
	editor.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:  s,
		keymap:  km,
		editor:  editor,
		answer:  input.NewAnswerInput(s),
		spinner: sp,
		mode:    ModeEditing,
		width:   80,
		height:  24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the refinement view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.waiting() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.OutboundReceived:
		return v.handleOutbound(msg.Message)

	case tea.KeyMsg:
		switch v.mode {
		case ModeEditing:
			return v.handleEditingKey(msg)
		case ModeAnswering:
			return v.handleAnsweringKey(msg)
		case ModeResult:
			return v.handleResultKey(msg)
		case ModeAwaitingQuestions, ModeAwaitingResult:
			if msg.Type == tea.KeyEsc {
				return v, backToMenu
			}
		}
		return v, nil
	}

	if v.mode == ModeEditing {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleEditingKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, backToMenu
	case key.Matches(msg, v.keymap.Submit):
		v.mode = ModeAwaitingQuestions
		v.clearFeedback()
		return v, tea.Batch(
			send(boundary.Inbound{Type: boundary.TypeOptimizePrompt, Prompt: v.editor.Value()}),
			v.spinner.Tick,
		)
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) handleAnsweringKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only enter and esc change the step
	switch msg.Type {
	case tea.KeyEnter:
		v.answers = append(v.answers, strings.TrimSpace(v.answer.Value()))
		v.answer.Reset()
		if len(v.answers) < len(v.questions) {
			v.labelAnswer()
			return v, nil
		}
		v.mode = ModeAwaitingResult
		v.clearFeedback()
		responses := make([]string, len(v.answers))
		copy(responses, v.answers)
		return v, tea.Batch(
			send(boundary.Inbound{Type: boundary.TypeSubmitResponses, Responses: responses}),
			v.spinner.Tick,
		)

	case tea.KeyEsc:
		if len(v.answers) == 0 {
			v.mode = ModeEditing
			return v, v.editor.Focus()
		}
		v.reopenLastAnswer()
		return v, nil
	}

	var cmd tea.Cmd
	v.answer, cmd = v.answer.Update(msg)
	return v, cmd
}

func (v *View) handleResultKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, backToMenu
	case key.Matches(msg, v.keymap.Adopt):
		v.clearFeedback()
		return v, send(boundary.Inbound{Type: boundary.TypeAdoptTemplate})
	case key.Matches(msg, v.keymap.NewPrompt):
		v.Reset()
		return v, v.editor.Focus()
	}
	return v, nil
}

func (v *View) handleOutbound(out boundary.Outbound) (*View, tea.Cmd) {
	switch out.Type {
	case boundary.TypeClarifyingQuestions:
		v.prompt = out.OriginalPrompt
		v.questions = out.Questions
		v.answers = nil
		v.answer.Reset()
		if len(v.questions) == 0 {
			v.mode = ModeEditing
			v.notice = "The optimiser returned no clarifying questions."
			return v, v.editor.Focus()
		}
		v.mode = ModeAnswering
		v.labelAnswer()
		return v, v.answer.Focus()

	case boundary.TypeOptimizedPrompt:
		v.mode = ModeResult
		v.optimized = out.OptimizedPrompt
		v.improvements = out.KeyImprovements
		return v, nil

	case boundary.TypeTemplateAdopted:
		v.Reset()
		v.editor.SetValue(out.Template)
		v.notice = "Template loaded. Edit it and press ctrl+s to optimise again."
		return v, v.editor.Focus()

	case boundary.TypeError:
		v.errMsg = out.Message
		v.errKind = out.Kind
		switch v.mode {
		case ModeAwaitingQuestions:
			v.mode = ModeEditing
			return v, v.editor.Focus()
		case ModeAwaitingResult:
			v.mode = ModeAnswering
			v.reopenLastAnswer()
			return v, v.answer.Focus()
		case ModeEditing, ModeAnswering, ModeResult:
		}
	}
	return v, nil
}

// reopenLastAnswer moves the last recorded answer back into the input.
func (v *View) reopenLastAnswer() {
	if len(v.answers) == 0 {
		return
	}
	last := v.answers[len(v.answers)-1]
	v.answers = v.answers[:len(v.answers)-1]
	v.labelAnswer()
	v.answer.SetValue(last)
}

func (v *View) labelAnswer() {
	v.answer.SetLabel(fmt.Sprintf("A%d: ", len(v.answers)+1))
	v.answer.SetWidth(v.width)
}

func (v *View) waiting() bool {
	return v.mode == ModeAwaitingQuestions || v.mode == ModeAwaitingResult
}

func (v *View) clearFeedback() {
	v.notice = ""
	v.errMsg = ""
	v.errKind = ""
}

// View renders the refinement view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Refine a prompt"))
	b.WriteString("\n\n")

	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}
	if v.errMsg != "" {
		b.WriteString(v.styles.ForKind(v.errKind).Render("Error: " + v.errMsg))
		b.WriteString("\n\n")
	}

	switch v.mode {
	case ModeEditing:
		b.WriteString(v.editor.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[ctrl+s] optimise  [esc] back"))

	case ModeAwaitingQuestions:
		b.WriteString(v.spinner.View() + " Asking for clarifying questions...")

	case ModeAnswering:
		b.WriteString(v.renderQuestions())
		b.WriteString("\n")
		b.WriteString(v.answer.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render(fmt.Sprintf(
			"[enter] answer %d of %d  [esc] previous", len(v.answers)+1, len(v.questions))))

	case ModeAwaitingResult:
		b.WriteString(v.renderQuestions())
		b.WriteString("\n")
		b.WriteString(v.spinner.View() + " Optimising prompt...")

	case ModeResult:
		b.WriteString(v.styles.Subtitle.Render("Optimised prompt"))
		b.WriteString("\n")
		b.WriteString(v.styles.Result.Width(v.contentWidth()).Render(v.optimized))
		if v.improvements != "" {
			b.WriteString("\n\n")
			b.WriteString(v.styles.Subtitle.Render("Key improvements"))
			b.WriteString("\n")
			b.WriteString(v.styles.Normal.Render(v.improvements))
		}
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[a] adopt as template  [n] new prompt  [esc] back"))
	}

	return b.String()
}

func (v *View) renderQuestions() string {
	var b strings.Builder
	b.WriteString(v.styles.Muted.Render("Prompt: " + v.prompt))
	b.WriteString("\n\n")
	for i, q := range v.questions {
		b.WriteString(v.styles.Question.Render(fmt.Sprintf("%d. %s", i+1, q)))
		b.WriteString("\n")
		if i < len(v.answers) {
			b.WriteString(v.styles.Answer.Render(v.answers[i]))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (v *View) contentWidth() int {
	if v.width < 24 {
		return 20
	}
	return v.width - 4
}

func send(in boundary.Inbound) tea.Cmd {
	return func() tea.Msg {
		return messages.Send{Inbound: in}
	}
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

// Reset clears the cycle and empties the editor.
func (v *View) Reset() {
	v.mode = ModeEditing
	v.prompt = ""
	v.questions = nil
	v.answers = nil
	v.optimized = ""
	v.improvements = ""
	v.clearFeedback()
	v.editor.Reset()
	v.answer.Reset()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.editor.SetWidth(v.contentWidth())
	if height > 16 {
		v.editor.SetHeight(height - 12)
	}
	v.answer.SetWidth(width)
}

// Mode returns the current step.
func (v *View) Mode() Mode {
	return v.mode
}

// Prompt returns the prompt the current questions belong to.
func (v *View) Prompt() string {
	return v.prompt
}

// Questions returns the clarifying questions.
func (v *View) Questions() []string {
	return v.questions
}

// Answers returns the answers recorded so far.
func (v *View) Answers() []string {
	return v.answers
}

// Optimized returns the optimised prompt and its key improvements.
func (v *View) Optimized() (string, string) {
	return v.optimized, v.improvements
}

// EditorValue returns the text in the prompt editor.
func (v *View) EditorValue() string {
	return v.editor.Value()
}

// SetEditorValue replaces the text in the prompt editor.
func (v *View) SetEditorValue(s string) {
	v.editor.SetValue(s)
}

// Notice returns the informational message being shown.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the message and kind of the last failed operation.
func (v *View) Err() (string, domain.ErrorKind) {
	return v.errMsg, v.errKind
}

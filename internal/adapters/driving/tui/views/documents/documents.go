// Package documents lists the documents stored in the RAG collection and
// offers per-document actions.
package documents

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/boundary"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/components/cursor"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// chromeRows is the space taken by the title, error line and footer.
const chromeRows = 8

type mode int

const (
	modeList mode = iota
	modeActions
	modeConfirm
)

type action struct {
	label string
	run   func(v *View, doc domain.DocumentRecord) tea.Cmd
}

// actions are offered for the selected document, in order. The last one
// only closes the menu.
var actions = []action{
	{"View chunks", func(_ *View, doc domain.DocumentRecord) tea.Cmd {
		return func() tea.Msg { return messages.DocumentSelected{DocumentID: doc.ID, Name: doc.Name} }
	}},
	{"Delete", func(v *View, _ domain.DocumentRecord) tea.Cmd {
		v.mode = modeConfirm
		return nil
	}},
	{"Cancel", nil},
}

// View is the document listing.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	docs    []domain.DocumentRecord
	list    cursor.Window
	mode    mode
	choice  int
	width   int
	ready   bool
	loading bool
	errMsg  string
	errKind domain.ErrorKind
}

// NewView creates the listing. Nil arguments take the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keys: km, docs: []domain.DocumentRecord{}}
}

func (v *View) Init() tea.Cmd { return nil }

// Load asks for the listing.
func (v *View) Load() tea.Cmd {
	return v.send(boundary.Inbound{Type: boundary.TypeViewDocuments})
}

// Refresh asks for the listing with the view cache cleared.
func (v *View) Refresh() tea.Cmd {
	return v.send(boundary.Inbound{Type: boundary.TypeRefreshDocuments})
}

func (v *View) send(in boundary.Inbound) tea.Cmd {
	v.loading = true
	v.mode = modeList
	v.errMsg, v.errKind = "", ""
	return func() tea.Msg { return messages.Send{Inbound: in} }
}

func (v *View) fail(msg string, kind domain.ErrorKind) {
	v.loading = false
	v.errMsg, v.errKind = msg, kind
}

// Update handles keys and replies from the boundary.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch v.mode {
		case modeConfirm:
			return v, v.confirm(msg)
		case modeActions:
			return v, v.pick(msg)
		default:
			return v, v.browse(msg)
		}

	case messages.OutboundReceived:
		switch out := msg.Message; out.Type {
		case boundary.TypeDocumentsLoaded:
			v.loading = false
			v.docs = out.Documents
			if v.docs == nil {
				v.docs = []domain.DocumentRecord{}
			}
			v.list.Clamp(len(v.docs))
		case boundary.TypeError:
			v.fail(out.Message, out.Kind)
		}

	case messages.ErrorOccurred:
		v.fail(msg.Err.Error(), domain.KindOf(msg.Err))
	}
	return v, nil
}

func (v *View) browse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.list.Move(-1, len(v.docs))
	case key.Matches(msg, v.keys.Down):
		v.list.Move(1, len(v.docs))
	case key.Matches(msg, v.keys.Select):
		if len(v.docs) > 0 {
			v.mode, v.choice = modeActions, 0
		}
	case key.Matches(msg, v.keys.Delete):
		if len(v.docs) > 0 {
			v.mode = modeConfirm
		}
	case key.Matches(msg, v.keys.Refresh):
		return v.Refresh()
	case key.Matches(msg, v.keys.Back):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}
	return nil
}

func (v *View) pick(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.choice = max(v.choice-1, 0)
	case key.Matches(msg, v.keys.Down):
		v.choice = min(v.choice+1, len(actions)-1)
	case key.Matches(msg, v.keys.Back):
		v.mode = modeList
	case key.Matches(msg, v.keys.Select):
		v.mode = modeList
		doc := v.SelectedDocument()
		if run := actions[v.choice].run; run != nil && doc != nil {
			return run(v, *doc)
		}
	}
	return nil
}

func (v *View) confirm(msg tea.KeyMsg) tea.Cmd {
	v.mode = modeList
	doc := v.SelectedDocument()
	if msg.String() != "y" || doc == nil {
		return nil
	}
	return v.send(boundary.Inbound{Type: boundary.TypeDeleteDocument, DocumentID: doc.ID})
}

// View renders the listing, or the action menu or delete prompt over it.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.docs))))
	b.WriteString("\n\n")
	if v.errMsg != "" {
		b.WriteString(v.styles.ForKind(v.errKind).Render("Error: "+v.errMsg) + "\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.mode == modeConfirm:
		name := ""
		if doc := v.SelectedDocument(); doc != nil {
			name = doc.Name
		}
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %q and all its chunks? [y/N]", name)))
		return b.String()
	case v.mode == modeActions:
		v.writeActions(&b)
		return b.String()
	case len(v.docs) == 0:
		b.WriteString(v.styles.Muted.Render("No documents stored."))
	default:
		v.writeRows(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [d] delete  [r] refresh  [esc] back"))
	return b.String()
}

func (v *View) writeRows(b *strings.Builder) {
	nameWidth := max(v.width/2-4, 10)
	from, to := v.list.Span(len(v.docs))
	for i := from; i < to; i++ {
		if i > from {
			b.WriteString("\n")
		}
		doc := v.docs[i]
		name := doc.Name
		if name == "" {
			name = doc.ID
		}
		if r := []rune(name); len(r) > nameWidth {
			name = string(r[:nameWidth-3]) + "..."
		}
		if i == v.list.Index() {
			b.WriteString(v.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", nameWidth, name, doc.ID)))
			continue
		}
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  %-*s  ", nameWidth, name)) + v.styles.Muted.Render(doc.ID))
	}
	if footer := v.list.Footer(len(v.docs)); footer != "" {
		b.WriteString("\n\n" + v.styles.Muted.Render("  "+footer))
	}
}

func (v *View) writeActions(b *strings.Builder) {
	if doc := v.SelectedDocument(); doc != nil {
		b.WriteString(v.styles.Subtitle.Render("Actions for: "+doc.Name) + "\n\n")
	}
	for i, a := range actions {
		if i == v.choice {
			b.WriteString(v.styles.Selected.Render("> "+a.label) + "\n")
		} else {
			b.WriteString(v.styles.Normal.Render("  "+a.label) + "\n")
		}
	}
	b.WriteString("\n" + v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
}

// SetDimensions resizes the listing.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.list.SetRows(height - chromeRows)
	v.list.Clamp(len(v.docs))
	v.ready = true
}

// Documents returns the loaded listing.
func (v *View) Documents() []domain.DocumentRecord { return v.docs }

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int { return v.list.Index() }

// SelectedDocument returns the document under the cursor, if any.
func (v *View) SelectedDocument() *domain.DocumentRecord {
	if i := v.list.Index(); i < len(v.docs) {
		return &v.docs[i]
	}
	return nil
}

// IsShowingMenu reports whether the action menu is open.
func (v *View) IsShowingMenu() bool { return v.mode == modeActions }

// IsConfirmingDelete reports whether a delete awaits y/N.
func (v *View) IsConfirmingDelete() bool { return v.mode == modeConfirm }

// Loading reports whether a request is outstanding.
func (v *View) Loading() bool { return v.loading }

// Err returns the message and kind of the last failure.
func (v *View) Err() (string, domain.ErrorKind) { return v.errMsg, v.errKind }

// Package chunks provides the view listing the stored chunks of a document.
package chunks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/boundary"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/components/cursor"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// previewRunes is how much of a collapsed chunk is shown.
const previewRunes = 120

// A collapsed chunk takes a header line and a preview line.
const (
	chromeRows = 6
	chunkRows  = 2
)

// View lists the chunks of one document. The selected chunk can be
// expanded to its full content.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	documentID    string
	name          string
	chunks        []domain.ChunkRecord
	list          cursor.Window
	expanded      bool
	confirmDelete bool
	loading       bool
	errMsg        string
	errKind       domain.ErrorKind
	width         int
	height        int
	ready         bool
}

// NewView creates the chunk listing. Nil arguments take the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{styles: s, keys: km, width: 80, height: 24}
	v.list.SetRows((v.height - chromeRows) / chunkRows)
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetDocument switches to a document and asks for its chunks.
func (v *View) SetDocument(documentID, name string) tea.Cmd {
	v.documentID = documentID
	v.name = name
	v.chunks = nil
	v.list.Reset()
	v.expanded = false
	v.confirmDelete = false
	return v.request(boundary.Inbound{Type: boundary.TypeViewDocumentChunks, DocumentID: documentID})
}

func (v *View) request(in boundary.Inbound) tea.Cmd {
	v.loading = true
	v.errMsg = ""
	v.errKind = ""
	return func() tea.Msg {
		return messages.Send{Inbound: in}
	}
}

// Update handles messages for the chunks view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirmDelete {
			return v.handleConfirmKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.OutboundReceived:
		v.handleOutbound(msg.Message)
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.errMsg = msg.Err.Error()
		v.errKind = domain.KindOf(msg.Err)
		return v, nil
	}
	return v, nil
}

func (v *View) handleOutbound(out boundary.Outbound) {
	switch out.Type {
	case boundary.TypeChunksLoaded:
		// A listing for another document is a late reply to a view the
		// user already left.
		if out.DocumentID != v.documentID {
			return
		}
		v.loading = false
		v.chunks = out.Chunks
		v.clampSelection()

	case boundary.TypeChunkDeleted:
		v.loading = false
		for i, c := range v.chunks {
			if c.ID == out.ChunkID {
				v.chunks = append(v.chunks[:i], v.chunks[i+1:]...)
				break
			}
		}
		v.clampSelection()

	case boundary.TypeError:
		v.loading = false
		v.errMsg = out.Message
		v.errKind = out.Kind
	}
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.list.Move(-1, len(v.chunks)) {
			v.expanded = false
		}
	case key.Matches(msg, v.keys.Down):
		if v.list.Move(1, len(v.chunks)) {
			v.expanded = false
		}
	case key.Matches(msg, v.keys.Select):
		v.expanded = !v.expanded
	case key.Matches(msg, v.keys.Delete):
		if len(v.chunks) > 0 {
			v.confirmDelete = true
		}
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}
	return v, nil
}

func (v *View) handleConfirmKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirmDelete = false
	if msg.String() != "y" {
		return v, nil
	}
	chunk := v.SelectedChunk()
	if chunk == nil {
		return v, nil
	}
	return v, v.request(boundary.Inbound{Type: boundary.TypeDeleteChunk, ChunkID: chunk.ID})
}

func (v *View) clampSelection() {
	v.list.Clamp(len(v.chunks))
}

// View renders the chunks view.
func (v *View) View() string {
	var b strings.Builder

	title := v.name
	if title == "" {
		title = v.documentID
	}
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Chunks - %s (%d)", title, len(v.chunks))))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(v.styles.ForKind(v.errKind).Render("Error: " + v.errMsg))
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading chunks..."))
	case len(v.chunks) == 0:
		b.WriteString(v.styles.Muted.Render("No chunks stored for this document."))
	default:
		from, to := v.list.Span(len(v.chunks))
		for i := from; i < to; i++ {
			b.WriteString(v.renderChunk(i, &v.chunks[i]))
			b.WriteString("\n")
		}
		if footer := v.list.Footer(len(v.chunks)); footer != "" {
			b.WriteString(v.styles.Muted.Render("  "+footer) + "\n")
		}
	}

	b.WriteString("\n")
	if v.confirmDelete {
		if c := v.SelectedChunk(); c != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete chunk %s? [y/N]", c.ID)))
		}
		return b.String()
	}
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] expand  [d] delete  [esc] back"))
	return b.String()
}

func (v *View) renderChunk(index int, chunk *domain.ChunkRecord) string {
	header := fmt.Sprintf("  %s", chunk.ID)
	if index == v.list.Index() {
		header = v.styles.Selected.Render(fmt.Sprintf("> %s", chunk.ID))
	} else {
		header = v.styles.Subtitle.Render(header)
	}

	var body string
	if index == v.list.Index() && v.expanded {
		body = lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(chunk.Content)
		if meta := formatMetadata(chunk.Metadata); meta != "" {
			body += "\n" + v.styles.Muted.Render(meta)
		}
	} else {
		body = v.styles.Normal.Render(Preview(chunk.Content, previewRunes))
	}

	return header + "\n" + lipgloss.NewStyle().PaddingLeft(4).Render(body)
}

func formatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, meta[k])
	}
	return strings.Join(parts, "  ")
}

// Preview collapses whitespace and truncates s to n runes.
func Preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetRows((height - chromeRows) / chunkRows)
	v.list.Clamp(len(v.chunks))
	v.ready = true
}

// DocumentID returns the document whose chunks are shown.
func (v *View) DocumentID() string {
	return v.documentID
}

// Chunks returns the loaded chunks.
func (v *View) Chunks() []domain.ChunkRecord {
	return v.chunks
}

// SelectedChunk returns the currently selected chunk.
func (v *View) SelectedChunk() *domain.ChunkRecord {
	if i := v.list.Index(); i < len(v.chunks) {
		return &v.chunks[i]
	}
	return nil
}

// Expanded returns true when the selected chunk shows its full content.
func (v *View) Expanded() bool {
	return v.expanded
}

// Loading returns true while a request is outstanding.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the message and kind of the last failed operation.
func (v *View) Err() (string, domain.ErrorKind) {
	return v.errMsg, v.errKind
}

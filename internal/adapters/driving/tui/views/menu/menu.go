// Package menu is the start screen: a short list of what the TUI can do.
package menu

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
)

// Item is one entry of the menu. An item with Quit set exits the app
// instead of switching view.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

// DefaultItems are the entries shown on the start screen, in order.
func DefaultItems() []Item {
	return []Item{
		{Label: "Refine a prompt", Description: "answer clarifying questions, get an optimised prompt", View: messages.ViewRefine},
		{Label: "Browse documents", Description: "list, inspect and delete stored documents", View: messages.ViewDocuments},
		{Label: "Help", Description: "keys and workflow", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View is the start screen.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	items  []Item
	cursor int
	width  int
	ready  bool
}

// NewView creates the menu. Nil arguments take the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keys: km, items: DefaultItems(), width: 80}
}

// Init implements the view contract; the menu has nothing to start.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or chooses an item. Digits choose directly.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case key.Matches(msg, v.keys.Up):
			v.cursor = max(v.cursor-1, 0)
		case key.Matches(msg, v.keys.Down):
			v.cursor = min(v.cursor+1, len(v.items)-1)
		case key.Matches(msg, v.keys.Select):
			return v, v.choose(v.cursor)
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		default:
			if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(v.items) {
				v.cursor = n - 1
				return v, v.choose(v.cursor)
			}
		}
	}
	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg { return messages.ViewChanged{View: item.View} }
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Artisan"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Prompt refinement and RAG document management"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := strconv.Itoa(i+1) + ". " + item.Label
		if i == v.cursor {
			b.WriteString("> " + v.styles.Subtitle.Render(label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		if item.Description != "" && v.width >= 60 {
			b.WriteString("  " + v.styles.Muted.Render(item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] move  [1-" + strconv.Itoa(len(v.items)) + "/enter] choose  [q] quit"))
	return b.String()
}

// SetDimensions sets the view width. Narrow terminals drop the descriptions.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	v.ready = true
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.cursor
}

package status

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
	assert.Nil(t, bar.Init())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Bar)
		contains []string
	}{
		{
			name:     "ready",
			setup:    func(*Bar) {},
			contains: []string{"Ready", "esc back", "? help"},
		},
		{
			name:     "ready with message",
			setup:    func(b *Bar) { b.SetMessage("3 documents") },
			contains: []string{"3 documents"},
		},
		{
			name:     "working",
			setup:    func(b *Bar) { b.SetState(StateWorking) },
			contains: []string{"Working..."},
		},
		{
			name: "working with message",
			setup: func(b *Bar) {
				b.SetState(StateWorking)
				b.SetMessage("Optimising prompt...")
			},
			contains: []string{"Optimising prompt..."},
		},
		{
			name:     "error",
			setup:    func(b *Bar) { b.SetError(domain.KindUnreachable, "no response") },
			contains: []string{"Error: no response"},
		},
		{
			name:     "help",
			setup:    func(b *Bar) { b.SetState(StateHelp) },
			contains: []string{"Help"},
		},
		{
			name: "custom hints",
			setup: func(b *Bar) {
				b.SetHints([]key.Binding{key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "adopt"))})
			},
			contains: []string{"a adopt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			view := bar.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestStatusBar_SetErrorAndClear(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetError(domain.KindValidation, "prompt must not be empty")
	assert.Equal(t, StateError, bar.State())
	assert.Equal(t, domain.KindValidation, bar.Kind())
	assert.Equal(t, "prompt must not be empty", bar.Message())

	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Empty(t, bar.Kind())
}

func TestStatusBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(5)

	assert.NotEmpty(t, bar.View())
}

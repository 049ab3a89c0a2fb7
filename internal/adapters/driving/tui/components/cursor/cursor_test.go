package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_Move(t *testing.T) {
	tests := []struct {
		name       string
		moves      []int
		n          int
		wantIndex  int
		wantOffset int
	}{
		{"up at top", []int{-1}, 5, 0, 0},
		{"down within view", []int{1, 1}, 5, 2, 0},
		{"scrolls down", []int{1, 1, 1, 1}, 10, 4, 2},
		{"stops at bottom", []int{9, 9}, 5, 4, 2},
		{"scrolls back up", []int{6, -5}, 10, 1, 1},
		{"empty list", []int{1}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Window
			w.SetRows(3)
			for _, d := range tt.moves {
				w.Move(d, tt.n)
			}
			assert.Equal(t, tt.wantIndex, w.Index())
			assert.Equal(t, tt.wantOffset, w.Offset())
		})
	}
}

func TestWindow_MoveReportsChange(t *testing.T) {
	var w Window
	w.SetRows(3)

	assert.False(t, w.Move(-1, 3))
	assert.True(t, w.Move(1, 3))
}

func TestWindow_ClampAfterShrink(t *testing.T) {
	var w Window
	w.SetRows(2)
	w.Select(7, 10)

	w.Clamp(3)

	assert.Equal(t, 2, w.Index())
	assert.Equal(t, 2, w.Offset())
}

func TestWindow_SpanAndFooter(t *testing.T) {
	var w Window
	w.SetRows(2)

	from, to := w.Span(1)
	assert.Equal(t, 0, from)
	assert.Equal(t, 1, to)
	assert.Empty(t, w.Footer(2))

	w.Select(5, 20)
	from, to = w.Span(20)
	assert.Equal(t, 4, from)
	assert.Equal(t, 6, to)
	assert.Equal(t, "[5-6 of 20]", w.Footer(20))
}

func TestWindow_ZeroValueShowsOneRow(t *testing.T) {
	var w Window

	w.Move(1, 3)

	assert.Equal(t, 1, w.Offset())
	w.Reset()
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, 0, w.Offset())
}

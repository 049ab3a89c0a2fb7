// Package cursor tracks a selection in a list taller than the screen.
package cursor

import "fmt"

// Window is a selected index plus the first visible row. The zero value
// shows a single row.
type Window struct {
	index  int
	offset int
	rows   int
}

// SetRows sets how many rows fit on screen.
func (w *Window) SetRows(rows int) {
	w.rows = max(rows, 1)
}

func (w *Window) visible() int {
	return max(w.rows, 1)
}

// Index is the selected position.
func (w *Window) Index() int { return w.index }

// Offset is the first visible position.
func (w *Window) Offset() int { return w.offset }

// Move shifts the selection by delta within a list of n items and reports
// whether it changed.
func (w *Window) Move(delta, n int) bool {
	before := w.index
	w.Select(w.index+delta, n)
	return w.index != before
}

// Select puts the selection at i, clamped to a list of n items, and
// scrolls it into view.
func (w *Window) Select(i, n int) {
	w.index = min(max(i, 0), max(n-1, 0))
	switch rows := w.visible(); {
	case w.index < w.offset:
		w.offset = w.index
	case w.index >= w.offset+rows:
		w.offset = w.index - rows + 1
	}
}

// Clamp keeps the selection valid after the list changed to n items.
func (w *Window) Clamp(n int) {
	w.Select(w.index, n)
	if w.offset > w.index {
		w.offset = w.index
	}
}

// Reset returns to the top.
func (w *Window) Reset() {
	w.index, w.offset = 0, 0
}

// Span returns the half-open range of positions to draw for n items.
func (w *Window) Span(n int) (from, to int) {
	from = min(w.offset, n)
	return from, min(from+w.visible(), n)
}

// Footer describes the visible range, or is empty when everything fits.
func (w *Window) Footer(n int) string {
	if n <= w.visible() {
		return ""
	}
	from, to := w.Span(n)
	return fmt.Sprintf("[%d-%d of %d]", from+1, to, n)
}

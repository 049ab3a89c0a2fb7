// Package prompt provides interactive driven.Prompter implementations.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
)

// Ensure Terminal implements the interface.
var _ driven.Prompter = (*Terminal)(nil)

// Terminal asks for values on a line-oriented terminal.
// When input is not interactive every prompt returns "" so callers treat it
// as a cancellation rather than blocking on a pipe.
type Terminal struct {
	mu          sync.Mutex
	reader      *bufio.Reader
	out         io.Writer
	interactive func() bool

	// detached counts holders that own the terminal, such as a full-screen
	// UI. While positive every prompt is cancelled.
	detached atomic.Int32

	// pending is a read abandoned by a cancelled prompt. The next prompt
	// takes its line instead of starting a second reader.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewTerminal prompts on stderr and reads stdin.
func NewTerminal() *Terminal {
	return &Terminal{
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stderr,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// NewScripted prompts on out and reads in, treating it as interactive.
func NewScripted(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: func() bool { return true },
	}
}

// Detach stops prompting until the returned func is called. Prompts made
// in between return "" without touching the terminal.
func (t *Terminal) Detach() (restore func()) {
	t.detached.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { t.detached.Add(-1) })
	}
}

// Prompt shows the label and reads one line.
func (t *Terminal) Prompt(ctx context.Context, req driven.PromptRequest) (string, error) {
	if t.detached.Load() > 0 {
		return "", nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.detached.Load() > 0 || !t.interactive() {
		return "", nil
	}

	if req.Placeholder != "" {
		fmt.Fprintf(t.out, "%s (e.g. %s): ", req.Label, req.Placeholder)
	} else {
		fmt.Fprintf(t.out, "%s: ", req.Label)
	}

	if t.pending == nil {
		t.pending = make(chan lineResult, 1)
		go func(done chan<- lineResult) {
			line, err := t.reader.ReadString('\n')
			done <- lineResult{line: line, err: err}
		}(t.pending)
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return "", ctx.Err()
	case r := <-t.pending:
		t.pending = nil
		if r.err != nil && r.err != io.EOF {
			return "", r.err
		}
		return strings.TrimSpace(r.line), nil
	}
}

package boundary

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

const (
	// MaxLineSize bounds a single inbound line. Files travel base64-encoded
	// inside messages, so lines can be large.
	MaxLineSize = 64 << 20

	inboxSize = 32
)

// LineWriter writes outbound messages as newline-delimited JSON.
// It is safe for concurrent use.
type LineWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewLineWriter creates a writer over w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{enc: json.NewEncoder(w)}
}

// Send writes one message. Write failures are logged and dropped.
func (lw *LineWriter) Send(out Outbound) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if err := lw.enc.Encode(out); err != nil {
		logger.Warn("boundary: failed to write %s: %v", out.Type, err)
	}
}

// ServeLines reads newline-delimited JSON messages from r and handles them
// in arrival order, writing replies to w. It returns when r is exhausted
// and every message has been handled, or when ctx is cancelled.
func ServeLines(ctx context.Context, r io.Reader, w io.Writer, ports Ports) error {
	out := NewLineWriter(w)
	d, err := NewDispatcher(ports, out.Send)
	if err != nil {
		return err
	}

	inbox := make(chan Inbound, inboxSize)
	readErr := make(chan error, 1)
	go func() {
		defer close(inbox)
		readErr <- readLines(ctx, r, inbox, out.Send)
	}()

	if err := d.Run(ctx, inbox); err != nil {
		return err
	}
	return <-readErr
}

// readLines decodes each non-blank line into inbox. Lines that are not
// valid messages are answered with an error and skipped.
func readLines(ctx context.Context, r io.Reader, inbox chan<- Inbound, send SendFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var in Inbound
		if err := json.Unmarshal(line, &in); err != nil {
			send(Outbound{
				Type:    TypeError,
				Kind:    domain.KindValidation,
				Message: fmt.Sprintf("invalid message: %v", err),
			})
			continue
		}

		select {
		case inbox <- in:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading messages: %w", err)
	}
	return nil
}

package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/httpserve"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// WebSocketPath is where the handler is mounted by ListenAndServe.
const WebSocketPath = "/ws"

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

// PortsFactory builds the ports for one connection. It must return a fresh
// refinement coordinator each time so that connections do not share a session.
type PortsFactory func() Ports

// WebSocketHandler serves the boundary over websockets, one dispatcher per
// connection.
type WebSocketHandler struct {
	newPorts PortsFactory
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a handler that builds per-connection ports
// with newPorts.
func NewWebSocketHandler(newPorts PortsFactory) *WebSocketHandler {
	return &WebSocketHandler{
		newPorts: newPorts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the connection and serves messages until the peer
// disconnects or stops answering pings.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("boundary: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writeCh := make(chan Outbound, inboxSize)
	send := func(out Outbound) {
		select {
		case writeCh <- out:
		case <-ctx.Done():
		}
	}

	d, err := NewDispatcher(h.newPorts(), send)
	if err != nil {
		logger.Error("boundary: %v", err)
		return
	}

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writePump(ctx, conn, writeCh)
	}()

	inbox := make(chan Inbound, inboxSize)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = d.Run(ctx, inbox)
	}()

	h.readPump(ctx, conn, inbox, send)

	// The peer is gone; abandon whatever is still in flight.
	cancel()
	close(inbox)
	<-runDone
	<-writerDone
}

// readPump decodes inbound messages until the connection fails.
func (h *WebSocketHandler) readPump(ctx context.Context, conn *websocket.Conn, inbox chan<- Inbound, send SendFunc) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("boundary: websocket closed: %v", err)
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
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
			return
		}
	}
}

// writePump is the connection's only writer: outbound messages and pings.
func writePump(ctx context.Context, conn *websocket.Conn, writeCh <-chan Outbound) {
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case out := <-writeCh:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(out); err != nil {
				logger.Debug("boundary: websocket write failed: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ListenAndServe serves the handler at WebSocketPath on addr until ctx is
// done. Open connections end with ctx.
func (h *WebSocketHandler) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(WebSocketPath, h)

	logger.Info("Serving websocket boundary on ws://%s%s", addr, WebSocketPath)
	return httpserve.ListenAndServe(ctx, addr, mux)
}

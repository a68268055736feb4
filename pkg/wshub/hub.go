package wshub

import (
	"context"
	"errors"
	"sync"

	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
)

var (
	ErrEmptyConn    = errors.New("connection is empty")
	ErrConnNotFound = errors.New("connection not found")
)

// Hub tracks every live WebSocket connection by its opaque handle.
type Hub struct {
	conns map[string]*Conn
	l     logger.Logger
	mu    sync.Mutex
}

func NewHub(l logger.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*Conn),
		l:     l,
	}
}

// Register adds a connection to the hub. A connection already registered
// under the same handle is closed and replaced.
func (h *Hub) Register(conn *Conn) error {
	if conn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.conns[conn.handle]; ok {
		ctx := wrap.WithAction(context.Background(), "ws_register")
		h.l.Warn(ctx, "replacing existing connection", "handle", conn.handle)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing connection", "handle", conn.handle, "err", err.Error())
		}
	}

	h.conns[conn.handle] = conn

	return nil
}

// Unregister removes and closes the connection with the given handle.
func (h *Hub) Unregister(handle string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[handle]
	if !ok {
		return ErrConnNotFound
	}

	if err := conn.Close(); err != nil {
		ctx := wrap.WithAction(context.Background(), "ws_unregister")
		h.l.Warn(ctx, "failed to close connection", "handle", handle, "err", err.Error())
	}

	delete(h.conns, handle)

	return nil
}

// Get returns the connection for handle, or ErrConnNotFound.
func (h *Hub) Get(handle string) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[handle]
	if !ok {
		return nil, ErrConnNotFound
	}
	return conn, nil
}

// SendTo delivers one JSON message to the connection with the given handle.
func (h *Hub) SendTo(handle string, v any) error {
	conn, err := h.Get(handle)
	if err != nil {
		return err
	}
	return conn.Send(v)
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close closes every connection in the hub.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = h.Unregister(conn.handle)
	}

	ctx := wrap.WithAction(context.Background(), "ws_hub_close")
	h.l.Info(ctx, "all websocket connections closed")
}

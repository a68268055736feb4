package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
	"github.com/gocab/gocab/pkg/metrics"
	"github.com/gocab/gocab/pkg/wshub"
)

const (
	eventJoin           = "join"
	eventDriverLocation = "update-driver-location"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type PresenceService interface {
	Join(ctx context.Context, role types.Role, id uuid.UUID, handle string) error
	Disconnect(ctx context.Context, handle string) error
	UpdateDriverLocation(ctx context.Context, driverID uuid.UUID, lat, lng float64) error
}

// Gateway upgrades HTTP requests to WebSocket connections and translates
// inbound frames into presence mutations. Each connection gets a fresh
// opaque handle; parties bind themselves to it with a join frame.
type Gateway struct {
	hub      *wshub.Hub
	presence PresenceService
	logger   logger.Logger
}

func NewGateway(hub *wshub.Hub, presence PresenceService, logger logger.Logger) *Gateway {
	return &Gateway{
		hub:      hub,
		presence: presence,
		logger:   logger,
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws.Upgrade")

	socket, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn(ctx, "websocket upgrade failed", "err", err.Error())
		return
	}

	handle := uuid.NewString()
	conn := wshub.NewConn(handle, socket)
	if err := g.hub.Register(conn); err != nil {
		g.logger.Error(ctx, "failed to register connection", err)
		_ = conn.Close()
		return
	}

	metrics.WebsocketConnections.Inc()
	g.logger.Debug(ctx, "connection established", "handle", handle)

	go g.readLoop(conn, socket)
}

func (g *Gateway) readLoop(conn *wshub.Conn, socket *websocket.Conn) {
	handle := conn.Handle()
	defer g.teardown(handle)

	for {
		_, raw, err := socket.ReadMessage()
		if err != nil {
			ctx := wrap.WithAction(context.Background(), "ws.Read")
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Warn(ctx, "connection closed unexpectedly", "handle", handle, "err", err.Error())
			}
			return
		}

		var msg struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			g.logger.Debug(wrap.WithAction(context.Background(), "ws.Read"), "malformed frame dropped", "handle", handle)
			continue
		}

		g.handleMessage(handle, msg.Event, msg.Data)
	}
}

func (g *Gateway) handleMessage(handle, event string, data json.RawMessage) {
	ctx := wrap.WithAction(context.Background(), "ws."+event)

	switch event {
	case eventJoin:
		var payload models.JoinPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			g.logger.Debug(ctx, "malformed join payload", "handle", handle)
			return
		}

		id, err := uuid.Parse(payload.UserID)
		if err != nil {
			g.logger.Debug(ctx, "join with invalid user id", "handle", handle)
			return
		}

		if err := g.presence.Join(ctx, types.Role(payload.UserType), id, handle); err != nil {
			g.logger.Warn(ctx, "join failed", "handle", handle, "err", err.Error())
		}

	case eventDriverLocation:
		var payload models.LocationPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			g.logger.Debug(ctx, "malformed location payload", "handle", handle)
			return
		}

		id, err := uuid.Parse(payload.UserID)
		if err != nil {
			g.logger.Debug(ctx, "location update with invalid user id", "handle", handle)
			return
		}

		err = g.presence.UpdateDriverLocation(ctx, id, payload.Location.Latitude, payload.Location.Longitude)
		if err != nil {
			g.logger.Warn(ctx, "location update failed", "handle", handle, "err", err.Error())
		}

	default:
		g.logger.Debug(ctx, "unknown event dropped", "handle", handle, "event", event)
	}
}

// teardown runs once per connection, whatever ended the read loop.
func (g *Gateway) teardown(handle string) {
	ctx := wrap.WithAction(context.Background(), "ws.Disconnect")

	if err := g.hub.Unregister(handle); err != nil && err != wshub.ErrConnNotFound {
		g.logger.Warn(ctx, "unregister failed", "handle", handle, "err", err.Error())
	}
	metrics.WebsocketConnections.Dec()

	if err := g.presence.Disconnect(ctx, handle); err != nil {
		g.logger.Warn(ctx, "presence cleanup failed", "handle", handle, "err", err.Error())
	}

	g.logger.Debug(ctx, "connection closed", "handle", handle)
}

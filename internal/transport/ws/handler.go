package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/baloria-app/baloria-backend/pkg/ctxutil"
)

// Handler upgrades authenticated requests to websocket connections.
type Handler struct {
	hub      *Hub
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler bound to the hub. Origin checking
// is delegated to the CORS layer in front of the router.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		log: logger.With("handler", "ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		subs:   make(map[uuid.UUID]struct{}),
	}
	h.hub.register(client)

	h.log.Debug("websocket connected", "user_id", userID)

	go client.writePump()
	go client.readPump()
}

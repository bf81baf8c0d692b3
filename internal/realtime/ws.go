package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// WSHandler streams one owner's events over a WebSocket. The socket is
// push-only; inbound frames other than control frames are discarded.
type WSHandler struct {
	presence *Presence
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WebSocket handler
func NewWSHandler(presence *Presence) *WSHandler {
	return &WSHandler{
		presence: presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP resumes the owner's character, upgrades the connection and pumps
// events until either side goes away
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(r.URL.Query().Get(QueryParamOwner))
	if ownerID == "" {
		http.Error(w, ErrMsgOwnerRequired, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	log := logger.FromContext(ctx)

	// join before upgrading so failures are still plain HTTP errors
	client, err := h.presence.Join(ctx, ownerID, TransportWebSocket)
	if err != nil {
		writeJoinError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn(LogMsgUpgradeFailed, "owner_id", ownerID, "error", err)
		h.presence.Leave(ctx, client)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(conn, client)
	}()

	readPump(conn)
	h.presence.Leave(ctx, client)
	<-done
}

// readPump keeps the read deadline fresh on pongs and returns on the first
// read error, which is how a closed socket is noticed
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer on conn. It ends when the client's channel is
// closed or a write fails; a failed write closes conn to stop readPump.
func (h *WSHandler) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(KeepaliveInterval)
	defer ticker.Stop()

	write := func(msg Message) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug(LogMsgWriteError, "client_id", client.ID, "error", err)
			_ = conn.Close()
			return false
		}
		return true
	}

	if !write(connectedMessage(client)) {
		return
	}
	for {
		select {
		case msg, ok := <-client.Events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				_ = conn.Close()
				return
			}
			if !write(msg) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

package realtime

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// SSEHandler streams one owner's events as server-sent events
func SSEHandler(presence *Presence) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := strings.TrimSpace(r.URL.Query().Get(QueryParamOwner))
		if ownerID == "" {
			http.Error(w, ErrMsgOwnerRequired, http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, ErrMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		ctx := r.Context()
		client, err := presence.Join(ctx, ownerID, TransportSSE)
		if err != nil {
			writeJoinError(w, err)
			return
		}
		defer presence.Leave(ctx, client)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		log := logger.FromContext(ctx)
		write := func(msg Message) bool {
			data, err := FormatSSEMessage(msg)
			if err != nil {
				log.Error(LogMsgWriteError, "error", err)
				return true
			}
			if _, err := w.Write(data); err != nil {
				log.Warn(LogMsgWriteError, "client_id", client.ID, "error", err)
				return false
			}
			flusher.Flush()
			return true
		}

		if !write(connectedMessage(client)) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-client.Events:
				if !ok {
					// hub is shutting down
					return
				}
				if !write(msg) {
					return
				}
			case <-ticker.C:
				if !write(Message{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}

func connectedMessage(client *Client) Message {
	return Message{
		ID:        client.ID,
		Type:      EventTypeConnected,
		Timestamp: time.Now().Unix(),
		Payload: map[string]interface{}{
			"client_id": client.ID,
			"owner_id":  client.OwnerID,
		},
	}
}

// writeJoinError answers a failed join before any stream bytes are sent
func writeJoinError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrCharacterNotFound) {
		http.Error(w, ErrMsgCharacterMissing, http.StatusNotFound)
		return
	}
	http.Error(w, ErrMsgResumeFailed, http.StatusInternalServerError)
}

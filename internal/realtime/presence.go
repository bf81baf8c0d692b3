package realtime

import (
	"context"

	"github.com/osse101/IdleRealm_Go/internal/concurrency"
	"github.com/osse101/IdleRealm_Go/internal/game"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// Sessions starts and ends an owner's live session
type Sessions interface {
	Resume(ctx context.Context, ownerID string) (game.ResumeResult, error)
	Disconnect(ctx context.Context, ownerID string) error
}

// Presence ties client connections to character sessions: every join resumes
// the character and the owner's last leave disconnects it. Joins and leaves
// for one owner are serialized so a quick reconnect cannot be overtaken by
// the previous connection's disconnect.
type Presence struct {
	hub      *Hub
	sessions Sessions
	gate     *concurrency.Gate
}

// NewPresence creates a new Presence
func NewPresence(hub *Hub, sessions Sessions) *Presence {
	return &Presence{hub: hub, sessions: sessions, gate: concurrency.NewGate()}
}

// Join registers a client and resumes the owner's character. The client is
// registered first so it receives the resume's offline report and status.
func (p *Presence) Join(ctx context.Context, ownerID, transport string) (*Client, error) {
	return concurrency.Exclusive(ctx, p.gate, ownerID, func() (*Client, error) {
		client, _ := p.hub.Register(ownerID, transport)
		if _, err := p.sessions.Resume(ctx, ownerID); err != nil {
			p.hub.Unregister(client)
			return nil, err
		}
		logger.FromContext(ctx).Info(LogMsgClientConnected,
			"client_id", client.ID,
			"owner_id", ownerID,
			"transport", transport,
			"total_clients", p.hub.ClientCount())
		return client, nil
	})
}

// Leave unregisters a client and disconnects the character when it was the
// owner's last one. It runs to completion even if ctx is already cancelled.
func (p *Presence) Leave(ctx context.Context, client *Client) {
	ctx = context.WithoutCancel(ctx)
	log := logger.FromContext(ctx)

	_ = p.gate.RunExclusive(ctx, client.OwnerID, func() error {
		remaining := p.hub.Unregister(client)
		log.Info(LogMsgClientDisconnected,
			"client_id", client.ID,
			"owner_id", client.OwnerID,
			"transport", client.Transport,
			"owner_clients", remaining)
		if remaining > 0 {
			return nil
		}
		if err := p.sessions.Disconnect(ctx, client.OwnerID); err != nil {
			log.Warn(LogMsgDisconnectFailed, "owner_id", client.OwnerID, "error", err)
		}
		return nil
	})
}

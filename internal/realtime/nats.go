package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// subjectToken strips the characters NATS reserves in subject tokens
var subjectToken = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

// ConnectNATS dials a NATS server and keeps reconnecting for the life of the
// process
func ConnectNATS(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(LogMsgNATSDisconnected, "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info(LogMsgNATSReconnected, "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	logger.Info(LogMsgNATSConnected, "url", conn.ConnectedUrl())
	return conn, nil
}

// Bridge mirrors character events to NATS as
// <prefix>.character.<owner>.<type>
type Bridge struct {
	conn   *nats.Conn
	prefix string
}

// NewBridge creates a NATS bridge. An empty prefix uses DefaultSubjectPrefix.
func NewBridge(conn *nats.Conn, prefix string) *Bridge {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Bridge{conn: conn, prefix: prefix}
}

// Subject returns the subject an owner's events of type t are published on
func (b *Bridge) Subject(ownerID string, t event.Type) string {
	return b.prefix + ".character." + subjectToken.Replace(ownerID) + "." + string(t)
}

// Handle publishes one event. NATS delivery is best effort: failures are
// logged and not returned, so the bus never retries the in-process handlers.
func (b *Bridge) Handle(ctx context.Context, evt event.Event) error {
	owner := evt.OwnerID()
	if owner == "" {
		return nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgNATSPublishFailed, "type", evt.Type, "error", err)
		return nil
	}
	if err := b.conn.Publish(b.Subject(owner, evt.Type), data); err != nil {
		logger.FromContext(ctx).Warn(LogMsgNATSPublishFailed, "type", evt.Type, "owner_id", owner, "error", err)
	}
	return nil
}

// Subscribe registers the bridge for every character event on the bus
func (b *Bridge) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, event.CharacterTypes, b.Handle)
}

// Close flushes pending messages and closes the connection
func (b *Bridge) Close() error {
	return b.conn.Drain()
}

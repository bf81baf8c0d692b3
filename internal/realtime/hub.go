// Package realtime pushes character events to connected clients over
// WebSocket and SSE, and mirrors them to NATS subjects.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/metrics"
)

// Message is what a client receives
type Message struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is one connected browser tab or bot for a single owner
type Client struct {
	ID        string
	OwnerID   string
	Transport string
	Events    chan Message
}

type envelope struct {
	owner string
	msg   Message
}

// Hub fans owner-addressed events out to that owner's clients
type Hub struct {
	clients   map[string]*Client
	owners    map[string]int
	broadcast chan envelope
	mu        sync.RWMutex
	shutdown  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		owners:    make(map[string]int),
		broadcast: make(chan envelope, BroadcastBufferSize),
		shutdown:  make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts the loop down and closes every client channel
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.Events)
			metrics.RealtimeClients.WithLabelValues(client.Transport).Dec()
		}
		h.clients = make(map[string]*Client)
		h.owners = make(map[string]int)
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case env := <-h.broadcast:
			h.deliver(env.owner, env.msg)
		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) deliver(owner string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.OwnerID != owner {
			continue
		}
		select {
		case client.Events <- msg:
		default:
			logger.Warn(LogMsgClientLagging, "client_id", client.ID, "owner_id", owner, "type", msg.Type)
		}
	}
}

// Register adds a client for owner and returns it with the owner's client count
func (h *Hub) Register(ownerID, transport string) (*Client, int) {
	client := &Client{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Transport: transport,
		Events:    make(chan Message, ClientEventBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.owners[ownerID]++
	metrics.RealtimeClients.WithLabelValues(transport).Inc()
	return client, h.owners[ownerID]
}

// Unregister removes the client, closes its channel and returns how many
// clients the owner still has
func (h *Hub) Unregister(client *Client) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return h.owners[client.OwnerID]
	}
	close(client.Events)
	delete(h.clients, client.ID)
	metrics.RealtimeClients.WithLabelValues(client.Transport).Dec()

	h.owners[client.OwnerID]--
	remaining := h.owners[client.OwnerID]
	if remaining <= 0 {
		delete(h.owners, client.OwnerID)
		remaining = 0
	}
	return remaining
}

// Broadcast queues an event for the clients of its owner. Events without an
// owner are ignored; a full buffer drops the event.
func (h *Hub) Broadcast(evt event.Event) {
	owner := evt.OwnerID()
	if owner == "" {
		return
	}
	msg := Message{
		ID:        uuid.New().String(),
		Type:      string(evt.Type),
		Timestamp: time.Now().Unix(),
		Payload:   evt.Payload,
	}

	select {
	case h.broadcast <- envelope{owner: owner, msg: msg}:
	default:
		logger.Warn(LogMsgBroadcastDropped, "owner_id", owner, "type", msg.Type)
	}
}

// Handle is the event bus handler feeding the hub
func (h *Hub) Handle(_ context.Context, evt event.Event) error {
	h.Broadcast(evt)
	return nil
}

// Subscribe subscribes the hub to every character event on the bus
func (h *Hub) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, event.CharacterTypes, h.Handle)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OwnerClients returns how many clients an owner has connected
func (h *Hub) OwnerClients(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.owners[ownerID]
}

// FormatSSEMessage formats a message for an SSE stream
func FormatSSEMessage(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	// SSE format: "id: <id>\nevent: <type>\ndata: <json>\n\n"
	out := "id: " + msg.ID + "\n"
	out += "event: " + msg.Type + "\n"
	out += "data: " + string(data) + "\n\n"
	return []byte(out), nil
}

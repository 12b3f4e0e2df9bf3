// Package feedhub fans the audit trail out to connected dashboard clients
// over WebSocket. Entries arrive through Redis pub/sub, so every API
// instance broadcasts the same activity stream regardless of which instance
// performed the operation.
package feedhub

import (
	"encoding/json"
	"log"

	"civicbot/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// FeedSource provides the Redis subscription the hub listens on.
type FeedSource interface {
	SubscribeAuditFeed() *redis.PubSub
}

// Hub tracks connected dashboard clients and broadcasts audit entries to
// those allowed to see them. All state is owned by the Run goroutine;
// callers communicate through the channels only.
type Hub struct {
	Clients map[*Client]bool

	RegisterCh   chan *Client
	UnregisterCh chan *Client
	BroadcastCh  chan models.AuditLog

	Source FeedSource
}

// NewHub creates a Hub. Source may be nil in tests; StartPubSubListener is
// then skipped and entries are pushed straight into BroadcastCh.
func NewHub(source FeedSource) *Hub {
	return &Hub{
		Clients:      make(map[*Client]bool),
		RegisterCh:   make(chan *Client),
		UnregisterCh: make(chan *Client),
		BroadcastCh:  make(chan models.AuditLog, 16),
		Source:       source,
	}
}

// StartPubSubListener subscribes to the audit feed channel and forwards
// decoded entries into BroadcastCh.
func (h *Hub) StartPubSubListener() {
	go func() {
		pubsub := h.Source.SubscribeAuditFeed()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var entry models.AuditLog
			if err := json.Unmarshal([]byte(msg.Payload), &entry); err != nil {
				log.Printf("ERROR: Failed to decode audit feed payload: %v", err)
				continue
			}
			h.BroadcastCh <- entry
		}
	}()
}

// Run is the hub's dispatcher loop.
func (h *Hub) Run() {
	if h.Source != nil {
		h.StartPubSubListener()
	}

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client] = true
			log.Printf("INFO: Activity feed client connected (%s)", client.Actor.ID)

		case client := <-h.UnregisterCh:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Close()
			}

		case entry := <-h.BroadcastCh:
			for client := range h.Clients {
				if !client.Actor.CoversCompany(entry.CompanyID) {
					continue
				}
				select {
				case client.Send <- entry:
				default:
					// Slow consumer: drop the connection rather than
					// stalling the whole feed.
					delete(h.Clients, client)
					client.Close()
				}
			}
		}
	}
}

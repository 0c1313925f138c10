package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// MatchHub manages websocket connections for conversations. Unlike Hub
// (which is user-centric), MatchHub is match-centric: a client joins
// the matches it is viewing and receives message, typing, and read
// events for those matches only. Events for one match are fanned out in
// the order they arrive from the store; leaving a match unsubscribes
// immediately with no drain.
type MatchHub struct {
	mu sync.RWMutex

	// matchID -> set of subscribed userIDs
	matches map[uint]map[uint]struct{}

	// userID -> set of matchIDs they are actively viewing
	userActiveMatches map[uint]map[uint]struct{}

	// userID -> set of active Clients (multi-device support)
	userConns map[uint]map[*Client]struct{}

	// dedup drops redelivered message events by stored message ID
	dedup *MessageDedup
}

// NewMatchHub creates a new MatchHub instance.
func NewMatchHub() *MatchHub {
	return &MatchHub{
		matches:           make(map[uint]map[uint]struct{}),
		userActiveMatches: make(map[uint]map[uint]struct{}),
		userConns:         make(map[uint]map[*Client]struct{}),
		dedup:             NewMessageDedup(),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *MatchHub) Name() string { return "match hub" }

// Register registers a user's websocket connection. Returns the Client
// or an error if the per-user limit is exceeded.
func (h *MatchHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Client]struct{})
	}
	if len(h.userConns[userID]) >= maxConnsPerUser {
		return nil, fmt.Errorf("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	h.userConns[userID][client] = struct{}{}
	return client, nil
}

// UnregisterClient removes a connection. When the user's last
// connection is gone, all their match subscriptions are dropped.
func (h *MatchHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.userConns[client.UserID]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) > 0 {
		return
	}
	delete(h.userConns, client.UserID)

	if active, ok := h.userActiveMatches[client.UserID]; ok {
		for matchID := range active {
			if subs, ok := h.matches[matchID]; ok {
				delete(subs, client.UserID)
				if len(subs) == 0 {
					delete(h.matches, matchID)
				}
			}
		}
		delete(h.userActiveMatches, client.UserID)
	}
}

// JoinMatch subscribes a connected user to a match's events. The
// caller verifies participation before joining; the hub only tracks
// subscriptions.
func (h *MatchHub) JoinMatch(userID, matchID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.userConns[userID]; !ok {
		log.Printf("MatchHub: user %d not connected, cannot join match %d", userID, matchID)
		return
	}

	if h.matches[matchID] == nil {
		h.matches[matchID] = make(map[uint]struct{})
	}
	h.matches[matchID][userID] = struct{}{}

	if h.userActiveMatches[userID] == nil {
		h.userActiveMatches[userID] = make(map[uint]struct{})
	}
	h.userActiveMatches[userID][matchID] = struct{}{}
}

// LeaveMatch unsubscribes a user from a match. Events published after
// this call are not delivered; there is no drain.
func (h *MatchHub) LeaveMatch(userID, matchID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.matches[matchID]; ok {
		delete(subs, userID)
		if len(subs) == 0 {
			delete(h.matches, matchID)
		}
	}
	if active, ok := h.userActiveMatches[userID]; ok {
		delete(active, matchID)
	}
}

// BroadcastToMatch sends an encoded event to every subscriber of the
// match, on all their devices.
func (h *MatchHub) BroadcastToMatch(matchID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.matches[matchID]
	if !ok {
		return
	}
	for userID := range subs {
		if clients, ok := h.userConns[userID]; ok {
			for client := range clients {
				client.TrySend(message)
			}
		}
	}
}

// Subscribers returns the userIDs currently viewing a match.
func (h *MatchHub) Subscribers(matchID uint) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.matches[matchID]
	if !ok {
		return []uint{}
	}
	result := make([]uint, 0, len(subs))
	for userID := range subs {
		result = append(result, userID)
	}
	return result
}

// IsViewing reports whether a user is subscribed to a match.
func (h *MatchHub) IsViewing(userID, matchID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if active, ok := h.userActiveMatches[userID]; ok {
		_, viewing := active[matchID]
		return viewing
	}
	return false
}

// StartWiring connects the MatchHub to Redis pub/sub for match
// channels. Payloads are decoded at the boundary; anything outside the
// closed event set is dropped before fan-out.
func (h *MatchHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartMatchSubscriber(ctx, func(channel, payload string) {
		var matchID uint
		if _, err := fmt.Sscanf(channel, "chat:match:%d", &matchID); err != nil {
			if _, err := fmt.Sscanf(channel, "typing:match:%d", &matchID); err != nil {
				log.Printf("MatchHub: invalid channel format: %s", channel)
				return
			}
		}

		ev, err := DecodeEvent([]byte(payload))
		if err != nil {
			log.Printf("MatchHub: dropping undecodable event on %s: %v", channel, err)
			return
		}

		// Redis redelivery can hand the same stored message to the
		// subscriber more than once; forward each message ID only once.
		if msgEv, ok := ev.(*MessageEvent); ok && msgEv.Message.ID != 0 {
			if !h.dedup.Observe(msgEv.Message.ID) {
				return
			}
		}
		h.BroadcastToMatch(matchID, []byte(payload))
	})
}

// Shutdown gracefully closes all websocket connections
func (h *MatchHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.userConns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}

	h.matches = make(map[uint]map[uint]struct{})
	h.userActiveMatches = make(map[uint]map[uint]struct{})
	h.userConns = make(map[uint]map[*Client]struct{})
	return nil
}

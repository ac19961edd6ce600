package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// Message types pushed to event rooms.
const (
	MessageResultResolved = "RESULT_RESOLVED"
	MessageResultRemoved  = "RESULT_REMOVED"
)

// Message is the envelope broadcast to every subscriber of an event room.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	EventID int         `json:"event_id"`
}

// Hub fans result updates out to WebSocket clients grouped by event. Rooms
// are created lazily on first subscribe and dropped when the last client
// leaves.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Info("websocket client joined", slog.String("room", client.room), slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, found := clients[client]; found {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
					h.logger.Info("websocket client left", slog.String("room", client.room), slog.Int("clients", len(clients)))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToEvent pushes a message to every client subscribed to the event.
// Slow clients are dropped rather than allowed to block the broadcast.
func (h *Hub) BroadcastToEvent(eventID int, messageType string, payload interface{}) {
	msg := Message{Type: messageType, Payload: payload, EventID: eventID}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.Any("error", err))
		return
	}

	// Full lock: dropping a slow client mutates the room map.
	room := roomName(eventID)
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
			client.closeSend()
			delete(h.rooms[room], client)
		}
	}
}

func roomName(eventID int) string {
	return "event:" + strconv.Itoa(eventID)
}

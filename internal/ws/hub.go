package ws

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"pothole-service/internal/model"
)

// Hub fans report lifecycle events out to connected dashboard clients. The
// feed is one-way; clients only listen.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		log:        log.With().Str("component", "ws").Logger(),
	}
}

// Run owns the client set. Start it once, as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug().Int("clients", len(h.clients)).Msg("ws client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Debug().Int("clients", len(h.clients)).Msg("ws client disconnected")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client: drop it rather than stall the feed.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

type reportEvent struct {
	Type   string       `json:"type"`
	Report model.Report `json:"report"`
}

func (h *Hub) ReportCreated(r model.Report) {
	h.publish("report_created", r)
}

func (h *Hub) ReportUpdated(r model.Report) {
	h.publish("report_updated", r)
}

func (h *Hub) publish(eventType string, r model.Report) {
	payload, err := json.Marshal(reportEvent{Type: eventType, Report: r})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal ws event")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("type", eventType).Msg("ws broadcast buffer full, dropping")
	}
}

package websocket

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	ID      string
	EventID int64
}

// ContributionAlert is pushed to every client watching an event when a
// ledger row is inserted or changes status, so open views refresh
// without polling.
type ContributionAlert struct {
	EventID        int64   `json:"event_id"`
	ContributionID int64   `json:"contribution_id"`
	Contributor    string  `json:"contributor"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
	Status         string  `json:"status"`
}

type Hub struct {
	Clients        map[string]*Client
	Register       chan *Client
	Unregister     chan *Client
	BroadcastAlert chan ContributionAlert
}

func NewHub() *Hub {
	return &Hub{
		Clients:        make(map[string]*Client),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		BroadcastAlert: make(chan ContributionAlert),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client.ID] = client
			log.Printf("WebSocket client %s registered for event %d", client.ID, client.EventID)

		case client := <-h.Unregister:
			if _, ok := h.Clients[client.ID]; ok {
				delete(h.Clients, client.ID)
				close(client.Send)
				log.Printf("WebSocket client %s unregistered", client.ID)
			}

		case alert := <-h.BroadcastAlert:
			jsonData, err := json.Marshal(alert)
			if err != nil {
				log.Println("Failed to marshal contribution alert:", err)
				continue
			}

			for id, client := range h.Clients {
				if client.EventID != alert.EventID {
					continue
				}

				select {
				case client.Send <- jsonData:
				default:
					close(client.Send)
					delete(h.Clients, id)
				}
			}
		}
	}
}

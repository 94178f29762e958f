package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event names broadcast to connected dashboards.
const (
	EventOrderCreated   = "order_created"
	EventOrderPaid      = "order_paid"
	EventOrderShipped   = "order_shipped"
	EventOrderDelivered = "order_delivered"
	EventStockUpdate    = "stock_update"
	EventReviewAdded    = "review_added"
)

// Hub fans marketplace events out to every connected websocket client.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte

	logger *zap.Logger
	mutex  sync.Mutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		logger:     logger,
	}
}

// Publish marshals an event payload and broadcasts it without blocking the
// caller. A nil hub is a no-op so services can run without a live feed.
func (h *Hub) Publish(event string, data map[string]interface{}) {
	if h == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{"type": event}
		for k, v := range data {
			payload[k] = v
		}
		msg, err := json.Marshal(payload)
		if err != nil {
			h.logger.Warn("drop event with unmarshalable payload", zap.String("event", event))
			return
		}
		h.Broadcast <- msg
	}()
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.logger.Info("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

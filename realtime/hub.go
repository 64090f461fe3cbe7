// Package realtime pushes booking, table and service-request events to
// connected admin dashboards over websocket. Delivery is best-effort: a
// failed write drops the client, nothing is retried.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types
const (
	EventBookingCreate        = "booking_create"
	EventBookingUpdate        = "booking_update"
	EventBookingCancel        = "booking_cancel"
	EventBookingStatus        = "booking_status"
	EventTableCreate          = "table_create"
	EventTableUpdate          = "table_update"
	EventTableDelete          = "table_delete"
	EventServiceRequestCreate = "service_request_create"
	EventServiceRequestUpdate = "service_request_update"
	EventOrderCreate          = "order_create"
	EventOrderUpdate          = "order_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the connected dashboard clients.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient removes and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastMessage sends an event to every connected client.
func BroadcastMessage(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}

package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// The hub pushes payment-status changes to browsers sitting on the
// redirect-return page, so they see the webhook land without hammering
// the poll endpoint. Purely informational: nothing delivered here is ever
// written back as state.

type Client struct {
	SessionID uuid.UUID
	Conn      *websocket.Conn
}

type StatusUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
}

var clients = make(map[uuid.UUID][]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan StatusUpdate)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Status watcher registered for session %s", client.SessionID)
			clientsMu.Lock()
			clients[client.SessionID] = append(clients[client.SessionID], client.Conn)
			clientsMu.Unlock()
		case client := <-Unregister:
			clientsMu.Lock()
			conns := clients[client.SessionID]
			for i, conn := range conns {
				if conn == client.Conn {
					clients[client.SessionID] = append(conns[:i], conns[i+1:]...)
					break
				}
			}
			if len(clients[client.SessionID]) == 0 {
				delete(clients, client.SessionID)
			}
			clientsMu.Unlock()
		case update := <-Broadcast:
			clientsMu.RLock()
			conns := clients[update.SessionID]
			for _, conn := range conns {
				if err := conn.WriteJSON(update); err != nil {
					log.Printf("Error pushing status update for session %s: %v", update.SessionID, err)
				}
			}
			clientsMu.RUnlock()
		}
	}
}

// NotifyPaymentStatus fans a status change out to any browser watching
// the session. Non-blocking: if the hub is saturated the update is
// dropped, the page's polling fallback will pick it up.
func NotifyPaymentStatus(sessionID uuid.UUID, status string) {
	select {
	case Broadcast <- StatusUpdate{SessionID: sessionID, Status: status}:
	default:
	}
}

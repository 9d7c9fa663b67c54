package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"smartserve/internal/fridge"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SocketAction is a fridge action sent over the websocket
type SocketAction struct {
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
	Row    int    `json:"row,omitempty"`
	Col    int    `json:"col,omitempty"`
}

// wsClient is one websocket subscribed to a fridge session
type wsClient struct {
	conn    *websocket.Conn
	send    chan []byte
	session string
	hub     *Hub
}

// Hub fans fridge snapshots out to the sockets watching each session
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*wsClient]struct{})}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.session] == nil {
		h.clients[c.session] = make(map[*wsClient]struct{})
	}
	h.clients[c.session][c] = struct{}{}
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.session]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.session)
	}
}

// Len returns the number of connected sockets
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Broadcast sends the snapshot to every socket watching its session.
// Slow sockets drop the message rather than block the caller.
func (h *Hub) Broadcast(session fridge.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		log.Printf("Error marshaling session: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[session.ID] {
		select {
		case c.send <- data:
		default:
			log.Println("WebSocket buffer full, dropping fridge update")
		}
	}
}

// handleFridgeSocket streams a fridge session and accepts actions on it
func (s *Server) handleFridgeSocket(c *gin.Context) {
	game, ok := s.game(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &wsClient{
		conn:    conn,
		send:    make(chan []byte, 16),
		session: c.Param("id"),
		hub:     s.hub,
	}
	s.hub.register(client)

	go client.writePump()
	if data, err := json.Marshal(game.Snapshot()); err == nil {
		client.send <- data
	}
	go client.readPump(s, game)
}

// readPump applies incoming actions until the socket closes
func (c *wsClient) readPump(s *Server, game *fridge.Game) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var action SocketAction
		if err := json.Unmarshal(message, &action); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		s.Fridge.Touch(c.session)
		var session fridge.Session
		switch action.Action {
		case "select":
			session, _ = game.Select(action.ID)
		case "place":
			session, err = game.Place(action.Row, action.Col)
			s.Metrics.RecordPlacement(session, err)
		case "reset":
			session = game.Reset()
		default:
			log.Printf("Unknown fridge action %q", action.Action)
			continue
		}
		c.hub.Broadcast(session)
	}
}

// writePump pumps messages from the hub to the connection
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

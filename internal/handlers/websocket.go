package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"lostfound/internal/models"
	"lostfound/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking belongs in production config
		return true
	},
}

// Hub keeps the live websocket connections per user. A persisted notification
// is pushed to every open connection of its recipient; users without an open
// connection simply pick it up from the feed later.
type Hub struct {
	clients map[primitive.ObjectID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	deliveries chan models.Notification

	mutex sync.RWMutex
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID primitive.ObjectID
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type WebSocketHandler struct {
	hub        *Hub
	jwtManager *auth.JWTManager
}

func NewWebSocketHandler(jwtManager *auth.JWTManager) *WebSocketHandler {
	hub := &Hub{
		clients:    make(map[primitive.ObjectID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan models.Notification, 64),
	}

	return &WebSocketHandler{
		hub:        hub,
		jwtManager: jwtManager,
	}
}

func (h *WebSocketHandler) StartHub() {
	go h.hub.run()
}

// Deliver implements services.Deliverer. Non-blocking: when the hub's queue
// is full the notification is dropped here and read from the feed instead.
func (h *WebSocketHandler) Deliver(n models.Notification) {
	select {
	case h.hub.deliveries <- n:
	default:
		log.Printf("WebSocket delivery queue full, dropping notification for %s", n.UserID.Hex())
	}
}

// ConnectionsCount reports the number of open connections, for health checks.
func (h *WebSocketHandler) ConnectionsCount() int {
	h.hub.mutex.RLock()
	defer h.hub.mutex.RUnlock()

	count := 0
	for _, clients := range h.hub.clients {
		count += len(clients)
	}
	return count
}

func (hub *Hub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.mutex.Lock()
			if hub.clients[client.userID] == nil {
				hub.clients[client.userID] = make(map[*Client]bool)
			}
			hub.clients[client.userID][client] = true
			hub.mutex.Unlock()
			log.Printf("Client registered for user %s", client.userID.Hex())

		case client := <-hub.unregister:
			hub.mutex.Lock()
			if clients, ok := hub.clients[client.userID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(hub.clients, client.userID)
					}
				}
			}
			hub.mutex.Unlock()
			log.Printf("Client unregistered for user %s", client.userID.Hex())

		case notification := <-hub.deliveries:
			hub.mutex.RLock()
			clients := hub.clients[notification.UserID]
			hub.mutex.RUnlock()

			if len(clients) == 0 {
				continue
			}

			messageBytes, err := json.Marshal(WSMessage{
				Type: "notification",
				Data: notification,
			})
			if err != nil {
				log.Printf("Error marshaling notification: %v", err)
				continue
			}

			for client := range clients {
				select {
				case client.send <- messageBytes:
				default:
					hub.mutex.Lock()
					close(client.send)
					delete(clients, client)
					if len(clients) == 0 {
						delete(hub.clients, notification.UserID)
					}
					hub.mutex.Unlock()
				}
			}
		}
	}
}

// HandleWebSocket upgrades the connection and attaches it to the caller's
// notification stream. The token comes from a query parameter because
// browsers cannot set headers on websocket handshakes.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Token is required",
		})
		return
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid token",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: claims.UserID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var wsMsg WSMessage
		err := c.conn.ReadJSON(&wsMsg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// The feed is one-way; clients only send keepalives.
		if wsMsg.Type == "ping" {
			c.send <- []byte(`{"type": "pong"}`)
		}
	}
}

func (c *Client) writePump() {
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

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any queued deliveries in the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

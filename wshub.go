package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/feed"
	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	wsSendBuffer = 64
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced at the HTTP layer; the upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// wsHub fans feed events out to every connected dashboard. A client that
// cannot keep up is disconnected rather than allowed to block the others.
type wsHub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
	logger  *logrus.Logger
}

func newWsHub(logger *logrus.Logger) *wsHub {
	return &wsHub{
		clients: make(map[*wsClient]bool),
		logger:  logger,
	}
}

func (h *wsHub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *wsHub) remove(c *wsClient) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *wsHub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// slow consumer
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// BroadcastEvent pushes one applied feed event to every client.
func (h *wsHub) BroadcastEvent(event feed.Event) {
	payload, err := json.Marshal(gin.H{
		"type":   "change",
		"table":  event.Table,
		"action": event.Action,
		"id":     event.ID,
		"record": json.RawMessage(event.Payload),
	})
	if err != nil {
		config.LogError(h.logger, "wshub", "BroadcastEvent", "marshal", event.Table, err)
		return
	}
	h.broadcast(payload)
}

// BroadcastTickerRefresh nudges clients to refetch the ticker. Sent on the
// scheduler tick so date-boundary crossings reach idle dashboards.
func (h *wsHub) BroadcastTickerRefresh() {
	h.broadcast([]byte(`{"type":"ticker_refresh"}`))
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// authorizeWsRequest accepts either a redis-backed session token or, when
// redis has no session (e.g. a fresh instance), a still-valid JWT.
func authorizeWsRequest(c *gin.Context) bool {
	token := c.Query("token")
	if token == "" {
		token = c.Request.Header.Get("token")
	}
	if token == "" {
		return false
	}

	var session models.Session
	exists, err := config.GetRedisObject("Token:"+token, &session)
	if err == nil && exists {
		return true
	}

	validated, err := utils.JwtValidate(token)
	return err == nil && validated.Valid
}

func feedWebsocketHandler(hub *wsHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorizeWsRequest(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			config.LogError(hub.logger, "wshub", "feedWebsocketHandler", "upgrade", nil, err)
			return
		}

		client := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
		hub.add(client)
		go client.writePump()

		// Read loop only services control frames; the feed is one-way.
		go func() {
			defer hub.remove(client)
			conn.SetReadLimit(512)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

package handlers

import (
	"log"
	"net/http"
	"time"

	"devconnector/middleware"
	"devconnector/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WSHandler serves the live post feed.
type WSHandler struct {
	mgr *ws.Manager
}

func NewWSHandler(mgr *ws.Manager) *WSHandler {
	return &WSHandler{mgr: mgr}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleFeed upgrades to websocket and streams post events until the client
// goes away.
// GET /api/v1/posts/feed
func (h *WSHandler) HandleFeed(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	connID := h.mgr.Register(userID, conn)
	log.Printf("feed connected: user %s", userID)

	defer func() {
		h.mgr.Unregister(connID)
		log.Printf("feed disconnected: user %s", userID)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// clients only listen; reading drives pongs and close detection
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("feed read error from %s: %v", userID, err)
			}
			return
		}
	}
}

// GetConnectedUsers GET /api/v1/posts/feed/connected
func (h *WSHandler) GetConnectedUsers(c *gin.Context) {
	users := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

// GetPresence GET /api/v1/posts/feed/connected/:user_id
func (h *WSHandler) GetPresence(c *gin.Context) {
	userID := c.Param("user_id")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":      userID,
			"connected": h.mgr.IsConnected(userID),
		},
	})
}

package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Minimum spacing between actions from one client.
	actionCooldown = 100 * time.Millisecond
)

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"` // "START", "SELECT", "DELIVER", ...
	Payload json.RawMessage `json:"payload"` // Action-specific data
}

// Client represents an active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection into the game.
func (c *Client) ReadPump() {
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
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Errorf("websocket read error: %v", err)
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	// Spam guard; the game's own preconditions do the real validation.
	if time.Since(c.lastActionTime) < actionCooldown {
		c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
		return
	}
	c.lastActionTime = time.Now()

	g := c.hub.game

	switch action.Type {
	case "START":
		g.Start()

	case "SELECT":
		var parsed struct {
			Plant string `json:"plant"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			return
		}
		g.SelectPlant(parsed.Plant)

	case "CLEAR_SELECTION":
		g.ClearSelection()

	case "DELIVER":
		var parsed struct {
			OrderID uint64 `json:"order_id"`
			Plant   string `json:"plant"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			return
		}
		g.Deliver(parsed.OrderID, parsed.Plant)

	case "UNLOCK":
		var parsed struct {
			Plant string `json:"plant"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			return
		}
		g.Unlock(parsed.Plant)

	case "RESTOCK":
		var parsed struct {
			Plant      string   `json:"plant"`
			Multiplier *float64 `json:"multiplier,omitempty"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			return
		}
		if parsed.Multiplier != nil {
			g.RestockBoosted(parsed.Plant, *parsed.Multiplier)
		} else {
			g.Restock(parsed.Plant)
		}

	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
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

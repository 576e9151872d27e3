package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Progress updates carry no credentials; cross-origin dashboards
	// are expected consumers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one hub connection. conn is nil for in-process clients
// created by tests. done is closed by the hub on disconnect; the send
// channel itself is never closed, because the read pump may still try
// to queue a reply after the hub has dropped the client.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewClient creates an in-process client with a buffered send channel.
func NewClient(id string) *Client {
	return &Client{
		ID:   id,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Send exposes the client's outbound channel.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// clientMessage is an inbound control frame from a websocket client.
type clientMessage struct {
	Type  string `json:"type"` // "subscribe", "unsubscribe", "ping"
	JobID string `json:"job_id,omitempty"`
}

type serverMessage struct {
	Type  string `json:"type"`
	JobID string `json:"job_id,omitempty"`
	Error string `json:"error,omitempty"`
}

// ServeWs upgrades an HTTP request to a websocket connection and
// registers it with the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		ID:   r.URL.Query().Get("client_id"),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	h.Connect(client)

	go client.writePump()
	go client.readPump()
}

// readPump handles inbound control frames until the connection drops,
// then cleans the client out of the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c.ID)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Websocket client %s read error: %v", c.ID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(serverMessage{Type: "error", Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case "subscribe":
			if err := c.hub.Subscribe(c.ID, msg.JobID); err != nil {
				c.reply(serverMessage{Type: "error", JobID: msg.JobID, Error: err.Error()})
				continue
			}
			c.reply(serverMessage{Type: "subscribed", JobID: msg.JobID})
		case "unsubscribe":
			c.hub.Unsubscribe(c.ID, msg.JobID)
			c.reply(serverMessage{Type: "unsubscribed", JobID: msg.JobID})
		case "ping":
			c.reply(serverMessage{Type: "pong"})
		default:
			c.reply(serverMessage{Type: "error", Error: "unknown message type"})
		}
	}
}

// reply queues a control response without blocking the read loop. The
// hub may have dropped the client in the meantime, so done is checked
// first.
func (c *Client) reply(msg serverMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
	}
}

// writePump drains the send channel to the connection and keeps the
// connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.done:
			// The hub dropped this client.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

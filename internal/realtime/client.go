package realtime

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10

	sendBuffer = 64
)

// controlMessage is what clients send: subscribe, unsubscribe or ping.
type controlMessage struct {
	Action  string   `json:"action"`
	Streams []string `json:"streams"`
}

// connection is one websocket client. The hub owns streams under its lock;
// send is closed exactly once, by close.
type connection struct {
	id      string
	hub     *Hub
	socket  *websocket.Conn
	streams map[string]struct{}
	send    chan Message

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

func newConnection(hub *Hub, socket *websocket.Conn) *connection {
	return &connection{
		id:      uuid.NewString(),
		hub:     hub,
		socket:  socket,
		streams: make(map[string]struct{}),
		send:    make(chan Message, sendBuffer),
	}
}

// reply queues message without blocking. A client that cannot keep up is
// disconnected; the close runs on its own goroutine because reply may be
// called with the hub lock held.
func (c *connection) reply(message Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- message:
	default:
		c.hub.log.Warn("dropping slow client", zap.String("client", c.id))
		go c.close()
	}
}

func (c *connection) readLoop() {
	defer c.close()

	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.socket.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("connection lost", zap.String("client", c.id), zap.Error(err))
			}
			return
		}

		var ctrl controlMessage
		if err := json.NewDecoder(frame).Decode(&ctrl); err != nil {
			c.reply(Message{Event: EventError, Data: "control frames must be JSON objects"})
			continue
		}
		c.handle(ctrl)
	}
}

func (c *connection) handle(ctrl controlMessage) {
	switch action := strings.ToLower(strings.TrimSpace(ctrl.Action)); action {
	case "subscribe":
		c.reply(subscriptionAck(EventSubscribed, c.hub.subscribe(c, ctrl.Streams)))
	case "unsubscribe":
		c.reply(subscriptionAck(EventUnsubscribed, c.hub.unsubscribe(c, ctrl.Streams)))
	case "ping":
		c.reply(Message{Event: EventPong})
	default:
		c.reply(Message{Event: EventError, Data: "unsupported action " + strings.TrimSpace(ctrl.Action)})
	}
}

func (c *connection) writeLoop() {
	defer c.close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) write(kind int, payload []byte) error {
	_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return c.socket.WriteMessage(kind, payload)
}

func (c *connection) close() {
	c.once.Do(func() {
		c.hub.unregister(c)

		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		_ = c.socket.Close()
	})
}

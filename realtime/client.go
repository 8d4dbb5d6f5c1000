package realtime

import (
	"context"
	"encoding/json"
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
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client adapts one gorilla websocket connection to the hub. Lifecycle:
// NewClient -> Serve -> pumps run until the peer drops or Close is called.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan OutFrame
	id   string

	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

// NewClient wraps conn with a hub-registered client. The connection id is
// generated here; the user behind it is unknown until identify arrives.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan OutFrame, sendBufSize),
		id:   uuid.New().String(),
		done: make(chan struct{}),
	}
}

// ID implements Conn.
func (c *Client) ID() string { return c.id }

// Send implements Conn. It never blocks; a client whose buffer is full is
// considered too slow and gets closed.
func (c *Client) Send(frame OutFrame) bool {
	select {
	case c.send <- frame:
		return true
	case <-c.done:
		return false
	default:
		zap.S().Warnw("send buffer full, closing slow client", "connId", c.id)
		c.Close()
		return false
	}
}

// Serve registers the client with the hub and runs both pumps until the
// connection ends. It blocks, so handlers call it as the last step of an
// upgrade.
func (c *Client) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.hub.Register(c)
	c.wg.Add(2)
	go c.writePump(ctx)
	go c.readPump(ctx)
	c.wg.Wait()
}

// Close signals the client to stop. Safe to call multiple times from any
// goroutine.
func (c *Client) Close() {
	c.once.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) readPump(ctx context.Context) {
	defer c.wg.Done()
	defer func() {
		c.hub.Disconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		zap.S().Errorw("failed to set read deadline", "connId", c.id, "error", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.S().Errorw("websocket read error", "connId", c.id, "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			zap.S().Debugw("dropping unparseable frame", "connId", c.id, "error", err)
			continue
		}
		c.hub.HandleFrame(ctx, c, frame)
	}
}

func (c *Client) writePump(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case frame := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

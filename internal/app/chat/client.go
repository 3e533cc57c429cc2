/*
Package chat contains the realtime core of the chat room.

This file defines the Client, one websocket connection. Its read pump decodes
and validates inbound frames before handing them to the Hub; its write pump
drains the outbound queue and keeps the connection alive with pings.
*/
package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lanchat/internal/pkg/errs"
	"lanchat/internal/pkg/logx"
	"lanchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. It leaves
	// room for a MaxContentBytes text escaped as \uXXXX plus the envelope, so
	// over-long messages are rejected by DecodeInbound instead of the socket.
	maxMessageSize = 64 << 10

	// capacity of the per-client outbound queue.
	sendQueueSize = 256
)

// Client represents an active websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	id string
	ip string

	// send queues encoded frames for the write pump; guarded by mu so that it
	// is never written to after being closed.
	send   chan []byte
	mu     sync.Mutex
	closed bool

	logger zerolog.Logger
}

// NewClient wraps an upgraded websocket connection. ip is the origin address
// resolved from the upgrade request.
func NewClient(hub *Hub, wsConn *websocket.Conn, ip string) *Client {
	id := randx.ConnectionID()

	return &Client{
		hub:    hub,
		conn:   wsConn,
		id:     id,
		ip:     ip,
		send:   make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().Str("conn_id", id).Logger(),
	}
}

// ID implements Conn.
func (c *Client) ID() string { return c.id }

// IP implements Conn.
func (c *Client) IP() string { return c.ip }

// Enqueue implements Conn.
func (c *Client) Enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// CloseSend implements Conn. The write pump sends a close frame and exits
// once the queue is drained.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads frames until the connection fails, then reports the
// disconnect to the hub.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(frame)
	}
}

// cleanupOnDisconnect runs when the read pump exits.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Debug().Msg("Client connection cleanup starting.")

	c.hub.Disconnect(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage validates one frame and forwards it to the hub.
// Invalid frames are answered with an error event to this client only.
func (c *Client) processInboundMessage(frame []byte) {
	evt, customErr := DecodeInbound(frame)
	if customErr != nil {
		c.logger.Warn().
			Int("error_code", customErr.Code).
			Str("reason", customErr.Message).
			Msg("Client sent invalid event")
		c.SendError(customErr)
		return
	}

	if !c.hub.Submit(c, evt) {
		c.logger.Debug().Msg("Hub stopped. Inbound event discarded.")
	}
}

// WritePump writes queued frames to the websocket and sends periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedMessage(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one frame, or a close frame when the queue was
// closed. It returns false when the write pump should stop.
func (c *Client) writeQueuedMessage(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// SendError queues an error event for this client only.
func (c *Client) SendError(err error) {
	customErr := errs.From(err)

	frame, marshalErr := json.Marshal(Outbound{
		Event: EventError,
		Data: ErrorPayload{
			Code:    customErr.Code,
			Message: customErr.Message,
		},
	})
	if marshalErr != nil {
		c.logger.Error().Err(marshalErr).Msg("Failed to build error event")
		return
	}

	if !c.Enqueue(frame) {
		c.logger.Warn().Msg("Failed to queue error event")
	}
}

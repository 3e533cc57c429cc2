/*
Package chat contains the realtime core of the chat room.

This file defines the Hub, the single event loop of the chat room. Connection,
event and disconnect notifications from every client are queued on one channel
and handled one at a time, so each registry or history update runs to
completion before the next event is looked at.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"lanchat/internal/pkg/logx"
)

const hubEventBuffer = 1024

// Conn is the hub's view of a client connection.
type Conn interface {
	// ID returns the unique connection identifier.
	ID() string

	// IP returns the origin address resolved when the connection opened.
	IP() string

	// Enqueue queues an encoded frame without blocking. It returns false when
	// the frame was dropped.
	Enqueue(frame []byte) bool

	// CloseSend closes the outbound queue, which ends the connection.
	CloseSend()
}

type hubEventKind int

const (
	hubConnect hubEventKind = iota
	hubInbound
	hubDisconnect
)

// hubEvent is one queued notification for the event loop. Keeping all kinds on
// a single channel preserves the order in which a client produced them.
type hubEvent struct {
	kind  hubEventKind
	conn  Conn
	event InboundEvent
}

// Hub owns all connections and sessions of the chat room.
type Hub struct {
	service *Service

	// conns and sessions are only touched by the Run goroutine.
	conns    map[string]Conn
	sessions map[string]*Session

	events   chan hubEvent
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger zerolog.Logger
}

// NewHub creates a Hub whose Service works on the given registry and buffer.
func NewHub(presence *Presence, history *History) *Hub {
	h := &Hub{
		conns:    make(map[string]Conn),
		sessions: make(map[string]*Session),
		events:   make(chan hubEvent, hubEventBuffer),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logx.Component("hub"),
	}
	h.service = NewService(presence, history, hubOutbox{h})
	return h
}

// Run processes queued events until Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	h.logger.Info().Msg("Hub event loop started.")

	for {
		select {
		case ev := <-h.events:
			h.handle(ev)

		case <-h.stopChan:
			h.logger.Info().Int("open_connections", len(h.conns)).Msg("Hub stopping. Closing all connections.")
			for id, conn := range h.conns {
				conn.CloseSend()
				delete(h.conns, id)
				delete(h.sessions, id)
			}
			return
		}
	}
}

func (h *Hub) handle(ev hubEvent) {
	switch ev.kind {
	case hubConnect:
		id := ev.conn.ID()
		if _, exists := h.conns[id]; exists {
			h.logger.Warn().Str("conn_id", id).Msg("Duplicate connection id. Rejecting new connection.")
			ev.conn.CloseSend()
			return
		}

		h.conns[id] = ev.conn
		h.sessions[id] = NewSession(id, ev.conn.IP(), h.service)

		h.logger.Info().
			Str("conn_id", id).
			Str("ip", ev.conn.IP()).
			Int("open_connections", len(h.conns)).
			Msg("Connection opened.")

	case hubInbound:
		id := ev.conn.ID()
		if !h.isCurrent(ev.conn) {
			h.logger.Debug().Str("conn_id", id).Msg("Event for unknown or closed connection ignored.")
			return
		}
		h.sessions[id].Dispatch(ev.event)

	case hubDisconnect:
		id := ev.conn.ID()
		if !h.isCurrent(ev.conn) {
			return
		}

		h.sessions[id].Close()
		delete(h.sessions, id)
		delete(h.conns, id)
		ev.conn.CloseSend()

		h.logger.Info().
			Str("conn_id", id).
			Int("open_connections", len(h.conns)).
			Msg("Connection closed.")
	}
}

// isCurrent reports whether conn is the live connection registered under its id.
func (h *Hub) isCurrent(conn Conn) bool {
	current, ok := h.conns[conn.ID()]
	return ok && current == conn
}

// enqueue hands ev to the event loop. It returns false once the hub is stopping.
func (h *Hub) enqueue(ev hubEvent) bool {
	select {
	case <-h.stopChan:
		return false
	default:
	}

	select {
	case h.events <- ev:
		return true
	case <-h.stopChan:
		return false
	}
}

// Connect registers a new connection in StateConnected.
func (h *Hub) Connect(conn Conn) bool {
	return h.enqueue(hubEvent{kind: hubConnect, conn: conn})
}

// Submit queues an inbound event received on conn.
func (h *Hub) Submit(conn Conn, evt InboundEvent) bool {
	return h.enqueue(hubEvent{kind: hubInbound, conn: conn, event: evt})
}

// Disconnect queues the closing of conn. Repeated calls are harmless.
func (h *Hub) Disconnect(conn Conn) {
	h.enqueue(hubEvent{kind: hubDisconnect, conn: conn})
}

// Shutdown stops the event loop, closes every connection and waits for Run to return.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		h.logger.Info().Msg("Received stop signal. Stopping hub.")
		close(h.stopChan)
	})
	<-h.done
}

// hubOutbox is the Outbox of the hub's Service. It reads the connection map
// unlocked, so it must stay private to the Run goroutine.
type hubOutbox struct {
	h *Hub
}

func (o hubOutbox) Send(connID string, evt Outbound) {
	o.h.send(connID, evt)
}

func (o hubOutbox) Broadcast(connIDs []string, evt Outbound) {
	o.h.broadcast(connIDs, evt)
}

func (h *Hub) send(connID string, evt Outbound) {
	frame, ok := h.encode(evt)
	if !ok {
		return
	}
	h.deliver(connID, evt.Event, frame)
}

// broadcast encodes the frame once for all recipients.
func (h *Hub) broadcast(connIDs []string, evt Outbound) {
	frame, ok := h.encode(evt)
	if !ok {
		return
	}
	for _, id := range connIDs {
		h.deliver(id, evt.Event, frame)
	}
}

func (h *Hub) encode(evt Outbound) ([]byte, bool) {
	frame, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(evt.Event)).Msg("Error marshaling outbound event.")
		return nil, false
	}
	return frame, true
}

func (h *Hub) deliver(connID string, name EventName, frame []byte) {
	conn, ok := h.conns[connID]
	if !ok {
		return
	}

	if !conn.Enqueue(frame) {
		h.logger.Warn().
			Str("conn_id", connID).
			Str("event", string(name)).
			Msg("Client send queue full or closed. Event dropped.")
	}
}

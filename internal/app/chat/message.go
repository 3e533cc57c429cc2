/*
Package chat contains the realtime core of the chat room: the history buffer,
the presence registry, the broadcast service, the per-connection session state
machine, the hub event loop and the websocket client pumps.

This file defines the chat Message and the outbound wire events.
*/
package chat

import (
	"time"

	"lanchat/internal/app/user"
)

// MessageType tags the content variant carried by a Message.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeImage MessageType = "image"
	TypeFile  MessageType = "file"
)

// EventName is the name of a websocket event, used in both directions.
type EventName string

// Inbound event names.
const (
	EventJoin         EventName = "join"
	EventChatMessage  EventName = "chatMessage"
	EventImageMessage EventName = "imageMessage"
	EventFileMessage  EventName = "fileMessage"
)

// Outbound event names.
const (
	EventHistory    EventName = "history"
	EventUserJoined EventName = "userJoined"
	EventMessage    EventName = "message"
	EventUserLeft   EventName = "userLeft"
	EventError      EventName = "error"
)

// Message is one unit of chat content. It is never modified after it has been
// appended to the history.
type Message struct {
	ID   string      `json:"id"`
	Type MessageType `json:"type"`

	// Text is set for TypeText.
	Text string `json:"text,omitempty"`

	// URL and Filename are set for TypeImage and TypeFile.
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`

	// OriginalName and Size are set for TypeFile only.
	OriginalName string `json:"originalname,omitempty"`
	Size         *int64 `json:"size,omitempty"`

	// User is a copy of the sender as it was when the message was received.
	User user.User `json:"user"`

	Timestamp time.Time `json:"timestamp"`
}

// Outbound is the frame written to clients: {"event": ..., "data": ...}.
type Outbound struct {
	Event EventName `json:"event"`
	Data  any       `json:"data"`
}

// PresencePayload is the data of userJoined and userLeft events.
type PresencePayload struct {
	User        user.User   `json:"user"`
	OnlineCount int         `json:"onlineCount"`
	OnlineUsers []user.User `json:"onlineUsers"`
}

// ErrorPayload is the data of error events, sent only to the offending connection.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

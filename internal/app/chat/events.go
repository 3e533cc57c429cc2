package chat

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"lanchat/internal/pkg/errs"
)

const (
	// MaxNameLength is the maximum display name length, in characters.
	MaxNameLength = 32

	// MaxContentBytes is the maximum size of a text message, in bytes.
	MaxContentBytes = 5000
)

// InboundEvent is a decoded, validated client event. The set of
// implementations is closed: JoinEvent, ChatMessageEvent, ImageMessageEvent
// and FileMessageEvent.
type InboundEvent interface {
	eventName() EventName
}

// MessageContent is an inbound event that produces a chat Message.
type MessageContent interface {
	InboundEvent
	MessageType() MessageType
	apply(msg *Message)
}

// JoinEvent announces the identity of a connection.
type JoinEvent struct {
	Name string `json:"name"`
}

// ChatMessageEvent carries a text message.
type ChatMessageEvent struct {
	Text string `json:"text"`
}

// ImageMessageEvent references an uploaded image.
type ImageMessageEvent struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// FileMessageEvent references an uploaded file.
type FileMessageEvent struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
}

func (JoinEvent) eventName() EventName         { return EventJoin }
func (ChatMessageEvent) eventName() EventName  { return EventChatMessage }
func (ImageMessageEvent) eventName() EventName { return EventImageMessage }
func (FileMessageEvent) eventName() EventName  { return EventFileMessage }

func (ChatMessageEvent) MessageType() MessageType  { return TypeText }
func (ImageMessageEvent) MessageType() MessageType { return TypeImage }
func (FileMessageEvent) MessageType() MessageType  { return TypeFile }

func (e ChatMessageEvent) apply(msg *Message) {
	msg.Text = e.Text
}

func (e ImageMessageEvent) apply(msg *Message) {
	msg.URL = e.URL
	msg.Filename = e.Filename
}

func (e FileMessageEvent) apply(msg *Message) {
	size := e.Size
	msg.URL = e.URL
	msg.Filename = e.Filename
	msg.OriginalName = e.OriginalName
	msg.Size = &size
}

// inboundFrame is the raw {"event": ..., "data": ...} frame sent by clients.
type inboundFrame struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeInbound parses and validates one websocket frame.
func DecodeInbound(frame []byte) (InboundEvent, *errs.CustomError) {
	var raw inboundFrame
	if err := json.Unmarshal(frame, &raw); err != nil {
		return nil, errs.NewError(errs.ErrInvalidJSONFormat)
	}

	switch raw.Event {
	case EventJoin:
		var e JoinEvent
		if err := decodeData(raw, &e, true); err != nil {
			return nil, err
		}
		e.Name = strings.TrimSpace(e.Name)
		if utf8.RuneCountInString(e.Name) > MaxNameLength {
			return nil, errs.NewError(errs.ErrNameTooLong, MaxNameLength)
		}
		return e, nil

	case EventChatMessage:
		var e ChatMessageEvent
		if err := decodeData(raw, &e, false); err != nil {
			return nil, err
		}
		if strings.TrimSpace(e.Text) == "" {
			return nil, errs.NewError(errs.ErrMessageContentEmpty)
		}
		if len(e.Text) > MaxContentBytes {
			return nil, errs.NewError(errs.ErrMessageContentTooLong)
		}
		return e, nil

	case EventImageMessage:
		var e ImageMessageEvent
		if err := decodeData(raw, &e, false); err != nil {
			return nil, err
		}
		if e.URL == "" || e.Filename == "" {
			return nil, errs.NewError(errs.ErrInvalidEventPayload, raw.Event)
		}
		if err := ValidateAttachmentURL(e.URL); err != nil {
			return nil, err
		}
		if !IsImageFile(e.Filename) {
			return nil, errs.NewError(errs.ErrAttachmentInvalid)
		}
		return e, nil

	case EventFileMessage:
		var e FileMessageEvent
		if err := decodeData(raw, &e, false); err != nil {
			return nil, err
		}
		if e.URL == "" || e.Filename == "" || e.OriginalName == "" || e.Size < 0 {
			return nil, errs.NewError(errs.ErrInvalidEventPayload, raw.Event)
		}
		if err := ValidateAttachmentURL(e.URL); err != nil {
			return nil, err
		}
		return e, nil

	default:
		return nil, errs.NewError(errs.ErrUnsupportedEvent, string(raw.Event))
	}
}

// decodeData unmarshals the frame data into dst. Absent or null data is only
// accepted when optional is set.
func decodeData(raw inboundFrame, dst any, optional bool) *errs.CustomError {
	data := bytes.TrimSpace(raw.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		if optional {
			return nil
		}
		return errs.NewError(errs.ErrInvalidEventPayload, raw.Event)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return errs.NewError(errs.ErrInvalidEventPayload, raw.Event)
	}
	return nil
}

package chat

import (
	"time"

	"github.com/rs/zerolog"

	"lanchat/internal/app/user"
	"lanchat/internal/pkg/logx"
	"lanchat/internal/pkg/randx"
)

// logPreviewLength bounds how much of a text message is written to the log.
const logPreviewLength = 50

// Outbox delivers outbound events to connections. Delivery is best effort:
// implementations must not block on a slow recipient.
type Outbox interface {
	// Send delivers evt to a single connection.
	Send(connID string, evt Outbound)

	// Broadcast delivers evt to every listed connection.
	Broadcast(connIDs []string, evt Outbound)
}

// Service is the single entry point for state changes caused by client
// events. It updates the presence registry and the history buffer and fans
// the resulting events out through the Outbox.
type Service struct {
	presence *Presence
	history  *History
	out      Outbox

	now   func() time.Time
	newID func() string

	logger zerolog.Logger
}

// NewService wires a Service to its registry, buffer and outbox.
func NewService(presence *Presence, history *History, out Outbox) *Service {
	return &Service{
		presence: presence,
		history:  history,
		out:      out,
		now:      time.Now,
		newID:    randx.MessageID,
		logger:   logx.Component("broadcast"),
	}
}

// HandleJoin registers the connection, replays the history privately to it and
// then announces the join to every registered connection, the joiner included.
// The history is always enqueued before the userJoined event.
func (s *Service) HandleJoin(connID, ip string, join JoinEvent) user.User {
	u := s.presence.Register(connID, ip, join)

	s.out.Send(connID, Outbound{Event: EventHistory, Data: s.history.Snapshot()})

	online := s.presence.List()
	s.out.Broadcast(userIDs(online), Outbound{
		Event: EventUserJoined,
		Data: PresencePayload{
			User:        u,
			OnlineCount: len(online),
			OnlineUsers: online,
		},
	})

	s.logger.Info().
		Str("conn_id", connID).
		Str("user_name", u.Name).
		Str("ip", u.IP).
		Int("online_count", len(online)).
		Msg("User joined.")

	return u
}

// HandleMessage records and broadcasts a message from connID. Events from
// connections that are not registered are dropped and reported as false.
func (s *Service) HandleMessage(connID string, content MessageContent) (Message, bool) {
	sender, ok := s.presence.Get(connID)
	if !ok {
		s.logger.Debug().
			Str("conn_id", connID).
			Str("msg_type", string(content.MessageType())).
			Msg("Dropping message from unregistered connection.")
		return Message{}, false
	}

	msg := Message{
		ID:        s.newID(),
		Type:      content.MessageType(),
		User:      sender,
		Timestamp: s.now(),
	}
	content.apply(&msg)

	s.history.Append(msg)

	online := s.presence.List()
	s.out.Broadcast(userIDs(online), Outbound{Event: EventMessage, Data: msg})

	s.logger.Info().
		Str("conn_id", connID).
		Str("user_name", sender.Name).
		Str("msg_type", string(msg.Type)).
		Str("preview", preview(msg)).
		Msg("Message broadcast.")

	return msg, true
}

// HandleDisconnect removes connID from the registry and announces the leave.
// Nothing is emitted for connections that never joined.
func (s *Service) HandleDisconnect(connID string) (user.User, bool) {
	u, ok := s.presence.Remove(connID)
	if !ok {
		s.logger.Debug().Str("conn_id", connID).Msg("Connection closed before joining.")
		return user.User{}, false
	}

	online := s.presence.List()
	s.out.Broadcast(userIDs(online), Outbound{
		Event: EventUserLeft,
		Data: PresencePayload{
			User:        u,
			OnlineCount: len(online),
			OnlineUsers: online,
		},
	})

	s.logger.Info().
		Str("conn_id", connID).
		Str("user_name", u.Name).
		Str("ip", u.IP).
		Int("online_count", len(online)).
		Msg("User left.")

	return u, true
}

func userIDs(users []user.User) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func preview(msg Message) string {
	switch msg.Type {
	case TypeText:
		runes := []rune(msg.Text)
		if len(runes) > logPreviewLength {
			return string(runes[:logPreviewLength]) + "..."
		}
		return msg.Text
	case TypeFile:
		return msg.OriginalName
	default:
		return msg.Filename
	}
}

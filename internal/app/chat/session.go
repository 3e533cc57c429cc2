package chat

import (
	"github.com/rs/zerolog"

	"lanchat/internal/pkg/logx"
)

// SessionState is the lifecycle state of one connection.
type SessionState int

const (
	// StateConnected means the socket is open but no join event was processed yet.
	StateConnected SessionState = iota

	// StateJoined means the connection is registered in the presence registry.
	StateJoined

	// StateClosed is terminal; every later event is ignored.
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// Session is the state machine of a single connection:
//
//	Connected --join--> Joined --message--> Joined
//	Connected|Joined --close--> Closed
//
// It holds no chat state of its own and delegates every side effect to the
// Service. A Session is not safe for concurrent use; the Hub drives all
// sessions from its event loop.
type Session struct {
	id      string
	ip      string
	state   SessionState
	service *Service
	logger  zerolog.Logger
}

// NewSession creates a session in StateConnected for the connection id.
func NewSession(id, ip string, service *Service) *Session {
	return &Session{
		id:      id,
		ip:      ip,
		state:   StateConnected,
		service: service,
		logger:  logx.Logger().With().Str("conn_id", id).Logger(),
	}
}

// ID returns the connection identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Dispatch applies one inbound event. It reports whether the event caused any
// effect; events in the wrong state are ignored.
func (s *Session) Dispatch(evt InboundEvent) bool {
	if s.state == StateClosed {
		s.logger.Debug().Str("event", string(evt.eventName())).Msg("Ignoring event for closed session.")
		return false
	}

	switch e := evt.(type) {
	case JoinEvent:
		if s.state == StateJoined {
			s.logger.Info().Msg("Repeated join; replacing registered user.")
		}
		s.service.HandleJoin(s.id, s.ip, e)
		s.state = StateJoined
		return true

	case MessageContent:
		if s.state != StateJoined {
			s.logger.Debug().Str("event", string(evt.eventName())).Msg("Ignoring message before join.")
			return false
		}
		_, ok := s.service.HandleMessage(s.id, e)
		return ok

	default:
		s.logger.Warn().Str("event", string(evt.eventName())).Msg("Unhandled inbound event type.")
		return false
	}
}

// Close moves the session to StateClosed. Only the first call has an effect;
// it reports whether this call performed the transition.
func (s *Session) Close() bool {
	if s.state == StateClosed {
		return false
	}

	s.state = StateClosed
	s.service.HandleDisconnect(s.id)
	return true
}

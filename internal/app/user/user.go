/*
Package user contains the identity record of a chat participant.

A User is created when a connection completes its join handshake and is never
modified afterwards; messages embed a copy of it.
*/
package user

import (
	"strings"
	"time"

	"lanchat/internal/pkg/randx"
)

// UnknownIP is recorded when the origin address of a connection cannot be resolved.
const UnknownIP = "unknown"

// User represents the identity of one joined connection.
type User struct {
	// ID equals the identifier of the connection the user joined on.
	ID string `json:"id"`

	// Name is the display name, derived from ID when the client sends none.
	Name string `json:"name"`

	// IP is the best-effort origin address, resolved once when the connection opened.
	IP string `json:"ip"`

	// JoinedAt is when the join event was processed.
	JoinedAt time.Time `json:"joinedAt"`
}

// New builds the User for connID. A blank name is replaced by the default
// name derived from the connection id, and a blank ip by UnknownIP.
func New(connID, name, ip string, joinedAt time.Time) User {
	name = strings.TrimSpace(name)
	if name == "" {
		name = randx.DefaultName(connID)
	}

	if ip == "" {
		ip = UnknownIP
	}

	return User{
		ID:       connID,
		Name:     name,
		IP:       ip,
		JoinedAt: joinedAt,
	}
}

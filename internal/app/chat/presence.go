package chat

import (
	"container/list"
	"sync"
	"time"

	"lanchat/internal/app/user"
)

// Presence is the registry of joined connections, keyed by connection id and
// kept in join order.
type Presence struct {
	mu      sync.RWMutex
	entries map[string]*list.Element
	order   *list.List

	// now stamps JoinedAt; replaced in tests.
	now func() time.Time
}

// NewPresence creates an empty registry.
func NewPresence() *Presence {
	return &Presence{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Register builds the User for connID from the join event and stores it.
// Registering an id that is already present replaces the previous entry in
// place: the last join wins and JoinedAt is reset.
func (p *Presence) Register(connID, ip string, join JoinEvent) user.User {
	u := user.New(connID, join.Name, ip, p.now())

	p.mu.Lock()
	defer p.mu.Unlock()

	if el, ok := p.entries[connID]; ok {
		el.Value = u
		return u
	}

	p.entries[connID] = p.order.PushBack(u)
	return u
}

// Get returns the user registered for connID.
func (p *Presence) Get(connID string) (user.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	el, ok := p.entries[connID]
	if !ok {
		return user.User{}, false
	}
	return el.Value.(user.User), true
}

// Remove deletes and returns the entry for connID. A missing entry is a
// normal outcome for connections that never joined.
func (p *Presence) Remove(connID string) (user.User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.entries[connID]
	if !ok {
		return user.User{}, false
	}

	delete(p.entries, connID)
	return p.order.Remove(el).(user.User), true
}

// List returns the registered users in join order. The result is never nil.
func (p *Presence) List() []user.User {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := make([]user.User, 0, p.order.Len())
	for el := p.order.Front(); el != nil; el = el.Next() {
		users = append(users, el.Value.(user.User))
	}
	return users
}

// Count returns the number of registered users.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.entries)
}

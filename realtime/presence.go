package realtime

import "sync"

// PresenceTracker maps an identified user to their active connection. One
// active session per user; a second identify for the same user replaces the
// first entry.
type PresenceTracker interface {
	Register(userID, connID string)
	Unregister(connID string) bool
	Count() int
}

type memoryPresence struct {
	mu    sync.RWMutex
	users map[string]string // userID -> connID
}

// NewPresenceTracker returns an in-process presence tracker. State is lost on
// restart, which is fine for presence.
func NewPresenceTracker() PresenceTracker {
	return &memoryPresence{users: make(map[string]string)}
}

func (p *memoryPresence) Register(userID, connID string) {
	if userID == "" || connID == "" {
		return
	}
	p.mu.Lock()
	p.users[userID] = connID
	p.mu.Unlock()
}

// Unregister removes whichever user owns connID. Reports whether an entry was
// removed, so a replaced session going away does not evict its successor.
func (p *memoryPresence) Unregister(connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, id := range p.users {
		if id == connID {
			delete(p.users, userID)
			return true
		}
	}
	return false
}

func (p *memoryPresence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users)
}

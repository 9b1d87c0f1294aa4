package whitelist

import (
	"github.com/sasha-s/go-deadlock"
)

// keyedLocks serializes transition handling per (guild, user) pair. Discord
// delivers events on multiple goroutines; without this, two overlapping
// handlers for the same member could both pass the read-then-decide sequence
// and dispatch twice.
type keyedLocks struct {
	mu   deadlock.Mutex
	keys map[string]*deadlock.Mutex
}

// lock acquires the mutex for the pair and returns its release func
func (k *keyedLocks) lock(guildID, userID string) func() {
	k.mu.Lock()
	if k.keys == nil {
		k.keys = make(map[string]*deadlock.Mutex)
	}
	key := guildID + ":" + userID
	m, ok := k.keys[key]
	if !ok {
		m = &deadlock.Mutex{}
		k.keys[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

package reconciler

import "sync"

// identityLocks serializes reconciliations per purchaser identity. The store
// has no conditional update, so the read-modify-write against an account
// document must never interleave for the same identity. Entries are never
// evicted: one mutex per distinct purchaser for the process lifetime, the
// same order of growth as the purchase tally.
type identityLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newIdentityLocks() *identityLocks {
	return &identityLocks{locks: make(map[int64]*sync.Mutex)}
}

func (x *identityLocks) lock(identity int64) func() {
	x.mu.Lock()
	lock, ok := x.locks[identity]
	if !ok {
		lock = &sync.Mutex{}
		x.locks[identity] = lock
	}
	x.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

package keymutex

import "sync"

// KeyMutex provides a mutex per string key. The booking service uses it to
// serialise the availability-check-then-persist sequence for one restaurant and
// day, so two concurrent creations cannot both observe the same free capacity.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyMutex {
	return &KeyMutex{
		locks: make(map[string]*lockEntry),
	}
}

func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()

	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}

	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()

	entry, ok := k.locks[key]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
	}

	k.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}

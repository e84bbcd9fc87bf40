package lifecycle

import "sync"

// keyedMutex provides a mutual-exclusion scope per key. The offer accept
// cascade holds the property's lock for the duration of accept plus
// reject-siblings, which keeps at most one offer accepted per property
// under concurrent accepts.
//
// Locks are never evicted; the map is bounded by the number of distinct
// properties seen by this process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

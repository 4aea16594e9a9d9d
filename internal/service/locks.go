package service

import "sync"

// keyedMutex hands out one mutex per key. Keys are never evicted; the
// number of games a server tracks stays small.
type keyedMutex struct {
	mu    sync.RWMutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.RLock()
	m, ok := k.locks[key]
	k.mu.RUnlock()
	if ok {
		return m
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	// Check again in case another goroutine stored one
	// between releasing RLock and acquiring Lock.
	if m, ok := k.locks[key]; ok {
		return m
	}
	m = &sync.Mutex{}
	k.locks[key] = m
	return m
}

package service

import "sync"

// keyedMutex hands out one mutex per key. Mutexes are created on first use
// and kept for the life of the process.
type keyedMutex struct {
	locks sync.Map
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	value, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

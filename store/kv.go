// ABOUTME: Durable key-value store over BadgerDB with a process-lifetime memory fallback
// ABOUTME: Operations never surface storage errors; failures degrade to the fallback map

package store

import (
	"errors"
	"log"
	"sync"
)

// ErrNotFound reports a key absent from a healthy backend. Backends
// map their engine's not-found value to this sentinel so the KV can
// tell absence from medium failure.
var ErrNotFound = errors.New("store: key not found")

// backend is the persistent medium underneath the KV.
type backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	DropAll() error
	Close() error
}

// KV maps string keys to string values and never fails its callers.
// Badger provides persistence; when it errors, the operation falls
// through to a memory map so the session keeps working. Fallback data
// does not survive restart, and a healthy backend's "key not found" is
// answered directly without consulting the fallback.
type KV struct {
	mu       sync.RWMutex
	backend  backend
	fallback map[string]string
	degraded bool
	warnOnce sync.Once
}

// Open opens the store rooted at dir. It never fails: when badger
// cannot open the directory the store runs memory-only.
func Open(dir string) *KV {
	kv := &KV{fallback: make(map[string]string)}

	b, err := openBadger(dir)
	if err != nil {
		log.Printf("store: cannot open %s, running memory-only: %v", dir, err)
		kv.degraded = true
		return kv
	}
	kv.backend = b
	return kv
}

// newKV wires an explicit backend, for tests.
func newKV(b backend) *KV {
	return &KV{backend: b, fallback: make(map[string]string)}
}

// Get retrieves a value. The second return is false when the key is
// absent everywhere.
func (k *KV) Get(key string) (string, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.backend != nil {
		val, err := k.backend.Get(key)
		if err == nil {
			return val, true
		}
		if errors.Is(err, ErrNotFound) {
			return "", false
		}
		k.warn(err)
	}
	val, ok := k.fallback[key]
	return val, ok
}

// Set stores a value. A backend failure lands the value in the
// fallback map so the same session reads it back.
func (k *KV) Set(key, value string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.backend != nil {
		err := k.backend.Set(key, value)
		if err == nil {
			return
		}
		k.warn(err)
		k.degraded = true
	}
	k.fallback[key] = value
}

// Delete removes a key from whichever medium holds it.
func (k *KV) Delete(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.backend != nil {
		if err := k.backend.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			k.warn(err)
			k.degraded = true
		}
	}
	delete(k.fallback, key)
}

// Clear wipes both the backend and the fallback map.
func (k *KV) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.backend != nil {
		if err := k.backend.DropAll(); err != nil {
			k.warn(err)
			k.degraded = true
		}
	}
	k.fallback = make(map[string]string)
}

// Degraded reports whether the store has fallen back to memory, either
// because badger never opened or because a write failed.
func (k *KV) Degraded() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.degraded
}

// Close releases the backend. The fallback map needs no teardown.
func (k *KV) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.backend == nil {
		return nil
	}
	return k.backend.Close()
}

func (k *KV) warn(err error) {
	k.warnOnce.Do(func() {
		log.Printf("store: persistent medium failing, using memory fallback: %v", err)
	})
}

// ABOUTME: Bounded, newest-first event log buffers persisted through the KV store
// ABOUTME: System log holds 50 entries and signals changes; login log holds 200, silent

package state

import (
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/marquee/bus"
	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/store"
)

const (
	systemLogKey = "logs:system"
	loginLogKey  = "logs:login"

	systemLogMax = 50
	loginLogMax  = 200
)

// newLogID generates a ULID so entries sort by creation time even
// across restarts.
func newLogID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// SystemLog records operational errors and notices for the admin
// screen. The whole buffer is one JSON array in the store, rebuilt on
// every read; the mutex guards the read-truncate-rewrite cycle.
type SystemLog struct {
	mu  sync.Mutex
	kv  *store.KV
	bus *bus.Bus
	now func() time.Time
}

// NewSystemLog wires the system log to its store and bus.
func NewSystemLog(kv *store.KV, b *bus.Bus) *SystemLog {
	return &SystemLog{kv: kv, bus: b, now: time.Now}
}

// Append prepends a fresh entry, truncates to capacity, persists, and
// broadcasts the change.
func (l *SystemLog) Append(level, source, message string) {
	l.mu.Lock()
	entries := l.read()
	entry := models.LogEntry{
		ID:        newLogID(),
		Timestamp: l.now().UTC(),
		Level:     level,
		Source:    source,
		Message:   message,
	}
	entries = append([]models.LogEntry{entry}, entries...)
	if len(entries) > systemLogMax {
		entries = entries[:systemLogMax]
	}
	l.write(entries)
	l.mu.Unlock()

	l.bus.Publish(bus.SignalLogs)
}

// List returns entries newest first.
func (l *SystemLog) List() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

// Clear drops every entry and broadcasts the change.
func (l *SystemLog) Clear() {
	l.mu.Lock()
	l.kv.Delete(systemLogKey)
	l.mu.Unlock()

	l.bus.Publish(bus.SignalLogs)
}

func (l *SystemLog) read() []models.LogEntry {
	raw, ok := l.kv.Get(systemLogKey)
	if !ok {
		return []models.LogEntry{}
	}
	var entries []models.LogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// A corrupt buffer is not worth failing over; start fresh.
		log.Printf("state: system log blob unreadable, starting empty: %v", err)
		return []models.LogEntry{}
	}
	return entries
}

func (l *SystemLog) write(entries []models.LogEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("state: cannot serialize system log: %v", err)
		return
	}
	l.kv.Set(systemLogKey, string(data))
}

// LoginLog records admin sign-in attempts. The admin surface polls it,
// so appends do not broadcast.
type LoginLog struct {
	mu  sync.Mutex
	kv  *store.KV
	now func() time.Time
}

// NewLoginLog wires the login log to its store.
func NewLoginLog(kv *store.KV) *LoginLog {
	return &LoginLog{kv: kv, now: time.Now}
}

// Record prepends a fresh attempt and truncates to capacity.
func (l *LoginLog) Record(username, remoteAddr string, success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.read()
	entry := models.LoginLogEntry{
		ID:         newLogID(),
		Timestamp:  l.now().UTC(),
		Username:   username,
		RemoteAddr: remoteAddr,
		Success:    success,
	}
	entries = append([]models.LoginLogEntry{entry}, entries...)
	if len(entries) > loginLogMax {
		entries = entries[:loginLogMax]
	}
	l.write(entries)
}

// List returns attempts newest first.
func (l *LoginLog) List() []models.LoginLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

// Clear drops every recorded attempt.
func (l *LoginLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kv.Delete(loginLogKey)
}

func (l *LoginLog) read() []models.LoginLogEntry {
	raw, ok := l.kv.Get(loginLogKey)
	if !ok {
		return []models.LoginLogEntry{}
	}
	var entries []models.LoginLogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("state: login log blob unreadable, starting empty: %v", err)
		return []models.LoginLogEntry{}
	}
	return entries
}

func (l *LoginLog) write(entries []models.LoginLogEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("state: cannot serialize login log: %v", err)
		return
	}
	l.kv.Set(loginLogKey, string(data))
}

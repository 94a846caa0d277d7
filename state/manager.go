// ABOUTME: Configuration persistence manager with migration and corruption recovery
// ABOUTME: Load never fails; corrupt blobs boot the default config in safe mode

package state

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/harperreed/marquee/bus"
	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/store"
)

// configKey is the single blob the whole configuration lives under.
const configKey = "display:config"

// CorruptError explains why a stored blob could not be trusted. It
// never escapes Load; the public boundary always returns a usable
// configuration.
type CorruptError struct {
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt configuration: %s", e.Reason)
}

// Manager owns the canonical display configuration. Its mutex is the
// read-modify-write guard for concurrent callers; the whole config is
// always rewritten as one blob, never field by field.
type Manager struct {
	mu     sync.Mutex
	kv     *store.KV
	bus    *bus.Bus
	syslog *SystemLog
}

// NewManager wires the manager to its store, bus, and system log.
func NewManager(kv *store.KV, b *bus.Bus, syslog *SystemLog) *Manager {
	return &Manager{kv: kv, bus: b, syslog: syslog}
}

// Load returns the stored configuration, migrated to the current
// schema. It never fails: an absent blob yields the default, and a
// corrupt one yields the default flagged SafeMode with one system log
// entry recording why.
func (m *Manager) Load() *models.DisplayConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Save stamps, serializes, and stores the configuration, then
// broadcasts the change. Failures are logged and swallowed so callers
// never handle a persistence error.
func (m *Manager) Save(cfg *models.DisplayConfig) {
	m.mu.Lock()
	saved := m.save(cfg)
	m.mu.Unlock()
	if saved {
		m.bus.Publish(bus.SignalConfig)
	}
}

// Update applies fn to the current configuration and saves the result,
// all under the manager's lock. Concurrent editors go through here so
// neither loses the other's fields.
func (m *Manager) Update(fn func(cfg *models.DisplayConfig)) *models.DisplayConfig {
	m.mu.Lock()
	cfg := m.load()
	fn(cfg)
	saved := m.save(cfg)
	m.mu.Unlock()
	if saved {
		m.bus.Publish(bus.SignalConfig)
	}
	return cfg
}

// Reset discards the stored configuration; the next Load boots the
// default.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.kv.Delete(configKey)
	m.mu.Unlock()
	m.bus.Publish(bus.SignalConfig)
}

func (m *Manager) load() *models.DisplayConfig {
	raw, ok := m.kv.Get(configKey)
	if !ok {
		return models.DefaultConfig()
	}

	cfg, err := Decode(raw)
	if err != nil {
		m.syslog.Append(models.LevelError, "config",
			fmt.Sprintf("stored configuration rejected: %v; booting default in safe mode", err))
		fallback := models.DefaultConfig()
		fallback.SafeMode = true
		return fallback
	}
	return cfg
}

func (m *Manager) save(cfg *models.DisplayConfig) bool {
	cfg.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cfg)
	if err != nil {
		log.Printf("state: cannot serialize configuration, keeping previous blob: %v", err)
		return false
	}

	m.kv.Set(configKey, string(data))
	cfg.SafeMode = false
	return true
}

// Decode parses, validates, and migrates a raw configuration blob.
// The import and migration tools share it with Load. Errors are always
// *CorruptError so callers can report the reason.
func Decode(raw string) (*models.DisplayConfig, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &CorruptError{Reason: fmt.Sprintf("unparsable JSON: %v", err)}
	}
	// "null" unmarshals without error but carries nothing.
	if parsed == nil {
		return nil, &CorruptError{Reason: "null configuration"}
	}

	for _, key := range []string{"pages", "theme", "schoolName"} {
		if _, ok := parsed[key]; !ok {
			return nil, &CorruptError{Reason: fmt.Sprintf("missing required field %q", key)}
		}
	}

	Migrate(parsed)

	migrated, err := json.Marshal(parsed)
	if err != nil {
		return nil, &CorruptError{Reason: fmt.Sprintf("unserializable after migration: %v", err)}
	}

	var cfg models.DisplayConfig
	if err := json.Unmarshal(migrated, &cfg); err != nil {
		return nil, &CorruptError{Reason: fmt.Sprintf("undecodable after migration: %v", err)}
	}

	// Volatile, recomputed every load; a successful decode is never
	// safe mode.
	cfg.SafeMode = false
	return &cfg, nil
}

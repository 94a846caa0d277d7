// ABOUTME: Shared command wiring for the display CLI
// ABOUTME: Opens the store once and hands every command the same collaborators
package cli

import (
	"github.com/harperreed/marquee/bus"
	"github.com/harperreed/marquee/state"
	"github.com/harperreed/marquee/store"
)

// App carries the collaborators every command works against.
type App struct {
	KV       *store.KV
	Bus      *bus.Bus
	SysLog   *state.SystemLog
	LoginLog *state.LoginLog
	Config   *state.Manager
}

// NewApp opens the store under dataDir and wires the config manager,
// bus, and log buffers. Opening never fails; a broken data directory
// leaves the store degraded and memory-backed.
func NewApp(dataDir string) *App {
	kv := store.Open(dataDir)
	b := bus.New()
	syslog := state.NewSystemLog(kv, b)

	return &App{
		KV:       kv,
		Bus:      b,
		SysLog:   syslog,
		LoginLog: state.NewLoginLog(kv),
		Config:   state.NewManager(kv, b, syslog),
	}
}

func (a *App) Close() error {
	return a.KV.Close()
}

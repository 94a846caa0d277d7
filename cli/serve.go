// ABOUTME: HTTP server subcommand
// ABOUTME: Serves the kiosk and admin JSON API plus the WebSocket fanout
package cli

import (
	"flag"
	"log"
	"os"

	"github.com/harperreed/marquee/remote"
	"github.com/harperreed/marquee/web"
)

// ServeCommand runs the display server until the listener fails.
func ServeCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8080, "HTTP port")
	password := fs.String("admin-password", "", "Admin password (default: MARQUEE_ADMIN_PASSWORD)")
	_ = fs.Parse(args)

	pass := *password
	if pass == "" {
		pass = os.Getenv("MARQUEE_ADMIN_PASSWORD")
	}
	if pass == "" {
		log.Println("No admin password configured; admin login is disabled")
	}

	if app.KV.Degraded() {
		log.Println("WARNING: persistent store unavailable, serving from memory only")
	}

	fetcher := remote.NewFetcher(app.KV)
	server := web.NewServer(web.Options{
		Config:        app.Config,
		SystemLog:     app.SysLog,
		LoginLog:      app.LoginLog,
		Weather:       remote.NewWeatherClient(fetcher),
		News:          remote.NewNewsClient(fetcher),
		Widgets:       remote.NewWidgetClient(fetcher),
		Store:         app.KV,
		Bus:           app.Bus,
		AdminPassword: pass,
	})

	return server.Start(*port)
}

// ABOUTME: HTTP API server for the kiosk display and admin editor
// ABOUTME: JSON endpoints over the config manager, log buffers, and cached feeds

package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/harperreed/marquee/bus"
	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/remote"
	"github.com/harperreed/marquee/state"
	"github.com/harperreed/marquee/store"
)

// Options carries the server's collaborators, wired by the serve
// command.
type Options struct {
	Config        *state.Manager
	SystemLog     *state.SystemLog
	LoginLog      *state.LoginLog
	Weather       *remote.WeatherClient
	News          *remote.NewsClient
	Widgets       *remote.WidgetClient
	Store         *store.KV
	Bus           *bus.Bus
	AdminPassword string
}

type Server struct {
	config   *state.Manager
	syslog   *state.SystemLog
	logins   *state.LoginLog
	weather  *remote.WeatherClient
	news     *remote.NewsClient
	widgets  *remote.WidgetClient
	kv       *store.KV
	hub      *Hub
	password string
}

// NewServer builds the server and bridges the bus to the WebSocket
// hub, so every config save and log append reaches connected screens.
func NewServer(opts Options) *Server {
	s := &Server{
		config:   opts.Config,
		syslog:   opts.SystemLog,
		logins:   opts.LoginLog,
		weather:  opts.Weather,
		news:     opts.News,
		widgets:  opts.Widgets,
		kv:       opts.Store,
		hub:      NewHub(),
		password: opts.AdminPassword,
	}
	s.hub.Start()

	if opts.Bus != nil {
		opts.Bus.Subscribe(bus.SignalConfig, func() { s.hub.Notify(bus.SignalConfig) })
		opts.Bus.Subscribe(bus.SignalLogs, func() { s.hub.Notify(bus.SignalLogs) })
	}
	return s
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/display", s.handleDisplay)
	mux.HandleFunc("/api/weather", s.handleWeather)
	mux.HandleFunc("/api/news", s.handleNews)
	mux.HandleFunc("/api/widgets", s.handleWidgets)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logs", s.handleLogs)
	mux.HandleFunc("/api/logins", s.handleLogins)
	mux.HandleFunc("/ws", s.hub.ServeWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start serves the API on the given port until the listener fails.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting display server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: error writing response: %v", err)
	}
}

// configResponse carries the volatile safe-mode flag beside the
// config, which never serializes it itself.
type configResponse struct {
	Config   *models.DisplayConfig `json:"config"`
	SafeMode bool                  `json:"safeMode"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg := s.config.Load()
		s.writeJSON(w, http.StatusOK, configResponse{Config: cfg, SafeMode: cfg.SafeMode})

	case http.MethodPut:
		var cfg models.DisplayConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "Invalid config JSON", http.StatusBadRequest)
			return
		}
		s.config.Save(&cfg)
		s.writeJSON(w, http.StatusOK, configResponse{Config: &cfg, SafeMode: cfg.SafeMode})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// displayResponse is everything the kiosk needs for one render pass.
type displayResponse struct {
	Config    *models.DisplayConfig `json:"config"`
	SafeMode  bool                  `json:"safeMode"`
	Weather   *models.WeatherReport `json:"weather"`
	Headlines []models.Headline     `json:"headlines"`
	Widgets   []models.WidgetValue  `json:"widgets"`
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.config.Load()
	resp := displayResponse{
		Config:    cfg,
		SafeMode:  cfg.SafeMode,
		Headlines: []models.Headline{},
		Widgets:   []models.WidgetValue{},
	}

	ctx := r.Context()
	if cfg.Weather.Latitude != 0 || cfg.Weather.Longitude != 0 {
		resp.Weather, _ = s.weather.Current(ctx, cfg.Weather)
	}
	if headlines, status := s.news.Headlines(ctx, cfg.NewsFeedURL); status != remote.StatusMiss {
		resp.Headlines = headlines
	}
	resp.Widgets = s.widgets.ResolveAll(ctx, cfg.Widgets)

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.config.Load()
	if cfg.Weather.Latitude == 0 && cfg.Weather.Longitude == 0 {
		http.Error(w, "No weather location configured", http.StatusNotFound)
		return
	}

	report, status := s.weather.Current(r.Context(), cfg.Weather)
	if status == remote.StatusMiss {
		http.Error(w, "Weather unavailable", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.config.Load()
	headlines, status := s.news.Headlines(r.Context(), cfg.NewsFeedURL)
	if status == remote.StatusMiss || headlines == nil {
		headlines = []models.Headline{}
	}
	s.writeJSON(w, http.StatusOK, headlines)
}

func (s *Server) handleWidgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.config.Load()
	s.writeJSON(w, http.StatusOK, s.widgets.ResolveAll(r.Context(), cfg.Widgets))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid login JSON", http.StatusBadRequest)
		return
	}

	// An unset password never matches, so a misconfigured box fails
	// closed rather than open.
	success := s.password != "" && req.Password == s.password
	s.logins.Record(req.Username, r.RemoteAddr, success)

	status := http.StatusOK
	if !success {
		status = http.StatusUnauthorized
	}
	s.writeJSON(w, status, map[string]bool{"ok": success})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.syslog.List())

	case http.MethodDelete:
		s.syslog.Clear()
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.logins.List())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"degraded": s.kv.Degraded(),
	})
}

// ABOUTME: Tests for the JSON API server
// ABOUTME: Drives every endpoint over httptest with a real store behind it

package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/marquee/bus"
	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/remote"
	"github.com/harperreed/marquee/state"
	"github.com/harperreed/marquee/store"
)

type testEnv struct {
	srv    *Server
	ts     *httptest.Server
	kv     *store.KV
	bus    *bus.Bus
	config *state.Manager
	syslog *state.SystemLog
	logins *state.LoginLog
}

func newTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()

	kv, kvCleanup := store.NewTestKV(t)
	b := bus.New()
	syslog := state.NewSystemLog(kv, b)
	logins := state.NewLoginLog(kv)
	manager := state.NewManager(kv, b, syslog)
	fetcher := remote.NewFetcher(kv)

	srv := NewServer(Options{
		Config:        manager,
		SystemLog:     syslog,
		LoginLog:      logins,
		Weather:       remote.NewWeatherClient(fetcher),
		News:          remote.NewNewsClient(fetcher),
		Widgets:       remote.NewWidgetClient(fetcher),
		Store:         kv,
		Bus:           b,
		AdminPassword: "hunter2",
	})
	ts := httptest.NewServer(srv.Handler())

	env := &testEnv{
		srv:    srv,
		ts:     ts,
		kv:     kv,
		bus:    b,
		config: manager,
		syslog: syslog,
		logins: logins,
	}
	return env, func() {
		ts.Close()
		kvCleanup()
	}
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, data
}

func TestConfigRoundTrip(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/api/config", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got configResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotNil(t, got.Config)
	assert.Equal(t, "Our School", got.Config.SchoolName)
	assert.False(t, got.SafeMode)

	got.Config.SchoolName = "Northside Elementary"
	resp, _ = doJSON(t, http.MethodPut, env.ts.URL+"/api/config", got.Config)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, env.ts.URL+"/api/config", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Northside Elementary", got.Config.SchoolName)
	assert.False(t, got.Config.UpdatedAt.IsZero(), "save must stamp the config")
}

func TestConfigPutRejectsBadJSON(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	req, err := http.NewRequest(http.MethodPut, env.ts.URL+"/api/config", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConfigReportsSafeMode(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	env.kv.Set("display:config", "{this is not json")

	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/api/config", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got configResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.SafeMode)
	assert.Equal(t, "Our School", got.Config.SchoolName, "safe mode serves the default config")

	// The rejection must be visible in the system log too.
	resp, body = doJSON(t, http.MethodGet, env.ts.URL+"/api/logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []models.LogEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, models.LevelError, entries[0].Level)
}

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>District News</title>
<item><title>Spring concert moved to Friday</title><link>https://example.edu/concert</link></item>
<item><title>Report cards go home Monday</title></item>
</channel></rss>`

func TestDisplayAggregatesFeeds(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current":{"temperature_2m":21.5,"weather_code":0,"wind_speed_10m":8}}`)
	}))
	defer weatherSrv.Close()

	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testFeedXML)
	}))
	defer feedSrv.Close()

	widgetSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"lunch":{"count":412}}`)
	}))
	defer widgetSrv.Close()

	env.srv.weather.BaseURL = weatherSrv.URL
	cfg := env.config.Load()
	cfg.Weather = models.WeatherSpot{Latitude: 41.8781, Longitude: -87.6298}
	cfg.NewsFeedURL = feedSrv.URL
	cfg.Widgets = []models.CustomWidget{{
		ID:        uuid.New(),
		Name:      "Lunches served",
		URL:       widgetSrv.URL,
		ValuePath: "lunch.count",
		Suffix:    " meals",
		Fallback:  "n/a",
	}}
	env.config.Save(cfg)

	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/api/display", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got displayResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotNil(t, got.Weather)
	assert.Equal(t, 21.5, got.Weather.TemperatureC)
	assert.Equal(t, "Clear sky", got.Weather.Description)
	require.Len(t, got.Headlines, 2)
	assert.Equal(t, "Spring concert moved to Friday", got.Headlines[0].Title)
	require.Len(t, got.Widgets, 1)
	assert.Equal(t, "412 meals", got.Widgets[0].Value)
}

func TestDisplayServesWithoutRemotes(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	// Default config: no weather spot, no feed, no widgets. The kiosk
	// still gets a complete payload.
	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/api/display", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got displayResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotNil(t, got.Config)
	assert.Nil(t, got.Weather)
	assert.Empty(t, got.Headlines)
	assert.Empty(t, got.Widgets)
}

func TestWeatherEndpoint(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	resp, _ := doJSON(t, http.MethodGet, env.ts.URL+"/api/weather", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no location configured")

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current":{"temperature_2m":-3,"weather_code":73,"wind_speed_10m":20}}`)
	}))
	defer weatherSrv.Close()

	env.srv.weather.BaseURL = weatherSrv.URL
	cfg := env.config.Load()
	cfg.Weather = models.WeatherSpot{Latitude: 44.98, Longitude: -93.27}
	env.config.Save(cfg)

	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/api/weather", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report models.WeatherReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "Snow", report.Description)
}

func TestNewsEndpointEmptyWithoutFeed(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/api/news", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
}

func TestLoginRecordsAttempts(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	resp, body := doJSON(t, http.MethodPost, env.ts.URL+"/api/login",
		map[string]string{"username": "principal", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"ok":false}`, string(body))

	resp, body = doJSON(t, http.MethodPost, env.ts.URL+"/api/login",
		map[string]string{"username": "principal", "password": "hunter2"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	resp, body = doJSON(t, http.MethodGet, env.ts.URL+"/api/logins", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var attempts []models.LoginLogEntry
	require.NoError(t, json.Unmarshal(body, &attempts))
	require.Len(t, attempts, 2)
	assert.True(t, attempts[0].Success, "newest attempt first")
	assert.False(t, attempts[1].Success)
	assert.Equal(t, "principal", attempts[0].Username)
	assert.NotEmpty(t, attempts[0].RemoteAddr)
}

func TestLogsLifecycle(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	env.syslog.Append(models.LevelWarning, "remote", "feed fetch failed")
	env.syslog.Append(models.LevelInfo, "config", "configuration saved")

	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/api/logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []models.LogEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "configuration saved", entries[0].Message, "newest first")

	resp, _ = doJSON(t, http.MethodDelete, env.ts.URL+"/api/logs", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, env.ts.URL+"/api/logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
}

func TestHealthz(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	resp, body := doJSON(t, http.MethodGet, env.ts.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status   string `json:"status"`
		Degraded bool   `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Degraded)
}

func TestMethodNotAllowed(t *testing.T) {
	env, cleanup := newTestServer(t)
	defer cleanup()

	resp, _ := doJSON(t, http.MethodDelete, env.ts.URL+"/api/config", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, env.ts.URL+"/api/login", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, env.ts.URL+"/api/logins", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// ABOUTME: Tests for the cached weather client and WMO code mapping
// ABOUTME: Uses a fake Open-Meteo endpoint to exercise the ladder per location

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/marquee/models"
)

func TestWeatherCurrent(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		fmt.Fprint(w, `{"current":{"temperature_2m":18.4,"weather_code":61,"wind_speed_10m":12.5}}`)
	}))
	defer srv.Close()

	wc := NewWeatherClient(f)
	wc.BaseURL = srv.URL

	spot := models.WeatherSpot{Latitude: 41.8781, Longitude: -87.6298, Label: "Chicago"}
	report, status := wc.Current(context.Background(), spot)

	require.NotNil(t, report)
	assert.Equal(t, StatusLive, status)
	assert.Equal(t, 18.4, report.TemperatureC)
	assert.Equal(t, 12.5, report.WindKmh)
	assert.Equal(t, 61, report.Code)
	assert.Equal(t, "Rain", report.Description)
	assert.False(t, report.FetchedAt.IsZero())

	// Within TTL the cache answers.
	_, status = wc.Current(context.Background(), spot)
	assert.Equal(t, StatusFresh, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWeatherKeyedByLocation(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"current":{"temperature_2m":5,"weather_code":0,"wind_speed_10m":3}}`)
	}))
	defer srv.Close()

	wc := NewWeatherClient(f)
	wc.BaseURL = srv.URL

	ctx := context.Background()
	wc.Current(ctx, models.WeatherSpot{Latitude: 41.88, Longitude: -87.63})
	wc.Current(ctx, models.WeatherSpot{Latitude: 44.98, Longitude: -93.27})

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls),
		"a relocated display must not reuse the old town's cache entry")
}

func TestWeatherMissWhenUnreachable(t *testing.T) {
	f, _, cleanup := newTestFetcher(t)
	defer cleanup()

	wc := NewWeatherClient(f)
	wc.BaseURL = deadURL(t)

	report, status := wc.Current(context.Background(), models.WeatherSpot{Latitude: 1, Longitude: 2})

	assert.Nil(t, report)
	assert.Equal(t, StatusMiss, status)
}

func TestWeatherDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{2, "Partly cloudy"},
		{3, "Overcast"},
		{45, "Fog"},
		{53, "Drizzle"},
		{65, "Rain"},
		{73, "Snow"},
		{81, "Rain showers"},
		{86, "Snow showers"},
		{95, "Thunderstorm"},
		{39, "Unsettled"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, weatherDescription(tt.code), "code %d", tt.code)
	}
}

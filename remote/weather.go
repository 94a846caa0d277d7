// ABOUTME: Cached weather conditions for the configured display location
// ABOUTME: Decodes Open-Meteo current conditions into the kiosk's report shape

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/marquee/models"
)

// weatherTTL keeps conditions for ten minutes; hallway screens do not
// need minute-level weather.
const weatherTTL = 10 * time.Minute

// WeatherClient fetches current conditions through the cache ladder.
// Open-Meteo needs no API key, which suits an unattended kiosk box.
type WeatherClient struct {
	fetcher *Fetcher

	// BaseURL is swappable for tests.
	BaseURL string
}

// NewWeatherClient returns a client over the shared fetcher.
func NewWeatherClient(f *Fetcher) *WeatherClient {
	return &WeatherClient{fetcher: f, BaseURL: "https://api.open-meteo.com"}
}

type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Current returns the conditions at spot. A nil report with StatusMiss
// means the ladder came up empty and the kiosk should omit the widget.
func (w *WeatherClient) Current(ctx context.Context, spot models.WeatherSpot) (*models.WeatherReport, Status) {
	// The key carries the coordinates so a relocated display never
	// serves another town's forecast from cache.
	key := fmt.Sprintf("weather:%.4f,%.4f", spot.Latitude, spot.Longitude)
	url := fmt.Sprintf("%s/v1/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,weather_code,wind_speed_10m",
		w.BaseURL, spot.Latitude, spot.Longitude)

	var report models.WeatherReport
	status := w.fetcher.fetch(ctx, key, url, weatherTTL, w.decode, &report)
	if status == StatusMiss {
		return nil, status
	}
	return &report, status
}

// decode turns an Open-Meteo body into the canonical cached report.
func (w *WeatherClient) decode(body []byte) (json.RawMessage, error) {
	var resp openMeteoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	report := models.WeatherReport{
		TemperatureC: resp.Current.Temperature,
		WindKmh:      resp.Current.WindSpeed,
		Code:         resp.Current.WeatherCode,
		Description:  weatherDescription(resp.Current.WeatherCode),
		FetchedAt:    w.fetcher.now().UTC(),
	}
	return json.Marshal(report)
}

// weatherDescription maps WMO weather codes to display text.
func weatherDescription(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm"
	}
	return "Unsettled"
}

// ABOUTME: Data models for the hallway display configuration
// ABOUTME: Defines DisplayConfig, its collection entities, and the persisted log shapes
package models

import (
	"time"

	"github.com/google/uuid"
)

// DisplayConfig is the canonical application state: everything the
// kiosk needs to render and everything the admin editor can change.
// It is persisted as a single JSON blob and always rewritten whole.
type DisplayConfig struct {
	SchoolName    string         `json:"schoolName"`
	Theme         Theme          `json:"theme"`
	Pages         []Page         `json:"pages"`
	Announcements []Announcement `json:"announcements"`
	Events        []Event        `json:"events"`
	Ticker        []string       `json:"ticker"`
	NewsFeedURL   string         `json:"newsFeedUrl,omitempty"`
	Widgets       []CustomWidget `json:"widgets"`
	Contact       Contact        `json:"contact"`
	Social        Social         `json:"social"`
	Weather       WeatherSpot    `json:"weather"`
	Alert         AlertState     `json:"alert"`
	CameraURLs    []string       `json:"cameraUrls"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	// SafeMode is volatile: recomputed on every load, true only when
	// the stored blob was corrupt, and never part of the durable form.
	SafeMode bool `json:"-"`
}

type Announcement struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	Priority  int        `json:"priority,omitempty"`
	Pinned    bool       `json:"pinned,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the announcement should no longer display.
func (a *Announcement) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
}

// Finished reports whether the event is in the past.
func (e *Event) Finished(now time.Time) bool {
	if e.EndsAt != nil {
		return now.After(*e.EndsAt)
	}
	return now.After(e.StartsAt)
}

type Page struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	DurationSeconds int       `json:"durationSeconds,omitempty"`
	Body            string    `json:"body,omitempty"`
}

// Page type constants. Unknown types normalize to PageStandard.
const (
	PageStandard      = "standard"
	PageAnnouncements = "announcements"
	PageEvents        = "events"
	PageMedia         = "media"
	PageWeather       = "weather"
	PageCustom        = "custom"
)

// KnownPageType reports whether t is one of the defined page types.
func KnownPageType(t string) bool {
	switch t {
	case PageStandard, PageAnnouncements, PageEvents, PageMedia, PageWeather, PageCustom:
		return true
	}
	return false
}

// CustomWidget describes an external JSON value rendered on the
// display: poll URL, dot path into the response, and a fallback string
// for when the retrieval ladder comes up empty.
type CustomWidget struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	ValuePath  string    `json:"valuePath,omitempty"`
	Suffix     string    `json:"suffix,omitempty"`
	TTLSeconds int       `json:"ttlSeconds,omitempty"`
	Fallback   string    `json:"fallback,omitempty"`
}

// TTL returns the widget's refresh window, defaulting when unset.
func (w *CustomWidget) TTL() time.Duration {
	if w.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(w.TTLSeconds) * time.Second
}

type Theme struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	Mode            string `json:"mode,omitempty"`
}

type WeatherSpot struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label,omitempty"`
}

type AlertState struct {
	Active    bool      `json:"active"`
	Level     string    `json:"level,omitempty"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Alert level constants.
const (
	AlertInfo      = "info"
	AlertWarning   = "warning"
	AlertEmergency = "emergency"
)

type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Social struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// LogEntry is one row of the system log ring buffer.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}

// Log level constants.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// LoginLogEntry is one row of the login attempt ring buffer.
type LoginLogEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Username   string    `json:"username"`
	RemoteAddr string    `json:"remoteAddr,omitempty"`
	Success    bool      `json:"success"`
}

// WeatherReport is the decoded shape served to the kiosk.
type WeatherReport struct {
	TemperatureC float64   `json:"temperatureC"`
	WindKmh      float64   `json:"windKmh"`
	Code         int       `json:"code"`
	Description  string    `json:"description"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// Headline is one news item served to the kiosk ticker.
type Headline struct {
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	Published string `json:"published,omitempty"`
}

// WidgetValue is a resolved custom widget reading.
type WidgetValue struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Value string    `json:"value"`
	Stale bool      `json:"stale,omitempty"`
}

// ABOUTME: Hardcoded boot fallback configuration
// ABOUTME: The display always has something renderable, even with no stored state
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultConfig returns the configuration the display boots into when
// nothing is stored or the stored blob is corrupt. Collections are
// non-nil so the persisted form always carries the keys structural
// validation requires.
func DefaultConfig() *DisplayConfig {
	return &DisplayConfig{
		SchoolName: "Our School",
		Theme: Theme{
			PrimaryColor:    "#1d3557",
			SecondaryColor:  "#e63946",
			BackgroundColor: "#f1faee",
			TextColor:       "#1d3557",
			FontFamily:      "sans-serif",
			Mode:            "light",
		},
		Pages: []Page{
			{
				ID:              uuid.New(),
				Title:           "Welcome",
				Type:            PageStandard,
				DurationSeconds: 15,
				Body:            "Welcome to our school.",
			},
		},
		Announcements: []Announcement{},
		Events:        []Event{},
		Ticker:        []string{},
		Widgets:       []CustomWidget{},
		CameraURLs:    []string{},
		UpdatedAt:     time.Now().UTC(),
	}
}

// ABOUTME: Display-domain tasks built on the text-generation client
// ABOUTME: Copy rewriting, theme synthesis, and bulletin extraction from raw text

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/marquee/models"
)

// RewriteCopy rewrites text for the hallway display in the requested
// tone, keeping it short enough to read across a corridor.
func RewriteCopy(ctx context.Context, c Client, text, tone string) (string, error) {
	if tone == "" {
		tone = "friendly and clear"
	}
	prompt := fmt.Sprintf(
		"Rewrite the following school display text so it is %s. Keep it under 40 words, no emoji, plain text only.\n\n%s",
		tone, text)

	out, err := c.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(out), `"`), nil
}

// SuggestTheme synthesizes a display palette from a plain description
// like "forest greens, calm, readable from far away".
func SuggestTheme(ctx context.Context, c Client, description string) (*models.Theme, error) {
	prompt := fmt.Sprintf(
		"Design a color theme for a school hallway display described as: %s. "+
			`Respond with a JSON object with keys "primaryColor", "secondaryColor", "backgroundColor", "textColor" (hex color strings), "fontFamily" (a common CSS font family), and "mode" ("light" or "dark").`,
		description)

	var theme models.Theme
	if err := c.GenerateJSON(ctx, prompt, &theme); err != nil {
		return nil, err
	}
	if theme.PrimaryColor == "" {
		return nil, fmt.Errorf("%w: theme missing primaryColor", ErrGenerationFailed)
	}
	return &theme, nil
}

// Bulletins is the structured content extracted from a document.
type Bulletins struct {
	Announcements []BulletinAnnouncement `json:"announcements"`
	Events        []BulletinEvent        `json:"events"`
}

type BulletinAnnouncement struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type BulletinEvent struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// ToModel assigns identity to an extracted announcement.
func (b BulletinAnnouncement) ToModel(now time.Time) models.Announcement {
	return models.Announcement{
		ID:        uuid.New(),
		Title:     b.Title,
		Body:      b.Body,
		CreatedAt: now,
	}
}

// ToModel assigns identity to an extracted event, parsing whatever
// date the model produced; undated events sort to the zero time and
// the editor fixes them up.
func (b BulletinEvent) ToModel() models.Event {
	e := models.Event{
		ID:       uuid.New(),
		Title:    b.Title,
		Location: b.Location,
	}
	if ts, err := time.Parse("2006-01-02 15:04", b.Date+" "+b.Time); err == nil {
		e.StartsAt = ts
	} else if d, err := time.Parse("2006-01-02", b.Date); err == nil {
		e.StartsAt = d
	}
	return e
}

// ExtractBulletins pulls announcements and events out of raw document
// text, typically a pasted newsletter or an extracted PDF.
func ExtractBulletins(ctx context.Context, c Client, text string) (*Bulletins, error) {
	prompt := fmt.Sprintf(
		`Extract school announcements and calendar events from the document below. Respond with a JSON object: `+
			`{"announcements":[{"title":"...","body":"..."}],"events":[{"title":"...","location":"...","date":"YYYY-MM-DD","time":"HH:MM"}]}. `+
			`Use empty strings for unknown fields. Do not invent content that is not in the document.`+
			"\n\nDOCUMENT:\n%s", text)

	var b Bulletins
	if err := c.GenerateJSON(ctx, prompt, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ABOUTME: Tests for display config model behavior
// ABOUTME: Covers expiry helpers, page type checks, and the volatile safe-mode field
package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAnnouncementExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	a := Announcement{Title: "Spirit Week"}
	if a.Expired(now) {
		t.Error("announcement without expiry should never expire")
	}

	a.ExpiresAt = &future
	if a.Expired(now) {
		t.Error("announcement expiring in the future should not be expired")
	}

	a.ExpiresAt = &past
	if !a.Expired(now) {
		t.Error("announcement past its expiry should be expired")
	}
}

func TestEventFinished(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	e := Event{Title: "Assembly", StartsAt: now.Add(time.Hour)}
	if e.Finished(now) {
		t.Error("future event should not be finished")
	}

	end := now.Add(-time.Minute)
	e.StartsAt = now.Add(-2 * time.Hour)
	e.EndsAt = &end
	if !e.Finished(now) {
		t.Error("event past its end time should be finished")
	}
}

func TestKnownPageType(t *testing.T) {
	for _, pt := range []string{PageStandard, PageAnnouncements, PageEvents, PageMedia, PageWeather, PageCustom} {
		if !KnownPageType(pt) {
			t.Errorf("Expected %q to be a known page type", pt)
		}
	}
	if KnownPageType("carousel") {
		t.Error("unknown type should not be accepted")
	}
	if KnownPageType("") {
		t.Error("empty type should not be accepted")
	}
}

func TestWidgetTTLDefault(t *testing.T) {
	w := CustomWidget{Name: "Lunch count"}
	if got := w.TTL(); got != 5*time.Minute {
		t.Errorf("Expected default TTL of 5m, got %v", got)
	}

	w.TTLSeconds = 30
	if got := w.TTL(); got != 30*time.Second {
		t.Errorf("Expected 30s TTL, got %v", got)
	}
}

func TestSafeModeNeverSerialized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SafeMode = true

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "SafeMode") || strings.Contains(string(data), "safeMode") {
		t.Error("SafeMode must never appear in the durable form")
	}
}

func TestDefaultConfigIsStructurallyValid(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SchoolName == "" {
		t.Error("default config needs a school name")
	}
	if len(cfg.Pages) == 0 {
		t.Error("default config needs at least one page to render")
	}
	if cfg.SafeMode {
		t.Error("default config starts out of safe mode")
	}

	// The serialized default must carry every structurally required key.
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"pages", "theme", "schoolName"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("serialized default missing required key %q", key)
		}
	}
}

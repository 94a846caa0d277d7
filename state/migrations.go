// ABOUTME: Ordered backward-compatibility migrations for stored configuration blobs
// ABOUTME: Each step is a named, idempotent rewrite of the raw JSON map

package state

import "github.com/harperreed/marquee/models"

// migration is one step of the compatibility chain. Steps run on the
// parsed map after structural validation and before typed decoding;
// they rewrite legacy shapes in place and never fail a load.
type migration struct {
	name  string
	apply func(cfg map[string]interface{})
}

// migrations run in declaration order. Append new steps at the end so
// older steps keep seeing the shapes they were written against.
var migrations = []migration{
	{name: "fill-missing-collections", apply: fillMissingCollections},
	{name: "camera-url-to-list", apply: cameraURLToList},
	{name: "ticker-text-to-list", apply: tickerTextToList},
	{name: "contact-info-split", apply: contactInfoSplit},
	{name: "drop-obsolete-fields", apply: dropObsoleteFields},
	{name: "normalize-page-types", apply: normalizePageTypes},
}

// Migrate applies the full chain, in order, to a parsed config map.
func Migrate(cfg map[string]interface{}) {
	for _, step := range migrations {
		step.apply(cfg)
	}
}

// MigrationSteps returns the chain's step names in order, for tooling
// that reports what a migration run will do.
func MigrationSteps() []string {
	names := make([]string, 0, len(migrations))
	for _, step := range migrations {
		names = append(names, step.name)
	}
	return names
}

// fillMissingCollections gives every optional collection an empty
// default so later steps and the typed decode always see a list.
// Required keys (pages, theme, schoolName) are validated earlier and
// deliberately left alone: a present-but-empty pages array is valid.
func fillMissingCollections(cfg map[string]interface{}) {
	for _, key := range []string{"announcements", "events", "ticker", "widgets", "cameraUrls"} {
		if v, ok := cfg[key]; !ok || v == nil {
			cfg[key] = []interface{}{}
		}
	}
}

// cameraURLToList folds the legacy singular cameraUrl field into the
// plural list, legacy value first, and drops the old key so it is
// never persisted again.
func cameraURLToList(cfg map[string]interface{}) {
	raw, ok := cfg["cameraUrl"]
	if !ok {
		return
	}
	delete(cfg, "cameraUrl")

	url, ok := raw.(string)
	if !ok || url == "" {
		return
	}
	list, _ := cfg["cameraUrls"].([]interface{})
	cfg["cameraUrls"] = append([]interface{}{url}, list...)
}

// tickerTextToList turns the legacy single tickerText string into the
// ticker list, unless the modern field already has content.
func tickerTextToList(cfg map[string]interface{}) {
	raw, ok := cfg["tickerText"]
	if !ok {
		return
	}
	delete(cfg, "tickerText")

	text, ok := raw.(string)
	if !ok || text == "" {
		return
	}
	if list, _ := cfg["ticker"].([]interface{}); len(list) > 0 {
		return
	}
	cfg["ticker"] = []interface{}{text}
}

// contactInfoSplit moves the legacy flat contact fields under the
// contact object, keeping any value the object already carries.
func contactInfoSplit(cfg map[string]interface{}) {
	contact, _ := cfg["contact"].(map[string]interface{})

	move := func(legacy, field string) {
		raw, ok := cfg[legacy]
		if !ok {
			return
		}
		delete(cfg, legacy)

		val, ok := raw.(string)
		if !ok || val == "" {
			return
		}
		if contact == nil {
			contact = map[string]interface{}{}
		}
		if _, exists := contact[field]; !exists {
			contact[field] = val
		}
	}

	move("contactEmail", "email")
	move("contactPhone", "phone")
	move("contactAddress", "address")

	if contact != nil {
		cfg["contact"] = contact
	}
}

// dropObsoleteFields deletes keys the application no longer reads so
// they stop riding along in every save.
func dropObsoleteFields(cfg map[string]interface{}) {
	for _, key := range []string{"refreshInterval", "weatherApiKey", "slideshowSpeed", "marqueeSpeed"} {
		delete(cfg, key)
	}
}

// normalizePageTypes collapses every page type to a defined enum
// value, defaulting to standard.
func normalizePageTypes(cfg map[string]interface{}) {
	pages, ok := cfg["pages"].([]interface{})
	if !ok {
		return
	}
	for _, raw := range pages {
		page, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _ := page["type"].(string); !models.KnownPageType(t) {
			page["type"] = models.PageStandard
		}
	}
}

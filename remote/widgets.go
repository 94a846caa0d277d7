// ABOUTME: Resolves custom widget definitions into display values
// ABOUTME: Fetches each widget's JSON endpoint and extracts a dot-path leaf

package remote

import (
	"context"
	"strconv"
	"strings"

	"github.com/harperreed/marquee/models"
)

// widgetKeyPrefix keys widget cache entries by widget id, so editing a
// widget's URL or path never collides with another widget's data.
const widgetKeyPrefix = "widget:"

// WidgetClient resolves custom widgets through the cache ladder.
type WidgetClient struct {
	fetcher *Fetcher
}

// NewWidgetClient returns a client over the shared fetcher.
func NewWidgetClient(f *Fetcher) *WidgetClient {
	return &WidgetClient{fetcher: f}
}

// Resolve returns the widget's display value. Whatever rung answers,
// the widget always renders something: a missing endpoint or a dead
// path lands on the widget's configured fallback string.
func (c *WidgetClient) Resolve(ctx context.Context, w models.CustomWidget) models.WidgetValue {
	value := models.WidgetValue{ID: w.ID, Name: w.Name, Value: w.Fallback}

	var payload interface{}
	status := c.fetcher.FetchJSON(ctx, widgetKeyPrefix+w.ID.String(), w.URL, w.TTL(), &payload)
	if status == StatusMiss {
		return value
	}

	leaf, ok := extractPath(payload, w.ValuePath)
	if !ok {
		return value
	}

	value.Value = leaf + w.Suffix
	value.Stale = status == StatusStale
	return value
}

// ResolveAll resolves every widget in order.
func (c *WidgetClient) ResolveAll(ctx context.Context, widgets []models.CustomWidget) []models.WidgetValue {
	values := make([]models.WidgetValue, 0, len(widgets))
	for _, w := range widgets {
		values = append(values, c.Resolve(ctx, w))
	}
	return values
}

// extractPath walks a decoded JSON document by dot-separated segments.
// Numeric segments index arrays. Only scalar leaves are displayable.
func extractPath(doc interface{}, path string) (string, bool) {
	node := doc
	if path != "" {
		for _, seg := range strings.Split(path, ".") {
			switch v := node.(type) {
			case map[string]interface{}:
				child, ok := v[seg]
				if !ok {
					return "", false
				}
				node = child
			case []interface{}:
				idx, err := strconv.Atoi(seg)
				if err != nil || idx < 0 || idx >= len(v) {
					return "", false
				}
				node = v[idx]
			default:
				return "", false
			}
		}
	}

	switch v := node.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

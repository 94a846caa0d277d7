// ABOUTME: MCP prompt handlers for reusable display workflow templates
// ABOUTME: Provides standardized prompts for common sign-maintenance chores
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/state"
)

type PromptHandlers struct {
	config *state.Manager
}

func NewPromptHandlers(config *state.Manager) *PromptHandlers {
	return &PromptHandlers{config: config}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "display-review":
		return h.getDisplayReviewPrompt(arguments)
	case "announcement-draft":
		return h.getAnnouncementDraftPrompt(arguments)
	case "week-ahead":
		return h.getWeekAheadPrompt(arguments)
	case "stale-content":
		return h.getStaleContentPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getDisplayReviewPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	cfg := h.config.Load()

	var promptText strings.Builder
	promptText.WriteString("Please review everything currently on the hallway display:\n\n")
	promptText.WriteString(fmt.Sprintf("School: %s\n", cfg.SchoolName))
	promptText.WriteString(fmt.Sprintf("Pages: %d\n", len(cfg.Pages)))
	if cfg.Alert.Active {
		promptText.WriteString(fmt.Sprintf("ACTIVE ALERT [%s]: %s\n", cfg.Alert.Level, cfg.Alert.Message))
	}

	promptText.WriteString(fmt.Sprintf("\nAnnouncements: %d\n", len(cfg.Announcements)))
	now := time.Now()
	for _, a := range cfg.Announcements {
		age := int(now.Sub(a.CreatedAt).Hours() / 24)
		promptText.WriteString(fmt.Sprintf("  - %s (%d days old)\n", a.Title, age))
	}

	promptText.WriteString(fmt.Sprintf("\nEvents: %d\n", len(cfg.Events)))
	for _, e := range cfg.Events {
		promptText.WriteString(fmt.Sprintf("  - %s (%s)\n", e.Title, e.StartsAt.Format("2006-01-02")))
	}

	if len(cfg.Ticker) > 0 {
		promptText.WriteString("\nTicker:\n")
		for _, t := range cfg.Ticker {
			promptText.WriteString(fmt.Sprintf("  - %s\n", t))
		}
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Content that looks stale or finished and should come down")
	promptText.WriteString("\n2. Anything missing that families would expect to see")
	promptText.WriteString("\n3. Suggested ticker lines for the current content")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Display review for %s", cfg.SchoolName),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getAnnouncementDraftPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	topic, ok := args["topic"]
	if !ok {
		return nil, fmt.Errorf("topic is required")
	}

	audience := "students and families"
	if a, ok := args["audience"]; ok && a != "" {
		audience = a
	}

	cfg := h.config.Load()

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Draft an announcement for the %s hallway display.\n\n", cfg.SchoolName))
	promptText.WriteString(fmt.Sprintf("Topic: %s\n", topic))
	promptText.WriteString(fmt.Sprintf("Audience: %s\n", audience))

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. A short title readable from across a corridor")
	promptText.WriteString("\n2. A body under 40 words, plain text, no emoji")
	promptText.WriteString("\n3. A suggested expiry date if the topic is time-bound")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Announcement draft: %s", topic),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getWeekAheadPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	days := 7
	if d, ok := args["days"]; ok {
		if n, err := strconv.Atoi(d); err == nil && n > 0 {
			days = n
		}
	}

	cfg := h.config.Load()
	now := time.Now()
	cutoff := now.AddDate(0, 0, days)

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Upcoming events at %s in the next %d days:\n\n", cfg.SchoolName, days))

	count := 0
	for _, e := range cfg.Events {
		if e.StartsAt.Before(now) || e.StartsAt.After(cutoff) {
			continue
		}
		promptText.WriteString(fmt.Sprintf("- %s on %s", e.Title, e.StartsAt.Format("Monday, January 2")))
		if e.Location != "" {
			promptText.WriteString(fmt.Sprintf(" at %s", e.Location))
		}
		promptText.WriteString("\n")
		count++
	}

	if count == 0 {
		promptText.WriteString("No events scheduled in this window.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Draft a short 'week ahead' summary suitable for a display page")
	promptText.WriteString("\n2. Suggest one ticker line per event")
	promptText.WriteString("\n3. Flag any day that looks overloaded")

	return &mcp.GetPromptResult{
		Description: "Week-ahead event summary",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getStaleContentPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	daysOld := 30
	if d, ok := args["days_old"]; ok {
		if n, err := strconv.Atoi(d); err == nil && n > 0 {
			daysOld = n
		}
	}

	cfg := h.config.Load()
	now := time.Now()
	cutoff := now.AddDate(0, 0, -daysOld)

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Content on the display that may be stale (%d+ days old or finished):\n\n", daysOld))

	count := 0
	for _, a := range cfg.Announcements {
		if a.Expired(now) {
			promptText.WriteString(fmt.Sprintf("- %s (expired)\n", a.Title))
			count++
		} else if a.CreatedAt.Before(cutoff) {
			age := int(now.Sub(a.CreatedAt).Hours() / 24)
			promptText.WriteString(fmt.Sprintf("- %s (%d days old)\n", a.Title, age))
			count++
		}
	}
	for _, e := range cfg.Events {
		if e.Finished(now) {
			promptText.WriteString(fmt.Sprintf("- %s (event finished %s)\n", e.Title, e.StartsAt.Format("2006-01-02")))
			count++
		}
	}

	if count == 0 {
		promptText.WriteString("Nothing on the display looks stale.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which items to remove first")
	promptText.WriteString("\n2. Suggest rewrites for anything worth keeping")
	promptText.WriteString("\n3. Note any pattern in how content goes stale here")

	return &mcp.GetPromptResult{
		Description: "Stale content report",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

// ABOUTME: MCP resource handlers for exposing display state
// ABOUTME: Provides read-only access to config, announcements, events, and logs via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/state"
)

type ResourceHandlers struct {
	config *state.Manager
	syslog *state.SystemLog
}

func NewResourceHandlers(config *state.Manager, syslog *state.SystemLog) *ResourceHandlers {
	return &ResourceHandlers{config: config, syslog: syslog}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	// Parse the URI
	if !strings.HasPrefix(uri, "display://") {
		return nil, fmt.Errorf("invalid URI scheme: expected display://")
	}

	path := strings.TrimPrefix(uri, "display://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "config":
		return h.readConfig()

	case "announcements":
		if len(parts) == 1 {
			return h.readAllAnnouncements()
		}
		return h.readAnnouncement(parts[1])

	case "events":
		if len(parts) == 1 {
			return h.readAllEvents()
		}
		return h.readEvent(parts[1])

	case "logs":
		return h.readLogs()

	case "summary":
		return h.readSummary()

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readConfig() (*mcp.ReadResourceResult, error) {
	cfg := h.config.Load()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "display://config",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAllAnnouncements() (*mcp.ReadResourceResult, error) {
	cfg := h.config.Load()

	data, err := json.MarshalIndent(cfg.Announcements, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal announcements: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "display://announcements",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAnnouncement(idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid announcement ID: %w", err)
	}

	cfg := h.config.Load()
	idx := findAnnouncement(cfg, id)
	if idx < 0 {
		return nil, fmt.Errorf("announcement not found: %s", idStr)
	}

	data, err := json.MarshalIndent(cfg.Announcements[idx], "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal announcement: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      fmt.Sprintf("display://announcements/%s", idStr),
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAllEvents() (*mcp.ReadResourceResult, error) {
	cfg := h.config.Load()

	data, err := json.MarshalIndent(cfg.Events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "display://events",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readEvent(idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	cfg := h.config.Load()
	var event *models.Event
	for i := range cfg.Events {
		if cfg.Events[i].ID == id {
			event = &cfg.Events[i]
			break
		}
	}
	if event == nil {
		return nil, fmt.Errorf("event not found: %s", idStr)
	}

	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      fmt.Sprintf("display://events/%s", idStr),
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readLogs() (*mcp.ReadResourceResult, error) {
	entries := h.syslog.List()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal logs: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "display://logs",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readSummary() (*mcp.ReadResourceResult, error) {
	cfg := h.config.Load()

	summary := struct {
		SchoolName    string `json:"school_name"`
		SafeMode      bool   `json:"safe_mode"`
		Pages         int    `json:"pages"`
		Announcements int    `json:"announcements"`
		Events        int    `json:"events"`
		Widgets       int    `json:"widgets"`
		TickerItems   int    `json:"ticker_items"`
		AlertActive   bool   `json:"alert_active"`
		AlertMessage  string `json:"alert_message,omitempty"`
		UpdatedAt     string `json:"updated_at"`
	}{
		SchoolName:    cfg.SchoolName,
		SafeMode:      cfg.SafeMode,
		Pages:         len(cfg.Pages),
		Announcements: len(cfg.Announcements),
		Events:        len(cfg.Events),
		Widgets:       len(cfg.Widgets),
		TickerItems:   len(cfg.Ticker),
		AlertActive:   cfg.Alert.Active,
		AlertMessage:  cfg.Alert.Message,
		UpdatedAt:     cfg.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "display://summary",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

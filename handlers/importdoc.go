// ABOUTME: Document import MCP tool handler
// ABOUTME: Extracts text from a bulletin file and turns it into announcements and events
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/ai"
	"github.com/harperreed/marquee/extract"
	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/state"
)

type ImportHandlers struct {
	config *state.Manager
	ai     ai.Client
}

func NewImportHandlers(config *state.Manager, aiClient ai.Client) *ImportHandlers {
	return &ImportHandlers{config: config, ai: aiClient}
}

type ImportDocumentInput struct {
	Path string `json:"path" jsonschema:"Path to a .pdf or .txt bulletin document (required)"`
}

type ImportDocumentOutput struct {
	AnnouncementsAdded int    `json:"announcements_added"`
	EventsAdded        int    `json:"events_added"`
	Message            string `json:"message"`
}

func (h *ImportHandlers) ImportDocument(ctx context.Context, request *mcp.CallToolRequest, input ImportDocumentInput) (*mcp.CallToolResult, ImportDocumentOutput, error) {
	if input.Path == "" {
		return nil, ImportDocumentOutput{}, fmt.Errorf("path is required")
	}
	if h.ai == nil {
		return nil, ImportDocumentOutput{}, fmt.Errorf("ai is not configured (set OPENAI_API_KEY)")
	}

	text, err := extract.Text(input.Path)
	if err != nil {
		return nil, ImportDocumentOutput{}, fmt.Errorf("failed to read document: %w", err)
	}

	bulletins, err := ai.ExtractBulletins(ctx, h.ai, text)
	if err != nil {
		return nil, ImportDocumentOutput{}, fmt.Errorf("failed to extract bulletins: %w", err)
	}

	now := time.Now().UTC()
	announcements := make([]models.Announcement, 0, len(bulletins.Announcements))
	for _, b := range bulletins.Announcements {
		announcements = append(announcements, b.ToModel(now))
	}
	events := make([]models.Event, 0, len(bulletins.Events))
	for _, b := range bulletins.Events {
		events = append(events, b.ToModel())
	}

	if len(announcements) == 0 && len(events) == 0 {
		return nil, ImportDocumentOutput{
			Message: "No announcements or events found in the document",
		}, nil
	}

	h.config.Update(func(cfg *models.DisplayConfig) {
		cfg.Announcements = append(cfg.Announcements, announcements...)
		cfg.Events = append(cfg.Events, events...)
	})

	return nil, ImportDocumentOutput{
		AnnouncementsAdded: len(announcements),
		EventsAdded:        len(events),
		Message: fmt.Sprintf("Imported %d announcements and %d events from %s",
			len(announcements), len(events), input.Path),
	}, nil
}

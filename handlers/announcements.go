// ABOUTME: Announcement MCP tool handlers
// ABOUTME: Implements add_announcement, update_announcement, remove_announcement, and rewrite_announcement tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/ai"
	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/state"
)

type AnnouncementHandlers struct {
	config *state.Manager
	ai     ai.Client
}

func NewAnnouncementHandlers(config *state.Manager, aiClient ai.Client) *AnnouncementHandlers {
	return &AnnouncementHandlers{config: config, ai: aiClient}
}

type AddAnnouncementInput struct {
	Title     string `json:"title" jsonschema:"Announcement title (required)"`
	Body      string `json:"body,omitempty" jsonschema:"Announcement body text"`
	Priority  int    `json:"priority,omitempty" jsonschema:"Sort priority, higher shows first"`
	Pinned    bool   `json:"pinned,omitempty" jsonschema:"Keep at the top regardless of priority"`
	ExpiresAt string `json:"expires_at,omitempty" jsonschema:"When to stop showing it (ISO 8601 format)"`
}

type AnnouncementOutput struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Body      string  `json:"body,omitempty"`
	Priority  int     `json:"priority,omitempty"`
	Pinned    bool    `json:"pinned,omitempty"`
	CreatedAt string  `json:"created_at"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

func (h *AnnouncementHandlers) AddAnnouncement(_ context.Context, request *mcp.CallToolRequest, input AddAnnouncementInput) (*mcp.CallToolResult, AnnouncementOutput, error) {
	if input.Title == "" {
		return nil, AnnouncementOutput{}, fmt.Errorf("title is required")
	}

	var expires *time.Time
	if input.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.ExpiresAt)
		if err != nil {
			return nil, AnnouncementOutput{}, fmt.Errorf("invalid expires_at format (use ISO 8601/RFC3339): %w", err)
		}
		expires = &parsed
	}

	announcement := models.Announcement{
		ID:        uuid.New(),
		Title:     input.Title,
		Body:      input.Body,
		Priority:  input.Priority,
		Pinned:    input.Pinned,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expires,
	}

	h.config.Update(func(cfg *models.DisplayConfig) {
		cfg.Announcements = append(cfg.Announcements, announcement)
	})

	return nil, announcementToOutput(&announcement), nil
}

type UpdateAnnouncementInput struct {
	ID       string `json:"id" jsonschema:"Announcement ID (required)"`
	Title    string `json:"title,omitempty" jsonschema:"Updated title"`
	Body     string `json:"body,omitempty" jsonschema:"Updated body text"`
	Priority *int   `json:"priority,omitempty" jsonschema:"Updated sort priority"`
	Pinned   *bool  `json:"pinned,omitempty" jsonschema:"Updated pinned flag"`
}

func (h *AnnouncementHandlers) UpdateAnnouncement(_ context.Context, request *mcp.CallToolRequest, input UpdateAnnouncementInput) (*mcp.CallToolResult, AnnouncementOutput, error) {
	if input.ID == "" {
		return nil, AnnouncementOutput{}, fmt.Errorf("id is required")
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, AnnouncementOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	cfg := h.config.Load()
	if findAnnouncement(cfg, id) < 0 {
		return nil, AnnouncementOutput{}, fmt.Errorf("announcement not found")
	}

	var updated models.Announcement
	h.config.Update(func(cfg *models.DisplayConfig) {
		i := findAnnouncement(cfg, id)
		if i < 0 {
			return
		}
		if input.Title != "" {
			cfg.Announcements[i].Title = input.Title
		}
		if input.Body != "" {
			cfg.Announcements[i].Body = input.Body
		}
		if input.Priority != nil {
			cfg.Announcements[i].Priority = *input.Priority
		}
		if input.Pinned != nil {
			cfg.Announcements[i].Pinned = *input.Pinned
		}
		updated = cfg.Announcements[i]
	})

	return nil, announcementToOutput(&updated), nil
}

type RemoveAnnouncementInput struct {
	ID string `json:"id" jsonschema:"Announcement ID (required)"`
}

type RemoveAnnouncementOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *AnnouncementHandlers) RemoveAnnouncement(_ context.Context, request *mcp.CallToolRequest, input RemoveAnnouncementInput) (*mcp.CallToolResult, RemoveAnnouncementOutput, error) {
	if input.ID == "" {
		return nil, RemoveAnnouncementOutput{}, fmt.Errorf("id is required")
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, RemoveAnnouncementOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	cfg := h.config.Load()
	if findAnnouncement(cfg, id) < 0 {
		return nil, RemoveAnnouncementOutput{}, fmt.Errorf("announcement not found")
	}

	h.config.Update(func(cfg *models.DisplayConfig) {
		kept := cfg.Announcements[:0]
		for _, a := range cfg.Announcements {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		cfg.Announcements = kept
	})

	return nil, RemoveAnnouncementOutput{
		Success: true,
		Message: fmt.Sprintf("Removed announcement: %s", id),
	}, nil
}

type RewriteAnnouncementInput struct {
	ID   string `json:"id" jsonschema:"Announcement ID (required)"`
	Tone string `json:"tone,omitempty" jsonschema:"Target tone, e.g. friendly, formal, urgent"`
}

func (h *AnnouncementHandlers) RewriteAnnouncement(ctx context.Context, request *mcp.CallToolRequest, input RewriteAnnouncementInput) (*mcp.CallToolResult, AnnouncementOutput, error) {
	if input.ID == "" {
		return nil, AnnouncementOutput{}, fmt.Errorf("id is required")
	}
	if h.ai == nil {
		return nil, AnnouncementOutput{}, fmt.Errorf("ai is not configured (set OPENAI_API_KEY)")
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, AnnouncementOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	cfg := h.config.Load()
	i := findAnnouncement(cfg, id)
	if i < 0 {
		return nil, AnnouncementOutput{}, fmt.Errorf("announcement not found")
	}

	source := cfg.Announcements[i].Body
	if source == "" {
		source = cfg.Announcements[i].Title
	}

	rewritten, err := ai.RewriteCopy(ctx, h.ai, source, input.Tone)
	if err != nil {
		return nil, AnnouncementOutput{}, fmt.Errorf("failed to rewrite announcement: %w", err)
	}

	var updated models.Announcement
	h.config.Update(func(cfg *models.DisplayConfig) {
		i := findAnnouncement(cfg, id)
		if i < 0 {
			return
		}
		cfg.Announcements[i].Body = rewritten
		updated = cfg.Announcements[i]
	})

	return nil, announcementToOutput(&updated), nil
}

func findAnnouncement(cfg *models.DisplayConfig, id uuid.UUID) int {
	for i := range cfg.Announcements {
		if cfg.Announcements[i].ID == id {
			return i
		}
	}
	return -1
}

func announcementToOutput(a *models.Announcement) AnnouncementOutput {
	output := AnnouncementOutput{
		ID:        a.ID.String(),
		Title:     a.Title,
		Body:      a.Body,
		Priority:  a.Priority,
		Pinned:    a.Pinned,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if a.ExpiresAt != nil {
		expires := a.ExpiresAt.Format("2006-01-02T15:04:05Z07:00")
		output.ExpiresAt = &expires
	}

	return output
}

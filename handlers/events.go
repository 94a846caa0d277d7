// ABOUTME: Event MCP tool handlers
// ABOUTME: Implements add_event and remove_event tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/state"
)

type EventHandlers struct {
	config *state.Manager
}

func NewEventHandlers(config *state.Manager) *EventHandlers {
	return &EventHandlers{config: config}
}

type AddEventInput struct {
	Title       string `json:"title" jsonschema:"Event title (required)"`
	Location    string `json:"location,omitempty" jsonschema:"Where the event happens"`
	Description string `json:"description,omitempty" jsonschema:"Event details"`
	StartsAt    string `json:"starts_at" jsonschema:"Start time (ISO 8601, or YYYY-MM-DD HH:MM, or YYYY-MM-DD)"`
	EndsAt      string `json:"ends_at,omitempty" jsonschema:"End time, same formats as starts_at"`
}

type EventOutput struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
	StartsAt    string  `json:"starts_at"`
	EndsAt      *string `json:"ends_at,omitempty"`
}

func (h *EventHandlers) AddEvent(_ context.Context, request *mcp.CallToolRequest, input AddEventInput) (*mcp.CallToolResult, EventOutput, error) {
	if input.Title == "" {
		return nil, EventOutput{}, fmt.Errorf("title is required")
	}
	if input.StartsAt == "" {
		return nil, EventOutput{}, fmt.Errorf("starts_at is required")
	}

	starts, err := parseEventTime(input.StartsAt)
	if err != nil {
		return nil, EventOutput{}, fmt.Errorf("invalid starts_at: %w", err)
	}

	var ends *time.Time
	if input.EndsAt != "" {
		parsed, err := parseEventTime(input.EndsAt)
		if err != nil {
			return nil, EventOutput{}, fmt.Errorf("invalid ends_at: %w", err)
		}
		ends = &parsed
	}

	event := models.Event{
		ID:          uuid.New(),
		Title:       input.Title,
		Location:    input.Location,
		Description: input.Description,
		StartsAt:    starts,
		EndsAt:      ends,
	}

	h.config.Update(func(cfg *models.DisplayConfig) {
		cfg.Events = append(cfg.Events, event)
	})

	return nil, eventToOutput(&event), nil
}

type RemoveEventInput struct {
	ID string `json:"id" jsonschema:"Event ID (required)"`
}

type RemoveEventOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *EventHandlers) RemoveEvent(_ context.Context, request *mcp.CallToolRequest, input RemoveEventInput) (*mcp.CallToolResult, RemoveEventOutput, error) {
	if input.ID == "" {
		return nil, RemoveEventOutput{}, fmt.Errorf("id is required")
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, RemoveEventOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	found := false
	for _, e := range h.config.Load().Events {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, RemoveEventOutput{}, fmt.Errorf("event not found")
	}

	h.config.Update(func(cfg *models.DisplayConfig) {
		kept := cfg.Events[:0]
		for _, e := range cfg.Events {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		cfg.Events = kept
	})

	return nil, RemoveEventOutput{
		Success: true,
		Message: fmt.Sprintf("Removed event: %s", id),
	}, nil
}

// parseEventTime accepts RFC3339 plus the looser date-time and
// date-only forms that assistants tend to produce.
func parseEventTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (use ISO 8601/RFC3339)", s)
}

func eventToOutput(e *models.Event) EventOutput {
	output := EventOutput{
		ID:          e.ID.String(),
		Title:       e.Title,
		Location:    e.Location,
		Description: e.Description,
		StartsAt:    e.StartsAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if e.EndsAt != nil {
		ends := e.EndsAt.Format("2006-01-02T15:04:05Z07:00")
		output.EndsAt = &ends
	}

	return output
}

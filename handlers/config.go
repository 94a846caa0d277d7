// ABOUTME: Display configuration MCP tool handlers
// ABOUTME: Implements get_display_config, set_school_info, set_alert, and clear_alert tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/models"
	"github.com/harperreed/marquee/state"
)

type ConfigHandlers struct {
	config *state.Manager
}

func NewConfigHandlers(config *state.Manager) *ConfigHandlers {
	return &ConfigHandlers{config: config}
}

type GetDisplayConfigInput struct{}

type DisplayConfigOutput struct {
	SchoolName    string               `json:"school_name"`
	SafeMode      bool                 `json:"safe_mode"`
	PageCount     int                  `json:"page_count"`
	Announcements []AnnouncementOutput `json:"announcements"`
	Events        []EventOutput        `json:"events"`
	Ticker        []string             `json:"ticker"`
	AlertActive   bool                 `json:"alert_active"`
	AlertLevel    string               `json:"alert_level,omitempty"`
	AlertMessage  string               `json:"alert_message,omitempty"`
	UpdatedAt     string               `json:"updated_at"`
}

func (h *ConfigHandlers) GetDisplayConfig(_ context.Context, request *mcp.CallToolRequest, input GetDisplayConfigInput) (*mcp.CallToolResult, DisplayConfigOutput, error) {
	cfg := h.config.Load()
	return nil, configToOutput(cfg), nil
}

type SetSchoolInfoInput struct {
	SchoolName     string `json:"school_name,omitempty" jsonschema:"Display name of the school"`
	ContactEmail   string `json:"contact_email,omitempty" jsonschema:"Public contact email"`
	ContactPhone   string `json:"contact_phone,omitempty" jsonschema:"Public contact phone number"`
	ContactAddress string `json:"contact_address,omitempty" jsonschema:"Street address shown on the display"`
	Facebook       string `json:"facebook,omitempty" jsonschema:"Facebook page URL"`
	Instagram      string `json:"instagram,omitempty" jsonschema:"Instagram profile URL"`
	YouTube        string `json:"youtube,omitempty" jsonschema:"YouTube channel URL"`
}

type SchoolInfoOutput struct {
	SchoolName string `json:"school_name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	UpdatedAt  string `json:"updated_at"`
}

func (h *ConfigHandlers) SetSchoolInfo(_ context.Context, request *mcp.CallToolRequest, input SetSchoolInfoInput) (*mcp.CallToolResult, SchoolInfoOutput, error) {
	cfg := h.config.Update(func(cfg *models.DisplayConfig) {
		if input.SchoolName != "" {
			cfg.SchoolName = input.SchoolName
		}
		if input.ContactEmail != "" {
			cfg.Contact.Email = input.ContactEmail
		}
		if input.ContactPhone != "" {
			cfg.Contact.Phone = input.ContactPhone
		}
		if input.ContactAddress != "" {
			cfg.Contact.Address = input.ContactAddress
		}
		if input.Facebook != "" {
			cfg.Social.Facebook = input.Facebook
		}
		if input.Instagram != "" {
			cfg.Social.Instagram = input.Instagram
		}
		if input.YouTube != "" {
			cfg.Social.YouTube = input.YouTube
		}
	})

	return nil, SchoolInfoOutput{
		SchoolName: cfg.SchoolName,
		Email:      cfg.Contact.Email,
		Phone:      cfg.Contact.Phone,
		Address:    cfg.Contact.Address,
		UpdatedAt:  cfg.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

type SetAlertInput struct {
	Level   string `json:"level,omitempty" jsonschema:"Alert level: info, warning, or emergency (default info)"`
	Message string `json:"message" jsonschema:"Alert text shown across every display (required)"`
}

type AlertOutput struct {
	Active    bool   `json:"active"`
	Level     string `json:"level,omitempty"`
	Message   string `json:"message,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func (h *ConfigHandlers) SetAlert(_ context.Context, request *mcp.CallToolRequest, input SetAlertInput) (*mcp.CallToolResult, AlertOutput, error) {
	if input.Message == "" {
		return nil, AlertOutput{}, fmt.Errorf("message is required")
	}

	level := input.Level
	if level == "" {
		level = models.AlertInfo
	}
	switch level {
	case models.AlertInfo, models.AlertWarning, models.AlertEmergency:
	default:
		return nil, AlertOutput{}, fmt.Errorf("invalid level %q (use info, warning, or emergency)", input.Level)
	}

	cfg := h.config.Update(func(cfg *models.DisplayConfig) {
		cfg.Alert = models.AlertState{
			Active:    true,
			Level:     level,
			Message:   input.Message,
			UpdatedAt: time.Now().UTC(),
		}
	})

	return nil, alertToOutput(cfg.Alert), nil
}

type ClearAlertInput struct{}

func (h *ConfigHandlers) ClearAlert(_ context.Context, request *mcp.CallToolRequest, input ClearAlertInput) (*mcp.CallToolResult, AlertOutput, error) {
	cfg := h.config.Update(func(cfg *models.DisplayConfig) {
		cfg.Alert = models.AlertState{Active: false, UpdatedAt: time.Now().UTC()}
	})

	return nil, alertToOutput(cfg.Alert), nil
}

func alertToOutput(alert models.AlertState) AlertOutput {
	return AlertOutput{
		Active:    alert.Active,
		Level:     alert.Level,
		Message:   alert.Message,
		UpdatedAt: alert.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func configToOutput(cfg *models.DisplayConfig) DisplayConfigOutput {
	announcements := make([]AnnouncementOutput, len(cfg.Announcements))
	for i := range cfg.Announcements {
		announcements[i] = announcementToOutput(&cfg.Announcements[i])
	}

	events := make([]EventOutput, len(cfg.Events))
	for i := range cfg.Events {
		events[i] = eventToOutput(&cfg.Events[i])
	}

	return DisplayConfigOutput{
		SchoolName:    cfg.SchoolName,
		SafeMode:      cfg.SafeMode,
		PageCount:     len(cfg.Pages),
		Announcements: announcements,
		Events:        events,
		Ticker:        cfg.Ticker,
		AlertActive:   cfg.Alert.Active,
		AlertLevel:    cfg.Alert.Level,
		AlertMessage:  cfg.Alert.Message,
		UpdatedAt:     cfg.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/ai"
	"github.com/harperreed/marquee/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App) error {
	log.Println("Starting display MCP server...")

	var aiClient ai.Client
	if c, err := ai.New(ai.ConfigFromEnv()); err == nil {
		aiClient = c
	} else {
		log.Printf("AI tools disabled: %v", err)
	}

	// Create handlers
	configHandlers := handlers.NewConfigHandlers(app.Config)
	announcementHandlers := handlers.NewAnnouncementHandlers(app.Config, aiClient)
	eventHandlers := handlers.NewEventHandlers(app.Config)
	importHandlers := handlers.NewImportHandlers(app.Config, aiClient)
	logHandlers := handlers.NewLogHandlers(app.SysLog)
	promptHandlers := handlers.NewPromptHandlers(app.Config)
	resourceHandlers := handlers.NewResourceHandlers(app.Config, app.SysLog)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "marquee",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_display_config",
		Description: "Get a summary of the current display configuration",
	}, configHandlers.GetDisplayConfig)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_school_info",
		Description: "Update the school name, contact details, or social links",
	}, configHandlers.SetSchoolInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_alert",
		Description: "Activate a banner alert across every display",
	}, configHandlers.SetAlert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_alert",
		Description: "Deactivate the banner alert",
	}, configHandlers.ClearAlert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_announcement",
		Description: "Add an announcement to the display rotation",
	}, announcementHandlers.AddAnnouncement)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_announcement",
		Description: "Update an existing announcement's text, priority, or pinning",
	}, announcementHandlers.UpdateAnnouncement)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_announcement",
		Description: "Remove an announcement from the display rotation",
	}, announcementHandlers.RemoveAnnouncement)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rewrite_announcement",
		Description: "Rewrite an announcement's body in a given tone using AI",
	}, announcementHandlers.RewriteAnnouncement)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_event",
		Description: "Add a calendar event to the display",
	}, eventHandlers.AddEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_event",
		Description: "Remove a calendar event from the display",
	}, eventHandlers.RemoveEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_document",
		Description: "Extract announcements and events from a bulletin document (.pdf or .txt) and add them to the display",
	}, importHandlers.ImportDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_system_logs",
		Description: "List recent system log entries, newest first",
	}, logHandlers.ListSystemLogs)

	// Register prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "display-review",
		Description: "Review everything on the display and suggest cleanup",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "announcement-draft",
		Description: "Draft a display announcement about a topic",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "What the announcement is about", Required: true},
			{Name: "audience", Description: "Who it is for (default: students and families)"},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "week-ahead",
		Description: "Summarize upcoming events into display copy",
		Arguments: []*mcp.PromptArgument{
			{Name: "days", Description: "Days to look ahead (default: 7)"},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "stale-content",
		Description: "Find announcements and events that should come down",
		Arguments: []*mcp.PromptArgument{
			{Name: "days_old", Description: "Age threshold in days (default: 30)"},
		},
	}, promptHandlers.GetPrompt)

	// Register resources
	server.AddResource(&mcp.Resource{
		URI:         "display://config",
		Name:        "Display configuration",
		MIMEType:    "application/json",
		Description: "The full display configuration",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "display://announcements",
		Name:        "Announcements",
		MIMEType:    "application/json",
		Description: "All announcements in the rotation",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "display://events",
		Name:        "Events",
		MIMEType:    "application/json",
		Description: "All calendar events on the display",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "display://logs",
		Name:        "System log",
		MIMEType:    "application/json",
		Description: "Recent system log entries, newest first",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "display://summary",
		Name:        "Display summary",
		MIMEType:    "application/json",
		Description: "Counts and status for everything on the display",
	}, resourceHandlers.ReadResource)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}

// ABOUTME: System log MCP tool handler
// ABOUTME: Implements the list_system_logs tool over the persisted ring buffer
package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marquee/state"
)

type LogHandlers struct {
	syslog *state.SystemLog
}

func NewLogHandlers(syslog *state.SystemLog) *LogHandlers {
	return &LogHandlers{syslog: syslog}
}

type ListSystemLogsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum entries to return, newest first (default all)"`
}

type LogEntryOutput struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

type ListSystemLogsOutput struct {
	Logs []LogEntryOutput `json:"logs"`
}

func (h *LogHandlers) ListSystemLogs(_ context.Context, request *mcp.CallToolRequest, input ListSystemLogsInput) (*mcp.CallToolResult, ListSystemLogsOutput, error) {
	entries := h.syslog.List()
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}

	logs := make([]LogEntryOutput, len(entries))
	for i, entry := range entries {
		logs[i] = LogEntryOutput{
			ID:        entry.ID,
			Timestamp: entry.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			Level:     entry.Level,
			Source:    entry.Source,
			Message:   entry.Message,
		}
	}

	return nil, ListSystemLogsOutput{Logs: logs}, nil
}

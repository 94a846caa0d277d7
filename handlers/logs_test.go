// ABOUTME: Tests for the system log MCP tool handler
// ABOUTME: Validates ordering and the optional limit
package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/harperreed/marquee/models"
)

func TestListSystemLogs(t *testing.T) {
	_, syslog, cleanup := setupTestManager(t)
	defer cleanup()

	for i := 1; i <= 5; i++ {
		syslog.Append(models.LevelInfo, "test", fmt.Sprintf("entry %d", i))
	}

	handler := NewLogHandlers(syslog)

	_, output, err := handler.ListSystemLogs(context.Background(), nil, ListSystemLogsInput{})
	if err != nil {
		t.Fatalf("ListSystemLogs failed: %v", err)
	}

	if len(output.Logs) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(output.Logs))
	}
	if output.Logs[0].Message != "entry 5" {
		t.Errorf("Expected newest entry first, got %q", output.Logs[0].Message)
	}
	if output.Logs[0].Timestamp == "" {
		t.Error("Timestamp was not formatted")
	}

	_, output, err = handler.ListSystemLogs(context.Background(), nil, ListSystemLogsInput{Limit: 2})
	if err != nil {
		t.Fatalf("ListSystemLogs failed: %v", err)
	}
	if len(output.Logs) != 2 {
		t.Errorf("Expected limit of 2, got %d", len(output.Logs))
	}
	if output.Logs[0].Message != "entry 5" {
		t.Errorf("Limit must keep newest first, got %q", output.Logs[0].Message)
	}
}

func TestListSystemLogsEmpty(t *testing.T) {
	_, syslog, cleanup := setupTestManager(t)
	defer cleanup()

	handler := NewLogHandlers(syslog)

	_, output, err := handler.ListSystemLogs(context.Background(), nil, ListSystemLogsInput{})
	if err != nil {
		t.Fatalf("ListSystemLogs failed: %v", err)
	}
	if len(output.Logs) != 0 {
		t.Errorf("Expected no entries, got %d", len(output.Logs))
	}
}

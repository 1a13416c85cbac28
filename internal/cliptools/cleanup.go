package cliptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Sweeper runs one retention pass. retention.Sweeper implements it.
type Sweeper interface {
	Sweep() (int64, error)
}

// ManualCleanupTool handles the ortu_manual_cleanup MCP tool.
type ManualCleanupTool struct {
	sweeper Sweeper
}

// NewManualCleanupTool creates a ManualCleanupTool.
func NewManualCleanupTool(sweeper Sweeper) *ManualCleanupTool {
	return &ManualCleanupTool{sweeper: sweeper}
}

// Definition returns the MCP tool definition for ortu_manual_cleanup.
func (t *ManualCleanupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_manual_cleanup",
		mcp.WithDescription("Run the retention sweep now: delete unpinned items older than the retention window."),
	)
}

// Handle processes the ortu_manual_cleanup tool call.
func (t *ManualCleanupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := t.sweeper.Sweep()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cleanup failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleanup removed %d expired items", n)), nil
}

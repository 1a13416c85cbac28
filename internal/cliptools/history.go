package cliptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/ortu/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── GetHistoryTool ─────────────────────────────────────────────────────────

// GetHistoryTool handles the ortu_get_history MCP tool.
type GetHistoryTool struct {
	store *history.Store
}

// NewGetHistoryTool creates a GetHistoryTool with the given history store.
func NewGetHistoryTool(store *history.Store) *GetHistoryTool {
	return &GetHistoryTool{store: store}
}

// Definition returns the MCP tool definition for ortu_get_history.
func (t *GetHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_get_history",
		mcp.WithDescription(
			"List clipboard history, pinned items first, then newest first (at most the configured limit). "+
				"Filter syntax: plain text matches content or category; "+
				"'category:<name> <text>' restricts to members of a group; "+
				"'group:<bucket> <text>' restricts to a virtual bucket ("+
				"built-in: Dev, Code, URL, Images, Text). Quote names with spaces: category:\"Shell / OS\" ls",
		),
		mcp.WithString("filter",
			mcp.Description("Optional filter expression"),
		),
	)
}

// Handle processes the ortu_get_history tool call.
func (t *GetHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := history.ParseFilter(req.GetString("filter", ""))

	items, err := t.store.GetHistory(f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get history: %v", err)), nil
	}
	return jsonResult(items)
}

// ─── DeleteEntryTool ────────────────────────────────────────────────────────

// DeleteEntryTool handles the ortu_delete_entry MCP tool.
type DeleteEntryTool struct {
	store *history.Store
}

// NewDeleteEntryTool creates a DeleteEntryTool with the given history store.
func NewDeleteEntryTool(store *history.Store) *DeleteEntryTool {
	return &DeleteEntryTool{store: store}
}

// Definition returns the MCP tool definition for ortu_delete_entry.
func (t *DeleteEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_delete_entry",
		mcp.WithDescription("Permanently delete a clipboard item by ID. Deleting a missing ID is a no-op."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Item ID to delete"),
		),
	)
}

// Handle processes the ortu_delete_entry tool call.
func (t *DeleteEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requireID(req)
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.DeleteItem(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete item: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Item %d deleted", id)), nil
}

// ─── TogglePermanentTool ────────────────────────────────────────────────────

// TogglePermanentTool handles the ortu_toggle_permanent MCP tool.
type TogglePermanentTool struct {
	store *history.Store
}

// NewTogglePermanentTool creates a TogglePermanentTool with the given history store.
func NewTogglePermanentTool(store *history.Store) *TogglePermanentTool {
	return &TogglePermanentTool{store: store}
}

// Definition returns the MCP tool definition for ortu_toggle_permanent.
func (t *TogglePermanentTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_toggle_permanent",
		mcp.WithDescription(
			"Pin or unpin a clipboard item. Pinned items survive restarts and the retention sweep.",
		),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Item ID to toggle"),
		),
	)
}

// Handle processes the ortu_toggle_permanent tool call.
func (t *TogglePermanentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requireID(req)
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.TogglePermanent(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle pin: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Item %d pin toggled", id)), nil
}

// ─── SetCategoryTool ────────────────────────────────────────────────────────

// SetCategoryTool handles the ortu_set_category MCP tool.
type SetCategoryTool struct {
	store *history.Store
}

// NewSetCategoryTool creates a SetCategoryTool with the given history store.
func NewSetCategoryTool(store *history.Store) *SetCategoryTool {
	return &SetCategoryTool{store: store}
}

// Definition returns the MCP tool definition for ortu_set_category.
func (t *SetCategoryTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_set_category",
		mcp.WithDescription(
			"Set an item's primary category. The item also joins the group of that name; "+
				"existing group memberships are kept.",
		),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Item ID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Category name"),
		),
	)
}

// Handle processes the ortu_set_category tool call.
func (t *SetCategoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requireID(req)
	if errRes != nil {
		return errRes, nil
	}
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.SetCategory(id, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set category: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Item %d categorized as %q", id, strings.TrimSpace(name))), nil
}

// ─── StatsTool ──────────────────────────────────────────────────────────────

// StatsTool handles the ortu_stats MCP tool.
type StatsTool struct {
	store *history.Store
}

// NewStatsTool creates a StatsTool with the given history store.
func NewStatsTool(store *history.Store) *StatsTool {
	return &StatsTool{store: store}
}

// Definition returns the MCP tool definition for ortu_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_stats",
		mcp.WithDescription("Show clipboard history statistics: total items, pinned items and groups."),
	)
}

// Handle processes the ortu_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## Clipboard Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- **Items**: %d\n", stats.TotalItems))
	sb.WriteString(fmt.Sprintf("- **Pinned**: %d\n", stats.PinnedItems))
	sb.WriteString(fmt.Sprintf("- **Groups**: %d\n", stats.TotalGroups))

	if buckets := t.store.Buckets().Names(); len(buckets) > 0 {
		sb.WriteString(fmt.Sprintf("- **Buckets**: %s\n", strings.Join(buckets, ", ")))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

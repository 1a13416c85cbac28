package cliptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/ortu/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── ExportGroupTool ────────────────────────────────────────────────────────

// ExportGroupTool handles the ortu_export_group MCP tool.
type ExportGroupTool struct {
	store *history.Store
}

// NewExportGroupTool creates an ExportGroupTool with the given history store.
func NewExportGroupTool(store *history.Store) *ExportGroupTool {
	return &ExportGroupTool{store: store}
}

// Definition returns the MCP tool definition for ortu_export_group.
func (t *ExportGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_export_group",
		mcp.WithDescription(
			"Write the content of every item in a group to a text file, newest first, "+
				"separated by a line containing only ---.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Group name"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Destination file path"),
		),
	)
}

// Handle processes the ortu_export_group tool call.
func (t *ExportGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	path, errRes := requireString(req, "path")
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.ExportGroup(name, path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to export group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %q exported to %s", name, path)), nil
}

// ─── ImportGroupTool ────────────────────────────────────────────────────────

// ImportGroupTool handles the ortu_import_group MCP tool.
type ImportGroupTool struct {
	store *history.Store
}

// NewImportGroupTool creates an ImportGroupTool with the given history store.
func NewImportGroupTool(store *history.Store) *ImportGroupTool {
	return &ImportGroupTool{store: store}
}

// Definition returns the MCP tool definition for ortu_import_group.
func (t *ImportGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_import_group",
		mcp.WithDescription(
			"Import a ---separated text file into a group. Every non-blank segment becomes a new item; "+
				"importing the same file twice creates duplicates.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Group name (created if missing)"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Source file path"),
		),
	)
}

// Handle processes the ortu_import_group tool call.
func (t *ImportGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	path, errRes := requireString(req, "path")
	if errRes != nil {
		return errRes, nil
	}
	n, err := t.store.ImportGroup(name, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to import group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Imported %d items into %q", n, name)), nil
}

// ─── ExportAllTextTool ──────────────────────────────────────────────────────

// ExportAllTextTool handles the ortu_export_all_txt MCP tool.
type ExportAllTextTool struct {
	store *history.Store
}

// NewExportAllTextTool creates an ExportAllTextTool with the given history store.
func NewExportAllTextTool(store *history.Store) *ExportAllTextTool {
	return &ExportAllTextTool{store: store}
}

// Definition returns the MCP tool definition for ortu_export_all_txt.
func (t *ExportAllTextTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_export_all_txt",
		mcp.WithDescription("Write the whole history to a ---separated text file, newest first."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Destination file path"),
		),
	)
}

// Handle processes the ortu_export_all_txt tool call.
func (t *ExportAllTextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errRes := requireString(req, "path")
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.ExportAllText(path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to export history: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("History exported to %s", path)), nil
}

// ─── BackupDataTool ─────────────────────────────────────────────────────────

// BackupDataTool handles the ortu_backup_data MCP tool.
type BackupDataTool struct {
	store *history.Store
}

// NewBackupDataTool creates a BackupDataTool with the given history store.
func NewBackupDataTool(store *history.Store) *BackupDataTool {
	return &BackupDataTool{store: store}
}

// Definition returns the MCP tool definition for ortu_backup_data.
func (t *BackupDataTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_backup_data",
		mcp.WithDescription(
			"Write a JSON backup {history, groups, exported_at}. "+
				"Pass groups to back up only the members of those groups.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Destination file path"),
		),
		mcp.WithArray("groups",
			mcp.Description("Optional group names to restrict the backup to"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the ortu_backup_data tool call.
func (t *BackupDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errRes := requireString(req, "path")
	if errRes != nil {
		return errRes, nil
	}
	groups := stringsArg(req, "groups")
	if err := t.store.BackupToFile(path, groups); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write backup: %v", err)), nil
	}
	scope := "all groups"
	if len(groups) > 0 {
		scope = strings.Join(groups, ", ")
	}
	return mcp.NewToolResultText(fmt.Sprintf("Backup of %s written to %s", scope, path)), nil
}

// ─── RestoreDataTool ────────────────────────────────────────────────────────

// RestoreDataTool handles the ortu_restore_data MCP tool.
type RestoreDataTool struct {
	store *history.Store
}

// NewRestoreDataTool creates a RestoreDataTool with the given history store.
func NewRestoreDataTool(store *history.Store) *RestoreDataTool {
	return &RestoreDataTool{store: store}
}

// Definition returns the MCP tool definition for ortu_restore_data.
func (t *RestoreDataTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_restore_data",
		mcp.WithDescription(
			"Restore a JSON backup. mode=replace wipes history and groups first; "+
				"mode=merge keeps existing data and only adds memberships to items whose content already exists.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Backup file path"),
		),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("replace or merge"),
			mcp.Enum(string(history.RestoreReplace), string(history.RestoreMerge)),
		),
	)
}

// Handle processes the ortu_restore_data tool call.
func (t *RestoreDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errRes := requireString(req, "path")
	if errRes != nil {
		return errRes, nil
	}
	mode, err := history.ParseRestoreMode(req.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := t.store.RestoreFromFile(path, mode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to restore backup: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Restored (%s): %d items inserted, %d merged, %d groups created",
		mode, res.ItemsInserted, res.ItemsMerged, res.GroupsCreated,
	)), nil
}

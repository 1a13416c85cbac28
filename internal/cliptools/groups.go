package cliptools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/ortu/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── GetCategoriesTool ──────────────────────────────────────────────────────

// GetCategoriesTool handles the ortu_get_categories MCP tool.
type GetCategoriesTool struct {
	store *history.Store
}

// NewGetCategoriesTool creates a GetCategoriesTool with the given history store.
func NewGetCategoriesTool(store *history.Store) *GetCategoriesTool {
	return &GetCategoriesTool{store: store}
}

// Definition returns the MCP tool definition for ortu_get_categories.
func (t *GetCategoriesTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_get_categories",
		mcp.WithDescription("List every known group name in ascending order."),
	)
}

// Handle processes the ortu_get_categories tool call.
func (t *GetCategoriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := t.store.Categories()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list categories: %v", err)), nil
	}
	return jsonResult(names)
}

// ─── CreateGroupTool ────────────────────────────────────────────────────────

// CreateGroupTool handles the ortu_create_group MCP tool.
type CreateGroupTool struct {
	store *history.Store
}

// NewCreateGroupTool creates a CreateGroupTool with the given history store.
func NewCreateGroupTool(store *history.Store) *CreateGroupTool {
	return &CreateGroupTool{store: store}
}

// Definition returns the MCP tool definition for ortu_create_group.
func (t *CreateGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_create_group",
		mcp.WithDescription("Create an empty group. Fails if the name is already taken."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Group name"),
		),
	)
}

// Handle processes the ortu_create_group tool call.
func (t *CreateGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	if _, err := t.store.CreateGroup(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %q created", name)), nil
}

// ─── DeleteGroupTool ────────────────────────────────────────────────────────

// DeleteGroupTool handles the ortu_delete_group MCP tool.
type DeleteGroupTool struct {
	store *history.Store
}

// NewDeleteGroupTool creates a DeleteGroupTool with the given history store.
func NewDeleteGroupTool(store *history.Store) *DeleteGroupTool {
	return &DeleteGroupTool{store: store}
}

// Definition returns the MCP tool definition for ortu_delete_group.
func (t *DeleteGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_delete_group",
		mcp.WithDescription(
			"Delete a group. Member items are kept; they lose this membership and, "+
				"if it was their category, their category.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Group name"),
		),
	)
}

// Handle processes the ortu_delete_group tool call.
func (t *DeleteGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.DeleteGroup(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %q deleted", name)), nil
}

// ─── RenameGroupTool ────────────────────────────────────────────────────────

// RenameGroupTool handles the ortu_rename_group MCP tool.
type RenameGroupTool struct {
	store *history.Store
}

// NewRenameGroupTool creates a RenameGroupTool with the given history store.
func NewRenameGroupTool(store *history.Store) *RenameGroupTool {
	return &RenameGroupTool{store: store}
}

// Definition returns the MCP tool definition for ortu_rename_group.
func (t *RenameGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_rename_group",
		mcp.WithDescription("Rename a group and the category of every item that carried the old name."),
		mcp.WithString("old_name",
			mcp.Required(),
			mcp.Description("Current group name"),
		),
		mcp.WithString("new_name",
			mcp.Required(),
			mcp.Description("New group name"),
		),
	)
}

// Handle processes the ortu_rename_group tool call.
func (t *RenameGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldName, errRes := requireString(req, "old_name")
	if errRes != nil {
		return errRes, nil
	}
	newName, errRes := requireString(req, "new_name")
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.RenameGroup(oldName, newName); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to rename group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %q renamed to %q", oldName, newName)), nil
}

// ─── AddToGroupTool ─────────────────────────────────────────────────────────

// AddToGroupTool handles the ortu_add_to_group MCP tool.
type AddToGroupTool struct {
	store *history.Store
}

// NewAddToGroupTool creates an AddToGroupTool with the given history store.
func NewAddToGroupTool(store *history.Store) *AddToGroupTool {
	return &AddToGroupTool{store: store}
}

// Definition returns the MCP tool definition for ortu_add_to_group.
func (t *AddToGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_add_to_group",
		mcp.WithDescription("Add an item to a group, creating the group if needed. Fails if the item does not exist."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Item ID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Group name"),
		),
	)
}

// Handle processes the ortu_add_to_group tool call.
func (t *AddToGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requireID(req)
	if errRes != nil {
		return errRes, nil
	}
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.AddToGroup(id, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add to group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Item %d added to %q", id, name)), nil
}

// ─── RemoveFromGroupTool ────────────────────────────────────────────────────

// RemoveFromGroupTool handles the ortu_remove_from_group MCP tool.
type RemoveFromGroupTool struct {
	store *history.Store
}

// NewRemoveFromGroupTool creates a RemoveFromGroupTool with the given history store.
func NewRemoveFromGroupTool(store *history.Store) *RemoveFromGroupTool {
	return &RemoveFromGroupTool{store: store}
}

// Definition returns the MCP tool definition for ortu_remove_from_group.
func (t *RemoveFromGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("ortu_remove_from_group",
		mcp.WithDescription("Remove an item from a group. Removing a membership that does not exist is a no-op."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Item ID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Group name"),
		),
	)
}

// Handle processes the ortu_remove_from_group tool call.
func (t *RemoveFromGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requireID(req)
	if errRes != nil {
		return errRes, nil
	}
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	if err := t.store.RemoveFromGroup(id, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove from group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Item %d removed from %q", id, name)), nil
}

// Package resources implements MCP resource handlers for the clipboard
// history.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (ortu://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/ortu/internal/history"
)

const (
	StatsURI  = "ortu://history/stats"
	GroupsURI = "ortu://groups"
)

// Source is the read side of the history store used by resources.
type Source interface {
	Stats() (*history.Stats, error)
	Groups() ([]history.Group, error)
}

// Handler manages ortu resource endpoints.
type Handler struct {
	store Source
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store Source) *Handler {
	return &Handler{store: store}
}

// StatsResource returns the MCP resource definition for history counts.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		StatsURI,
		"Clipboard History Stats",
		mcp.WithResourceDescription("Total items, pinned items and group count"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the current counts as JSON.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st, err := h.store.Stats()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, st)
}

// GroupsResource returns the MCP resource definition for the group list.
func (h *Handler) GroupsResource() mcp.Resource {
	return mcp.NewResource(
		GroupsURI,
		"Clipboard Groups",
		mcp.WithResourceDescription("Every group, ordered by name"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleGroups returns every group as JSON.
func (h *Handler) HandleGroups(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	groups, err := h.store.Groups()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, groups)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}

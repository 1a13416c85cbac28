// Package cliptools provides the MCP tool handlers that make up ortu's
// command surface.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (history.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Failures never cross the boundary as Go errors: every handler renders
// them with mcp.NewToolResultError.
package cliptools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int64) int64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int64(v)
}

// stringsArg extracts a list of strings. A comma-separated string is
// accepted as well as a JSON array.
func stringsArg(req mcp.CallToolRequest, key string) []string {
	var out []string
	switch v := req.GetArguments()[key].(type) {
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}

// requireID reads the mandatory positive "id" argument.
func requireID(req mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	id := intArg(req, "id", 0)
	if id <= 0 {
		return 0, mcp.NewToolResultError("'id' is required")
	}
	return id, nil
}

// requireString reads a mandatory non-blank string argument.
func requireString(req mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v := req.GetString(key, "")
	if strings.TrimSpace(v) == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("'%s' is required", key))
	}
	return v, nil
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

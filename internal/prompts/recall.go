// Package prompts implements MCP prompt handlers for ortu.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// RecallPrompt handles the ortu-recall MCP prompt.
// It asks the AI to find something the user copied earlier.
type RecallPrompt struct{}

// NewRecallPrompt creates a RecallPrompt.
func NewRecallPrompt() *RecallPrompt {
	return &RecallPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *RecallPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("ortu-recall",
		mcp.WithPromptDescription(
			"Find something you copied earlier. Searches the clipboard history "+
				"by text, group or bucket.",
		),
		mcp.WithArgument("query",
			mcp.ArgumentDescription("What you are looking for"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("group",
			mcp.ArgumentDescription("Optional group to search in, e.g. Docker or Git"),
		),
	)
}

// Handle processes the ortu-recall prompt request.
func (p *RecallPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := req.Params.Arguments["query"]
	group := req.Params.Arguments["group"]

	filter := query
	if group != "" {
		filter = fmt.Sprintf("category:%q %s", group, query)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Recall: %s", query),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I copied something earlier and need it back: %s\n\n"+
						"Please:\n"+
						"1. Run `ortu_get_history` with filter=%q\n"+
						"2. If nothing matches, retry with shorter keywords or a bucket filter "+
						"such as group:Dev or group:URL\n"+
						"3. Show me the best matches with their ids, newest first\n"+
						"4. Offer to pin the one I pick with `ortu_toggle_permanent`",
					query, filter,
				)),
			},
		},
	}, nil
}

package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// OrganizePrompt handles the ortu-organize MCP prompt.
// It walks the AI through tidying recent history into groups.
type OrganizePrompt struct{}

// NewOrganizePrompt creates an OrganizePrompt.
func NewOrganizePrompt() *OrganizePrompt {
	return &OrganizePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *OrganizePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("ortu-organize",
		mcp.WithPromptDescription(
			"Review recent clipboard history, fix categories and pin "+
				"what is worth keeping.",
		),
	)
}

// Handle processes the ortu-organize prompt request.
func (p *OrganizePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Organize clipboard history",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `ortu_get_history` and `ortu_get_categories` to review my clipboard.\n\n" +
						"Then:\n" +
						"1. Point out uncategorized items that clearly belong to an existing group\n" +
						"2. Suggest new groups for recurring snippets\n" +
						"3. After I confirm, apply changes with `ortu_set_category`, " +
						"`ortu_create_group` and `ortu_add_to_group`\n" +
						"4. Ask which items to pin; unpinned items expire after the retention window",
				),
			},
		},
	}, nil
}

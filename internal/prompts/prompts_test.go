package prompts

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRecallPrompt_PlainQuery(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"query": "postgres url"}

	res, err := NewRecallPrompt().Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Recall: postgres url", res.Description)
	assert.Contains(t, promptText(t, res), `filter="postgres url"`)
}

func TestRecallPrompt_WithGroup(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"query": "logs", "group": "My Stuff"}

	res, err := NewRecallPrompt().Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, promptText(t, res), `category:\"My Stuff\" logs`)
}

func TestOrganizePrompt(t *testing.T) {
	res, err := NewOrganizePrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	require.NoError(t, err)
	assert.Contains(t, promptText(t, res), "ortu_get_categories")
}

func TestPromptDefinitions(t *testing.T) {
	assert.Equal(t, "ortu-recall", NewRecallPrompt().Definition().Name)
	assert.Equal(t, "ortu-organize", NewOrganizePrompt().Definition().Name)
}

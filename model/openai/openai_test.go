package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlab/voyager/model"
	"github.com/voyagerlab/voyager/tool"
)

func TestConvertMessages(t *testing.T) {
	msgs := []model.Message{
		model.NewSystemMessage("You are a travel assistant."),
		model.NewUserMessage("Plan a trip to Goa"),
		{
			Role: model.RoleAssistant,
			ToolCalls: []model.ToolCall{{
				ID:   "call_1",
				Type: "function",
				Function: model.FunctionDefinitionParam{
					Name:      "web_search",
					Arguments: []byte(`{"query":"Goa"}`),
				},
			}},
		},
		model.NewToolMessage("call_1", "web_search", "results"),
	}

	converted := convertMessages(msgs)
	require.Len(t, converted, 4)
	require.NotNil(t, converted[0].OfSystem)
	require.NotNil(t, converted[1].OfUser)
	require.NotNil(t, converted[2].OfAssistant)
	require.Len(t, converted[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "web_search", converted[2].OfAssistant.ToolCalls[0].Function.Name)
	require.NotNil(t, converted[3].OfTool)
	assert.Equal(t, "call_1", converted[3].OfTool.ToolCallID)
}

type stubTool struct{ declaration *tool.Declaration }

func (s *stubTool) Declaration() *tool.Declaration { return s.declaration }

func TestConvertTools(t *testing.T) {
	tools := map[string]tool.Tool{
		"web_search": &stubTool{declaration: &tool.Declaration{
			Name:        "web_search",
			Description: "Search the web",
			InputSchema: &tool.Schema{
				Type: "object",
				Properties: map[string]*tool.Schema{
					"query": {Type: "string"},
				},
				Required: []string{"query"},
			},
		}},
	}

	converted := convertTools(tools)
	require.Len(t, converted, 1)
	assert.Equal(t, "web_search", converted[0].Function.Name)
	params := converted[0].Function.Parameters
	assert.Equal(t, "object", params["type"])
	assert.Contains(t, params, "properties")
}

func TestModelInfo(t *testing.T) {
	m := New("gpt-4o-mini", WithAPIKey("test-key"))
	assert.Equal(t, "gpt-4o-mini", m.Info().Name)
}

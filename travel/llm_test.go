package travel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voyagerlab/voyager/model"
)

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdown(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := parseDate("2026-12-10")
	assert.True(t, ok)
	assert.Equal(t, time.December, got.Month())

	got, ok = parseDate("10/12/2026")
	assert.True(t, ok)
	assert.Equal(t, 10, got.Day())

	_, ok = parseDate("null")
	assert.False(t, ok)
	_, ok = parseDate("next week sometime")
	assert.False(t, ok)
}

func TestCollectToolResults(t *testing.T) {
	messages := []model.Message{
		model.NewUserMessage("plan a trip"),
		model.NewAssistantMessage("calling tools"),
		model.NewToolMessage("call_1", "web_search", "attractions"),
		model.NewToolMessage("call_2", "get_weather", "sunny"),
	}
	assert.Equal(t, "attractions\n\nsunny", collectToolResults(messages))

	assert.Empty(t, collectToolResults([]model.Message{
		model.NewUserMessage("hello"),
	}))
}

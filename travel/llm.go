package travel

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/voyagerlab/voyager/model"
)

// invoke runs one completion and returns the text content. API-level
// provider errors are surfaced as ordinary errors; travel steps treat a
// failed completion as a failed step.
func (w *Workflow) invoke(ctx context.Context, system, human string) (string, error) {
	resp, err := w.deps.Generator.Generate(ctx, &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage(system),
			model.NewUserMessage(human),
		},
	})
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("model error: %s", resp.Error.Message)
	}
	return resp.Message.Content, nil
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// stripMarkdown removes a surrounding code fence that models sometimes
// wrap JSON output in.
func stripMarkdown(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = fenceOpen.ReplaceAllString(content, "")
		content = fenceClose.ReplaceAllString(content, "")
	}
	return strings.TrimSpace(content)
}

// dateLayouts are the accepted date input formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
}

// parseDate parses a user- or model-supplied date string.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if isNull(value) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// collectToolResults joins the contents of the trailing run of tool
// messages, oldest first.
func collectToolResults(messages []model.Message) string {
	var contents []string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != model.RoleTool {
			break
		}
		contents = append(contents, messages[i].Content)
	}
	for i, j := 0, len(contents)-1; i < j; i, j = i+1, j-1 {
		contents[i], contents[j] = contents[j], contents[i]
	}
	return strings.Join(contents, "\n\n")
}

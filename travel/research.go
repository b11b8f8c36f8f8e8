package travel

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/knowledge"
	"github.com/voyagerlab/voyager/model"
)

const noAnswerMarker = "NO_ANSWER_FOUND"

// retrieve fetches knowledge passages for the user query. A missing
// retriever yields no passages, pushing the generator toward fallback.
func (w *Workflow) retrieve(ctx context.Context, state graph.State) (any, error) {
	if w.deps.Retriever == nil {
		return graph.State{KeyRetrievedDocs: []knowledge.Passage{}}, nil
	}
	query := stateString(state, KeyUserQuery)
	docs, err := w.deps.Retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}
	return graph.State{KeyRetrievedDocs: docs}, nil
}

// generateAnswer answers the user query from retrieved passages only.
// When the passages cannot support an answer the model replies with a
// fixed marker and the run falls back to the general assistant.
func (w *Workflow) generateAnswer(ctx context.Context, state graph.State) (any, error) {
	docs, _ := state[KeyRetrievedDocs].([]knowledge.Passage)
	if len(docs) == 0 {
		return graph.State{
			KeyResearchResult:       "",
			KeyResearchAgentCalled:  true,
			KeyNeedsGeneralFallback: true,
		}, nil
	}

	answer, err := w.invoke(ctx, researchAnswerPrompt,
		buildResearchContext(stateString(state, KeyUserQuery), docs))
	if err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)

	if answer == "" || strings.Contains(answer, noAnswerMarker) {
		return graph.State{
			KeyResearchResult:       "",
			KeyResearchAgentCalled:  true,
			KeyNeedsGeneralFallback: true,
		}, nil
	}
	return graph.State{
		KeyResearchResult:       answer,
		KeyResearchAgentCalled:  true,
		KeyNeedsGeneralFallback: false,
		graph.StateKeyMessages:  model.NewAssistantMessage(answer),
	}, nil
}

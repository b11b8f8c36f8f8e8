// Package knowledge defines the retrieval boundary used by the research
// steps. Retrieval backends stay behind the Retriever interface; the
// engine never depends on how passages are indexed or ranked.
package knowledge

import "context"

// Passage is one retrieved chunk of source material.
type Passage struct {
	// ID identifies the passage within its source.
	ID string `json:"id"`
	// Content is the passage text.
	Content string `json:"content"`
	// Source names where the passage came from.
	Source string `json:"source,omitempty"`
	// Score is the backend-specific relevance score, higher is better.
	Score float64 `json:"score,omitempty"`
}

// Retriever fetches passages relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Passage, error)
}

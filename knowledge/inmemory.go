package knowledge

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// defaultLimit caps how many passages an in-memory retrieval returns.
const defaultLimit = 5

// InMemoryRetriever is a keyword-overlap retriever over documents held in
// memory. It scores passages by the share of query terms they contain.
// Intended for tests and local runs; production deployments plug a real
// backend into the Retriever interface instead.
type InMemoryRetriever struct {
	mu       sync.RWMutex
	passages []Passage
	limit    int
}

var _ Retriever = (*InMemoryRetriever)(nil)

// InMemoryOption configures an InMemoryRetriever.
type InMemoryOption func(*InMemoryRetriever)

// WithLimit sets the maximum number of passages returned per query.
func WithLimit(limit int) InMemoryOption {
	return func(r *InMemoryRetriever) {
		r.limit = limit
	}
}

// NewInMemoryRetriever creates an empty in-memory retriever.
func NewInMemoryRetriever(opts ...InMemoryOption) *InMemoryRetriever {
	r := &InMemoryRetriever{limit: defaultLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add indexes passages for later retrieval.
func (r *InMemoryRetriever) Add(passages ...Passage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passages = append(r.passages, passages...)
}

// Retrieve returns the passages sharing the most terms with the query,
// best first. Passages with no overlap are excluded.
func (r *InMemoryRetriever) Retrieve(ctx context.Context, query string) ([]Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Passage
	for _, p := range r.passages {
		score := overlap(terms, tokenize(p.Content))
		if score == 0 {
			continue
		}
		p.Score = score
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	if len(matched) > r.limit {
		matched = matched[:r.limit]
	}
	return matched, nil
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 2 {
			tokens[w] = struct{}{}
		}
	}
	return tokens
}

func overlap(query, passage map[string]struct{}) float64 {
	var hits int
	for term := range query {
		if _, ok := passage[term]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRetrieverRanksByOverlap(t *testing.T) {
	r := NewInMemoryRetriever()
	r.Add(
		Passage{ID: "1", Content: "Goa has beautiful beaches and vibrant nightlife", Source: "guide.pdf"},
		Passage{ID: "2", Content: "Manali is a hill station known for adventure sports", Source: "guide.pdf"},
		Passage{ID: "3", Content: "Beaches in Goa are best visited between November and February", Source: "guide.pdf"},
	)

	passages, err := r.Retrieve(context.Background(), "best beaches in Goa")
	require.NoError(t, err)
	require.NotEmpty(t, passages)
	assert.Equal(t, "3", passages[0].ID)
	for _, p := range passages {
		assert.NotEqual(t, "2", p.ID)
	}
}

func TestInMemoryRetrieverLimit(t *testing.T) {
	r := NewInMemoryRetriever(WithLimit(1))
	r.Add(
		Passage{ID: "1", Content: "temple city tour"},
		Passage{ID: "2", Content: "temple architecture"},
	)
	passages, err := r.Retrieve(context.Background(), "temple")
	require.NoError(t, err)
	assert.Len(t, passages, 1)
}

func TestInMemoryRetrieverNoMatch(t *testing.T) {
	r := NewInMemoryRetriever()
	r.Add(Passage{ID: "1", Content: "completely unrelated text"})
	passages, err := r.Retrieve(context.Background(), "beaches")
	require.NoError(t, err)
	assert.Empty(t, passages)
}

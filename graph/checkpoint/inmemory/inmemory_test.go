package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlab/voyager/graph"
)

func TestSaverRoundTrip(t *testing.T) {
	saver := NewSaver()
	defer saver.Close()
	ctx := context.Background()

	got, err := saver.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	checkpoint, err := graph.NewCheckpoint("thread-1", graph.State{"city": "Goa"}, "planner", nil)
	require.NoError(t, err)
	require.NoError(t, saver.Put(ctx, checkpoint))

	got, err = saver.Get(ctx, "thread-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "thread-1", got.ThreadID)
	assert.Equal(t, "planner", got.NextNode)
}

func TestSaverPutOverwrites(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	first, err := graph.NewCheckpoint("thread-1", graph.State{"n": 1}, "a", nil)
	require.NoError(t, err)
	require.NoError(t, saver.Put(ctx, first))

	second, err := graph.NewCheckpoint("thread-1", graph.State{"n": 2}, "b", nil)
	require.NoError(t, err)
	require.NoError(t, saver.Put(ctx, second))

	got, err := saver.Get(ctx, "thread-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "b", got.NextNode)
}

func TestSaverDelete(t *testing.T) {
	saver := NewSaver()
	ctx := context.Background()

	checkpoint, err := graph.NewCheckpoint("thread-1", graph.State{}, "a", nil)
	require.NoError(t, err)
	require.NoError(t, saver.Put(ctx, checkpoint))
	require.NoError(t, saver.Delete(ctx, "thread-1"))

	got, err := saver.Get(ctx, "thread-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent thread is not an error.
	require.NoError(t, saver.Delete(ctx, "thread-1"))
}

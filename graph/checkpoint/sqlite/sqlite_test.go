package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlab/voyager/graph"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "checkpoints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaverRoundTrip(t *testing.T) {
	ctx := context.Background()
	saver, err := NewSaver(ctx, openTestDB(t))
	require.NoError(t, err)

	got, err := saver.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	interrupt := &graph.InterruptState{
		NodeID:     "ask_preference",
		PauseIndex: 2,
		Payload:    &graph.SuspendPayload{Key: "budget", Question: "What is your budget?"},
		Answers:    []any{"Goa", "December"},
		Step:       4,
	}
	checkpoint, err := graph.NewCheckpoint("thread-1",
		graph.State{"user_input": "Plan a trip"}, "ask_preference", interrupt)
	require.NoError(t, err)
	require.NoError(t, saver.Put(ctx, checkpoint))

	got, err = saver.Get(ctx, "thread-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, checkpoint.ID, got.ID)
	assert.True(t, got.IsInterrupted())
	assert.Equal(t, "ask_preference", got.Interrupt.NodeID)
	assert.Equal(t, 2, got.Interrupt.PauseIndex)
	assert.Equal(t, "budget", got.Interrupt.Payload.Key)
	assert.Equal(t, []any{"Goa", "December"}, got.Interrupt.Answers)
}

func TestSaverPutOverwrites(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	saver, err := NewSaver(ctx, db)
	require.NoError(t, err)

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

	var count int
	row := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkpoints`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSaverDelete(t *testing.T) {
	ctx := context.Background()
	saver, err := NewSaver(ctx, openTestDB(t))
	require.NoError(t, err)

	checkpoint, err := graph.NewCheckpoint("thread-1", graph.State{}, "a", nil)
	require.NoError(t, err)
	require.NoError(t, saver.Put(ctx, checkpoint))
	require.NoError(t, saver.Delete(ctx, "thread-1"))

	got, err := saver.Get(ctx, "thread-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, saver.Delete(ctx, "thread-1"))
}

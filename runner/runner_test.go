package runner

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/graph/checkpoint/inmemory"
)

func askNameGraph(t *testing.T) *graph.Graph {
	t.Helper()
	schema := graph.NewStateSchema()
	schema.AddField("greeting", graph.StateField{
		Type:    reflect.TypeOf(""),
		Reducer: graph.DefaultReducer,
	})
	schema.AddField(graph.StateKeyUserInput, graph.StateField{
		Type:    reflect.TypeOf(""),
		Reducer: graph.DefaultReducer,
	})
	schema.AddField(graph.StateKeyLastResponse, graph.StateField{
		Type:    reflect.TypeOf(""),
		Reducer: graph.DefaultReducer,
	})

	g, err := graph.NewStateGraph(schema).
		AddNode("greet", func(ctx context.Context, state graph.State) (any, error) {
			name, err := graph.InterruptString(ctx, state, &graph.SuspendPayload{
				Key:      "name",
				Question: "What is your name?",
			})
			if err != nil {
				return nil, err
			}
			return graph.State{
				"greeting":                 "Hello, " + name,
				graph.StateKeyLastResponse: "Hello, " + name,
			}, nil
		}).
		SetEntryPoint("greet").
		SetFinishPoint("greet").
		Compile()
	require.NoError(t, err)
	return g
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	exec, err := graph.NewExecutor(askNameGraph(t),
		graph.WithCheckpointSaver(inmemory.NewSaver()))
	require.NoError(t, err)
	return New(exec)
}

func TestInvokeSurfacesSuspendThenFinal(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	out, err := r.Invoke(ctx, "t1", "hi")
	require.NoError(t, err)
	require.NotNil(t, out.Suspend)
	assert.False(t, out.Done)
	assert.Equal(t, "name", out.Suspend.Key)

	pending, err := r.Pending(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "What is your name?", pending.Question)

	// The next turn answers the pending question.
	out, err = r.Invoke(ctx, "t1", "Ada")
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, "Hello, Ada", out.Final)

	pending, err = r.Pending(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestResumeRequiresPendingQuestion(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Resume(context.Background(), "nope", "Ada")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestInvokeRejectsEmptyThread(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Invoke(context.Background(), "", "hi")
	assert.ErrorIs(t, err, graph.ErrThreadIDEmpty)
}

func TestPendingUnknownThread(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Pending(context.Background(), "ghost")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestConcurrentTurnRejected(t *testing.T) {
	ctx := context.Background()

	blocked := make(chan struct{})
	release := make(chan struct{})
	schema := graph.NewStateSchema()
	schema.AddField(graph.StateKeyUserInput, graph.StateField{
		Type:    reflect.TypeOf(""),
		Reducer: graph.DefaultReducer,
	})
	g, err := graph.NewStateGraph(schema).
		AddNode("slow", func(ctx context.Context, state graph.State) (any, error) {
			close(blocked)
			<-release
			return graph.State{}, nil
		}).
		SetEntryPoint("slow").
		SetFinishPoint("slow").
		Compile()
	require.NoError(t, err)
	exec, err := graph.NewExecutor(g, graph.WithCheckpointSaver(inmemory.NewSaver()))
	require.NoError(t, err)
	r := New(exec)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := r.Invoke(ctx, "busy", "first")
		assert.NoError(t, err)
	}()

	<-blocked
	_, err = r.Invoke(ctx, "busy", "second")
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	wg.Wait()
}

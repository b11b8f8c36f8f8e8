package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/voyagerlab/voyager/log"
	"github.com/voyagerlab/voyager/model"
	"github.com/voyagerlab/voyager/telemetry/trace"
	"github.com/voyagerlab/voyager/tool"
)

// pendingToolCalls reports the tool calls requested by the step's latest
// output. Only a trailing assistant message counts: once results are
// appended, the trailing message is a tool message and the request is
// considered served.
func pendingToolCalls(state State) []model.ToolCall {
	last, ok := LastMessage(state)
	if !ok {
		return nil
	}
	if last.Role != model.RoleAssistant || len(last.ToolCalls) == 0 {
		return nil
	}
	return last.ToolCalls
}

// dispatchToolCalls runs the requested tools concurrently and returns one
// tool message per call, in request order. A tool whose Call returns an
// error contributes that error text as its result content, so the step
// that consumes the results can react to the failure.
func (e *Executor) dispatchToolCalls(ctx context.Context, calls []model.ToolCall) ([]model.Message, error) {
	results := make([]model.Message, len(calls))
	errs := make([]error, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		i, call := i, call
		task := func() {
			defer wg.Done()
			results[i], errs[i] = e.executeToolCall(ctx, call)
		}
		if err := ants.Submit(task); err != nil {
			// Pool saturated or released, run inline.
			task()
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// executeToolCall invokes one tool and renders its result as a tool
// message correlated to the call ID.
func (e *Executor) executeToolCall(ctx context.Context, call model.ToolCall) (model.Message, error) {
	name := call.Function.Name
	t, ok := e.tools[name]
	if !ok {
		return model.Message{}, fmt.Errorf("tool %s not found", name)
	}
	callable, ok := t.(tool.CallableTool)
	if !ok {
		return model.Message{}, fmt.Errorf("tool %s is not callable", name)
	}

	ctx, span := traceToolSpan(ctx, name)
	defer span.End()

	result, err := callable.Call(ctx, call.Function.Arguments)
	var content string
	if err != nil {
		log.Debugf("tool %s failed: %v", name, err)
		content = fmt.Sprintf("Error: %v", err)
	} else {
		switch v := result.(type) {
		case string:
			content = v
		default:
			data, err := json.Marshal(result)
			if err != nil {
				return model.Message{}, fmt.Errorf("marshal result of tool %s: %w", name, err)
			}
			content = string(data)
		}
	}
	return model.NewToolMessage(call.ID, name, content), nil
}

func traceToolSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	ctx, span := trace.Tracer.Start(ctx, fmt.Sprintf("execute_tool %s", name))
	span.SetAttributes(attribute.String("voyager.tool_name", name))
	return ctx, span
}

package graph

import (
	"context"
	"fmt"
	"sort"
)

// StateGraph provides a fluent interface for building graphs.
// This is the primary public API for creating executable graphs.
//
// Example usage:
//
//	schema := NewStateSchema().AddField("counter", StateField{...})
//	graph, err := NewStateGraph(schema).
//	  AddNode("increment", incrementFunc).
//	  SetEntryPoint("increment").
//	  SetFinishPoint("increment").
//	  Compile()
//
// The compiled Graph can then be executed with NewExecutor(graph).
type StateGraph struct {
	graph *Graph
	err   error
}

// NewStateGraph creates a new graph builder with the given state schema.
func NewStateGraph(schema *StateSchema) *StateGraph {
	return &StateGraph{
		graph: New(schema),
	}
}

// Option is a function that configures a Node.
type Option func(*Node)

// WithName sets the name of the node.
func WithName(name string) Option {
	return func(node *Node) {
		node.Name = name
	}
}

// WithDescription sets the description of the node.
func WithDescription(description string) Option {
	return func(node *Node) {
		node.Description = description
	}
}

// record keeps the first builder error for Compile to report.
func (sg *StateGraph) record(err error) {
	if sg.err == nil && err != nil {
		sg.err = err
	}
}

// AddNode adds a node with the given ID and function.
// The name and description of the node can be set with the options.
func (sg *StateGraph) AddNode(id string, function NodeFunc, opts ...Option) *StateGraph {
	node := &Node{
		ID:       id,
		Name:     id,
		Function: function,
	}
	for _, opt := range opts {
		opt(node)
	}
	sg.record(sg.graph.addNode(node))
	return sg
}

// AddEdge adds a static edge between two nodes.
func (sg *StateGraph) AddEdge(from, to string) *StateGraph {
	sg.record(sg.graph.addEdge(&Edge{From: from, To: to}))
	return sg
}

// AddConditionalEdges adds conditional routing from a node.
func (sg *StateGraph) AddConditionalEdges(
	from string,
	condition ConditionalFunc,
	pathMap map[string]string,
) *StateGraph {
	sg.record(sg.graph.addConditionalEdge(&ConditionalEdge{
		From:      from,
		Condition: condition,
		PathMap:   pathMap,
	}))
	return sg
}

// AddToolsConditionalEdges adds conditional routing from a step to a
// follow-up step, falling back when the last message carries tool calls.
// The engine's tool sub-loop normally consumes tool calls before routing,
// so this edge kind is only needed for graphs executed without tools.
func (sg *StateGraph) AddToolsConditionalEdges(
	from string,
	toToolsNode string,
	fallbackNode string,
) *StateGraph {
	condition := func(ctx context.Context, state State) (string, error) {
		if msg, ok := LastMessage(state); ok && len(msg.ToolCalls) > 0 {
			return toToolsNode, nil
		}
		return fallbackNode, nil
	}
	return sg.AddConditionalEdges(from, condition, map[string]string{
		toToolsNode:  toToolsNode,
		fallbackNode: fallbackNode,
	})
}

// SetEntryPoint sets the entry point of the graph.
// This is equivalent to AddEdge(Start, nodeID).
func (sg *StateGraph) SetEntryPoint(nodeID string) *StateGraph {
	sg.record(sg.graph.setEntryPoint(nodeID))
	sg.AddEdge(Start, nodeID)
	return sg
}

// SetFinishPoint adds an edge from the node to End.
// This is equivalent to AddEdge(nodeID, End).
func (sg *StateGraph) SetFinishPoint(nodeID string) *StateGraph {
	sg.AddEdge(nodeID, End)
	return sg
}

// Compile compiles the graph and returns it for execution.
// Unknown node references surface here, at build time, not at run time.
func (sg *StateGraph) Compile() (*Graph, error) {
	if sg.err != nil {
		return nil, fmt.Errorf("invalid graph: %w", sg.err)
	}
	if err := sg.graph.validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	return sg.graph, nil
}

// MustCompile compiles the graph or panics if invalid.
func (sg *StateGraph) MustCompile() *Graph {
	graph, err := sg.Compile()
	if err != nil {
		panic(err)
	}
	return graph
}

// NodeIDs returns the IDs of all registered nodes, sorted.
func (sg *StateGraph) NodeIDs() []string {
	sg.graph.mu.RLock()
	defer sg.graph.mu.RUnlock()
	ids := make([]string, 0, len(sg.graph.nodes))
	for id := range sg.graph.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

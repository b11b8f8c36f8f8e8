// Package travel builds the travel-assistant workflow: intent analysis,
// document research, preference collection across the human-input
// boundary, route description and optimization, and final synthesis,
// wired as a step graph over shared session state.
package travel

import (
	"errors"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/knowledge"
	"github.com/voyagerlab/voyager/model"
	"github.com/voyagerlab/voyager/tool"
	"github.com/voyagerlab/voyager/tool/geo"
)

// Step identifiers in the travel workflow graph.
const (
	nodeQueryIntent      = "query_intent"
	nodeRetriever        = "retriever"
	nodeGenerator        = "generator"
	nodeAskPreference    = "ask_preference"
	nodeRouteDescription = "route_description"
	nodeTripPlanner      = "trip_planner"
	nodeWeatherAnalyst   = "weather_analyst"
	nodeGeneralAssistant = "general_assistant"
	nodeRouteOptimizer   = "route_optimizer"
	nodeSynthesizer      = "synthesizer"
)

// Deps are the collaborators the workflow steps call out to. Generator
// is required; the others degrade gracefully when absent (research
// returns nothing, route steps skip optimization).
type Deps struct {
	// Generator produces completions for every LLM-backed step.
	Generator model.Generator
	// Retriever serves the research capability.
	Retriever knowledge.Retriever
	// Geo resolves places and routes.
	Geo *geo.Client
	// Tools are dispatched by the engine's tool sub-loop.
	Tools map[string]tool.Tool
}

// Workflow holds the step implementations over a fixed set of deps.
type Workflow struct {
	deps Deps
}

// NewWorkflow creates a workflow over the given collaborators.
func NewWorkflow(deps Deps) (*Workflow, error) {
	if deps.Generator == nil {
		return nil, errors.New("travel workflow requires a model generator")
	}
	return &Workflow{deps: deps}, nil
}

// Tools returns the tools the workflow steps may call.
func (w *Workflow) Tools() map[string]tool.Tool {
	return w.deps.Tools
}

// Graph compiles the travel workflow graph.
func (w *Workflow) Graph() (*graph.Graph, error) {
	agentPaths := pathMap(
		nodeRetriever, nodeAskPreference, nodeWeatherAnalyst,
		nodeGeneralAssistant, nodeRouteOptimizer, nodeSynthesizer,
	)
	return graph.NewStateGraph(Schema()).
		AddNode(nodeQueryIntent, w.queryIntent,
			graph.WithDescription("Classify the query and extract stated preferences")).
		AddNode(nodeRetriever, w.retrieve,
			graph.WithDescription("Fetch relevant passages from the knowledge base")).
		AddNode(nodeGenerator, w.generateAnswer,
			graph.WithDescription("Answer from retrieved passages")).
		AddNode(nodeAskPreference, w.askPreference,
			graph.WithDescription("Collect missing trip preferences from the user")).
		AddNode(nodeRouteDescription, w.describeRoute,
			graph.WithDescription("Geocode endpoints and describe the fixed route")).
		AddNode(nodeTripPlanner, w.planTrip,
			graph.WithDescription("Build the itinerary, researching via tools")).
		AddNode(nodeWeatherAnalyst, w.analyzeWeather,
			graph.WithDescription("Analyze destination weather via tools")).
		AddNode(nodeGeneralAssistant, w.generalAssist,
			graph.WithDescription("Answer general travel questions via tools")).
		AddNode(nodeRouteOptimizer, w.optimizeRoute,
			graph.WithDescription("Order itinerary places by nearest-neighbour distance")).
		AddNode(nodeSynthesizer, w.synthesize,
			graph.WithDescription("Compose the final answer")).
		SetEntryPoint(nodeQueryIntent).
		AddConditionalEdges(nodeQueryIntent, routeAfterIntent, pathMap(
			nodeRetriever, nodeAskPreference, nodeWeatherAnalyst, nodeGeneralAssistant,
		)).
		AddEdge(nodeRetriever, nodeGenerator).
		AddConditionalEdges(nodeGenerator, routeAfterGenerator, pathMap(
			nodeAskPreference, nodeGeneralAssistant, nodeSynthesizer,
		)).
		AddEdge(nodeRouteDescription, nodeTripPlanner).
		AddConditionalEdges(nodeTripPlanner, routeAfterAgent, agentPaths).
		AddConditionalEdges(nodeWeatherAnalyst, routeAfterAgent, agentPaths).
		AddConditionalEdges(nodeGeneralAssistant, routeAfterAgent, agentPaths).
		AddEdge(nodeRouteOptimizer, nodeSynthesizer).
		SetFinishPoint(nodeSynthesizer).
		Compile()
}

// pathMap builds an identity path map over the given targets, always
// including the terminal step.
func pathMap(targets ...string) map[string]string {
	paths := make(map[string]string, len(targets)+1)
	for _, target := range targets {
		paths[target] = target
	}
	paths[graph.End] = graph.End
	return paths
}

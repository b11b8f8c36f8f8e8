package travel

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/log"
	"github.com/voyagerlab/voyager/model"
	"github.com/voyagerlab/voyager/tool/geo"
)

const routeSamplePoints = 8

type correctedLocations struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type extractedPlaces struct {
	Places []string `json:"places"`
}

// describeRoute resolves the source and destination, fetches the driving
// route between them, names a handful of places along it, and has the
// model describe that fixed route. Geocoding failures fail the run:
// planning against an unresolvable endpoint would produce nonsense.
func (w *Workflow) describeRoute(ctx context.Context, state graph.State) (any, error) {
	if w.deps.Geo == nil {
		return graph.State{}, nil
	}

	source := stateString(state, KeySourceLocation)
	destination := plannerLocation(state)
	if destination == "" {
		destination = stateString(state, KeyLocation)
	}
	source, destination = w.correctLocations(ctx, source, destination)

	fromCoord, err := w.deps.Geo.Geocode(ctx, source)
	if err != nil {
		return nil, err
	}
	toCoord, err := w.deps.Geo.Geocode(ctx, destination)
	if err != nil {
		return nil, err
	}
	route, err := w.deps.Geo.Route(ctx, fromCoord, toCoord)
	if err != nil {
		return nil, err
	}

	places := make([]geo.Place, 0, routeSamplePoints)
	for _, point := range geo.SamplePoints(route.Geometry, routeSamplePoints) {
		name, err := w.deps.Geo.ReverseGeocode(ctx, point)
		if err != nil {
			name = "Unknown location"
		}
		places = append(places, geo.Place{Coordinate: point, Name: name})
	}

	description, err := w.invoke(ctx, tripPlannerPrompt,
		buildRouteDescriptionContext(source, destination, route, places))
	if err != nil {
		return nil, err
	}

	return graph.State{
		KeySourceLocation: source,
		KeyAgentLocations: map[string]any{CapabilityPlanner: destination},
		KeyRouteInfo: map[string]any{
			"distance_km":  route.DistanceKM,
			"duration_min": route.DurationMin,
		},
		KeyPlacesAlongRoute: places,
		KeyRouteLLMResult:   description,
	}, nil
}

// correctLocations normalizes city names through the model, keeping the
// inputs unchanged when the model fails or returns garbage.
func (w *Workflow) correctLocations(ctx context.Context, source, destination string) (string, string) {
	raw, err := w.invoke(ctx, locationCorrectionPrompt,
		"source: "+source+"\ndestination: "+destination)
	if err != nil {
		log.Debugf("location correction skipped: %v", err)
		return source, destination
	}
	var corrected correctedLocations
	if err := json.Unmarshal([]byte(stripMarkdown(raw)), &corrected); err != nil {
		log.Debugf("location correction skipped: malformed JSON: %v", err)
		return source, destination
	}
	if !isNull(corrected.Source) {
		source = corrected.Source
	}
	if !isNull(corrected.Destination) {
		destination = corrected.Destination
	}
	return source, destination
}

// optimizeRoute extracts the places the itinerary visits and reorders
// them by nearest-neighbour driving heuristic. Extraction or ordering
// problems degrade to an unordered plan rather than failing the run.
func (w *Workflow) optimizeRoute(ctx context.Context, state graph.State) (any, error) {
	plan := stateString(state, KeyTripPlannerResult)
	if plan == "" || w.deps.Geo == nil {
		return graph.State{}, nil
	}

	raw, err := w.invoke(ctx, placeExtractionPrompt, plan)
	if err != nil {
		return nil, err
	}
	var extracted extractedPlaces
	if err := json.Unmarshal([]byte(stripMarkdown(raw)), &extracted); err != nil {
		log.Debugf("place extraction: malformed JSON: %v", err)
		return graph.State{}, nil
	}
	if len(extracted.Places) == 0 {
		return graph.State{}, nil
	}

	ordered, err := w.deps.Geo.OptimizeRoute(ctx, extracted.Places)
	if err != nil {
		log.Debugf("route optimization skipped: %v", err)
		ordered = extracted.Places
	}
	sequence := strings.Join(ordered, " -> ")

	return graph.State{
		KeyPlacesExtracted:     extracted.Places,
		KeyOptimizedRoute:      sequence,
		graph.StateKeyMessages: model.NewAssistantMessage("Optimized visiting order: " + sequence),
	}, nil
}

package travel

import (
	"fmt"
	"strings"

	"github.com/voyagerlab/voyager/knowledge"
	"github.com/voyagerlab/voyager/tool/geo"
)

const intentPrompt = `You are a travel query intent analyzer.

Identify which capabilities are needed to answer the user's query and
extract any travel preferences already mentioned.

Capabilities:
- "research_agent": the query asks about indexed travel documents or guides
- "trip_planner": the user wants an itinerary or trip plan
- "weather_analyst": the user asks about weather
- "general_assistant": general travel questions not covered above

Return ONLY valid JSON, no markdown, in exactly this shape:
{
  "agents_needed": ["capability", ...],
  "locations": {"capability": "destination city or null", ...},
  "preferences": {
    "trip_days": null, "budget": null, "season": null, "month": null,
    "experience_type": null, "people": null, "source_location": null
  }
}
Use null for anything the query does not state. An empty agents_needed
list means the query is not travel related.`

const dateExtractionPrompt = `You are a date extraction system.
Extract the trip start and end dates from the query, if present.
Return ONLY valid JSON, no markdown:
{"from_date": "YYYY-MM-DD or null", "to_date": "YYYY-MM-DD or null"}`

const locationCorrectionPrompt = `You are a location spelling corrector and standardizer.
Correct spelling mistakes, expand abbreviations (e.g. "cbe" to
"Coimbatore", "blr" to "Bangalore") and use official city names.
If a value is already correct keep it as-is; if it is null keep null.
Return ONLY valid JSON: {"source": "...", "destination": "..."}`

const tripPlannerPrompt = `You are an expert trip planner. Build a clear,
day-by-day itinerary from the supplied preferences, search results and
route information. Keep the plan realistic and actionable. Do not invent
attractions that the supplied material does not support.`

const weatherAnalystPrompt = `You are a weather analyst for travelers.
Explain the supplied weather data in plain language and point out
anything that affects travel plans.`

const generalAssistantPrompt = `You are a helpful travel assistant.
Answer the user's question using the supplied search results. Be concise
and factual.`

const researchAnswerPrompt = `Answer the user's question using ONLY the
supplied document passages. If the passages do not contain the answer,
reply with the exact text NO_ANSWER_FOUND and nothing else.`

const placeExtractionPrompt = `You are a precise information extraction
system. Extract the distinct place names visited in the itinerary, in
order of first mention. Return ONLY valid JSON with no additional text:
{"places": ["place", ...]}`

const synthesizerPrompt = `You combine trip plans, weather analysis,
travel research and route ordering into one final answer for the
traveler. Use a natural professional tone and do not mention agents or
tools.`

func buildIntentContext(userQuery string) string {
	return fmt.Sprintf("USER QUERY:\n%s", userQuery)
}

func buildResearchContext(userQuery string, docs []knowledge.Passage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "USER QUERY:\n%s\n\nDOCUMENT PASSAGES:\n", userQuery)
	for i, doc := range docs {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, doc.Content)
	}
	return b.String()
}

func buildTripPlannerContext(state prefSnapshot, routeBlock, toolResults string) string {
	return fmt.Sprintf(`TRIP PREFERENCES:
- Destination: %s
- Duration: %s
- Budget: %s
- Season: %s
- Month: %s
- Experience: %s
- Travelers: %s
%s
SEARCH AND WEATHER RESULTS:
%s

Build the itinerary now.`,
		state.location, state.tripDays, state.budget, state.season,
		state.month, state.experience, state.people, routeBlock, toolResults)
}

func buildWeatherContext(userQuery, location, toolResults string) string {
	return fmt.Sprintf("USER QUERY:\n%s\n\nLOCATION: %s\n\nWEATHER DATA:\n%s",
		userQuery, location, toolResults)
}

func buildGeneralContext(userQuery, toolResults string) string {
	return fmt.Sprintf("USER QUERY:\n%s\n\nSEARCH RESULTS:\n%s", userQuery, toolResults)
}

func buildRouteDescriptionContext(source, destination string, route *geo.Route, places []geo.Place) string {
	var names []string
	for _, p := range places {
		names = append(names, p.Name)
	}
	return fmt.Sprintf(`You are given a FIXED travel route. You MUST NOT change it.

SOURCE: %s
DESTINATION: %s

ROUTE SUMMARY:
- Distance: %.2f km
- Duration: %.1f minutes

PLACES ALONG THE ROUTE (in order):
%s

TASK:
1. Identify notable places directly on this route
2. No detours, no optimizations
3. Say clearly if nothing notable exists`,
		source, destination, route.DistanceKM, route.DurationMin,
		strings.Join(names, ", "))
}

func buildSynthesizerContext(state graphSnapshot) string {
	var sections []string
	if state.tripPlan != "" {
		sections = append(sections, "TRIP ITINERARY:\n"+state.tripPlan)
	}
	if state.weatherInfo != "" {
		sections = append(sections, "WEATHER INFORMATION:\n"+state.weatherInfo)
	}
	if state.generalInfo != "" {
		sections = append(sections, "TRAVEL INFORMATION:\n"+state.generalInfo)
	}
	if state.researchInfo != "" {
		sections = append(sections, "DOCUMENT INFORMATION:\n"+state.researchInfo)
	}

	routeBlock := ""
	if state.optimizedRoute != "" {
		routeBlock = "DISTANCE-OPTIMIZED SEQUENCE:\n" + state.optimizedRoute + "\n"
	}
	return fmt.Sprintf(`USER QUERY:
%s

TRIP DURATION:
%s

%s

%s
SYNTHESIS INSTRUCTIONS:
- Present the itinerary clearly based on the user query
- Use day-by-day format if trip duration is specified
- Follow the distance-optimized sequence if provided
- Include weather and travel info considerations
- Group nearby places and suggest logical visiting flow
- Keep the plan realistic, actionable, and traveler-friendly`,
		state.userQuery, state.tripDays, strings.Join(sections, "\n\n"), routeBlock)
}

// prefSnapshot gathers the planner-facing preference values.
type prefSnapshot struct {
	location   string
	tripDays   string
	budget     string
	season     string
	month      string
	experience string
	people     string
}

// graphSnapshot gathers the synthesizer inputs.
type graphSnapshot struct {
	userQuery      string
	tripDays       string
	tripPlan       string
	weatherInfo    string
	generalInfo    string
	researchInfo   string
	optimizedRoute string
}

package travel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/voyagerlab/voyager/graph"
)

// askPreference collects the trip preferences the planner needs, one
// question per pass. Each pass confirms or asks at most one thing, stores
// the answer, and loops back to itself until everything is known, then
// hands off to the route description step.
//
// Answers recorded before a later pause are replayed from state on
// resume, so every answer is folded into the returned update rather than
// kept in locals.
func (w *Workflow) askPreference(ctx context.Context, state graph.State) (any, error) {
	if stateBool(state, KeyPreferencesCollected) {
		return &graph.Command{GoTo: nodeRouteDescription}, nil
	}

	if !stateBool(state, KeyDateConfirmationDone) {
		return w.confirmDates(ctx, state)
	}

	update := graph.State{}
	w.deriveFromDates(state, update)

	missing := missingPreferences(state, update)
	if len(missing) == 0 {
		update[KeyPreferencesCollected] = true
		return &graph.Command{Update: update, GoTo: nodeRouteDescription}, nil
	}

	key := missing[0]
	pref := preferences[key]
	destination := plannerLocation(state)
	if loc := stateString(state, KeyLocation); destination == "" && !isNull(loc) {
		destination = loc
	}
	answer, err := graph.InterruptString(ctx, state, &graph.SuspendPayload{
		Key:      pref.Key,
		Question: pref.question(destination),
		Shape:    graph.ShapeChoice,
		Options:  pref.Options,
	})
	if err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "Not specified"
	}
	update[key] = answer
	if key == KeyLocation {
		update[KeyAgentLocations] = map[string]any{CapabilityPlanner: answer}
	}

	if len(missing) == 1 {
		update[KeyPreferencesCollected] = true
		return &graph.Command{Update: update, GoTo: nodeRouteDescription}, nil
	}
	return &graph.Command{Update: update, GoTo: nodeAskPreference}, nil
}

// confirmDates handles the date part of preference collection. Dates the
// intent step extracted are confirmed with the user; a "Change" answer
// collects replacements. Without extracted dates the duration and month
// questions cover the gap later.
func (w *Workflow) confirmDates(ctx context.Context, state graph.State) (any, error) {
	update := graph.State{KeyDateConfirmationDone: true}

	fromRaw := stateString(state, KeyFromDate)
	toRaw := stateString(state, KeyToDate)
	_, fromOK := parseDate(fromRaw)
	_, toOK := parseDate(toRaw)
	if !fromOK || !toOK {
		return &graph.Command{Update: update, GoTo: nodeAskPreference}, nil
	}

	answer, err := graph.InterruptString(ctx, state, &graph.SuspendPayload{
		Key: "dates_confirmation",
		Question: fmt.Sprintf(
			"I found these travel dates in your request: %s to %s. Should I keep them?",
			fromRaw, toRaw),
		Shape:    graph.ShapeConfirm,
		Options:  []string{"Keep", "Change"},
		Default:  "Keep",
		Metadata: map[string]any{KeyFromDate: fromRaw, KeyToDate: toRaw},
	})
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(strings.TrimSpace(answer), "change") {
		newFrom, err := graph.InterruptString(ctx, state, &graph.SuspendPayload{
			Key:      KeyFromDate,
			Question: "What is your new start date? (YYYY-MM-DD)",
			Shape:    graph.ShapeDate,
		})
		if err != nil {
			return nil, err
		}
		newTo, err := graph.InterruptString(ctx, state, &graph.SuspendPayload{
			Key:      KeyToDate,
			Question: "What is your new end date? (YYYY-MM-DD)",
			Shape:    graph.ShapeDate,
		})
		if err != nil {
			return nil, err
		}
		update[KeyFromDate] = strings.TrimSpace(newFrom)
		update[KeyToDate] = strings.TrimSpace(newTo)
	}
	return &graph.Command{Update: update, GoTo: nodeAskPreference}, nil
}

// deriveFromDates fills duration and month from confirmed dates so they
// are never asked redundantly.
func (w *Workflow) deriveFromDates(state graph.State, update graph.State) {
	from, fromOK := parseDate(stateString(state, KeyFromDate))
	to, toOK := parseDate(stateString(state, KeyToDate))
	if !fromOK || !toOK {
		return
	}
	// Travel days count inclusively: Dec 10 to Dec 13 is a 4-day trip.
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	if isNull(stateString(state, KeyTripDays)) {
		update[KeyTripDays] = strconv.Itoa(days)
	}
	if isNull(stateString(state, KeySeason)) && isNull(stateString(state, KeyMonth)) {
		update[KeyMonth] = from.Month().String()
	}
}

// missingPreferences lists the preference keys still to collect, in the
// fixed collection order. Values already present in the pending update
// count as known.
func missingPreferences(state graph.State, update graph.State) []string {
	known := func(key string) bool {
		if !isNull(stateString(update, key)) {
			return true
		}
		return !isNull(stateString(state, key))
	}

	var missing []string
	for _, key := range preferenceOrder {
		switch key {
		case KeySeason:
			// A month answer stands in for the season.
			continue
		case KeyTripDays:
			if known(KeyTripDays) {
				continue
			}
		case KeyMonth:
			if known(KeySeason) || known(KeyMonth) {
				continue
			}
		case KeyLocation:
			if plannerLocation(state) != "" || known(KeyLocation) {
				continue
			}
		default:
			if known(key) {
				continue
			}
		}
		if !known(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// plannerLocation reads the planner destination the intent step found.
func plannerLocation(state graph.State) string {
	locations := stateLocations(state, KeyAgentLocations)
	value, _ := locations[CapabilityPlanner].(string)
	if isNull(value) {
		return ""
	}
	return value
}

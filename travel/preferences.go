package travel

import "strings"

// Preference is one collectable travel preference: a stable key, the
// question asked when it is missing, and the offered options.
type Preference struct {
	Key      string
	Question string
	Options  []string
}

const locationPlaceholder = "{location}"

// question renders the question text for the given destination. A known
// destination fills the placeholder; otherwise the placeholder clause is
// dropped so the question still reads naturally.
func (p Preference) question(location string) string {
	if !strings.Contains(p.Question, locationPlaceholder) {
		return p.Question
	}
	if location != "" {
		return strings.ReplaceAll(p.Question, locationPlaceholder, location)
	}
	return strings.ReplaceAll(p.Question, " to "+locationPlaceholder, "")
}

// preferenceOrder fixes the order in which missing preferences are
// collected.
var preferenceOrder = []string{
	KeyBudget,
	KeySourceLocation,
	KeyExperienceType,
	KeyPeople,
	KeyLocation,
	KeyTripDays,
	KeyMonth,
	KeySeason,
}

// preferences is the catalogue of collectable preferences.
var preferences = map[string]Preference{
	KeyLocation: {
		Key:      KeyLocation,
		Question: "Which location or city are you planning to visit?",
		Options: []string{
			"Paris", "New York", "Tokyo", "London", "Sydney",
			"Rome", "Bali", "Istanbul", "Dubai", "Other / Not decided",
		},
	},
	KeySourceLocation: {
		Key:      KeySourceLocation,
		Question: "From which city will you be starting your journey?",
		Options: []string{
			"Delhi", "Mumbai", "Bangalore", "Chennai", "Hyderabad",
			"Kolkata", "Pune", "Coimbatore", "Other / Not decided",
		},
	},
	KeyBudget: {
		Key:      KeyBudget,
		Question: "What's your budget range for this trip to {location}?",
		Options:  []string{"Budget-friendly", "Mid-range", "Luxury", "No specific budget"},
	},
	KeySeason: {
		Key:      KeySeason,
		Question: "What season or time of year are you planning to travel?",
		Options:  []string{"Spring", "Summer", "Fall", "Winter", "Flexible"},
	},
	KeyMonth: {
		Key:      KeyMonth,
		Question: "Which month are you planning to travel?",
		Options: []string{
			"January", "February", "March", "April",
			"May", "June", "July", "August",
			"September", "October", "November", "December",
			"Not decided / Flexible",
		},
	},
	KeyExperienceType: {
		Key:      KeyExperienceType,
		Question: "What type of experience are you looking for?",
		Options: []string{
			"Spiritual/Religious",
			"Relaxing/Leisure",
			"Cultural/Sightseeing",
			"Adventure/Active",
			"Mix of everything",
		},
	},
	KeyTripDays: {
		Key:      KeyTripDays,
		Question: "How many days are you planning to spend on this trip?",
		Options:  []string{"1-3 days", "4-7 days", "8-14 days", "More than 14 days"},
	},
	KeyPeople: {
		Key:      KeyPeople,
		Question: "How many people will be traveling?",
		Options:  []string{"Solo", "Couple", "Family", "Group (3+ people)"},
	},
}

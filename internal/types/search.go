package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilters is returned when a filter set cannot be sent upstream.
var ErrInvalidFilters = errors.New("invalid search filters")

// Diets accepted by the complexSearch endpoint.
const (
	DietVegetarian = "vegetarian"
	DietVegan      = "vegan"
	DietGlutenFree = "gluten free"
	DietDairyFree  = "dairy free"
	DietKeto       = "keto"
	DietPaleo      = "paleo"

	// DietAny is what the diet picker sends when no diet is selected.
	DietAny = "any"
)

var diets = map[string]bool{
	DietVegetarian: true,
	DietVegan:      true,
	DietGlutenFree: true,
	DietDairyFree:  true,
	DietKeto:       true,
	DietPaleo:      true,
}

// IsKnownDiet reports whether diet is part of the supported vocabulary.
func IsKnownDiet(diet string) bool {
	return diets[diet]
}

// SearchFilters is the user supplied search criteria. Zero values of the
// optional fields mean "no filter" and are never sent upstream.
type SearchFilters struct {
	Ingredients  string   `json:"ingredients"`
	Diet         string   `json:"diet,omitempty"`
	Intolerances []string `json:"intolerances,omitempty"`
	MaxReadyTime int      `json:"maxReadyTime,omitempty"`
}

// Normalize trims every field and drops values that mean "absent".
func (f SearchFilters) Normalize() SearchFilters {
	out := SearchFilters{
		Ingredients:  strings.TrimSpace(f.Ingredients),
		Diet:         strings.ToLower(strings.TrimSpace(f.Diet)),
		MaxReadyTime: f.MaxReadyTime,
	}
	if out.Diet == DietAny {
		out.Diet = ""
	}
	for _, in := range f.Intolerances {
		if in = strings.TrimSpace(in); in != "" {
			out.Intolerances = append(out.Intolerances, in)
		}
	}
	return out
}

// Validate reports the first problem with a normalized filter set.
func (f SearchFilters) Validate() error {
	if f.Ingredients == "" {
		return fmt.Errorf("%w: ingredients are required", ErrInvalidFilters)
	}
	if f.Diet != "" && !IsKnownDiet(f.Diet) {
		return fmt.Errorf("%w: unknown diet %q", ErrInvalidFilters, f.Diet)
	}
	if f.MaxReadyTime < 0 {
		return fmt.Errorf("%w: maxReadyTime must be positive", ErrInvalidFilters)
	}
	return nil
}

// SearchState distinguishes "never searched" from "searched, nothing found".
type SearchState string

const (
	SearchNotSearched SearchState = "not_searched"
	SearchEmpty       SearchState = "empty"
	SearchHasResults  SearchState = "has_results"
)

// SearchOutcome is the result of the most recent completed search.
type SearchOutcome struct {
	State   SearchState `json:"state"`
	Query   string      `json:"query,omitempty"`
	Results []Recipe    `json:"results"`
}

// NewSearchOutcome builds the outcome for a completed search.
func NewSearchOutcome(query string, results []Recipe) SearchOutcome {
	if results == nil {
		results = []Recipe{}
	}
	state := SearchHasResults
	if len(results) == 0 {
		state = SearchEmpty
	}
	return SearchOutcome{State: state, Query: query, Results: results}
}

// SearchPhase is the lifecycle of a session's search.
type SearchPhase string

const (
	PhaseIdle      SearchPhase = "idle"
	PhaseSearching SearchPhase = "searching"
	PhaseResults   SearchPhase = "results"
	PhaseFailed    SearchPhase = "failed"
)

// SearchStatus is what the search tracker reports for a session.
type SearchStatus struct {
	Phase   SearchPhase   `json:"phase"`
	Error   string        `json:"error,omitempty"`
	Outcome SearchOutcome `json:"outcome"`
}

package types

import (
	"errors"
	"fmt"
)

// ErrInvalidRecipe is returned by Recipe.Validate for records that do not
// match the upstream schema.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Recipe represents a recipe as returned by the Spoonacular API. Records are
// never edited after they are decoded; favorites store them whole.
type Recipe struct {
	ID                    int                   `json:"id"`
	Title                 string                `json:"title"`
	Image                 string                `json:"image,omitempty"`
	ImageType             string                `json:"imageType,omitempty"`
	Summary               string                `json:"summary,omitempty"`
	Instructions          string                `json:"instructions,omitempty"`
	ReadyInMinutes        *int                  `json:"readyInMinutes,omitempty"`
	Servings              *int                  `json:"servings,omitempty"`
	Likes                 int                   `json:"likes,omitempty"`
	Vegetarian            bool                  `json:"vegetarian"`
	Vegan                 bool                  `json:"vegan"`
	GlutenFree            bool                  `json:"glutenFree"`
	DairyFree             bool                  `json:"dairyFree"`
	ExtendedIngredients   []ExtendedIngredient  `json:"extendedIngredients"`
	AnalyzedInstructions  []AnalyzedInstruction `json:"analyzedInstructions"`
	UsedIngredientCount   int                   `json:"usedIngredientCount,omitempty"`
	MissedIngredientCount int                   `json:"missedIngredientCount,omitempty"`
	UsedIngredients       []Ingredient          `json:"usedIngredients,omitempty"`
	MissedIngredients     []Ingredient          `json:"missedIngredients,omitempty"`
	UnusedIngredients     []Ingredient          `json:"unusedIngredients,omitempty"`
}

// Ingredient is the short ingredient form used by findByIngredients results
// and instruction steps.
type Ingredient struct {
	ID           int      `json:"id"`
	Amount       float64  `json:"amount,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	UnitLong     string   `json:"unitLong,omitempty"`
	UnitShort    string   `json:"unitShort,omitempty"`
	Aisle        string   `json:"aisle,omitempty"`
	Name         string   `json:"name"`
	Original     string   `json:"original,omitempty"`
	OriginalName string   `json:"originalName,omitempty"`
	Meta         []string `json:"meta"`
	Image        string   `json:"image,omitempty"`
}

// ExtendedIngredient is an ingredient line of a full recipe. Original is the
// human readable line shown in the recipe detail.
type ExtendedIngredient struct {
	ID           int      `json:"id"`
	Aisle        string   `json:"aisle,omitempty"`
	Image        string   `json:"image,omitempty"`
	Consistency  string   `json:"consistency,omitempty"`
	Name         string   `json:"name"`
	NameClean    string   `json:"nameClean,omitempty"`
	Original     string   `json:"original"`
	OriginalName string   `json:"originalName,omitempty"`
	Amount       float64  `json:"amount"`
	Unit         string   `json:"unit"`
	Meta         []string `json:"meta"`
	Measures     Measures `json:"measures"`
}

// Measures holds the same quantity in both unit systems.
type Measures struct {
	US     Measure `json:"us"`
	Metric Measure `json:"metric"`
}

type Measure struct {
	Amount    float64 `json:"amount"`
	UnitShort string  `json:"unitShort"`
	UnitLong  string  `json:"unitLong"`
}

// AnalyzedInstruction is a named set of instruction steps.
type AnalyzedInstruction struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}

type InstructionStep struct {
	Number      int          `json:"number"`
	Step        string       `json:"step"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Equipment   []Equipment  `json:"equipment,omitempty"`
}

type Equipment struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LocalizedName string `json:"localizedName,omitempty"`
	Image         string `json:"image,omitempty"`
}

// Validate checks the fields the rest of the application relies on.
func (r *Recipe) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidRecipe, r.ID)
	}
	if r.Title == "" {
		return fmt.Errorf("%w: recipe %d has no title", ErrInvalidRecipe, r.ID)
	}
	if r.ReadyInMinutes != nil && *r.ReadyInMinutes <= 0 {
		return fmt.Errorf("%w: recipe %d has non-positive readyInMinutes", ErrInvalidRecipe, r.ID)
	}
	if r.Servings != nil && *r.Servings <= 0 {
		return fmt.Errorf("%w: recipe %d has non-positive servings", ErrInvalidRecipe, r.ID)
	}
	return nil
}

// DisplaySteps returns the steps of the first instruction set, which is the
// only one shown in the recipe detail.
func (r *Recipe) DisplaySteps() []InstructionStep {
	if len(r.AnalyzedInstructions) == 0 {
		return nil
	}
	return r.AnalyzedInstructions[0].Steps
}

// IngredientLines returns the display strings of the ingredient list in order.
func (r *Recipe) IngredientLines() []string {
	lines := make([]string, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		lines = append(lines, ing.Original)
	}
	return lines
}

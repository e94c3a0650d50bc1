package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestRecipeValidate(t *testing.T) {
	tests := []struct {
		name    string
		recipe  Recipe
		wantErr bool
	}{
		{"minimal", Recipe{ID: 1, Title: "Soup"}, false},
		{"with optional fields", Recipe{ID: 1, Title: "Soup", ReadyInMinutes: intPtr(15), Servings: intPtr(2)}, false},
		{"zero id", Recipe{Title: "Soup"}, true},
		{"negative id", Recipe{ID: -3, Title: "Soup"}, true},
		{"missing title", Recipe{ID: 1}, true},
		{"zero ready time", Recipe{ID: 1, Title: "Soup", ReadyInMinutes: intPtr(0)}, true},
		{"negative servings", Recipe{ID: 1, Title: "Soup", Servings: intPtr(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.recipe.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRecipe))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecipeDisplayHelpers(t *testing.T) {
	r := Recipe{
		ID:    1,
		Title: "Pancakes",
		ExtendedIngredients: []ExtendedIngredient{
			{Name: "flour", Original: "1 cup flour"},
			{Name: "milk", Original: "1 cup milk"},
		},
		AnalyzedInstructions: []AnalyzedInstruction{
			{Steps: []InstructionStep{{Number: 1, Step: "Mix."}, {Number: 2, Step: "Fry."}}},
			{Name: "Sauce", Steps: []InstructionStep{{Number: 1, Step: "Stir."}}},
		},
	}

	assert.Equal(t, []string{"1 cup flour", "1 cup milk"}, r.IngredientLines())
	require.Len(t, r.DisplaySteps(), 2)
	assert.Equal(t, "Fry.", r.DisplaySteps()[1].Step)

	assert.Nil(t, (&Recipe{ID: 2, Title: "Toast"}).DisplaySteps())
	assert.Empty(t, (&Recipe{ID: 2, Title: "Toast"}).IngredientLines())
}

func TestRecipeDecodesAPIFields(t *testing.T) {
	raw := `{"id": 640352, "title": "Cranberry Apple Crisp", "readyInMinutes": 45, "servings": 8,
		"vegetarian": true, "glutenFree": false, "extendedIngredients": [], "analyzedInstructions": [],
		"usedIngredientCount": 2, "missedIngredientCount": 1, "unknownField": "ignored"}`

	var r Recipe
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.NoError(t, r.Validate())
	assert.Equal(t, 45, *r.ReadyInMinutes)
	assert.True(t, r.Vegetarian)
	assert.Equal(t, 2, r.UsedIngredientCount)
	assert.NotNil(t, r.ExtendedIngredients)
}

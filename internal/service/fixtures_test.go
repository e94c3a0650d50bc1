package service

import (
	"fmt"

	"github.com/pageza/flavorfind/backend/internal/types"
)

func intPtr(v int) *int { return &v }

// sampleRecipe returns a recipe with every field the API sends populated.
func sampleRecipe(id int) types.Recipe {
	return types.Recipe{
		ID:             id,
		Title:          fmt.Sprintf("Tomato Soup %d", id),
		Image:          fmt.Sprintf("https://img.spoonacular.com/recipes/%d-312x231.jpg", id),
		ImageType:      "jpg",
		Summary:        "A <b>simple</b> soup.",
		Instructions:   "Chop. Simmer.",
		ReadyInMinutes: intPtr(25),
		Servings:       intPtr(4),
		Likes:          7,
		Vegetarian:     true,
		Vegan:          true,
		GlutenFree:     true,
		DairyFree:      false,
		ExtendedIngredients: []types.ExtendedIngredient{{
			ID:           11529,
			Aisle:        "Produce",
			Name:         "tomato",
			NameClean:    "tomato",
			Original:     "4 ripe tomatoes",
			OriginalName: "ripe tomatoes",
			Amount:       4,
			Unit:         "",
			Meta:         []string{"ripe"},
			Measures: types.Measures{
				US:     types.Measure{Amount: 4, UnitShort: "", UnitLong: ""},
				Metric: types.Measure{Amount: 4, UnitShort: "", UnitLong: ""},
			},
		}},
		AnalyzedInstructions: []types.AnalyzedInstruction{{
			Name: "",
			Steps: []types.InstructionStep{
				{Number: 1, Step: "Chop the tomatoes."},
				{Number: 2, Step: "Simmer for 20 minutes.", Equipment: []types.Equipment{{ID: 404752, Name: "pot"}}},
			},
		}},
	}
}

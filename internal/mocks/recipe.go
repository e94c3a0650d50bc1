package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/flavorfind/backend/internal/service"
	"github.com/pageza/flavorfind/backend/internal/types"
)

// MockRecipeClient is a mock implementation of the recipe API client
type MockRecipeClient struct {
	mock.Mock
}

var _ service.IRecipeClient = (*MockRecipeClient)(nil)

// Search mocks the Search method
func (m *MockRecipeClient) Search(ctx context.Context, keys service.CredentialSource, filters types.SearchFilters) ([]types.Recipe, error) {
	args := m.Called(ctx, keys, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

// SearchByIngredients mocks the SearchByIngredients method
func (m *MockRecipeClient) SearchByIngredients(ctx context.Context, keys service.CredentialSource, ingredients string, limit int) ([]types.Recipe, error) {
	args := m.Called(ctx, keys, ingredients, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

// RecipeDetails mocks the RecipeDetails method
func (m *MockRecipeClient) RecipeDetails(ctx context.Context, keys service.CredentialSource, id int) (*types.Recipe, error) {
	args := m.Called(ctx, keys, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

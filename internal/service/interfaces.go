package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/flavorfind/backend/internal/types"
)

// IRecipeClient defines the interface for recipe API operations
type IRecipeClient interface {
	Search(ctx context.Context, keys CredentialSource, filters types.SearchFilters) ([]types.Recipe, error)
	SearchByIngredients(ctx context.Context, keys CredentialSource, ingredients string, limit int) ([]types.Recipe, error)
	RecipeDetails(ctx context.Context, keys CredentialSource, id int) (*types.Recipe, error)
}

// ISessionService defines the interface for session operations
type ISessionService interface {
	Issue() (string, uuid.UUID, error)
	ValidateToken(token string) (*types.SessionClaims, error)
	Keys(sessionID uuid.UUID) *KeyStore
	Favorites(sessionID uuid.UUID) *FavoriteStore
}

var (
	_ IRecipeClient   = (*SpoonacularClient)(nil)
	_ ISessionService = (*SessionService)(nil)
)

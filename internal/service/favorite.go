package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pageza/flavorfind/backend/internal/storage"
	"github.com/pageza/flavorfind/backend/internal/types"
)

// FavoritesStorageKey is the storage key holding the favorites list.
const FavoritesStorageKey = "favorite_recipes"

// FavoriteStore keeps a list of full recipe records, unique by id, as one
// JSON array under FavoritesStorageKey.
//
// Every operation reads the whole list from storage. Toggle writes the whole
// list back. The locker serializes toggles within this process; writers in
// other processes sharing the same backend are not coordinated.
type FavoriteStore struct {
	store storage.Storage
	mu    sync.Locker
}

// NewFavoriteStore creates a FavoriteStore. A nil locker gets a private mutex.
func NewFavoriteStore(store storage.Storage, mu sync.Locker) *FavoriteStore {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &FavoriteStore{store: store, mu: mu}
}

// GetAll returns every stored recipe in insertion order. The result is never
// nil.
func (f *FavoriteStore) GetAll(ctx context.Context) ([]types.Recipe, error) {
	raw, ok, err := f.store.Get(ctx, FavoritesStorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	if !ok || raw == "" {
		return []types.Recipe{}, nil
	}

	var recipes []types.Recipe
	if err := json.Unmarshal([]byte(raw), &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	return recipes, nil
}

// IsFavorite reports whether a recipe with id is stored.
func (f *FavoriteStore) IsFavorite(ctx context.Context, id int) (bool, error) {
	recipes, err := f.GetAll(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(recipes, id) >= 0, nil
}

// Count returns the number of stored recipes.
func (f *FavoriteStore) Count(ctx context.Context) (int, error) {
	recipes, err := f.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(recipes), nil
}

// Toggle removes the recipe if one with the same id is stored and returns
// false, otherwise appends it and returns true.
func (f *FavoriteStore) Toggle(ctx context.Context, recipe types.Recipe) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recipes, err := f.GetAll(ctx)
	if err != nil {
		return false, err
	}

	favorited := true
	if i := indexOf(recipes, recipe.ID); i >= 0 {
		recipes = append(recipes[:i], recipes[i+1:]...)
		favorited = false
	} else {
		recipes = append(recipes, recipe)
	}

	data, err := json.Marshal(recipes)
	if err != nil {
		return false, fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := f.store.Set(ctx, FavoritesStorageKey, string(data)); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	return favorited, nil
}

func indexOf(recipes []types.Recipe, id int) int {
	for i := range recipes {
		if recipes[i].ID == id {
			return i
		}
	}
	return -1
}

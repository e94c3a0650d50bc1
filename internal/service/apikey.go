package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/flavorfind/backend/internal/storage"
)

// APIKeyStorageKey is the storage key holding the Spoonacular API key.
const APIKeyStorageKey = "spoonacular_api_key"

// KeyStore holds the user's Spoonacular API key. Rejecting blank keys is the
// caller's job.
type KeyStore struct {
	store storage.Storage
}

// NewKeyStore creates a KeyStore on top of store
func NewKeyStore(store storage.Storage) *KeyStore {
	return &KeyStore{store: store}
}

// Get returns the stored key. ok is false when no key was ever saved, it was
// removed, or the stored value is empty.
func (k *KeyStore) Get(ctx context.Context) (key string, ok bool, err error) {
	key, ok, err = k.store.Get(ctx, APIKeyStorageKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to read API key: %w", err)
	}
	if !ok || key == "" {
		return "", false, nil
	}
	return key, true, nil
}

// Save stores the trimmed key, replacing any previous one.
func (k *KeyStore) Save(ctx context.Context, key string) error {
	if err := k.store.Set(ctx, APIKeyStorageKey, strings.TrimSpace(key)); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	return nil
}

// Remove deletes the stored key.
func (k *KeyStore) Remove(ctx context.Context) error {
	if err := k.store.Remove(ctx, APIKeyStorageKey); err != nil {
		return fmt.Errorf("failed to remove API key: %w", err)
	}
	return nil
}

// MaskKey returns a hint that identifies a stored key without revealing it:
// the first 8 and last 4 characters. Keys too short to hide anything that
// way only show their last 4 characters, or nothing.
func MaskKey(key string) string {
	const head, tail = 8, 4
	switch {
	case len(key) > 2*(head+tail):
		return key[:head] + "..." + key[len(key)-tail:]
	case len(key) > 2*tail:
		return "..." + key[len(key)-tail:]
	default:
		return "..."
	}
}

// Package storage provides the key/value persistence used for session data.
// Every backend stores plain strings under string keys; callers own the
// encoding of the values.
package storage

import (
	"context"
)

// Storage is a string key/value store.
//
// Get reports ok == false for keys that were never set or were removed.
// Implementations give no transactional guarantee across calls.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Namespaced scopes every key of inner under prefix.
type Namespaced struct {
	inner  Storage
	prefix string
}

// Namespace returns a Storage whose keys live under prefix in inner.
func Namespace(inner Storage, prefix string) *Namespaced {
	return &Namespaced{inner: inner, prefix: prefix}
}

// SessionNamespace is the prefix used for one browser session.
func SessionNamespace(sessionID string) string {
	return "session:" + sessionID + ":"
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}

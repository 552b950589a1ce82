package cachekit

import "context"

// Get is the ergonomic generic counterpart to Client.Get, mirroring spec.md's
// get<T>(key). Go cannot give Client itself a generic method, so the type
// parameter lives on this free function instead.
func Get[T any](ctx context.Context, c Client, key string) (Value, error) {
	var zero T
	return c.Get(ctx, key, &zero)
}

// GetAll is the generic counterpart to Client.GetAll.
func GetAll[T any](ctx context.Context, c Client, keys []string) (map[string]Value, error) {
	var zero T
	return c.GetAll(ctx, keys, &zero)
}

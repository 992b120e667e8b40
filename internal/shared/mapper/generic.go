// Package mapper holds small generic helpers for converting slices between
// persistence rows, domain entities and DTOs.
package mapper

import "fmt"

// MapSlice applies mapFunc to each element of items.
// Returns nil if the input slice is nil.
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, mapFunc(item))
	}
	return result
}

// MapSliceWithError applies a mapper function that may return an error to each element.
// Returns early, naming the failing index, if any mapping fails.
func MapSliceWithError[T any, R any](items []T, mapFunc func(T) (R, error)) ([]R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]R, 0, len(items))
	for i, item := range items {
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, fmt.Errorf("failed to map item at index %d: %w", i, err)
		}
		result = append(result, mapped)
	}
	return result, nil
}

// IndexBy builds a lookup map from items keyed by keyFunc. Later items win
// on duplicate keys.
func IndexBy[T any, K comparable](items []T, keyFunc func(T) K) map[K]T {
	out := make(map[K]T, len(items))
	for _, item := range items {
		out[keyFunc(item)] = item
	}
	return out
}

// Package projection turns domain collections into ordered, filtered and windowed pages.
package projection

import (
	"cmp"
	"slices"

	"chargenet/backend/services/roaming-api/internal/query"
)

// Page is one window of a collection.
type Page[T any] struct {
	Items []T
	// Total is the size of the collection before filtering and windowing.
	Total int
}

// Empty reports whether the source collection had no items at all.
func (p Page[T]) Empty() bool {
	return p.Total == 0
}

// Apply sorts items by key, keeps those accepted by keep (nil keeps all) and cuts the
// window. The input slice is not modified. Items is never nil.
func Apply[T any, K cmp.Ordered](items []T, key func(T) K, keep func(T) bool, window query.Window) Page[T] {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})

	filtered := sorted[:0]
	for _, item := range sorted {
		if keep == nil || keep(item) {
			filtered = append(filtered, item)
		}
	}

	start, end := window.Bounds(len(filtered))
	out := make([]T, end-start)
	copy(out, filtered[start:end])
	return Page[T]{Items: out, Total: len(items)}
}

// Map converts every item of a page.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(page.Items))
	for i, item := range page.Items {
		out[i] = fn(item)
	}
	return Page[U]{Items: out, Total: page.Total}
}

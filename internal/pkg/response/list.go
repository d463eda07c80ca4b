package response

// NewList maps domain values to response values.
// It always returns a non-nil slice so that JSON renders [] instead of null.
func NewList[S any, T any](src []S, mapFn func(S) T) []T {
	items := make([]T, 0, len(src))
	for _, s := range src {
		items = append(items, mapFn(s))
	}
	return items
}

package utils

import (
	"sort"
)

// SortOrder defines the direction of sorting
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Scored is anything ranked by a single number with a stable identity
type Scored interface {
	GetScore() float64
	GetID() uint
}

// SortByScore sorts items by score; equal scores keep ascending ID order so
// pages stay stable between requests.
func SortByScore[T Scored](items []T, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].GetScore(), items[j].GetScore()
		if si == sj {
			return items[i].GetID() < items[j].GetID()
		}
		if order == Descending {
			return si > sj
		}
		return si < sj
	})
}

// TopN sorts descending and keeps at most n items. n <= 0 keeps nothing.
func TopN[T Scored](items []T, n int) []T {
	if n <= 0 {
		return items[:0]
	}
	SortByScore(items, Descending)
	if len(items) > n {
		return items[:n]
	}
	return items
}

// Filter returns the items for which keep is true, in order.
func Filter[T any](items []T, keep func(*T) bool) []T {
	filtered := make([]T, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			filtered = append(filtered, items[i])
		}
	}
	return filtered
}

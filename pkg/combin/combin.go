// Package combin provides lazy combinatorial iterators.
//
// The iterators yield index slices that are reused between iterations;
// callers that keep a combination must copy it.
package combin

import "iter"

// Choose yields every k-element subset of {0, ..., n-1} in lexicographic
// order. It yields nothing when k < 0 or k > n, and one empty subset when
// k == 0.
func Choose(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 0 || k > n {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			if !yield(idx) {
				return
			}
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

// Subsets yields every subset of {0, ..., n-1} ordered by size, smallest
// first, and lexicographically within a size. The empty set comes first.
func Subsets(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for k := 0; k <= n; k++ {
			for idx := range Choose(n, k) {
				if !yield(idx) {
					return
				}
			}
		}
	}
}

// PowerSet yields every subset of items in the order of [Subsets]. Each
// yielded slice is freshly allocated.
func PowerSet[T any](items []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for idx := range Subsets(len(items)) {
			if !yield(Select(items, idx)) {
				return
			}
		}
	}
}

// Select returns the items at the given indices.
func Select[T any](items []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

// Product yields one index per dimension for every combination of
// dimension sizes, varying the last dimension fastest. Any zero size yields
// nothing; no dimensions yields one empty combination.
func Product(sizes []int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for _, s := range sizes {
			if s == 0 {
				return
			}
		}
		idx := make([]int, len(sizes))
		for {
			if !yield(idx) {
				return
			}
			i := len(sizes) - 1
			for i >= 0 {
				idx[i]++
				if idx[i] < sizes[i] {
					break
				}
				idx[i] = 0
				i--
			}
			if i < 0 {
				return
			}
		}
	}
}

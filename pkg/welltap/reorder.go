package welltap

import "slices"

// seq returns the identity sequence [0, 1, ..., n-1], used to seed a
// permutation search over a sliding window of cells within a row.
func seq(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// factorial returns n! for n <= 12; the local-reorder window is capped at
// windowLimit cells specifically so this never overflows an int.
func factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// permutations enumerates orderings of [0, 1, ..., n-1] using Heap's
// algorithm, used by reorderCluster to search a small sliding window for the
// ordering with the lowest HPWL after legalization has fixed row and column
// but not necessarily left-to-right order.
//
// If limit > 0, permutations returns at most limit orderings. If limit <=
// 0, it returns all n! orderings. n is expected to stay small (<= 8, see
// windowLimit) since factorial growth makes exhaustive search intractable
// beyond that.
//
// Each returned slice is a separate allocation, safe to mutate.
func permutations(n, limit int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	if n == 1 {
		return [][]int{{0}}
	}

	perm := seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = factorial(min(n, 12))
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(perm))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i&1 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[state[i]], perm[i] = perm[i], perm[state[i]]
			}
			result = append(result, slices.Clone(perm))
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return result
}

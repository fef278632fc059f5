package tree

import "slices"

// Seq returns the sequence [0, 1, ..., n-1]. For n <= 0 it returns an
// empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!. For n <= 1 it returns 1.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// ChildPermutations returns orderings of k children as permutations of
// [0, k), generated with Heap's algorithm. The first permutation is the
// identity. Pass each result to [Topology.WithChildOrder].
//
// If limit > 0, at most limit permutations are returned; otherwise all k!
// are. Each returned slice is a separate allocation.
func ChildPermutations(k, limit int) [][]int {
	if k <= 0 {
		return [][]int{{}}
	}
	if k == 1 {
		return [][]int{{0}}
	}

	perm := Seq(k)
	state := make([]int, k)

	capacity := limit
	if capacity <= 0 || k <= 12 {
		capacity = Factorial(min(k, 12))
		if limit > 0 {
			capacity = min(capacity, limit)
		}
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(perm))

	for i := 0; i < k && (limit <= 0 || len(result) < limit); {
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

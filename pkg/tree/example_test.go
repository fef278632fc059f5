package tree_test

import (
	"errors"
	"fmt"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/tree"
)

func ExampleNew() {
	// A root with two leaves.
	topo, err := tree.New(tree.Spec{
		N:         3,
		Root:      0,
		Children:  [][]int{{1, 2}, nil, nil},
		Mutations: []int{1, 3, 2},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Leaves:", topo.Leaves())
	fmt.Println("Postorder:", topo.Postorder())
	fmt.Println("Height:", topo.Height())
	// Output:
	// Leaves: [1 2]
	// Postorder: [1 2 0]
	// Height: 1
}

func ExampleFromParents() {
	spec := tree.FromParents([]int{-1, 0, 0, 1, 1}, 0, []int{0, 1, 1, 2, 3})
	topo, _ := tree.New(spec)

	for d, level := range topo.Levels() {
		fmt.Println(d, level)
	}
	// Output:
	// 0 [0]
	// 1 [1 2]
	// 2 [3 4]
}

func ExampleNew_invalid() {
	// Node 2 appears under both 0 and 1.
	_, err := tree.New(tree.Spec{
		N:         3,
		Root:      0,
		Children:  [][]int{{1, 2}, {2}, nil},
		Mutations: []int{0, 0, 0},
	})

	fmt.Println(errors.Is(err, tree.ErrMultipleParents))
	fmt.Println(bterrors.GetCode(err))
	// Output:
	// true
	// INVALID_TOPOLOGY
}

func ExampleChildPermutations() {
	for _, p := range tree.ChildPermutations(3, 0) {
		fmt.Println(p)
	}
	// Output:
	// [0 1 2]
	// [1 0 2]
	// [2 0 1]
	// [0 2 1]
	// [1 2 0]
	// [2 1 0]
}

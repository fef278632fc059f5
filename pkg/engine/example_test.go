package engine_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/branchtime/pkg/engine"
	"github.com/matzehuels/branchtime/pkg/model"
	"github.com/matzehuels/branchtime/pkg/tree"
)

func ExampleCompute() {
	// A root with one mutation and two sampled leaves.
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

	res, err := engine.Compute(context.Background(), topo, model.Parameters{
		MutationRate:        1,
		Lambda:              2,
		SamplingProbability: 0.5,
		GridSize:            10,
		Characters:          10,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("log-likelihood: %.6f\n", res.LogLikelihood())
	fmt.Printf("leaf time: %.3f\n", res.PosteriorMean(1))
	// Output:
	// log-likelihood: -9.822516
	// leaf time: 1.000
}

func ExampleEngine_Compute() {
	// A leaf that lost mutations along its branch is impossible.
	topo, _ := tree.New(tree.FromParents([]int{-1, 0, 0}, 0, []int{2, 4, 0}))
	_, err := engine.New(engine.Options{Workers: 1}).Compute(context.Background(), topo, model.Parameters{
		MutationRate:        1,
		Lambda:              1,
		SamplingProbability: 1,
		GridSize:            20,
		Characters:          10,
	})
	fmt.Println(err)
	// Output:
	// NUMERICAL_INSTABILITY: log-sum-exp received no finite input: upward pass: node 2 has zero probability at every grid point
}

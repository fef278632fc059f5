package config_test

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/branchtime/pkg/config"
	"github.com/matzehuels/branchtime/pkg/engine"
	"github.com/matzehuels/branchtime/pkg/tree"
)

func ExampleDecode() {
	c, err := config.Decode([]byte(`
model:
  mutation_rate: 1
  lambda: 2
  sampling_probability: 0.5
  grid_size: 10
  characters: 10
engine:
  workers: 2
  log_level: warn
`), config.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}

	opts, _ := c.EngineOptions(io.Discard)
	topo, _ := tree.New(tree.FromParents([]int{-1, 0, 0}, 0, []int{1, 3, 2}))
	res, err := engine.New(opts).Compute(context.Background(), topo, c.Parameters())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("workers: %d\n", res.Stats.Workers)
	fmt.Printf("log-likelihood: %.6f\n", res.LogLikelihood())
	// Output:
	// workers: 2
	// log-likelihood: -9.822516
}

// Package pkg provides the core libraries for branchtime, a Bayesian
// branch-length and node-time engine for rooted lineage trees.
//
// # Overview
//
// Given a fixed tree topology, the number of mutated characters observed at
// every node, and the parameters of a mutation/division/sampling process,
// branchtime computes the posterior distribution of every node's time over
// a discrete grid together with the total log-likelihood. The pkg directory
// is organized into three areas:
//
//  1. Domain - [tree], [grid] and [model]
//  2. Computation - [engine]
//  3. Infrastructure - [config], [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	Topology + mutation counts        Parameters (r, lambda, rho, T, K)
//	          ↓                                   ↓
//	    [tree] package                      [model] package
//	          └──────────────┬────────────────────┘
//	                         ↓
//	             [engine] upward pass (leaves → root)
//	                         ↓
//	             [engine] downward pass (root → leaves)
//	                         ↓
//	             posteriors, means, branch lengths, logL
//
// # Quick Start
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/matzehuels/branchtime/pkg/engine"
//	    "github.com/matzehuels/branchtime/pkg/model"
//	    "github.com/matzehuels/branchtime/pkg/tree"
//	)
//
//	topo, _ := tree.New(tree.Spec{
//	    N:         3,
//	    Root:      0,
//	    Children:  [][]int{{1, 2}, nil, nil},
//	    Mutations: []int{1, 3, 2},
//	})
//	res, _ := engine.Compute(context.Background(), topo, model.Parameters{
//	    MutationRate:        1,
//	    Lambda:              2,
//	    SamplingProbability: 0.5,
//	    GridSize:            10,
//	    Characters:          10,
//	})
//	fmt.Println(res.LogLikelihood(), res.PosteriorMean(0))
//
// # Main Packages
//
// [tree] - Immutable rooted topology with eager validation, depth levels for
// level-synchronous scheduling, and child-order permutations.
//
// [grid] - The discrete time grid. Point i sits at (i+1)/T; the last point
// is the present, where every leaf is sampled.
//
// [model] - Parameters and the log-space model terms: survival, visible
// division, sampling and per-edge mutation probabilities.
//
// [engine] - The two-pass dynamic program. Nodes of one depth level are
// processed in parallel; results are exposed through an immutable
// [engine.Result].
//
// [config] - TOML and YAML run configuration mapped onto model parameters
// and engine options.
//
// [errors] - Structured, coded errors shared by every package.
//
// [observability] - Engine hooks with Prometheus and OpenTelemetry adapters.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/engine/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/tree
// [grid]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/grid
// [model]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/model
// [engine]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/engine
// [engine.Result]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/engine#Result
// [config]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/branchtime/pkg/buildinfo
package pkg

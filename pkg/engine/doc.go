// Package engine computes per-node time posteriors and the total
// log-likelihood of a tree with a two-pass dynamic program.
//
// # Model
//
// Time runs from the origin (0) to the present (1) on a grid of T points
// (see package grid). Leaves are sampled at the present; every internal
// node, the root included, sits at some earlier grid point, strictly after
// its parent. Branch lengths, mutation counts and sampling follow package
// model.
//
// # Passes
//
// The upward pass visits the tree deepest level first. For every node v it
// computes up(v)[i], the log-probability of everything below v given that
// v sits at index i, and the message msg(v)[i] that v sends to a parent at
// index i:
//
//	msg(v)[i] = LSE_{j>i} [ S[j] - S[i] + M_v[j-i] + up(v)[j] ]
//	up(v)[i]  = nodeTerm(v, i) + sum_c msg(c)[i]
//
// The downward pass visits the tree from the root. outside(v)[i] is the
// log-probability of everything outside v's subtree together with v at
// index i. For a child c of p the context excluding c is assembled from the
// explicit messages of c's siblings:
//
//	ctx(c)[i]     = outside(p)[i] + nodeTerm(p, i) + sum_{s != c} msg(s)[i]
//	outside(c)[j] = LSE_{i<j} [ ctx(c)[i] + S[j] - S[i] + M_c[j-i] ]
//
// down(v) = up(v) + outside(v) is the log joint of all observations and v
// at each index; its log-sum-exp is the same for every node and equals the
// log-likelihood.
//
// # Usage
//
//	res, err := engine.Compute(ctx, topo, model.Parameters{
//	    MutationRate:        1,
//	    Lambda:              2,
//	    SamplingProbability: 0.5,
//	    GridSize:            100,
//	    Characters:          40,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.LogLikelihood(), res.PosteriorMean(topo.Root()))
//
// # Concurrency
//
// A run is a pure function of its inputs. Within a run, nodes of one level
// are processed in parallel on up to Options.Workers goroutines; levels
// are processed in order. An Engine holds only configuration and may be
// shared between goroutines.
package engine

// Package tree provides the immutable rooted topology consumed by the
// branch-time engine.
//
// # Overview
//
// A [Topology] holds N nodes with integer ids in [0, N), a designated root,
// the ordered child lists, the parent of every non-root node, and the
// observed mutation count of every node. Optionally each node also carries
// a character cap (the number of characters that can still mutate on the
// path to that node); without caps the engine uses the global character
// count.
//
// # Construction
//
// Build a [Spec] and pass it to [New]. Only N, Root, Children and Mutations
// are required; the parent vector, leaf/internal flags, partition lists and
// caps are optional and, when present, are checked against the adjacency:
//
//	spec := tree.Spec{
//	    N:         3,
//	    Root:      0,
//	    Children:  [][]int{{1, 2}, nil, nil},
//	    Mutations: []int{1, 3, 2},
//	}
//	topo, err := tree.New(spec)
//
// [FromParents] builds a Spec from a parent vector instead.
//
// New validates eagerly. Every failure is a coded
// [github.com/matzehuels/branchtime/pkg/errors.Error] with
// INVALID_TOPOLOGY that wraps one of the sentinel errors below, so callers
// can branch on either:
//
//	if errors.Is(err, tree.ErrMultipleParents) { ... }
//	if bterrors.Is(err, bterrors.ErrCodeInvalidTopology) { ... }
//
// # Traversal
//
// [Topology.Postorder] lists children before parents and
// [Topology.Preorder] lists parents before children; both follow child
// order. [Topology.Levels] groups nodes by depth for level-synchronous
// scheduling: every node in level d has its parent in level d-1.
//
// # Concurrency
//
// A Topology is never modified after New returns and is safe for
// concurrent reads. Accessors that return slices return copies.
package tree

package tree

import (
	"errors"
	"slices"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
)

var (
	// ErrEmptyTree is returned by [New] when N is not positive.
	ErrEmptyTree = errors.New("tree has no nodes")

	// ErrLengthMismatch is returned by [New] when a per-node vector does not
	// have exactly N entries.
	ErrLengthMismatch = errors.New("per-node vector length does not match node count")

	// ErrNodeOutOfRange is returned by [New] when the root or a child id is
	// outside [0, N).
	ErrNodeOutOfRange = errors.New("node id out of range")

	// ErrMultipleParents is returned by [New] when a node is listed as a
	// child more than once, or the root is listed as a child.
	ErrMultipleParents = errors.New("node has more than one parent")

	// ErrParentMismatch is returned by [New] when the parent vector
	// disagrees with the child lists.
	ErrParentMismatch = errors.New("parent vector inconsistent with children")

	// ErrUnreachableNode is returned by [New] when a node cannot be reached
	// from the root. Cycles always produce this error since a node on a
	// cycle has its only parent on the cycle too.
	ErrUnreachableNode = errors.New("node unreachable from root")

	// ErrPartitionMismatch is returned by [New] when the leaf/internal flags
	// or partition lists disagree with the adjacency.
	ErrPartitionMismatch = errors.New("leaf/internal partition inconsistent with children")

	// ErrNegativeCount is returned by [New] for a negative mutation count or
	// character cap.
	ErrNegativeCount = errors.New("negative count")
)

// Spec is the caller-supplied description of a tree.
//
// Optional fields are checked when non-nil and derived otherwise.
type Spec struct {
	N        int     // Node count; ids are [0, N)
	Root     int     // Root id
	Children [][]int // Ordered child lists, one per node

	Parent        []int  // Optional; Parent[Root] is ignored
	IsInternal    []bool // Optional; true for every node with children
	IsLeaf        []bool // Optional; true for every node without children
	InternalNodes []int  // Optional; internal nodes other than the root
	Leaves        []int  // Optional; childless nodes, root included when childless

	Mutations []int // Observed mutation count per node
	Caps      []int // Optional per-node character cap
}

// Topology is an immutable, validated rooted tree.
//
// The zero value is not usable; build one with [New].
type Topology struct {
	n         int
	root      int
	parent    []int
	children  [][]int
	mutations []int
	caps      []int

	depth     []int
	height    int
	preorder  []int
	postorder []int
	levels    [][]int
}

// New validates spec and returns the corresponding Topology.
// The spec's slices are copied; later changes to them have no effect.
func New(spec Spec) (*Topology, error) {
	if spec.N <= 0 {
		return nil, invalid(ErrEmptyTree, "N = %d", spec.N)
	}
	if err := checkLengths(spec); err != nil {
		return nil, err
	}
	if spec.Root < 0 || spec.Root >= spec.N {
		return nil, invalid(ErrNodeOutOfRange, "root %d not in [0, %d)", spec.Root, spec.N)
	}

	parent, err := deriveParents(spec)
	if err != nil {
		return nil, err
	}
	if err := checkParents(spec, parent); err != nil {
		return nil, err
	}

	t := &Topology{
		n:         spec.N,
		root:      spec.Root,
		parent:    parent,
		children:  make([][]int, spec.N),
		mutations: slices.Clone(spec.Mutations),
		caps:      slices.Clone(spec.Caps),
	}
	for v, cs := range spec.Children {
		t.children[v] = slices.Clone(cs)
	}

	if err := t.index(); err != nil {
		return nil, err
	}
	if err := checkPartition(spec, t); err != nil {
		return nil, err
	}
	if err := checkCounts(spec); err != nil {
		return nil, err
	}
	return t, nil
}

// FromParents builds a Spec from a parent vector. Children are listed in
// ascending id order. parent[root] is ignored; other out-of-range entries
// are kept so that [New] reports them.
func FromParents(parent []int, root int, mutations []int) Spec {
	n := len(parent)
	children := make([][]int, n)
	for v, p := range parent {
		if v == root || p < 0 || p >= n {
			continue
		}
		children[p] = append(children[p], v)
	}
	return Spec{
		N:         n,
		Root:      root,
		Children:  children,
		Parent:    slices.Clone(parent),
		Mutations: slices.Clone(mutations),
	}
}

func invalid(sentinel error, format string, args ...any) error {
	return bterrors.Wrap(bterrors.ErrCodeInvalidTopology, sentinel, format, args...)
}

func checkLengths(spec Spec) error {
	check := func(name string, got int, present bool) error {
		if present && got != spec.N {
			return invalid(ErrLengthMismatch, "%s has %d entries, want %d", name, got, spec.N)
		}
		return nil
	}
	return errors.Join(
		check("children", len(spec.Children), true),
		check("mutations", len(spec.Mutations), true),
		check("parent", len(spec.Parent), spec.Parent != nil),
		check("is_internal", len(spec.IsInternal), spec.IsInternal != nil),
		check("is_leaf", len(spec.IsLeaf), spec.IsLeaf != nil),
		check("caps", len(spec.Caps), spec.Caps != nil),
	)
}

func deriveParents(spec Spec) ([]int, error) {
	parent := make([]int, spec.N)
	for i := range parent {
		parent[i] = -1
	}
	for p, cs := range spec.Children {
		for _, c := range cs {
			if c < 0 || c >= spec.N {
				return nil, invalid(ErrNodeOutOfRange, "child %d of node %d not in [0, %d)", c, p, spec.N)
			}
			if c == spec.Root {
				return nil, invalid(ErrMultipleParents, "root %d listed as child of node %d", c, p)
			}
			if parent[c] != -1 {
				return nil, invalid(ErrMultipleParents, "node %d listed under %d and %d", c, parent[c], p)
			}
			parent[c] = p
		}
	}
	return parent, nil
}

func checkParents(spec Spec, parent []int) error {
	if spec.Parent == nil {
		return nil
	}
	for v, p := range spec.Parent {
		if v == spec.Root {
			continue
		}
		if p != parent[v] {
			return invalid(ErrParentMismatch, "parent[%d] = %d, children lists say %d", v, p, parent[v])
		}
	}
	return nil
}

// index computes traversal orders, depths and levels. It fails when some
// node is not reachable from the root.
func (t *Topology) index() error {
	t.depth = make([]int, t.n)
	t.preorder = make([]int, 0, t.n)
	stack := []int{t.root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.preorder = append(t.preorder, v)
		cs := t.children[v]
		for i := len(cs) - 1; i >= 0; i-- {
			t.depth[cs[i]] = t.depth[v] + 1
			stack = append(stack, cs[i])
		}
	}
	if len(t.preorder) != t.n {
		seen := make([]bool, t.n)
		for _, v := range t.preorder {
			seen[v] = true
		}
		for v, ok := range seen {
			if !ok {
				return invalid(ErrUnreachableNode, "node %d", v)
			}
		}
	}

	t.postorder = postorder(t.root, t.children, t.n)
	t.levels = assignLevels(t.root, t.children, t.depth)
	t.height = len(t.levels) - 1
	return nil
}

// postorder visits children left to right before their parent. It reverses
// a root-first walk that takes children right to left.
func postorder(root int, children [][]int, n int) []int {
	order := make([]int, 0, n)
	stack := []int{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, v)
		stack = append(stack, children[v]...)
	}
	slices.Reverse(order)
	return order
}

func checkPartition(spec Spec, t *Topology) error {
	for v := range t.n {
		leaf := len(t.children[v]) == 0
		if spec.IsLeaf != nil && spec.IsLeaf[v] != leaf {
			return invalid(ErrPartitionMismatch, "is_leaf[%d] = %v, node has %d children", v, spec.IsLeaf[v], len(t.children[v]))
		}
		if spec.IsInternal != nil && spec.IsInternal[v] == leaf {
			return invalid(ErrPartitionMismatch, "is_internal[%d] = %v, node has %d children", v, spec.IsInternal[v], len(t.children[v]))
		}
	}
	if spec.InternalNodes != nil {
		if err := samePartition("internal_nodes", spec.InternalNodes, t.InternalNodes(), t.n); err != nil {
			return err
		}
	}
	if spec.Leaves != nil {
		if err := samePartition("leaves", spec.Leaves, t.Leaves(), t.n); err != nil {
			return err
		}
	}
	return nil
}

func samePartition(name string, got, want []int, n int) error {
	if len(got) != len(want) {
		return invalid(ErrPartitionMismatch, "%s has %d entries, want %d", name, len(got), len(want))
	}
	member := make([]bool, n)
	for _, v := range want {
		member[v] = true
	}
	seen := make([]bool, n)
	for _, v := range got {
		if v < 0 || v >= n || !member[v] {
			return invalid(ErrPartitionMismatch, "%s lists node %d", name, v)
		}
		if seen[v] {
			return invalid(ErrPartitionMismatch, "%s lists node %d twice", name, v)
		}
		seen[v] = true
	}
	return nil
}

func checkCounts(spec Spec) error {
	for v, x := range spec.Mutations {
		if x < 0 {
			return invalid(ErrNegativeCount, "mutations[%d] = %d", v, x)
		}
	}
	for v, k := range spec.Caps {
		if k < 0 {
			return invalid(ErrNegativeCount, "caps[%d] = %d", v, k)
		}
	}
	return nil
}

// N returns the number of nodes.
func (t *Topology) N() int { return t.n }

// Root returns the root id.
func (t *Topology) Root() int { return t.root }

// Parent returns the parent of v, or -1 for the root.
func (t *Topology) Parent(v int) int { return t.parent[v] }

// Children returns a copy of v's ordered child list.
func (t *Topology) Children(v int) []int { return slices.Clone(t.children[v]) }

// NumChildren returns the number of children of v.
func (t *Topology) NumChildren(v int) int { return len(t.children[v]) }

// Child returns the k-th child of v.
func (t *Topology) Child(v, k int) int { return t.children[v][k] }

// IsRoot reports whether v is the root.
func (t *Topology) IsRoot(v int) bool { return v == t.root }

// IsLeaf reports whether v has no children.
func (t *Topology) IsLeaf(v int) bool { return len(t.children[v]) == 0 }

// IsInternal reports whether v has at least one child.
func (t *Topology) IsInternal(v int) bool { return len(t.children[v]) > 0 }

// Mutations returns the observed mutation count of v.
func (t *Topology) Mutations(v int) int { return t.mutations[v] }

// HasCaps reports whether per-node character caps were supplied.
func (t *Topology) HasCaps() bool { return t.caps != nil }

// Cap returns the character cap of v, or k when no caps were supplied.
func (t *Topology) Cap(v, k int) int {
	if t.caps == nil {
		return k
	}
	return t.caps[v]
}

// Leaves returns the childless nodes in ascending id order. A childless
// root is included.
func (t *Topology) Leaves() []int {
	var out []int
	for v := range t.n {
		if t.IsLeaf(v) {
			out = append(out, v)
		}
	}
	return out
}

// InternalNodes returns the non-root nodes that have children, in
// ascending id order.
func (t *Topology) InternalNodes() []int {
	var out []int
	for v := range t.n {
		if v != t.root && t.IsInternal(v) {
			out = append(out, v)
		}
	}
	return out
}

// Postorder returns every node with children before parents.
func (t *Topology) Postorder() []int { return slices.Clone(t.postorder) }

// Preorder returns every node with parents before children.
func (t *Topology) Preorder() []int { return slices.Clone(t.preorder) }

// Depth returns the number of edges between the root and v.
func (t *Topology) Depth(v int) int { return t.depth[v] }

// Height returns the number of edges on the longest root-to-leaf path.
func (t *Topology) Height() int { return t.height }

// Spec returns a Spec that rebuilds this topology, with the parent vector
// filled in and the root's parent set to -1.
func (t *Topology) Spec() Spec {
	children := make([][]int, t.n)
	for v, cs := range t.children {
		children[v] = slices.Clone(cs)
	}
	return Spec{
		N:         t.n,
		Root:      t.root,
		Children:  children,
		Parent:    slices.Clone(t.parent),
		Mutations: slices.Clone(t.mutations),
		Caps:      slices.Clone(t.caps),
	}
}

// WithChildOrder returns a copy of t whose node v lists its children in the
// given order. order must be a permutation of [0, NumChildren(v)).
func (t *Topology) WithChildOrder(v int, order []int) (*Topology, error) {
	if v < 0 || v >= t.n {
		return nil, invalid(ErrNodeOutOfRange, "node %d not in [0, %d)", v, t.n)
	}
	cs := t.children[v]
	if !isPermutation(order, len(cs)) {
		return nil, bterrors.New(bterrors.ErrCodeInvalidParameter,
			"order %v is not a permutation of %d children", order, len(cs))
	}
	spec := t.Spec()
	reordered := make([]int, len(cs))
	for i, k := range order {
		reordered[i] = cs[k]
	}
	spec.Children[v] = reordered
	return New(spec)
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, k := range order {
		if k < 0 || k >= n || seen[k] {
			return false
		}
		seen[k] = true
	}
	return true
}

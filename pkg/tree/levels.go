package tree

import "slices"

// Levels returns the nodes grouped by depth: Levels()[0] holds the root,
// Levels()[d] every node d edges below it. Within a level, nodes appear in
// breadth-first order. The returned slices are copies.
func (t *Topology) Levels() [][]int {
	out := make([][]int, len(t.levels))
	for d, lvl := range t.levels {
		out[d] = slices.Clone(lvl)
	}
	return out
}

// NumLevels returns Height()+1.
func (t *Topology) NumLevels() int { return len(t.levels) }

// Level returns the nodes at depth d without copying. Callers must not
// modify the result.
func (t *Topology) Level(d int) []int { return t.levels[d] }

// assignLevels places every node one row below its parent using Kahn's
// longest-path layering. In a tree every non-root node has in-degree one,
// so the queue discipline reduces to a breadth-first walk and the row of a
// node equals its depth.
func assignLevels(root int, children [][]int, depth []int) [][]int {
	rows := make([]int, len(children))
	queue := make([]int, 0, len(children))
	queue = append(queue, root)

	height := 0
	for _, d := range depth {
		height = max(height, d)
	}
	levels := make([][]int, height+1)

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		levels[rows[curr]] = append(levels[rows[curr]], curr)

		for _, child := range children[curr] {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			queue = append(queue, child)
		}
	}
	return levels
}

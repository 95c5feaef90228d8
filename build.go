/*
Copyright © 2019 the polygons authors.
This file is part of polygons.

polygons is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

polygons is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with polygons.  If not, see <http://www.gnu.org/licenses/>.
*/

package polygons

import "fmt"

// BuildOptions control the shape of a Tree.
type BuildOptions struct {
	// EdgesPerLeaf is the largest number of edges held by a leaf.
	EdgesPerLeaf int

	// ChildrenPerNode is the largest number of child nodes held by an
	// internal node.
	ChildrenPerNode int
}

// DefaultBuildOptions are the fan-outs used when none are specified.
var DefaultBuildOptions = BuildOptions{EdgesPerLeaf: 4, ChildrenPerNode: 4}

func (o BuildOptions) validate() error {
	if o.EdgesPerLeaf < 2 || o.ChildrenPerNode < 2 {
		return fmt.Errorf("polygons: edges per leaf = %d, children per node = %d: %w",
			o.EdgesPerLeaf, o.ChildrenPerNode, ErrFanOut)
	}
	return nil
}

// BuildTree builds a search tree over the edges and vertices of polygons.
// The vertices are numbered in the order given, starting at zero, and the
// numbers are reported as the vertex index by nearest vertex queries.
func BuildTree(polygons []*Polygon, opts BuildOptions) (*Tree, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	var nv, ne int
	for _, p := range polygons {
		nv += len(p.Vertices)
		ne += p.NumEdges()
	}
	if nv == 0 {
		return nil, ErrEmptyTree
	}
	t := &Tree{
		vertices:    make([]Vertex, 0, nv),
		edges:       make([]Edge, 0, ne),
		numPolygons: len(polygons),
		opts:        opts,
	}
	t.nodes = make([]node, 0, estimateNodes(ne+len(polygons), opts))

	begin, end := t.buildLeaves(polygons)
	t.leaves = end - begin
	t.height = 1
	for end-begin > 1 {
		begin, end = t.buildLevel(begin, end)
		t.height++
	}
	t.root = begin
	return t, nil
}

// estimateNodes returns roughly how many nodes a tree over n edges will
// have. It is only used to size the node array.
func estimateNodes(n int, opts BuildOptions) int {
	n = (n + opts.EdgesPerLeaf - 1) / opts.EdgesPerLeaf
	total := n
	for n > 1 {
		n = (n + opts.ChildrenPerNode - 1) / opts.ChildrenPerNode
		total += n
	}
	return total
}

// buildLeaves groups the edges of each polygon into leaves of at most
// EdgesPerLeaf edges and returns the range of node indices holding them.
// A leaf owns the first vertex of each of its edges, and the last leaf of a
// polygon also owns the polygon's final vertex, so that every vertex
// belongs to exactly one leaf.
func (t *Tree) buildLeaves(polygons []*Polygon) (begin, end int) {
	begin = len(t.nodes)
	for pi, p := range polygons {
		base := len(t.vertices)
		for _, v := range p.Vertices {
			v.Index = len(t.vertices)
			t.vertices = append(t.vertices, v)
		}
		numEdges := p.NumEdges()
		if numEdges == 0 {
			if len(p.Vertices) == 0 {
				continue
			}
			var n node
			n.reset(leafNode)
			n.first = len(t.edges)
			n.vfirst, n.vcount = base, 1
			n.polygon = pi
			t.finalizeLeaf(&n)
			t.nodes = append(t.nodes, n)
			continue
		}
		for k := 0; k < numEdges; k += t.opts.EdgesPerLeaf {
			last := k + t.opts.EdgesPerLeaf
			if last > numEdges {
				last = numEdges
			}
			var n node
			n.reset(leafNode)
			n.first = len(t.edges)
			for i := k; i < last; i++ {
				t.edges = append(t.edges, Edge{P1: base + i, P2: base + i + 1})
			}
			n.count = last - k
			n.vfirst, n.vcount = base+k, last-k
			if last == numEdges {
				n.vcount++
			}
			n.polygon = pi
			t.finalizeLeaf(&n)
			t.nodes = append(t.nodes, n)
		}
	}
	return begin, len(t.nodes)
}

// buildLevel groups the nodes in [begin, end) into parents of at most
// ChildrenPerNode children and returns the range of the new parents.
// The last parent may have fewer children than the others.
func (t *Tree) buildLevel(begin, end int) (int, int) {
	newBegin := len(t.nodes)
	for k := begin; k < end; k += t.opts.ChildrenPerNode {
		last := k + t.opts.ChildrenPerNode
		if last > end {
			last = end
		}
		var n node
		n.reset(internalNode)
		n.first, n.count = k, last-k
		t.finalizeInternal(&n)
		t.nodes = append(t.nodes, n)
	}
	return newBegin, len(t.nodes)
}

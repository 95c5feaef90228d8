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

import (
	"math"

	"github.com/ctessum/geom"
)

// maxDistance is the starting best-so-far value of a search. Searches
// always take their first candidate, so it never reaches a caller.
const maxDistance = math.MaxFloat64

type nodeKind uint8

const (
	// leafNode children are edges and vertices.
	leafNode nodeKind = iota
	// internalNode children are other nodes.
	internalNode
)

// node is a box in the search tree. Children are stored as contiguous
// ranges of the arrays held by the Tree: edges [first, first+count) and
// vertices [vfirst, vfirst+vcount) for a leaf, nodes [first, first+count)
// for an internal node.
type node struct {
	kind   nodeKind
	bounds geom.Bounds

	// minWeight is the smallest weight of any vertex under the node.
	minWeight float64

	first, count   int
	vfirst, vcount int

	// polygon is the polygon a leaf was built from.
	polygon int
}

func (n *node) reset(kind nodeKind) {
	n.kind = kind
	n.bounds = *geom.NewBounds()
	n.minWeight = maxDistance
}

// Tree is a bounding volume hierarchy over the edges and vertices of a set
// of polygons. A Tree is never modified after it is built, so it can be
// queried from any number of goroutines at once.
type Tree struct {
	nodes    []node
	edges    []Edge
	vertices []Vertex

	root   int
	height int
	leaves int

	numPolygons int
	opts        BuildOptions
}

// finalizeLeaf computes the bounds and minimum weight of leaf n from its
// edges and owned vertices.
func (t *Tree) finalizeLeaf(n *node) {
	for _, e := range t.edges[n.first : n.first+n.count] {
		n.bounds.Extend(t.vertices[e.P1].Bounds())
		n.bounds.Extend(t.vertices[e.P2].Bounds())
	}
	for _, v := range t.vertices[n.vfirst : n.vfirst+n.vcount] {
		n.bounds.Extend(v.Bounds())
		n.minWeight = math.Min(n.minWeight, v.Weight)
	}
}

// finalizeInternal computes the bounds and minimum weight of internal
// node n from its children.
func (t *Tree) finalizeInternal(n *node) {
	for _, c := range t.nodes[n.first : n.first+n.count] {
		n.bounds.Extend(&c.bounds)
		n.minWeight = math.Min(n.minWeight, c.minWeight)
	}
}

// TreeStats describes the size and shape of a Tree.
type TreeStats struct {
	Polygons, Vertices, Edges int
	Nodes, Leaves, Height     int
	EdgesPerLeaf              int
	ChildrenPerNode           int
}

// Stats returns the size and shape of t.
func (t *Tree) Stats() TreeStats {
	return TreeStats{
		Polygons:        t.numPolygons,
		Vertices:        len(t.vertices),
		Edges:           len(t.edges),
		Nodes:           len(t.nodes),
		Leaves:          t.leaves,
		Height:          t.height,
		EdgesPerLeaf:    t.opts.EdgesPerLeaf,
		ChildrenPerNode: t.opts.ChildrenPerNode,
	}
}

// Bounds returns the spatial extent of all of the polygons in t.
func (t *Tree) Bounds() *geom.Bounds {
	return t.nodes[t.root].bounds.Copy()
}

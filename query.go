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

// The queries below all descend the tree the same way: a node whose box
// cannot contain anything better than the best value found so far is
// skipped, and leaves are searched exhaustively. The first candidate
// reached is always taken, so a search over a non-empty tree never ends
// with the sentinel. Distances stay squared until the final value is
// returned, unless far is set, in which case they are computed directly
// for points whose squared distances overflow.

func (t *Tree) nearestEdge(i int, best float64, edge int, p geom.Point, far bool) (float64, int) {
	n := &t.nodes[i]
	if edge >= 0 && t.boxBound(p, n, far) > best {
		return best, edge
	}
	if n.kind == internalNode {
		for c := n.first; c < n.first+n.count; c++ {
			best, edge = t.nearestEdge(c, best, edge, p, far)
		}
		return best, edge
	}
	for ei := n.first; ei < n.first+n.count; ei++ {
		e := t.edges[ei]
		p1, p2 := t.vertices[e.P1].Point, t.vertices[e.P2].Point
		var d float64
		if far {
			d = distanceToSegment(p, p1, p2)
		} else {
			d = SquaredDistanceToSegment(p, p1, p2)
		}
		if edge < 0 || d < best {
			best, edge = d, ei
		}
	}
	return best, edge
}

func (t *Tree) nearestVertex(i int, best float64, index int, p geom.Point, far bool) (float64, int) {
	n := &t.nodes[i]
	if index >= 0 && t.boxBound(p, n, far) > best {
		return best, index
	}
	if n.kind == internalNode {
		for c := n.first; c < n.first+n.count; c++ {
			best, index = t.nearestVertex(c, best, index, p, far)
		}
		return best, index
	}
	for _, v := range t.vertices[n.vfirst : n.vfirst+n.vcount] {
		var d float64
		if far {
			d = math.Hypot(v.X-p.X, v.Y-p.Y)
		} else {
			d = squaredDistance(v.X-p.X, v.Y-p.Y)
		}
		if index < 0 || d < best {
			best, index = d, v.Index
		}
	}
	return best, index
}

func (t *Tree) boxBound(p geom.Point, n *node, far bool) float64 {
	if far {
		return boxDistance(p, &n.bounds)
	}
	return boxLowerBound(p, &n.bounds)
}

// nearestWeighted finds the smallest value of g(distance) + weight over
// all vertices. g must be non-decreasing for the box bound to hold.
func (t *Tree) nearestWeighted(i int, best float64, found bool, p geom.Point, g func(float64) float64) (float64, bool) {
	n := &t.nodes[i]
	if found && g(boxDistance(p, &n.bounds))+n.minWeight > best {
		return best, found
	}
	if n.kind == internalNode {
		for c := n.first; c < n.first+n.count; c++ {
			best, found = t.nearestWeighted(c, best, found, p, g)
		}
		return best, found
	}
	for _, v := range t.vertices[n.vfirst : n.vfirst+n.vcount] {
		f := g(rootDistance(v.X-p.X, v.Y-p.Y)) + v.Weight
		if !found || f < best {
			best, found = f, true
		}
	}
	return best, found
}

// crossings adds to count the number of edges crossed by a ray cast from p
// in the +x direction.
func (t *Tree) crossings(i, count int, p geom.Point) int {
	n := &t.nodes[i]
	if skipBoxCrossing(p, &n.bounds) {
		return count
	}
	if n.kind == internalNode {
		for c := n.first; c < n.first+n.count; c++ {
			count = t.crossings(c, count, p)
		}
		return count
	}
	for _, e := range t.edges[n.first : n.first+n.count] {
		if crossing(p, t.vertices[e.P1].Point, t.vertices[e.P2].Point) != 0 {
			count++
		}
	}
	return count
}

// parity tracks the crossing parity of each polygon for a single point.
type parity struct {
	odd     []bool
	touched []int
}

func newParity(numPolygons int) *parity {
	return &parity{odd: make([]bool, numPolygons)}
}

// any reports whether any polygon has an odd number of crossings, and
// clears p for the next point.
func (s *parity) any() bool {
	var in bool
	for _, pi := range s.touched {
		in = in || s.odd[pi]
		s.odd[pi] = false
	}
	s.touched = s.touched[:0]
	return in
}

// crossingsByPolygon is like crossings but keeps a separate count for each
// polygon.
func (t *Tree) crossingsByPolygon(i int, p geom.Point, s *parity) {
	n := &t.nodes[i]
	if skipBoxCrossing(p, &n.bounds) {
		return
	}
	if n.kind == internalNode {
		for c := n.first; c < n.first+n.count; c++ {
			t.crossingsByPolygon(c, p, s)
		}
		return
	}
	for _, e := range t.edges[n.first : n.first+n.count] {
		if crossing(p, t.vertices[e.P1].Point, t.vertices[e.P2].Point) != 0 {
			s.odd[n.polygon] = !s.odd[n.polygon]
			s.touched = append(s.touched, n.polygon)
		}
	}
}

// DistanceToNearestEdge returns the distance from p to the closest polygon
// edge, or +Inf if the tree has no edges.
func (t *Tree) DistanceToNearestEdge(p geom.Point) float64 {
	d, edge := t.nearestEdge(t.root, maxDistance, -1, p, false)
	switch {
	case edge < 0:
		return math.Inf(1)
	case math.IsInf(d, 1):
		d, _ = t.nearestEdge(t.root, maxDistance, -1, p, true)
		return d
	}
	return math.Sqrt(d)
}

// NearestVertex returns the distance from p to the closest polygon vertex
// and the index of that vertex. When two vertices are equally close either
// may be returned.
func (t *Tree) NearestVertex(p geom.Point) (float64, int) {
	d, index := t.nearestVertex(t.root, maxDistance, -1, p, false)
	if math.IsInf(d, 1) {
		return t.nearestVertex(t.root, maxDistance, -1, p, true)
	}
	return math.Sqrt(d), index
}

// WeightedDistanceToNearestVertex returns the minimum over all vertices of
// slope * distance + weight. slope must be non-negative.
func (t *Tree) WeightedDistanceToNearestVertex(p geom.Point, slope float64) float64 {
	return t.CustomDistanceToNearestVertex(p, func(d float64) float64 { return slope * d })
}

// CustomDistanceToNearestVertex returns the minimum over all vertices of
// g(distance) + weight. g must be non-decreasing on [0, +Inf).
func (t *Tree) CustomDistanceToNearestVertex(p geom.Point, g func(float64) float64) float64 {
	d, _ := t.nearestWeighted(t.root, maxDistance, false, p, g)
	return d
}

// Contains returns whether p is inside the polygons in t according to the
// even-odd rule applied to all edges together.
func (t *Tree) Contains(p geom.Point) bool {
	return t.crossings(t.root, 0, p)%2 != 0
}

// containsAny returns whether p is inside at least one of the polygons in
// t, applying the even-odd rule to each polygon separately.
func (t *Tree) containsAny(p geom.Point, s *parity) bool {
	t.crossingsByPolygon(t.root, p, s)
	return s.any()
}

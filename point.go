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
	"fmt"

	"github.com/ctessum/geom"
)

// Unweighted is the weight assigned to the vertices of polygons that are
// added without weights.
const Unweighted = 0.

// Vertex is a polygon vertex. Weight is only used by the weighted vertex
// distance queries. Index identifies the vertex across all of the polygons
// in a Context, in insertion order.
type Vertex struct {
	geom.Point
	Weight float64
	Index  int
}

// Edge is the segment between two consecutive vertices of a polygon.
// P1 and P2 are positions in the vertex array of the Tree that holds the
// edge.
type Edge struct {
	P1, P2 int
}

// Polygon is an ordered chain of vertices. Edge i connects vertex i to
// vertex i+1; no closing edge is added, so a closed ring must repeat its
// first vertex at the end.
type Polygon struct {
	Vertices []Vertex
}

// NewPolygon creates a polygon from the given points. If weights is not
// nil it must have the same length as points.
func NewPolygon(points []geom.Point, weights []float64) (*Polygon, error) {
	if len(points) == 0 {
		return nil, ErrNoVertices
	}
	if weights != nil && len(weights) != len(points) {
		return nil, fmt.Errorf("polygons: %d weights for %d vertices: %w",
			len(weights), len(points), ErrLengthMismatch)
	}
	p := &Polygon{Vertices: make([]Vertex, len(points))}
	for i, pt := range points {
		w := Unweighted
		if weights != nil {
			w = weights[i]
		}
		p.Vertices[i] = Vertex{Point: pt, Weight: w}
	}
	return p, nil
}

// NumEdges returns the number of edges in p.
func (p *Polygon) NumEdges() int {
	if len(p.Vertices) < 2 {
		return 0
	}
	return len(p.Vertices) - 1
}

// Points returns the coordinates of the vertices of p.
func (p *Polygon) Points() []geom.Point {
	o := make([]geom.Point, len(p.Vertices))
	for i, v := range p.Vertices {
		o[i] = v.Point
	}
	return o
}

// Bounds returns the spatial extent of p.
func (p *Polygon) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for _, v := range p.Vertices {
		b.Extend(v.Point.Bounds())
	}
	return b
}

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

import "github.com/ctessum/geom"

// The crossing test is based on http://geomalgorithms.com/a03-_inclusion.html
// which is distributed under the following license:
//
// Copyright 2000 softSurfer, 2012 Dan Sunday
// This code may be freely used and modified for any purpose
// providing that this copyright notice is included with it.
// SoftSurfer makes no warranty for this code, and cannot be held
// liable for any real or imagined damage resulting from its use.
// Users of this code must verify correctness for their application.

// IsLeft returns twice the signed area of the triangle (p0, p1, p2).
// It is > 0 when p2 is left of the line through p0 and p1, 0 when
// the three points are collinear, and < 0 when p2 is to the right.
func IsLeft(p0, p1, p2 geom.Point) float64 {
	return (p1.X-p0.X)*(p2.Y-p0.Y) - (p2.X-p0.X)*(p1.Y-p0.Y)
}

// crossing returns +1 if a ray cast from p in the +x direction crosses the
// upward edge a→b, -1 if it crosses the downward edge a→b, and 0 otherwise.
// The lower endpoint of an edge is included and the upper endpoint is not,
// so a ray passing through a vertex is counted once. Horizontal edges never
// cross.
func crossing(p, a, b geom.Point) int {
	if a.Y <= p.Y {
		if b.Y > p.Y && IsLeft(a, b, p) > 0 {
			return 1
		}
		return 0
	}
	if b.Y <= p.Y && IsLeft(a, b, p) < 0 {
		return -1
	}
	return 0
}

// WindingNumber returns the winding number of ring around p. The ring is
// traversed as given; it must repeat its first vertex at the end to be
// closed. p is inside the ring under the nonzero rule when the result is
// not zero.
//
// Context.ContainsPoints uses the even-odd rule instead, which gives the
// same answer for rings that do not intersect themselves.
func WindingNumber(p geom.Point, ring []geom.Point) int {
	var wn int
	for i := 0; i < len(ring)-1; i++ {
		wn += crossing(p, ring[i], ring[i+1])
	}
	return wn
}

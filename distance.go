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

// squaredDistance returns dx² + dy². Square roots are only taken on the
// values handed back to callers.
func squaredDistance(dx, dy float64) float64 {
	return dx*dx + dy*dy
}

// rootDistance returns the length of (dx, dy). It falls back to
// math.Hypot when the squares overflow.
func rootDistance(dx, dy float64) float64 {
	d := math.Sqrt(squaredDistance(dx, dy))
	if math.IsInf(d, 1) {
		return math.Hypot(dx, dy)
	}
	return d
}

// SquaredDistanceToSegment returns the squared distance from p to the
// segment between p1 and p2. A zero-length segment is treated as the point
// p1.
func SquaredDistanceToSegment(p, p1, p2 geom.Point) float64 {
	return squaredDistance(segmentOffset(p, p1, p2))
}

// distanceToSegment is the square root of SquaredDistanceToSegment,
// computed without squaring so that it stays finite for far away points.
func distanceToSegment(p, p1, p2 geom.Point) float64 {
	return math.Hypot(segmentOffset(p, p1, p2))
}

// segmentOffset returns the offset from the point of the segment p1-p2 that
// is closest to p, to p.
func segmentOffset(p, p1, p2 geom.Point) (dx, dy float64) {
	vx, vy := p2.X-p1.X, p2.Y-p1.Y
	wx, wy := p.X-p1.X, p.Y-p1.Y

	c1 := vx*wx + vy*wy
	if c1 <= 0 {
		return wx, wy
	}
	c2 := vx*vx + vy*vy
	if c2 == 0 || c1 >= c2 {
		return p.X - p2.X, p.Y - p2.Y
	}
	t := c1 / c2
	return p.X - (p1.X + t*vx), p.Y - (p1.Y + t*vy)
}

// boxLowerBound returns the squared distance from p to the closest point of
// b, or zero if p is inside b. No geometry inside b can be closer to p.
//
//	    |   |
//	  1 | 2 | 3
//	 ___|___|___
//	    |   |
//	  4 | b | 6
//	 ___|___|___
//	    |   |
//	  7 | 8 | 9
//	    |   |
func boxLowerBound(p geom.Point, b *geom.Bounds) float64 {
	return squaredDistance(boxOffset(p, b))
}

// boxDistance is the square root of boxLowerBound.
func boxDistance(p geom.Point, b *geom.Bounds) float64 {
	return rootDistance(boxOffset(p, b))
}

func boxOffset(p geom.Point, b *geom.Bounds) (dx, dy float64) {
	switch {
	case p.X < b.Min.X:
		dx = p.X - b.Min.X
	case p.X > b.Max.X:
		dx = p.X - b.Max.X
	}
	switch {
	case p.Y < b.Min.Y:
		dy = p.Y - b.Min.Y
	case p.Y > b.Max.Y:
		dy = p.Y - b.Max.Y
	}
	return dx, dy
}

// skipBoxCrossing returns whether a ray cast from p in the +x direction
// cannot cross any edge inside b.
func skipBoxCrossing(p geom.Point, b *geom.Bounds) bool {
	return p.X > b.Max.X || p.Y > b.Max.Y || p.Y < b.Min.Y
}

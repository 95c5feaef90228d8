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

// Package polygons answers distance and containment queries for large
// numbers of points against a set of polygons.
//
// A Context holds the polygons and a bounding volume hierarchy over all of
// their edges. Queries descend the hierarchy and skip every box that cannot
// hold anything closer than the best answer found so far, so that each
// query only visits a small part of the polygons. Four queries are
// available: the distance to the nearest edge, the distance to the nearest
// vertex along with the vertex index, the minimum over all vertices of
// slope * distance + weight, and whether points are inside the polygons.
//
// Adding polygons rebuilds the hierarchy from scratch. Queries on a built
// Context may run from any number of goroutines.
package polygons

// Version gives the version of this package.
const Version = "0.1.0"

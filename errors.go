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

import "errors"

var (
	// ErrUninitialized is returned by operations on a Context that was not
	// created with NewContext or that has already been closed.
	ErrUninitialized = errors.New("polygons: context is not initialized")

	// ErrEmptyTree is returned by queries on a Context that does not hold
	// any polygons yet.
	ErrEmptyTree = errors.New("polygons: no polygons have been added")

	// ErrNoVertices is returned when a polygon without vertices is added.
	ErrNoVertices = errors.New("polygons: polygon has no vertices")

	// ErrLengthMismatch is returned when parallel input arrays have
	// different lengths.
	ErrLengthMismatch = errors.New("polygons: input lengths do not match")

	// ErrInvalidSlope is returned by the weighted vertex distance query for
	// slopes that are negative or not finite.
	ErrInvalidSlope = errors.New("polygons: slope must be finite and non-negative")

	// ErrFanOut is returned for tree fan-outs smaller than 2.
	ErrFanOut = errors.New("polygons: fan-out must be at least 2")

	// ErrVertexIndex is returned when a vertex index is out of range.
	ErrVertexIndex = errors.New("polygons: vertex index out of range")
)

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

package polygonsutil

import (
	"fmt"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/polygons"
)

// DistanceKind specifies which distance Distance calculates.
type DistanceKind int

const (
	// EdgeDistance is the distance to the nearest polygon edge.
	EdgeDistance DistanceKind = iota
	// VertexDistance is the distance to the nearest polygon vertex.
	VertexDistance
	// WeightedDistance is slope * distance + weight, minimized over all
	// polygon vertices.
	WeightedDistance
)

func (k DistanceKind) String() string {
	switch k {
	case EdgeDistance:
		return "edge"
	case VertexDistance:
		return "vertex"
	case WeightedDistance:
		return "weighted"
	default:
		return fmt.Sprintf("DistanceKind(%d)", int(k))
	}
}

// readPoints reads the query points, and their slopes if slopeField is
// not empty.
func readPoints(pointsFile, slopeField string) ([]geom.Point, []float64, error) {
	if pointsFile == "" {
		return nil, nil, fmt.Errorf("polygons: you need to specify a Points file")
	}
	pts, slopes, err := polygons.ReadPoints(pointsFile, slopeField)
	if err != nil {
		return nil, nil, err
	}
	logrus.WithFields(logrus.Fields{"file": pointsFile, "points": len(pts)}).Info("polygons: read query points")
	return pts, slopes, nil
}

// Contains determines which of the points in pointsFile are inside the
// polygons in c and writes the results to outputFile.
func Contains(c *polygons.Context, pointsFile, outputFile string) error {
	pts, _, err := readPoints(pointsFile, "")
	if err != nil {
		return err
	}
	start := time.Now()
	in, err := c.ContainsPoints(pts)
	if err != nil {
		return err
	}
	logQuery("contains", len(pts), start)
	r := polygons.NewResults(pts)
	if err := r.AddBools("inside", in); err != nil {
		return err
	}
	return polygons.WriteResults(outputFile, r)
}

// Distance calculates the distance of the given kind from each of the
// points in pointsFile to the polygons in c, and writes the results to
// outputFile. For WeightedDistance, the slope of each point is read from
// the slopeField column of pointsFile, or set to slope if slopeField is
// empty.
func Distance(c *polygons.Context, kind DistanceKind, pointsFile, slopeField string, slope float64, outputFile string) error {
	if kind != WeightedDistance {
		slopeField = ""
	}
	pts, slopes, err := readPoints(pointsFile, slopeField)
	if err != nil {
		return err
	}
	r := polygons.NewResults(pts)
	start := time.Now()
	switch kind {
	case EdgeDistance:
		d, err := c.DistancesToNearestEdge(pts)
		if err != nil {
			return err
		}
		logQuery(kind.String(), len(pts), start)
		if err := r.Add("edge_dist", d); err != nil {
			return err
		}
	case VertexDistance:
		d, index, err := c.DistancesToNearestVertex(pts)
		if err != nil {
			return err
		}
		logQuery(kind.String(), len(pts), start)
		poly := make([]int, len(index))
		for i, vi := range index {
			if _, poly[i], err = c.Vertex(vi); err != nil {
				return err
			}
		}
		if err := r.Add("vert_dist", d); err != nil {
			return err
		}
		if err := r.AddInts("vertex", index); err != nil {
			return err
		}
		if err := r.AddInts("polygon", poly); err != nil {
			return err
		}
	case WeightedDistance:
		if slopes == nil {
			slopes = make([]float64, len(pts))
			for i := range slopes {
				slopes[i] = slope
			}
		}
		d, err := c.WeightedDistancesToNearestVertex(pts, slopes)
		if err != nil {
			return err
		}
		logQuery(kind.String(), len(pts), start)
		if err := r.Add("weighted", d); err != nil {
			return err
		}
	default:
		return fmt.Errorf("polygons: invalid distance kind %v", kind)
	}
	return polygons.WriteResults(outputFile, r)
}

func logQuery(name string, n int, start time.Time) {
	logrus.WithFields(logrus.Fields{
		"query":   name,
		"points":  n,
		"elapsed": time.Since(start),
	}).Info("polygons: finished query")
}

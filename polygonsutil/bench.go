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
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/polygons"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BenchConfig holds the settings for Bench.
type BenchConfig struct {
	// PolygonFile holds the polygon to be copied. Only its first polygon
	// is used.
	PolygonFile string

	// Copies is the number of copies of the polygon, each shifted by
	// Offset in the x direction from the last.
	Copies int
	Offset float64

	// NumPoints is the number of random query points.
	NumPoints int

	// Repeats is the number of times each step is timed.
	Repeats int

	Seed    int64
	Options []polygons.Option
}

// BenchTiming summarizes the run times of one benchmark step.
type BenchTiming struct {
	Name              string
	Mean, StdDev, Min time.Duration
}

// BenchResult holds the results of a benchmark.
type BenchResult struct {
	Tree      polygons.TreeStats
	NumPoints int
	Timings   []BenchTiming
}

func (r *BenchResult) String() string {
	b := bytes.NewBuffer(nil)
	fmt.Fprintf(b, "%d polygons, %d edges, %d nodes, height %d; %d query points\n",
		r.Tree.Polygons, r.Tree.Edges, r.Tree.Nodes, r.Tree.Height, r.NumPoints)
	fmt.Fprintf(b, "%-10s %14s %14s %14s\n", "step", "mean", "std. dev.", "min")
	for _, t := range r.Timings {
		fmt.Fprintf(b, "%-10s %14v %14v %14v\n", t.Name, t.Mean, t.StdDev, t.Min)
	}
	return b.String()
}

// benchPolygons returns n copies of p, each shifted by offset in the x
// direction from the last.
func benchPolygons(p *polygons.Polygon, n int, offset float64) []*polygons.Polygon {
	o := make([]*polygons.Polygon, n)
	for i := range o {
		cp := &polygons.Polygon{Vertices: make([]polygons.Vertex, len(p.Vertices))}
		for j, v := range p.Vertices {
			v.X += float64(i) * offset
			cp.Vertices[j] = v
		}
		o[i] = cp
	}
	return o
}

// benchPoints returns n random points within b expanded by one unit in
// each direction.
func benchPoints(rng *rand.Rand, n int, b *geom.Bounds) []geom.Point {
	xmin, xmax := b.Min.X-1, b.Max.X+1
	ymin, ymax := b.Min.Y-1, b.Max.Y+1
	o := make([]geom.Point, n)
	for i := range o {
		o[i] = geom.Point{
			X: xmin + rng.Float64()*(xmax-xmin),
			Y: ymin + rng.Float64()*(ymax-ymin),
		}
	}
	return o
}

// timeStep runs f repeats times and summarizes the run times.
func timeStep(name string, repeats int, f func() error) (BenchTiming, error) {
	t := make([]float64, repeats)
	for i := range t {
		start := time.Now()
		if err := f(); err != nil {
			return BenchTiming{}, fmt.Errorf("polygons: benchmark %s: %v", name, err)
		}
		t[i] = time.Since(start).Seconds()
	}
	mean, std := stat.MeanStdDev(t, nil)
	if repeats < 2 {
		std = 0
	}
	bt := BenchTiming{
		Name:   name,
		Mean:   seconds(mean),
		StdDev: seconds(std),
		Min:    seconds(floats.Min(t)),
	}
	logrus.WithFields(logrus.Fields{"step": name, "mean": bt.Mean, "min": bt.Min}).Debug("polygons: benchmark step")
	return bt, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Bench times building a search tree and querying it.
func Bench(cfg *BenchConfig) (*BenchResult, error) {
	if cfg.Copies < 1 || cfg.NumPoints < 1 || cfg.Repeats < 1 {
		return nil, fmt.Errorf("polygons: Bench.Copies, Bench.NumPoints, and Bench.Repeats must all be at least 1")
	}
	src, err := polygons.ReadPolygons(cfg.PolygonFile, "")
	if err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("polygons: benchmark polygon file %s has no polygons", cfg.PolygonFile)
	}
	polys := benchPolygons(src[0], cfg.Copies, cfg.Offset)

	var c *polygons.Context
	build, err := timeStep("build", cfg.Repeats, func() error {
		c = polygons.NewContext(cfg.Options...)
		return c.AddPolygons(polys...)
	})
	if err != nil {
		return nil, err
	}
	defer c.Close()
	s, err := c.Stats()
	if err != nil {
		return nil, err
	}

	b := geom.NewBounds()
	for _, p := range polys {
		b.Extend(p.Bounds())
	}
	pts := benchPoints(rand.New(rand.NewSource(cfg.Seed)), cfg.NumPoints, b)
	slopes := make([]float64, len(pts))
	for i := range slopes {
		slopes[i] = 1
	}

	r := &BenchResult{Tree: s, NumPoints: len(pts), Timings: []BenchTiming{build}}
	steps := []struct {
		name string
		f    func() error
	}{
		{name: "edge", f: func() error {
			_, err := c.DistancesToNearestEdge(pts)
			return err
		}},
		{name: "vertex", f: func() error {
			_, _, err := c.DistancesToNearestVertex(pts)
			return err
		}},
		{name: "weighted", f: func() error {
			_, err := c.WeightedDistancesToNearestVertex(pts, slopes)
			return err
		}},
		{name: "contains", f: func() error {
			_, err := c.ContainsPoints(pts)
			return err
		}},
	}
	for _, step := range steps {
		t, err := timeStep(step.name, cfg.Repeats, step.f)
		if err != nil {
			return nil, err
		}
		r.Timings = append(r.Timings, t)
	}
	return r, nil
}

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
	"math/rand"
	"sort"
	"testing"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
)

const testTolerance = 1e-12

func different(a, b float64) bool {
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return false
	}
	return !floats.EqualWithinAbsOrRel(a, b, testTolerance, testTolerance)
}

// starPolygon returns a closed, simple polygon with n vertices around c.
func starPolygon(rng *rand.Rand, c geom.Point, r float64, n int) *Polygon {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	sort.Float64s(angles)
	p := &Polygon{Vertices: make([]Vertex, n+1)}
	for i, a := range angles {
		rr := r * (0.3 + 0.7*rng.Float64())
		p.Vertices[i] = Vertex{
			Point:  geom.Point{X: c.X + rr*math.Cos(a), Y: c.Y + rr*math.Sin(a)},
			Weight: rng.Float64() * 5,
		}
	}
	p.Vertices[n] = p.Vertices[0]
	return p
}

func randomPolygons(rng *rand.Rand, n int) []*Polygon {
	o := make([]*Polygon, n)
	for i := range o {
		c := geom.Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		o[i] = starPolygon(rng, c, 1+rng.Float64()*20, 3+rng.Intn(40))
	}
	return o
}

func randomPoints(rng *rand.Rand, n int, b *geom.Bounds) []geom.Point {
	dx, dy := b.Max.X-b.Min.X, b.Max.Y-b.Min.Y
	o := make([]geom.Point, n)
	for i := range o {
		o[i] = geom.Point{
			X: b.Min.X - 0.25*dx + rng.Float64()*1.5*dx,
			Y: b.Min.Y - 0.25*dy + rng.Float64()*1.5*dy,
		}
	}
	return o
}

func allPoints(polygons []*Polygon) []geom.Point {
	b := geom.NewBounds()
	for _, p := range polygons {
		b.Extend(p.Bounds())
	}
	return randomPoints(rand.New(rand.NewSource(2)), 500, b)
}

func bruteNearestEdge(polygons []*Polygon, p geom.Point) float64 {
	best := math.Inf(1)
	for _, poly := range polygons {
		for i := 0; i < poly.NumEdges(); i++ {
			d := SquaredDistanceToSegment(p, poly.Vertices[i].Point, poly.Vertices[i+1].Point)
			best = math.Min(best, math.Sqrt(d))
		}
	}
	return best
}

func bruteNearestVertex(polygons []*Polygon, p geom.Point) (float64, []geom.Point) {
	best := math.Inf(1)
	var all []geom.Point
	for _, poly := range polygons {
		for _, v := range poly.Vertices {
			best = math.Min(best, math.Hypot(v.X-p.X, v.Y-p.Y))
			all = append(all, v.Point)
		}
	}
	return best, all
}

func bruteWeighted(polygons []*Polygon, p geom.Point, g func(float64) float64) float64 {
	best := math.Inf(1)
	for _, poly := range polygons {
		for _, v := range poly.Vertices {
			best = math.Min(best, g(math.Sqrt(squaredDistance(v.X-p.X, v.Y-p.Y)))+v.Weight)
		}
	}
	return best
}

func bruteCrossings(poly *Polygon, p geom.Point) int {
	var n int
	for i := 0; i < poly.NumEdges(); i++ {
		if crossing(p, poly.Vertices[i].Point, poly.Vertices[i+1].Point) != 0 {
			n++
		}
	}
	return n
}

func bruteContains(polygons []*Polygon, p geom.Point) bool {
	var n int
	for _, poly := range polygons {
		n += bruteCrossings(poly, p)
	}
	return n%2 != 0
}

func bruteContainsAny(polygons []*Polygon, p geom.Point) bool {
	for _, poly := range polygons {
		if bruteCrossings(poly, p)%2 != 0 {
			return true
		}
	}
	return false
}

var testFanOuts = []BuildOptions{
	DefaultBuildOptions,
	{EdgesPerLeaf: 2, ChildrenPerNode: 2},
	{EdgesPerLeaf: 3, ChildrenPerNode: 7},
	{EdgesPerLeaf: 16, ChildrenPerNode: 2},
	{EdgesPerLeaf: 64, ChildrenPerNode: 64},
}

func TestTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	polygons := randomPolygons(rng, 30)
	points := allPoints(polygons)
	slope := func(d float64) float64 { return 0.7 * d }
	square := func(d float64) float64 { return d * d }

	for _, opts := range testFanOuts {
		tree, err := BuildTree(polygons, opts)
		if err != nil {
			t.Fatal(err)
		}
		s := newParity(len(polygons))
		for _, p := range points {
			if want, have := bruteNearestEdge(polygons, p), tree.DistanceToNearestEdge(p); different(want, have) {
				t.Errorf("%+v: edge %v: want %g but have %g", opts, p, want, have)
			}

			want, vertices := bruteNearestVertex(polygons, p)
			have, index := tree.NearestVertex(p)
			if different(want, have) {
				t.Errorf("%+v: vertex %v: want %g but have %g", opts, p, want, have)
			}
			if v := vertices[index]; different(math.Hypot(v.X-p.X, v.Y-p.Y), have) {
				t.Errorf("%+v: vertex %v: index %d is at distance %g, not %g", opts, p, index,
					math.Hypot(v.X-p.X, v.Y-p.Y), have)
			}

			if want, have := bruteWeighted(polygons, p, slope), tree.WeightedDistanceToNearestVertex(p, 0.7); different(want, have) {
				t.Errorf("%+v: weighted %v: want %g but have %g", opts, p, want, have)
			}
			if want, have := bruteWeighted(polygons, p, square), tree.CustomDistanceToNearestVertex(p, square); different(want, have) {
				t.Errorf("%+v: custom %v: want %g but have %g", opts, p, want, have)
			}
			if want, have := bruteContains(polygons, p), tree.Contains(p); want != have {
				t.Errorf("%+v: contains %v: want %v but have %v", opts, p, want, have)
			}
			if want, have := bruteContainsAny(polygons, p), tree.containsAny(p, s); want != have {
				t.Errorf("%+v: contains any %v: want %v but have %v", opts, p, want, have)
			}
		}
	}
}

// Containment of a simple polygon must agree with an independent
// point-in-polygon implementation.
func TestContainsWithin(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		poly := starPolygon(rng, geom.Point{X: 0, Y: 0}, 10, 3+rng.Intn(60))
		tree, err := BuildTree([]*Polygon{poly}, DefaultBuildOptions)
		if err != nil {
			t.Fatal(err)
		}
		gp := geom.Polygon{poly.Points()}
		for _, p := range randomPoints(rng, 200, poly.Bounds()) {
			w := p.Within(gp)
			if w == geom.OnEdge {
				continue
			}
			if want, have := w == geom.Inside, tree.Contains(p); want != have {
				t.Errorf("polygon %d: %v: want %v but have %v", i, p, want, have)
			}
		}
	}
}

func TestContainsConvex(t *testing.T) {
	var pts []geom.Point
	for i := 0; i <= 32; i++ {
		a := 2 * math.Pi * float64(i%32) / 32
		pts = append(pts, geom.Point{X: 5 * math.Cos(a), Y: 5 * math.Sin(a)})
	}
	poly, err := NewPolygon(pts, nil)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := BuildTree([]*Polygon{poly}, DefaultBuildOptions)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0.; r < 4.5; r += 0.5 {
		for a := 0.; a < 2*math.Pi; a += 0.3 {
			p := geom.Point{X: r * math.Cos(a), Y: r * math.Sin(a)}
			if !tree.Contains(p) {
				t.Errorf("%v should be inside", p)
			}
		}
	}
	for _, p := range []geom.Point{{X: 6, Y: 0}, {X: -6, Y: 0}, {X: 0, Y: 5.1}, {X: 0, Y: -7}, {X: 5.5, Y: 5.5}} {
		if tree.Contains(p) {
			t.Errorf("%v should be outside", p)
		}
	}
}

func TestNoEdges(t *testing.T) {
	tree, err := BuildTree([]*Polygon{chain(1, 0), chain(1, 3)}, DefaultBuildOptions)
	if err != nil {
		t.Fatal(err)
	}
	p := geom.Point{X: 4, Y: 0}
	if d := tree.DistanceToNearestEdge(p); !math.IsInf(d, 1) {
		t.Errorf("edge: want +Inf but have %g", d)
	}
	if d, i := tree.NearestVertex(p); d != 4 || i != 0 {
		t.Errorf("vertex: want 4, 0 but have %g, %d", d, i)
	}
	if tree.Contains(p) {
		t.Error("points can't be inside polygons without edges")
	}
}

func TestFarAndNaNPoints(t *testing.T) {
	c := NewContext()
	triangle := []geom.Point{{X: 0, Y: 0}, {X: 1e150, Y: 0}, {X: 0, Y: 1e150}, {X: 0, Y: 0}}
	if err := c.AddPolygon(triangle); err != nil {
		t.Fatal(err)
	}
	far := geom.Point{X: 1e160, Y: 0}
	want := far.X - 1e150

	pts := []geom.Point{far, {X: math.NaN(), Y: 0}}
	edge, err := c.DistancesToNearestEdge(pts)
	if err != nil {
		t.Fatal(err)
	}
	vert, index, err := c.DistancesToNearestVertex(pts)
	if err != nil {
		t.Fatal(err)
	}
	weighted, err := c.WeightedDistancesToNearestVertex(pts, []float64{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	in, err := c.ContainsPoints(pts)
	if err != nil {
		t.Fatal(err)
	}

	if different(edge[0], want) {
		t.Errorf("far edge: want %g but have %g", want, edge[0])
	}
	if different(vert[0], want) || index[0] != 1 {
		t.Errorf("far vertex: want %g, 1 but have %g, %d", want, vert[0], index[0])
	}
	if different(weighted[0], 2*want) {
		t.Errorf("far weighted: want %g but have %g", 2*want, weighted[0])
	}
	if in[0] {
		t.Error("far point should be outside")
	}

	if !math.IsNaN(edge[1]) || !math.IsNaN(vert[1]) || !math.IsNaN(weighted[1]) {
		t.Errorf("NaN point: want NaN distances but have %g, %g, %g", edge[1], vert[1], weighted[1])
	}
	if in[1] {
		t.Error("NaN point should be outside")
	}
	for i, vi := range index {
		if _, _, err := c.Vertex(vi); err != nil {
			t.Errorf("point %d: vertex %d: %v", i, vi, err)
		}
	}
}

func benchmarkTree(b *testing.B, opts BuildOptions) (*Tree, []geom.Point) {
	rng := rand.New(rand.NewSource(1))
	polygons := randomPolygons(rng, 500)
	tree, err := BuildTree(polygons, opts)
	if err != nil {
		b.Fatal(err)
	}
	return tree, randomPoints(rng, 1000, tree.Bounds())
}

func BenchmarkBuildTree(b *testing.B) {
	polygons := randomPolygons(rand.New(rand.NewSource(1)), 500)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildTree(polygons, DefaultBuildOptions); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDistanceToNearestEdge(b *testing.B) {
	tree, points := benchmarkTree(b, DefaultBuildOptions)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.DistanceToNearestEdge(points[i%len(points)])
	}
}

func BenchmarkNearestVertex(b *testing.B) {
	tree, points := benchmarkTree(b, DefaultBuildOptions)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.NearestVertex(points[i%len(points)])
	}
}

func BenchmarkWeightedDistanceToNearestVertex(b *testing.B) {
	tree, points := benchmarkTree(b, DefaultBuildOptions)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.WeightedDistanceToNearestVertex(points[i%len(points)], 0.5)
	}
}

func BenchmarkContains(b *testing.B) {
	tree, points := benchmarkTree(b, DefaultBuildOptions)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Contains(points[i%len(points)])
	}
}

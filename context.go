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
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
)

// ContainmentRule specifies how the polygons in a Context are combined
// when testing whether points are inside them.
type ContainmentRule int

const (
	// EvenOdd counts the edge crossings of all polygons together: a point
	// is inside if the total is odd. A point inside two overlapping polygons
	// is outside.
	EvenOdd ContainmentRule = iota

	// Union applies the even-odd rule to each polygon separately: a point
	// is inside if it is inside any of the polygons. Holes must then be part
	// of the same polygon as the ring that surrounds them.
	Union
)

func (r ContainmentRule) String() string {
	switch r {
	case EvenOdd:
		return "evenodd"
	case Union:
		return "union"
	default:
		return fmt.Sprintf("ContainmentRule(%d)", int(r))
	}
}

// ParseContainmentRule returns the rule named by s, either "evenodd" or
// "union".
func ParseContainmentRule(s string) (ContainmentRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "evenodd", "even-odd", "":
		return EvenOdd, nil
	case "union":
		return Union, nil
	default:
		return EvenOdd, fmt.Errorf("polygons: invalid containment rule %q; valid options are 'evenodd' and 'union'", s)
	}
}

// Context holds a set of polygons and a search tree over all of them.
// Adding polygons rebuilds the tree from scratch. Queries may run
// concurrently with each other; they wait for any rebuild in progress.
type Context struct {
	mu          sync.RWMutex
	initialized bool

	polygons []*Polygon
	// starts holds the index of the first vertex of each polygon.
	starts      []int
	numVertices int
	tree        *Tree

	build  BuildOptions
	rule   ContainmentRule
	nprocs int
	log    logrus.FieldLogger
}

// Option configures a Context.
type Option func(*Context)

// WithFanOut sets the maximum number of edges per leaf and children per
// internal node of the search tree.
func WithFanOut(edgesPerLeaf, childrenPerNode int) Option {
	return func(c *Context) {
		c.build = BuildOptions{EdgesPerLeaf: edgesPerLeaf, ChildrenPerNode: childrenPerNode}
	}
}

// WithContainmentRule sets how overlapping polygons are combined by
// ContainsPoints.
func WithContainmentRule(r ContainmentRule) Option {
	return func(c *Context) { c.rule = r }
}

// WithParallelism sets the number of goroutines used for batch queries.
// n <= 0 uses runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(c *Context) { c.nprocs = n }
}

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Context) { c.log = l }
}

// NewContext returns an empty, initialized Context.
func NewContext(opts ...Option) *Context {
	c := &Context{
		initialized: true,
		build:       DefaultBuildOptions,
		rule:        EvenOdd,
		log:         logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.nprocs <= 0 {
		c.nprocs = runtime.GOMAXPROCS(0)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

// Close releases the polygons and the search tree. Any later use of c
// returns ErrUninitialized.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrUninitialized
	}
	c.polygons, c.starts, c.tree = nil, nil, nil
	c.numVertices = 0
	c.initialized = false
	return nil
}

// AddPolygon adds a polygon with unweighted vertices and rebuilds the
// search tree.
func (c *Context) AddPolygon(points []geom.Point) error {
	return c.AddWeightedPolygon(points, nil)
}

// AddWeightedPolygon adds a polygon whose vertices have the given weights
// and rebuilds the search tree. weights must be nil or have the same length
// as points.
func (c *Context) AddWeightedPolygon(points []geom.Point, weights []float64) error {
	p, err := NewPolygon(points, weights)
	if err != nil {
		return err
	}
	return c.AddPolygons(p)
}

// AddPolygons adds any number of polygons and rebuilds the search tree
// once. The vertices are copied, so the caller may reuse the polygons.
func (c *Context) AddPolygons(polygons ...*Polygon) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrUninitialized
	}
	all := make([]*Polygon, len(c.polygons), len(c.polygons)+len(polygons))
	copy(all, c.polygons)
	starts := append([]int(nil), c.starts...)
	nv := c.numVertices
	for i, p := range polygons {
		if p == nil || len(p.Vertices) == 0 {
			return fmt.Errorf("polygons: adding polygon %d: %w", len(c.polygons)+i, ErrNoVertices)
		}
		cp := &Polygon{Vertices: make([]Vertex, len(p.Vertices))}
		for j, v := range p.Vertices {
			v.Index = nv + j
			cp.Vertices[j] = v
		}
		starts = append(starts, nv)
		nv += len(cp.Vertices)
		all = append(all, cp)
	}
	t, err := c.buildTree(all)
	if err != nil {
		return err
	}
	c.polygons, c.starts, c.numVertices, c.tree = all, starts, nv, t
	return nil
}

// Rebuild rebuilds the search tree from the current polygons.
func (c *Context) Rebuild() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrUninitialized
	}
	if len(c.polygons) == 0 {
		return ErrEmptyTree
	}
	t, err := c.buildTree(c.polygons)
	if err != nil {
		return err
	}
	c.tree = t
	return nil
}

// SetFanOut changes the shape of the search tree and rebuilds it if there
// are any polygons.
func (c *Context) SetFanOut(edgesPerLeaf, childrenPerNode int) error {
	o := BuildOptions{EdgesPerLeaf: edgesPerLeaf, ChildrenPerNode: childrenPerNode}
	if err := o.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrUninitialized
	}
	old := c.build
	c.build = o
	if len(c.polygons) == 0 {
		return nil
	}
	t, err := c.buildTree(c.polygons)
	if err != nil {
		c.build = old
		return err
	}
	c.tree = t
	return nil
}

// buildTree must be called with c.mu held for writing.
func (c *Context) buildTree(polygons []*Polygon) (*Tree, error) {
	start := time.Now()
	t, err := BuildTree(polygons, c.build)
	if err != nil {
		return nil, err
	}
	s := t.Stats()
	c.log.WithFields(logrus.Fields{
		"polygons": s.Polygons,
		"vertices": s.Vertices,
		"edges":    s.Edges,
		"nodes":    s.Nodes,
		"height":   s.Height,
		"elapsed":  time.Since(start),
	}).Debug("polygons: rebuilt search tree")
	return t, nil
}

// NumPolygons returns the number of polygons in c.
func (c *Context) NumPolygons() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.polygons)
}

// Stats returns the size and shape of the current search tree.
func (c *Context) Stats() (TreeStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, err := c.currentTree()
	if err != nil {
		return TreeStats{}, err
	}
	return t.Stats(), nil
}

// Vertex returns the vertex with the given index, as reported by
// DistancesToNearestVertex, and the index of the polygon it belongs to.
func (c *Context) Vertex(index int) (Vertex, int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized {
		return Vertex{}, -1, ErrUninitialized
	}
	if index < 0 || index >= c.numVertices {
		return Vertex{}, -1, fmt.Errorf("polygons: vertex %d of %d: %w", index, c.numVertices, ErrVertexIndex)
	}
	pi := sort.Search(len(c.starts), func(i int) bool { return c.starts[i] > index }) - 1
	return c.polygons[pi].Vertices[index-c.starts[pi]], pi, nil
}

// currentTree must be called with c.mu held.
func (c *Context) currentTree() (*Tree, error) {
	if !c.initialized {
		return nil, ErrUninitialized
	}
	if c.tree == nil {
		return nil, ErrEmptyTree
	}
	return c.tree, nil
}

// forEach calls f once for each i in [0, n), spreading the calls over
// c.nprocs goroutines. worker identifies the goroutine making the call.
func (c *Context) forEach(n int, f func(worker, i int)) {
	nprocs := c.nprocs
	if nprocs > n {
		nprocs = n
	}
	if nprocs <= 1 {
		for i := 0; i < n; i++ {
			f(0, i)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for ii := pp; ii < n; ii += nprocs {
				f(pp, ii)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}

// DistancesToNearestEdge returns the distance from each point to the
// closest edge of any polygon.
func (c *Context) DistancesToNearestEdge(points []geom.Point) ([]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, err := c.currentTree()
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(points))
	c.forEach(len(points), func(_, i int) {
		o[i] = t.DistanceToNearestEdge(points[i])
	})
	return o, nil
}

// DistancesToNearestVertex returns the distance from each point to the
// closest vertex of any polygon, and the index of that vertex.
func (c *Context) DistancesToNearestVertex(points []geom.Point) ([]float64, []int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, err := c.currentTree()
	if err != nil {
		return nil, nil, err
	}
	d := make([]float64, len(points))
	index := make([]int, len(points))
	c.forEach(len(points), func(_, i int) {
		d[i], index[i] = t.NearestVertex(points[i])
	})
	return d, index, nil
}

// WeightedDistancesToNearestVertex returns, for each point, the minimum
// over all vertices of slope * distance + weight, where slope is the
// corresponding element of slopes.
func (c *Context) WeightedDistancesToNearestVertex(points []geom.Point, slopes []float64) ([]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, err := c.currentTree()
	if err != nil {
		return nil, err
	}
	if len(slopes) != len(points) {
		return nil, fmt.Errorf("polygons: %d slopes for %d points: %w", len(slopes), len(points), ErrLengthMismatch)
	}
	for i, s := range slopes {
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("polygons: slope %d = %g: %w", i, s, ErrInvalidSlope)
		}
	}
	o := make([]float64, len(points))
	c.forEach(len(points), func(_, i int) {
		o[i] = t.WeightedDistanceToNearestVertex(points[i], slopes[i])
	})
	return o, nil
}

// CustomDistancesToNearestVertex returns, for each point, the minimum over
// all vertices of g(distance) + weight. g must be non-decreasing on
// [0, +Inf) and safe for concurrent use.
func (c *Context) CustomDistancesToNearestVertex(points []geom.Point, g func(float64) float64) ([]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, err := c.currentTree()
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(points))
	c.forEach(len(points), func(_, i int) {
		o[i] = t.CustomDistanceToNearestVertex(points[i], g)
	})
	return o, nil
}

// ContainsPoints returns whether each point is inside the polygons,
// combined according to the context's ContainmentRule.
func (c *Context) ContainsPoints(points []geom.Point) ([]bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, err := c.currentTree()
	if err != nil {
		return nil, err
	}
	o := make([]bool, len(points))
	switch c.rule {
	case EvenOdd:
		c.forEach(len(points), func(_, i int) {
			o[i] = t.Contains(points[i])
		})
	case Union:
		scratch := make([]*parity, c.nprocs)
		for i := range scratch {
			scratch[i] = newParity(t.numPolygons)
		}
		c.forEach(len(points), func(w, i int) {
			o[i] = t.containsAny(points[i], scratch[w])
		})
	default:
		return nil, fmt.Errorf("polygons: invalid containment rule %v", c.rule)
	}
	return o, nil
}

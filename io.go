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
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// ReadPolygons reads the polygons in a shapefile (.shp) or GeoJSON file
// (.json or .geojson). Each ring of a polygon and each line string becomes
// a separate Polygon. Rings that are not explicitly closed get a copy of
// their first vertex appended. If weightField is not empty, the vertices of
// each shapefile record are given the value of that attribute as their
// weight. GeoJSON geometries do not carry attributes, so weightField must
// be empty for them.
func ReadPolygons(path, weightField string) ([]*Polygon, error) {
	path = os.ExpandEnv(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return readPolygonsShp(path, weightField)
	case ".json", ".geojson":
		if weightField != "" {
			return nil, fmt.Errorf("polygons: reading %s: weight fields are only supported for shapefiles", path)
		}
		return readPolygonsGeoJSON(path)
	default:
		return nil, fmt.Errorf("polygons: unsupported polygon file type %q; valid types are .shp, .json, and .geojson", path)
	}
}

func readPolygonsShp(path, weightField string) ([]*Polygon, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("polygons: opening polygon shapefile: %v", err)
	}
	defer d.Close()

	var fieldNames []string
	if weightField != "" {
		fieldNames = []string{weightField}
	}
	var o []*Polygon
	for {
		g, fields, more := d.DecodeRowFields(fieldNames...)
		if !more || d.Error() != nil {
			break
		}
		if g == nil {
			continue
		}
		w := Unweighted
		if weightField != "" {
			s, ok := fields[weightField]
			if !ok {
				return nil, fmt.Errorf("polygons: reading %s: missing attribute column %s", path, weightField)
			}
			w, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("polygons: reading %s: weight: %v", path, err)
			}
		}
		p, err := geomToPolygons(g, w)
		if err != nil {
			return nil, fmt.Errorf("polygons: reading %s: %v", path, err)
		}
		o = append(o, p...)
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("polygons: reading %s: %v", path, err)
	}
	return o, nil
}

func readPolygonsGeoJSON(path string) ([]*Polygon, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("polygons: reading polygon file: %v", err)
	}
	g, err := geojson.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("polygons: decoding %s: %v", path, err)
	}
	o, err := geomToPolygons(g, Unweighted)
	if err != nil {
		return nil, fmt.Errorf("polygons: reading %s: %v", path, err)
	}
	return o, nil
}

// geomToPolygons converts the rings and lines in g to polygons whose
// vertices all have weight w.
func geomToPolygons(g geom.Geom, w float64) ([]*Polygon, error) {
	var chains [][]geom.Point
	switch t := g.(type) {
	case geom.Polygonal:
		for _, p := range t.Polygons() {
			for _, r := range p {
				chains = append(chains, closeRing(r))
			}
		}
	case geom.LineString:
		chains = append(chains, []geom.Point(t))
	case geom.MultiLineString:
		for _, l := range t {
			chains = append(chains, []geom.Point(l))
		}
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
	o := make([]*Polygon, 0, len(chains))
	for _, c := range chains {
		if len(c) == 0 {
			continue
		}
		p := &Polygon{Vertices: make([]Vertex, len(c))}
		for i, pt := range c {
			p.Vertices[i] = Vertex{Point: pt, Weight: w}
		}
		o = append(o, p)
	}
	return o, nil
}

// closeRing returns r with its first point repeated at the end, unless it
// is already there.
func closeRing(r []geom.Point) []geom.Point {
	if len(r) < 2 || r[0].Equals(r[len(r)-1]) {
		return r
	}
	o := make([]geom.Point, len(r), len(r)+1)
	copy(o, r)
	return append(o, r[0])
}

// ReadPoints reads query points from a CSV file with a header row
// containing "x" and "y" columns, or from a point shapefile. If slopeField
// is not empty, the values of that column are returned as slopes;
// otherwise slopes is nil.
func ReadPoints(path, slopeField string) (points []geom.Point, slopes []float64, err error) {
	path = os.ExpandEnv(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("polygons: opening point file: %v", err)
		}
		defer f.Close()
		points, slopes, err = readPointsCSV(f, slopeField)
		if err != nil {
			return nil, nil, fmt.Errorf("polygons: reading %s: %v", path, err)
		}
		return points, slopes, nil
	case ".shp":
		return readPointsShp(path, slopeField)
	default:
		return nil, nil, fmt.Errorf("polygons: unsupported point file type %q; valid types are .csv and .shp", path)
	}
}

func readPointsCSV(r io.Reader, slopeField string) ([]geom.Point, []float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %v", err)
	}
	xCol, yCol, sCol := -1, -1, -1
	for i, h := range header {
		switch h = strings.TrimSpace(h); {
		case strings.EqualFold(h, "x"):
			xCol = i
		case strings.EqualFold(h, "y"):
			yCol = i
		case slopeField != "" && h == slopeField:
			sCol = i
		}
	}
	if xCol < 0 || yCol < 0 {
		return nil, nil, fmt.Errorf("header must contain 'x' and 'y' columns but is %v", header)
	}
	if slopeField != "" && sCol < 0 {
		return nil, nil, fmt.Errorf("missing slope column %s", slopeField)
	}
	var points []geom.Point
	var slopes []float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		var p geom.Point
		if p.X, err = strconv.ParseFloat(rec[xCol], 64); err != nil {
			return nil, nil, fmt.Errorf("line %d: x: %v", line, err)
		}
		if p.Y, err = strconv.ParseFloat(rec[yCol], 64); err != nil {
			return nil, nil, fmt.Errorf("line %d: y: %v", line, err)
		}
		points = append(points, p)
		if sCol >= 0 {
			s, err := strconv.ParseFloat(rec[sCol], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %s: %v", line, slopeField, err)
			}
			slopes = append(slopes, s)
		}
	}
	return points, slopes, nil
}

func readPointsShp(path, slopeField string) ([]geom.Point, []float64, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, nil, fmt.Errorf("polygons: opening point shapefile: %v", err)
	}
	defer d.Close()

	var fieldNames []string
	if slopeField != "" {
		fieldNames = []string{slopeField}
	}
	var points []geom.Point
	var slopes []float64
	for {
		g, fields, more := d.DecodeRowFields(fieldNames...)
		if !more || d.Error() != nil {
			break
		}
		p, ok := g.(geom.Point)
		if !ok {
			return nil, nil, fmt.Errorf("polygons: reading %s: geometry type %T is not a point", path, g)
		}
		points = append(points, p)
		if slopeField != "" {
			s, err := strconv.ParseFloat(strings.TrimSpace(fields[slopeField]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("polygons: reading %s: %s: %v", path, slopeField, err)
			}
			slopes = append(slopes, s)
		}
	}
	if err := d.Error(); err != nil {
		return nil, nil, fmt.Errorf("polygons: reading %s: %v", path, err)
	}
	return points, slopes, nil
}

// Results holds query results for a set of points, one column per
// quantity.
type Results struct {
	Points  []geom.Point
	Names   []string
	Columns [][]float64
}

// NewResults returns an empty set of results for points.
func NewResults(points []geom.Point) *Results {
	return &Results{Points: points}
}

// Add adds a column of results. values must have one element per point.
func (r *Results) Add(name string, values []float64) error {
	if len(values) != len(r.Points) {
		return fmt.Errorf("polygons: column %s has %d values for %d points: %w",
			name, len(values), len(r.Points), ErrLengthMismatch)
	}
	r.Names = append(r.Names, name)
	r.Columns = append(r.Columns, values)
	return nil
}

// AddInts adds a column of integer results.
func (r *Results) AddInts(name string, values []int) error {
	f := make([]float64, len(values))
	for i, v := range values {
		f[i] = float64(v)
	}
	return r.Add(name, f)
}

// AddBools adds a column of true/false results, stored as 1 and 0.
func (r *Results) AddBools(name string, values []bool) error {
	f := make([]float64, len(values))
	for i, v := range values {
		if v {
			f[i] = 1
		}
	}
	return r.Add(name, f)
}

// WriteResults writes r to a CSV file or a point shapefile, depending on
// the extension of path.
func WriteResults(path string, r *Results) error {
	path = os.ExpandEnv(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("polygons: creating output file: %v", err)
		}
		if err := r.writeCSV(f); err != nil {
			f.Close()
			return fmt.Errorf("polygons: writing %s: %v", path, err)
		}
		return f.Close()
	case ".shp":
		return r.writeShp(path)
	default:
		return fmt.Errorf("polygons: unsupported output file type %q; valid types are .csv and .shp", path)
	}
}

func (r *Results) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"x", "y"}, r.Names...)); err != nil {
		return err
	}
	rec := make([]string, len(r.Names)+2)
	for i, p := range r.Points {
		rec[0] = strconv.FormatFloat(p.X, 'g', -1, 64)
		rec[1] = strconv.FormatFloat(p.Y, 'g', -1, 64)
		for j, c := range r.Columns {
			rec[j+2] = strconv.FormatFloat(c[i], 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r *Results) writeShp(path string) error {
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(strings.TrimSuffix(path, filepath.Ext(path)) + ext)
	}
	fields := make([]goshp.Field, len(r.Names))
	for i, n := range r.Names {
		fields[i] = goshp.FloatField(n, 24, 10)
	}
	e, err := shp.NewEncoderFromFields(path, goshp.POINT, fields...)
	if err != nil {
		return fmt.Errorf("polygons: creating output shapefile: %v", err)
	}
	defer e.Close()
	vals := make([]interface{}, len(r.Names))
	for i, p := range r.Points {
		for j, c := range r.Columns {
			vals[j] = c[i]
		}
		if err := e.EncodeFields(p, vals...); err != nil {
			return fmt.Errorf("polygons: writing %s: %v", path, err)
		}
	}
	return nil
}

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
	"encoding/csv"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/kr/pretty"
	"github.com/lnashier/viper"
)

// testFiles writes a polygon file and a point file to a new temporary
// directory.
func testFiles(t *testing.T) (dir, polygonFile, pointFile string) {
	dir, err := ioutil.TempDir("", "polygonsutil")
	if err != nil {
		t.Fatal(err)
	}
	polygonFile = filepath.Join(dir, "square.geojson")
	if err := ioutil.WriteFile(polygonFile, []byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1]]]}`), 0644); err != nil {
		t.Fatal(err)
	}
	pointFile = filepath.Join(dir, "points.csv")
	if err := ioutil.WriteFile(pointFile, []byte("x,y,slope\n0.5,0.5,1\n2,2,0\n2,0.5,3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, polygonFile, pointFile
}

// readResults returns the columns of a results file, keyed by name.
func readResults(t *testing.T, path string) map[string][]string {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	o := make(map[string][]string)
	for _, rec := range recs[1:] {
		for i, v := range rec {
			o[recs[0][i]] = append(o[recs[0][i]], v)
		}
	}
	return o
}

func checkFloats(t *testing.T, name string, have []string, want []float64) {
	if len(have) != len(want) {
		t.Fatalf("%s: want %d values but have %d", name, len(want), len(have))
	}
	for i, s := range have {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("%s %d: want %g but have %g", name, i, want[i], v)
		}
	}
}

func TestVersion(t *testing.T) {
	b := bytes.NewBuffer(nil)
	Root.SetOutput(b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "polygons v") {
		t.Errorf("have %q", b.String())
	}
}

func TestContains(t *testing.T) {
	dir, polygonFile, pointFile := testFiles(t)
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "inside.csv")

	Cfg.Set("Polygons", []string{polygonFile})
	Cfg.Set("Points", pointFile)
	Cfg.Set("OutputFile", out)
	Root.SetArgs([]string{"contains"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	have := readResults(t, out)["inside"]
	if diff := pretty.Diff(have, []string{"1", "0", "0"}); len(diff) != 0 {
		t.Error(diff)
	}
}

func TestDistanceEdge(t *testing.T) {
	dir, polygonFile, pointFile := testFiles(t)
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "edge.csv")

	Cfg.Set("Polygons", []string{polygonFile})
	Cfg.Set("Points", pointFile)
	Cfg.Set("OutputFile", out)
	Root.SetArgs([]string{"distance", "edge"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	r := readResults(t, out)
	checkFloats(t, "edge_dist", r["edge_dist"], []float64{0.5, math.Sqrt2, 1})
	checkFloats(t, "x", r["x"], []float64{0.5, 2, 2})
}

func TestDistanceWeighted(t *testing.T) {
	dir, polygonFile, pointFile := testFiles(t)
	defer os.RemoveAll(dir)

	for _, test := range []struct {
		slopeField string
		want       []float64
	}{
		{slopeField: "", want: []float64{2 * math.Sqrt(0.5), 2 * math.Sqrt2, 2 * math.Sqrt(1.25)}},
		{slopeField: "slope", want: []float64{math.Sqrt(0.5), 0, 3 * math.Sqrt(1.25)}},
	} {
		out := filepath.Join(dir, "weighted.csv")
		Cfg.Set("Polygons", []string{polygonFile})
		Cfg.Set("Points", pointFile)
		Cfg.Set("OutputFile", out)
		Cfg.Set("SlopeField", test.slopeField)
		Cfg.Set("Slope", 2.0)
		Root.SetArgs([]string{"distance", "weighted"})
		if err := Root.Execute(); err != nil {
			t.Fatal(err)
		}
		checkFloats(t, "weighted "+test.slopeField, readResults(t, out)["weighted"], test.want)
	}
}

// A configuration file sets the same options as the command line.
func TestConfigFile(t *testing.T) {
	dir, polygonFile, pointFile := testFiles(t)
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "vertex.csv")

	config := struct {
		Polygons        []string
		Points          string
		OutputFile      string
		EdgesPerLeaf    int
		ChildrenPerNode int
		Parallelism     int
	}{
		Polygons:        []string{polygonFile},
		Points:          pointFile,
		OutputFile:      out,
		EdgesPerLeaf:    2,
		ChildrenPerNode: 3,
		Parallelism:     2,
	}
	configFile := filepath.Join(dir, "config.toml")
	f, err := os.Create(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := toml.NewEncoder(f).Encode(config); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := viper.New()
	cfg.SetConfigFile(configFile)
	if err := cfg.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	c, err := LoadContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	s, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.EdgesPerLeaf != 2 || s.ChildrenPerNode != 3 || s.Polygons != 1 || s.Vertices != 5 {
		t.Errorf("stats: %+v", s)
	}

	outputFile, err := checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		t.Fatal(err)
	}
	if err := Distance(c, VertexDistance, cfg.GetString("Points"), "", 0, outputFile); err != nil {
		t.Fatal(err)
	}
	r := readResults(t, out)
	checkFloats(t, "vert_dist", r["vert_dist"], []float64{math.Sqrt(0.5), math.Sqrt2, math.Sqrt(1.25)})
	want := map[string][]string{"vertex": {"0", "2", "1"}, "polygon": {"0", "0", "0"}}
	have := map[string][]string{"vertex": r["vertex"], "polygon": r["polygon"]}
	if diff := pretty.Diff(have, want); len(diff) != 0 {
		t.Error(diff)
	}
}

func TestLoadContextErrors(t *testing.T) {
	dir, polygonFile, _ := testFiles(t)
	defer os.RemoveAll(dir)

	cfg := viper.New()
	if _, err := LoadContext(cfg); err == nil {
		t.Error("no polygon files: want an error")
	}
	cfg.Set("Polygons", []string{polygonFile})
	cfg.Set("EdgesPerLeaf", 4)
	cfg.Set("ChildrenPerNode", 4)
	cfg.Set("Containment", "nonzero")
	if _, err := LoadContext(cfg); err == nil {
		t.Error("invalid containment: want an error")
	}
	cfg.Set("Containment", "union")
	cfg.Set("Polygons", []string{filepath.Join(dir, "missing.shp")})
	if _, err := LoadContext(cfg); err == nil {
		t.Error("missing file: want an error")
	}
}

func TestCheckOutputFile(t *testing.T) {
	for _, f := range []string{"", "results.txt", filepath.Join("missing", "dir", "results.csv")} {
		if _, err := checkOutputFile(f); err == nil {
			t.Errorf("%q: want an error", f)
		}
	}
	os.Setenv("POLYGONS_TEST_DIR", os.TempDir())
	defer os.Unsetenv("POLYGONS_TEST_DIR")
	f, err := checkOutputFile("${POLYGONS_TEST_DIR}/results.shp")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(os.TempDir(), "results.shp"); filepath.Clean(f) != want {
		t.Errorf("want %s but have %s", want, f)
	}
}

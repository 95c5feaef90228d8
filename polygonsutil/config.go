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
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/polygons"
	"github.com/spf13/cast"
)

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="results.csv")`)
	}
	f = os.ExpandEnv(f)
	switch filepath.Ext(f) {
	case ".csv", ".shp":
	default:
		return f, fmt.Errorf("polygons: OutputFile must end in .csv or .shp but is `%s`", f)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("polygons: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// polygonFiles returns the polygon file paths in cfg.
func polygonFiles(cfg *viper.Viper) ([]string, error) {
	files, err := cast.ToStringSliceE(cfg.Get("Polygons"))
	if err != nil {
		return nil, fmt.Errorf("polygons: reading 'Polygons': %v", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("polygons: you need to specify at least one polygon file in the Polygons configuration variable")
	}
	return expandStringSlice(files), nil
}

// contextOptions returns the search tree options specified in cfg.
func contextOptions(cfg *viper.Viper) ([]polygons.Option, error) {
	rule, err := polygons.ParseContainmentRule(cfg.GetString("Containment"))
	if err != nil {
		return nil, err
	}
	return []polygons.Option{
		polygons.WithFanOut(cfg.GetInt("EdgesPerLeaf"), cfg.GetInt("ChildrenPerNode")),
		polygons.WithContainmentRule(rule),
		polygons.WithParallelism(cfg.GetInt("Parallelism")),
		polygons.WithLogger(logrus.StandardLogger()),
	}, nil
}

// LoadContext reads the polygon files specified in cfg and returns a
// Context holding all of their polygons.
func LoadContext(cfg *viper.Viper) (*polygons.Context, error) {
	files, err := polygonFiles(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := contextOptions(cfg)
	if err != nil {
		return nil, err
	}
	weightField := cfg.GetString("WeightField")
	var all []*polygons.Polygon
	for _, f := range files {
		p, err := polygons.ReadPolygons(f, weightField)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{"file": f, "polygons": len(p)}).Info("polygons: read polygon file")
		all = append(all, p...)
	}
	c := polygons.NewContext(opts...)
	if err := c.AddPolygons(all...); err != nil {
		return nil, err
	}
	return c, nil
}

// benchConfig returns the benchmark settings in cfg.
func benchConfig(cfg *viper.Viper) (*BenchConfig, error) {
	files, err := polygonFiles(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := contextOptions(cfg)
	if err != nil {
		return nil, err
	}
	return &BenchConfig{
		PolygonFile: files[0],
		Copies:      cfg.GetInt("Bench.Copies"),
		Offset:      cfg.GetFloat64("Bench.Offset"),
		NumPoints:   cfg.GetInt("Bench.NumPoints"),
		Repeats:     cfg.GetInt("Bench.Repeats"),
		Seed:        cfg.GetInt64("Bench.Seed"),
		Options:     opts,
	}, nil
}

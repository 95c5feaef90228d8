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
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/polygons"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// queryFlags are the flag sets of all commands that load polygons.
	queryFlags := []*pflag.FlagSet{containsCmd.Flags(), distanceCmd.PersistentFlags(), benchCmd.Flags()}

	// Options are the configuration options available to the polygons tool.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the level of detail of log messages. Valid
              options are debug, info, warning, and error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Polygons",
			usage: `
              Polygons is a list of shapefiles (.shp) or GeoJSON files
              (.json or .geojson) holding the polygons to be searched. Each
              ring and line string in the files becomes a separate polygon.
              Paths can include environment variables.`,
			shorthand:  "p",
			defaultVal: []string{},
			flagsets:   queryFlags,
		},
		{
			name: "WeightField",
			usage: `
              WeightField is the name of the shapefile attribute holding the
              vertex weights used by 'distance weighted'. If it is empty,
              all vertices are unweighted.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{containsCmd.Flags(), distanceCmd.PersistentFlags()},
		},
		{
			name: "Points",
			usage: `
              Points is the file holding the query points: either a
              CSV file with 'x' and 'y' columns or a point shapefile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{containsCmd.Flags(), distanceCmd.PersistentFlags()},
		},
		{
			name: "SlopeField",
			usage: `
              SlopeField is the column of the Points file holding the slope
              of each point for 'distance weighted'. If it is empty, Slope
              is used for all points.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{distanceWeightedCmd.Flags()},
		},
		{
			name: "Slope",
			usage: `
              Slope is the rate at which the weighted distance grows with
              distance from a vertex, for points without their own slope.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{distanceWeightedCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the results should be written,
              either a .csv file or a .shp point shapefile.`,
			shorthand:  "o",
			defaultVal: "results.csv",
			flagsets:   []*pflag.FlagSet{containsCmd.Flags(), distanceCmd.PersistentFlags()},
		},
		{
			name: "EdgesPerLeaf",
			usage: `
              EdgesPerLeaf is the largest number of polygon edges held by a
              leaf of the search tree.`,
			defaultVal: polygons.DefaultBuildOptions.EdgesPerLeaf,
			flagsets:   queryFlags,
		},
		{
			name: "ChildrenPerNode",
			usage: `
              ChildrenPerNode is the largest number of children of an
              internal node of the search tree.`,
			defaultVal: polygons.DefaultBuildOptions.ChildrenPerNode,
			flagsets:   queryFlags,
		},
		{
			name: "Containment",
			usage: `
              Containment specifies how overlapping polygons are combined by
              'contains'. 'evenodd' counts the boundary crossings of all
              polygons together, so polygons inside other polygons are
              holes. 'union' reports points inside any polygon.`,
			defaultVal: "evenodd",
			flagsets:   []*pflag.FlagSet{containsCmd.Flags(), benchCmd.Flags()},
		},
		{
			name: "Parallelism",
			usage: `
              Parallelism is the number of goroutines used to answer queries.
              Values of zero or less use all available processors.`,
			defaultVal: 0,
			flagsets:   queryFlags,
		},
		{
			name: "Bench.Copies",
			usage: `
              Bench.Copies is the number of copies of the first polygon to
              search in the benchmark.`,
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "Bench.Offset",
			usage: `
              Bench.Offset is the distance in the x direction between
              consecutive copies of the benchmark polygon.`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "Bench.NumPoints",
			usage: `
              Bench.NumPoints is the number of random query points used in
              the benchmark.`,
			defaultVal: 100000,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "Bench.Repeats",
			usage: `
              Bench.Repeats is the number of times each benchmark query is
              timed.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "Bench.Seed",
			usage: `
              Bench.Seed is the random number seed used to generate the
              benchmark query points.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("POLYGONS")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
			case int:
				set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(containsCmd)
	Root.AddCommand(distanceCmd)
	distanceCmd.AddCommand(distanceEdgeCmd)
	distanceCmd.AddCommand(distanceVertexCmd)
	distanceCmd.AddCommand(distanceWeightedCmd)
	Root.AddCommand(benchCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("polygons: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("polygons: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "polygons",
	Short: "Fast distance and containment queries against polygons.",
	Long: `polygons answers nearest edge, nearest vertex, weighted vertex distance,
and point-in-polygon queries for large numbers of points against a set of
polygons, using a bounding volume hierarchy over the polygon edges.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'POLYGONS_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of polygons.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("polygons v%s\n", polygons.Version)
	},
	DisableAutoGenTag: true,
}

var containsCmd = &cobra.Command{
	Use:   "contains",
	Short: "Find which points are inside the polygons.",
	Long: `contains determines whether each of the points in the Points file is
inside the polygons in the Polygons files and writes the result to OutputFile
as a column named 'inside', with 1 for points that are inside and 0 for points
that are not.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadContext(Cfg)
		if err != nil {
			return err
		}
		defer c.Close()
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Contains(c, os.ExpandEnv(Cfg.GetString("Points")), outputFile)
	},
	DisableAutoGenTag: true,
}

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Calculate distances to the polygons.",
	Long: `distance calculates the distance from each of the points in the Points file
to the polygons in the Polygons files. Use the subcommands specified below to
choose the kind of distance.`,
	DisableAutoGenTag: true,
}

var distanceEdgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Distance to the nearest polygon edge.",
	Long: `edge calculates the distance from each point to the nearest polygon edge
and writes it to OutputFile as a column named 'edge_dist'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDistance(EdgeDistance)
	},
	DisableAutoGenTag: true,
}

var distanceVertexCmd = &cobra.Command{
	Use:   "vertex",
	Short: "Distance to the nearest polygon vertex.",
	Long: `vertex calculates the distance from each point to the nearest polygon vertex
and writes it to OutputFile as a column named 'vert_dist', along with the index
of the vertex in a column named 'vertex' and the index of the polygon it
belongs to in a column named 'polygon'. Vertices and polygons are numbered
from zero in the order they are read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDistance(VertexDistance)
	},
	DisableAutoGenTag: true,
}

var distanceWeightedCmd = &cobra.Command{
	Use:   "weighted",
	Short: "Weighted distance to the nearest polygon vertex.",
	Long: `weighted calculates, for each point, the minimum over all polygon vertices of
slope * distance + weight and writes it to OutputFile as a column named
'weighted'. Vertex weights are read from the WeightField attribute of the
polygon shapefiles. The slope of each point is read from the SlopeField column
of the Points file or, if SlopeField is empty, set to Slope.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDistance(WeightedDistance)
	},
	DisableAutoGenTag: true,
}

func runDistance(kind DistanceKind) error {
	c, err := LoadContext(Cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
	if err != nil {
		return err
	}
	return Distance(c, kind, os.ExpandEnv(Cfg.GetString("Points")),
		Cfg.GetString("SlopeField"), Cfg.GetFloat64("Slope"), outputFile)
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time the search tree.",
	Long: `bench builds a search tree over Bench.Copies copies of the first polygon in
the Polygons files, each shifted by Bench.Offset in the x direction, and times
the tree construction and each kind of query for Bench.NumPoints random points
spread over the extent of the copies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := benchConfig(Cfg)
		if err != nil {
			return err
		}
		r, err := Bench(cfg)
		if err != nil {
			return err
		}
		cmd.Print(r)
		return nil
	},
	DisableAutoGenTag: true,
}

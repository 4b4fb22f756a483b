package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/godeepar/geocore/config"
	"github.com/godeepar/geocore/convert"
	"github.com/godeepar/geocore/locate"
	"github.com/godeepar/geocore/x"
)

// newRootCmd builds the command tree. Settings resolve from the --config
// file, then GEOCORE_* variables, then flags.
func newRootCmd() *cobra.Command {
	conf := config.NewViper()
	root := &cobra.Command{
		Use:   "geocore",
		Short: "geocore: spatial queries, labels and geodesic distances",
		Long: `
geocore loads a GeoJSON or shapefile dataset into a quadtree and answers
bounding box queries, point location and label placement over it. It also
computes geodesic distances on reference ellipsoids and can serve all of
this over HTTP.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "",
		"YAML configuration file. Overridden by GEOCORE_* environment variables and flags.")
	flags.String(config.KeyData, "", "Dataset to load: .geojson, .json or .shp.")
	flags.String(config.KeyFormat, "", "Dataset format. Guessed from the extension when empty.")
	flags.String(config.KeyEllipsoid, config.DefaultEllipsoid, "Reference ellipsoid for distances.")
	flags.String(config.KeyBoundaryRule, locate.Mod2.String(),
		"Boundary node rule: mod2, endpoint, multivalent-endpoint or monovalent-endpoint.")
	flags.Float64(config.KeySnapScale, config.DefaultSnapScale,
		"Grid scale factor for snap rounding; the grid size is its inverse.")
	x.Check(conf.BindPFlags(flags))

	root.AddCommand(
		queryCmd(conf),
		locateCmd(conf),
		labelCmd(conf),
		distanceCmd(conf),
		snapCmd(conf),
		serveCmd(conf),
		ellipsoidsCmd(conf),
	)
	return root
}

func loadConfig(conf *viper.Viper) (config.Config, error) {
	cfg := config.Default()
	if path := conf.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	cfg.Overlay(conf)
	return cfg, cfg.Validate()
}

func loadDataset(cfg config.Config) (*convert.Dataset, error) {
	if cfg.Dataset.Path == "" {
		return nil, x.InvalidArgf("no dataset: pass --data or set dataset.path")
	}
	return convert.Open(cfg.Dataset.Path, cfg.Dataset.Format)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

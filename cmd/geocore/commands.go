package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/geo/s1"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/godeepar/geocore/config"
	"github.com/godeepar/geocore/convert"
	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/server"
	"github.com/godeepar/geocore/x"
)

type label struct {
	ID    string              `json:"id"`
	Kind  string              `json:"geometry"`
	Label geometry.Coordinate `json:"label"`
}

type distance struct {
	Ellipsoid   string  `json:"ellipsoid"`
	Metres      float64 `json:"metres"`
	Azimuth     float64 `json:"azimuth"`
	BackAzimuth float64 `json:"back_azimuth"`
}

type ellipsoid struct {
	Name              string  `json:"name"`
	Authority         string  `json:"authority,omitempty"`
	SemiMajorAxis     float64 `json:"semi_major_axis"`
	InverseFlattening float64 `json:"inverse_flattening,omitempty"`
	Deprecated        bool    `json:"deprecated,omitempty"`
}

func pair(name string, vals []float64) (float64, float64, error) {
	if len(vals) != 2 {
		return 0, 0, x.InvalidArgf("--%s wants two numbers, got %v", name, vals)
	}
	return vals[0], vals[1], nil
}

func queryCmd(conf *viper.Viper) *cobra.Command {
	var bbox []float64
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List the features whose envelope meets --bbox, or all of them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(conf)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cfg)
			if err != nil {
				return err
			}
			env := ds.Extent
			if len(bbox) > 0 {
				if len(bbox) != 4 {
					return x.InvalidArgf("--bbox wants minx,miny,maxx,maxy, got %v", bbox)
				}
				env = geometry.NewEnvelope(bbox[0], bbox[1], bbox[2], bbox[3])
			}
			features := ds.QuerySorted(env)
			if features == nil {
				features = []*convert.Feature{}
			}
			return printJSON(cmd.OutOrStdout(), features)
		},
	}
	cmd.Flags().Float64SliceVar(&bbox, "bbox", nil, "Query envelope as minx,miny,maxx,maxy.")
	return cmd
}

func locateCmd(conf *viper.Viper) *cobra.Command {
	var at []float64
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the features a point lies in or on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			px, py, err := pair("at", at)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(conf)
			if err != nil {
				return err
			}
			rule, err := cfg.Rule()
			if err != nil {
				return err
			}
			ds, err := loadDataset(cfg)
			if err != nil {
				return err
			}
			matches := ds.Locate(geometry.XY(px, py), rule)
			if matches == nil {
				matches = []convert.Match{}
			}
			return printJSON(cmd.OutOrStdout(), matches)
		},
	}
	cmd.Flags().Float64SliceVar(&at, "at", nil, "Point as x,y.")
	return cmd
}

func labelCmd(conf *viper.Viper) *cobra.Command {
	var hex string
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Print a label point inside each feature, or inside a --wkb geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hex != "" {
				f, err := convert.FeatureFromWKBHex("wkb", hex)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), []label{{ID: f.ID, Kind: f.Kind, Label: f.Label}})
			}

			cfg, err := loadConfig(conf)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cfg)
			if err != nil {
				return err
			}
			out := make([]label, 0, ds.Len())
			for _, f := range ds.Features {
				out = append(out, label{ID: f.ID, Kind: f.Kind, Label: f.Label})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&hex, "wkb", "", "Hex encoded WKB geometry to label instead of a dataset.")
	return cmd
}

func distanceCmd(conf *viper.Viper) *cobra.Command {
	var from, to, heights []float64
	cmd := &cobra.Command{
		Use:   "distance",
		Short: "Geodesic distance and azimuths between two lon,lat points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lon1, lat1, err := pair("from", from)
			if err != nil {
				return err
			}
			lon2, lat2, err := pair("to", to)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(conf)
			if err != nil {
				return err
			}
			el, err := cfg.ResolveEllipsoid()
			if err != nil {
				return err
			}

			var metres float64
			if len(heights) > 0 {
				h1, h2, err := pair("heights", heights)
				if err != nil {
					return err
				}
				metres, err = el.DistanceMetres3D(lon1, lat1, h1, lon2, lat2, h2)
				if err != nil {
					return err
				}
			} else if metres, err = el.DistanceMetres(lon1, lat1, lon2, lat2); err != nil {
				return err
			}
			az, err := el.AzimuthForwards(lon1, lat1, lon2, lat2)
			if err != nil {
				return err
			}
			back, err := el.AzimuthForwards(lon2, lat2, lon1, lat1)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), distance{
				Ellipsoid:   el.Name(),
				Metres:      metres,
				Azimuth:     s1.Angle(az).Degrees(),
				BackAzimuth: s1.Angle(back).Degrees(),
			})
		},
	}
	cmd.Flags().Float64SliceVar(&from, "from", nil, "Start point as lon,lat in degrees.")
	cmd.Flags().Float64SliceVar(&to, "to", nil, "End point as lon,lat in degrees.")
	cmd.Flags().Float64SliceVar(&heights, "heights", nil,
		"Ellipsoidal heights of both points in metres, for a 3D distance.")
	return cmd
}

func snapCmd(conf *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "snap",
		Short: "Snap round every line and ring to hot pixels at the dataset's vertices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(conf)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cfg)
			if err != nil {
				return err
			}
			lines, err := ds.SnapLines(cfg.SnapScale)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), lines)
		},
	}
}

func ellipsoidsCmd(conf *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "ellipsoids",
		Short: "List the known reference ellipsoids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(conf)
			if err != nil {
				return err
			}
			cat, err := cfg.Catalog()
			if err != nil {
				return err
			}
			var out []ellipsoid
			for _, name := range cat.Names() {
				el, _ := cat.Lookup(name)
				e := ellipsoid{
					Name:          el.Name(),
					Authority:     el.Authority(),
					SemiMajorAxis: el.SemiMajorAxis(),
					Deprecated:    el.Deprecated(),
				}
				// spheres have an infinite inverse flattening
				if el.Flattening() != 0 {
					e.InverseFlattening = el.InverseFlattening()
				}
				out = append(out, e)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func serveCmd(conf *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(conf)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cfg)
			if err != nil {
				return err
			}
			s, err := server.New(ds, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := s.Shutdown(shutdown); err != nil {
					glog.Errorf("HTTP server shutdown error: %v", err)
				}
			}()
			return s.ListenAndServe()
		},
	}
	cmd.Flags().String(config.KeyListen, config.DefaultListen, "Address to listen on.")
	x.Check(conf.BindPFlag(config.KeyListen, cmd.Flags().Lookup(config.KeyListen)))
	return cmd
}

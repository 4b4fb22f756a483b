package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/godeepar/geocore/locate"
	"github.com/godeepar/geocore/x"
)

const marsConfig = `
ellipsoid: mars 2000
boundary_rule: Endpoint
listen: ":9000"
ellipsoids:
  - name: Mars 2000
    authority: IAU:49900
    semi_major_axis: 3396190
    inverse_flattening: 169.8944472
dataset:
  path: craters.shp
`

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	el, err := cfg.ResolveEllipsoid()
	require.NoError(t, err)
	require.Equal(t, "WGS 84", el.Name())

	rule, err := cfg.Rule()
	require.NoError(t, err)
	require.Equal(t, locate.Mod2, rule)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(marsConfig))
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Listen)
	require.Equal(t, DefaultSnapScale, cfg.SnapScale)
	require.Equal(t, "craters.shp", cfg.Dataset.Path)

	el, err := cfg.ResolveEllipsoid()
	require.NoError(t, err)
	require.Equal(t, "Mars 2000", el.Name())
	require.Equal(t, 3396190.0, el.SemiMajorAxis())

	rule, err := cfg.Rule()
	require.NoError(t, err)
	require.Equal(t, locate.Endpoint, rule)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	_, ok := cat.Lookup("iau:49900")
	require.True(t, ok)
	_, ok = cat.Lookup("WGS 84")
	require.True(t, ok)
}

func TestParseErrors(t *testing.T) {
	invalid := []string{
		"boundary_rule: sometimes\n",
		"snap_scale: -1\n",
		"snap_scale: 0\n",
		"ellipsoid: Mars 2000\n",
		"ellipsoids:\n  - name: flat\n    semi_major_axis: 0\n    inverse_flattening: 300\n",
		"dataset:\n  path: parks.csv\n",
	}
	for _, doc := range invalid {
		_, err := Parse([]byte(doc))
		require.True(t, errors.Is(err, x.ErrInvalidArgument), "%q: %v", doc, err)
	}

	_, err := Parse([]byte("listn: \":80\"\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(marsConfig), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "mars 2000", cfg.Ellipsoid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestOverlay(t *testing.T) {
	t.Setenv("GEOCORE_SNAP_SCALE", "100")
	t.Setenv("GEOCORE_BOUNDARY_RULE", "monovalent-endpoint")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyListen, DefaultListen, "")
	flags.String(KeyEllipsoid, DefaultEllipsoid, "")
	require.NoError(t, flags.Parse([]string{"--listen", "localhost:7000"}))

	v := NewViper()
	require.NoError(t, v.BindPFlags(flags))

	cfg := Default()
	cfg.Ellipsoid = "GRS 1980"
	cfg.Overlay(v)

	require.Equal(t, "localhost:7000", cfg.Listen)
	require.Equal(t, 100.0, cfg.SnapScale)
	require.Equal(t, "monovalent-endpoint", cfg.BoundaryRule)
	require.Equal(t, "GRS 1980", cfg.Ellipsoid, "unchanged flag default must not override")
	require.NoError(t, cfg.Validate())
}

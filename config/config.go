// Package config holds the settings shared by the geocore command and its
// HTTP server. Settings come from a YAML file and can be overridden from
// GEOCORE_* environment variables and command line flags.
package config

import (
	"io/ioutil"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v2"

	"github.com/godeepar/geocore/convert"
	"github.com/godeepar/geocore/geodesy"
	"github.com/godeepar/geocore/locate"
	"github.com/godeepar/geocore/x"
)

// Keys shared by flags, environment variables and Overlay.
const (
	KeyEllipsoid    = "ellipsoid"
	KeyBoundaryRule = "boundary-rule"
	KeySnapScale    = "snap-scale"
	KeyListen       = "listen"
	KeyData         = "data"
	KeyFormat       = "format"
)

const (
	DefaultEllipsoid = "WGS 84"
	DefaultListen    = ":8000"
	DefaultSnapScale = 1e6
	EnvPrefix        = "GEOCORE"
)

type Dataset struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"`
}

type Config struct {
	Ellipsoid    string               `yaml:"ellipsoid"`
	BoundaryRule string               `yaml:"boundary_rule"`
	SnapScale    float64              `yaml:"snap_scale"`
	Listen       string               `yaml:"listen"`
	Ellipsoids   []geodesy.Definition `yaml:"ellipsoids,omitempty"`
	Dataset      Dataset              `yaml:"dataset"`
}

func Default() Config {
	return Config{
		Ellipsoid:    DefaultEllipsoid,
		BoundaryRule: locate.Mod2.String(),
		SnapScale:    DefaultSnapScale,
		Listen:       DefaultListen,
	}
}

// Parse reads YAML on top of the defaults and validates the result. Unknown
// keys are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config")
	}
	return cfg, cfg.Validate()
}

func Load(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Default(), errors.Wrapf(err, "reading config %s", path)
	}
	return Parse(data)
}

// Validate checks that every setting resolves to something usable.
func (c Config) Validate() error {
	if _, err := c.Rule(); err != nil {
		return err
	}
	if _, err := c.ResolveEllipsoid(); err != nil {
		return err
	}
	if !(c.SnapScale > 0) || math.IsInf(c.SnapScale, 0) {
		return x.InvalidArgf("snap_scale must be positive and finite, got %v", c.SnapScale)
	}
	if c.Dataset.Path != "" {
		if _, err := convert.ResolveFormat(c.Dataset.Path, c.Dataset.Format); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) Rule() (locate.BoundaryNodeRule, error) {
	return locate.ParseBoundaryNodeRule(c.BoundaryRule)
}

// Catalog is the built-in ellipsoid catalog plus the configured extras.
func (c Config) Catalog() (*geodesy.Catalog, error) {
	if len(c.Ellipsoids) == 0 {
		return geodesy.Default(), nil
	}
	cat := geodesy.Default().Clone()
	if err := cat.AddDefinitions(c.Ellipsoids); err != nil {
		return nil, errors.Wrap(err, "config ellipsoids")
	}
	return cat, nil
}

func (c Config) ResolveEllipsoid() (*geodesy.Ellipsoid, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	name := c.Ellipsoid
	if name == "" {
		name = DefaultEllipsoid
	}
	el, ok := cat.Lookup(name)
	if !ok {
		return nil, x.InvalidArgf("unknown ellipsoid %q", name)
	}
	return el, nil
}

// NewViper returns a viper instance reading GEOCORE_* variables, with
// dashes in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Overlay copies every key that v has a value for over c. Flag defaults do
// not count as values.
func (c *Config) Overlay(v *viper.Viper) {
	if v.IsSet(KeyEllipsoid) {
		c.Ellipsoid = v.GetString(KeyEllipsoid)
	}
	if v.IsSet(KeyBoundaryRule) {
		c.BoundaryRule = v.GetString(KeyBoundaryRule)
	}
	if v.IsSet(KeySnapScale) {
		c.SnapScale = v.GetFloat64(KeySnapScale)
	}
	if v.IsSet(KeyListen) {
		c.Listen = v.GetString(KeyListen)
	}
	if v.IsSet(KeyData) {
		c.Dataset.Path = v.GetString(KeyData)
	}
	if v.IsSet(KeyFormat) {
		c.Dataset.Format = v.GetString(KeyFormat)
	}
}

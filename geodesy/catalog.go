package geodesy

import (
	"bytes"
	_ "embed"
	"io"
	"io/ioutil"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/godeepar/geocore/x"
)

//go:embed catalog.yaml
var builtin []byte

// Definition is the YAML form of an ellipsoid.
type Definition struct {
	Name              string   `yaml:"name"`
	Authority         string   `yaml:"authority,omitempty"`
	SemiMajorAxis     float64  `yaml:"semi_major_axis"`
	SemiMinorAxis     *float64 `yaml:"semi_minor_axis,omitempty"`
	InverseFlattening *float64 `yaml:"inverse_flattening,omitempty"`
	Deprecated        bool     `yaml:"deprecated,omitempty"`
}

func (d Definition) Ellipsoid() (*Ellipsoid, error) {
	b, invF := math.NaN(), math.NaN()
	if d.SemiMinorAxis != nil {
		b = *d.SemiMinorAxis
	}
	if d.InverseFlattening != nil {
		invF = *d.InverseFlattening
	}
	return NewEllipsoidAxes(d.Name, d.SemiMajorAxis, b, invF, d.Authority, d.Deprecated)
}

// Catalog is a set of named ellipsoids, safe for concurrent use. Names are
// matched ignoring case, spaces, dashes and underscores, so "WGS 84" is
// also "wgs84". An ellipsoid is also found under its authority code.
type Catalog struct {
	sync.RWMutex
	byKey map[string]*Ellipsoid
	names []string
}

func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[string]*Ellipsoid)}
}

func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

// Add registers el, replacing any ellipsoid of the same name.
func (c *Catalog) Add(el *Ellipsoid) {
	c.Lock()
	defer c.Unlock()
	key := normalize(el.Name())
	if _, ok := c.byKey[key]; !ok {
		c.names = append(c.names, el.Name())
		sort.Strings(c.names)
	}
	c.byKey[key] = el
	if el.Authority() != "" {
		c.byKey[normalize(el.Authority())] = el
	}
}

// AddDefinitions builds and registers each definition. It stops at the first
// invalid one.
func (c *Catalog) AddDefinitions(defs []Definition) error {
	for _, d := range defs {
		el, err := d.Ellipsoid()
		if err != nil {
			return err
		}
		c.Add(el)
	}
	return nil
}

// Load reads a YAML document with a top level "ellipsoids" list.
func (c *Catalog) Load(r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading ellipsoid catalog")
	}
	var doc struct {
		Ellipsoids []Definition `yaml:"ellipsoids"`
	}
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return errors.Wrap(err, "parsing ellipsoid catalog")
	}
	return c.AddDefinitions(doc.Ellipsoids)
}

func (c *Catalog) Lookup(name string) (*Ellipsoid, bool) {
	c.RLock()
	defer c.RUnlock()
	el, ok := c.byKey[normalize(name)]
	return el, ok
}

// Clone copies the catalog, so that entries can be added to the copy
// without touching c.
func (c *Catalog) Clone() *Catalog {
	c.RLock()
	defer c.RUnlock()
	out := &Catalog{
		byKey: make(map[string]*Ellipsoid, len(c.byKey)),
		names: append([]string(nil), c.names...),
	}
	for k, el := range c.byKey {
		out.byKey[k] = el
	}
	return out
}

// Names lists the registered ellipsoid names in sorted order.
func (c *Catalog) Names() []string {
	c.RLock()
	defer c.RUnlock()
	return append([]string(nil), c.names...)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default is the catalog of built-in reference ellipsoids.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = NewCatalog()
		x.Check(errors.Wrap(defaultCatalog.Load(bytes.NewReader(builtin)), "built-in ellipsoid catalog"))
	})
	return defaultCatalog
}

// Lookup finds a built-in ellipsoid.
func Lookup(name string) (*Ellipsoid, bool) {
	return Default().Lookup(name)
}

// Names lists the built-in ellipsoids.
func Names() []string {
	return Default().Names()
}

// WGS84 is the ellipsoid of GPS and web maps.
func WGS84() *Ellipsoid {
	el, _ := Lookup("WGS 84")
	return el
}

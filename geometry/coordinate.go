package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Coordinate is a 2D position with an optional elevation. Z is NaN when the
// coordinate carries no elevation.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// XY returns a coordinate without elevation.
func XY(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: math.NaN()}
}

// XYZ returns a coordinate with elevation.
func XYZ(x, y, z float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: z}
}

// HasZ reports whether the coordinate has an elevation.
func (c Coordinate) HasZ() bool {
	return !math.IsNaN(c.Z)
}

// Equals2D compares X and Y only.
func (c Coordinate) Equals2D(o Coordinate) bool {
	return c.X == o.X && c.Y == o.Y
}

// Equals3D compares all ordinates. Two missing elevations are equal.
func (c Coordinate) Equals3D(o Coordinate) bool {
	if !c.Equals2D(o) {
		return false
	}
	if math.IsNaN(c.Z) || math.IsNaN(o.Z) {
		return math.IsNaN(c.Z) && math.IsNaN(o.Z)
	}
	return c.Z == o.Z
}

// Distance is the planar distance between c and o.
func (c Coordinate) Distance(o Coordinate) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}

// IsFinite reports whether X and Y are both finite.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.X) && !math.IsInf(c.X, 0) && !math.IsNaN(c.Y) && !math.IsInf(c.Y, 0)
}

func (c Coordinate) String() string {
	if c.HasZ() {
		return fmt.Sprintf("(%v %v %v)", c.X, c.Y, c.Z)
	}
	return fmt.Sprintf("(%v %v)", c.X, c.Y)
}

type jsonCoordinate struct {
	X float64  `json:"x"`
	Y float64  `json:"y"`
	Z *float64 `json:"z,omitempty"`
}

// MarshalJSON leaves out a missing elevation, which JSON cannot hold as NaN.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	jc := jsonCoordinate{X: c.X, Y: c.Y}
	if c.HasZ() {
		jc.Z = &c.Z
	}
	return json.Marshal(jc)
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var jc jsonCoordinate
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}
	*c = XY(jc.X, jc.Y)
	if jc.Z != nil {
		c.Z = *jc.Z
	}
	return nil
}

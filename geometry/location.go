package geometry

// Location is the topological position of a point relative to a geometry.
type Location int

const (
	Interior Location = iota
	Boundary
	Exterior
)

func (l Location) String() string {
	switch l {
	case Interior:
		return "INTERIOR"
	case Boundary:
		return "BOUNDARY"
	case Exterior:
		return "EXTERIOR"
	}
	return "UNKNOWN"
}

// MarshalText lets locations serialize by name.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

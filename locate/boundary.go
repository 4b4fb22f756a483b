package locate

import (
	"strings"

	"github.com/godeepar/geocore/x"
)

// BoundaryNodeRule decides whether a point that touches the boundaries of
// count components of a multi-part geometry is on the boundary of the whole.
type BoundaryNodeRule int

const (
	// Mod2 puts a point on the boundary when it touches an odd number of
	// component boundaries. This is the OGC Simple Features rule.
	Mod2 BoundaryNodeRule = iota
	// Endpoint puts any point touching exactly one component boundary on
	// the boundary.
	Endpoint
	// MultivalentEndpoint requires two or more touches.
	MultivalentEndpoint
	// MonovalentEndpoint requires exactly one touch.
	MonovalentEndpoint
)

// OGCSFS is the name Simple Features gives Mod2.
const OGCSFS = Mod2

// IsInBoundary applies the rule to a touch count.
func (r BoundaryNodeRule) IsInBoundary(count int) bool {
	switch r {
	case Endpoint, MonovalentEndpoint:
		return count == 1
	case MultivalentEndpoint:
		return count > 1
	}
	return count%2 == 1
}

var ruleNames = map[BoundaryNodeRule]string{
	Mod2:                "mod2",
	Endpoint:            "endpoint",
	MultivalentEndpoint: "multivalent-endpoint",
	MonovalentEndpoint:  "monovalent-endpoint",
}

func (r BoundaryNodeRule) String() string {
	if s, ok := ruleNames[r]; ok {
		return s
	}
	return "unknown"
}

// ParseBoundaryNodeRule accepts the names returned by String, case
// insensitively, plus "ogc-sfs" for Mod2. The empty string selects Mod2.
func ParseBoundaryNodeRule(s string) (BoundaryNodeRule, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "ogc-sfs", "ogcsfs":
		return Mod2, nil
	}
	for r, name := range ruleNames {
		if name == s {
			return r, nil
		}
	}
	return Mod2, x.InvalidArgf("unknown boundary node rule %q", s)
}

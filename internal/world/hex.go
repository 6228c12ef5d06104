// Package world provides the hex grid, terrain, and the generation pipeline.
// Cells are addressed by (row, col) on an offset grid that wraps east-west and
// reflects across the northern and southern boundary rows.
package world

import "fmt"

// HexCoord represents a position on the hex grid.
type HexCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Side is one of the six boundaries of a hex, in clockwise order starting east.
type Side uint8

const (
	SideEast Side = iota
	SideSouthEast
	SideSouthWest
	SideWest
	SideNorthWest
	SideNorthEast
)

// Sides lists every side in clockwise order.
var Sides = [6]Side{SideEast, SideSouthEast, SideSouthWest, SideWest, SideNorthWest, SideNorthEast}

// Clockwise returns the next side turning clockwise.
func (s Side) Clockwise() Side {
	return (s + 1) % 6
}

// CounterClockwise returns the next side turning counter-clockwise.
func (s Side) CounterClockwise() Side {
	return (s + 5) % 6
}

// Opposite returns the side facing the other way.
func (s Side) Opposite() Side {
	return (s + 3) % 6
}

func (s Side) String() string {
	switch s {
	case SideEast:
		return "east"
	case SideSouthEast:
		return "south_east"
	case SideSouthWest:
		return "south_west"
	case SideWest:
		return "west"
	case SideNorthWest:
		return "north_west"
	case SideNorthEast:
		return "north_east"
	default:
		return "unknown"
	}
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a side name.
func (s *Side) UnmarshalText(text []byte) error {
	i, err := parseName("side", text, len(Sides), func(i int) string { return Side(i).String() })
	if err != nil {
		return err
	}
	*s = Side(i)
	return nil
}

// parseName finds text among the n names produced by name.
func parseName(kind string, text []byte, n int, name func(int) string) (int, error) {
	want := string(text)
	for i := 0; i < n; i++ {
		if name(i) == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, want)
}

// Feature is a bit set of terrain features on a hex.
type Feature uint8

const (
	FeatureGlacier Feature = 1 << iota
	FeatureLake
	FeatureCrater
	FeatureVolcano
	FeatureLavaFlow
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureGlacier, "glacier"},
	{FeatureLake, "lake"},
	{FeatureCrater, "crater"},
	{FeatureVolcano, "volcano"},
	{FeatureLavaFlow, "lava_flow"},
}

// Names returns the feature names present in the set.
func (f Feature) Names() []string {
	names := []string{}
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// Handle values for hexes without an owner.
const (
	NoTerritory = -1
	NoGeoform   = -1
)

// Hex represents a single tile on the world map.
type Hex struct {
	Coord HexCoord `json:"coord"`

	// Elevation is 0–255; the hex is land when Elevation >= the map's sea level.
	Elevation int `json:"elevation"`

	// Moisture only ever grows during generation.
	Moisture float64 `json:"moisture"`

	// Distance is the number of land hexes to the nearest coast (0 for water).
	Distance int `json:"distance"`

	Features Feature  `json:"features"`
	Resource *Deposit `json:"resource,omitempty"`

	// Territory holds a territory ID, Geoform an index into Map.Geoforms.
	Territory int `json:"territory"`
	Geoform   int `json:"geoform"`

	Edges [6]Edge `json:"-"`

	// Climate is only set when the advanced climate model ran.
	Climate *Climate `json:"climate,omitempty"`
}

// HasFeature reports whether f is set on the hex.
func (h *Hex) HasFeature(f Feature) bool {
	return h.Features&f != 0
}

// AddFeature sets f on the hex.
func (h *Hex) AddFeature(f Feature) {
	h.Features |= f
}

// Edge returns the edge on the given side.
func (h *Hex) Edge(s Side) Edge {
	return h.Edges[s]
}

// IsOwned reports whether a territory claimed the hex.
func (h *Hex) IsOwned() bool {
	return h.Territory != NoTerritory
}

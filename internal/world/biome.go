package world

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnclassifiableBiome means a hex fell through every biome rule. It points
// at a gap in the rule table, never at bad input.
var ErrUnclassifiableBiome = errors.New("unclassifiable biome")

// RGB is an 8-bit color.
type RGB [3]uint8

// Biome classifies a hex by climate and map type.
type Biome uint8

const (
	BiomeWater Biome = iota
	BiomeLifeless

	// Terran
	BiomeArctic
	BiomeTundra
	BiomeAlpineTundra
	BiomeDesert
	BiomeShrubland
	BiomeSavanna
	BiomeGrasslands
	BiomeBorealForest
	BiomeTemperateForest
	BiomeTemperateRainforest
	BiomeTropicalForest
	BiomeTropicalRainforest

	// Barren
	BiomeBarren
	BiomeBarrenDusty
	BiomeBarrenWet
	BiomeBarrenIceCaps

	// Volcanic
	BiomeLavaFields
	BiomeLavaFlow
	BiomeBasalticPlains
)

var biomeInfo = [...]struct {
	name      string
	title     string
	color     RGB
	fertility int
}{
	BiomeWater:               {"water", "Water", RGB{0, 20, 170}, 0},
	BiomeLifeless:            {"lifeless", "Lifeless", RGB{200, 200, 200}, 0},
	BiomeArctic:              {"arctic", "Arctic", RGB{224, 224, 224}, 1},
	BiomeTundra:              {"tundra", "Tundra", RGB{114, 153, 128}, 15},
	BiomeAlpineTundra:        {"alpine_tundra", "Alpine Tundra", RGB{97, 130, 106}, 10},
	BiomeDesert:              {"desert", "Desert", RGB{237, 217, 135}, 5},
	BiomeShrubland:           {"shrubland", "Shrubland", RGB{194, 210, 136}, 20},
	BiomeSavanna:             {"savanna", "Savanna", RGB{219, 230, 158}, 80},
	BiomeGrasslands:          {"grasslands", "Grasslands", RGB{166, 223, 106}, 150},
	BiomeBorealForest:        {"boreal_forest", "Boreal Forest", RGB{28, 94, 74}, 30},
	BiomeTemperateForest:     {"temperate_forest", "Temperate Forest", RGB{76, 192, 0}, 100},
	BiomeTemperateRainforest: {"temperate_rainforest", "Temperate Rainforest", RGB{89, 129, 89}, 100},
	BiomeTropicalForest:      {"tropical_forest", "Tropical Forest", RGB{96, 122, 34}, 70},
	BiomeTropicalRainforest:  {"tropical_rainforest", "Tropical Rainforest", RGB{0, 70, 0}, 60},
	BiomeBarren:              {"barren", "Barren Drylands", RGB{43, 44, 35}, 0},
	BiomeBarrenDusty:         {"barren_dusty", "Barren Drylands", RGB{87, 26, 27}, 0},
	BiomeBarrenWet:           {"barren_wet", "Barren Wetland", RGB{77, 36, 37}, 0},
	BiomeBarrenIceCaps:       {"barren_ice_caps", "Barren Ice Caps", RGB{242, 228, 216}, 0},
	BiomeLavaFields:          {"lava_fields", "Lava Fields", RGB{217, 0, 0}, 0},
	BiomeLavaFlow:            {"lava_flow", "Lavaflow", RGB{207, 10, 10}, 0},
	BiomeBasalticPlains:      {"basaltic_plains", "Basaltic Plains", RGB{40, 28, 25}, 0},
}

func (b Biome) String() string {
	if int(b) < len(biomeInfo) {
		return biomeInfo[b].name
	}
	return "unknown"
}

// MarshalText encodes the biome by name.
func (b Biome) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses a biome name.
func (b *Biome) UnmarshalText(text []byte) error {
	i, err := parseName("biome", text, len(biomeInfo), func(i int) string { return biomeInfo[i].name })
	if err != nil {
		return err
	}
	*b = Biome(i)
	return nil
}

// Title is the display name.
func (b Biome) Title() string { return biomeInfo[b].title }

// Color is the biome map color.
func (b Biome) Color() RGB { return biomeInfo[b].color }

// Fertility is the base agricultural value of the biome.
func (b Biome) Fertility() int { return biomeInfo[b].fertility }

// BiomeContext is everything a planet needs to classify one hex.
type BiomeContext struct {
	Temperature float64
	Moisture    float64
	Elevation   int
	SeaLevel    int
	IsLand      bool
	Lake        bool
	LavaFlow    bool
	Coldest     bool    // In the coldest tenth of the map
	Pressure    float64 // Surface pressure, bar
}

// ColorStop colors every hex below sea level + Level not caught by an earlier stop.
type ColorStop struct {
	Level int
	Color RGB
}

// Planet holds the per-map-type rules.
type Planet interface {
	ClassifyBiome(ctx BiomeContext) (Biome, error)
	ColorGradient() []ColorStop
	HeightRange() [2]int
}

// Biome classifies hex i with the map's planet rules.
func (m *Map) Biome(i int) (Biome, error) {
	h := &m.Hexes[i]
	b, err := m.Planet.ClassifyBiome(BiomeContext{
		Temperature: m.Temperature(i),
		Moisture:    h.Moisture,
		Elevation:   h.Elevation,
		SeaLevel:    m.SeaLevel,
		IsLand:      m.IsLand(i),
		Lake:        h.HasFeature(FeatureLake),
		LavaFlow:    h.HasFeature(FeatureLavaFlow),
		Coldest:     m.IsColdest(i),
		Pressure:    m.Cfg.SurfacePressure,
	})
	if err != nil {
		return 0, fmt.Errorf("hex %d,%d: %w", h.Coord.Row, h.Coord.Col, err)
	}
	return b, nil
}

// TerrainColor colors hex i by height against the planet's gradient.
func (m *Map) TerrainColor(i int) RGB {
	h := &m.Hexes[i]
	if h.HasFeature(FeatureLake) {
		return RGB{0, 0, 255}
	}
	stops := m.Planet.ColorGradient()
	if len(stops) == 0 {
		return BiomeLifeless.Color()
	}
	for _, s := range stops {
		if h.Elevation < m.SeaLevel+s.Level {
			return s.Color
		}
	}
	return stops[len(stops)-1].Color
}

// BiomeColor colors hex i by biome; glaciers and water have fixed colors.
func (m *Map) BiomeColor(i int) (RGB, error) {
	if m.Hexes[i].HasFeature(FeatureGlacier) {
		return RGB{204, 204, 204}, nil
	}
	if !m.IsLand(i) {
		return BiomeWater.Color(), nil
	}
	b, err := m.Biome(i)
	if err != nil {
		return RGB{}, err
	}
	return b.Color(), nil
}

var moistureColors = []struct {
	below float64
	color RGB
}{
	{5, RGB{199, 177, 56}},
	{10, RGB{151, 167, 104}},
	{15, RGB{128, 163, 128}},
	{20, RGB{104, 158, 151}},
	{25, RGB{80, 153, 175}},
}

// RiverColor colors hex i by moisture; water is shaded by depth.
func (m *Map) RiverColor(i int) RGB {
	h := &m.Hexes[i]
	if h.HasFeature(FeatureLake) {
		return RGB{0, 0, 255}
	}
	if !m.IsLand(i) {
		if h.Elevation < m.SeaLevel-10 {
			return RGB{0, 20, 130}
		}
		return RGB{0, 20, 170}
	}
	for _, mc := range moistureColors {
		if h.Moisture < mc.below {
			return mc.color
		}
	}
	return RGB{56, 148, 199}
}

// hsl converts hue (degrees), saturation and lightness (percent) to RGB.
func hsl(h, s, l float64) RGB {
	s /= 100
	l /= 100
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	mm := l - c/2
	to8 := func(v float64) uint8 {
		return uint8(math.Round((v + mm) * 255))
	}
	return RGB{to8(r), to8(g), to8(b)}
}

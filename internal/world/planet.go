package world

import (
	"fmt"
	"strings"
)

// MapType selects the planet rules used for biomes and colors.
type MapType uint8

const (
	MapTerran MapType = iota
	MapBarren
	MapGas
	MapVolcanic
	MapOceanic
	MapGlacial
)

var mapTypeNames = [...]string{
	MapTerran:   "terran",
	MapBarren:   "barren",
	MapGas:      "gas",
	MapVolcanic: "volcanic",
	MapOceanic:  "oceanic",
	MapGlacial:  "glacial",
}

func (t MapType) valid() bool { return int(t) < len(mapTypeNames) }

func (t MapType) String() string {
	if t.valid() {
		return mapTypeNames[t]
	}
	return "unknown"
}

// MarshalText encodes the map type by name.
func (t MapType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("map type %d: %w", t, ErrInvalidConfig)
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses a map type name.
func (t *MapType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range mapTypeNames {
		if n == name {
			*t = MapType(i)
			return nil
		}
	}
	return fmt.Errorf("map type %q: %w", text, ErrInvalidConfig)
}

// OceanType is what fills the seas.
type OceanType uint8

const (
	OceanWater OceanType = iota
	OceanMagma
	OceanHydrocarbons
)

var oceanTypeNames = [...]string{
	OceanWater:        "water",
	OceanMagma:        "magma",
	OceanHydrocarbons: "hydrocarbons",
}

func (t OceanType) valid() bool { return int(t) < len(oceanTypeNames) }

func (t OceanType) String() string {
	if t.valid() {
		return oceanTypeNames[t]
	}
	return "unknown"
}

// MarshalText encodes the ocean type by name.
func (t OceanType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("ocean type %d: %w", t, ErrInvalidConfig)
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses an ocean type name.
func (t *OceanType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range oceanTypeNames {
		if n == name {
			*t = OceanType(i)
			return nil
		}
	}
	return fmt.Errorf("ocean type %q: %w", text, ErrInvalidConfig)
}

// PlanetFor returns the rules for a map type. Unknown types get the gas
// planet rules.
func PlanetFor(t MapType) Planet {
	switch t {
	case MapTerran:
		return terranPlanet{}
	case MapBarren:
		return barrenPlanet{}
	case MapVolcanic:
		return volcanicPlanet{}
	case MapOceanic:
		return lifelessPlanet{gradient: oceanicGradient, heights: [2]int{0, 255}}
	case MapGlacial:
		return lifelessPlanet{gradient: barrenGradient, heights: [2]int{0, 100}}
	default:
		return lifelessPlanet{heights: [2]int{0, 0}}
	}
}

var terranGradient = []ColorStop{
	{-25, RGB{0, 15, 120}},
	{-15, RGB{0, 20, 130}},
	{0, RGB{0, 20, 170}},
	{20, RGB{56, 89, 22}},
	{50, RGB{75, 112, 9}},
	{75, RGB{129, 135, 42}},
	{100, RGB{196, 150, 95}},
	{110, RGB{223, 190, 144}},
	{120, RGB{233, 200, 154}},
	{135, RGB{243, 210, 164}},
	{140, RGB{253, 220, 174}},
}

var oceanicGradient = []ColorStop{
	{-220, hsl(233, 100, 10)},
	{-200, hsl(233, 100, 15)},
	{-180, hsl(233, 100, 20)},
	{-160, hsl(233, 100, 25)},
	{-140, hsl(233, 90, 30)},
	{-120, hsl(233, 90, 35)},
	{-100, hsl(233, 80, 40)},
	{-80, hsl(233, 80, 45)},
	{-60, hsl(233, 70, 50)},
	{-40, hsl(230, 70, 55)},
	{-20, hsl(228, 70, 60)},
	{0, hsl(224, 70, 65)},
}

var barrenGradient = []ColorStop{
	{-60, hsl(230, 80, 20)},
	{-45, hsl(230, 80, 25)},
	{-30, hsl(230, 80, 30)},
	{-15, hsl(230, 80, 35)},
	{0, hsl(230, 80, 40)},
	{20, hsl(35, 30, 50)},
	{50, hsl(35, 35, 53)},
	{75, hsl(35, 40, 56)},
	{100, hsl(35, 45, 60)},
	{110, hsl(35, 50, 63)},
	{120, hsl(35, 55, 66)},
	{135, hsl(35, 60, 70)},
	{140, hsl(35, 65, 73)},
	{160, hsl(35, 70, 76)},
	{180, hsl(35, 75, 80)},
	{200, hsl(35, 80, 83)},
	{220, hsl(35, 80, 86)},
}

type terranPlanet struct{}

func (terranPlanet) ColorGradient() []ColorStop { return terranGradient }
func (terranPlanet) HeightRange() [2]int        { return [2]int{0, 255} }

// ClassifyBiome applies the Whittaker-style temperature and rainfall table.
func (terranPlanet) ClassifyBiome(ctx BiomeContext) (Biome, error) {
	if !ctx.IsLand {
		return BiomeWater, nil
	}
	temp, rain := ctx.Temperature, ctx.Moisture
	switch {
	case temp <= -10:
		return BiomeArctic, nil
	case rain > 5 && temp <= 0:
		return BiomeAlpineTundra, nil
	case rain >= 0 && rain <= 5 && temp <= 0:
		return BiomeTundra, nil
	case rain > 5 && temp > 0 && temp <= 7:
		return BiomeBorealForest, nil
	case rain >= 0 && rain <= 2.5 && temp > 0 && temp <= 20:
		return BiomeGrasslands, nil
	case rain > 2.5 && rain <= 5 && temp > 0 && temp <= 20:
		return BiomeShrubland, nil
	case rain >= 0 && rain <= 5 && temp > 20:
		return BiomeDesert, nil
	case rain > 5 && rain <= 10 && temp > 7 && temp <= 20:
		return BiomeSavanna, nil
	case rain > 10 && rain <= 20 && temp > 7 && temp <= 20:
		return BiomeTemperateForest, nil
	case rain > 20 && temp > 7 && temp <= 20:
		return BiomeTemperateRainforest, nil
	case rain > 5 && rain <= 20 && temp > 20:
		return BiomeTropicalForest, nil
	case rain > 20 && temp > 20:
		return BiomeTropicalRainforest, nil
	}
	return 0, fmt.Errorf("rainfall %g, temperature %g: %w", rain, temp, ErrUnclassifiableBiome)
}

type barrenPlanet struct{}

func (barrenPlanet) ColorGradient() []ColorStop { return barrenGradient }
func (barrenPlanet) HeightRange() [2]int        { return [2]int{0, 255} }

// ClassifyBiome separates airless rock from thin-atmosphere ice, wet and dust.
func (barrenPlanet) ClassifyBiome(ctx BiomeContext) (Biome, error) {
	switch {
	case ctx.Pressure < 0.003:
		return BiomeBarren, nil
	case ctx.Coldest && ctx.Temperature < 0:
		return BiomeBarrenIceCaps, nil
	case ctx.Moisture > 5 || ctx.Lake:
		return BiomeBarrenWet, nil
	default:
		return BiomeBarrenDusty, nil
	}
}

type volcanicPlanet struct{}

func (volcanicPlanet) ColorGradient() []ColorStop { return barrenGradient }
func (volcanicPlanet) HeightRange() [2]int        { return [2]int{0, 100} }

func (volcanicPlanet) ClassifyBiome(ctx BiomeContext) (Biome, error) {
	switch {
	case ctx.Elevation < 60:
		return BiomeLavaFields, nil
	case ctx.LavaFlow:
		return BiomeLavaFlow, nil
	default:
		return BiomeBasalticPlains, nil
	}
}

// lifelessPlanet covers the map types without biome rules.
type lifelessPlanet struct {
	gradient []ColorStop
	heights  [2]int
}

func (p lifelessPlanet) ColorGradient() []ColorStop { return p.gradient }
func (p lifelessPlanet) HeightRange() [2]int        { return p.heights }

func (lifelessPlanet) ClassifyBiome(BiomeContext) (Biome, error) {
	return BiomeLifeless, nil
}

package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/entropy"
)

// ErrInvalidConfig is returned by Validate and Generate for unusable parameters.
var ErrInvalidConfig = errors.New("invalid generation config")

// GenConfig holds world generation parameters.
type GenConfig struct {
	Size       int     `yaml:"size" json:"size"`               // Grid is Size x Size hexes
	SeaPercent int     `yaml:"sea_percent" json:"sea_percent"` // 0–100; 100 floods the world
	Roughness  float64 `yaml:"roughness" json:"roughness"`     // Midpoint displacement noise scale
	// HeightRange bounds every elevation, inclusive.
	HeightRange [2]int `yaml:"height_range" json:"height_range"`

	BaseTemp        float64 `yaml:"base_temp" json:"base_temp"`               // Coldest latitude temperature floor, °C
	AvgTemp         float64 `yaml:"avg_temp" json:"avg_temp"`                 // °C
	AxialTilt       float64 `yaml:"axial_tilt" json:"axial_tilt"`             // Degrees
	SurfacePressure float64 `yaml:"surface_pressure" json:"surface_pressure"` // Bar

	Hydrosphere    bool `yaml:"hydrosphere" json:"hydrosphere"`
	NumRivers      int  `yaml:"num_rivers" json:"num_rivers"`
	NumTerritories int  `yaml:"num_territories" json:"num_territories"`
	Craters        bool `yaml:"craters" json:"craters"`
	Volcanoes      bool `yaml:"volcanoes" json:"volcanoes"`

	Seed int64 `yaml:"random_seed" json:"random_seed"` // 0 = draw one

	OceanType       OceanType `yaml:"ocean_type" json:"ocean_type"`
	MapType         MapType   `yaml:"map_type" json:"map_type"`
	AdvancedClimate bool      `yaml:"advanced_climate" json:"advanced_climate"`
}

// DefaultGenConfig returns an Earth-like configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Size:            100,
		SeaPercent:      60,
		Roughness:       8,
		HeightRange:     [2]int{0, 255},
		BaseTemp:        0,
		AvgTemp:         15,
		AxialTilt:       23,
		SurfacePressure: 1,
		Hydrosphere:     true,
		NumRivers:       50,
		NumTerritories:  0,
		OceanType:       OceanWater,
		MapType:         MapTerran,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Size = 33
	cfg.Seed = 42
	cfg.NumRivers = 10
	cfg.NumTerritories = 6
	return cfg
}

// Validate checks the parameters before any generation work starts.
func (c GenConfig) Validate() error {
	switch {
	case c.Size < 3:
		return fmt.Errorf("size %d must be at least 3: %w", c.Size, ErrInvalidConfig)
	case c.SeaPercent < 0 || c.SeaPercent > 100:
		return fmt.Errorf("sea_percent %d outside [0,100]: %w", c.SeaPercent, ErrInvalidConfig)
	case c.Roughness < 0:
		return fmt.Errorf("roughness %g is negative: %w", c.Roughness, ErrInvalidConfig)
	case c.HeightRange[0] < 0 || c.HeightRange[1] > 255 || c.HeightRange[0] > c.HeightRange[1]:
		return fmt.Errorf("height_range %v not within [0,255]: %w", c.HeightRange, ErrInvalidConfig)
	case c.AxialTilt < 0 || c.AxialTilt > 90:
		return fmt.Errorf("axial_tilt %g outside [0,90]: %w", c.AxialTilt, ErrInvalidConfig)
	case c.SurfacePressure < 0:
		return fmt.Errorf("surface_pressure %g is negative: %w", c.SurfacePressure, ErrInvalidConfig)
	case c.NumRivers < 0:
		return fmt.Errorf("num_rivers %d is negative: %w", c.NumRivers, ErrInvalidConfig)
	case c.NumTerritories < 0:
		return fmt.Errorf("num_territories %d is negative: %w", c.NumTerritories, ErrInvalidConfig)
	case !c.MapType.valid():
		return fmt.Errorf("map_type %d unknown: %w", c.MapType, ErrInvalidConfig)
	case !c.OceanType.valid():
		return fmt.Errorf("ocean_type %d unknown: %w", c.OceanType, ErrInvalidConfig)
	}
	return nil
}

// Generate runs the full pipeline and returns the finished map.
// Every stage draws from a single generator seeded from cfg.Seed, so equal
// configs produce identical maps. A zero seed is replaced and recorded in
// the map's Cfg.
func Generate(cfg GenConfig) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = entropy.Seed()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	slog.Debug("generating heightmap", "size", cfg.Size, "seed", cfg.Seed)
	hm := NewHeightmap(cfg, rng)

	m := NewMap(hm, cfg)
	slog.Debug("hex grid built", "hexes", humanize.Comma(int64(m.HexCount())), "sea_level", m.SeaLevel)

	m.computeDistances()

	if cfg.Hydrosphere {
		m.placeRivers(rng)
		m.addCoastalMoisture(rng)
	}
	m.placeAquifers(rng)

	if cfg.Craters {
		m.placeCraters(rng)
	}
	if cfg.Volcanoes {
		m.placeVolcanoes(rng)
	}
	if cfg.Craters || cfg.Volcanoes {
		// Elevations moved; slopes and the cold set follow them.
		m.computeEdges()
		m.computeColdest()
	}

	m.generateTerritories(rng)
	m.placeResources(rng)
	m.classifyGeoforms()

	if cfg.AdvancedClimate {
		m.simulateClimate()
	}

	for i := range m.Hexes {
		if _, err := m.Biome(i); err != nil {
			return nil, fmt.Errorf("classify biomes: %w", err)
		}
	}

	slog.Info("world generated",
		"seed", cfg.Seed,
		"hexes", humanize.Comma(int64(m.HexCount())),
		"rivers", len(m.Rivers),
		"territories", len(m.Territories),
		"geoforms", len(m.Geoforms),
	)
	return m, nil
}

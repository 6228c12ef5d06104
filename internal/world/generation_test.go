package world

import (
	"errors"
	"testing"
)

func generate(t *testing.T, mutate func(*GenConfig)) *Map {
	t.Helper()
	cfg := SmallTestConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return m
}

func TestGenConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenConfig)
	}{
		{"size", func(c *GenConfig) { c.Size = 2 }},
		{"sea percent low", func(c *GenConfig) { c.SeaPercent = -1 }},
		{"sea percent high", func(c *GenConfig) { c.SeaPercent = 101 }},
		{"roughness", func(c *GenConfig) { c.Roughness = -1 }},
		{"height range order", func(c *GenConfig) { c.HeightRange = [2]int{200, 100} }},
		{"height range max", func(c *GenConfig) { c.HeightRange = [2]int{0, 300} }},
		{"axial tilt", func(c *GenConfig) { c.AxialTilt = 91 }},
		{"pressure", func(c *GenConfig) { c.SurfacePressure = -0.5 }},
		{"rivers", func(c *GenConfig) { c.NumRivers = -1 }},
		{"territories", func(c *GenConfig) { c.NumTerritories = -1 }},
		{"map type", func(c *GenConfig) { c.MapType = MapType(99) }},
		{"ocean type", func(c *GenConfig) { c.OceanType = OceanType(99) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SmallTestConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if _, err := Generate(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Generate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
	if err := DefaultGenConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	mutate := func(c *GenConfig) {
		c.Craters = true
		c.Volcanoes = true
		c.AdvancedClimate = true
	}
	a := generate(t, mutate)
	b := generate(t, mutate)

	for i := range a.Hexes {
		ha, hb := a.Hexes[i], b.Hexes[i]
		if ha.Elevation != hb.Elevation || ha.Moisture != hb.Moisture || ha.Features != hb.Features {
			t.Fatalf("hex %d differs: %+v vs %+v", i, ha, hb)
		}
		if ha.Territory != hb.Territory || ha.Geoform != hb.Geoform {
			t.Fatalf("hex %d ownership differs", i)
		}
		if (ha.Resource == nil) != (hb.Resource == nil) || (ha.Resource != nil && *ha.Resource != *hb.Resource) {
			t.Fatalf("hex %d resource differs", i)
		}
		if *ha.Climate != *hb.Climate {
			t.Fatalf("hex %d climate differs", i)
		}
	}
	if len(a.Rivers) != len(b.Rivers) || len(a.Territories) != len(b.Territories) || len(a.Geoforms) != len(b.Geoforms) {
		t.Fatal("collections differ between runs")
	}
	for g := range a.Geoforms {
		if a.Geoforms[g].ID != b.Geoforms[g].ID {
			t.Fatalf("geoform %d id differs", g)
		}
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	a := generate(t, nil)
	b := generate(t, func(c *GenConfig) { c.Seed = 43 })
	same := true
	for i := range a.Hexes {
		if a.Hexes[i].Elevation != b.Hexes[i].Elevation {
			same = false
			break
		}
	}
	if same {
		t.Fatal("seeds 42 and 43 produced identical elevations")
	}
}

func TestGenerate_ZeroSeedRecorded(t *testing.T) {
	m := generate(t, func(c *GenConfig) { c.Seed = 0 })
	if m.Cfg.Seed == 0 {
		t.Fatal("zero seed was not replaced")
	}
	again := generate(t, func(c *GenConfig) { c.Seed = m.Cfg.Seed })
	for i := range m.Hexes {
		if m.Hexes[i].Elevation != again.Hexes[i].Elevation {
			t.Fatal("recorded seed does not reproduce the map")
		}
	}
}

// The ceiling stays below 255 so no hex can sit at sea level.
func TestGenerate_Flooded(t *testing.T) {
	m := generate(t, func(c *GenConfig) {
		c.Size = 10
		c.SeaPercent = 100
		c.NumTerritories = 4
		c.HeightRange = [2]int{0, 200}
	})
	if m.SeaLevel != 255 {
		t.Fatalf("sea level = %d, want 255", m.SeaLevel)
	}
	for i := range m.Hexes {
		if m.IsLand(i) {
			t.Fatalf("hex %d is land on a flooded map", i)
		}
		if m.Hexes[i].IsOwned() {
			t.Fatalf("hex %d owned on a flooded map", i)
		}
	}
	if len(m.Rivers) != 0 {
		t.Fatalf("rivers = %d, want 0", len(m.Rivers))
	}
	if len(m.Territories) != 0 {
		t.Fatalf("territories = %d, want 0", len(m.Territories))
	}
}

// Land is elevation >= sea level, so a full-range map flooded to 255 keeps
// any hex that reaches the ceiling as land.
func TestGenerate_FloodedFullRange(t *testing.T) {
	m := generate(t, func(c *GenConfig) {
		c.Size = 10
		c.SeaPercent = 100
	})
	if m.Cfg.HeightRange != [2]int{0, 255} {
		t.Fatalf("height range = %v, want the default [0 255]", m.Cfg.HeightRange)
	}
	if m.SeaLevel != 255 {
		t.Fatalf("sea level = %d, want 255", m.SeaLevel)
	}
	for i := range m.Hexes {
		if m.IsLand(i) && m.Hexes[i].Elevation != 255 {
			t.Fatalf("hex %d is land at %d below sea level", i, m.Hexes[i].Elevation)
		}
	}
}

func TestGenerate_NoHydrosphere(t *testing.T) {
	m := generate(t, func(c *GenConfig) {
		c.Hydrosphere = false
		c.MapType = MapBarren
	})
	if len(m.Rivers) != 0 {
		t.Fatalf("rivers = %d, want 0", len(m.Rivers))
	}
	for i := range m.Hexes {
		h := m.Hexes[i]
		if h.Distance != 0 || h.Moisture != 0 || h.HasFeature(FeatureLake) {
			t.Fatalf("hex %d has water effects without a hydrosphere: %+v", i, h)
		}
	}
}

func TestGenerate_AllMapTypes(t *testing.T) {
	for _, mt := range []MapType{MapTerran, MapBarren, MapGas, MapVolcanic, MapOceanic, MapGlacial} {
		t.Run(mt.String(), func(t *testing.T) {
			m := generate(t, func(c *GenConfig) {
				c.MapType = mt
				c.HeightRange = PlanetFor(mt).HeightRange()
				c.Volcanoes = mt == MapVolcanic
				c.Craters = mt == MapBarren
			})
			for i := range m.Hexes {
				if _, err := m.Biome(i); err != nil {
					t.Fatalf("hex %d: %v", i, err)
				}
			}
		})
	}
}

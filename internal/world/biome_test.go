package world

import (
	"errors"
	"testing"
)

func TestTerran_ClassifyBiome(t *testing.T) {
	tests := []struct {
		temp, rain float64
		want       Biome
	}{
		{-15, 3, BiomeArctic},
		{-5, 8, BiomeAlpineTundra},
		{-5, 3, BiomeTundra},
		{5, 8, BiomeBorealForest},
		{10, 1, BiomeGrasslands},
		{10, 4, BiomeShrubland},
		{25, 3, BiomeDesert},
		{15, 8, BiomeSavanna},
		{15, 15, BiomeTemperateForest},
		{15, 25, BiomeTemperateRainforest},
		{25, 15, BiomeTropicalForest},
		{25, 25, BiomeTropicalRainforest},
	}
	p := PlanetFor(MapTerran)
	for _, tt := range tests {
		got, err := p.ClassifyBiome(BiomeContext{Temperature: tt.temp, Moisture: tt.rain, IsLand: true})
		if err != nil {
			t.Fatalf("temp %v rain %v: %v", tt.temp, tt.rain, err)
		}
		if got != tt.want {
			t.Errorf("temp %v rain %v = %v, want %v", tt.temp, tt.rain, got, tt.want)
		}
	}

	if got, _ := p.ClassifyBiome(BiomeContext{Temperature: 25, Moisture: 25}); got != BiomeWater {
		t.Errorf("water hex = %v, want water", got)
	}
	if _, err := p.ClassifyBiome(BiomeContext{Temperature: 10, Moisture: -1, IsLand: true}); !errors.Is(err, ErrUnclassifiableBiome) {
		t.Errorf("negative rainfall err = %v, want ErrUnclassifiableBiome", err)
	}
}

func TestBarren_ClassifyBiome(t *testing.T) {
	tests := []struct {
		name string
		ctx  BiomeContext
		want Biome
	}{
		{"airless", BiomeContext{Pressure: 0.001, Coldest: true, Temperature: -50}, BiomeBarren},
		{"ice caps", BiomeContext{Pressure: 0.5, Coldest: true, Temperature: -5}, BiomeBarrenIceCaps},
		{"cold but warm", BiomeContext{Pressure: 0.5, Coldest: true, Temperature: 5}, BiomeBarrenDusty},
		{"wet", BiomeContext{Pressure: 0.5, Moisture: 6}, BiomeBarrenWet},
		{"lake", BiomeContext{Pressure: 0.5, Lake: true}, BiomeBarrenWet},
		{"dusty", BiomeContext{Pressure: 0.5, Moisture: 2}, BiomeBarrenDusty},
	}
	p := PlanetFor(MapBarren)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ClassifyBiome(tt.ctx)
			if err != nil || got != tt.want {
				t.Fatalf("got %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestVolcanic_ClassifyBiome(t *testing.T) {
	p := PlanetFor(MapVolcanic)
	if got, _ := p.ClassifyBiome(BiomeContext{Elevation: 59, LavaFlow: true}); got != BiomeLavaFields {
		t.Errorf("low ground = %v, want lava fields", got)
	}
	if got, _ := p.ClassifyBiome(BiomeContext{Elevation: 80, LavaFlow: true}); got != BiomeLavaFlow {
		t.Errorf("flow = %v, want lava flow", got)
	}
	if got, _ := p.ClassifyBiome(BiomeContext{Elevation: 80}); got != BiomeBasalticPlains {
		t.Errorf("plain = %v, want basaltic plains", got)
	}
	if r := p.HeightRange(); r != [2]int{0, 100} {
		t.Errorf("height range = %v", r)
	}
}

func TestLifeless_ClassifyBiome(t *testing.T) {
	for _, mt := range []MapType{MapOceanic, MapGlacial, MapGas} {
		got, err := PlanetFor(mt).ClassifyBiome(BiomeContext{Temperature: 20, Moisture: 20, IsLand: true})
		if err != nil || got != BiomeLifeless {
			t.Errorf("%v: got %v, %v; want lifeless", mt, got, err)
		}
	}
}

func TestBiome_Text(t *testing.T) {
	for i := range biomeInfo {
		b := Biome(i)
		text, _ := b.MarshalText()
		var back Biome
		if err := back.UnmarshalText(text); err != nil || back != b {
			t.Fatalf("%s round trip = %v, %v", text, back, err)
		}
		if b.Title() == "" {
			t.Errorf("%v has no title", b)
		}
	}
	var b Biome
	if err := b.UnmarshalText([]byte("jungle")); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerate_BiomesPerMapType(t *testing.T) {
	allowed := map[MapType]map[Biome]bool{
		MapBarren:   {BiomeBarren: true, BiomeBarrenDusty: true, BiomeBarrenWet: true, BiomeBarrenIceCaps: true},
		MapVolcanic: {BiomeLavaFields: true, BiomeLavaFlow: true, BiomeBasalticPlains: true},
		MapOceanic:  {BiomeLifeless: true},
	}
	for mt, want := range allowed {
		t.Run(mt.String(), func(t *testing.T) {
			m := generate(t, func(c *GenConfig) {
				c.MapType = mt
				c.HeightRange = PlanetFor(mt).HeightRange()
				c.Volcanoes = mt == MapVolcanic
			})
			for i := range m.Hexes {
				b, err := m.Biome(i)
				if err != nil {
					t.Fatal(err)
				}
				if !want[b] {
					t.Fatalf("hex %d biome %v not allowed on %v", i, b, mt)
				}
			}
		})
	}
}

func TestColors(t *testing.T) {
	m := stripMap(t,
		"....",
		".##.",
		".##.",
		"....",
	)
	land := m.Index(1, 1)
	water := m.Index(0, 0)

	if got, want := m.TerrainColor(land), (RGB{129, 135, 42}); got != want {
		t.Errorf("land terrain color = %v, want %v", got, want)
	}
	if got, want := m.TerrainColor(water), (RGB{0, 15, 120}); got != want {
		t.Errorf("deep water terrain color = %v, want %v", got, want)
	}
	if got, want := m.RiverColor(water), (RGB{0, 20, 130}); got != want {
		t.Errorf("deep water river color = %v, want %v", got, want)
	}
	if got, want := m.RiverColor(land), (RGB{199, 177, 56}); got != want {
		t.Errorf("dry land river color = %v, want %v", got, want)
	}
	m.Hexes[land].Moisture = 30
	if got, want := m.RiverColor(land), (RGB{56, 148, 199}); got != want {
		t.Errorf("wet land river color = %v, want %v", got, want)
	}

	if got, err := m.BiomeColor(water); err != nil || got != BiomeWater.Color() {
		t.Errorf("water biome color = %v, %v", got, err)
	}
	b, err := m.Biome(land)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := m.BiomeColor(land); got != b.Color() {
		t.Errorf("land biome color = %v, want %v", got, b.Color())
	}

	m.Hexes[land].AddFeature(FeatureLake)
	if got := m.TerrainColor(land); got != (RGB{0, 0, 255}) {
		t.Errorf("lake terrain color = %v", got)
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float64
		want    RGB
	}{
		{0, 100, 50, RGB{255, 0, 0}},
		{120, 100, 50, RGB{0, 255, 0}},
		{240, 100, 50, RGB{0, 0, 255}},
		{0, 0, 100, RGB{255, 255, 255}},
		{0, 0, 0, RGB{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := hsl(tt.h, tt.s, tt.l); got != tt.want {
			t.Errorf("hsl(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.l, got, tt.want)
		}
	}
}

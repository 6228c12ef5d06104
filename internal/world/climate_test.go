package world

import (
	"math"
	"testing"
)

func TestLatitude(t *testing.T) {
	m := testGrid(t)
	for i := range m.Hexes {
		lat := m.Latitude(i)
		if lat < -90 || lat > 90 {
			t.Fatalf("hex %d latitude %v", i, lat)
		}
		if r := m.LatitudeRatio(i); r < 0 || r > 1 {
			t.Fatalf("hex %d latitude ratio %v", i, r)
		}
		if m.IsNorthern(i) != (lat > 0) {
			t.Fatalf("hex %d latitude %v northern=%v", i, lat, m.IsNorthern(i))
		}
	}
	if lat := m.Latitude(m.Index(0, 0)); lat != 90 {
		t.Fatalf("first row latitude = %v, want 90", lat)
	}
}

func TestZone_Bands(t *testing.T) {
	m := testGrid(t)
	if z := m.Zone(m.Index(0, 0)); z != ZoneArctic {
		t.Fatalf("first row zone = %v, want arctic", z)
	}
	if z := m.Zone(m.Index(m.Size-1, 0)); z != ZoneAntarctic {
		t.Fatalf("last row zone = %v, want antarctic", z)
	}
	prev := ZoneArctic
	for row := 0; row < m.Size; row++ {
		z := m.Zone(m.Index(row, 0))
		if z < prev {
			t.Fatalf("row %d zone %v comes after %v", row, z, prev)
		}
		prev = z
	}
}

func TestZone_Text(t *testing.T) {
	for i := range zoneNames {
		z := Zone(i)
		text, _ := z.MarshalText()
		var back Zone
		if err := back.UnmarshalText(text); err != nil || back != z {
			t.Fatalf("%s round trip = %v, %v", text, back, err)
		}
	}
}

func TestTemperature_ColderUphill(t *testing.T) {
	m := stripMap(t,
		"....",
		"#...",
		"....",
		"....",
	)
	land := m.Index(1, 0)
	flat := m.Temperature(land)
	m.Hexes[land].Elevation = 220
	if got := m.Temperature(land); got >= flat {
		t.Fatalf("raised hex temperature %v, was %v", got, flat)
	}
	if pole, mid := m.Temperature(m.Index(0, 1)), m.Temperature(m.Index(2, 1)); pole >= mid {
		t.Fatalf("polar water %v not colder than mid-latitude water %v", pole, mid)
	}
}

func TestBeltPressure(t *testing.T) {
	const base, diff = 1000.0, 20.0
	tests := []struct {
		name          string
		lat, rise, jt float64
		want          float64
	}{
		{"equator low", 0, 0, 0, base - diff},
		{"subtropical high", 30, 0, 0, base + diff},
		{"southern high", -30, 0, 0, base + diff},
		{"polar front low", 60, 0, 0, base - diff/2},
		{"between belts", 45, 0, 0.5, base + 0.5},
		{"shifted equator", 10, 10, 0, base - diff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := beltPressure(tt.lat, base, diff, tt.rise, tt.jt)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("beltPressure = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvancedClimate(t *testing.T) {
	m := generate(t, func(c *GenConfig) { c.AdvancedClimate = true })

	for i := range m.Hexes {
		c := m.Hexes[i].Climate
		if c == nil {
			t.Fatalf("hex %d has no climate", i)
		}
		for _, s := range Seasons {
			if c.Pressure[s] <= 0 {
				t.Fatalf("hex %d season %v pressure %v", i, s, c.Pressure[s])
			}
			w := c.Wind[s]
			if !w.Calm && w.Magnitude <= 0 {
				t.Fatalf("hex %d season %v has wind without magnitude", i, s)
			}
		}
	}

	// Advection only moves heat around; after removing the seasonal swing
	// the totals match up to rounding.
	vol := math.Round(m.Cfg.AxialTilt / 2)
	for _, s := range Seasons {
		drift := 0.0
		for i := range m.Hexes {
			swing := vol * math.Abs(m.Latitude(i)) / 90
			if !m.inSummer(i, s) {
				swing = -swing
			}
			drift += m.Hexes[i].Climate.Temperature[s] - m.Temperature(i) - swing
		}
		if limit := 0.006 * float64(m.HexCount()); math.Abs(drift) > limit {
			t.Fatalf("season %v: advection drift %v exceeds %v", s, drift, limit)
		}
	}
}

func TestAdvancedClimate_Off(t *testing.T) {
	m := generate(t, nil)
	for i := range m.Hexes {
		if m.Hexes[i].Climate != nil {
			t.Fatalf("hex %d has climate without the advanced model", i)
		}
	}
}

func TestSeasonalSwing(t *testing.T) {
	m := generate(t, func(c *GenConfig) { c.AdvancedClimate = true })
	var summer, winter float64
	for row := 1; row <= 4; row++ {
		for col := 0; col < m.Size; col++ {
			c := m.Hexes[m.Index(row, col)].Climate
			summer += c.Temperature[SeasonMidYear]
			winter += c.Temperature[SeasonEndYear]
		}
	}
	if summer <= winter {
		t.Fatalf("northern summer total %v not warmer than winter %v", summer, winter)
	}
}

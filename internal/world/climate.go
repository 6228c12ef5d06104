package world

import (
	"log/slog"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Zone is a climate band derived from latitude and axial tilt.
type Zone uint8

const (
	ZoneArctic Zone = iota
	ZoneNorthernTemperate
	ZoneNorthernSubtropics
	ZoneNorthernTropics
	ZoneSouthernTropics
	ZoneSouthernSubtropics
	ZoneSouthernTemperate
	ZoneAntarctic
)

var zoneNames = [...]string{
	ZoneArctic:             "arctic",
	ZoneNorthernTemperate:  "northern_temperate",
	ZoneNorthernSubtropics: "northern_subtropics",
	ZoneNorthernTropics:    "northern_tropics",
	ZoneSouthernTropics:    "southern_tropics",
	ZoneSouthernSubtropics: "southern_subtropics",
	ZoneSouthernTemperate:  "southern_temperate",
	ZoneAntarctic:          "antarctic",
}

func (z Zone) String() string {
	if int(z) < len(zoneNames) {
		return zoneNames[z]
	}
	return "unknown"
}

// MarshalText encodes the zone by name.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText parses a zone name.
func (z *Zone) UnmarshalText(text []byte) error {
	i, err := parseName("zone", text, len(zoneNames), func(i int) string { return zoneNames[i] })
	if err != nil {
		return err
	}
	*z = Zone(i)
	return nil
}

// pressureCoefficient scales how strongly land and sea push pressure around.
func (z Zone) pressureCoefficient() float64 {
	switch z {
	case ZoneArctic, ZoneAntarctic:
		return 0.5
	case ZoneNorthernTemperate, ZoneSouthernTemperate:
		return 1.0
	case ZoneNorthernSubtropics, ZoneSouthernSubtropics:
		return 1.5
	default:
		return 1.25
	}
}

// Season indexes the two seasonal samples.
type Season uint8

const (
	SeasonEndYear Season = iota // Northern winter
	SeasonMidYear               // Northern summer
)

// Seasons lists both seasons in index order.
var Seasons = [2]Season{SeasonEndYear, SeasonMidYear}

func (s Season) String() string {
	if s == SeasonMidYear {
		return "mid_year"
	}
	return "end_year"
}

// Wind is the prevailing wind on a hex for one season.
type Wind struct {
	Calm      bool    `json:"calm"`
	Direction Side    `json:"direction"`
	Magnitude float64 `json:"magnitude"` // Pressure difference in millibars
	Toward    int     `json:"-"`         // Lowest-pressure neighbor, before deflection
}

// Climate holds the seasonal results of the advanced climate model.
type Climate struct {
	Pressure    [2]float64 `json:"pressure"` // Millibars, indexed by Season
	Wind        [2]Wind    `json:"wind"`
	Temperature [2]float64 `json:"temperature"`
}

// Pressure brush settings.
var brushShares = []float64{0.8, 0.3, 0.1}

const (
	brushRadius = 3
	brushStep   = 0.1

	advectionSteps = 20
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LatitudeRatio is 0 at the poles and 1 at the equator, falling linearly.
func (m *Map) LatitudeRatio(i int) float64 {
	ratio := float64(m.Hexes[i].Coord.Row) / float64(m.Size)
	if ratio < 0.5 {
		return ratio / 0.5
	}
	return (1 - ratio) / 0.5
}

// Latitude in degrees: +90 on the first row, -90 past the last.
func (m *Map) Latitude(i int) float64 {
	ratio := float64(m.Hexes[i].Coord.Row) / float64(m.Size)
	if ratio < 0.5 {
		return (1 - ratio/0.5) * 90
	}
	return (ratio/0.5)*-90 + 90
}

// IsNorthern reports whether hex i lies in the northern hemisphere.
func (m *Map) IsNorthern(i int) bool {
	return float64(m.Hexes[i].Coord.Row)/float64(m.Size) < 0.5
}

// Zone returns the climate band of hex i.
func (m *Map) Zone(i int) Zone {
	tilt := math.Abs(m.Cfg.AxialTilt)
	lat := m.Latitude(i)

	northPolar := 90 - tilt
	southPolar := -northPolar
	northTropic := tilt
	southTropic := -tilt
	northTemperate := tilt * 1.5
	southTemperate := -northTemperate

	switch {
	case northPolar < lat && lat <= 90:
		return ZoneArctic
	case northTemperate < lat && lat <= northPolar:
		return ZoneNorthernTemperate
	case northTropic < lat && lat <= northTemperate:
		return ZoneNorthernSubtropics
	case 0 < lat && lat <= northTropic:
		return ZoneNorthernTropics
	case southTropic < lat && lat <= 0:
		return ZoneSouthernTropics
	case southTemperate < lat && lat <= southTropic:
		return ZoneSouthernSubtropics
	case southPolar < lat && lat <= southTemperate:
		return ZoneSouthernTemperate
	case lat <= southPolar:
		return ZoneAntarctic
	case lat > 0:
		return ZoneNorthernTemperate
	default:
		return ZoneSouthernTemperate
	}
}

// Temperature returns the base temperature of hex i from latitude and
// distance to sea level, in °C.
func (m *Map) Temperature(i int) float64 {
	ratio := m.LatitudeRatio(i)
	vol := math.Round(m.Cfg.AxialTilt / 2)
	minTemp := math.Max(m.Cfg.AvgTemp-vol, m.Cfg.BaseTemp)
	latitudePart := (math.Abs(minTemp)+(m.Cfg.AvgTemp+vol))*ratio + minTemp

	factor := 7.0
	if !m.IsLand(i) {
		factor = 8
	}
	altitudePart := math.Abs(float64(m.Hexes[i].Elevation-m.SeaLevel)) / factor
	return round2(latitudePart) - round2(altitudePart)
}

// IsColdest reports whether hex i is in the coldest tenth of the map.
func (m *Map) IsColdest(i int) bool {
	return m.coldest[i]
}

// simulateClimate runs the seasonal pressure, wind and temperature model.
func (m *Map) simulateClimate() {
	for i := range m.Hexes {
		m.Hexes[i].Climate = &Climate{}
	}
	noise := opensimplex.New(m.Cfg.Seed)
	for _, s := range Seasons {
		m.computePressure(s, noise)
		m.brushPressure(s)
		mean := m.meanPressure(s)
		for i := range m.Hexes {
			m.Hexes[i].Climate.Wind[s] = m.decideWind(i, s, mean)
		}
		m.seasonalTemperatures(s)
	}
	slog.Debug("climate simulated")
}

// itczRise is how far the pressure belts shift at hex i this season.
func (m *Map) itczRise(i int, s Season) float64 {
	var rise float64
	if m.IsLand(i) {
		rise = math.Min(m.Cfg.AxialTilt, float64(m.Hexes[i].Distance)/2)
	} else if m.SeaLevel > 0 {
		rise = m.Cfg.AxialTilt / 2 * float64(m.Hexes[i].Elevation) / float64(m.SeaLevel)
	}
	if s == SeasonEndYear {
		return -rise
	}
	return rise
}

func (m *Map) computePressure(s Season, noise opensimplex.Noise) {
	base := m.Cfg.SurfacePressure * 1013.25
	diff := base * 0.02
	offset := float64(s) * float64(m.Size) * 4
	for i := range m.Hexes {
		c := m.Hexes[i].Coord
		jitter := octaveNoise(noise, float64(c.Row)+offset, float64(c.Col), 3, 0.15, 0.5)
		jitter = math.Max(-1, math.Min(1, jitter))
		m.Hexes[i].Climate.Pressure[s] = beltPressure(m.Latitude(i), base, diff, m.itczRise(i, s), jitter)
	}
}

// beltPressure models the ITCZ low, the subtropical highs near ±30° and the
// polar-front lows near ±60°, all shifted by rise. Outside the belts the
// pressure is base plus jitter.
func beltPressure(lat, base, diff, rise, jitter float64) float64 {
	sq := func(v float64) float64 { return v * v }
	switch {
	case -10+rise <= lat && lat <= 10+rise:
		return base - (-sq(lat-rise)+100)*(diff/100)
	case -40+rise <= lat && lat <= -20+rise:
		return base + ((-sq(lat+(30-rise))+100)/100)*diff
	case 20+rise <= lat && lat <= 40+rise:
		return base + ((-sq(lat-(30+rise))+100)/100)*diff
	case -70+rise <= lat && lat <= -50+rise:
		return base - ((-sq(lat+(60-rise))+100)/100)*(diff/2)
	case 50+rise <= lat && lat <= 70+rise:
		return base - ((-sq(lat-(60+rise))+100)/100)*(diff/2)
	default:
		return base + jitter
	}
}

// inSummer reports whether season s is summer in the hemisphere of hex i.
func (m *Map) inSummer(i int, s Season) bool {
	return m.IsNorthern(i) == (s == SeasonMidYear)
}

// brushPressure nudges pressure around the highest land and deepest water:
// land in summer lowers it, water in summer raises it, winter reverses both.
func (m *Map) brushPressure(s Season) {
	var land, water []int
	for i := range m.Hexes {
		if m.IsLand(i) {
			land = append(land, i)
		} else {
			water = append(water, i)
		}
	}
	sort.SliceStable(land, func(a, b int) bool {
		return m.Hexes[land[a]].Elevation > m.Hexes[land[b]].Elevation
	})
	sort.SliceStable(water, func(a, b int) bool {
		return m.Hexes[water[a]].Elevation < m.Hexes[water[b]].Elevation
	})

	for _, share := range brushShares {
		for _, group := range [][]int{land, water} {
			n := int(math.Round(float64(len(group)) * share))
			for _, c := range group[:n] {
				sign := 1.0
				if m.inSummer(c, s) == m.IsLand(c) {
					sign = -1
				}
				for _, b := range m.Bubble(c, brushRadius) {
					m.Hexes[b].Climate.Pressure[s] += sign * m.Zone(b).pressureCoefficient() * brushStep
				}
			}
		}
	}
}

func (m *Map) meanPressure(s Season) float64 {
	sum := 0.0
	for i := range m.Hexes {
		sum += m.Hexes[i].Climate.Pressure[s]
	}
	return sum / float64(len(m.Hexes))
}

// decideWind points the wind at the lowest-pressure neighbor, then deflects
// it one side: clockwise around northern highs and southern lows,
// counter-clockwise otherwise.
func (m *Map) decideWind(i int, s Season, mean float64) Wind {
	own := m.Hexes[i].Climate.Pressure[s]
	lowSide := SideEast
	low := m.neighbors[i][SideEast]
	for _, side := range Sides[1:] {
		n := m.neighbors[i][side]
		if m.Hexes[n].Climate.Pressure[s] < m.Hexes[low].Climate.Pressure[s] {
			low, lowSide = n, side
		}
	}
	lowPressure := m.Hexes[low].Climate.Pressure[s]
	if lowPressure == own {
		return Wind{Calm: true, Direction: lowSide, Toward: low}
	}

	highPressure := own > mean
	dir := lowSide.CounterClockwise()
	if m.IsNorthern(i) == highPressure {
		dir = lowSide.Clockwise()
	}
	return Wind{
		Direction: dir,
		Magnitude: math.Abs(own - lowPressure),
		Toward:    low,
	}
}

// seasonalTemperatures applies the seasonal swing and then carries heat
// downwind: each hex walks advectionSteps hexes along the wind, trading a
// decaying share of its base temperature difference with every hex it passes.
func (m *Map) seasonalTemperatures(s Season) {
	vol := math.Round(m.Cfg.AxialTilt / 2)
	base := make([]float64, len(m.Hexes))
	deltas := make([]float64, len(m.Hexes))
	for i := range m.Hexes {
		base[i] = m.Temperature(i)
	}

	for start := range m.Hexes {
		cur := start
		for loops := 0; loops < advectionSteps; loops++ {
			w := m.Hexes[cur].Climate.Wind[s]
			if w.Calm {
				break
			}
			down := m.neighbors[cur][w.Direction]
			factor := (float64(advectionSteps) / float64(loops+1)) / float64(advectionSteps) * 10
			adj := (base[start] - base[down]) * factor / 100
			deltas[down] += adj / 2
			deltas[start] -= adj / 2
			cur = down
		}
	}

	for i := range m.Hexes {
		swing := vol * math.Abs(m.Latitude(i)) / 90
		if !m.inSummer(i, s) {
			swing = -swing
		}
		m.Hexes[i].Climate.Temperature[s] = round2(base[i] + swing + deltas[i])
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

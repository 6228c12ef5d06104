package world

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrOutOfBounds is returned when a coordinate lies outside the grid.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// ErrNotFound is returned when a territory or geoform lookup misses.
var ErrNotFound = errors.New("not found")

// Map holds the complete hex grid world state.
type Map struct {
	Hexes []Hex     `json:"-"` // Row-major, index = row*Size + col
	Size  int       `json:"size"`
	Cfg   GenConfig `json:"params"`

	SeaLevel      int     `json:"sea_level"`
	TopHeight     int     `json:"top_height"`
	LowestHeight  int     `json:"lowest_height"`
	AverageHeight float64 `json:"average_height"`
	AvgAltitude   int     `json:"avg_altitude"`

	Planet Planet `json:"-"`

	Rivers      []*RiverSegment `json:"-"` // Sources of the kept rivers
	Territories []*Territory    `json:"-"`
	Geoforms    []*Geoform      `json:"-"`

	neighbors   [][6]int
	bubbleCache map[bubbleKey][]int
	coldest     map[int]bool
}

type bubbleKey struct {
	index, radius int
}

// NewMap wraps a heightmap into a hex grid and computes adjacency and edges.
func NewMap(hm *Heightmap, cfg GenConfig) *Map {
	n := hm.Size
	m := &Map{
		Hexes:         make([]Hex, n*n),
		Size:          n,
		Cfg:           cfg,
		SeaLevel:      hm.SeaLevel,
		TopHeight:     hm.TopHeight,
		LowestHeight:  hm.LowestHeight,
		AverageHeight: hm.AverageHeight,
		Planet:        PlanetFor(cfg.MapType),
		neighbors:     make([][6]int, n*n),
		bubbleCache:   make(map[bubbleKey][]int),
	}

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			i := m.Index(row, col)
			m.Hexes[i] = Hex{
				Coord:     HexCoord{Row: row, Col: col},
				Elevation: hm.HeightAt(row, col),
				Territory: NoTerritory,
				Geoform:   NoGeoform,
			}
			for _, s := range Sides {
				r, c := m.neighborCoord(row, col, s)
				m.neighbors[i][s] = m.Index(r, c)
			}
		}
	}

	// Second pass: edges need every neighbor in place.
	m.computeEdges()

	alt := 0
	for i := range m.Hexes {
		h := &m.Hexes[i]
		alt += h.Elevation
		if !m.IsLand(i) && m.Temperature(i) <= -12 {
			h.AddFeature(FeatureGlacier)
		}
	}
	m.AvgAltitude = int(math.Round(float64(alt) / float64(n*n)))
	m.computeColdest()
	return m
}

// Index converts (row, col) into an index into Hexes without bounds checks.
func (m *Map) Index(row, col int) int {
	return row*m.Size + col
}

// InBounds returns true if the coordinate lies on the grid.
func (m *Map) InBounds(row, col int) bool {
	return row >= 0 && row < m.Size && col >= 0 && col < m.Size
}

// Hex returns the hex at (row, col), or ErrOutOfBounds.
func (m *Map) Hex(row, col int) (*Hex, error) {
	if !m.InBounds(row, col) {
		return nil, fmt.Errorf("hex %d,%d on %dx%d grid: %w", row, col, m.Size, m.Size, ErrOutOfBounds)
	}
	return &m.Hexes[m.Index(row, col)], nil
}

// At returns the hex at index i.
func (m *Map) At(i int) *Hex {
	return &m.Hexes[i]
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// IsLand reports whether hex i sits at or above sea level.
func (m *Map) IsLand(i int) bool {
	return m.Hexes[i].Elevation >= m.SeaLevel
}

// IsInland reports whether hex i and all six of its neighbors are land.
func (m *Map) IsInland(i int) bool {
	if !m.IsLand(i) {
		return false
	}
	for _, n := range m.neighbors[i] {
		if !m.IsLand(n) {
			return false
		}
	}
	return true
}

// IsCoast reports whether any neighbor of hex i is land.
func (m *Map) IsCoast(i int) bool {
	for _, n := range m.neighbors[i] {
		if m.IsLand(n) {
			return true
		}
	}
	return false
}

// IsCoastEdge reports whether the edge separates land from water.
func (m *Map) IsCoastEdge(e Edge) bool {
	return m.IsLand(e.One) != m.IsLand(e.Two)
}

// Neighbor returns the index of the neighbor of hex i on side s.
func (m *Map) Neighbor(i int, s Side) int {
	return m.neighbors[i][s]
}

// Neighbors returns the six adjacent hex indices in clockwise side order.
func (m *Map) Neighbors(i int) [6]int {
	return m.neighbors[i]
}

// SideToward returns the side of hex i that faces hex j.
func (m *Map) SideToward(i, j int) (Side, bool) {
	for _, s := range Sides {
		if m.neighbors[i][s] == j {
			return s, true
		}
	}
	return 0, false
}

// neighborCoord applies the offset rules. Columns wrap; stepping off the top
// or bottom row lands on the same row at the reflected column.
func (m *Map) neighborCoord(row, col int, s Side) (int, int) {
	last := m.Size - 1
	wrap := func(c int) int {
		return ((c % m.Size) + m.Size) % m.Size
	}
	even := row%2 == 0

	switch s {
	case SideEast:
		return row, wrap(col + 1)
	case SideWest:
		return row, wrap(col - 1)
	case SideNorthWest:
		if row == 0 {
			return 0, last - col
		}
		if even {
			return row - 1, wrap(col - 1)
		}
		return row - 1, col
	case SideNorthEast:
		if row == 0 {
			return 0, last - col
		}
		if even {
			return row - 1, col
		}
		return row - 1, wrap(col + 1)
	case SideSouthWest:
		if row == last {
			return last, last - col
		}
		if even {
			return row + 1, wrap(col - 1)
		}
		return row + 1, col
	default: // SideSouthEast
		if row == last {
			return last, last - col
		}
		if even {
			return row + 1, col
		}
		return row + 1, wrap(col + 1)
	}
}

// surroundingNoWrap returns neighbors without crossing the map border, for
// measurements where wrapping would distort shape (group centroids).
func (m *Map) surroundingNoWrap(i int) []int {
	h := m.Hexes[i]
	row, col := h.Coord.Row, h.Coord.Col
	last := m.Size - 1
	var out []int
	add := func(r, c int) {
		if m.InBounds(r, c) {
			out = append(out, m.Index(r, c))
		}
	}
	add(row, col+1)
	add(row, col-1)
	if row%2 == 0 {
		if row != 0 {
			add(row-1, col-1)
			add(row-1, col)
		}
		if row != last {
			add(row+1, col-1)
			add(row+1, col)
		}
	} else {
		if row != 0 {
			add(row-1, col)
			add(row-1, col+1)
		}
		if row != last {
			add(row+1, col)
			add(row+1, col+1)
		}
	}
	return out
}

// computeEdges rebuilds every edge from the current elevations.
// River flags are reapplied from the traced rivers.
func (m *Map) computeEdges() {
	for i := range m.Hexes {
		for _, s := range Sides {
			a, b := flanks(s)
			up, down := m.decideSlope(m.neighbors[i][a], m.neighbors[i][b])
			m.Hexes[i].Edges[s] = Edge{
				Side:  s,
				One:   i,
				Two:   m.neighbors[i][s],
				Up:    up,
				Down:  down,
				Delta: m.Hexes[up].Elevation - m.Hexes[down].Elevation,
			}
		}
	}
	m.markRiverEdges()
}

// decideSlope returns (up, down); ties favor the first hex as up.
func (m *Map) decideSlope(one, two int) (int, int) {
	if m.Hexes[one].Elevation < m.Hexes[two].Elevation {
		return two, one
	}
	return one, two
}

// Bubble returns every hex within radius steps of hex i, including i, in
// breadth-first order. Results are cached; adjacency never changes.
func (m *Map) Bubble(i, radius int) []int {
	if radius <= 0 {
		return []int{i}
	}
	key := bubbleKey{i, radius}
	if cached, ok := m.bubbleCache[key]; ok {
		return cached
	}

	seen := map[int]bool{i: true}
	out := []int{i}
	frontier := []int{i}
	for step := 0; step < radius; step++ {
		var next []int
		for _, f := range frontier {
			for _, n := range m.neighbors[f] {
				if seen[n] {
					continue
				}
				seen[n] = true
				out = append(out, n)
				next = append(next, n)
			}
		}
		frontier = next
	}
	m.bubbleCache[key] = out
	return out
}

// computeColdest records the coldest tenth of the map.
func (m *Map) computeColdest() {
	idx := make([]int, len(m.Hexes))
	temps := make([]float64, len(m.Hexes))
	for i := range idx {
		idx[i] = i
		temps[i] = m.Temperature(i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return temps[idx[a]] < temps[idx[b]]
	})
	number := int(math.Round(float64(len(idx)) * 0.10))
	m.coldest = make(map[int]bool, number)
	for _, i := range idx[:number] {
		m.coldest[i] = true
	}
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(size=%d, hexes=%d, sea_level=%d)", m.Size, m.HexCount(), m.SeaLevel)
}

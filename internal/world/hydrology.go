package world

import (
	"log/slog"
	"math/rand"
)

// Rivers only start this far above sea level.
const riverSourceHeight = 35

// computeDistances sets each land hex's distance to the coast: the shortest of
// six straight rays counted in land hexes, capped at twice the map size.
func (m *Map) computeDistances() {
	if !m.Cfg.Hydrosphere {
		return
	}
	limit := m.Size * 2
	for i := range m.Hexes {
		if !m.IsLand(i) {
			continue
		}
		best := limit
		for _, s := range Sides {
			count := 1
			cur := m.neighbors[i][s]
			for m.IsLand(cur) && count < limit {
				cur = m.neighbors[cur][s]
				count++
			}
			if count < best {
				best = count
			}
		}
		m.Hexes[i].Distance = best
	}
}

func (m *Map) riverSourceCandidates() []int {
	var out []int
	for i := range m.Hexes {
		if !m.IsInland(i) || m.Hexes[i].Elevation <= m.SeaLevel+riverSourceHeight {
			continue
		}
		// Frozen highlands do not feed rivers.
		if m.Temperature(i) < 0 {
			continue
		}
		out = append(out, i)
	}
	return out
}

// placeRivers picks sources, traces every river downhill and keeps those
// longer than two segments.
func (m *Map) placeRivers(rng *rand.Rand) {
	want := m.Cfg.NumRivers
	candidates := m.riverSourceCandidates()
	if want == 0 || len(candidates) == 0 {
		slog.Debug("no rivers placed", "requested", want, "candidates", len(candidates))
		return
	}

	sources := make([]*RiverSegment, 0, want)
	for len(sources) < want {
		i := candidates[rng.Intn(len(candidates))]
		sources = append(sources, &RiverSegment{
			Coord:  m.Hexes[i].Coord,
			Side:   Sides[rng.Intn(len(Sides))],
			Source: true,
		})
	}
	slog.Debug("placed river sources", "count", len(sources))

	traced := make(map[boundaryKey]bool)
	lakes := 0
	for _, src := range sources {
		if m.traceRiver(src, traced) {
			lakes++
		}
	}

	kept := sources[:0]
	for _, src := range sources {
		if src.Len() > 2 {
			kept = append(kept, src)
		}
	}
	m.Rivers = kept
	m.markRiverEdges()
	slog.Debug("rivers traced", "kept", len(kept), "dropped", len(sources)-len(kept), "lakes", lakes)
}

// traceRiver extends the chain from src until it reaches the sea or ends in a
// lake. traced holds every boundary already used by any river. Reports
// whether a lake formed.
func (m *Map) traceRiver(src *RiverSegment, traced map[boundaryKey]bool) bool {
	limit := 3 * m.HexCount()
	seg := src
	first := m.segmentEdge(seg)
	seg.Down, seg.Elevation = first.Down, m.Hexes[first.Down].Elevation
	traced[first.key()] = true

	for step := 0; step < limit; step++ {
		e := m.segmentEdge(seg)
		m.moistenRiverBanks(e)

		down := e.Down
		branches := [2]struct {
			side  Side
			edge  Edge
			valid bool
		}{}
		for b, toward := range [2]int{e.One, e.Two} {
			s, ok := m.SideToward(down, toward)
			if !ok {
				continue
			}
			be := m.Hexes[down].Edges[s]
			branches[b].side = s
			branches[b].edge = be
			branches[b].valid = be.Down != e.One && be.Down != e.Two &&
				!traced[be.key()] &&
				m.Hexes[be.Down].Elevation <= m.Hexes[down].Elevation
		}

		pick := -1
		switch {
		case branches[0].valid && branches[1].valid:
			pick = 1
			if m.Hexes[branches[0].edge.Down].Elevation < m.Hexes[branches[1].edge.Down].Elevation {
				pick = 0
			}
		case branches[0].valid:
			pick = 0
		case branches[1].valid:
			pick = 1
		}

		if pick < 0 {
			m.formLake(e)
			return true
		}

		chosen := branches[pick]
		next := &RiverSegment{
			Coord:     m.Hexes[down].Coord,
			Side:      chosen.side,
			Down:      chosen.edge.Down,
			Elevation: m.Hexes[chosen.edge.Down].Elevation,
		}
		seg.Next = next
		seg = next
		traced[chosen.edge.key()] = true

		if m.Hexes[chosen.edge.Down].Elevation < m.SeaLevel {
			return false
		}
	}
	slog.Debug("river hit step limit", "row", src.Coord.Row, "col", src.Coord.Col)
	return false
}

// moistenRiverBanks wets land within three hexes of both sides of e, and once
// more for the hexes immediately around them.
func (m *Map) moistenRiverBanks(e Edge) {
	wide := make(map[int]bool)
	for _, i := range m.Bubble(e.One, 3) {
		wide[i] = true
	}
	for _, i := range m.Bubble(e.Two, 3) {
		wide[i] = true
	}
	for i := range wide {
		if m.IsLand(i) {
			m.Hexes[i].Moisture++
		}
	}

	near := make(map[int]bool)
	for _, i := range m.neighbors[e.One] {
		near[i] = true
	}
	for _, i := range m.neighbors[e.Two] {
		near[i] = true
	}
	for i := range near {
		if m.IsLand(i) {
			m.Hexes[i].Moisture++
		}
	}
}

// formLake floods the lower side of e.
func (m *Map) formLake(e Edge) {
	lake := e.Two
	if m.Hexes[e.One].Elevation < m.Hexes[e.Two].Elevation {
		lake = e.One
	}
	m.Hexes[lake].AddFeature(FeatureLake)
	for _, n := range m.neighbors[lake] {
		if m.IsLand(n) {
			m.Hexes[n].Moisture += 3
		}
	}
}

// addCoastalMoisture wets land near the coast; closer hexes get every bonus
// they qualify for.
func (m *Map) addCoastalMoisture(rng *rand.Rand) {
	for i := range m.Hexes {
		if !m.IsLand(i) {
			continue
		}
		h := &m.Hexes[i]
		if h.Distance <= 5 {
			h.Moisture++
		}
		if h.Distance <= 3 {
			h.Moisture += float64(rng.Intn(3) + 1)
		}
		if h.Distance <= 1 {
			h.Moisture += float64(rng.Intn(6) + 1)
		}
	}
}

// placeAquifers wets the land around 5–25 dry hexes.
func (m *Map) placeAquifers(rng *rand.Rand) int {
	count := rng.Intn(21) + 5
	if !m.Cfg.Hydrosphere || m.Cfg.SeaPercent == 100 {
		count = 0
	}

	var dry []int
	if count > 0 {
		for i := range m.Hexes {
			if m.IsLand(i) && m.Hexes[i].Moisture < 5 {
				dry = append(dry, i)
			}
		}
	}
	if len(dry) == 0 {
		count = 0
	}
	slog.Debug("placing aquifers", "count", count)

	for a := 0; a < count; a++ {
		center := dry[rng.Intn(len(dry))]
		for _, i := range m.Bubble(center, 3) {
			if m.IsLand(i) {
				m.Hexes[i].Moisture += float64(rng.Intn(3))
			}
		}
		for _, i := range m.Bubble(center, 2) {
			if m.IsLand(i) {
				m.Hexes[i].Moisture++
			}
		}
		for _, i := range m.neighbors[center] {
			if m.IsLand(i) {
				m.Hexes[i].Moisture++
			}
		}
	}
	return count
}

package world

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"
)

// Lava only runs over ground at least this high.
const lavaMinElevation = 50

type crater struct {
	center, size int
}

type volcano struct {
	center, size, height int
}

func clampElevation(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// placeCraters punches 0–15 craters of size 1–3 into the map.
func (m *Map) placeCraters(rng *rand.Rand) {
	craters := make([]crater, rng.Intn(16))
	for c := range craters {
		craters[c] = crater{size: rng.Intn(3) + 1, center: rng.Intn(m.HexCount())}
	}
	slog.Debug("placing craters", "count", len(craters))

	for _, c := range craters {
		base := m.Hexes[c.center].Elevation
		var bowl []int
		for ring := 1; ring <= c.size; ring++ {
			if ring == 1 {
				n := m.neighbors[c.center]
				bowl = n[:]
			} else {
				bowl = m.Bubble(c.center, ring)
			}
			for _, i := range bowl {
				m.Hexes[i].AddFeature(FeatureCrater)
				m.Hexes[i].Elevation = clampElevation(base - 5*ring)
			}
		}

		// Rim around the first third of the bowl.
		rim := int(math.Round(float64(len(bowl)) / 3))
		for _, i := range bowl[:rim] {
			for _, n := range m.neighbors[i] {
				if m.Hexes[n].HasFeature(FeatureCrater) {
					continue
				}
				m.Hexes[n].AddFeature(FeatureCrater)
				m.Hexes[n].Elevation = clampElevation(base - 20)
			}
		}
	}
}

// placeVolcanoes raises 0–10 volcanoes on high ground and runs lava down them.
func (m *Map) placeVolcanoes(rng *rand.Rand) {
	var high []int
	for i := range m.Hexes {
		if m.Hexes[i].Elevation > lavaMinElevation {
			high = append(high, i)
		}
	}
	volcanoes := make([]volcano, rng.Intn(11))
	if len(high) == 0 {
		volcanoes = nil
	}
	for v := range volcanoes {
		volcanoes[v] = volcano{
			center: high[rng.Intn(len(high))],
			size:   rng.Intn(5) + 1,
			height: rng.Intn(41) + 30,
		}
	}
	slog.Debug("placing volcanoes", "count", len(volcanoes))

	for _, v := range volcanoes {
		m.raiseVolcano(v)
		m.flowLava(v.center)
	}
}

func (m *Map) raiseVolcano(v volcano) {
	base := m.Hexes[v.center].Elevation
	var cone []int
	for ring := v.size; ring >= 1; ring-- {
		lift := int(math.Round(float64(v.height) / float64(ring)))
		var hexes []int
		if ring == 1 {
			n := m.neighbors[v.center]
			hexes = append(n[:], v.center)
		} else {
			hexes = m.Bubble(v.center, ring)
		}
		for _, i := range hexes {
			cone = append(cone, i)
			m.Hexes[i].Elevation = clampElevation(base + lift)
			m.Hexes[i].AddFeature(FeatureVolcano)
		}
	}

	last := 0
	for _, i := range cone[:int(math.Round(float64(len(cone))/2))] {
		for _, n := range m.neighbors[i] {
			h := &m.Hexes[n]
			if h.HasFeature(FeatureVolcano) {
				continue
			}
			h.AddFeature(FeatureVolcano)
			h.Elevation = clampElevation(h.Elevation + 5)
			last = h.Elevation
		}
	}
	m.Hexes[v.center].Elevation = clampElevation(m.Hexes[v.center].Elevation + last + 5)
}

// flowLava marks the path lava takes from start. Each hex hands the flow to its
// lowest unflowed neighbor at or below it when it has at least two, and also
// to the second lowest when it has three or more.
func (m *Map) flowLava(start int) {
	stack := []int{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		h := &m.Hexes[cur]
		if h.Elevation < lavaMinElevation || (cur != start && h.HasFeature(FeatureLavaFlow)) {
			continue
		}
		h.AddFeature(FeatureLavaFlow)

		var found []int
		for _, n := range m.neighbors[cur] {
			if m.Hexes[n].Elevation <= h.Elevation && !m.Hexes[n].HasFeature(FeatureLavaFlow) {
				found = append(found, n)
			}
		}
		sort.SliceStable(found, func(a, b int) bool {
			return m.Hexes[found[a]].Elevation < m.Hexes[found[b]].Elevation
		})
		// Second lowest is pushed first so the lowest is followed first.
		if len(found) > 2 {
			stack = append(stack, found[1])
		}
		if len(found) > 1 {
			stack = append(stack, found[0])
		}
	}
}

package world

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
)

// TerritoryGroup is one connected block of a territory's land.
type TerritoryGroup struct {
	Size int `json:"size"`
	Row  int `json:"row"` // Centroid, rounded
	Col  int `json:"col"`
}

// Territory is a political region grown from a seed hex.
type Territory struct {
	ID      int              `json:"id"`
	Color   RGB              `json:"color"`
	Main    int              `json:"main"`    // Seed hex index
	Members []int            `json:"members"` // Hex indices, in claim order
	Groups  []TerritoryGroup `json:"groups"`

	frontier []int
}

// Size returns the number of member hexes.
func (t *Territory) Size() int {
	return len(t.Members)
}

// Territory returns the territory with the given ID.
func (m *Map) Territory(id int) (*Territory, error) {
	for _, t := range m.Territories {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("territory %d: %w", id, ErrNotFound)
}

// generateTerritories seeds the requested territories on land, grows them in
// shuffled rounds, merges the frozen ones per hemisphere and records their
// connected groups.
func (m *Map) generateTerritories(rng *rand.Rand) {
	k := m.Cfg.NumTerritories
	if k == 0 {
		return
	}

	var land []int
	for i := range m.Hexes {
		if m.IsLand(i) {
			land = append(land, i)
		}
	}
	if len(land) == 0 {
		slog.Debug("no land for territories", "requested", k)
		return
	}
	if k > len(land) {
		k = len(land)
	}
	slog.Debug("making territories", "count", k)

	for id := 0; id < k; id++ {
		j := id + rng.Intn(len(land)-id)
		land[id], land[j] = land[j], land[id]
		seed := land[id]
		t := &Territory{
			ID:       id,
			Color:    RGB{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))},
			Main:     seed,
			Members:  []int{seed},
			frontier: []int{seed},
		}
		m.Hexes[seed].Territory = id
		m.Territories = append(m.Territories, t)
	}

	m.growTerritories(rng, len(land))
	m.stripWater()
	m.mergePolarTerritories(rng)

	for _, t := range m.Territories {
		m.findGroups(t, rng)
	}
}

// growTerritories expands every territory one ring per round from the hexes it
// claimed last round. Order is reshuffled each round.
func (m *Map) growTerritories(rng *rand.Rand, landCount int) {
	order := make([]*Territory, len(m.Territories))
	copy(order, m.Territories)
	claimed := len(order)

	rounds := 0
	for claimed < landCount {
		rounds++
		rng.Shuffle(len(order), func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})

		grew := false
		for _, t := range order {
			var added []int
			for _, f := range t.frontier {
				for _, n := range m.neighbors[f] {
					h := &m.Hexes[n]
					if h.IsOwned() || !m.IsLand(n) {
						continue
					}
					h.Territory = t.ID
					t.Members = append(t.Members, n)
					added = append(added, n)
				}
			}
			t.frontier = added
			claimed += len(added)
			if len(added) > 0 {
				grew = true
			}
		}
		if !grew {
			break
		}
	}
	slog.Debug("territories grown", "rounds", rounds, "claimed", claimed, "land", landCount)
}

// stripWater releases any water hex a territory holds.
func (m *Map) stripWater() {
	for _, t := range m.Territories {
		kept := t.Members[:0]
		for _, i := range t.Members {
			if m.IsLand(i) {
				kept = append(kept, i)
				continue
			}
			m.Hexes[i].Territory = NoTerritory
		}
		t.Members = kept
	}
}

// mergePolarTerritories folds all territories with a sub-zero average
// temperature into one per hemisphere and drops the emptied ones.
func (m *Map) mergePolarTerritories(rng *rand.Rand) {
	var north, south []*Territory
	for _, t := range m.Territories {
		if t.Size() == 0 || t.AvgTemperature(m) >= 0 {
			continue
		}
		rowSum := 0
		for _, i := range t.Members {
			rowSum += m.Hexes[i].Coord.Row
		}
		meanRow := math.Round(float64(rowSum) / float64(t.Size()))
		if meanRow/float64(m.Size) < 0.5 {
			north = append(north, t)
		} else {
			south = append(south, t)
		}
	}

	for _, frozen := range [][]*Territory{north, south} {
		if len(frozen) == 0 {
			continue
		}
		sink := frozen[rng.Intn(len(frozen))]
		for _, t := range frozen {
			if t == sink {
				continue
			}
			for _, i := range t.Members {
				m.Hexes[i].Territory = sink.ID
			}
			sink.Members = append(sink.Members, t.Members...)
			t.Members = nil
		}
		slog.Debug("merged polar territories", "into", sink.ID, "count", len(frozen))
	}

	kept := m.Territories[:0]
	for _, t := range m.Territories {
		if t.Size() > 0 {
			kept = append(kept, t)
		}
	}
	m.Territories = kept
}

// findGroups splits a territory into connected blocks of land, starting each
// block from a random unvisited member. Adjacency does not wrap around the map.
func (m *Map) findGroups(t *Territory, rng *rand.Rand) {
	marked := make(map[int]bool, t.Size())
	t.Groups = nil

	for len(marked) < t.Size() {
		var unmarked []int
		for _, i := range t.Members {
			if !marked[i] {
				unmarked = append(unmarked, i)
			}
		}
		start := unmarked[rng.Intn(len(unmarked))]

		size, rowSum, colSum := 0, 0, 0
		stack := []int{start}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if marked[cur] {
				continue
			}
			marked[cur] = true
			size++
			rowSum += m.Hexes[cur].Coord.Row
			colSum += m.Hexes[cur].Coord.Col

			for _, n := range m.surroundingNoWrap(cur) {
				if !marked[n] && m.IsLand(n) && m.Hexes[n].Territory == t.ID {
					stack = append(stack, n)
				}
			}
		}
		t.Groups = append(t.Groups, TerritoryGroup{
			Size: size,
			Row:  int(math.Round(float64(rowSum) / float64(size))),
			Col:  int(math.Round(float64(colSum) / float64(size))),
		})
	}
}

// Landlocked reports whether no member touches water.
func (t *Territory) Landlocked(m *Map) bool {
	for _, i := range t.Members {
		for _, n := range m.neighbors[i] {
			if !m.IsLand(n) {
				return false
			}
		}
	}
	return true
}

// Neighbors returns the sorted IDs of territories bordering this one.
func (t *Territory) Neighbors(m *Map) []int {
	seen := make(map[int]bool)
	for _, i := range t.Members {
		for _, n := range m.neighbors[i] {
			h := m.Hexes[n]
			if m.IsLand(n) && h.IsOwned() && h.Territory != t.ID {
				seen[h.Territory] = true
			}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AvgTemperature returns the mean member temperature, rounded to 2 decimals.
func (t *Territory) AvgTemperature(m *Map) float64 {
	if t.Size() == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range t.Members {
		sum += m.Temperature(i)
	}
	return round2(sum / float64(t.Size()))
}

// AvgMoisture returns the mean member moisture, rounded to 2 decimals.
func (t *Territory) AvgMoisture(m *Map) float64 {
	if t.Size() == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range t.Members {
		sum += m.Hexes[i].Moisture
	}
	return round2(sum / float64(t.Size()))
}

// BiomeCount is one entry of a territory's biome breakdown.
type BiomeCount struct {
	Biome   Biome   `json:"biome"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Biomes returns the member biomes, most common first.
func (t *Territory) Biomes(m *Map) ([]BiomeCount, error) {
	counts := make(map[Biome]int)
	for _, i := range t.Members {
		b, err := m.Biome(i)
		if err != nil {
			return nil, fmt.Errorf("territory %d: %w", t.ID, err)
		}
		counts[b]++
	}
	out := make([]BiomeCount, 0, len(counts))
	for b, c := range counts {
		out = append(out, BiomeCount{
			Biome:   b,
			Count:   c,
			Percent: round2(float64(c) / float64(t.Size()) * 100),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Biome < out[b].Biome
	})
	return out, nil
}

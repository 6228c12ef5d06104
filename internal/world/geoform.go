package world

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
)

// GeoformType classifies a landmass, water body or single-hex feature.
type GeoformType uint8

const (
	GeoformContinent GeoformType = iota
	GeoformLargeIsland
	GeoformSmallIsland
	GeoformPeninsula
	GeoformIsthmus
	GeoformOcean
	GeoformSea
	GeoformLake
	GeoformBay
	GeoformStrait
)

var geoformNames = [...]string{
	GeoformContinent:   "continent",
	GeoformLargeIsland: "large_island",
	GeoformSmallIsland: "small_island",
	GeoformPeninsula:   "peninsula",
	GeoformIsthmus:     "isthmus",
	GeoformOcean:       "ocean",
	GeoformSea:         "sea",
	GeoformLake:        "lake",
	GeoformBay:         "bay",
	GeoformStrait:      "strait",
}

func (t GeoformType) String() string {
	if int(t) < len(geoformNames) {
		return geoformNames[t]
	}
	return "unknown"
}

// MarshalText encodes the type by name.
func (t GeoformType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a geoform type name.
func (t *GeoformType) UnmarshalText(text []byte) error {
	i, err := parseName("geoform type", text, len(geoformNames), func(i int) string { return geoformNames[i] })
	if err != nil {
		return err
	}
	*t = GeoformType(i)
	return nil
}

// IsLand reports whether the type describes land.
func (t GeoformType) IsLand() bool {
	return t <= GeoformIsthmus
}

// IsIsland reports whether the type is a small or large island.
func (t GeoformType) IsIsland() bool {
	return t == GeoformSmallIsland || t == GeoformLargeIsland
}

// Size thresholds for flood-filled regions.
const (
	smallIslandMax = 25
	largeIslandMax = 100
	lakeMax        = 3
	seaMax         = 100
)

// Geoform is a classified region of connected hexes.
type Geoform struct {
	ID        uuid.UUID   `json:"id"`
	Type      GeoformType `json:"type"`
	Members   []int       `json:"members"`   // Hex indices, ascending
	Neighbors []int       `json:"neighbors"` // Indices into Map.Geoforms, ascending

	adjacent map[int]bool
	deleted  bool
}

// Size returns the number of member hexes.
func (g *Geoform) Size() int {
	return len(g.Members)
}

// GeoformByID looks up a geoform by its ID.
func (m *Map) GeoformByID(id uuid.UUID) (*Geoform, error) {
	for _, g := range m.Geoforms {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("geoform %s: %w", id, ErrNotFound)
}

// classifier holds geoforms while they are being merged. Handles are indices
// into forms; merged-away geoforms stay in place, flagged deleted.
type classifier struct {
	m     *Map
	forms []*Geoform
}

// classifyGeoforms assigns every hex to exactly one geoform.
func (m *Map) classifyGeoforms() {
	c := &classifier{m: m}
	for i := range m.Hexes {
		m.Hexes[i].Geoform = NoGeoform
	}
	c.detectFeatures()
	c.floodFill()
	c.rebuildNeighbors()

	passes := []func(){
		c.mergeSameType,
		c.absorbIsthmusIntoIsland,
		c.mergeSmallIntoLarge,
		c.joinContinents,
		c.settlePeninsulas,
	}
	for _, pass := range passes {
		pass()
		c.rebuildNeighbors()
	}
	c.compact()
	slog.Debug("geoforms classified", "count", len(m.Geoforms))
}

func (c *classifier) add(t GeoformType, members []int) int {
	idx := len(c.forms)
	c.forms = append(c.forms, &Geoform{Type: t, Members: members, adjacent: make(map[int]bool)})
	for _, i := range members {
		c.m.Hexes[i].Geoform = idx
	}
	return idx
}

// detectFeatures marks isthmuses, peninsulas, bays and straits as single-hex
// geoforms before any flood fill.
func (c *classifier) detectFeatures() {
	m := c.m
	for i := range m.Hexes {
		land := m.IsLand(i)
		var same, other []Side
		for _, s := range Sides {
			if m.IsLand(m.neighbors[i][s]) == land {
				same = append(same, s)
			} else {
				other = append(other, s)
			}
		}

		switch {
		case land && len(other) == 2 && other[0].Opposite() == other[1]:
			c.add(GeoformIsthmus, []int{i})
		case land && len(same) == 1:
			c.add(GeoformPeninsula, []int{i})
		case !land && len(same) == 1:
			c.add(GeoformBay, []int{i})
		case !land && len(same) == 2 && same[0].Opposite() == same[1]:
			c.add(GeoformStrait, []int{i})
		}
	}
}

// floodFill groups the remaining hexes into connected land or water regions.
func (c *classifier) floodFill() {
	m := c.m
	for start := range m.Hexes {
		if m.Hexes[start].Geoform != NoGeoform {
			continue
		}
		land := m.IsLand(start)
		seen := map[int]bool{start: true}
		region := []int{}
		stack := []int{start}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			region = append(region, cur)
			for _, n := range m.neighbors[cur] {
				if seen[n] || m.Hexes[n].Geoform != NoGeoform || m.IsLand(n) != land {
					continue
				}
				seen[n] = true
				stack = append(stack, n)
			}
		}
		sort.Ints(region)
		c.add(regionType(land, len(region)), region)
	}
}

func regionType(land bool, size int) GeoformType {
	if land {
		switch {
		case size < smallIslandMax:
			return GeoformSmallIsland
		case size < largeIslandMax:
			return GeoformLargeIsland
		default:
			return GeoformContinent
		}
	}
	switch {
	case size < lakeMax:
		return GeoformLake
	case size < seaMax:
		return GeoformSea
	default:
		return GeoformOcean
	}
}

// rebuildNeighbors recomputes geoform adjacency from hex adjacency.
func (c *classifier) rebuildNeighbors() {
	for _, g := range c.forms {
		g.adjacent = make(map[int]bool)
	}
	m := c.m
	for i := range m.Hexes {
		a := m.Hexes[i].Geoform
		for _, n := range m.neighbors[i] {
			b := m.Hexes[n].Geoform
			if a != b {
				c.forms[a].adjacent[b] = true
				c.forms[b].adjacent[a] = true
			}
		}
	}
}

func (c *classifier) live(idx int) bool {
	return !c.forms[idx].deleted
}

// neighbors returns the live neighbors of idx in ascending order, optionally
// filtered by type.
func (c *classifier) neighbors(idx int, types ...GeoformType) []int {
	var out []int
	for n := range c.forms[idx].adjacent {
		if !c.live(n) {
			continue
		}
		if len(types) > 0 && !hasType(c.forms[n].Type, types) {
			continue
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func hasType(t GeoformType, types []GeoformType) bool {
	for _, x := range types {
		if t == x {
			return true
		}
	}
	return false
}

// merge moves src's hexes into dst and tombstones src.
func (c *classifier) merge(dst, src int) {
	if dst == src || !c.live(dst) || !c.live(src) {
		return
	}
	d, s := c.forms[dst], c.forms[src]
	for _, i := range s.Members {
		c.m.Hexes[i].Geoform = dst
	}
	d.Members = append(d.Members, s.Members...)
	s.Members = nil
	s.deleted = true

	for n := range s.adjacent {
		delete(c.forms[n].adjacent, src)
		if n != dst {
			d.adjacent[n] = true
			c.forms[n].adjacent[dst] = true
		}
	}
	s.adjacent = make(map[int]bool)
}

// mergeSameType joins touching geoforms of the same type until none remain.
func (c *classifier) mergeSameType() {
	for changed := true; changed; {
		changed = false
		for idx := range c.forms {
			if !c.live(idx) {
				continue
			}
			for _, n := range c.neighbors(idx, c.forms[idx].Type) {
				c.merge(idx, n)
				changed = true
			}
		}
	}
}

// absorbIsthmusIntoIsland turns a small island hanging off a larger landmass
// by a single isthmus into a peninsula.
func (c *classifier) absorbIsthmusIntoIsland() {
	for idx, g := range c.forms {
		if !c.live(idx) || g.Type != GeoformIsthmus {
			continue
		}
		small := c.neighbors(idx, GeoformSmallIsland)
		mainland := c.neighbors(idx, GeoformContinent, GeoformLargeIsland)
		if len(small) != 1 || len(mainland) != 1 {
			continue
		}
		if len(c.neighbors(mainland[0])) < 2 {
			continue
		}
		island := small[0]
		if len(c.neighbors(island, GeoformIsthmus)) != 1 {
			continue
		}
		c.merge(island, idx)
		c.forms[island].Type = GeoformPeninsula
	}
}

// mergeSmallIntoLarge folds small islands into a touching large island.
func (c *classifier) mergeSmallIntoLarge() {
	for idx, g := range c.forms {
		if !c.live(idx) || g.Type != GeoformSmallIsland {
			continue
		}
		if large := c.neighbors(idx, GeoformLargeIsland); len(large) > 0 {
			c.merge(large[0], idx)
		}
	}
}

// joinContinents merges islands tied to continents by isthmuses into the
// continent, along with the isthmuses. Several continents reached from the
// same island become one.
func (c *classifier) joinContinents() {
	for idx, g := range c.forms {
		if !c.live(idx) || !g.Type.IsIsland() {
			continue
		}
		var bridges []int
		continents := make(map[int]bool)
		for _, isth := range c.neighbors(idx, GeoformIsthmus) {
			reached := c.neighbors(isth, GeoformContinent)
			if len(reached) == 0 {
				continue
			}
			bridges = append(bridges, isth)
			for _, k := range reached {
				continents[k] = true
			}
		}
		if len(continents) == 0 {
			continue
		}
		targets := make([]int, 0, len(continents))
		for k := range continents {
			targets = append(targets, k)
		}
		sort.Ints(targets)

		dst := targets[0]
		for _, k := range targets[1:] {
			c.merge(dst, k)
		}
		for _, b := range bridges {
			c.merge(dst, b)
		}
		c.merge(dst, idx)
	}
}

// settlePeninsulas lets a peninsula absorb its only isthmus, then demotes
// two-hex peninsulas with no land around them to small islands.
func (c *classifier) settlePeninsulas() {
	for idx, g := range c.forms {
		if !c.live(idx) || g.Type != GeoformPeninsula {
			continue
		}
		if isth := c.neighbors(idx, GeoformIsthmus); len(isth) == 1 {
			c.merge(idx, isth[0])
		}
	}
	landTypes := []GeoformType{
		GeoformContinent, GeoformLargeIsland, GeoformSmallIsland, GeoformPeninsula, GeoformIsthmus,
	}
	for idx, g := range c.forms {
		if !c.live(idx) || g.Type != GeoformPeninsula {
			continue
		}
		if g.Size() == 2 && len(c.neighbors(idx, landTypes...)) == 0 {
			g.Type = GeoformSmallIsland
		}
	}
}

// compact drops tombstoned geoforms, renumbers hex handles and assigns IDs
// derived from the seed so reruns produce the same IDs.
func (c *classifier) compact() {
	m := c.m
	remap := make(map[int]int, len(c.forms))
	m.Geoforms = m.Geoforms[:0]
	for idx, g := range c.forms {
		if g.deleted {
			continue
		}
		remap[idx] = len(m.Geoforms)
		m.Geoforms = append(m.Geoforms, g)
	}

	for newIdx, g := range m.Geoforms {
		sort.Ints(g.Members)
		for _, i := range g.Members {
			m.Hexes[i].Geoform = newIdx
		}
		g.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("hexworld:%d:%d", m.Cfg.Seed, newIdx)))
	}
	for _, g := range m.Geoforms {
		g.Neighbors = make([]int, 0, len(g.adjacent))
		for n := range g.adjacent {
			if to, ok := remap[n]; ok {
				g.Neighbors = append(g.Neighbors, to)
			}
		}
		sort.Ints(g.Neighbors)
		g.adjacent = nil
	}
}

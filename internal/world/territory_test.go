package world

import (
	"errors"
	"math"
	"testing"
)

func TestTerritories_PartitionLand(t *testing.T) {
	m := generate(t, nil)
	if len(m.Territories) == 0 {
		t.Fatal("no territories generated")
	}

	owner := make(map[int]int)
	ids := make(map[int]bool)
	for _, ter := range m.Territories {
		if ids[ter.ID] {
			t.Fatalf("duplicate territory id %d", ter.ID)
		}
		ids[ter.ID] = true
		if ter.Size() == 0 {
			t.Fatalf("territory %d is empty", ter.ID)
		}
		for _, i := range ter.Members {
			if prev, ok := owner[i]; ok {
				t.Fatalf("hex %d claimed by %d and %d", i, prev, ter.ID)
			}
			owner[i] = ter.ID
			if !m.IsLand(i) {
				t.Fatalf("territory %d holds water hex %d", ter.ID, i)
			}
			if m.Hexes[i].Territory != ter.ID {
				t.Fatalf("hex %d back-reference %d, want %d", i, m.Hexes[i].Territory, ter.ID)
			}
		}

		groupTotal := 0
		for _, g := range ter.Groups {
			if g.Size < 1 {
				t.Fatalf("territory %d has an empty group", ter.ID)
			}
			groupTotal += g.Size
		}
		if groupTotal != ter.Size() {
			t.Fatalf("territory %d groups cover %d of %d hexes", ter.ID, groupTotal, ter.Size())
		}
	}

	for i := range m.Hexes {
		if _, ok := owner[i]; !ok && m.Hexes[i].IsOwned() {
			t.Fatalf("hex %d claims territory %d but no member list has it", i, m.Hexes[i].Territory)
		}
	}
}

func TestTerritories_None(t *testing.T) {
	m := generate(t, func(c *GenConfig) { c.NumTerritories = 0 })
	if len(m.Territories) != 0 {
		t.Fatalf("territories = %d, want 0", len(m.Territories))
	}
	for i := range m.Hexes {
		if m.Hexes[i].IsOwned() {
			t.Fatalf("hex %d owned with no territories", i)
		}
	}
}

func TestTerritories_CappedByLand(t *testing.T) {
	m := generate(t, func(c *GenConfig) { c.NumTerritories = 100000 })
	land := 0
	for i := range m.Hexes {
		if m.IsLand(i) {
			land++
		}
	}
	if len(m.Territories) > land {
		t.Fatalf("territories = %d exceed land hexes %d", len(m.Territories), land)
	}
}

func TestTerritory_Lookup(t *testing.T) {
	m := generate(t, nil)
	want := m.Territories[0]
	got, err := m.Territory(want.ID)
	if err != nil || got != want {
		t.Fatalf("Territory(%d) = %v, %v", want.ID, got, err)
	}
	if _, err := m.Territory(-5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTerritory_Reports(t *testing.T) {
	m := generate(t, nil)
	for _, ter := range m.Territories {
		nbrs := ter.Neighbors(m)
		for k, id := range nbrs {
			if id == ter.ID {
				t.Fatalf("territory %d lists itself as neighbor", ter.ID)
			}
			if k > 0 && nbrs[k-1] >= id {
				t.Fatalf("territory %d neighbors not sorted: %v", ter.ID, nbrs)
			}
			other, err := m.Territory(id)
			if err != nil {
				t.Fatal(err)
			}
			found := false
			for _, back := range other.Neighbors(m) {
				if back == ter.ID {
					found = true
				}
			}
			if !found {
				t.Fatalf("territory %d borders %d but not the reverse", ter.ID, id)
			}
		}

		biomes, err := ter.Biomes(m)
		if err != nil {
			t.Fatal(err)
		}
		count := 0
		for k, b := range biomes {
			count += b.Count
			if k > 0 && biomes[k-1].Count < b.Count {
				t.Fatalf("territory %d biomes not sorted by count", ter.ID)
			}
		}
		if count != ter.Size() {
			t.Fatalf("territory %d biome counts %d, size %d", ter.ID, count, ter.Size())
		}

		if avg := ter.AvgMoisture(m); avg < 0 {
			t.Fatalf("territory %d average moisture %v", ter.ID, avg)
		}
	}
}

func TestTerritory_LandlockedNoWaterNeighbor(t *testing.T) {
	m := generate(t, nil)
	for _, ter := range m.Territories {
		if !ter.Landlocked(m) {
			continue
		}
		for _, i := range ter.Members {
			for _, n := range m.Neighbors(i) {
				if !m.IsLand(n) {
					t.Fatalf("landlocked territory %d touches water at %d", ter.ID, n)
				}
			}
		}
	}
}

func TestTerritories_PolarMerge(t *testing.T) {
	m := generate(t, func(c *GenConfig) {
		c.BaseTemp = -30
		c.AvgTemp = -20
		c.NumTerritories = 12
	})

	var north, south int
	for _, ter := range m.Territories {
		if ter.AvgTemperature(m) >= 0 {
			t.Fatalf("territory %d averages %.1f in a frozen world", ter.ID, ter.AvgTemperature(m))
		}
		rowSum := 0
		for _, i := range ter.Members {
			rowSum += m.Hexes[i].Coord.Row
			if m.Hexes[i].Territory != ter.ID {
				t.Fatalf("hex %d back-reference %d, want %d", i, m.Hexes[i].Territory, ter.ID)
			}
		}
		meanRow := math.Round(float64(rowSum) / float64(ter.Size()))
		if meanRow/float64(m.Size) < 0.5 {
			north++
		} else {
			south++
		}
	}
	if north > 1 || south > 1 {
		t.Fatalf("frozen territories: %d north, %d south, want at most one each", north, south)
	}
	if n := len(m.Territories); n < 1 || n > 2 {
		t.Fatalf("territories = %d, want 1 or 2", n)
	}
}

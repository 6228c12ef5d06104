package world

import (
	"math/rand"
	"testing"
)

func TestHeightmap_RangeAndCoverage(t *testing.T) {
	cfg := SmallTestConfig()
	hm := NewHeightmap(cfg, rand.New(rand.NewSource(cfg.Seed)))

	if hm.Size != cfg.Size {
		t.Fatalf("size = %d, want %d", hm.Size, cfg.Size)
	}
	for r := 0; r < hm.Size; r++ {
		for c := 0; c < hm.Size; c++ {
			if !hm.set[r][c] {
				t.Fatalf("cell %d,%d never written", r, c)
			}
			v := hm.HeightAt(r, c)
			if v < cfg.HeightRange[0] || v > cfg.HeightRange[1] {
				t.Fatalf("cell %d,%d = %d outside %v", r, c, v, cfg.HeightRange)
			}
		}
	}
	if hm.LowestHeight > hm.TopHeight {
		t.Fatalf("lowest %d above top %d", hm.LowestHeight, hm.TopHeight)
	}
	if hm.AverageHeight < float64(hm.LowestHeight) || hm.AverageHeight > float64(hm.TopHeight) {
		t.Fatalf("average %.2f outside [%d,%d]", hm.AverageHeight, hm.LowestHeight, hm.TopHeight)
	}
}

func TestHeightmap_TilesEastWest(t *testing.T) {
	cfg := SmallTestConfig()
	hm := NewHeightmap(cfg, rand.New(rand.NewSource(cfg.Seed)))
	last := hm.Size - 1
	// Corners are drawn independently; every other row matches across the seam.
	for r := 1; r < last; r++ {
		if hm.HeightAt(r, 0) != hm.HeightAt(r, last) {
			t.Fatalf("row %d: west %d != east %d", r, hm.HeightAt(r, 0), hm.HeightAt(r, last))
		}
	}
}

func TestHeightmap_Deterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := NewHeightmap(cfg, rand.New(rand.NewSource(7)))
	b := NewHeightmap(cfg, rand.New(rand.NewSource(7)))
	for r := range a.Grid {
		for c := range a.Grid[r] {
			if a.Grid[r][c] != b.Grid[r][c] {
				t.Fatalf("cell %d,%d differs: %d vs %d", r, c, a.Grid[r][c], b.Grid[r][c])
			}
		}
	}
}

func TestHeightmap_CustomRange(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.HeightRange = [2]int{20, 60}
	hm := NewHeightmap(cfg, rand.New(rand.NewSource(3)))
	if hm.LowestHeight < 20 || hm.TopHeight > 60 {
		t.Fatalf("heights [%d,%d] escape [20,60]", hm.LowestHeight, hm.TopHeight)
	}
}

func TestSeaLevelFor(t *testing.T) {
	tests := []struct {
		avg  float64
		sp   int
		want int
	}{
		{100, 50, 100},
		{100, 0, 0},
		{120, 60, 144},
		{80, 100, 255},
		{10.4, 50, 10},
	}
	for _, tt := range tests {
		if got := SeaLevelFor(tt.avg, tt.sp); got != tt.want {
			t.Errorf("SeaLevelFor(%v, %d) = %d, want %d", tt.avg, tt.sp, got, tt.want)
		}
	}
}

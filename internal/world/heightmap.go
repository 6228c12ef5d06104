package world

import (
	"math"
	"math/rand"
)

// Heightmap is a square elevation field built by midpoint displacement.
// Grid is indexed [row][col]. Values written on a boundary are mirrored to
// the opposite boundary so the field tiles east-west.
type Heightmap struct {
	Size int
	Grid [][]int

	TopHeight     int
	LowestHeight  int
	AverageHeight float64
	SeaLevel      int

	lo, hi    int
	roughness float64
	set       [][]bool
}

type region struct {
	x1, y1, x2, y2 int
}

// NewHeightmap generates a heightmap for cfg, drawing from rng.
func NewHeightmap(cfg GenConfig, rng *rand.Rand) *Heightmap {
	n := cfg.Size
	h := &Heightmap{
		Size:      n,
		Grid:      make([][]int, n),
		lo:        cfg.HeightRange[0],
		hi:        cfg.HeightRange[1],
		roughness: cfg.Roughness,
		set:       make([][]bool, n),
	}
	for i := range h.Grid {
		h.Grid[i] = make([]int, n)
		h.set[i] = make([]bool, n)
	}

	span := h.hi - h.lo + 1
	h.put(0, 0, h.lo+rng.Intn(span))
	h.put(n-1, 0, h.lo+rng.Intn(span))
	h.put(0, n-1, h.lo+rng.Intn(span))
	h.put(n-1, n-1, h.lo+rng.Intn(span))

	h.subdivide(rng)
	h.computeStats(cfg.SeaPercent)
	return h
}

// HeightAt returns the elevation at (row, col).
func (h *Heightmap) HeightAt(row, col int) int {
	return h.Grid[row][col]
}

func (h *Heightmap) put(x, y, v int) {
	h.Grid[x][y] = v
	h.set[x][y] = true
}

func (h *Heightmap) clamp(v int) int {
	if v < h.lo {
		return h.lo
	}
	if v > h.hi {
		return h.hi
	}
	return v
}

// subdivide walks the regions depth-first with an explicit stack so the random
// draws happen in the same order a recursive descent would make them.
func (h *Heightmap) subdivide(rng *rand.Rand) {
	stack := []region{{0, 0, h.Size - 1, h.Size - 1}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r.x2-r.x1 < 2 && r.y2-r.y1 < 2 {
			continue
		}
		x := (r.x1 + r.x2) / 2
		y := (r.y1 + r.y2) / 2

		v := (h.Grid[r.x1][r.y1] + h.Grid[r.x2][r.y1] + h.Grid[r.x2][r.y2] + h.Grid[r.x1][r.y2]) / 4
		h.put(x, y, h.clamp(v))

		h.adjust(rng, r.x1, r.y1, x, r.y1, r.x2, r.y1)
		h.adjust(rng, r.x2, r.y1, r.x2, y, r.x2, r.y2)
		h.adjust(rng, r.x1, r.y2, x, r.y2, r.x2, r.y2)
		h.adjust(rng, r.x1, r.y1, r.x1, y, r.x1, r.y2)

		// Pushed in reverse so they pop in visiting order.
		stack = append(stack,
			region{r.x1, y, x, r.y2},
			region{x, y, r.x2, r.y2},
			region{x, r.y1, r.x2, y},
			region{r.x1, r.y1, x, y},
		)
	}
}

// adjust fills an unset edge midpoint from the two corners (xa,ya) and (xb,yb).
func (h *Heightmap) adjust(rng *rand.Rand, xa, ya, x, y, xb, yb int) {
	if h.set[x][y] {
		return
	}
	d := math.Abs(float64(xa-xb)) + math.Abs(float64(ya-yb))
	v := float64(h.Grid[xa][ya]+h.Grid[xb][yb])/2 + (rng.Float64()-0.5)*d*h.roughness
	c := h.clamp(int(math.Mod(math.Abs(v), 257)))

	n := h.Size
	if y == 0 {
		h.put(x, n-1, c)
	}
	if (x == 0 || x == n-1) && y < n-1 {
		h.put(x, n-1-y, c)
	}
	h.put(x, y, c)
}

func (h *Heightmap) computeStats(seaPercent int) {
	h.TopHeight = h.Grid[0][0]
	h.LowestHeight = h.Grid[0][0]
	total := 0.0
	for _, row := range h.Grid {
		sum := 0
		for _, v := range row {
			sum += v
			if v > h.TopHeight {
				h.TopHeight = v
			}
			if v < h.LowestHeight {
				h.LowestHeight = v
			}
		}
		total += float64(sum) / float64(len(row))
	}
	h.AverageHeight = total / float64(len(h.Grid))
	h.SeaLevel = SeaLevelFor(h.AverageHeight, seaPercent)
}

// SeaLevelFor derives the sea level from the average height.
// A sea percent of 100 floods everything.
func SeaLevelFor(averageHeight float64, seaPercent int) int {
	if seaPercent >= 100 {
		return 255
	}
	return int(math.Round(averageHeight * (float64(seaPercent) * 2 / 100)))
}

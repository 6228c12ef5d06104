package world

import (
	"log/slog"
	"math/rand"
)

// ResourceRating grades the richness of a deposit.
type ResourceRating uint8

const (
	RatingPoor ResourceRating = iota
	RatingAverage
	RatingRich
	RatingAbundant
)

// ResourceRatings lists every rating in placement order.
var ResourceRatings = []ResourceRating{RatingPoor, RatingAverage, RatingRich, RatingAbundant}

var ratingInfo = [...]struct {
	name       string
	rarity     int
	multiplier int
}{
	RatingPoor:     {"poor", 10, 4},
	RatingAverage:  {"average", 6, 3},
	RatingRich:     {"rich", 3, 2},
	RatingAbundant: {"abundant", 1, 1},
}

func (r ResourceRating) String() string { return ratingInfo[r].name }

// Rarity is the rating's weight in the placement roll; higher is more common.
func (r ResourceRating) Rarity() int { return ratingInfo[r].rarity }

// Multiplier scales the deposit's base yield.
func (r ResourceRating) Multiplier() int { return ratingInfo[r].multiplier }

// ResourceType enumerates mineral deposits.
type ResourceType uint8

const (
	ResourceIronVein ResourceType = iota
	ResourceCopperVein
	ResourceSilverVein
	ResourceLeadVein
	ResourceAluminumVein
	ResourceTinVein
	ResourceTitaniumVein
	ResourceMagnesiumVein
	ResourceGoldOre
	ResourceChromiteOre
	ResourceMonaziteOre
	ResourceBastnasiteOre
	ResourceXenotimeOre
	ResourceGraphite
	ResourceCoal
	ResourceQuartz
	ResourceUraniumOre
)

// ResourceTypes lists every type in placement order.
var ResourceTypes = []ResourceType{
	ResourceIronVein, ResourceCopperVein, ResourceSilverVein, ResourceLeadVein,
	ResourceAluminumVein, ResourceTinVein, ResourceTitaniumVein, ResourceMagnesiumVein,
	ResourceGoldOre, ResourceChromiteOre, ResourceMonaziteOre, ResourceBastnasiteOre,
	ResourceXenotimeOre, ResourceGraphite, ResourceCoal, ResourceQuartz, ResourceUraniumOre,
}

var resourceInfo = [...]struct {
	name     string
	rarity   int
	yield    int
	material string
	color    RGB
}{
	ResourceIronVein:      {"iron_vein", 15, 1000, "common_metals", RGB{100, 0, 0}},
	ResourceCopperVein:    {"copper_vein", 15, 1000, "common_metals", RGB{0, 100, 0}},
	ResourceSilverVein:    {"silver_vein", 15, 1000, "common_metals", RGB{0, 0, 100}},
	ResourceLeadVein:      {"lead_vein", 15, 1000, "common_metals", RGB{100, 0, 100}},
	ResourceAluminumVein:  {"aluminum_vein", 15, 1000, "common_metals", RGB{50, 150, 50}},
	ResourceTinVein:       {"tin_vein", 15, 1000, "common_metals", RGB{150, 50, 50}},
	ResourceTitaniumVein:  {"titanium_vein", 15, 1000, "common_metals", RGB{200, 50, 200}},
	ResourceMagnesiumVein: {"magnesium_vein", 15, 1000, "common_metals", RGB{50, 200, 50}},
	ResourceGoldOre:       {"gold_ore", 1, 500, "precious_metals", RGB{255, 0, 0}},
	ResourceChromiteOre:   {"chromite_ore", 3, 500, "precious_metals", RGB{255, 255, 0}},
	ResourceMonaziteOre:   {"monazite_ore", 5, 500, "precious_metals", RGB{0, 0, 255}},
	ResourceBastnasiteOre: {"bastnasite_ore", 4, 500, "precious_metals", RGB{0, 125, 200}},
	ResourceXenotimeOre:   {"xenotime_ore", 1, 500, "precious_metals", RGB{200, 125, 0}},
	ResourceGraphite:      {"graphite", 10, 1500, "carbon", RGB{0, 0, 0}},
	ResourceCoal:          {"coal", 30, 1500, "carbon", RGB{255, 255, 255}},
	ResourceQuartz:        {"quartz_vein", 7, 1000, "silicon", RGB{80, 80, 80}},
	ResourceUraniumOre:    {"uranium_ore", 1, 10, "uranium", RGB{255, 50, 50}},
}

func (t ResourceType) String() string { return resourceInfo[t].name }

// Rarity is the type's weight in the placement roll; higher is more common.
func (t ResourceType) Rarity() int { return resourceInfo[t].rarity }

// Material is the broad class the resource belongs to.
func (t ResourceType) Material() string { return resourceInfo[t].material }

// Color is the map color for the resource layer.
func (t ResourceType) Color() RGB { return resourceInfo[t].color }

// Deposit is a resource placed on a hex.
type Deposit struct {
	Type   ResourceType   `json:"type"`
	Rating ResourceRating `json:"rating"`
}

// Yield is the deposit's base yield scaled by its rating.
func (d Deposit) Yield() int {
	return resourceInfo[d.Type].yield * d.Rating.Multiplier()
}

// placementChance is the probability a hex rolls a given rating and type.
func placementChance(r ResourceRating, t ResourceType, size int) float64 {
	s := float64(size)
	return float64(r.Rarity()*t.Rarity()) * s / 1000 / (s * s)
}

// placeResources rolls every rating and type combination on each hex and keeps
// the first that succeeds.
func (m *Map) placeResources(rng *rand.Rand) {
	placed := 0
	for i := range m.Hexes {
	rolls:
		for _, r := range ResourceRatings {
			for _, t := range ResourceTypes {
				if rng.Float64() <= placementChance(r, t, m.Size) {
					m.Hexes[i].Resource = &Deposit{Type: t, Rating: r}
					placed++
					break rolls
				}
			}
		}
	}
	slog.Debug("placed resources", "count", placed)
}

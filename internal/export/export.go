// Package export turns a generated map into a JSON document for renderers
// and game-world loaders.
package export

import (
	"fmt"

	"github.com/talgya/hexworld/internal/world"
)

// Version is bumped whenever the document layout changes.
const Version = 1

// Document is the complete export of one generated map.
type Document struct {
	Version     int               `json:"version"`
	Params      world.GenConfig   `json:"params"`
	Summary     Summary           `json:"summary"`
	Hexes       [][]HexRecord     `json:"hexes"` // [row][col]
	Rivers      [][]RiverRecord   `json:"rivers"`
	Geoforms    []GeoformRecord   `json:"geoforms"`
	Territories []TerritoryRecord `json:"territories"`
}

// Summary holds grid-wide statistics.
type Summary struct {
	Seed          int64   `json:"seed"`
	Size          int     `json:"size"`
	SeaLevel      int     `json:"sea_level"`
	TopHeight     int     `json:"top_height"`
	LowestHeight  int     `json:"lowest_height"`
	AverageHeight float64 `json:"average_height"`
	AvgAltitude   int     `json:"avg_altitude"`
	LandHexes     int     `json:"land_hexes"`
	WaterHexes    int     `json:"water_hexes"`
	Rivers        int     `json:"rivers"`
	Territories   int     `json:"territories"`
	Geoforms      int     `json:"geoforms"`
}

// HexRecord is one hex of the export.
type HexRecord struct {
	Row         int             `json:"row"`
	Col         int             `json:"col"`
	Elevation   int             `json:"elevation"`
	Temperature float64         `json:"temperature"`
	Moisture    float64         `json:"moisture"`
	Latitude    float64         `json:"latitude"`
	Zone        world.Zone      `json:"zone"`
	Biome       world.Biome     `json:"biome"`
	IsLand      bool            `json:"is_land"`
	IsCoast     bool            `json:"is_coast"`
	IsInland    bool            `json:"is_inland"`
	Distance    int             `json:"distance"`
	Geoform     string          `json:"geoform"`
	Territory   int             `json:"territory"`
	Resource    *ResourceRecord `json:"resource,omitempty"`
	Features    []string        `json:"features"`
	Colors      Colors          `json:"colors"`
	Edges       [6]EdgeRecord   `json:"edges"`
	Climate     *world.Climate  `json:"climate,omitempty"`
}

// ResourceRecord describes a deposit by name.
type ResourceRecord struct {
	Type     string `json:"type"`
	Rating   string `json:"rating"`
	Material string `json:"material"`
	Yield    int    `json:"yield"`
}

// Colors are the precomputed map colors of a hex.
type Colors struct {
	Terrain world.RGB `json:"terrain"`
	Biome   world.RGB `json:"biome"`
	Rivers  world.RGB `json:"rivers"`
}

// EdgeRecord is one side of a hex.
type EdgeRecord struct {
	Side  world.Side `json:"side"`
	River bool       `json:"river"`
	Coast bool       `json:"coast"`
	Delta int        `json:"delta"`
}

// RiverRecord is one segment of a river.
type RiverRecord struct {
	Row  int        `json:"row"`
	Col  int        `json:"col"`
	Side world.Side `json:"side"`
}

// GeoformRecord summarizes a geoform.
type GeoformRecord struct {
	ID        string            `json:"id"`
	Type      world.GeoformType `json:"type"`
	Size      int               `json:"size"`
	Neighbors []string          `json:"neighbors"`
}

// TerritoryRecord summarizes a territory.
type TerritoryRecord struct {
	ID             int                    `json:"id"`
	Color          world.RGB              `json:"color"`
	Size           int                    `json:"size"`
	Landlocked     bool                   `json:"landlocked"`
	AvgTemperature float64                `json:"avg_temperature"`
	AvgMoisture    float64                `json:"avg_moisture"`
	Neighbors      []int                  `json:"neighbors"`
	Groups         []world.TerritoryGroup `json:"groups"`
	Biomes         []world.BiomeCount     `json:"biomes"`
}

// Build assembles the export document. It fails if any hex cannot be
// classified into a biome.
func Build(m *world.Map) (*Document, error) {
	doc := &Document{
		Version: Version,
		Params:  m.Cfg,
		Summary: Summary{
			Seed:          m.Cfg.Seed,
			Size:          m.Size,
			SeaLevel:      m.SeaLevel,
			TopHeight:     m.TopHeight,
			LowestHeight:  m.LowestHeight,
			AverageHeight: m.AverageHeight,
			AvgAltitude:   m.AvgAltitude,
			Rivers:        len(m.Rivers),
			Territories:   len(m.Territories),
			Geoforms:      len(m.Geoforms),
		},
		Hexes:       make([][]HexRecord, m.Size),
		Rivers:      make([][]RiverRecord, 0, len(m.Rivers)),
		Geoforms:    make([]GeoformRecord, 0, len(m.Geoforms)),
		Territories: make([]TerritoryRecord, 0, len(m.Territories)),
	}

	for row := 0; row < m.Size; row++ {
		doc.Hexes[row] = make([]HexRecord, m.Size)
		for col := 0; col < m.Size; col++ {
			rec, err := Hex(m, m.Index(row, col))
			if err != nil {
				return nil, fmt.Errorf("export: %w", err)
			}
			if rec.IsLand {
				doc.Summary.LandHexes++
			} else {
				doc.Summary.WaterHexes++
			}
			doc.Hexes[row][col] = rec
		}
	}

	for _, src := range m.Rivers {
		var river []RiverRecord
		for _, seg := range src.Segments() {
			river = append(river, RiverRecord{Row: seg.Coord.Row, Col: seg.Coord.Col, Side: seg.Side})
		}
		doc.Rivers = append(doc.Rivers, river)
	}

	for _, g := range m.Geoforms {
		doc.Geoforms = append(doc.Geoforms, Geoform(m, g))
	}

	for _, t := range m.Territories {
		rec, err := Territory(m, t)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		doc.Territories = append(doc.Territories, rec)
	}
	return doc, nil
}

// Geoform summarizes one geoform; neighbors are listed by ID.
func Geoform(m *world.Map, g *world.Geoform) GeoformRecord {
	rec := GeoformRecord{
		ID:        g.ID.String(),
		Type:      g.Type,
		Size:      g.Size(),
		Neighbors: make([]string, 0, len(g.Neighbors)),
	}
	for _, n := range g.Neighbors {
		rec.Neighbors = append(rec.Neighbors, m.Geoforms[n].ID.String())
	}
	return rec
}

// Territory summarizes one territory with its report accessors.
func Territory(m *world.Map, t *world.Territory) (TerritoryRecord, error) {
	biomes, err := t.Biomes(m)
	if err != nil {
		return TerritoryRecord{}, err
	}
	return TerritoryRecord{
		ID:             t.ID,
		Color:          t.Color,
		Size:           t.Size(),
		Landlocked:     t.Landlocked(m),
		AvgTemperature: t.AvgTemperature(m),
		AvgMoisture:    t.AvgMoisture(m),
		Neighbors:      t.Neighbors(m),
		Groups:         t.Groups,
		Biomes:         biomes,
	}, nil
}

// Hex builds the record for hex i.
func Hex(m *world.Map, i int) (HexRecord, error) {
	h := m.At(i)
	biome, err := m.Biome(i)
	if err != nil {
		return HexRecord{}, err
	}
	biomeColor, err := m.BiomeColor(i)
	if err != nil {
		return HexRecord{}, err
	}

	rec := HexRecord{
		Row:         h.Coord.Row,
		Col:         h.Coord.Col,
		Elevation:   h.Elevation,
		Temperature: m.Temperature(i),
		Moisture:    h.Moisture,
		Latitude:    m.Latitude(i),
		Zone:        m.Zone(i),
		Biome:       biome,
		IsLand:      m.IsLand(i),
		IsCoast:     m.IsCoast(i),
		IsInland:    m.IsInland(i),
		Distance:    h.Distance,
		Territory:   h.Territory,
		Features:    h.Features.Names(),
		Colors: Colors{
			Terrain: m.TerrainColor(i),
			Biome:   biomeColor,
			Rivers:  m.RiverColor(i),
		},
		Climate: h.Climate,
	}
	if h.Geoform != world.NoGeoform {
		rec.Geoform = m.Geoforms[h.Geoform].ID.String()
	}
	if d := h.Resource; d != nil {
		rec.Resource = &ResourceRecord{
			Type:     d.Type.String(),
			Rating:   d.Rating.String(),
			Material: d.Type.Material(),
			Yield:    d.Yield(),
		}
	}
	for _, s := range world.Sides {
		e := h.Edge(s)
		rec.Edges[s] = EdgeRecord{
			Side:  s,
			River: e.River,
			Coast: m.IsCoastEdge(e),
			Delta: e.Delta,
		}
	}
	return rec, nil
}

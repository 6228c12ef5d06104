// Package persistence provides SQLite storage for generated worlds.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexworld/internal/export"
	"github.com/talgya/hexworld/internal/world"
)

// DB wraps a SQLite connection holding one generated world.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS hexes (
		row INTEGER NOT NULL,
		col INTEGER NOT NULL,
		elevation INTEGER NOT NULL,
		temperature REAL NOT NULL,
		moisture REAL NOT NULL,
		distance INTEGER NOT NULL,
		biome TEXT NOT NULL,
		is_land INTEGER NOT NULL,
		is_coast INTEGER NOT NULL,
		geoform_id TEXT NOT NULL,
		territory_id INTEGER NOT NULL,
		resource TEXT,
		resource_rating TEXT,
		features_json TEXT NOT NULL,
		river_sides INTEGER NOT NULL,
		PRIMARY KEY (row, col)
	);

	CREATE TABLE IF NOT EXISTS territories (
		id INTEGER PRIMARY KEY,
		color_json TEXT NOT NULL,
		size INTEGER NOT NULL,
		landlocked INTEGER NOT NULL,
		avg_temperature REAL NOT NULL,
		avg_moisture REAL NOT NULL,
		neighbors_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS territory_groups (
		territory_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		size INTEGER NOT NULL,
		row INTEGER NOT NULL,
		col INTEGER NOT NULL,
		PRIMARY KEY (territory_id, seq)
	);

	CREATE TABLE IF NOT EXISTS geoforms (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		size INTEGER NOT NULL,
		neighbors_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rivers (
		river_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		row INTEGER NOT NULL,
		col INTEGER NOT NULL,
		side TEXT NOT NULL,
		PRIMARY KEY (river_id, seq)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_hexes_territory ON hexes(territory_id);
	CREATE INDEX IF NOT EXISTS idx_hexes_geoform ON hexes(geoform_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HexRow is one stored hex.
type HexRow struct {
	Row            int     `db:"row" json:"row"`
	Col            int     `db:"col" json:"col"`
	Elevation      int     `db:"elevation" json:"elevation"`
	Temperature    float64 `db:"temperature" json:"temperature"`
	Moisture       float64 `db:"moisture" json:"moisture"`
	Distance       int     `db:"distance" json:"distance"`
	Biome          string  `db:"biome" json:"biome"`
	IsLand         bool    `db:"is_land" json:"is_land"`
	IsCoast        bool    `db:"is_coast" json:"is_coast"`
	GeoformID      string  `db:"geoform_id" json:"geoform_id"`
	TerritoryID    int     `db:"territory_id" json:"territory_id"`
	Resource       *string `db:"resource" json:"resource,omitempty"`
	ResourceRating *string `db:"resource_rating" json:"resource_rating,omitempty"`
	FeaturesJSON   string  `db:"features_json" json:"-"`
	RiverSides     int     `db:"river_sides" json:"-"` // Bit s set when side s carries a river
}

// Features decodes the stored feature names.
func (h HexRow) Features() ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(h.FeaturesJSON), &names); err != nil {
		return nil, fmt.Errorf("hex %d,%d features: %w", h.Row, h.Col, err)
	}
	return names, nil
}

// Rivers returns the sides of the hex that carry a river.
func (h HexRow) Rivers() []world.Side {
	var sides []world.Side
	for _, s := range world.Sides {
		if h.RiverSides&(1<<s) != 0 {
			sides = append(sides, s)
		}
	}
	return sides
}

// TerritoryRow is one stored territory summary.
type TerritoryRow struct {
	ID             int     `db:"id"`
	ColorJSON      string  `db:"color_json"`
	Size           int     `db:"size"`
	Landlocked     bool    `db:"landlocked"`
	AvgTemperature float64 `db:"avg_temperature"`
	AvgMoisture    float64 `db:"avg_moisture"`
	NeighborsJSON  string  `db:"neighbors_json"`
}

// GeoformRow is one stored geoform summary.
type GeoformRow struct {
	ID            string `db:"id"`
	Type          string `db:"type"`
	Size          int    `db:"size"`
	NeighborsJSON string `db:"neighbors_json"`
}

// RiverRow is one stored river segment.
type RiverRow struct {
	RiverID int    `db:"river_id"`
	Seq     int    `db:"seq"`
	Row     int    `db:"row"`
	Col     int    `db:"col"`
	Side    string `db:"side"`
}

// SaveWorld replaces the stored world with doc in a single transaction.
func (db *DB) SaveWorld(doc *export.Document) error {
	slog.Info("saving world",
		"hexes", humanize.Comma(int64(doc.Summary.Size*doc.Summary.Size)),
		"territories", len(doc.Territories),
		"geoforms", len(doc.Geoforms),
		"rivers", len(doc.Rivers),
	)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"hexes", "territories", "territory_groups", "geoforms", "rivers", "world_meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := saveHexes(tx, doc.Hexes); err != nil {
		return fmt.Errorf("save hexes: %w", err)
	}
	if err := saveTerritories(tx, doc.Territories); err != nil {
		return fmt.Errorf("save territories: %w", err)
	}
	if err := saveGeoforms(tx, doc.Geoforms); err != nil {
		return fmt.Errorf("save geoforms: %w", err)
	}
	if err := saveRivers(tx, doc.Rivers); err != nil {
		return fmt.Errorf("save rivers: %w", err)
	}

	params, err := json.Marshal(doc.Params)
	if err != nil {
		return err
	}
	summary, err := json.Marshal(doc.Summary)
	if err != nil {
		return err
	}
	meta := map[string]string{
		"seed":    strconv.FormatInt(doc.Summary.Seed, 10),
		"version": strconv.Itoa(doc.Version),
		"params":  string(params),
		"summary": string(summary),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO world_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("world saved")
	return nil
}

func saveHexes(tx *sqlx.Tx, rows [][]export.HexRecord) error {
	stmt, err := tx.Preparex(`INSERT INTO hexes
		(row, col, elevation, temperature, moisture, distance, biome, is_land, is_coast,
		 geoform_id, territory_id, resource, resource_rating, features_json, river_sides)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		for _, h := range row {
			featuresJSON, _ := json.Marshal(h.Features)

			var resource, rating *string
			if h.Resource != nil {
				resource, rating = &h.Resource.Type, &h.Resource.Rating
			}
			rivers := 0
			for _, e := range h.Edges {
				if e.River {
					rivers |= 1 << e.Side
				}
			}

			_, err := stmt.Exec(
				h.Row, h.Col, h.Elevation, h.Temperature, h.Moisture, h.Distance,
				h.Biome.String(), h.IsLand, h.IsCoast,
				h.Geoform, h.Territory, resource, rating,
				string(featuresJSON), rivers,
			)
			if err != nil {
				return fmt.Errorf("insert hex %d,%d: %w", h.Row, h.Col, err)
			}
		}
	}
	return nil
}

func saveTerritories(tx *sqlx.Tx, territories []export.TerritoryRecord) error {
	stmt, err := tx.Preparex(`INSERT INTO territories
		(id, color_json, size, landlocked, avg_temperature, avg_moisture, neighbors_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	groups, err := tx.Preparex(`INSERT INTO territory_groups
		(territory_id, seq, size, row, col) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer groups.Close()

	for _, t := range territories {
		colorJSON, _ := json.Marshal(t.Color)
		neighborsJSON, _ := json.Marshal(t.Neighbors)
		_, err := stmt.Exec(
			t.ID, string(colorJSON), t.Size, t.Landlocked,
			t.AvgTemperature, t.AvgMoisture, string(neighborsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert territory %d: %w", t.ID, err)
		}
		for seq, g := range t.Groups {
			if _, err := groups.Exec(t.ID, seq, g.Size, g.Row, g.Col); err != nil {
				return fmt.Errorf("insert territory %d group %d: %w", t.ID, seq, err)
			}
		}
	}
	return nil
}

func saveGeoforms(tx *sqlx.Tx, geoforms []export.GeoformRecord) error {
	stmt, err := tx.Preparex(`INSERT INTO geoforms
		(id, type, size, neighbors_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range geoforms {
		neighborsJSON, _ := json.Marshal(g.Neighbors)
		if _, err := stmt.Exec(g.ID, g.Type.String(), g.Size, string(neighborsJSON)); err != nil {
			return fmt.Errorf("insert geoform %s: %w", g.ID, err)
		}
	}
	return nil
}

func saveRivers(tx *sqlx.Tx, rivers [][]export.RiverRecord) error {
	stmt, err := tx.Preparex(`INSERT INTO rivers
		(river_id, seq, row, col, side) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, river := range rivers {
		for seq, seg := range river {
			if _, err := stmt.Exec(id, seq, seg.Row, seg.Col, seg.Side.String()); err != nil {
				return fmt.Errorf("insert river %d segment %d: %w", id, seq, err)
			}
		}
	}
	return nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// Params returns the generation parameters of the stored world.
func (db *DB) Params() (world.GenConfig, error) {
	var cfg world.GenConfig
	raw, err := db.GetMeta("params")
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return cfg, fmt.Errorf("decode params: %w", err)
	}
	return cfg, nil
}

// LoadHexes returns every stored hex in row-major order.
func (db *DB) LoadHexes() ([]HexRow, error) {
	var hexes []HexRow
	err := db.conn.Select(&hexes, "SELECT * FROM hexes ORDER BY row, col")
	return hexes, err
}

// HexAt returns one stored hex.
func (db *DB) HexAt(row, col int) (HexRow, error) {
	var h HexRow
	err := db.conn.Get(&h, "SELECT * FROM hexes WHERE row = ? AND col = ?", row, col)
	return h, err
}

// TerritoryHexes returns the stored hexes claimed by a territory.
func (db *DB) TerritoryHexes(id int) ([]HexRow, error) {
	var hexes []HexRow
	err := db.conn.Select(&hexes, "SELECT * FROM hexes WHERE territory_id = ? ORDER BY row, col", id)
	return hexes, err
}

// Territories returns the stored territory summaries, groups included.
func (db *DB) Territories() ([]export.TerritoryRecord, error) {
	var rows []TerritoryRow
	if err := db.conn.Select(&rows, "SELECT * FROM territories ORDER BY id"); err != nil {
		return nil, err
	}

	var groups []struct {
		TerritoryID int `db:"territory_id"`
		Seq         int `db:"seq"`
		world.TerritoryGroup
	}
	if err := db.conn.Select(&groups, "SELECT * FROM territory_groups ORDER BY territory_id, seq"); err != nil {
		return nil, err
	}
	byTerritory := make(map[int][]world.TerritoryGroup)
	for _, g := range groups {
		byTerritory[g.TerritoryID] = append(byTerritory[g.TerritoryID], g.TerritoryGroup)
	}

	out := make([]export.TerritoryRecord, 0, len(rows))
	for _, r := range rows {
		t := export.TerritoryRecord{
			ID:             r.ID,
			Size:           r.Size,
			Landlocked:     r.Landlocked,
			AvgTemperature: r.AvgTemperature,
			AvgMoisture:    r.AvgMoisture,
			Groups:         byTerritory[r.ID],
		}
		if err := json.Unmarshal([]byte(r.ColorJSON), &t.Color); err != nil {
			return nil, fmt.Errorf("territory %d color: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.NeighborsJSON), &t.Neighbors); err != nil {
			return nil, fmt.Errorf("territory %d neighbors: %w", r.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Geoforms returns the stored geoform summaries.
func (db *DB) Geoforms() ([]export.GeoformRecord, error) {
	var rows []GeoformRow
	if err := db.conn.Select(&rows, "SELECT * FROM geoforms ORDER BY id"); err != nil {
		return nil, err
	}
	out := make([]export.GeoformRecord, 0, len(rows))
	for _, r := range rows {
		g := export.GeoformRecord{ID: r.ID, Size: r.Size}
		if err := g.Type.UnmarshalText([]byte(r.Type)); err != nil {
			return nil, fmt.Errorf("geoform %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.NeighborsJSON), &g.Neighbors); err != nil {
			return nil, fmt.Errorf("geoform %s neighbors: %w", r.ID, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Rivers returns the stored rivers, each in flow order.
func (db *DB) Rivers() ([][]RiverRow, error) {
	var rows []RiverRow
	if err := db.conn.Select(&rows, "SELECT * FROM rivers ORDER BY river_id, seq"); err != nil {
		return nil, err
	}
	var out [][]RiverRow
	for _, r := range rows {
		if r.Seq == 0 {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], r)
	}
	return out, nil
}

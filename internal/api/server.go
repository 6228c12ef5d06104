// Package api serves a generated world over a read-only HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talgya/hexworld/internal/export"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

// Server serves one generated map.
type Server struct {
	Map *world.Map
	DB  *persistence.DB // Optional; reported in status

	// ExportLimit caps full-document downloads per client per hour.
	ExportLimit int

	docOnce sync.Once
	doc     *export.Document
	docErr  error
}

// NewServer returns a server for m.
func NewServer(m *world.Map, db *persistence.DB) *Server {
	return &Server{Map: m, DB: db, ExportLimit: 30}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	exportLimiter := NewRateLimiter(s.ExportLimit, time.Hour)

	r := chi.NewRouter()
	r.Use(recovery)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/hexes/{row}/{col}", s.handleHex)
		r.Get("/hexes/{row}/{col}/rivers", s.handleHexRivers)
		r.Get("/territories", s.handleTerritories)
		r.Get("/territories/{id}", s.handleTerritory)
		r.Get("/geoforms", s.handleGeoforms)
		r.Get("/geoforms/{id}", s.handleGeoform)
		r.With(RateLimitMiddleware(exportLimiter)).Get("/export", s.handleExport)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("HTTP API starting", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("HTTP API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) document() (*export.Document, error) {
	s.docOnce.Do(func() {
		s.doc, s.docErr = export.Build(s.Map)
	})
	return s.doc, s.docErr
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	m := s.Map
	land := 0
	for i := range m.Hexes {
		if m.IsLand(i) {
			land++
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"seed":           m.Cfg.Seed,
		"size":           m.Size,
		"map_type":       m.Cfg.MapType,
		"sea_level":      m.SeaLevel,
		"top_height":     m.TopHeight,
		"lowest_height":  m.LowestHeight,
		"average_height": m.AverageHeight,
		"avg_altitude":   m.AvgAltitude,
		"land_hexes":     land,
		"water_hexes":    m.HexCount() - land,
		"rivers":         len(m.Rivers),
		"territories":    len(m.Territories),
		"geoforms":       len(m.Geoforms),
		"persisted":      s.DB != nil,
	})
}

// hexParams parses {row}/{col} and resolves the hex index.
func (s *Server) hexParams(w http.ResponseWriter, r *http.Request) (row, col, idx int, ok bool) {
	row, err1 := strconv.Atoi(chi.URLParam(r, "row"))
	col, err2 := strconv.Atoi(chi.URLParam(r, "col"))
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, "invalid coordinates")
		return 0, 0, 0, false
	}
	if _, err := s.Map.Hex(row, col); err != nil {
		respondError(w, statusFor(err), err.Error())
		return 0, 0, 0, false
	}
	return row, col, s.Map.Index(row, col), true
}

func (s *Server) handleHex(w http.ResponseWriter, r *http.Request) {
	_, _, idx, ok := s.hexParams(w, r)
	if !ok {
		return
	}
	rec, err := export.Hex(s.Map, idx)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	neighbors := make([]world.HexCoord, 0, 6)
	for _, n := range s.Map.Neighbors(idx) {
		neighbors = append(neighbors, s.Map.At(n).Coord)
	}
	respondJSON(w, http.StatusOK, struct {
		export.HexRecord
		Neighbors []world.HexCoord `json:"neighbors"`
	}{rec, neighbors})
}

func (s *Server) handleHexRivers(w http.ResponseWriter, r *http.Request) {
	row, col, _, ok := s.hexParams(w, r)
	if !ok {
		return
	}
	sides, err := s.Map.RiversAt(row, col)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	if sides == nil {
		sides = []world.Side{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"row":   row,
		"col":   col,
		"sides": sides,
	})
}

func (s *Server) handleTerritories(w http.ResponseWriter, r *http.Request) {
	out := make([]export.TerritoryRecord, 0, len(s.Map.Territories))
	for _, t := range s.Map.Territories {
		rec, err := export.Territory(s.Map, t)
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		out = append(out, rec)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleTerritory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid territory id")
		return
	}
	t, err := s.Map.Territory(id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	rec, err := export.Territory(s.Map, t)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	members := make([]world.HexCoord, 0, t.Size())
	for _, i := range t.Members {
		members = append(members, s.Map.At(i).Coord)
	}
	respondJSON(w, http.StatusOK, struct {
		export.TerritoryRecord
		Members []world.HexCoord `json:"members"`
	}{rec, members})
}

func (s *Server) handleGeoforms(w http.ResponseWriter, r *http.Request) {
	var filter *world.GeoformType
	if q := r.URL.Query().Get("type"); q != "" {
		var t world.GeoformType
		if err := t.UnmarshalText([]byte(q)); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter = &t
	}

	out := make([]export.GeoformRecord, 0, len(s.Map.Geoforms))
	for _, g := range s.Map.Geoforms {
		if filter != nil && g.Type != *filter {
			continue
		}
		out = append(out, export.Geoform(s.Map, g))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGeoform(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid geoform id")
		return
	}
	g, err := s.Map.GeoformByID(id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	members := make([]world.HexCoord, 0, g.Size())
	for _, i := range g.Members {
		members = append(members, s.Map.At(i).Coord)
	}
	respondJSON(w, http.StatusOK, struct {
		export.GeoformRecord
		Members []world.HexCoord `json:"members"`
	}{export.Geoform(s.Map, g), members})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.document()
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := export.Encode(w, doc); err != nil {
		slog.Error("export stream failed", "error", err)
	}
}

// statusFor maps world errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, world.ErrOutOfBounds), errors.Is(err, world.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

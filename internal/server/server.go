// Package server exposes the simulation core over HTTP. It is a thin
// collaborator: request decoding, season registry, persistence hooks, and
// error-to-status mapping only.
package server

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/utakatalp/gm-simulator/internal/league"
	"github.com/utakatalp/gm-simulator/internal/store"
)

// Server holds the in-memory season registry. s.mu guards the registry and
// every season in it: handlers hold it for the full read or mutation,
// including response encoding, so concurrent requests never observe a
// season mid-advance.
type Server struct {
	mu      sync.Mutex
	seasons map[string]*seasonEntry
	nextID  int

	store *store.Store // nil disables persistence
	log   *slog.Logger
	cfg   league.SeasonConfig
}

// seasonEntry pairs a season with its base seed. Each advance derives a
// fresh stream from seed and week, so a season restored after a restart
// replays exactly the weeks a continuously running server would produce.
type seasonEntry struct {
	season *league.Season
	seed   int64
}

func (e *seasonEntry) weekRand() *rand.Rand {
	return rand.New(rand.NewSource(e.seed + int64(e.season.Week())))
}

func New(st *store.Store, log *slog.Logger, cfg league.SeasonConfig) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		seasons: make(map[string]*seasonEntry),
		store:   st,
		log:     log,
		cfg:     cfg,
	}
}

// Router wires the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/seasons", s.handleCreateSeason).Methods(http.MethodPost)
	r.HandleFunc("/seasons/{id}/advance", s.handleAdvanceWeek).Methods(http.MethodPost)
	r.HandleFunc("/seasons/{id}/standings", s.handleStandings).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{id}/schedule", s.handleSchedule).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{id}/development", s.handleDevelopment).Methods(http.MethodPost)
	r.HandleFunc("/seasons/{id}/playoffs", s.handlePlayoffs).Methods(http.MethodPost)
	r.HandleFunc("/matches/exhibition", s.handleExhibition).Methods(http.MethodPost)
	return r
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// register must be called with s.mu held.
func (s *Server) register(season *league.Season, seed int64) string {
	s.nextID++
	id := fmt.Sprintf("season-%d", s.nextID)
	s.seasons[id] = &seasonEntry{season: season, seed: seed}
	return id
}

// entry pulls a season into the registry, loading it from the database
// when it is not already resident. Must be called with s.mu held.
func (s *Server) entry(id string) (*seasonEntry, error) {
	if e, ok := s.seasons[id]; ok {
		return e, nil
	}
	if s.store == nil {
		return nil, store.ErrNotFound
	}
	season, seed, err := s.store.LoadSeason(id)
	if err != nil {
		return nil, err
	}
	e := &seasonEntry{season: season, seed: seed}
	s.seasons[id] = e
	return e, nil
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/utakatalp/gm-simulator/internal/league"
	"github.com/utakatalp/gm-simulator/internal/snapshot"
	"github.com/utakatalp/gm-simulator/internal/store"
)

type createSeasonRequest struct {
	Seed  int64           `json:"seed"`
	Teams []snapshot.Team `json:"teams"`
}

type createSeasonResponse struct {
	ID       string            `json:"id"`
	Fixtures []*league.Fixture `json:"fixtures"`
}

func (s *Server) handleCreateSeason(w http.ResponseWriter, r *http.Request) {
	var req createSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	teams, err := snapshot.TeamsFromDocs(req.Teams)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	season, err := league.NewSeasonConfigured(teams, s.cfg)
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.register(season, req.Seed)
	if s.store != nil {
		if err := s.store.SaveSeason(id, season, req.Seed); err != nil {
			s.log.Error("persisting new season", "season", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to persist season")
			return
		}
	}
	writeJSON(w, http.StatusCreated, createSeasonResponse{ID: id, Fixtures: season.Fixtures()})
}

func (s *Server) handleAdvanceWeek(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(id)
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}

	report, err := e.season.AdvanceWeek(e.weekRand())
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}

	for _, ev := range report.Events {
		if ev.Kind == league.NewsWarning {
			s.log.Warn("simulation warning", "season", id, "week", report.Week, "message", ev.Message)
		}
	}
	if s.store != nil {
		if err := s.store.SaveSeason(id, e.season, e.seed); err != nil {
			s.log.Error("persisting season", "season", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to persist season")
			return
		}
		if err := s.store.RecordWeek(id, e.season.Fixtures(), report.Week); err != nil {
			s.log.Error("recording week", "season", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to record results")
			return
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(mux.Vars(r)["id"])
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.season.Standings())
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(mux.Vars(r)["id"])
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.season.Fixtures())
}

type developmentRequest struct {
	Seed int64 `json:"seed"`
}

func (s *Server) handleDevelopment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req developmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(id)
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}
	if e.season.State() != league.Completed {
		writeError(w, http.StatusConflict, "development runs at season boundaries only")
		return
	}
	var players []*league.Player
	for _, t := range e.season.Teams() {
		players = append(players, t.Roster...)
	}
	changes := league.RunDevelopment(players, newRand(req.Seed))

	if s.store != nil {
		if err := s.store.SaveSeason(id, e.season, e.seed); err != nil {
			s.log.Error("persisting season", "season", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to persist season")
			return
		}
	}
	writeJSON(w, http.StatusOK, changes)
}

type playoffsRequest struct {
	Seed int64 `json:"seed"`
}

func (s *Server) handlePlayoffs(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req playoffsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(id)
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}
	if e.season.State() != league.Completed {
		writeError(w, http.StatusConflict, "playoffs run after the regular season completes")
		return
	}

	// Seeding follows the final league table.
	byID := make(map[string]*league.Team, len(e.season.Teams()))
	for _, t := range e.season.Teams() {
		byID[t.ID] = t
	}
	var seeds []*league.Team
	for _, row := range e.season.Standings() {
		seeds = append(seeds, byID[row.TeamID])
	}

	engine := league.NewMatchEngine(s.cfg.Engine)
	result, err := engine.SimulatePlayoffs(seeds, league.DefaultPlayoffConfig(), newRand(req.Seed))
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type exhibitionRequest struct {
	Seed int64         `json:"seed"`
	Home snapshot.Team `json:"home"`
	Away snapshot.Team `json:"away"`
}

func (s *Server) handleExhibition(w http.ResponseWriter, r *http.Request) {
	var req exhibitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	teams, err := snapshot.TeamsFromDocs([]snapshot.Team{req.Home, req.Away})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := league.SimulateMatch(teams[0], teams[1], req.Seed)
	if err != nil {
		s.writeLeagueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeLeagueError(w http.ResponseWriter, err error) {
	switch {
	case league.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, league.ErrSeasonCompleted), errors.Is(err, league.ErrNoFixtures):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, snapshot.ErrUnknownVersion):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// Package store is the Postgres persistence collaborator. It moves season
// snapshots and match records in and out of the database; all simulation
// stays in the league package.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/utakatalp/gm-simulator/internal/league"
	"github.com/utakatalp/gm-simulator/internal/snapshot"
)

// ErrNotFound reports a missing season.
var ErrNotFound = errors.New("not found")

// Store wraps a Postgres connection.
type Store struct {
	DB *sql.DB
}

// New opens a Postgres connection and verifies it early.
func New(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS seasons (
			id         TEXT PRIMARY KEY,
			version    INT         NOT NULL,
			snapshot   JSONB       NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			id         SERIAL PRIMARY KEY,
			season_id  TEXT NOT NULL REFERENCES seasons(id),
			fixture_id INT  NOT NULL,
			week       INT  NOT NULL,
			home_team  TEXT NOT NULL,
			away_team  TEXT NOT NULL,
			home_goals INT  NOT NULL,
			away_goals INT  NOT NULL,
			overtime   BOOL NOT NULL,
			UNIQUE (season_id, fixture_id)
		);`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// SaveSeason upserts the season's versioned snapshot along with its base
// random seed.
func (s *Store) SaveSeason(id string, season *league.Season, seed int64) error {
	doc, err := snapshot.Encode(season, seed)
	if err != nil {
		return fmt.Errorf("encoding season %s: %w", id, err)
	}
	const q = `
	INSERT INTO seasons (id, version, snapshot, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (id) DO UPDATE
	SET version = EXCLUDED.version, snapshot = EXCLUDED.snapshot, updated_at = now()
	`
	if _, err := s.DB.Exec(q, id, snapshot.Version, doc); err != nil {
		return fmt.Errorf("saving season %s: %w", id, err)
	}
	return nil
}

// LoadSeason restores a season and its base seed from the stored snapshot.
func (s *Store) LoadSeason(id string) (*league.Season, int64, error) {
	var doc []byte
	err := s.DB.QueryRow(`SELECT snapshot FROM seasons WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("season %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("loading season %s: %w", id, err)
	}
	return snapshot.Decode(doc)
}

// RecordWeek persists the match rows of an advanced week in one
// transaction, keyed by fixture id so reruns cannot double-insert.
func (s *Store) RecordWeek(seasonID string, fixtures []*league.Fixture, week int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin record week tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
	INSERT INTO matches (season_id, fixture_id, week, home_team, away_team, home_goals, away_goals, overtime)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (season_id, fixture_id) DO NOTHING
	`
	for _, f := range fixtures {
		if f.Week != week || !f.Played || f.Result == nil {
			continue
		}
		r := f.Result
		if _, err := tx.Exec(q, seasonID, f.ID, f.Week, r.HomeTeamID, r.AwayTeamID,
			r.HomeScore, r.AwayScore, r.Overtime); err != nil {
			return fmt.Errorf("recording fixture %d: %w", f.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record week tx: %w", err)
	}
	return nil
}

// MatchRecord is one persisted match row.
type MatchRecord struct {
	FixtureID int
	Week      int
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
	Overtime  bool
}

// LoadMatches fetches all recorded matches up to the specified week in
// fixture-id order.
func (s *Store) LoadMatches(seasonID string, uptoWeek int) ([]MatchRecord, error) {
	const q = `
	SELECT fixture_id, week, home_team, away_team, home_goals, away_goals, overtime
	FROM matches
	WHERE season_id = $1 AND week <= $2
	ORDER BY fixture_id
	`
	rows, err := s.DB.Query(q, seasonID, uptoWeek)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.FixtureID, &m.Week, &m.HomeTeam, &m.AwayTeam,
			&m.HomeGoals, &m.AwayGoals, &m.Overtime); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

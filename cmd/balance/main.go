// Command balance runs bulk season simulations against a team file and
// prints championship odds and calibration metrics. Interrupting with
// SIGINT stops between seasons and reports the completed runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/utakatalp/gm-simulator/internal/league"
	"github.com/utakatalp/gm-simulator/internal/snapshot"
)

func main() {
	var (
		teamsPath = flag.String("teams", "teams.json", "path to the team list (snapshot team format)")
		runs      = flag.Int("runs", 1000, "number of independent seasons to simulate")
		workers   = flag.Int("workers", runtime.NumCPU(), "parallel season workers")
		seed      = flag.Int64("seed", 42, "base random seed")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	data, err := os.ReadFile(*teamsPath)
	if err != nil {
		log.Error("reading team file", "error", err)
		os.Exit(1)
	}
	teams, err := snapshot.DecodeTeams(data)
	if err != nil {
		log.Error("decoding team file", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := league.RunBalance(ctx, teams, league.BalanceConfig{
		Runs:    *runs,
		Workers: *workers,
		Seed:    *seed,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("balance run failed", "error", err)
		os.Exit(1)
	}
	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted", "completed_runs", result.Runs)
	}

	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	fmt.Printf("seasons: %d  matches: %d  avg combined goals: %.2f  overtime rate: %.1f%%\n",
		result.Runs, result.Matches, result.AvgCombinedGoals(), result.OvertimeRate()*100)
	fmt.Printf("%-20s %8s %8s\n", "Team", "Titles", "Odds")
	for _, o := range result.Odds() {
		name := names[o.TeamID]
		if name == "" {
			name = o.TeamID
		}
		fmt.Printf("%-20s %8d %7.2f%%\n", name, o.Titles, o.Probability)
	}
}

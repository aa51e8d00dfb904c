package league

import (
	"context"
	"math/rand"
	"sort"
	"sync"
)

// BalanceConfig drives a bulk balance run: many independent full-season
// simulations used to validate attribute-to-outcome calibration.
type BalanceConfig struct {
	Runs    int
	Workers int
	Seed    int64
	Season  SeasonConfig
}

// TeamOdds is one team's championship probability over a bulk run.
type TeamOdds struct {
	TeamID      string
	Titles      int
	Probability float64
}

// BalanceResult aggregates completed season runs. When a run is cancelled
// mid-way, the result still reflects every season that finished.
type BalanceResult struct {
	Runs       int
	Titles     map[string]int
	Matches    int
	TotalGoals int
	Overtimes  int
}

// AvgCombinedGoals is the mean combined score per match, the primary
// calibration target (3-6 for balanced leagues).
func (r *BalanceResult) AvgCombinedGoals() float64 {
	if r.Matches == 0 {
		return 0
	}
	return float64(r.TotalGoals) / float64(r.Matches)
}

func (r *BalanceResult) OvertimeRate() float64 {
	if r.Matches == 0 {
		return 0
	}
	return float64(r.Overtimes) / float64(r.Matches)
}

// Odds returns championship probabilities sorted best-first.
func (r *BalanceResult) Odds() []TeamOdds {
	odds := make([]TeamOdds, 0, len(r.Titles))
	for id, n := range r.Titles {
		p := 0.0
		if r.Runs > 0 {
			p = float64(n) / float64(r.Runs) * 100
		}
		odds = append(odds, TeamOdds{TeamID: id, Titles: n, Probability: p})
	}
	sort.Slice(odds, func(i, j int) bool {
		if odds[i].Titles != odds[j].Titles {
			return odds[i].Titles > odds[j].Titles
		}
		return odds[i].TeamID < odds[j].TeamID
	})
	return odds
}

// RunBalance simulates cfg.Runs independent seasons across cfg.Workers
// goroutines. Each run owns a fully isolated state tree: cloned teams and
// rosters, its own season, its own random stream seeded from cfg.Seed and
// the run index. Cancellation is cooperative and checked between seasons,
// so completed seasons are never corrupted; the partial aggregate is
// returned alongside ctx.Err().
func RunBalance(ctx context.Context, template []*Team, cfg BalanceConfig) (*BalanceResult, error) {
	if cfg.Runs <= 0 {
		return nil, &ValidationError{Field: "balance.runs", Reason: "must be positive"}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Season.Engine == (EngineConfig{}) {
		cfg.Season = DefaultSeasonConfig()
	}
	for _, t := range template {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	runs := make(chan int)
	go func() {
		defer close(runs)
		for i := 0; i < cfg.Runs; i++ {
			select {
			case runs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	agg := &BalanceResult{Titles: make(map[string]int)}
	var mu sync.Mutex
	var wg sync.WaitGroup
	errs := make([]error, cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for run := range runs {
				if ctx.Err() != nil {
					return
				}
				partial, err := simulateOneSeason(template, cfg, run)
				if err != nil {
					errs[w] = err
					return
				}
				mu.Lock()
				agg.Runs++
				agg.Matches += partial.Matches
				agg.TotalGoals += partial.TotalGoals
				agg.Overtimes += partial.Overtimes
				for id, n := range partial.Titles {
					agg.Titles[id] += n
				}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return agg, ctx.Err()
}

func simulateOneSeason(template []*Team, cfg BalanceConfig, run int) (*BalanceResult, error) {
	teams := make([]*Team, len(template))
	for i, t := range template {
		teams[i] = t.Clone()
	}
	season, err := NewSeasonConfigured(teams, cfg.Season)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed + int64(run)))

	out := &BalanceResult{Titles: make(map[string]int)}
	for season.State() != Completed {
		report, err := season.AdvanceWeek(rng)
		if err != nil {
			return nil, err
		}
		for _, res := range report.Results {
			out.Matches++
			out.TotalGoals += res.HomeScore + res.AwayScore
			if res.Overtime {
				out.Overtimes++
			}
		}
	}
	out.Runs = 1
	out.Titles[season.Standings()[0].TeamID]++
	return out, nil
}

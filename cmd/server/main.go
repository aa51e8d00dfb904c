package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/utakatalp/gm-simulator/internal/config"
	"github.com/utakatalp/gm-simulator/internal/league"
	"github.com/utakatalp/gm-simulator/internal/server"
	"github.com/utakatalp/gm-simulator/internal/store"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()

	var st *store.Store
	if !cfg.Database.Disabled {
		var err error
		st, err = store.New(cfg.Database.ConnString())
		if err != nil {
			log.Error("connecting to database", "error", err)
			os.Exit(1)
		}
		if err := st.Migrate(); err != nil {
			log.Error("migrating database", "error", err)
			os.Exit(1)
		}
	} else {
		log.Info("persistence disabled, seasons are in-memory only")
	}

	seasonCfg := league.DefaultSeasonConfig()
	seasonCfg.Rating.K = cfg.Sim.EloK
	seasonCfg.Engine.BaseChances = cfg.Sim.BaseChances

	srv := server.New(st, log, seasonCfg)
	log.Info("listening", "addr", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, srv.Router()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

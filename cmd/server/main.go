package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/lodestar-hq/lodestar/internal/config"
	"github.com/lodestar-hq/lodestar/internal/server"
	"github.com/lodestar-hq/lodestar/internal/store"
)

// devWorkspaceID is the workspace the seed dataset lands in. Clients pass
// it as X-Workspace-ID when exercising a seeded database.
const devWorkspaceID = "00000000-0000-0000-0000-000000000001"

func main() {
	configPath := flag.String("config", "", "path to CUE config file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	db, err := store.Open(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer db.Close()

	st := store.New(db, log)
	if err := st.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("running migrations")
	}
	log.Info().Msg("database migrated")

	if cfg.Seed {
		tenant := uuid.MustParse(devWorkspaceID)
		if err := st.Seed(ctx, tenant); err != nil {
			log.Fatal().Err(err).Msg("seeding database")
		}
		log.Info().Str("workspace", devWorkspaceID).Msg("seeded development data")
	}

	if err := server.Run(ctx, server.Config{
		Addr:  cfg.Addr,
		Store: st,
		Log:   log,
	}); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}

// Cron entry point: one product sync over the configured supplier list and
// date window, then exit. Exit code 0 on success, 1 on any failure.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	conf "github.com/bcastro/erp2b2b/internal/config"
	"github.com/bcastro/erp2b2b/internal/db"
	"github.com/bcastro/erp2b2b/internal/erpapi"
	"github.com/bcastro/erp2b2b/internal/logs"
	"github.com/bcastro/erp2b2b/internal/syncer"
)

func main() {
	appDir := mustAppDataDir("erp2b2b")
	log := logs.New(filepath.Join(appDir, "sync.log"), true)
	log = log.With().
		Str("run_id", uuid.NewString()).
		Str("endpoint", "productos").
		Logger()

	if err := run(log, appDir); err != nil {
		log.Error().Err(err).Msg("sync failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, appDir string) error {
	cfg, firstRun, err := conf.LoadOrCreate(filepath.Join(appDir, "config.json"))
	if err != nil {
		return err
	}
	if firstRun {
		log.Info().Str("dir", appDir).Msg("default config created")
	}

	dbh, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := dbh.Migrate(); err != nil {
		return err
	}
	sqlDB, _ := dbh.DB.DB()
	defer sqlDB.Close()

	api := erpapi.New(log, erpapi.Config{
		BaseURL:    cfg.API.BaseURL,
		Token:      cfg.API.Token,
		TimeoutSec: cfg.API.TimeoutSec,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner, err := syncer.Build("productos", syncer.Deps{Log: log, DB: dbh.DB, API: api, Cfg: cfg})
	if err != nil {
		return err
	}
	_, err = runner.Run(ctx)
	return err
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}

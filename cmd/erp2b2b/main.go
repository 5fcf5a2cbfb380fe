// Daemon mode: runs all configured endpoints sequentially on the interval
// from config.json, until SIGINT/SIGTERM. Use the cmd/sync-* binaries when
// cron drives the schedule instead.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	conf "github.com/bcastro/erp2b2b/internal/config"
	"github.com/bcastro/erp2b2b/internal/db"
	"github.com/bcastro/erp2b2b/internal/erpapi"
	"github.com/bcastro/erp2b2b/internal/logs"
	"github.com/bcastro/erp2b2b/internal/syncer"
)

var ver = "1.0.0"

func main() {
	appDir := mustAppDataDir("erp2b2b")
	log := logs.New(filepath.Join(appDir, "sync.log"), true)
	log = log.With().Str("daemon_id", uuid.NewString()).Logger()

	cfgPath := filepath.Join(appDir, "config.json")
	cfg, firstRun, err := conf.LoadOrCreate(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if firstRun {
		log.Info().Str("path", cfgPath).Msg("default config created")
	}

	dbh, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("DB open error")
	}
	if err := dbh.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("DB migrate error")
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

	s := syncer.New(log, cfg, dbh.DB, api)
	if err := s.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("syncer start error")
	}
	log.Info().Str("ver", ver).Msg("erp2b2b daemon running")

	<-ctx.Done()
	s.Stop()
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

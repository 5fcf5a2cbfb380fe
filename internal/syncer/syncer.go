// internal/syncer/syncer.go
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	conf "github.com/bcastro/erp2b2b/internal/config"
	"github.com/bcastro/erp2b2b/internal/erpapi"
)

// Syncer is the built-in scheduler: it runs every configured endpoint
// sequentially on a fixed interval. Sequential execution also means two
// runs of the same endpoint never overlap while the daemon drives them.
type Syncer struct {
	log     zerolog.Logger
	db      *gorm.DB
	api     *erpapi.Client
	mu      sync.Mutex
	cfg     *conf.Config
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(log zerolog.Logger, cfg *conf.Config, gdb *gorm.DB, api *erpapi.Client) *Syncer {
	return &Syncer{log: log, cfg: cfg, db: gdb, api: api}
}

func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	s.log.Info().Msg("syncer: start")
	go s.loop(ctx)
	return nil
}

func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.log.Info().Msg("syncer: stop")
}

func (s *Syncer) UpdateConfig(cfg *conf.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.log.Info().Msg("syncer: config updated")
}

func (s *Syncer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Syncer) interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg != nil && s.cfg.SyncIntervalSeconds > 0 {
		return time.Duration(s.cfg.SyncIntervalSeconds) * time.Second
	}
	return time.Hour
}

func (s *Syncer) snapshotCfg() *conf.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Syncer) loop(ctx context.Context) {
	defer s.wg.Done()

	// first pass right away, then on the ticker
	s.runAll(ctx)

	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("syncer: loop done")
			return
		case <-ticker.C:
			s.runAll(ctx)
			// pick up interval changes from UpdateConfig
			ticker.Reset(s.interval())
		}
	}
}

// runAll executes every configured endpoint in order. A failed endpoint is
// logged and does not stop the others; its audit row already carries the
// error.
func (s *Syncer) runAll(ctx context.Context) {
	cfg := s.snapshotCfg()
	if cfg == nil {
		return
	}
	for _, name := range cfg.Endpoints {
		if ctx.Err() != nil {
			return
		}
		runner, err := Build(name, Deps{Log: s.log, DB: s.db, API: s.api, Cfg: cfg})
		if err != nil {
			s.log.Error().Err(err).Str("endpoint", name).Msg("syncer: cannot build endpoint")
			continue
		}
		if _, err := runner.Run(ctx); err != nil {
			s.log.Error().Err(err).Str("endpoint", name).Msg("syncer: run failed")
		}
	}
}

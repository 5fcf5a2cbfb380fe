// internal/syncer/run.go
package syncer

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bcastro/erp2b2b/internal/cache"
	"github.com/bcastro/erp2b2b/internal/erpapi"
	"github.com/bcastro/erp2b2b/internal/synclog"
)

// Engine is what the upsert engines expose to the runner.
type Engine interface {
	Upsert(tx *gorm.DB, rec erpapi.Record) (cache.Result, error)
}

// Source fetches the full record set for one run.
type Source interface {
	Fetch(ctx context.Context) ([]erpapi.Record, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]erpapi.Record, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]erpapi.Record, error) { return f(ctx) }

// Stats aggregates what one run did. Rejected records are visible here and
// in the log output but are not persisted in api_sync_log.
type Stats struct {
	Fetched  int
	Upserted int
	Rejected int
	Commits  int
}

// Runner drives one complete synchronization run for one endpoint:
// audit row → fetch → per-record upsert in bounded transactions → audit
// finalization. Failures roll back the open batch; prior commits stay.
type Runner struct {
	Log       zerolog.Logger
	DB        *gorm.DB
	Logs      *synclog.Store
	Source    Source
	Engine    Engine
	Endpoint  string
	SyncType  string
	Since     *string
	BatchSize int
}

// Run executes the run. The audit row is created first, unconditionally —
// if that insert fails the run aborts before touching any data.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	logID, err := r.Logs.Start(r.Endpoint, r.SyncType, r.Since)
	if err != nil {
		return stats, err
	}
	r.Log.Info().Uint("log_id", logID).Str("endpoint", r.Endpoint).Msg("sync run started")

	runErr := r.apply(ctx, &stats)

	status, errMsg := synclog.StatusOK, ""
	if runErr != nil {
		status, errMsg = synclog.StatusError, runErr.Error()
	}
	if err := r.Logs.Finish(logID, status, stats.Upserted, 0, errMsg); err != nil {
		// outcome may go unrecorded; nothing left to do but say so
		r.Log.Error().Err(err).Uint("log_id", logID).Msg("sync log finish failed")
		if runErr == nil {
			runErr = err
		}
	}

	ev := r.Log.Info()
	if runErr != nil {
		ev = r.Log.Error().Err(runErr)
	}
	ev.Uint("log_id", logID).
		Str("endpoint", r.Endpoint).
		Int("fetched", stats.Fetched).
		Int("upserted", stats.Upserted).
		Int("rejected", stats.Rejected).
		Int("commits", stats.Commits).
		Msg("sync run finished")

	return stats, runErr
}

func (r *Runner) apply(ctx context.Context, stats *Stats) error {
	recs, err := r.Source.Fetch(ctx)
	if err != nil {
		return err
	}
	stats.Fetched = len(recs)

	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	// no-op once the final commit went through
	defer func() { _ = tx.Rollback() }()

	inTx := 0
	for _, rec := range recs {
		res, err := r.Engine.Upsert(tx, rec)
		if err != nil {
			return err
		}
		switch res {
		case cache.Changed:
			stats.Upserted++
		case cache.Rejected:
			stats.Rejected++
		}

		inTx++
		if inTx >= batchSize {
			if err := tx.Commit().Error; err != nil {
				return err
			}
			stats.Commits++
			tx = r.DB.WithContext(ctx).Begin()
			if tx.Error != nil {
				return tx.Error
			}
			inTx = 0
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	stats.Commits++

	if stats.Rejected > 0 {
		r.Log.Warn().Str("endpoint", r.Endpoint).Int("rejected", stats.Rejected).
			Msg("records skipped: missing key fields")
	}
	return nil
}

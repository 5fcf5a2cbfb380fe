// Package synclog records the lifecycle of sync runs in api_sync_log —
// one row per run, created at start and finalized exactly once at the end.
package synclog

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bcastro/erp2b2b/internal/db"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

type Store struct {
	DB  *gorm.DB
	Now func() time.Time // nil → time.Now
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start inserts the run row (status "ok", optimistic) and returns its id.
// A failure here must abort the run: without the row there is nowhere to
// record the outcome.
func (s *Store) Start(endpoint, syncType string, since *string) (uint, error) {
	row := db.SyncLog{
		Endpoint:   endpoint,
		SyncType:   syncType,
		SinceParam: since,
		StartedAt:  s.now(),
		Status:     StatusOK,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("sync log start (%s): %w", endpoint, err)
	}
	return row.ID, nil
}

// Finish writes the final status and counters. Calling it twice would just
// overwrite the same fields; no invariant breaks.
func (s *Store) Finish(id uint, status string, upserted, deleted int, errMsg string) error {
	now := s.now()
	res := s.DB.Model(&db.SyncLog{}).Where("id = ?", id).Updates(map[string]any{
		"finished_at":    &now,
		"status":         status,
		"items_upserted": upserted,
		"items_deleted":  deleted,
		"error_message":  errMsg,
	})
	if res.Error != nil {
		return fmt.Errorf("sync log finish (id=%d): %w", id, res.Error)
	}
	return nil
}

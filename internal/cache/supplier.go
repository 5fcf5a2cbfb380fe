// internal/cache/supplier.go
package cache

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bcastro/erp2b2b/internal/db"
	"github.com/bcastro/erp2b2b/internal/erpapi"
	"github.com/bcastro/erp2b2b/internal/fingerprint"
)

// Supplier is the typed shape of one API supplier record after mapping.
type Supplier struct {
	KPRV         string
	RazonSocial  string
	UpdatedAtAPI string
}

// supplierFromRecord maps the loose API record; ok=false when the natural
// key is missing or empty.
func supplierFromRecord(rec erpapi.Record) (Supplier, bool) {
	kprv := rec.Str("kprv")
	if kprv == "" {
		return Supplier{}, false
	}
	return Supplier{
		KPRV:         kprv,
		RazonSocial:  rec.Str("razon_social"),
		UpdatedAtAPI: rec.Str("updated_at"),
	}, true
}

// fingerprint covers {kprv, razon_social}. updated_at is a source
// timestamp, not content — including it would mark every sync as changed.
func (s Supplier) fingerprint() string {
	return fingerprint.Digest(s.KPRV, s.RazonSocial)
}

// SupplierEngine upserts into api_cache_proveedores. Snapshot is the
// logical date of the run; Now is swappable for tests.
type SupplierEngine struct {
	Snapshot string
	Now      func() time.Time
}

func (e SupplierEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Upsert applies one record inside tx. See Result for the outcomes.
func (e SupplierEngine) Upsert(tx *gorm.DB, rec erpapi.Record) (Result, error) {
	sup, ok := supplierFromRecord(rec)
	if !ok {
		return Rejected, nil
	}
	fp := sup.fingerprint()

	var stored db.SupplierCache
	err := tx.Select("source_hash").Where("kprv = ?", sup.KPRV).Take(&stored).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Rejected, err
	}

	if err == nil && stored.SourceHash == fp {
		// content identical — touch sync metadata only
		res := tx.Model(&db.SupplierCache{}).
			Where("kprv = ?", sup.KPRV).
			Updates(map[string]any{
				"snapshot_date":  e.Snapshot,
				"last_synced_at": e.now(),
			})
		if res.Error != nil {
			return Rejected, res.Error
		}
		return Unchanged, nil
	}

	row := db.SupplierCache{
		KPRV:         sup.KPRV,
		RazonSocial:  sup.RazonSocial,
		UpdatedAtAPI: sup.UpdatedAtAPI,
		SnapshotDate: e.Snapshot,
		SourceHash:   fp,
		LastSyncedAt: e.now(),
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kprv"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"razon_social", "updated_at_api",
			"snapshot_date", "source_hash", "last_synced_at",
		}),
	}).Create(&row).Error; err != nil {
		return Rejected, err
	}
	return Changed, nil
}

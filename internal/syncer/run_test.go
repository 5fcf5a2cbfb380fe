package syncer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bcastro/erp2b2b/internal/cache"
	"github.com/bcastro/erp2b2b/internal/db"
	"github.com/bcastro/erp2b2b/internal/erpapi"
	"github.com/bcastro/erp2b2b/internal/synclog"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "syncer_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&db.SupplierCache{}, &db.ProductCache{}, &db.SyncLog{}))
	return gdb
}

func supplierRecords(n int) []erpapi.Record {
	recs := make([]erpapi.Record, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, erpapi.Record{
			"kprv":         fmt.Sprintf("%08d", i+1),
			"razon_social": fmt.Sprintf("Proveedor %d", i+1),
		})
	}
	return recs
}

func newSupplierRunner(gdb *gorm.DB, src Source, batch int) *Runner {
	return &Runner{
		Log:       zerolog.Nop(),
		DB:        gdb,
		Logs:      &synclog.Store{DB: gdb},
		Source:    src,
		Engine:    cache.SupplierEngine{Snapshot: "2025-06-01"},
		Endpoint:  "proveedores",
		SyncType:  "full",
		BatchSize: batch,
	}
}

func TestRunFetchErrorIsAudited(t *testing.T) {
	gdb := newTestDB(t)
	src := SourceFunc(func(ctx context.Context) ([]erpapi.Record, error) {
		return nil, errors.New("fetch /proveedores: http 502")
	})

	stats, err := newSupplierRunner(gdb, src, 1000).Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, stats.Upserted)

	var rows []db.SyncLog
	require.NoError(t, gdb.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, synclog.StatusError, rows[0].Status)
	assert.Contains(t, rows[0].ErrorMessage, "http 502")
	assert.Zero(t, rows[0].ItemsUpserted)
	require.NotNil(t, rows[0].FinishedAt)

	var n int64
	require.NoError(t, gdb.Model(&db.SupplierCache{}).Count(&n).Error)
	assert.Zero(t, n, "fetch failure aborts before any write")
}

func TestRunCommitsInBatches(t *testing.T) {
	gdb := newTestDB(t)
	recs := supplierRecords(2500)
	src := SourceFunc(func(ctx context.Context) ([]erpapi.Record, error) { return recs, nil })

	stats, err := newSupplierRunner(gdb, src, 1000).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2500, stats.Fetched)
	assert.Equal(t, 2500, stats.Upserted)
	assert.Equal(t, 3, stats.Commits) // 1000 + 1000 + 500

	var row db.SyncLog
	require.NoError(t, gdb.Where("endpoint = ?", "proveedores").Take(&row).Error)
	assert.Equal(t, synclog.StatusOK, row.Status)
	assert.Equal(t, 2500, row.ItemsUpserted)
	assert.Empty(t, row.ErrorMessage)

	var n int64
	require.NoError(t, gdb.Model(&db.SupplierCache{}).Count(&n).Error)
	assert.EqualValues(t, 2500, n)
}

func TestRunSkipsRejectedRecords(t *testing.T) {
	gdb := newTestDB(t)
	recs := []erpapi.Record{
		{"kprv": "1", "razon_social": "A"},
		{"razon_social": "no key"},
		{"kprv": "", "razon_social": "empty key"},
		{"kprv": "2", "razon_social": "B"},
	}
	src := SourceFunc(func(ctx context.Context) ([]erpapi.Record, error) { return recs, nil })

	stats, err := newSupplierRunner(gdb, src, 1000).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Upserted)
	assert.Equal(t, 2, stats.Rejected)

	var row db.SyncLog
	require.NoError(t, gdb.Take(&row).Error)
	assert.Equal(t, 2, row.ItemsUpserted)
}

func TestRunSecondPassUnchanged(t *testing.T) {
	gdb := newTestDB(t)
	recs := supplierRecords(50)
	src := SourceFunc(func(ctx context.Context) ([]erpapi.Record, error) { return recs, nil })

	stats, err := newSupplierRunner(gdb, src, 1000).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Upserted)

	// identical content again: nothing counts as upserted
	stats, err = newSupplierRunner(gdb, src, 1000).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Upserted)

	var rows []db.SyncLog
	require.NoError(t, gdb.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 50, rows[0].ItemsUpserted)
	assert.Zero(t, rows[1].ItemsUpserted)
}

// failAfter wraps an engine and fails once limit calls have gone through.
type failAfter struct {
	inner Engine
	limit int
	calls int
}

func (f *failAfter) Upsert(tx *gorm.DB, rec erpapi.Record) (cache.Result, error) {
	if f.calls >= f.limit {
		return cache.Rejected, errors.New("disk full")
	}
	f.calls++
	return f.inner.Upsert(tx, rec)
}

func TestRunMidBatchFailureKeepsCommittedBatches(t *testing.T) {
	gdb := newTestDB(t)
	recs := supplierRecords(1500)
	src := SourceFunc(func(ctx context.Context) ([]erpapi.Record, error) { return recs, nil })

	r := newSupplierRunner(gdb, src, 1000)
	r.Engine = &failAfter{inner: cache.SupplierEngine{Snapshot: "2025-06-01"}, limit: 1200}

	stats, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, stats.Commits)

	// first batch committed, open second batch rolled back
	var n int64
	require.NoError(t, gdb.Model(&db.SupplierCache{}).Count(&n).Error)
	assert.EqualValues(t, 1000, n)

	var row db.SyncLog
	require.NoError(t, gdb.Take(&row).Error)
	assert.Equal(t, synclog.StatusError, row.Status)
	assert.Contains(t, row.ErrorMessage, "disk full")
	assert.Equal(t, 1200, row.ItemsUpserted, "count accumulated before the failure")
}

func TestBuildUnknownEndpoint(t *testing.T) {
	_, err := Build("facturas", Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facturas")
}

func TestBuildKnownEndpoints(t *testing.T) {
	gdb := newTestDB(t)
	deps := Deps{Log: zerolog.Nop(), DB: gdb, Cfg: testConfig()}

	for _, name := range []string{"proveedores", "productos"} {
		r, err := Build(name, deps)
		require.NoError(t, err)
		assert.Equal(t, name, r.Endpoint)
		assert.Equal(t, "full", r.SyncType)
	}
}

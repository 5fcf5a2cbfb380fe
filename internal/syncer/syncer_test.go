package syncer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conf "github.com/bcastro/erp2b2b/internal/config"
	"github.com/bcastro/erp2b2b/internal/db"
	"github.com/bcastro/erp2b2b/internal/erpapi"
)

func testConfig() *conf.Config {
	return &conf.Config{
		SyncIntervalSeconds:  1,
		BatchSize:            1000,
		Endpoints:            []string{"proveedores", "productos"},
		Proveedores:          []string{"78843490"},
		ProductosVentanaDias: 30,
	}
}

func TestDaemonRunsAllEndpointsOnce(t *testing.T) {
	gdb := newTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/proveedores":
			_, _ = w.Write([]byte(`[{"kprv":"78843490","razon_social":"Acme Corp"}]`))
		case "/productos":
			_, _ = w.Write([]byte(`[{"proveedor":"78843490","producto_codigo":"P-1","descripcion":"Tornillo"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	api := erpapi.New(zerolog.Nop(), erpapi.Config{BaseURL: srv.URL, TimeoutSec: 5})

	s := New(zerolog.Nop(), cfg, gdb, api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	// the first pass runs immediately; poll for its audit rows
	deadline := time.Now().Add(5 * time.Second)
	var n int64
	for time.Now().Before(deadline) {
		require.NoError(t, gdb.Model(&db.SyncLog{}).Where("status = ?", "ok").Count(&n).Error)
		if n >= 2 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, n, int64(2), "both endpoints audited")

	s.Stop()
	assert.False(t, s.IsRunning())

	var sup db.SupplierCache
	require.NoError(t, gdb.Where("kprv = ?", "78843490").Take(&sup).Error)
	assert.Equal(t, "Acme Corp", sup.RazonSocial)

	var prod db.ProductCache
	require.NoError(t, gdb.Where("producto_codigo = ?", "P-1").Take(&prod).Error)
	assert.Equal(t, "Tornillo", prod.Descripcion)
}

func TestDaemonStartStopIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	cfg := testConfig()
	cfg.Endpoints = nil // nothing to run

	s := New(zerolog.Nop(), cfg, gdb, erpapi.New(zerolog.Nop(), erpapi.Config{BaseURL: "http://127.0.0.1:1"}))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background())) // second start is a no-op
	s.Stop()
	s.Stop() // second stop is a no-op
	assert.False(t, s.IsRunning())
}

// internal/syncer/registry.go
package syncer

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bcastro/erp2b2b/internal/cache"
	conf "github.com/bcastro/erp2b2b/internal/config"
	"github.com/bcastro/erp2b2b/internal/erpapi"
	"github.com/bcastro/erp2b2b/internal/synclog"
)

// Deps is everything an endpoint factory needs to assemble a Runner.
type Deps struct {
	Log zerolog.Logger
	DB  *gorm.DB
	API *erpapi.Client
	Cfg *conf.Config
}

// Factory builds a Runner for one run; the snapshot date is fixed at build
// time, so build immediately before running.
type Factory func(Deps) *Runner

var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

func Register(name string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func Get(name string) (Factory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Build resolves name and constructs its Runner.
func Build(name string, d Deps) (*Runner, error) {
	f, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown sync endpoint %q", name)
	}
	return f(d), nil
}

func init() {
	Register("proveedores", newProveedoresRunner)
	Register("productos", newProductosRunner)
}

const dateLayout = "2006-01-02"

func newProveedoresRunner(d Deps) *Runner {
	snapshot := time.Now().Format(dateLayout)
	return &Runner{
		Log:       d.Log,
		DB:        d.DB,
		Logs:      &synclog.Store{DB: d.DB},
		Source:    proveedoresSource{api: d.API},
		Engine:    cache.SupplierEngine{Snapshot: snapshot},
		Endpoint:  "proveedores",
		SyncType:  "full",
		Since:     nil, // full dump, no window
		BatchSize: d.Cfg.BatchSize,
	}
}

func newProductosRunner(d Deps) *Runner {
	now := time.Now()
	snapshot := now.Format(dateLayout)
	desde := now.AddDate(0, 0, -d.Cfg.ProductosVentanaDias).Format(dateLayout)
	return &Runner{
		Log: d.Log,
		DB:  d.DB,
		Logs: &synclog.Store{
			DB: d.DB,
		},
		Source: productosSource{
			api:         d.API,
			proveedores: d.Cfg.Proveedores,
			desde:       desde,
			hasta:       snapshot,
		},
		Engine:    cache.ProductEngine{Snapshot: snapshot},
		Endpoint:  "productos",
		SyncType:  "full",
		Since:     &desde,
		BatchSize: d.Cfg.BatchSize,
	}
}

// internal/syncer/sources.go
package syncer

import (
	"context"
	"fmt"

	"github.com/bcastro/erp2b2b/internal/erpapi"
)

// proveedoresSource is the full supplier dump — the ERP endpoint has no
// windowing.
type proveedoresSource struct {
	api *erpapi.Client
}

func (s proveedoresSource) Fetch(ctx context.Context) ([]erpapi.Record, error) {
	return s.api.Proveedores(ctx)
}

// productosSource fetches per configured supplier inside [desde, hasta]
// and concatenates in config order, so the run applies records in a stable
// sequence.
type productosSource struct {
	api          *erpapi.Client
	proveedores  []string
	desde, hasta string
}

func (s productosSource) Fetch(ctx context.Context) ([]erpapi.Record, error) {
	var out []erpapi.Record
	for _, kprv := range s.proveedores {
		recs, err := s.api.Productos(ctx, kprv, s.desde, s.hasta)
		if err != nil {
			return nil, fmt.Errorf("productos kprv=%s: %w", kprv, err)
		}
		out = append(out, recs...)
	}
	return out, nil
}

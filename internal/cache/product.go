// internal/cache/product.go
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

// Product is the typed shape of one API product record. Counters default to
// 0 when the ERP omits them; decimals and descriptive fields stay nil.
type Product struct {
	Proveedor      string
	ProductoCodigo string

	CodigoBarra *string
	Descripcion string
	Marca       *string
	Familia     *string
	SubFamilia  *string

	VentaBodega01 int64
	VentaBodega02 int64
	VentaBodega03 int64
	VentaBodega04 int64
	VentaBodega05 int64

	StockBodega01 int64
	StockBodega02 int64
	StockBodega03 int64
	StockBodega04 int64
	StockBodega05 int64

	VentaDistribucion  int64
	Peso               *float64
	PrecioUltimaCompra *float64
	UnidadMedida       *string

	UpdatedAtAPI string
}

func productFromRecord(rec erpapi.Record) (Product, bool) {
	prov := rec.Str("proveedor")
	cod := rec.Str("producto_codigo")
	if prov == "" || cod == "" {
		return Product{}, false
	}
	return Product{
		Proveedor:      prov,
		ProductoCodigo: cod,

		CodigoBarra: rec.StrPtr("codigo_barra"),
		Descripcion: rec.Str("descripcion"),
		Marca:       rec.StrPtr("marca"),
		Familia:     rec.StrPtr("familia"),
		SubFamilia:  rec.StrPtr("subfamilia"),

		VentaBodega01: rec.I64("venta_bodega01"),
		VentaBodega02: rec.I64("venta_bodega02"),
		VentaBodega03: rec.I64("venta_bodega03"),
		VentaBodega04: rec.I64("venta_bodega04"),
		VentaBodega05: rec.I64("venta_bodega05"),

		StockBodega01: rec.I64("stock_bodega01"),
		StockBodega02: rec.I64("stock_bodega02"),
		StockBodega03: rec.I64("stock_bodega03"),
		StockBodega04: rec.I64("stock_bodega04"),
		StockBodega05: rec.I64("stock_bodega05"),

		VentaDistribucion:  rec.I64("venta_distribucion"),
		Peso:               rec.F64Ptr("peso"),
		PrecioUltimaCompra: rec.F64Ptr("precio_ultima_compra"),
		UnidadMedida:       rec.StrPtr("unidad_medida"),

		UpdatedAtAPI: rec.Str("updated_at"),
	}, true
}

// fingerprint covers every business field except the composite key and the
// source timestamp. Field order is fixed; changing it would rewrite every
// row on the next run.
func (p Product) fingerprint() string {
	return fingerprint.Digest(
		p.CodigoBarra, p.Descripcion, p.Marca, p.Familia, p.SubFamilia,
		p.VentaBodega01, p.VentaBodega02, p.VentaBodega03, p.VentaBodega04, p.VentaBodega05,
		p.StockBodega01, p.StockBodega02, p.StockBodega03, p.StockBodega04, p.StockBodega05,
		p.VentaDistribucion, p.Peso, p.PrecioUltimaCompra, p.UnidadMedida,
	)
}

// ProductEngine upserts into api_cache_productos.
type ProductEngine struct {
	Snapshot string
	Now      func() time.Time
}

func (e ProductEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e ProductEngine) Upsert(tx *gorm.DB, rec erpapi.Record) (Result, error) {
	p, ok := productFromRecord(rec)
	if !ok {
		return Rejected, nil
	}
	fp := p.fingerprint()

	var stored db.ProductCache
	err := tx.Select("source_hash").
		Where("proveedor = ? AND producto_codigo = ?", p.Proveedor, p.ProductoCodigo).
		Take(&stored).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Rejected, err
	}

	if err == nil && stored.SourceHash == fp {
		res := tx.Model(&db.ProductCache{}).
			Where("proveedor = ? AND producto_codigo = ?", p.Proveedor, p.ProductoCodigo).
			Updates(map[string]any{
				"snapshot_date":  e.Snapshot,
				"last_synced_at": e.now(),
			})
		if res.Error != nil {
			return Rejected, res.Error
		}
		return Unchanged, nil
	}

	row := db.ProductCache{
		Proveedor:      p.Proveedor,
		ProductoCodigo: p.ProductoCodigo,

		CodigoBarra: p.CodigoBarra,
		Descripcion: p.Descripcion,
		Marca:       p.Marca,
		Familia:     p.Familia,
		SubFamilia:  p.SubFamilia,

		VentaBodega01: p.VentaBodega01,
		VentaBodega02: p.VentaBodega02,
		VentaBodega03: p.VentaBodega03,
		VentaBodega04: p.VentaBodega04,
		VentaBodega05: p.VentaBodega05,

		StockBodega01: p.StockBodega01,
		StockBodega02: p.StockBodega02,
		StockBodega03: p.StockBodega03,
		StockBodega04: p.StockBodega04,
		StockBodega05: p.StockBodega05,

		VentaDistribucion:  p.VentaDistribucion,
		Peso:               p.Peso,
		PrecioUltimaCompra: p.PrecioUltimaCompra,
		UnidadMedida:       p.UnidadMedida,

		UpdatedAtAPI: p.UpdatedAtAPI,
		SnapshotDate: e.Snapshot,
		SourceHash:   fp,
		LastSyncedAt: e.now(),
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "proveedor"}, {Name: "producto_codigo"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"codigo_barra", "descripcion", "marca", "familia", "subfamilia",
			"venta_bodega01", "venta_bodega02", "venta_bodega03", "venta_bodega04", "venta_bodega05",
			"stock_bodega01", "stock_bodega02", "stock_bodega03", "stock_bodega04", "stock_bodega05",
			"venta_distribucion", "peso", "precio_ultima_compra", "unidad_medida",
			"updated_at_api", "snapshot_date", "source_hash", "last_synced_at",
		}),
	}).Create(&row).Error; err != nil {
		return Rejected, err
	}
	return Changed, nil
}

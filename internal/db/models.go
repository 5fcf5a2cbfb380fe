// internal/db/models.go
package db

import "time"

// api_cache_proveedores — supplier rows mirrored from the ERP API.
// The B2B portal reads this table; only the sync writes it.
type SupplierCache struct {
	KPRV         string    `gorm:"primaryKey;column:kprv;size:20"`
	RazonSocial  string    `gorm:"column:razon_social;size:160"`
	UpdatedAtAPI string    `gorm:"column:updated_at_api;size:32"` // timestamp as the ERP sends it
	SnapshotDate string    `gorm:"column:snapshot_date;size:10;index"`
	SourceHash   string    `gorm:"column:source_hash;size:64"`
	LastSyncedAt time.Time `gorm:"column:last_synced_at"`
}

func (SupplierCache) TableName() string { return "api_cache_proveedores" }

// api_cache_productos — product rows per (proveedor, producto_codigo).
// Numeric counters default to 0 when the ERP omits them; descriptive
// fields and prices stay NULL.
type ProductCache struct {
	Proveedor      string `gorm:"primaryKey;column:proveedor;size:20"`
	ProductoCodigo string `gorm:"primaryKey;column:producto_codigo;size:40"`

	CodigoBarra *string `gorm:"column:codigo_barra;size:40"`
	Descripcion string  `gorm:"column:descripcion;size:200"`
	Marca       *string `gorm:"column:marca;size:80"`
	Familia     *string `gorm:"column:familia;size:80"`
	SubFamilia  *string `gorm:"column:subfamilia;size:80"`

	VentaBodega01 int64 `gorm:"column:venta_bodega01"`
	VentaBodega02 int64 `gorm:"column:venta_bodega02"`
	VentaBodega03 int64 `gorm:"column:venta_bodega03"`
	VentaBodega04 int64 `gorm:"column:venta_bodega04"`
	VentaBodega05 int64 `gorm:"column:venta_bodega05"`

	StockBodega01 int64 `gorm:"column:stock_bodega01"`
	StockBodega02 int64 `gorm:"column:stock_bodega02"`
	StockBodega03 int64 `gorm:"column:stock_bodega03"`
	StockBodega04 int64 `gorm:"column:stock_bodega04"`
	StockBodega05 int64 `gorm:"column:stock_bodega05"`

	VentaDistribucion  int64    `gorm:"column:venta_distribucion"`
	Peso               *float64 `gorm:"column:peso"`
	PrecioUltimaCompra *float64 `gorm:"column:precio_ultima_compra"`
	UnidadMedida       *string  `gorm:"column:unidad_medida;size:10"`

	UpdatedAtAPI string    `gorm:"column:updated_at_api;size:32"`
	SnapshotDate string    `gorm:"column:snapshot_date;size:10;index"`
	SourceHash   string    `gorm:"column:source_hash;size:64"`
	LastSyncedAt time.Time `gorm:"column:last_synced_at"`
}

func (ProductCache) TableName() string { return "api_cache_productos" }

// api_sync_log — one row per orchestrator run.
type SyncLog struct {
	ID            uint       `gorm:"primaryKey;column:id"`
	Endpoint      string     `gorm:"column:endpoint;size:40;index"`
	SyncType      string     `gorm:"column:sync_type;size:20"`
	SinceParam    *string    `gorm:"column:since_param;size:32"`
	StartedAt     time.Time  `gorm:"column:started_at"`
	FinishedAt    *time.Time `gorm:"column:finished_at"`
	Status        string     `gorm:"column:status;size:10;index"` // ok/error
	ItemsUpserted int        `gorm:"column:items_upserted"`
	ItemsDeleted  int        `gorm:"column:items_deleted"`
	ErrorMessage  string     `gorm:"column:error_message;type:text"`
}

func (SyncLog) TableName() string { return "api_sync_log" }

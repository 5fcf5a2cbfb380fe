package db

import (
	"fmt"
)

// Migrate creates/updates the cache and audit tables. The web portal only
// reads these tables, so AutoMigrate from here is the single schema owner.
func (h *Handle) Migrate() error {
	if err := h.DB.AutoMigrate(
		&SupplierCache{},
		&ProductCache{},
		&SyncLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}

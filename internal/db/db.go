package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	conf "github.com/bcastro/erp2b2b/internal/config"
)

type Handle struct {
	DB     *gorm.DB
	Driver string
}

// Open connects using the configured driver. The portal's production DB is
// MySQL; sqlite (pure Go) serves local runs and tests.
func Open(cfg conf.DatabaseConfig) (*Handle, error) {
	var dial gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dial = mysql.Open(cfg.DSN)
	case "postgres":
		dial = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dial = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{
		// Logger: logger.Default.LogMode(logger.Info), // verbose SQL if needed
	})
	if err != nil {
		return nil, err
	}
	return &Handle{DB: gdb, Driver: cfg.Driver}, nil
}

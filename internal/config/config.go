// internal/config/config.go
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig selects the target database. Production points at the
// portal's MySQL instance; the sqlite path is the zero-config default.
type DatabaseConfig struct {
	Driver string `json:"driver"` // mysql | postgres | sqlite
	DSN    string `json:"dsn,omitempty"`
	Path   string `json:"path,omitempty"` // sqlite only
}

// APIConfig holds the ERP API endpoint and credentials.
type APIConfig struct {
	BaseURL    string `json:"base_url"`
	Token      string `json:"token"`
	TimeoutSec int    `json:"timeout_sec"`
}

// Config is the whole application configuration, one JSON file.
type Config struct {
	AutoStart           bool           `json:"auto_start"`
	SyncIntervalSeconds int            `json:"sync_interval_seconds"`
	BatchSize           int            `json:"batch_size"`
	Database            DatabaseConfig `json:"database"`
	API                 APIConfig      `json:"api"`
	Endpoints           []string       `json:"endpoints"` // run order for the daemon

	// productos: fixed supplier list and fetch window
	Proveedores          []string `json:"proveedores"`
	ProductosVentanaDias int      `json:"productos_ventana_dias"`
}

// envOverrides lets cron deployments keep secrets out of config.json.
// ERP2B2B_API_TOKEN and ERP2B2B_DB_DSN win over the file when set.
type envOverrides struct {
	APIToken string `envconfig:"API_TOKEN"`
	DBDSN    string `envconfig:"DB_DSN"`
}

func LoadOrCreate(path string) (*Config, bool, error) {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default(filepath.Dir(path))
			if err := Save(path, cfg); err != nil {
				return nil, false, fmt.Errorf("writing default config: %w", err)
			}
			if err := cfg.applyEnv(); err != nil {
				return nil, false, err
			}
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, false, err
	}
	return &cfg, false, nil
}

// Default returns the config written on first run.
func Default(dataDir string) *Config {
	return &Config{
		AutoStart:           false,
		SyncIntervalSeconds: 3600,
		BatchSize:           1000,
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(dataDir, "erp2b2b.db"),
		},
		API: APIConfig{
			BaseURL:    "https://erp.example.com/api",
			Token:      "tk_xxx",
			TimeoutSec: 60,
		},
		Endpoints:            []string{"proveedores", "productos"},
		Proveedores:          []string{"78843490"},
		ProductosVentanaDias: 30,
	}
}

func (c *Config) fillDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 1000
	}
	if c.API.TimeoutSec <= 0 {
		c.API.TimeoutSec = 60
	}
	if c.ProductosVentanaDias <= 0 {
		c.ProductosVentanaDias = 30
	}
	if len(c.Endpoints) == 0 {
		c.Endpoints = []string{"proveedores", "productos"}
	}
}

func (c *Config) applyEnv() error {
	var ov envOverrides
	if err := envconfig.Process("erp2b2b", &ov); err != nil {
		return fmt.Errorf("reading env overrides: %w", err)
	}
	if ov.APIToken != "" {
		c.API.Token = ov.APIToken
	}
	if ov.DBDSN != "" {
		c.Database.DSN = ov.DBDSN
	}
	return nil
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

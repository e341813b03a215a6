package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. WRANGLE_DATABASE_USER.
const EnvPrefix = "WRANGLE"

// Config is the full runtime configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Mall     MallConfig     `yaml:"mall"`
	Zillow   ZillowConfig   `yaml:"zillow"`
}

// DatabaseConfig locates the relational source. DSN, when set, wins over the
// individual fields.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
	DSN      string `yaml:"dsn"`
}

type CacheConfig struct {
	Dir     string `yaml:"dir"`
	Refresh bool   `yaml:"refresh"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Output    string `yaml:"output"`
	FilePath  string `yaml:"file_path" split_words:"true"`
	AddSource bool   `yaml:"add_source" split_words:"true"`
}

type MallConfig struct {
	Seed          uint64   `yaml:"seed"`
	EncodeColumns []string `yaml:"encode_columns" split_words:"true"`
	ScaleColumns  []string `yaml:"scale_columns" split_words:"true"`
	Scaler        string   `yaml:"scaler"`
}

type ZillowConfig struct {
	LandUseTypes       []int   `yaml:"land_use_types" split_words:"true"`
	ColumnCompleteness float64 `yaml:"column_completeness" split_words:"true"`
	RowCompleteness    float64 `yaml:"row_completeness" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "pgx", Host: "localhost", Port: 5432, SSLMode: "disable"},
		Cache:    CacheConfig{Dir: "data"},
		Log:      LogConfig{Level: "info", Format: "text", Output: "stderr"},
		Mall: MallConfig{
			Seed:          123,
			EncodeColumns: []string{"gender"},
			ScaleColumns:  []string{"age", "annual_income", "spending_score", "Male"},
			Scaler:        "minmax",
		},
		Zillow: ZillowConfig{
			LandUseTypes:       []int{260, 261, 263, 273, 275, 276, 279},
			ColumnCompleteness: 0.85,
			RowCompleteness:    0.75,
		},
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then overlays WRANGLE_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "pgx", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q: want pgx or sqlite", c.Database.Driver))
	}
	if c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir is required"))
	}
	for name, p := range map[string]float64{
		"zillow.column_completeness": c.Zillow.ColumnCompleteness,
		"zillow.row_completeness":    c.Zillow.RowCompleteness,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s %v outside [0, 1]", name, p))
		}
	}
	switch c.Mall.Scaler {
	case "minmax", "standard":
	default:
		errs = append(errs, fmt.Errorf("mall.scaler %q: want minmax or standard", c.Mall.Scaler))
	}
	return errors.Join(errs...)
}

// DataSourceName returns the driver DSN for database db. For sqlite the DSN
// is the file <db>.db.
func (d DatabaseConfig) DataSourceName(db string) string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "sqlite" {
		return db + ".db"
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + db,
	}
	if d.User != "" {
		u.User = url.UserPassword(d.User, d.Password)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreOxiDB    = "oxidb"
)

type Config struct {
	HTTPAddr       string   `mapstructure:"addr"`
	Store          string   `mapstructure:"store"`
	DatabaseURL    string   `mapstructure:"database_url"`
	OxiDBHost      string   `mapstructure:"oxidb_host"`
	OxiDBPort      int      `mapstructure:"oxidb_port"`
	PoolSize       int      `mapstructure:"pool_size"`
	GelfAddr       string   `mapstructure:"gelf_addr"`
	AMQPURL        string   `mapstructure:"amqp_url"`
	EventsQueue    string   `mapstructure:"events_queue"`
	AdminUser      string   `mapstructure:"admin_user"`
	AdminPass      string   `mapstructure:"admin_pass"`
	TemplateDelete string   `mapstructure:"template_delete"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	SeedSample     bool     `mapstructure:"seed_sample"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("store", StoreSQLite)
	v.SetDefault("database_url", "oxidocs.db")
	v.SetDefault("oxidb_host", "127.0.0.1")
	v.SetDefault("oxidb_port", 4444)
	v.SetDefault("pool_size", 3)
	v.SetDefault("gelf_addr", "")
	v.SetDefault("amqp_url", "")
	v.SetDefault("events_queue", "dms.events")
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_pass", "")
	v.SetDefault("template_delete", "orphan")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("seed_sample", false)
}

// Load reads defaults, then the optional config file at path, then .env,
// then the environment (DMS_ prefix; OXIDB_HOST and OXIDB_PORT are also
// honoured unprefixed).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	defaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("DMS")
	v.AutomaticEnv()
	v.BindEnv("oxidb_host", "DMS_OXIDB_HOST", "OXIDB_HOST")
	v.BindEnv("oxidb_port", "DMS_OXIDB_PORT", "OXIDB_PORT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: database_url is required for store %q", c.Store)
		}
	case StoreOxiDB:
		if c.OxiDBHost == "" || c.OxiDBPort <= 0 {
			return errors.New("config: oxidb_host and oxidb_port are required for store \"oxidb\"")
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("config: pool_size must be positive, got %d", c.PoolSize)
	}
	return nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/photosync/photolist/internal/repository"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string   `json:"serverAddress" yaml:"serverAddress"`
	Store         Store    `json:"store" yaml:"store"`
	Backend       Backend  `json:"backend" yaml:"backend"`
	Lists         Lists    `json:"lists" yaml:"lists"`
	Security      Security `json:"security" yaml:"security"`
}

// Store configures where the list set is persisted
type Store struct {
	Driver      string `json:"driver" yaml:"driver"`
	Path        string `json:"path" yaml:"path"`
	DatabaseURL string `json:"databaseUrl" yaml:"databaseUrl"`
}

// Backend configures the gallery API client
type Backend struct {
	URL            string `json:"url" yaml:"url"`
	Token          string `json:"token" yaml:"token"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	PageSize       int    `json:"pageSize" yaml:"pageSize"`
}

// Lists configures the list cache
type Lists struct {
	MaxLists int `json:"maxLists" yaml:"maxLists"`
}

// Security configuration. An empty APIKey leaves the API open.
type Security struct {
	APIKey       string `json:"apiKey" yaml:"apiKey"`
	APIKeyHeader string `json:"apiKeyHeader" yaml:"apiKeyHeader"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5010",
		Store: Store{
			Driver: DriverSQLite,
			Path:   "photolist.db",
		},
		Backend: Backend{
			URL:            "http://localhost:8000",
			TimeoutSeconds: 30,
			PageSize:       1000,
		},
		Lists: Lists{
			MaxLists: repository.DefaultMaxLists,
		},
		Security: Security{
			APIKeyHeader: "X-API-Key",
		},
	}
}

// Load loads configuration from defaults, an optional config file and the
// environment, in that order of precedence
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	if err := loadFile(cfg, configPath); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Store.Driver == DriverSQLite {
		absPath, err := filepath.Abs(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		cfg.Store.Path = absPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = strings.ToLower(driver)
	}
	if path := os.Getenv("STORE_PATH"); path != "" {
		cfg.Store.Path = path
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Store.DatabaseURL = dbURL
		// Like photosync, a database URL alone selects postgres
		if os.Getenv("STORE_DRIVER") == "" {
			cfg.Store.Driver = DriverPostgres
		}
	}
	if url := os.Getenv("BACKEND_URL"); url != "" {
		cfg.Backend.URL = url
	}
	if token := os.Getenv("BACKEND_TOKEN"); token != "" {
		cfg.Backend.Token = token
	}
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		cfg.Security.APIKey = apiKey
	}
	if header := os.Getenv("API_KEY_HEADER"); header != "" {
		cfg.Security.APIKeyHeader = header
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BACKEND_TIMEOUT_SECONDS", &cfg.Backend.TimeoutSeconds},
		{"BACKEND_PAGE_SIZE", &cfg.Backend.PageSize},
		{"MAX_LISTS", &cfg.Lists.MaxLists},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}
	return nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Lists.MaxLists < 1 {
		return fmt.Errorf("max lists must be positive, got %d", c.Lists.MaxLists)
	}
	if c.Backend.PageSize < 1 {
		return fmt.Errorf("backend page size must be positive, got %d", c.Backend.PageSize)
	}
	if c.Backend.TimeoutSeconds < 1 {
		return fmt.Errorf("backend timeout must be positive, got %d", c.Backend.TimeoutSeconds)
	}
	if c.Backend.URL == "" {
		return errors.New("backend url is required")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SHORTORDER"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	LogLevel   string           `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

// ServerConfig holds the HTTP listeners.
type ServerConfig struct {
	Port        int `mapstructure:"port" validate:"min=1,max=65535"`
	MetricsPort int `mapstructure:"metrics_port" validate:"min=1,max=65535,nefield=Port"`
}

// DatabaseConfig selects the catalog store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite3 postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

// CatalogConfig tells the server where to read the catalog from.
type CatalogConfig struct {
	// Source: file, database or embedded
	Source string `mapstructure:"source" validate:"required,oneof=file database embedded"`
	// Path to the YAML file, or to the directory holding the XML files
	Path   string `mapstructure:"path" validate:"required_if=Source file"`
	Format string `mapstructure:"format" validate:"oneof=yaml xml"`
}

// SimulationConfig holds the day constants.
type SimulationConfig struct {
	MaxOrdersPerDay int     `mapstructure:"max_orders_per_day" validate:"min=1"`
	MaxRequests     int     `mapstructure:"max_requests" validate:"min=0"`
	EntreeChance    float64 `mapstructure:"entree_chance" validate:"gte=0,lte=1"`
	SideChance      float64 `mapstructure:"side_chance" validate:"gte=0,lte=1"`
	DrinkChance     float64 `mapstructure:"drink_chance" validate:"gte=0,lte=1"`
	RequestChance   float64 `mapstructure:"request_chance" validate:"gte=0,lte=1"`
	// MaxPrepStations sizes the prep area; the kitchen floor does not model prep stations.
	MaxPrepStations  int           `mapstructure:"max_prep_stations" validate:"min=0"`
	MaxOrderStations int           `mapstructure:"max_order_stations" validate:"min=1"`
	DispatchInterval time.Duration `mapstructure:"dispatch_interval" validate:"gt=0"`
	// Seed 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

// AuthConfig enables bearer-token auth on the API when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server:   ServerConfig{Port: 8080, MetricsPort: 9090},
		Database: DatabaseConfig{Driver: "sqlite3", DSN: "shortorder.db"},
		Catalog:  CatalogConfig{Source: "embedded", Path: "catalog.yaml", Format: "yaml"},
		Simulation: SimulationConfig{
			MaxOrdersPerDay:  100,
			MaxRequests:      3,
			EntreeChance:     0.99,
			SideChance:       0.85,
			DrinkChance:      0.85,
			RequestChance:    0.4,
			MaxPrepStations:  6,
			MaxOrderStations: 10,
			DispatchInterval: 5 * time.Second,
		},
	}
}

// Load reads configuration with priority:
// 1. Environment variables (a .env file is loaded first if present)
// 2. Config file
// 3. Defaults
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	// SHORTORDER_SIMULATION_SIDE_CHANCE overrides simulation.side_chance
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			switch {
			case errors.Is(err, fs.ErrNotExist):
			case errors.As(err, new(viper.ConfigFileNotFoundError)):
			case errors.As(err, &parseErr):
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			default:
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// DATABASE_URL without the prefix is accepted for hosted postgres.
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.dsn", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// SetDefaults registers every key of Default with v. Keys unknown to viper
// are invisible to AutomaticEnv, so each one is listed here.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.metrics_port", d.Server.MetricsPort)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)

	v.SetDefault("catalog.source", d.Catalog.Source)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("catalog.format", d.Catalog.Format)

	v.SetDefault("simulation.max_orders_per_day", d.Simulation.MaxOrdersPerDay)
	v.SetDefault("simulation.max_requests", d.Simulation.MaxRequests)
	v.SetDefault("simulation.entree_chance", d.Simulation.EntreeChance)
	v.SetDefault("simulation.side_chance", d.Simulation.SideChance)
	v.SetDefault("simulation.drink_chance", d.Simulation.DrinkChance)
	v.SetDefault("simulation.request_chance", d.Simulation.RequestChance)
	v.SetDefault("simulation.max_prep_stations", d.Simulation.MaxPrepStations)
	v.SetDefault("simulation.max_order_stations", d.Simulation.MaxOrderStations)
	v.SetDefault("simulation.dispatch_interval", d.Simulation.DispatchInterval)
	v.SetDefault("simulation.seed", d.Simulation.Seed)

	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
}

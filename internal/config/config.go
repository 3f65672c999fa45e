// Package config loads the map server's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the map server process.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Cache
	Redis RedisConfig `yaml:"redis"`

	// Auth
	Auth AuthConfig `yaml:"auth"`

	// World
	World WorldConfig `yaml:"world"`

	// External war-status feed polled by the territory worker.
	WarStatusURL string `yaml:"war_status_url"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error (default: info)
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns        int32  `yaml:"max_conns"`
	MinConns        int32  `yaml:"min_conns"`
	MaxConnLifetime string `yaml:"max_conn_lifetime"`
	MaxConnIdleTime string `yaml:"max_conn_idle_time"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	base := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)

	var params []string
	if d.MaxConns > 0 {
		params = append(params, fmt.Sprintf("pool_max_conns=%d", d.MaxConns))
	}
	if d.MinConns > 0 {
		params = append(params, fmt.Sprintf("pool_min_conns=%d", d.MinConns))
	}
	if d.MaxConnLifetime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_lifetime=%s", d.MaxConnLifetime))
	}
	if d.MaxConnIdleTime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_idle_time=%s", d.MaxConnIdleTime))
	}

	if len(params) > 0 {
		return base + "&" + strings.Join(params, "&")
	}
	return base
}

// RedisConfig holds cache connection parameters.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuthConfig holds token signing and the upstream forum auth endpoint.
type AuthConfig struct {
	TokenSecret  string        `yaml:"token_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	ForumAuthURL string        `yaml:"forum_auth_url"`
}

// WorldConfig holds grid and pathfinding sizing.
type WorldConfig struct {
	Width     int32 `yaml:"width"`
	Height    int32 `yaml:"height"`
	GridStep  int32 `yaml:"grid_step"`
	PathCache int   `yaml:"path_cache_size"`
}

// Default returns Server config with sensible defaults.
func Default() Server {
	return Server{
		BindAddress: "0.0.0.0",
		Port:        8080,
		LogLevel:    "info",
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "mapserver",
			Password: "mapserver",
			DBName:  "mapserver",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Address: "127.0.0.1:6379",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		World: WorldConfig{
			Width:     6144,
			Height:    6144,
			GridStep:  32,
			PathCache: 4096,
		},
	}
}

// Load loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Server, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

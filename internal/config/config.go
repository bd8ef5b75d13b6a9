package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration, loaded from a YAML file
// with environment variable overrides for secrets.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Discord  DiscordConfig  `yaml:"discord"`
	CORS     CORSConfig     `yaml:"cors"`
}

type AppConfig struct {
	Env         string `yaml:"env"`
	Port        int    `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"` // sqlite file path
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiresDays int    `yaml:"expires_days"`
}

type DiscordConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"`
	AdminIDs     []string `yaml:"admin_ids"`
	EditorIDs    []string `yaml:"editor_ids"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// GetDSN builds the MySQL connection string
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// Load reads configuration from the given YAML file and applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Env:         "local",
			Port:        8080,
			FrontendURL: "http://localhost:3000",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "zenwiki.db",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		JWT: JWTConfig{
			ExpiresDays: 7,
		},
	}
}

// applyEnvOverrides lets secrets come from the environment instead of
// being committed in YAML.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("DISCORD_CLIENT_ID"); v != "" {
		c.Discord.ClientID = v
	}
	if v := os.Getenv("DISCORD_CLIENT_SECRET"); v != "" {
		c.Discord.ClientSecret = v
	}
	if v := os.Getenv("DISCORD_REDIRECT_URI"); v != "" {
		c.Discord.RedirectURL = v
	}
	if v := os.Getenv("ADMIN_DISCORD_IDS"); v != "" {
		c.Discord.AdminIDs = splitIDs(v)
	}
	if v := os.Getenv("EDITOR_DISCORD_IDS"); v != "" {
		c.Discord.EditorIDs = splitIDs(v)
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.App.FrontendURL = v
	}
}

// splitIDs parses a comma-separated ID list, dropping empty entries
func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

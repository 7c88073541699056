package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// SchedulerConfig controls the weekly target-adjustment job.
type SchedulerConfig struct {
	// Cron is a six-field cron spec (seconds first) for the weekly run.
	Cron string `yaml:"cron"`
	// Workers bounds how many cycles are adjusted concurrently.
	Workers int `yaml:"workers"`
	// JournalDir holds the local run journal database.
	JournalDir string `yaml:"journal_dir"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix AUTOREG_ and underscore-separated paths:
//
//	AUTOREG_SERVER_HOST, AUTOREG_SERVER_PORT,
//	AUTOREG_DB_HOST, AUTOREG_DB_PORT, AUTOREG_DB_NAME,
//	AUTOREG_DB_USER, AUTOREG_DB_PASSWORD, AUTOREG_DB_SSLMODE,
//	AUTOREG_AUTH_API_KEY, AUTOREG_SCHEDULER_CRON,
//	AUTOREG_SCHEDULER_WORKERS, AUTOREG_SCHEDULER_JOURNAL_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AUTOREG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("AUTOREG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AUTOREG_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("AUTOREG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("AUTOREG_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("AUTOREG_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("AUTOREG_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("AUTOREG_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("AUTOREG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("AUTOREG_SCHEDULER_CRON"); v != "" {
		cfg.Scheduler.Cron = v
	}
	if v := os.Getenv("AUTOREG_SCHEDULER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scheduler.Workers = n
		}
	}
	if v := os.Getenv("AUTOREG_SCHEDULER_JOURNAL_DIR"); v != "" {
		cfg.Scheduler.JournalDir = v
	}
}

func (c *Config) applyDefaults() {
	if c.Scheduler.Cron == "" {
		// Monday 06:00, after the final sets of the week have been logged.
		c.Scheduler.Cron = "0 0 6 * * 1"
	}
	if c.Scheduler.Workers == 0 {
		c.Scheduler.Workers = 4
	}
	if c.Scheduler.JournalDir == "" {
		c.Scheduler.JournalDir = "."
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Scheduler.Workers < 0 {
		return fmt.Errorf("scheduler.workers must be positive")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Storage     StorageConfig     `toml:"storage"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Scheduling  SchedulingConfig  `toml:"scheduling"`
	AutoRelease AutoReleaseConfig `toml:"auto_release"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type StorageConfig struct {
	Driver string `toml:"driver"` // postgres | memory
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type SchedulingConfig struct {
	BufferMinutes       int `toml:"buffer_minutes"`
	MinDurationMinutes  int `toml:"min_duration_minutes"`
	MaxDurationMinutes  int `toml:"max_duration_minutes"`
	SlotStepMinutes     int `toml:"slot_step_minutes"`
	SearchHorizonDays   int `toml:"search_horizon_days"`
	MaxSlots            int `toml:"max_slots"`
	UrgentWindowMinutes int `toml:"urgent_window_minutes"`
}

type AutoReleaseConfig struct {
	Enabled         bool   `toml:"enabled"`
	IntervalSeconds int    `toml:"interval_seconds"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	GraceMinutes    int    `toml:"grace_minutes"`
	GraceAnchor     string `toml:"grace_anchor"` // created_at | reserved_from
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load читает конфигурацию из TOML файла
// Переменные окружения (и .env в рабочей директории) переопределяют значения из файла
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Path путь к файлу конфигурации: PREPROOM_CONFIG или config.toml
func Path() string {
	if p := os.Getenv("PREPROOM_CONFIG"); p != "" {
		return p
	}
	return "config.toml"
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "prep_rooms",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "prep-room-service",
		},
		Scheduling: SchedulingConfig{
			BufferMinutes:       30,
			MinDurationMinutes:  120,
			MaxDurationMinutes:  480,
			SlotStepMinutes:     15,
			SearchHorizonDays:   14,
			MaxSlots:            10,
			UrgentWindowMinutes: 120,
		},
		AutoRelease: AutoReleaseConfig{
			Enabled:         true,
			IntervalSeconds: 300,
			TimeoutSeconds:  60,
			GraceMinutes:    30,
			GraceAnchor:     string(domain.GraceFromCreation),
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		key string
		set func(string) error
	}{
		{"DB_HOST", func(v string) error { c.Database.Host = v; return nil }},
		{"DB_PORT", intSetter(&c.Database.Port)},
		{"DB_USER", func(v string) error { c.Database.User = v; return nil }},
		{"DB_PASSWORD", func(v string) error { c.Database.Password = v; return nil }},
		{"DB_NAME", func(v string) error { c.Database.DBName = v; return nil }},
		{"HTTP_PORT", intSetter(&c.Server.HTTPPort)},
		{"LOG_LEVEL", func(v string) error { c.Logs.Level = v; return nil }},
		{"STORAGE_DRIVER", func(v string) error { c.Storage.Driver = v; return nil }},
	}

	for _, o := range overrides {
		v, ok := os.LookupEnv(o.key)
		if !ok || v == "" {
			continue
		}
		if err := o.set(v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, o.key, err)
		}
	}
	return nil
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q must be postgres or memory", c.Storage.Driver))
	}

	s := c.Scheduling
	if s.BufferMinutes < 0 {
		errs = append(errs, fmt.Errorf("scheduling.buffer_minutes must not be negative"))
	}
	if s.MinDurationMinutes <= 0 || s.MaxDurationMinutes < s.MinDurationMinutes {
		errs = append(errs, fmt.Errorf("scheduling duration bounds [%d, %d] are invalid", s.MinDurationMinutes, s.MaxDurationMinutes))
	}
	if s.SlotStepMinutes <= 0 || s.SearchHorizonDays <= 0 || s.MaxSlots <= 0 || s.UrgentWindowMinutes < 0 {
		errs = append(errs, fmt.Errorf("scheduling search parameters must be positive"))
	}

	a := c.AutoRelease
	if a.Enabled && a.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("auto_release.interval_seconds must be positive"))
	}
	if a.GraceMinutes <= 0 {
		errs = append(errs, fmt.Errorf("auto_release.grace_minutes must be positive"))
	}
	if !domain.GraceAnchor(a.GraceAnchor).IsValid() {
		errs = append(errs, fmt.Errorf("auto_release.grace_anchor %q must be created_at or reserved_from", a.GraceAnchor))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, fmt.Errorf("rate_limit requires positive requests_per_second and burst"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SchedulingPolicy правила планирования для доменных сервисов
func (c *Config) SchedulingPolicy() domain.SchedulingPolicy {
	s := c.Scheduling
	return domain.SchedulingPolicy{
		Buffer:        time.Duration(s.BufferMinutes) * time.Minute,
		MinDuration:   time.Duration(s.MinDurationMinutes) * time.Minute,
		MaxDuration:   time.Duration(s.MaxDurationMinutes) * time.Minute,
		SlotStep:      time.Duration(s.SlotStepMinutes) * time.Minute,
		SearchHorizon: time.Duration(s.SearchHorizonDays) * 24 * time.Hour,
		MaxSlots:      s.MaxSlots,
		UrgentWindow:  time.Duration(s.UrgentWindowMinutes) * time.Minute,
	}
}

// AutoReleasePolicy правило авто-освобождения удержаний
func (c *Config) AutoReleasePolicy() domain.AutoReleasePolicy {
	return domain.AutoReleasePolicy{
		GracePeriod: time.Duration(c.AutoRelease.GraceMinutes) * time.Minute,
		Anchor:      domain.GraceAnchor(c.AutoRelease.GraceAnchor),
	}
}

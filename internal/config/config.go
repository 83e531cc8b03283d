package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Firebase  FirebaseConfig  `toml:"firebase"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Jobs      JobsConfig      `toml:"jobs"`
	Booking   BookingConfig   `toml:"booking"`
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
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// FirebaseConfig доступ к Firebase Auth и Firestore
type FirebaseConfig struct {
	Enabled            bool   `toml:"enabled"`
	ProjectID          string `toml:"project_id"`
	CredentialsFile    string `toml:"credentials_file"`
	Timeout            int    `toml:"timeout"`      // секунды, на один запрос к провайдеру
	SyncEnabled        bool   `toml:"sync_enabled"` // зеркалировать слоты и бронирования в Firestore
	SlotsCollection    string `toml:"slots_collection"`
	BookingsCollection string `toml:"bookings_collection"`
}

type RateLimitConfig struct {
	Enabled         bool    `toml:"enabled"`
	RPS             float64 `toml:"rps"`
	Burst           int     `toml:"burst"`
	CleanupInterval int     `toml:"cleanup_interval"` // секунды
}

type JobsConfig struct {
	Enabled                  bool   `toml:"enabled"`
	CompleteBookingsSchedule string `toml:"complete_bookings_schedule"`
	CompleteGraceMinutes     int    `toml:"complete_grace_minutes"`
	PurgeSlotsSchedule       string `toml:"purge_slots_schedule"`
	SlotRetentionDays        int    `toml:"slot_retention_days"`
}

type BookingConfig struct {
	DefaultTimezone string `toml:"default_timezone"`
	EventBufferSize int    `toml:"event_buffer_size"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переопределения из окружения
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointmentservice"
	}

	if c.Firebase.Timeout == 0 {
		c.Firebase.Timeout = 5
	}
	if c.Firebase.SlotsCollection == "" {
		c.Firebase.SlotsCollection = "availability"
	}
	if c.Firebase.BookingsCollection == "" {
		c.Firebase.BookingsCollection = "appointments"
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
	if c.RateLimit.CleanupInterval == 0 {
		c.RateLimit.CleanupInterval = 60
	}

	if c.Jobs.CompleteBookingsSchedule == "" {
		c.Jobs.CompleteBookingsSchedule = "@every 15m"
	}
	if c.Jobs.CompleteGraceMinutes == 0 {
		c.Jobs.CompleteGraceMinutes = 60
	}
	if c.Jobs.PurgeSlotsSchedule == "" {
		c.Jobs.PurgeSlotsSchedule = "@daily"
	}
	if c.Jobs.SlotRetentionDays == 0 {
		c.Jobs.SlotRetentionDays = 30
	}

	if c.Booking.DefaultTimezone == "" {
		c.Booking.DefaultTimezone = "UTC"
	}
	if c.Booking.EventBufferSize == 0 {
		c.Booking.EventBufferSize = 64
	}
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIALS_FILE"); v != "" {
		c.Firebase.CredentialsFile = v
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Firebase.Enabled && c.Firebase.ProjectID == "" {
		return fmt.Errorf("%w: firebase.project_id is required when firebase is enabled", ErrInvalidConfig)
	}
	if c.Firebase.SyncEnabled && !c.Firebase.Enabled {
		return fmt.Errorf("%w: firebase.sync_enabled requires firebase.enabled", ErrInvalidConfig)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("%w: rate_limit.cleanup_interval must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Booking.DefaultTimezone); err != nil {
		return fmt.Errorf("%w: booking.default_timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

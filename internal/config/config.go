package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Calendar CalendarConfig `toml:"calendar"`
	Booking  BookingConfig  `toml:"booking"`
	Sync     SyncConfig     `toml:"sync"`
}

type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	// Ограничение запросов публичного бронирования на IP
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
	RateLimitBurst     int `toml:"rate_limit_burst"`
	// Брать IP клиента из X-Forwarded-For. Включать только за доверенным прокси
	TrustForwardedFor bool `toml:"trust_forwarded_for"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
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

// CalendarConfig доступ к внешнему календарю администратора
type CalendarConfig struct {
	AdminEmail  string `toml:"admin_email"`
	AccessToken string `toml:"access_token"`
	CalendarID  string `toml:"calendar_id"`
	Timeout     int    `toml:"timeout"`
	// FailOpen: ошибка free/busy запроса трактуется как "занятых интервалов нет"
	FailOpen bool `toml:"fail_open"`
	// Endpoint переопределяет адрес API (для стендов)
	Endpoint string `toml:"endpoint"`
}

// IsConfigured true, если задан токен доступа
func (c CalendarConfig) IsConfigured() bool {
	return c.AccessToken != ""
}

type HoursWindowConfig struct {
	Open  float64 `toml:"open"`
	Close float64 `toml:"close"`
}

type BookingConfig struct {
	Timezone           string              `toml:"timezone"`
	GranularityMinutes int                 `toml:"granularity_minutes"`
	HorizonDays        int                 `toml:"horizon_days"`
	SessionTTLMinutes  int                 `toml:"session_ttl_minutes"`
	Hours              []HoursWindowConfig `toml:"hours"`
}

// BusinessHours таблица рабочих часов для сетки слотов
func (c BookingConfig) BusinessHours() domain.BusinessHours {
	if len(c.Hours) == 0 {
		return domain.DefaultBusinessHours
	}
	windows := make([]domain.HoursWindow, len(c.Hours))
	for i, h := range c.Hours {
		windows[i] = domain.HoursWindow{Open: h.Open, Close: h.Close}
	}
	return domain.BusinessHours{
		GranularityMinutes: c.GranularityMinutes,
		Windows:            windows,
	}
}

// Location часовой пояс по умолчанию для посетителей
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type SyncConfig struct {
	ReconcileSchedule string `toml:"reconcile_schedule"`
	BatchSize         int    `toml:"batch_size"`
	MaxAttempts       int    `toml:"max_attempts"`
	SessionSweep      string `toml:"session_sweep_schedule"`
}

// Load читает конфигурацию из TOML файла.
// Секреты можно переопределить переменными окружения (в том числе из .env).
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:           8080,
			ReadTimeout:        10,
			WriteTimeout:       15,
			IdleTimeout:        60,
			ShutdownTimeout:    10,
			RateLimitPerMinute: 120,
			RateLimitBurst:     20,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "smc_scheduling_service"},
		Calendar: CalendarConfig{
			CalendarID: "primary",
			Timeout:    10,
			FailOpen:   true,
		},
		Booking: BookingConfig{
			Timezone:           "UTC",
			GranularityMinutes: domain.SlotDurationMinutes,
			HorizonDays:        domain.BookingHorizonDays,
			SessionTTLMinutes:  60,
		},
		Sync: SyncConfig{
			ReconcileSchedule: "@every 1m",
			BatchSize:         50,
			MaxAttempts:       10,
			SessionSweep:      "@every 5m",
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CALENDAR_ACCESS_TOKEN"); v != "" {
		cfg.Calendar.AccessToken = v
	}
	if v := os.Getenv("CALENDAR_ADMIN_EMAIL"); v != "" {
		cfg.Calendar.AdminEmail = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("invalid booking.timezone %q: %w", c.Booking.Timezone, err)
	}
	if c.Booking.HorizonDays <= 0 {
		return errors.New("booking.horizon_days must be positive")
	}
	if c.Booking.SessionTTLMinutes <= 0 {
		return errors.New("booking.session_ttl_minutes must be positive")
	}

	hours := c.Booking.BusinessHours()
	if hours.GranularityMinutes <= 0 {
		return errors.New("booking.granularity_minutes must be positive")
	}
	for i, w := range hours.Windows {
		if w.Open < 0 || w.Close > 24 || w.Close <= w.Open {
			return fmt.Errorf("invalid booking.hours[%d]: %v-%v", i, w.Open, w.Close)
		}
	}

	if c.Sync.BatchSize <= 0 {
		return errors.New("sync.batch_size must be positive")
	}
	if c.Sync.MaxAttempts <= 0 {
		return errors.New("sync.max_attempts must be positive")
	}
	return nil
}

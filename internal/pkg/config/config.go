package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Booking BookingConfig
	Worker  WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Manila"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

// Empty URL disables the catalog cache.
type RedisConfig struct {
	URL      string        `envconfig:"REDIS_URL" default:""`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"5m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Manila"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"28800"` // 8*60*60
}

type JWTConfig struct {
	Secret               string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration  string `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration string `envconfig:"JWT_REFRESH_TOKEN_DURATION" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type BookingConfig struct {
	// Business timezone that defines "today" for past-date checks.
	TimeZone            string        `envconfig:"BOOKING_TIMEZONE" default:"Asia/Manila"`
	MaxAvailabilityDays int           `envconfig:"BOOKING_MAX_AVAILABILITY_DAYS" default:"366"`
	IdempotencyTTL      time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
}

// Background relay of the notification outbox and idempotency key purge.
type WorkerConfig struct {
	Enabled               bool          `envconfig:"WORKER_ENABLED" default:"true"`
	NotifyInterval        time.Duration `envconfig:"WORKER_NOTIFY_INTERVAL" default:"10s"`
	NotifyBatchSize       int           `envconfig:"WORKER_NOTIFY_BATCH_SIZE" default:"50"`
	NotifyMaxAttempts     int           `envconfig:"WORKER_NOTIFY_MAX_ATTEMPTS" default:"5"`
	NotifyRetryBase       time.Duration `envconfig:"WORKER_NOTIFY_RETRY_BASE" default:"1m"`
	IdempotencyPurgeEvery time.Duration `envconfig:"WORKER_IDEMPOTENCY_PURGE_INTERVAL" default:"1h"`
}

// Validate rejects settings the worker loops cannot run with. time.NewTicker
// panics on a non-positive interval.
func (c WorkerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.NotifyInterval <= 0:
		return fmt.Errorf("WORKER_NOTIFY_INTERVAL must be positive, got %s", c.NotifyInterval)
	case c.IdempotencyPurgeEvery <= 0:
		return fmt.Errorf("WORKER_IDEMPOTENCY_PURGE_INTERVAL must be positive, got %s", c.IdempotencyPurgeEvery)
	case c.NotifyRetryBase <= 0:
		return fmt.Errorf("WORKER_NOTIFY_RETRY_BASE must be positive, got %s", c.NotifyRetryBase)
	case c.NotifyBatchSize <= 0:
		return fmt.Errorf("WORKER_NOTIFY_BATCH_SIZE must be positive, got %d", c.NotifyBatchSize)
	case c.NotifyMaxAttempts <= 0:
		return fmt.Errorf("WORKER_NOTIFY_MAX_ATTEMPTS must be positive, got %d", c.NotifyMaxAttempts)
	}
	return nil
}

func (c BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables always win
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err.Error())
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Worker.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid worker config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Manila",
			MaxConns: 20,
		},
		Redis: RedisConfig{
			CacheTTL: time.Minute,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Manila",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 28800,
		},
		JWT: JWTConfig{
			Secret:               "test-secret",
			AccessTokenDuration:  "15m",
			RefreshTokenDuration: "168h",
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Booking: BookingConfig{
			TimeZone:            "Asia/Manila",
			MaxAvailabilityDays: 366,
			IdempotencyTTL:      24 * time.Hour,
		},
		Worker: WorkerConfig{
			NotifyInterval:        time.Second,
			NotifyBatchSize:       10,
			NotifyMaxAttempts:     3,
			NotifyRetryBase:       time.Second,
			IdempotencyPurgeEvery: time.Minute,
		},
	}
}

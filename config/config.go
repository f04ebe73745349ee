package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		// Port falls back to a bare PORT, as set by container platforms.
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"BIND_HOST"`
		Timeout  struct {
			ReadSeconds  int `envconfig:"READ_SECONDS"  default:"30"`
			WriteSeconds int `envconfig:"WRITE_SECONDS" default:"60"`
		} `envconfig:"TIMEOUT"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"ADDRESS"`
				Port     string `envconfig:"TCP_PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Driver         string `envconfig:"DRIVER" default:"postgres"`
		MaxRetry       int    `envconfig:"MAX_RETRY"`
		RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
		MigrationTable string `envconfig:"MIGRATION_TABLE"`
		AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
		Prefix         string `envconfig:"PREFIX"`
		MaxOpenConns   int    `envconfig:"MAX_OPEN_CONNS" default:"10"`
		MaxIdleConns   int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
		Postgres       struct {
			Read  Database `envconfig:"READ"`
			Write Database `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
		MySQL struct {
			Read  Database `envconfig:"READ"`
			Write Database `envconfig:"WRITE"`
		} `envconfig:"MYSQL"`
	} `envconfig:"DB"`

	Reservation struct {
		RecentWindowDays int `envconfig:"RECENT_WINDOW_DAYS" default:"365"`
		ExpiredAfterDays int `envconfig:"EXPIRED_AFTER_DAYS" default:"182"`
	} `envconfig:"RESERVATION"`

	Gateway struct {
		TimeoutSeconds int `envconfig:"TIMEOUT_SECONDS" default:"30"`
		Breaker        struct {
			FailureThreshold uint `envconfig:"FAILURE_THRESHOLD" default:"5"`
			MinRequests      uint `envconfig:"MIN_REQUESTS"      default:"10"`
			DelaySeconds     int  `envconfig:"DELAY_SECONDS"     default:"30"`
		} `envconfig:"BREAKER"`
		Flutterwave struct {
			BaseURL       string `envconfig:"BASE_URL"       default:"https://api.flutterwave.com/v3"`
			SecretKey     string `envconfig:"SECRET_KEY"`
			EncryptionKey string `envconfig:"ENCRYPTION_KEY"`
			RedirectURL   string `envconfig:"REDIRECT_URL"`
		} `envconfig:"FLUTTERWAVE"`
		Stripe struct {
			BaseURL    string `envconfig:"BASE_URL"`
			SecretKey  string `envconfig:"SECRET_KEY"`
			SuccessURL string `envconfig:"SUCCESS_URL"`
			CancelURL  string `envconfig:"CANCEL_URL"`
		} `envconfig:"STRIPE"`
	} `envconfig:"GATEWAY"`

	Kafka struct {
		Enable        bool     `envconfig:"ENABLE"`
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Ingestion string `envconfig:"INGESTION" default:"reservations.ingested"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Export struct {
		Directory string `envconfig:"DIRECTORY"  default:"exports"`
		SheetName string `envconfig:"SHEET_NAME" default:"Reservations"`
	} `envconfig:"EXPORT"`

	Metrics struct {
		Enable bool   `envconfig:"ENABLE"`
		Path   string `envconfig:"ROUTE" default:"/metrics"`
	} `envconfig:"METRICS"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

// Database holds one side (read or write) of a database connection.
// envconfig falls back to the bare tag, so no tag may name a process variable
// such as HOST or USER.
type Database struct {
	Host     string `envconfig:"ADDRESS"`
	Port     string `envconfig:"TCP_PORT"`
	Username string `envconfig:"ACCOUNT"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"DATABASE"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

var (
	conf    *Config
	loadErr error
	once    sync.Once
)

// Load reads .env when present, then the environment, and validates the
// result. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file, using the environment only")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings that would only fail later at runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.DB.Driver != "postgres" && c.DB.Driver != "mysql" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or mysql, got %q", c.DB.Driver))
	}

	if c.App.RateLimiter.Enable && (c.App.RateLimiter.MaxRequests <= 0 || c.App.RateLimiter.WindowSeconds <= 0) {
		errs = append(errs, errors.New("APP_RATE_LIMITER needs positive MAX_REQUESTS and WINDOW_SECONDS"))
	}

	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLE is set"))
	}

	if c.Reservation.RecentWindowDays <= 0 || c.Reservation.ExpiredAfterDays <= 0 {
		errs = append(errs, errors.New("RESERVATION window and expiry days must be positive"))
	}

	return errors.Join(errs...)
}

// Get returns the process wide config, loading it on first use. The process
// exits when the environment is invalid.
func Get() *Config {
	once.Do(func() {
		conf, loadErr = Load()
	})

	if loadErr != nil {
		log.Fatal().Err(loadErr).Msg("Failed to initialize configuration")
	}

	return conf
}

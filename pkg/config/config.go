package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Logger     LoggerConfig
	Backend    BackendConfig
	AMQP       AMQPConfig
	Resilience ResilienceConfig
	Metrics    MetricsConfig
	Hub        HubConfig
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	RunMigrations bool
}

// DSN returns the libpq keyword/value connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type BackendConfig struct {
	// Kind is "postgres" or "memory".
	Kind string
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// Enabled reports whether change events should be published.
func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

type ResilienceConfig struct {
	Timeout            time.Duration
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerMinRequests uint32
	BreakerFailureRate float64
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

type HubConfig struct {
	MaxStores int
	IdleTTL   time.Duration
	InboxSize int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	failureRate, err := strconv.ParseFloat(getEnv("BREAKER_FAILURE_RATE", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_FAILURE_RATE: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
			CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "family_finance"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			RunMigrations: getEnv("DB_RUN_MIGRATIONS", "true") == "true",
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
			RefreshExp: time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION_HOURS", 168)) * time.Hour,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Backend: BackendConfig{
			Kind: getEnv("DATA_BACKEND", BackendPostgres),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "family_finance"),
			Queue:    getEnv("AMQP_QUEUE", "finance_audit"),
		},
		Resilience: ResilienceConfig{
			Timeout:            getEnvDuration("PERSISTENCE_TIMEOUT", 5*time.Second),
			BreakerMaxRequests: uint32(getEnvInt("BREAKER_MAX_REQUESTS", 5)),
			BreakerInterval:    getEnvDuration("BREAKER_INTERVAL", 60*time.Second),
			BreakerTimeout:     getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),
			BreakerMinRequests: uint32(getEnvInt("BREAKER_MIN_REQUESTS", 10)),
			BreakerFailureRate: failureRate,
		},
		Metrics: MetricsConfig{
			Enabled:   getEnv("METRICS_ENABLED", "true") == "true",
			Namespace: getEnv("METRICS_NAMESPACE", "family_finance"),
		},
		Hub: HubConfig{
			MaxStores: getEnvInt("HUB_MAX_STORES", 1000),
			IdleTTL:   getEnvDuration("HUB_IDLE_TTL", 30*time.Minute),
			InboxSize: getEnvInt("HUB_INBOX_SIZE", 50),
		},
	}, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{BackendPostgres, BackendMemory}
	if !slices.Contains(validBackends, c.Backend.Kind) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.Backend.Kind, validBackends))
	}

	if c.Backend.Kind == BackendPostgres {
		if c.Database.Host == "" {
			errors = append(errors, "database host cannot be empty when using postgres backend")
		}
		if c.Database.DBName == "" {
			errors = append(errors, "database name cannot be empty when using postgres backend")
		}
	}

	if len(c.JWT.SecretKey) < 16 {
		errors = append(errors, "JWT secret key must be at least 16 characters")
	}
	if c.JWT.Expiration <= 0 || c.JWT.RefreshExp < c.JWT.Expiration {
		errors = append(errors, "JWT refresh expiration must be at least the access token expiration")
	}

	if c.AMQP.Enabled() {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Resilience.Timeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid persistence timeout %v: must be positive", c.Resilience.Timeout))
	}
	if c.Resilience.BreakerFailureRate <= 0 || c.Resilience.BreakerFailureRate > 1 {
		errors = append(errors, fmt.Sprintf("invalid breaker failure rate %v: must be in (0, 1]", c.Resilience.BreakerFailureRate))
	}

	if c.Hub.MaxStores < 1 {
		errors = append(errors, fmt.Sprintf("invalid hub size %d: must be at least 1", c.Hub.MaxStores))
	}
	if c.Hub.IdleTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid hub idle TTL %v: must be at least 1 minute", c.Hub.IdleTTL))
	}
	if c.Hub.InboxSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid inbox size %d: must be at least 1", c.Hub.InboxSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

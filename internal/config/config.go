package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	JWT      JWTConfig
	Firebase FirebaseConfig
	Email    EmailConfig
	SMTP     SMTPConfig
	AWS      AWSConfig
	Storage  StorageConfig
	Cron     CronConfig
	Tracing  TracingConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
	BodyLimitBytes     int64
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
}

// AuthConfig selects the identity provider and how requests are authenticated.
type AuthConfig struct {
	Provider string // local | firebase
	Mode     string // token | dev-header
}

// JWTConfig holds JWT configuration for the local identity provider
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type FirebaseConfig struct {
	ProjectID          string
	ServiceAccountPath string
}

type EmailConfig struct {
	Provider string // none | smtp | ses
	From     string
	LoginURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type AWSConfig struct {
	Region   string
	Endpoint string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

type CronConfig struct {
	Enabled bool
	// MarkAbsentAt is the local wall-clock time ("15:04") after which the
	// previous weekday is closed.
	MarkAbsentAt string
}

type TracingConfig struct {
	Exporter     string // none | stdout | otlp
	OTLPEndpoint string
	ServiceName  string
}

const (
	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"

	AuthModeToken     = "token"
	AuthModeDevHeader = "dev-header"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	bodyLimit, err := strconv.ParseInt(getEnv("APP_BODY_LIMIT_BYTES", "6291456"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_BODY_LIMIT_BYTES: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		BodyLimitBytes:     bodyLimit,
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "dayflow"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		Migrate:  getEnvBool("DB_AUTO_MIGRATE", true),
	}

	config.Auth = AuthConfig{
		Provider: getEnv("AUTH_PROVIDER", AuthProviderLocal),
		Mode:     getEnv("AUTH_MODE", AuthModeToken),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Firebase = FirebaseConfig{
		ProjectID:          getEnv("FIREBASE_PROJECT_ID", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
	}

	config.Email = EmailConfig{
		Provider: getEnv("EMAIL_PROVIDER", "none"),
		From:     getEnv("EMAIL_FROM", "Dayflow <no-reply@dayflow.com>"),
		LoginURL: getEnv("EMAIL_LOGIN_URL", "http://localhost:5173/login"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
	}

	config.AWS = AWSConfig{
		Region:   getEnv("AWS_REGION", "us-east-1"),
		Endpoint: getEnv("AWS_ENDPOINT", ""),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:5000/uploads"),
	}

	config.Cron = CronConfig{
		Enabled:      getEnvBool("CRON_ENABLED", false),
		MarkAbsentAt: getEnv("CRON_MARK_ABSENT_AT", "00:30"),
	}

	config.Tracing = TracingConfig{
		Exporter:     getEnv("TRACING_EXPORTER", "none"),
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:  getEnv("TRACING_SERVICE_NAME", "dayflow-backend"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}

	switch c.Auth.Provider {
	case AuthProviderLocal:
		if c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET_KEY is required for the local auth provider")
		}
		if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
			return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
		}
	case AuthProviderFirebase:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firebase auth provider")
		}
		if c.Firebase.ServiceAccountPath == "" {
			return fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_PATH is required for the firebase auth provider")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be one of: local, firebase")
	}

	switch c.Auth.Mode {
	case AuthModeToken:
	case AuthModeDevHeader:
		if !c.IsDevelopment() {
			return fmt.Errorf("AUTH_MODE=dev-header is only allowed when APP_ENV=development")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: token, dev-header")
	}

	switch c.Email.Provider {
	case "none", "ses":
	case "smtp":
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER=smtp")
		}
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be one of: none, smtp, ses")
	}

	if _, err := time.Parse("15:04", c.Cron.MarkAbsentAt); err != nil {
		return fmt.Errorf("CRON_MARK_ABSENT_AT must be HH:MM: %w", err)
	}

	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("TRACING_EXPORTER must be one of: none, stdout, otlp")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Location returns the time zone used to decide what "today" means.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

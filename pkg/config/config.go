package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// Environments recognised by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        string
	Env         string
	FrontendURL string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// RedisConfig holds the shared store used for sessions, rate limiting and the token denylist.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds cookie session configuration
type SessionConfig struct {
	CookieName string
	Secret     string
	MaxAge     time.Duration
	Secure     bool
	KeyPrefix  string
}

// RateLimitConfig holds the per-IP sliding window settings
type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

// GoogleConfig holds OAuth2 client credentials
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// EmailConfig holds outgoing mail settings
type EmailConfig struct {
	Transport   string
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	AWSRegion   string
}

// S3Config holds object storage settings
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	PublicURL string
	AccessKey string
	SecretKey string
	URLExpiry time.Duration
}

// GeocoderConfig holds the address lookup endpoint
type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// SummaryConfig holds the booking summary roll-up schedule
type SummaryConfig struct {
	Schedule string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Redis       RedisConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	Google      GoogleConfig
	Email       EmailConfig
	S3          S3Config
	Geocoder    GeocoderConfig
	Summary     SummaryConfig
}

// Load reads an optional .env file and then the process environment.
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v, serviceName)

	config := &Config{
		ServiceName: v.GetString("SERVICE_NAME"),
		DB: DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			LogLevel:        parseLogLevel(v.GetString("DB_LOG_LEVEL"), logger.Warn),
		},
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Env:         v.GetString("APP_ENV"),
			FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		},
		JWT: JWTConfig{
			SigningKey:      v.GetString("JWT_SIGNING_KEY"),
			ExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Metrics: MetricsConfig{
			Prefix: v.GetString("METRICS_PREFIX"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			Secret:     v.GetString("SESSION_SECRET"),
			MaxAge:     v.GetDuration("SESSION_MAX_AGE"),
			Secure:     v.GetBool("SESSION_SECURE"),
			KeyPrefix:  v.GetString("SESSION_KEY_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			Window: v.GetDuration("RATE_LIMIT_WINDOW"),
			Max:    v.GetInt("RATE_LIMIT_MAX"),
		},
		Google: GoogleConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			CallbackURL:  v.GetString("GOOGLE_CALLBACK_URL"),
		},
		Email: EmailConfig{
			Transport:   v.GetString("EMAIL_TRANSPORT"),
			Host:        v.GetString("EMAIL_HOST"),
			Port:        v.GetInt("EMAIL_SMTP_PORT"),
			User:        v.GetString("EMAIL_USER"),
			Password:    v.GetString("EMAIL_PASSWORD"),
			FromAddress: v.GetString("EMAIL_FROM_ADDRESS"),
			AWSRegion:   v.GetString("AWS_REGION"),
		},
		S3: S3Config{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			Region:    v.GetString("S3_REGION"),
			Bucket:    v.GetString("S3_BUCKET"),
			PublicURL: strings.TrimRight(v.GetString("S3_PUBLIC_URL"), "/"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			URLExpiry: v.GetDuration("S3_URL_EXPIRY"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   v.GetString("GEOCODER_URL"),
			UserAgent: v.GetString("GEOCODER_USER_AGENT"),
			Timeout:   v.GetDuration("GEOCODER_TIMEOUT"),
		},
		Summary: SummaryConfig{
			Schedule: v.GetString("SUMMARY_CRON"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper, serviceName string) {
	v.SetDefault("SERVICE_NAME", serviceName)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", serviceName)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_LOG_LEVEL", "warn")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("FRONTEND_URL", "http://localhost:3001")

	v.SetDefault("JWT_SIGNING_KEY", "defaultsecretkey")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_PREFIX", serviceName)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_SECRET", "defaultsessionsecret")
	v.SetDefault("SESSION_MAX_AGE", 24*time.Hour)
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("SESSION_KEY_PREFIX", "app_session: ")

	v.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	v.SetDefault("RATE_LIMIT_MAX", 100)

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_CALLBACK_URL", "http://localhost:8080/api/b2c/v1/authorization/google/redirect")

	v.SetDefault("EMAIL_TRANSPORT", "smtp")
	v.SetDefault("EMAIL_HOST", "localhost")
	v.SetDefault("EMAIL_SMTP_PORT", 1025)
	v.SetDefault("EMAIL_USER", "")
	v.SetDefault("EMAIL_PASSWORD", "")
	v.SetDefault("EMAIL_FROM_ADDRESS", "no-reply@restb.local")
	v.SetDefault("AWS_REGION", "eu-central-1")

	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "eu-central-1")
	v.SetDefault("S3_BUCKET", "restaurant-images")
	v.SetDefault("S3_PUBLIC_URL", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_URL_EXPIRY", 15*time.Minute)

	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "restaurant-app/1.0 (dev@app.com)")
	v.SetDefault("GEOCODER_TIMEOUT", 10*time.Second)

	v.SetDefault("SUMMARY_CRON", "@every 15m")
}

func (c *Config) validate() error {
	if c.Server.Env == EnvProduction {
		if c.JWT.SigningKey == "defaultsecretkey" {
			return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
		}
		if c.Session.Secret == "defaultsessionsecret" {
			return fmt.Errorf("SESSION_SECRET must be set in production")
		}
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWT.ExpirationHours)
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window and max must be positive")
	}
	switch c.Email.Transport {
	case "smtp", "ses":
	default:
		return fmt.Errorf("unsupported EMAIL_TRANSPORT %q", c.Email.Transport)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// IsTest reports whether APP_ENV is test
func (c *Config) IsTest() bool {
	return c.Server.Env == EnvTest
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.String("redis_addr", c.Redis.Addr),
		zap.String("email_transport", c.Email.Transport),
		zap.String("s3_bucket", c.S3.Bucket),
		zap.Duration("rate_limit_window", c.RateLimit.Window),
		zap.Int("rate_limit_max", c.RateLimit.Max),
	}
}

func parseLogLevel(value string, defaultValue logger.LogLevel) logger.LogLevel {
	switch value {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}

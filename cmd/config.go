package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const minJWTSecretLength = 32

// Config holds every runtime setting of the service.
type Config struct {
	HTTPPort int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string
	JWTTTL    time.Duration

	UploadsDir        string
	OrphanUploadGrace time.Duration
	CORSOrigins       []string

	LogLevel  string
	LogFormat string

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	KafkaBrokers           []string
	KafkaOrderChangedTopic string

	AdminName     string
	AdminPhone    string
	AdminPassword string
	AdminAddress  string
	AdminEmail    string
}

// DSN renders the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads configuration in order: .env (if present), environment, then flags in args.
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("warning: .env not loaded", "error", err)
	}

	cfg := Config{
		DBHost:                 env("DB_HOST", "localhost"),
		DBPort:                 env("DB_PORT", "5432"),
		DBUser:                 env("DB_USER", "postgres"),
		DBPassword:             env("DB_PASSWORD", ""),
		DBName:                 env("DB_NAME", "shipping"),
		DBSslMode:              env("DB_SSLMODE", "disable"),
		JWTSecret:              env("JWT_SECRET", ""),
		UploadsDir:             env("UPLOADS_DIR", "uploads"),
		CORSOrigins:            list(env("CORS_ORIGINS", "")),
		LogLevel:               env("LOG_LEVEL", "info"),
		LogFormat:              env("LOG_FORMAT", "json"),
		RedisAddr:              env("REDIS_ADDR", ""),
		RedisUsername:          env("REDIS_USERNAME", ""),
		RedisPassword:          env("REDIS_PASSWORD", ""),
		KafkaBrokers:           list(env("KAFKA_BROKERS", "")),
		KafkaOrderChangedTopic: env("KAFKA_ORDER_CHANGED_TOPIC", "shipping.order-changed"),
		AdminName:              env("ADMIN_NAME", "Administrator"),
		AdminPhone:             env("ADMIN_PHONE", ""),
		AdminPassword:          env("ADMIN_PASSWORD", ""),
		AdminAddress:           env("ADMIN_ADDRESS", "Head office"),
		AdminEmail:             env("ADMIN_EMAIL", ""),
	}

	var parseErrs []error
	var err error
	if cfg.HTTPPort, err = strconv.Atoi(env("HTTP_PORT", "3000")); err != nil {
		parseErrs = append(parseErrs, fmt.Errorf("HTTP_PORT: %w", err))
	}
	if cfg.RedisDB, err = strconv.Atoi(env("REDIS_DB", "0")); err != nil {
		parseErrs = append(parseErrs, fmt.Errorf("REDIS_DB: %w", err))
	}
	if cfg.JWTTTL, err = time.ParseDuration(env("JWT_TTL", "24h")); err != nil {
		parseErrs = append(parseErrs, fmt.Errorf("JWT_TTL: %w", err))
	}
	if cfg.OrphanUploadGrace, err = time.ParseDuration(env("UPLOADS_ORPHAN_GRACE", "24h")); err != nil {
		parseErrs = append(parseErrs, fmt.Errorf("UPLOADS_ORPHAN_GRACE: %w", err))
	}
	if err = errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}

	flags := pflag.NewFlagSet("shipping", pflag.ContinueOnError)
	flags.IntVarP(&cfg.HTTPPort, "port", "p", cfg.HTTPPort, "port to listen on")
	flags.StringVar(&cfg.UploadsDir, "uploads-dir", cfg.UploadsDir, "directory for uploaded images")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "json or text")
	flags.DurationVar(&cfg.JWTTTL, "jwt-ttl", cfg.JWTTTL, "lifetime of issued tokens")
	if err = flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		problems = append(problems, fmt.Errorf("invalid port: %d", c.HTTPPort))
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		problems = append(problems, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength))
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, fmt.Errorf("invalid JWT_TTL: %s", c.JWTTTL))
	}
	if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBName == "" {
		problems = append(problems, errors.New("DB_HOST, DB_PORT, DB_USER and DB_NAME are required"))
	}
	if c.UploadsDir == "" {
		problems = append(problems, errors.New("UPLOADS_DIR is required"))
	}
	if c.OrphanUploadGrace <= 0 {
		problems = append(problems, fmt.Errorf("invalid UPLOADS_ORPHAN_GRACE: %s", c.OrphanUploadGrace))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		problems = append(problems, fmt.Errorf("invalid LOG_FORMAT: %q", c.LogFormat))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err)
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaOrderChangedTopic == "" {
		problems = append(problems, errors.New("KAFKA_ORDER_CHANGED_TOPIC is required with KAFKA_BROKERS"))
	}
	return errors.Join(problems...)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %q", c.LogLevel)
	}
	return level, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func list(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

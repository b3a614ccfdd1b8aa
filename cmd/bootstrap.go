package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"shipping/internal/adapters/out/auth"
	"shipping/internal/adapters/out/filestorage"
	"shipping/internal/adapters/out/kafka"
	"shipping/internal/adapters/out/postgres"
	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/kernel"

	"golang.org/x/crypto/bcrypt"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const tokenIssuer = "shipping"

// NewLogger builds the process logger from LOG_FORMAT and LOG_LEVEL.
func NewLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// OpenDatabase connects to PostgreSQL, retrying while the server comes up, and migrates the schema.
func OpenDatabase(ctx context.Context, cfg Config, logger *slog.Logger, retries int, delay time.Duration) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gorm_logger.Default.LogMode(gorm_logger.Warn),
	}

	var lastErr error
	for i := 1; i <= retries; i++ {
		db, err := gorm.Open(gorm_postgres.Open(cfg.DSN()), gormCfg)
		if err == nil {
			logger.InfoContext(ctx, "db connected", "attempt", i)
			if err = postgres.AutoMigrate(db); err != nil {
				return nil, fmt.Errorf("migrate schema: %w", err)
			}
			return db, nil
		}

		lastErr = err
		logger.WarnContext(ctx, "db connect failed", "attempt", i, "retries", retries, "error", err)
		if i < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", retries, lastErr)
}

// Runtime holds the adapters plus what must be released at shutdown.
type Runtime struct {
	Adapters Adapters
	// Purger is set only for the in-memory denylist.
	Purger  *auth.MemoryDenylist
	closers []func() error
}

// Close releases external clients in reverse order of creation.
func (r *Runtime) Close() error {
	var closeErrs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		closeErrs = append(closeErrs, r.closers[i]())
	}
	return errors.Join(closeErrs...)
}

// BuildAdapters picks the outbound implementations: Redis and Kafka when
// configured, in-process fallbacks otherwise.
func BuildAdapters(ctx context.Context, cfg Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{}

	storage, err := filestorage.NewLocalStorage(cfg.UploadsDir)
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewBcryptHasher(bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewJWTIssuer(cfg.JWTSecret, tokenIssuer, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	rt.Adapters = Adapters{Storage: storage, Hasher: hasher, Issuer: issuer}

	if cfg.RedisAddr != "" {
		client := auth.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		denylist := auth.NewRedisDenylist(client)
		if err = denylist.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		rt.closers = append(rt.closers, client.Close)
		rt.Adapters.Denylist = denylist
		logger.InfoContext(ctx, "token denylist on redis", "addr", cfg.RedisAddr)
	} else {
		memory := auth.NewMemoryDenylist()
		rt.Adapters.Denylist = memory
		rt.Purger = memory
		logger.WarnContext(ctx, "REDIS_ADDR not set, token revocations are kept in memory")
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaOrderChangedTopic)
		publisher := kafka.NewOrderEventPublisher(writer)
		rt.closers = append(rt.closers, publisher.Close)
		rt.Adapters.Publisher = publisher
		logger.InfoContext(ctx, "order events on kafka", "topic", cfg.KafkaOrderChangedTopic)
	} else {
		rt.Adapters.Publisher = kafka.NewLoggingPublisher(logger)
	}

	return rt, nil
}

// SeedAdmin creates or refreshes the configured administrator.
// It is a no-op when ADMIN_PHONE or ADMIN_PASSWORD is empty.
func SeedAdmin(ctx context.Context, root *CompositionRoot, cfg Config, logger *slog.Logger) error {
	if cfg.AdminPhone == "" || cfg.AdminPassword == "" {
		logger.InfoContext(ctx, "admin seed skipped, ADMIN_PHONE or ADMIN_PASSWORD not set")
		return nil
	}

	phone, err := kernel.NewPhone(cfg.AdminPhone)
	if err != nil {
		return fmt.Errorf("ADMIN_PHONE: %w", err)
	}
	cmd, err := commands.NewSeedAdminCommand(cfg.AdminName, phone, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminAddress)
	if err != nil {
		return err
	}

	result, err := root.CreateSeedAdminCommandHandler().Handle(ctx, cmd)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "admin account ready", "id", result.User.ID().String(), "created", result.Created)
	return nil
}

package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipping/cmd"
	httpin "shipping/internal/adapters/in/http"
	"shipping/internal/adapters/out/auth"
	"shipping/internal/adapters/out/kafka"
	"shipping/internal/adapters/out/postgres"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig(t *testing.T) cmd.Config {
	t.Helper()
	return cmd.Config{
		HTTPPort:          3000,
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "postgres",
		DBName:            "shipping",
		JWTSecret:         testSecret,
		JWTTTL:            time.Hour,
		UploadsDir:        t.TempDir(),
		OrphanUploadGrace: time.Hour,
		LogLevel:          "info",
		LogFormat:         "json",
		AdminName:         "Root",
		AdminPhone:        "01000000009",
		AdminPassword:     "root-secret",
		AdminAddress:      "HQ",
		AdminEmail:        "root@example.com",
	}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))
	return db
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer

	log, err := cmd.NewLogger(cfg, &buf)
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("shown", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])

	cfg.LogFormat = "text"
	buf.Reset()
	log, err = cmd.NewLogger(cfg, &buf)
	require.NoError(t, err)
	log.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestBuildAdapters_Fallbacks(t *testing.T) {
	rt, err := cmd.BuildAdapters(context.Background(), testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.IsType(t, &auth.MemoryDenylist{}, rt.Adapters.Denylist)
	assert.NotNil(t, rt.Purger)
	assert.IsType(t, &kafka.LoggingPublisher{}, rt.Adapters.Publisher)
	assert.NotNil(t, rt.Adapters.Storage)
	assert.NotNil(t, rt.Adapters.Issuer)
}

func TestBuildAdapters_KafkaConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.KafkaBrokers = []string{"localhost:9092"}
	cfg.KafkaOrderChangedTopic = "orders"

	rt, err := cmd.BuildAdapters(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.IsType(t, &kafka.OrderEventPublisher{}, rt.Adapters.Publisher)
	assert.NoError(t, rt.Close())
}

func TestCompositionRoot_SeedAndServe(t *testing.T) {
	cfg := testConfig(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	rt, err := cmd.BuildAdapters(ctx, cfg, log)
	require.NoError(t, err)
	root := cmd.NewCompositionRoot(testDB(t), rt.Adapters, log)

	require.NoError(t, cmd.SeedAdmin(ctx, &root, cfg, log))
	require.NoError(t, cmd.SeedAdmin(ctx, &root, cfg, log), "seeding twice refreshes the account")

	e, err := httpin.NewRouter(root.NewHTTPServer(), httpin.RouterOptions{
		UploadsDir: cfg.UploadsDir,
		Metrics:    metrics.New(),
	})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"emailOrPhone": "root@example.com", "password": "root-secret"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "admin", login.User.Role)

	req = httptest.NewRequest(http.MethodGet, "/users/getall", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var users struct {
		Users []json.RawMessage `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users.Users, 1)

	count, err := root.CreateCountOrdersByStatusQueryHandler().Handle(ctx, queries.NewCountOrdersByStatusQuery())
	require.NoError(t, err)
	assert.Len(t, count, 6)
}

func TestSeedAdmin_SkippedWithoutCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminPhone = ""
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	rt, err := cmd.BuildAdapters(context.Background(), cfg, log)
	require.NoError(t, err)
	root := cmd.NewCompositionRoot(testDB(t), rt.Adapters, log)

	require.NoError(t, cmd.SeedAdmin(context.Background(), &root, cfg, log))
}

func TestSeedAdmin_InvalidPhone(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminPhone = "not-a-phone"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	rt, err := cmd.BuildAdapters(context.Background(), cfg, log)
	require.NoError(t, err)
	root := cmd.NewCompositionRoot(testDB(t), rt.Adapters, log)

	err = cmd.SeedAdmin(context.Background(), &root, cfg, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PHONE")
}

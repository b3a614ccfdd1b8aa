package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"shipping/internal/adapters/out/postgres"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/ports"
	"shipping/internal/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordedRun struct {
	job string
	err error
}

type fakeGauge struct {
	statuses []string
	counts   map[string]int64
	runs     []recordedRun
}

func (g *fakeGauge) SetOrdersByStatus(statuses []string, counts map[string]int64) {
	g.statuses = statuses
	g.counts = counts
}

func (g *fakeGauge) JobFinished(job string, err error) {
	g.runs = append(g.runs, recordedRun{job: job, err: err})
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Store(ctx context.Context, kind ports.ImageKind, upload ports.Upload) (string, error) {
	args := m.Called(ctx, kind, upload)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *mockStorage) List(ctx context.Context) ([]ports.StoredImage, error) {
	args := m.Called(ctx)
	images, _ := args.Get(0).([]ports.StoredImage)
	return images, args.Error(1)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))
	return db
}

func insertOrder(t *testing.T, db *gorm.DB, status, image string, deleted bool) {
	t.Helper()

	now := time.Now().UTC()
	row := map[string]any{
		"id":             uuid.New(),
		"number":         "ORD-" + uuid.NewString(),
		"creator_id":     uuid.New(),
		"sender_name":    "Sara",
		"sender_phone":   "01011111111",
		"receiver_name":  "Omar",
		"receiver_phone": "01022222222",
		"address":        "5 River Rd",
		"package_type":   "documents",
		"weight":         1.0,
		"package_image":  image,
		"status":         status,
		"created_at":     now,
		"updated_at":     now,
		"version":        1,
	}
	if deleted {
		row["deleted_at"] = now
	}
	require.NoError(t, db.Table("orders").Create(row).Error)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOrderStatusGaugeJob_Run(t *testing.T) {
	db := newTestDB(t)
	insertOrder(t, db, "pending", "", false)
	insertOrder(t, db, "pending", "", false)
	insertOrder(t, db, "delivered", "", false)
	insertOrder(t, db, "cancelled", "", true)

	gauge := &fakeGauge{}
	job := NewOrderStatusGaugeJob(queries.NewCountOrdersByStatusQueryHandler(db), gauge, discardLogger())

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, []string{"pending", "submitted", "confirmed", "delivered", "cancelled", "returned"}, gauge.statuses)
	assert.Equal(t, int64(2), gauge.counts["pending"])
	assert.Equal(t, int64(1), gauge.counts["delivered"])
	assert.Equal(t, int64(0), gauge.counts["cancelled"])
	require.Len(t, gauge.runs, 1)
	assert.Equal(t, orderStatusGaugeJobName, gauge.runs[0].job)
	assert.NoError(t, gauge.runs[0].err)
}

func TestOrderStatusGaugeJob_Run_RecordsFailure(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	gauge := &fakeGauge{}
	job := NewOrderStatusGaugeJob(queries.NewCountOrdersByStatusQueryHandler(db), gauge, discardLogger())

	require.Error(t, job.Run(context.Background()))
	assert.Nil(t, gauge.statuses)
	require.Len(t, gauge.runs, 1)
	assert.Error(t, gauge.runs[0].err)
}

func TestOrphanUploadCleanupJob_Run(t *testing.T) {
	db := newTestDB(t)
	insertOrder(t, db, "pending", "package/kept.jpg", false)
	insertOrder(t, db, "pending", "package/deleted-order.jpg", true)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)

	storage := &mockStorage{}
	storage.On("List", mock.Anything).Return([]ports.StoredImage{
		{Ref: "package/kept.jpg", ModifiedAt: old},
		{Ref: "package/deleted-order.jpg", ModifiedAt: old},
		{Ref: "package/orphan.jpg", ModifiedAt: old},
		{Ref: "profile/locked.png", ModifiedAt: old},
		{Ref: "profile/fresh.png", ModifiedAt: now.Add(-time.Minute)},
	}, nil)
	storage.On("Delete", mock.Anything, "package/orphan.jpg").Return(nil).Once()
	storage.On("Delete", mock.Anything, "profile/locked.png").Return(errors.New("permission denied")).Once()

	gauge := &fakeGauge{}
	job := NewOrphanUploadCleanupJob(storage, queries.NewReferencedImagesQueryHandler(db), gauge, 0, discardLogger())
	job.now = func() time.Time { return now }

	removed, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	storage.AssertExpectations(t)
	storage.AssertNotCalled(t, "Delete", mock.Anything, "package/kept.jpg")
	storage.AssertNotCalled(t, "Delete", mock.Anything, "profile/fresh.png")
	require.Len(t, gauge.runs, 1)
	assert.Equal(t, orphanUploadCleanupJobName, gauge.runs[0].job)
}

func TestOrphanUploadCleanupJob_Run_ListFailure(t *testing.T) {
	db := newTestDB(t)
	listErr := errors.New("disk unavailable")

	storage := &mockStorage{}
	storage.On("List", mock.Anything).Return(nil, listErr)

	gauge := &fakeGauge{}
	job := NewOrphanUploadCleanupJob(storage, queries.NewReferencedImagesQueryHandler(db), gauge, time.Hour, discardLogger())

	removed, err := job.Run(context.Background())

	require.ErrorIs(t, err, listErr)
	assert.Zero(t, removed)
	require.Len(t, gauge.runs, 1)
	assert.ErrorIs(t, gauge.runs[0].err, listErr)
}

func TestOrphanUploadCleanupJob_DefaultGrace(t *testing.T) {
	job := NewOrphanUploadCleanupJob(&mockStorage{}, queries.ReferencedImagesQueryHandler{}, &fakeGauge{}, 0, discardLogger())
	assert.Equal(t, DefaultOrphanGracePeriod, job.grace)
}

type countingPurger struct {
	calls int
}

func (p *countingPurger) Purge() int {
	p.calls++
	return 2
}

func TestDenylistPurgeJob_Run(t *testing.T) {
	purger := &countingPurger{}
	gauge := &fakeGauge{}
	job := NewDenylistPurgeJob(purger, gauge, discardLogger())

	job.Run()

	assert.Equal(t, 1, purger.calls)
	require.Len(t, gauge.runs, 1)
	assert.Equal(t, denylistPurgeJobName, gauge.runs[0].job)
}

func TestNewJobManager_WithoutPurger(t *testing.T) {
	db := newTestDB(t)
	manager := NewJobManager(queries.NewCountOrdersByStatusQueryHandler(db), queries.NewReferencedImagesQueryHandler(db),
		&mockStorage{}, nil, metrics.New(), time.Hour, discardLogger())

	assert.Nil(t, manager.denylistPurgeJob)
	assert.NotNil(t, manager.orderStatusGaugeJob)
	assert.NotNil(t, manager.orphanUploadCleanupJob)
}

func TestJobManager_StartStop(t *testing.T) {
	db := newTestDB(t)
	storage := &mockStorage{}
	storage.On("List", mock.Anything).Return([]ports.StoredImage{}, nil).Maybe()

	manager := &JobManager{
		orderStatusGaugeJob:    NewOrderStatusGaugeJob(queries.NewCountOrdersByStatusQueryHandler(db), &fakeGauge{}, discardLogger()),
		orphanUploadCleanupJob: NewOrphanUploadCleanupJob(storage, queries.NewReferencedImagesQueryHandler(db), &fakeGauge{}, time.Hour, discardLogger()),
		denylistPurgeJob:       NewDenylistPurgeJob(&countingPurger{}, &fakeGauge{}, discardLogger()),
	}

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}

package logging

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/models"
)

func openLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestPGHandler_PersistsErrorsOnStop(t *testing.T) {
	db := openLogDB(t)
	h := NewPGHandler(db)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("not persisted")
	logger.Error("trend query failed",
		"owner_id", "8b7c2f0e-0000-4000-8000-000000000001",
		"route", "/api/moods/trends",
		"error", "connection reset",
		"latency_ms", 12.6,
		"window_days", 30,
	)
	h.Stop()
	h.Stop()

	var logs []models.SystemLog
	require.Eventually(t, func() bool {
		logs = nil
		return db.Find(&logs).Error == nil && len(logs) == 1
	}, 2*time.Second, 20*time.Millisecond)

	got := logs[0]
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "trend query failed", got.Message)
	assert.Equal(t, "req-1", got.RequestID)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, "8b7c2f0e-0000-4000-8000-000000000001", *got.OwnerID)
	assert.Equal(t, "/api/moods/trends", got.Route)
	assert.Equal(t, "connection reset", got.Error)
	assert.Equal(t, 13, got.LatencyMs)
	assert.JSONEq(t, `{"window_days":30}`, string(got.Extra))
}

func TestPurgeOlderThan(t *testing.T) {
	db := openLogDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -40), Level: "ERROR"},
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -1), Level: "ERROR"},
	}).Error)

	n, err := PurgeOlderThan(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&left).Error)
	assert.Equal(t, int64(1), left)
}

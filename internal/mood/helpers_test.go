package mood

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates a migrated in-memory SQLite database private to t.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

// fixedClock returns a clock stuck at now.
func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func newTestService(t *testing.T, now time.Time, opts ...Option) (*Service, *GormRepository) {
	t.Helper()
	repo := NewGormRepository(openTestDB(t))
	opts = append([]Option{WithClock(fixedClock(now))}, opts...)
	return NewService(repo, opts...), repo
}

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func catPtr(c Category) *Category { return &c }

// rec builds an in-memory record for pure-function tests.
func rec(cat Category, intensity int, at time.Time, activities ...string) Record {
	return Record{
		ID:         uuid.New(),
		Category:   cat,
		Intensity:  intensity,
		Activities: activities,
		OccurredAt: at,
	}
}

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gridrelax/gridrelax/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.RunRecord{}))
	return db
}

func TestGormRepository_RecordAssignsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRepository(db)
	ctx := context.Background()

	rec := &model.RunRecord{
		Mode:         string(model.ModeSMS),
		Dimension:    10,
		Precision:    0.001,
		Participants: 4,
		Iterations:   42,
		DurationMS:   123,
		Converged:    true,
	}

	id, err := repo.Record(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.ID)
}

func TestGormRepository_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGormRepository_GetRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRepository(db)
	ctx := context.Background()

	rec := &model.RunRecord{
		Mode:         string(model.ModeDMS),
		Dimension:    16,
		Precision:    0.0001,
		Participants: 8,
		Iterations:   7,
		Converged:    false,
		Error:        "timeout",
	}
	id, err := repo.Record(ctx, rec)
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec.Mode, got.Mode)
	assert.Equal(t, rec.Dimension, got.Dimension)
	assert.Equal(t, rec.Error, got.Error)
}

func TestGormRepository_RecentOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRepository(db)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		rec := &model.RunRecord{
			Mode:      string(model.ModeSMS),
			Dimension: 8,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		_, err := repo.Record(ctx, rec)
		require.NoError(t, err)
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].CreatedAt.After(recent[1].CreatedAt) || recent[0].CreatedAt.Equal(recent[1].CreatedAt))
}

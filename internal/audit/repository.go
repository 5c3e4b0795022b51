package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gridrelax/gridrelax/pkg/model"
)

// Repository records and retrieves solver run history.
type Repository interface {
	// Record inserts a new run record, assigning it a fresh ID.
	Record(ctx context.Context, rec *model.RunRecord) (string, error)
	// Get retrieves a run record by ID.
	Get(ctx context.Context, id string) (*model.RunRecord, error)
	// Recent returns the most recently created records, newest first.
	Recent(ctx context.Context, limit int) ([]*model.RunRecord, error)
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository builds a GormRepository over an already-migrated db.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Record inserts rec, assigning it a UUID if it has none.
func (r *GormRepository) Record(ctx context.Context, rec *model.RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return rec.ID, nil
}

// Get retrieves a run record by ID.
func (r *GormRepository) Get(ctx context.Context, id string) (*model.RunRecord, error) {
	var rec model.RunRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run record not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get run record: %w", err)
	}
	return &rec, nil
}

// Recent returns the limit most recently created records, newest first.
func (r *GormRepository) Recent(ctx context.Context, limit int) ([]*model.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []*model.RunRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent run records: %w", err)
	}
	return recs, nil
}

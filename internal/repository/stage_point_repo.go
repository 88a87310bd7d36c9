package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/entity"
	"gorm.io/gorm"
)

type StagePointRepository interface {
	// Exists checks the (reason, reference_id) idempotency key before an
	// append. A unique index backs this at the database level.
	Exists(ctx context.Context, reason string, referenceID uuid.UUID) (bool, error)
	Create(ctx context.Context, row *entity.StagePointLog) error
	SumByUser(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.StagePointLog, error)
}

type stagePointRepository struct {
	db *gorm.DB
}

func NewStagePointRepository(db *gorm.DB) StagePointRepository {
	return &stagePointRepository{db: db}
}

func (r *stagePointRepository) Exists(ctx context.Context, reason string, referenceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.StagePointLog{}).
		Where("reason = ? AND reference_id = ?", reason, referenceID).
		Count(&count).Error
	return count > 0, err
}

func (r *stagePointRepository) Create(ctx context.Context, row *entity.StagePointLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *stagePointRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&entity.StagePointLog{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return int(sum), err
}

func (r *stagePointRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.StagePointLog, error) {
	var rows []entity.StagePointLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/entity"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	Exists(ctx context.Context, reviewerID, targetID, matchID uuid.UUID) (bool, error)
	FindByTarget(ctx context.Context, targetID uuid.UUID) ([]entity.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Exists(ctx context.Context, reviewerID, targetID, matchID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("reviewer_id = ? AND target_id = ? AND match_id = ?", reviewerID, targetID, matchID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) FindByTarget(ctx context.Context, targetID uuid.UUID) ([]entity.Review, error) {
	var rows []entity.Review
	err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/entity"
	"gorm.io/gorm"
)

type MatchRepository interface {
	Create(ctx context.Context, match *entity.Match) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Match, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Match, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, match *entity.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

func (r *matchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Match, error) {
	var match entity.Match
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&match).Error; err != nil {
		return nil, err
	}

	return &match, nil
}

func (r *matchRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Match, error) {
	var rows []entity.Match
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Find(&rows).Error
	return rows, err
}

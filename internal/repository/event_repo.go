package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/entity"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindOpen(ctx context.Context, area string, limit, offset int) ([]entity.Event, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Event, error)
	// TransitionStatus performs a conditional update and reports whether the
	// row actually moved, so concurrent operators cannot double-transition.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) FindOpen(ctx context.Context, area string, limit, offset int) ([]entity.Event, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", entity.EventOpen).
		Order("event_date asc").
		Limit(limit).
		Offset(offset)

	if area != "" {
		query = query.Where("area = ?", area)
	}

	var events []entity.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Event, error) {
	var events []entity.Event
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("event_date asc").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

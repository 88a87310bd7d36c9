package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/pkg/apperror"
	"gorm.io/gorm"
)

type ParticipationRepository interface {
	Create(ctx context.Context, p *entity.Participation) error
	Save(ctx context.Context, p *entity.Participation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Participation, error)
	// FindByUserAndEvent returns (nil, nil) when no row exists at all,
	// canceled or not. The most recent row wins if history left several.
	FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Participation, error)
	FindByInviteToken(ctx context.Context, token string) (*entity.Participation, error)
	FindByShortCode(ctx context.Context, code string) (*entity.Participation, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Participation, error)
	FindByEventAndStatus(ctx context.Context, eventID uuid.UUID, status string) ([]entity.Participation, error)
	FindActiveByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Participation, error)
	CountActiveInGroup(ctx context.Context, eventID, groupID uuid.UUID) (int64, error)
	// CreateInGroup re-counts the group and inserts inside one transaction so
	// two invitees racing for the last seat cannot both get in.
	CreateInGroup(ctx context.Context, p *entity.Participation) error
	MarkMatched(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) error
	CancelAllActive(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type participationRepository struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

func (r *participationRepository) Create(ctx context.Context, p *entity.Participation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *participationRepository) Save(ctx context.Context, p *entity.Participation) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *participationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	var p entity.Participation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *participationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Participation, error) {
	// Use Find with slice to avoid "record not found" log noise from GORM's First()
	var rows []entity.Participation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Order("created_at desc").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func (r *participationRepository) FindByInviteToken(ctx context.Context, token string) (*entity.Participation, error) {
	var rows []entity.Participation
	err := r.db.WithContext(ctx).
		Where("invite_token = ? AND status <> ?", token, entity.ParticipationCanceled).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func (r *participationRepository) FindByShortCode(ctx context.Context, code string) (*entity.Participation, error) {
	var rows []entity.Participation
	err := r.db.WithContext(ctx).
		Where("short_code = ? AND status <> ?", code, entity.ParticipationCanceled).
		Order("created_at desc").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func (r *participationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Participation, error) {
	var rows []entity.Participation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

func (r *participationRepository) FindByEventAndStatus(ctx context.Context, eventID uuid.UUID, status string) ([]entity.Participation, error) {
	var rows []entity.Participation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, status).
		Find(&rows).Error
	return rows, err
}

func (r *participationRepository) FindActiveByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Participation, error) {
	var rows []entity.Participation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status <> ?", eventID, entity.ParticipationCanceled).
		Find(&rows).Error
	return rows, err
}

func (r *participationRepository) CountActiveInGroup(ctx context.Context, eventID, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Participation{}).
		Where("event_id = ? AND group_id = ? AND status <> ?", eventID, groupID, entity.ParticipationCanceled).
		Count(&count).Error
	return count, err
}

func (r *participationRepository) CreateInGroup(ctx context.Context, p *entity.Participation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Participation{}).
			Where("event_id = ? AND group_id = ? AND status <> ?", p.EventID, p.GroupID, entity.ParticipationCanceled).
			Count(&count).Error; err != nil {
			return err
		}

		if count >= entity.GroupSizeCap {
			return apperror.ErrGroupFull
		}

		if p.ID == uuid.Nil {
			return tx.Create(p).Error
		}
		// Reactivating a previously canceled row for the invitee.
		return tx.Save(p).Error
	})
}

func (r *participationRepository) MarkMatched(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Participation{}).
		Where("event_id = ? AND user_id IN ? AND status = ?", eventID, userIDs, entity.ParticipationPending).
		Update("status", entity.ParticipationMatched).Error
}

func (r *participationRepository) CancelAllActive(ctx context.Context, eventID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Participation{}).
		Where("event_id = ? AND status <> ?", eventID, entity.ParticipationCanceled).
		Updates(map[string]interface{}{
			"status":            entity.ParticipationCanceled,
			"attendance_status": entity.AttendanceCanceled,
		})
	return res.RowsAffected, res.Error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/dto"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/internal/repository"
	"github.com/moyora/dinner-api/pkg/apperror"
	"github.com/moyora/dinner-api/pkg/codegen"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const entryRateLimitAction = "event_entry"

type ParticipationService interface {
	Entry(ctx context.Context, userID, eventID uuid.UUID, req dto.EntryRequest) (*dto.EntryResponse, error)
	Cancel(ctx context.Context, userID, participationID uuid.UUID) error
	ResolveInvite(ctx context.Context, code string) (*dto.InvitePreviewResponse, error)
	AcceptInvite(ctx context.Context, userID uuid.UUID, code string, req dto.AcceptInviteRequest) (*dto.EntryResponse, error)
	UpdateAttendance(ctx context.Context, userID, participationID uuid.UUID, req dto.UpdateAttendanceRequest) error
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.ParticipationResponse, error)
}

type participationService struct {
	participations repository.ParticipationRepository
	events         repository.EventRepository
	users          repository.UserRepository
	stage          StageService
	gate           EligibilityGate
	redisClient    *redis.Client

	lateCancelWindow time.Duration
	rateLimitEntry   time.Duration
	now              func() time.Time
}

func NewParticipationService(
	participations repository.ParticipationRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	stage StageService,
	gate EligibilityGate,
	redisClient *redis.Client,
	lateCancelWindow, rateLimitEntry time.Duration,
) ParticipationService {
	return &participationService{
		participations:   participations,
		events:           events,
		users:            users,
		stage:            stage,
		gate:             gate,
		redisClient:      redisClient,
		lateCancelWindow: lateCancelWindow,
		rateLimitEntry:   rateLimitEntry,
		now:              time.Now,
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}

func (s *participationService) Entry(ctx context.Context, userID, eventID uuid.UUID, req dto.EntryRequest) (*dto.EntryResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, entryRateLimitAction, s.rateLimitEntry)
	if err != nil {
		// Redis being down should not block entries.
		log.Printf("rate limit check failed for user %s: %v", userID, err)
	} else if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if err := s.gate.Check(user, event, s.now()); err != nil {
		return nil, err
	}

	existing, err := s.participations.FindByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != entity.ParticipationCanceled {
		return nil, apperror.ErrAlreadyEntered
	}

	token, err := codegen.NewInviteToken()
	if err != nil {
		return nil, err
	}
	shortCode, err := codegen.NewShortCode()
	if err != nil {
		return nil, err
	}

	var p *entity.Participation
	if existing != nil {
		// Reactivate the canceled row in place instead of inserting a
		// duplicate; the old tokens are dead, so mint fresh ones.
		existing.GroupID = uuid.New()
		existing.EntryType = req.EntryType
		existing.InviteToken = token
		existing.ShortCode = shortCode
		existing.Status = entity.ParticipationPending
		existing.AttendanceStatus = entity.AttendanceAttending
		existing.Mood = req.Mood
		existing.BudgetLevel = req.BudgetLevel
		if err := s.participations.Save(ctx, existing); err != nil {
			return nil, err
		}
		p = existing
	} else {
		p = &entity.Participation{
			UserID:      userID,
			EventID:     eventID,
			GroupID:     uuid.New(),
			EntryType:   req.EntryType,
			InviteToken: token,
			ShortCode:   shortCode,
			Status:      entity.ParticipationPending,
			Mood:        req.Mood,
			BudgetLevel: req.BudgetLevel,
		}
		if err := s.participations.Create(ctx, p); err != nil {
			return nil, err
		}
	}

	return s.entryResponse(p), nil
}

// entryResponse hides invite credentials unless the entry wants company.
func (s *participationService) entryResponse(p *entity.Participation) *dto.EntryResponse {
	resp := &dto.EntryResponse{
		ParticipationID: p.ID,
		EventID:         p.EventID,
		GroupID:         p.GroupID,
		Status:          p.Status,
		EntryType:       p.EntryType,
	}
	if p.EntryType == entity.EntryTypePair {
		resp.InviteToken = p.InviteToken
		resp.ShortCode = p.ShortCode
	}
	return resp
}

func (s *participationService) Cancel(ctx context.Context, userID, participationID uuid.UUID) error {
	p, err := s.participations.FindByID(ctx, participationID)
	if err != nil {
		return notFoundOr(err)
	}
	if p.UserID != userID {
		return apperror.ErrForbidden
	}

	switch p.Status {
	case entity.ParticipationCanceled:
		return apperror.ErrAlreadyCanceled
	case entity.ParticipationMatched:
		// Once seated, pulling out goes through attendance handling.
		return apperror.ErrAlreadyMatched
	}

	event, err := s.events.FindByID(ctx, p.EventID)
	if err != nil {
		return notFoundOr(err)
	}
	if event.Status != entity.EventOpen {
		return apperror.ErrEventNotOpen
	}

	p.Status = entity.ParticipationCanceled
	p.AttendanceStatus = entity.AttendanceCanceled
	// Pre-match cancellation is free: no ledger entry.
	return s.participations.Save(ctx, p)
}

// resolveInviteCode maps a raw code to the inviter's active participation.
// Full-length tokens are tried first; anything else is treated as a
// case-insensitive short code.
func (s *participationService) resolveInviteCode(ctx context.Context, code string) (*entity.Participation, error) {
	code = strings.TrimSpace(code)

	if len(code) == codegen.TokenLength {
		p, err := s.participations.FindByInviteToken(ctx, code)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	if len(code) == codegen.ShortCodeLength {
		p, err := s.participations.FindByShortCode(ctx, strings.ToUpper(code))
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	return nil, apperror.ErrNotFound
}

func (s *participationService) ResolveInvite(ctx context.Context, code string) (*dto.InvitePreviewResponse, error) {
	inviter, err := s.resolveInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, inviter.EventID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	user, err := s.users.FindByID(ctx, inviter.UserID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	count, err := s.participations.CountActiveInGroup(ctx, inviter.EventID, inviter.GroupID)
	if err != nil {
		return nil, err
	}
	seatsLeft := entity.GroupSizeCap - int(count)
	if seatsLeft < 0 {
		seatsLeft = 0
	}

	return &dto.InvitePreviewResponse{
		EventID:         event.ID,
		EventTitle:      event.Title,
		Area:            event.Area,
		EventDate:       event.EventDate,
		InviterUsername: user.Username,
		SeatsLeft:       seatsLeft,
	}, nil
}

func (s *participationService) AcceptInvite(ctx context.Context, userID uuid.UUID, code string, req dto.AcceptInviteRequest) (*dto.EntryResponse, error) {
	inviter, err := s.resolveInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if inviter.UserID == userID {
		return nil, fmt.Errorf("%w: cannot accept your own invite", apperror.ErrInvalidInput)
	}

	event, err := s.events.FindByID(ctx, inviter.EventID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	// The invitee passes the same gate as a direct entry.
	if err := s.gate.Check(user, event, s.now()); err != nil {
		return nil, err
	}

	existing, err := s.participations.FindByUserAndEvent(ctx, userID, event.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != entity.ParticipationCanceled {
		return nil, apperror.ErrAlreadyEntered
	}

	token, err := codegen.NewInviteToken()
	if err != nil {
		return nil, err
	}
	shortCode, err := codegen.NewShortCode()
	if err != nil {
		return nil, err
	}

	p := existing
	if p == nil {
		p = &entity.Participation{
			UserID:  userID,
			EventID: event.ID,
		}
	}
	p.GroupID = inviter.GroupID
	p.EntryType = entity.EntryTypePair
	p.InviteToken = token
	p.ShortCode = shortCode
	p.Status = entity.ParticipationPending
	p.AttendanceStatus = entity.AttendanceAttending
	p.Mood = req.Mood
	p.BudgetLevel = req.BudgetLevel

	// Count and insert happen inside one transaction; the cap stays hard even
	// when two invitees race for the last seat.
	if err := s.participations.CreateInGroup(ctx, p); err != nil {
		return nil, err
	}

	return s.entryResponse(p), nil
}

func (s *participationService) UpdateAttendance(ctx context.Context, userID, participationID uuid.UUID, req dto.UpdateAttendanceRequest) error {
	p, err := s.participations.FindByID(ctx, participationID)
	if err != nil {
		return notFoundOr(err)
	}
	if p.UserID != userID {
		return apperror.ErrForbidden
	}
	if p.Status != entity.ParticipationMatched {
		return fmt.Errorf("%w: attendance applies to matched participations", apperror.ErrInvalidInput)
	}
	if p.AttendanceStatus == entity.AttendanceCanceled && req.Status == entity.AttendanceCanceled {
		return apperror.ErrAlreadyCanceled
	}

	event, err := s.events.FindByID(ctx, p.EventID)
	if err != nil {
		return notFoundOr(err)
	}

	previous := p.AttendanceStatus
	p.AttendanceStatus = req.Status
	if err := s.participations.Save(ctx, p); err != nil {
		return err
	}

	// Post-match cancellation carries a penalty; a single wall-clock branch
	// decides normal vs late. Ledger write is a secondary effect: log and move
	// on if it fails.
	if req.Status == entity.AttendanceCanceled && previous != entity.AttendanceCanceled {
		reason := entity.ReasonCancel
		points := PointsCancel
		if event.EventDate.Sub(s.now()) <= s.lateCancelWindow {
			reason = entity.ReasonLateCancel
			points = PointsLateCancel
		}
		if err := s.stage.Award(ctx, userID, reason, p.ID, points); err != nil {
			log.Printf("failed to record %s penalty for participation %s: %v", reason, p.ID, err)
		}
	}

	return nil
}

func (s *participationService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.ParticipationResponse, error) {
	rows, err := s.participations.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ParticipationResponse, 0, len(rows))
	for _, p := range rows {
		result = append(result, dto.ParticipationResponse{
			ID:               p.ID,
			EventID:          p.EventID,
			GroupID:          p.GroupID,
			EntryType:        p.EntryType,
			Status:           p.Status,
			AttendanceStatus: p.AttendanceStatus,
			CreatedAt:        p.CreatedAt,
		})
	}
	return result, nil
}

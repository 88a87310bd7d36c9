package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/config"
	"github.com/moyora/dinner-api/internal/dto"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/internal/repository"
)

// Point values per ledger reason. Review-received rewards scale with rating;
// everything else is flat.
const (
	PointsParticipation = 50
	PointsReviewSent    = 10
	PointsNoShow        = -100
	PointsCancel        = -10
	PointsLateCancel    = -50
)

var reviewReceivedPoints = map[int]int{
	1: 5,
	2: 10,
	3: 15,
	4: 25,
	5: 40,
}

// ReviewReceivedPoints returns the rating-scaled reward for a non-no-show
// review. Monotone in rating.
func ReviewReceivedPoints(rating int) int {
	return reviewReceivedPoints[rating]
}

type StageService interface {
	// Award appends one ledger row keyed by (reason, referenceID) and refreshes
	// the user's materialized points and stage. A repeated call for the same
	// key is a no-op, so retried operations never double-count.
	Award(ctx context.Context, userID uuid.UUID, reason string, referenceID uuid.UUID, points int) error
	StatusFor(ctx context.Context, userID uuid.UUID) (*dto.StageStatus, error)
	HistoryFor(ctx context.Context, userID uuid.UUID, limit, offset int) ([]dto.StagePointEntry, error)
}

type stageService struct {
	logs          repository.StagePointRepository
	users         repository.UserRepository
	thresholds    config.StageThresholds
	notifications NotificationService
}

func NewStageService(logs repository.StagePointRepository, users repository.UserRepository, thresholds config.StageThresholds, notifications NotificationService) StageService {
	return &stageService{
		logs:          logs,
		users:         users,
		thresholds:    thresholds,
		notifications: notifications,
	}
}

func (s *stageService) Award(ctx context.Context, userID uuid.UUID, reason string, referenceID uuid.UUID, points int) error {
	exists, err := s.logs.Exists(ctx, reason, referenceID)
	if err != nil {
		return fmt.Errorf("failed to check ledger for %s/%s: %w", reason, referenceID, err)
	}
	if exists {
		// Already awarded for this cause.
		return nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	previousStage := user.MemberStage

	row := &entity.StagePointLog{
		UserID:      userID,
		Points:      points,
		Reason:      reason,
		ReferenceID: referenceID,
	}
	if err := s.logs.Create(ctx, row); err != nil {
		return fmt.Errorf("failed to append stage point log: %w", err)
	}

	// The ledger is authoritative; the user row only caches its sum.
	sum, err := s.logs.SumByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to sum ledger for user %s: %w", userID, err)
	}

	newStage := s.StageFor(sum)
	if err := s.users.UpdateStage(ctx, userID, sum, newStage); err != nil {
		return fmt.Errorf("failed to update stage for user %s: %w", userID, err)
	}

	if newStage != previousStage && stageRank(newStage) > stageRank(previousStage) && s.notifications != nil {
		go func() {
			notif := &entity.Notification{
				UserID:     userID,
				EntityID:   userID,
				EntityType: "stage",
				Type:       entity.NotificationStageUp,
				Message:    fmt.Sprintf("Congratulations! You reached %s with %d points.", newStage, sum),
			}
			if err := s.notifications.CreateNotification(context.Background(), notif); err != nil {
				log.Printf("failed to send stage up notification to user %s: %v", userID, err)
			}
		}()
	}

	return nil
}

// StageFor folds a cumulative point sum into a member stage. Pure function of
// the sum against the configured thresholds.
func (s *stageService) StageFor(points int) string {
	switch {
	case points >= s.thresholds.Platinum:
		return entity.StagePlatinum
	case points >= s.thresholds.Gold:
		return entity.StageGold
	case points >= s.thresholds.Silver:
		return entity.StageSilver
	default:
		return entity.StageBronze
	}
}

func stageRank(stage string) int {
	switch stage {
	case entity.StagePlatinum:
		return 3
	case entity.StageGold:
		return 2
	case entity.StageSilver:
		return 1
	default:
		return 0
	}
}

// statusFor computes the stage projection for a point sum.
func (s *stageService) statusFor(points int) *dto.StageStatus {
	stage := s.StageFor(points)

	var floor, target int
	var next string
	switch stage {
	case entity.StageBronze:
		floor, target, next = 0, s.thresholds.Silver, entity.StageSilver
	case entity.StageSilver:
		floor, target, next = s.thresholds.Silver, s.thresholds.Gold, entity.StageGold
	case entity.StageGold:
		floor, target, next = s.thresholds.Gold, s.thresholds.Platinum, entity.StagePlatinum
	case entity.StagePlatinum:
		return &dto.StageStatus{
			MemberStage: stage,
			StagePoints: points,
			Progress:    100,
		}
	}

	progress := 0
	if target > floor {
		progress = (points - floor) * 100 / (target - floor)
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return &dto.StageStatus{
		MemberStage:  stage,
		NextStage:    next,
		StagePoints:  points,
		TargetPoints: target,
		Progress:     progress,
	}
}

func (s *stageService) StatusFor(ctx context.Context, userID uuid.UUID) (*dto.StageStatus, error) {
	sum, err := s.logs.SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(sum), nil
}

func (s *stageService) HistoryFor(ctx context.Context, userID uuid.UUID, limit, offset int) ([]dto.StagePointEntry, error) {
	rows, err := s.logs.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.StagePointEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dto.StagePointEntry{
			Points:    row.Points,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt,
		})
	}
	return entries, nil
}

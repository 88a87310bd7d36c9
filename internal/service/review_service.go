package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/dto"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/internal/repository"
	"github.com/moyora/dinner-api/pkg/apperror"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, reviewerID uuid.UUID, req dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]dto.ReviewResponse, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	matches repository.MatchRepository
	events  repository.EventRepository
	stage   StageService

	reviewOpenDelay time.Duration
	now             func() time.Time
}

func NewReviewService(
	reviews repository.ReviewRepository,
	matches repository.MatchRepository,
	events repository.EventRepository,
	stage StageService,
	reviewOpenDelay time.Duration,
) ReviewService {
	return &reviewService{
		reviews:         reviews,
		matches:         matches,
		events:          events,
		stage:           stage,
		reviewOpenDelay: reviewOpenDelay,
		now:             time.Now,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, reviewerID uuid.UUID, req dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	rating := *req.Rating
	if rating == 0 && !req.IsNoShow {
		return nil, fmt.Errorf("%w: rating 0 requires the no-show flag", apperror.ErrInvalidInput)
	}
	if req.IsNoShow {
		// A no-show review always lands as rating 0 regardless of input.
		rating = 0
	}
	if reviewerID == req.TargetID {
		return nil, fmt.Errorf("%w: cannot review yourself", apperror.ErrInvalidInput)
	}

	match, err := s.matches.FindByID(ctx, req.MatchID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	event, err := s.events.FindByID(ctx, match.EventID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if s.now().Before(event.EventDate.Add(s.reviewOpenDelay)) {
		return nil, apperror.ErrNotYetAccessible
	}

	if !match.HasMember(reviewerID) || !match.HasMember(req.TargetID) {
		return nil, fmt.Errorf("%w: both members must belong to this table", apperror.ErrForbidden)
	}

	exists, err := s.reviews.Exists(ctx, reviewerID, req.TargetID, req.MatchID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrAlreadyReviewed
	}

	blockFlag := req.BlockFlag
	if !req.IsNoShow && rating >= 1 && rating <= 3 {
		// Low ratings imply "do not seat us together again"; the point value
		// is unaffected.
		blockFlag = true
	}

	review := &entity.Review{
		ReviewerID: reviewerID,
		TargetID:   req.TargetID,
		MatchID:    req.MatchID,
		Rating:     rating,
		IsNoShow:   req.IsNoShow,
		BlockFlag:  blockFlag,
		Memo:       req.Memo,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	// Ledger writes are secondary to the review record: a failure here is
	// logged, never rolled back into the review itself.
	if err := s.stage.Award(ctx, reviewerID, entity.ReasonReviewSent, review.ID, PointsReviewSent); err != nil {
		log.Printf("failed to award review-sent points to user %s (review %s): %v", reviewerID, review.ID, err)
	}

	if req.IsNoShow {
		if err := s.stage.Award(ctx, req.TargetID, entity.ReasonNoShow, review.ID, PointsNoShow); err != nil {
			log.Printf("failed to record no-show penalty for user %s (review %s): %v", req.TargetID, review.ID, err)
		}
	} else {
		if err := s.stage.Award(ctx, req.TargetID, entity.ReasonReviewReceived, review.ID, ReviewReceivedPoints(rating)); err != nil {
			log.Printf("failed to award review-received points to user %s (review %s): %v", req.TargetID, review.ID, err)
		}
	}

	return &dto.ReviewResponse{
		ID:        review.ID,
		MatchID:   review.MatchID,
		Rating:    review.Rating,
		IsNoShow:  review.IsNoShow,
		BlockFlag: review.BlockFlag,
		CreatedAt: review.CreatedAt,
	}, nil
}

func (s *reviewService) ListReceived(ctx context.Context, userID uuid.UUID) ([]dto.ReviewResponse, error) {
	rows, err := s.reviews.FindByTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ReviewResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.ReviewResponse{
			ID:        r.ID,
			MatchID:   r.MatchID,
			Rating:    r.Rating,
			IsNoShow:  r.IsNoShow,
			BlockFlag: r.BlockFlag,
			CreatedAt: r.CreatedAt,
		})
	}
	return result, nil
}

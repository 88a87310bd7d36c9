package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/dto"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/internal/repository"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	// NotifyEventCanceled fans out per-user notifications. Per-item failures
	// are logged and counted; the caller's transition never fails because of
	// them.
	NotifyEventCanceled(ctx context.Context, userIDs []uuid.UUID, event *entity.Event) dto.NotifyResult
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

func (s *notificationService) NotifyEventCanceled(ctx context.Context, userIDs []uuid.UUID, event *entity.Event) dto.NotifyResult {
	var result dto.NotifyResult

	seen := make(map[uuid.UUID]bool, len(userIDs))
	for _, userID := range userIDs {
		if userID == uuid.Nil || seen[userID] {
			result.Skipped++
			continue
		}
		seen[userID] = true

		notif := &entity.Notification{
			UserID:     userID,
			EntityID:   event.ID,
			EntityType: "event",
			Type:       entity.NotificationEventCanceled,
			Message:    fmt.Sprintf("Your dinner on %s in %s was canceled.", event.EventDate.Format("Jan 2"), event.Area),
		}

		if err := s.CreateNotification(ctx, notif); err != nil {
			log.Printf("failed to notify user %s about canceled event %s: %v", userID, event.ID, err)
			result.Failed++
			continue
		}
		result.Sent++
	}

	return result
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

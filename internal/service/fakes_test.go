package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/pkg/apperror"
	"gorm.io/gorm"
)

// In-memory repository fakes so services can be exercised without a database.

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) add(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.MemberStage == "" {
		user.MemberStage = entity.StageBronze
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	var result []entity.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) UpdateStage(ctx context.Context, id uuid.UUID, points int, stage string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.StagePoints = points
	user.MemberStage = stage
	return nil
}

type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (r *fakeEventRepo) add(event *entity.Event) *entity.Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = entity.EventOpen
	}
	r.events[event.ID] = event
	return event
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.add(event)
	return nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (r *fakeEventRepo) FindOpen(ctx context.Context, area string, limit, offset int) ([]entity.Event, error) {
	var result []entity.Event
	for _, event := range r.events {
		if event.Status != entity.EventOpen {
			continue
		}
		if area != "" && event.Area != area {
			continue
		}
		result = append(result, *event)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EventDate.Before(result[j].EventDate) })
	return result, nil
}

func (r *fakeEventRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Event, error) {
	var result []entity.Event
	for _, id := range ids {
		if event, ok := r.events[id]; ok {
			result = append(result, *event)
		}
	}
	return result, nil
}

func (r *fakeEventRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	event, ok := r.events[id]
	if !ok || event.Status != from {
		return false, nil
	}
	event.Status = to
	return true, nil
}

type fakeParticipationRepo struct {
	rows []*entity.Participation
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{}
}

func (r *fakeParticipationRepo) Create(ctx context.Context, p *entity.Participation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.AttendanceStatus == "" {
		p.AttendanceStatus = entity.AttendanceAttending
	}
	p.CreatedAt = time.Now()
	r.rows = append(r.rows, p)
	return nil
}

func (r *fakeParticipationRepo) Save(ctx context.Context, p *entity.Participation) error {
	for i, row := range r.rows {
		if row.ID == p.ID {
			r.rows[i] = p
			return nil
		}
	}
	return r.Create(ctx, p)
}

func (r *fakeParticipationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeParticipationRepo) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Participation, error) {
	var latest *entity.Participation
	for _, row := range r.rows {
		if row.UserID == userID && row.EventID == eventID {
			latest = row
		}
	}
	return latest, nil
}

func (r *fakeParticipationRepo) FindByInviteToken(ctx context.Context, token string) (*entity.Participation, error) {
	for _, row := range r.rows {
		if row.InviteToken == token && row.Status != entity.ParticipationCanceled {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeParticipationRepo) FindByShortCode(ctx context.Context, code string) (*entity.Participation, error) {
	for _, row := range r.rows {
		if row.ShortCode == code && row.Status != entity.ParticipationCanceled {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeParticipationRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Participation, error) {
	var result []entity.Participation
	for _, row := range r.rows {
		if row.UserID == userID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeParticipationRepo) FindByEventAndStatus(ctx context.Context, eventID uuid.UUID, status string) ([]entity.Participation, error) {
	var result []entity.Participation
	for _, row := range r.rows {
		if row.EventID == eventID && row.Status == status {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeParticipationRepo) FindActiveByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Participation, error) {
	var result []entity.Participation
	for _, row := range r.rows {
		if row.EventID == eventID && row.Status != entity.ParticipationCanceled {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeParticipationRepo) CountActiveInGroup(ctx context.Context, eventID, groupID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.EventID == eventID && row.GroupID == groupID && row.Status != entity.ParticipationCanceled {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipationRepo) CreateInGroup(ctx context.Context, p *entity.Participation) error {
	count, _ := r.CountActiveInGroup(ctx, p.EventID, p.GroupID)
	if count >= entity.GroupSizeCap {
		return apperror.ErrGroupFull
	}
	if p.ID == uuid.Nil {
		return r.Create(ctx, p)
	}
	return r.Save(ctx, p)
}

func (r *fakeParticipationRepo) MarkMatched(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) error {
	members := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		members[id] = true
	}
	for _, row := range r.rows {
		if row.EventID == eventID && members[row.UserID] && row.Status == entity.ParticipationPending {
			row.Status = entity.ParticipationMatched
		}
	}
	return nil
}

func (r *fakeParticipationRepo) CancelAllActive(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var affected int64
	for _, row := range r.rows {
		if row.EventID == eventID && row.Status != entity.ParticipationCanceled {
			row.Status = entity.ParticipationCanceled
			row.AttendanceStatus = entity.AttendanceCanceled
			affected++
		}
	}
	return affected, nil
}

type fakeStagePointRepo struct {
	rows    []entity.StagePointLog
	nextID  uint
	failFor map[uuid.UUID]error
}

func newFakeStagePointRepo() *fakeStagePointRepo {
	return &fakeStagePointRepo{failFor: make(map[uuid.UUID]error)}
}

func (r *fakeStagePointRepo) Exists(ctx context.Context, reason string, referenceID uuid.UUID) (bool, error) {
	for _, row := range r.rows {
		if row.Reason == reason && row.ReferenceID == referenceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStagePointRepo) Create(ctx context.Context, row *entity.StagePointLog) error {
	if err, ok := r.failFor[row.UserID]; ok {
		return err
	}
	r.nextID++
	row.ID = r.nextID
	row.CreatedAt = time.Now()
	r.rows = append(r.rows, *row)
	return nil
}

func (r *fakeStagePointRepo) SumByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	sum := 0
	for _, row := range r.rows {
		if row.UserID == userID {
			sum += row.Points
		}
	}
	return sum, nil
}

func (r *fakeStagePointRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.StagePointLog, error) {
	var result []entity.StagePointLog
	for _, row := range r.rows {
		if row.UserID == userID {
			result = append(result, row)
		}
	}
	return result, nil
}

type fakeReviewRepo struct {
	rows []*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	r.rows = append(r.rows, review)
	return nil
}

func (r *fakeReviewRepo) Exists(ctx context.Context, reviewerID, targetID, matchID uuid.UUID) (bool, error) {
	for _, row := range r.rows {
		if row.ReviewerID == reviewerID && row.TargetID == targetID && row.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) FindByTarget(ctx context.Context, targetID uuid.UUID) ([]entity.Review, error) {
	var result []entity.Review
	for _, row := range r.rows {
		if row.TargetID == targetID {
			result = append(result, *row)
		}
	}
	return result, nil
}

type fakeMatchRepo struct {
	rows map[uuid.UUID]*entity.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{rows: make(map[uuid.UUID]*entity.Match)}
}

func (r *fakeMatchRepo) Create(ctx context.Context, match *entity.Match) error {
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	r.rows[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Match, error) {
	match, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return match, nil
}

func (r *fakeMatchRepo) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Match, error) {
	var result []entity.Match
	for _, match := range r.rows {
		if match.EventID == eventID {
			result = append(result, *match)
		}
	}
	return result, nil
}

type fakeNotificationRepo struct {
	rows []*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	r.rows = append(r.rows, notification)
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	var result []entity.Notification
	for _, row := range r.rows {
		if row.UserID == userID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	for _, row := range r.rows {
		if row.ID == id {
			row.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for _, row := range r.rows {
		if row.UserID == userID {
			row.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

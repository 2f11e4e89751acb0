package service

import (
	"context"
	"fmt"
	"time"

	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/params"
	"party-invites/modules/notification/dto"
	"party-invites/modules/notification/entity"
	"party-invites/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    entity.NotificationType(req.Type),
		Data:    entity.JSONB(req.Data),
	}
	notif.Touch(time.Now())
	return s.repo.Create(ctx, notif)
}

// NotifyRemindersSent tells the host how a reminder checkpoint went.
func (s *NotificationService) NotifyRemindersSent(ctx context.Context, userID, partyID uuid.UUID, checkpoint string, sent, failed int) error {
	message := fmt.Sprintf("%d reminder emails sent", sent)
	if failed > 0 {
		message += fmt.Sprintf(", %d failed", failed)
	}
	return s.Create(ctx, &dto.CreateNotificationRequest{
		UserID:  userID,
		Title:   "Reminders sent",
		Message: message,
		Type:    string(entity.NotificationRemindersSent),
		Data: map[string]any{
			"party_id":   partyID.String(),
			"checkpoint": checkpoint,
			"sent":       sent,
			"failed":     failed,
		},
	})
}

// NotifyRSVPReceived tells the host a guest answered.
func (s *NotificationService) NotifyRSVPReceived(ctx context.Context, userID, partyID, guestID uuid.UUID, guestName, status string, childrenCount int) error {
	return s.Create(ctx, &dto.CreateNotificationRequest{
		UserID:  userID,
		Title:   "New RSVP",
		Message: fmt.Sprintf("%s answered %s", guestName, status),
		Type:    string(entity.NotificationRSVPReceived),
		Data: map[string]any{
			"party_id":       partyID.String(),
			"guest_id":       guestID.String(),
			"status":         status,
			"children_count": childrenCount,
		},
	})
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown notification type: "+string(filter.Type), nil)
	}
	result, err := s.repo.List(ctx, userID, filter, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get notifications", err)
	}
	return result, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "invalid notification id: "+raw, err)
		}
		parsed = append(parsed, id)
	}
	if err := s.repo.MarkAsRead(ctx, userID, parsed); err != nil {
		logger.Error("NotificationService:MarkAsRead:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	byType, appErr := s.UnreadByType(ctx, userID)
	if appErr != nil {
		return 0, appErr
	}
	total := 0
	for _, n := range byType {
		total += n
	}
	return total, nil
}

// UnreadByType reports every known type, including those with no unread rows.
func (s *NotificationService) UnreadByType(ctx context.Context, userID uuid.UUID) (map[entity.NotificationType]int, *errors.AppError) {
	counts, err := s.repo.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count unread", err)
	}
	for _, t := range []entity.NotificationType{entity.NotificationRSVPReceived, entity.NotificationRemindersSent} {
		if _, ok := counts[t]; !ok {
			counts[t] = 0
		}
	}
	return counts, nil
}

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/mbharti12/goal-tracker/internal/apperror"
	"github.com/mbharti12/goal-tracker/internal/model"
	"github.com/mbharti12/goal-tracker/internal/repository"
)

type NotificationReadPayload struct {
	ID     string     `json:"id"`
	ReadAt *time.Time `json:"read_at"`
}

type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) Notifications(unreadOnly bool) ([]*model.Notification, error) {
	notifications, err := s.notifications.List(unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead is idempotent: marking an already-read notification keeps its
// original read timestamp.
func (s *NotificationService) MarkRead(notificationID string) (*NotificationReadPayload, error) {
	notification, err := s.notifications.ByID(notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return nil, apperror.NewNotFound("Notification not found")
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	if notification.ReadAt == nil {
		now := time.Now().UTC()
		if err := s.notifications.MarkRead(notificationID, now); err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
		notification.ReadAt = &now
	}

	return &NotificationReadPayload{ID: notification.ID, ReadAt: notification.ReadAt}, nil
}

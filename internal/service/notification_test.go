package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbharti12/goal-tracker/internal/model"
)

func seedNotification(fx *fixture, id string, createdAt time.Time, readAt *time.Time) {
	fx.notifications.notifications = append(fx.notifications.notifications, &model.Notification{
		ID:        id,
		CreatedAt: createdAt,
		Type:      model.NotificationTypeReminder,
		Title:     "Goal check-in",
		Body:      "Incomplete goals today: Reading.",
		ReadAt:    readAt,
	})
}

func TestNotificationsListNewestFirst(t *testing.T) {
	fx := newFixture()
	base := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	readAt := base.Add(90 * time.Minute)
	seedNotification(fx, "n-1", base, nil)
	seedNotification(fx, "n-2", base.Add(time.Hour), &readAt)
	seedNotification(fx, "n-3", base.Add(2*time.Hour), nil)
	// Equal timestamps fall back to id order.
	seedNotification(fx, "n-4", base.Add(3*time.Hour), nil)
	seedNotification(fx, "n-5", base.Add(3*time.Hour), nil)
	svc := NewNotificationService(fx.notifications)

	all, err := svc.Notifications(false)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, notification := range all {
		ids = append(ids, notification.ID)
	}
	require.Equal(t, []string{"n-5", "n-4", "n-3", "n-2", "n-1"}, ids)

	unread, err := svc.Notifications(true)
	require.NoError(t, err)
	ids = ids[:0]
	for _, notification := range unread {
		ids = append(ids, notification.ID)
	}
	require.Equal(t, []string{"n-5", "n-4", "n-3", "n-1"}, ids)
}

func TestNotificationMarkRead(t *testing.T) {
	fx := newFixture()
	seedNotification(fx, "n-1", time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC), nil)
	svc := NewNotificationService(fx.notifications)

	payload, err := svc.MarkRead("n-1")
	require.NoError(t, err)
	require.Equal(t, "n-1", payload.ID)
	require.NotNil(t, payload.ReadAt)
	require.WithinDuration(t, time.Now().UTC(), *payload.ReadAt, time.Minute)

	stored, err := fx.notifications.ByID("n-1")
	require.NoError(t, err)
	require.NotNil(t, stored.ReadAt)
	require.Equal(t, *payload.ReadAt, *stored.ReadAt)
}

func TestNotificationMarkReadIdempotent(t *testing.T) {
	fx := newFixture()
	readAt := time.Date(2024, 5, 15, 11, 30, 0, 0, time.UTC)
	seedNotification(fx, "n-1", time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC), &readAt)
	svc := NewNotificationService(fx.notifications)

	payload, err := svc.MarkRead("n-1")
	require.NoError(t, err)
	require.NotNil(t, payload.ReadAt)
	require.Equal(t, readAt, *payload.ReadAt)
}

func TestNotificationMarkReadNotFound(t *testing.T) {
	fx := newFixture()
	svc := NewNotificationService(fx.notifications)

	_, err := svc.MarkRead("n-missing")
	requireAppError(t, err, 404, "Notification not found")
}

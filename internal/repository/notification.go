package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	ByID(notificationID string) (*model.Notification, error)
	ByDedupeKey(dedupeKey string) (*model.Notification, error)
	List(unreadOnly bool) ([]*model.Notification, error)
	MarkRead(notificationID string, at time.Time) error
	ExistsByDedupeKey(dedupeKey string) (bool, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	query := `INSERT INTO notifications (id, created_at, type, title, body, read_at, dedupe_key)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		notification.ID,
		notification.CreatedAt,
		notification.Type,
		notification.Title,
		notification.Body,
		notification.ReadAt,
		notification.DedupeKey,
	)

	return err
}

func (r *notificationRepository) ByID(notificationID string) (*model.Notification, error) {
	notification := &model.Notification{}
	query := `SELECT * FROM notifications WHERE id = $1`

	err := r.db.Get(notification, query, notificationID)
	if err == sql.ErrNoRows {
		return nil, ErrNotificationNotFound
	}

	return notification, err
}

func (r *notificationRepository) ByDedupeKey(dedupeKey string) (*model.Notification, error) {
	notification := &model.Notification{}
	query := `SELECT * FROM notifications WHERE dedupe_key = $1 LIMIT 1`

	err := r.db.Get(notification, query, dedupeKey)
	if err == sql.ErrNoRows {
		return nil, ErrNotificationNotFound
	}

	return notification, err
}

func (r *notificationRepository) List(unreadOnly bool) ([]*model.Notification, error) {
	var notifications []*model.Notification

	query := `SELECT * FROM notifications ORDER BY created_at DESC, id DESC`
	if unreadOnly {
		query = `SELECT * FROM notifications WHERE read_at IS NULL ORDER BY created_at DESC, id DESC`
	}

	err := r.db.Select(&notifications, query)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(notificationID string, at time.Time) error {
	query := `UPDATE notifications SET read_at = $1 WHERE id = $2 AND read_at IS NULL`

	_, err := r.db.Exec(query, at, notificationID)
	return err
}

func (r *notificationRepository) ExistsByDedupeKey(dedupeKey string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE dedupe_key = $1)`

	err := r.db.Get(&exists, query, dedupeKey)
	return exists, err
}

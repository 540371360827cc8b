package model

import (
	"time"
)

const (
	NotificationTypeReminder = "reminder"
	NotificationTypeTrend    = "trend"
)

type Notification struct {
	ID        string     `db:"id" json:"id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Type      string     `db:"type" json:"type"`
	Title     string     `db:"title" json:"title"`
	Body      string     `db:"body" json:"body"`
	ReadAt    *time.Time `db:"read_at" json:"read_at"`
	DedupeKey *string    `db:"dedupe_key" json:"dedupe_key"`
}

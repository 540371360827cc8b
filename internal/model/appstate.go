package model

import (
	"time"
)

// AppState is a small key-value store for process bookkeeping, e.g. the
// last time the reminder sweep ran.
type AppState struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

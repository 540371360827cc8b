package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
)

var (
	ErrAppStateNotFound = errors.New("app state key not found")
)

type AppStateRepository interface {
	Get(key string) (*model.AppState, error)
	Set(key, value string, at time.Time) error
}

type appStateRepository struct {
	db *sqlx.DB
}

func NewAppStateRepository(db *sqlx.DB) AppStateRepository {
	return &appStateRepository{db: db}
}

func (r *appStateRepository) Get(key string) (*model.AppState, error) {
	state := &model.AppState{}
	query := `SELECT * FROM app_state WHERE key = $1`

	err := r.db.Get(state, query, key)
	if err == sql.ErrNoRows {
		return nil, ErrAppStateNotFound
	}

	return state, err
}

func (r *appStateRepository) Set(key, value string, at time.Time) error {
	query := `INSERT INTO app_state (key, value, updated_at) VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := r.db.Exec(query, key, value, at)
	return err
}

package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
)

var (
	ErrConditionNotFound = errors.New("condition not found")
)

type ConditionRepository interface {
	Create(condition *model.Condition) error
	ByID(conditionID string) (*model.Condition, error)
	ByIDs(conditionIDs []string) ([]*model.Condition, error)
	ByName(name string) (*model.Condition, error)
	All(includeInactive bool) ([]*model.Condition, error)
	SetActive(conditionID string, active bool) error
	Update(condition *model.Condition) error
}

type conditionRepository struct {
	db *sqlx.DB
}

func NewConditionRepository(db *sqlx.DB) ConditionRepository {
	return &conditionRepository{db: db}
}

func (r *conditionRepository) Create(condition *model.Condition) error {
	query := `INSERT INTO conditions (id, name, active) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(query, condition.ID, condition.Name, condition.Active)
	return err
}

func (r *conditionRepository) ByID(conditionID string) (*model.Condition, error) {
	condition := &model.Condition{}
	query := `SELECT * FROM conditions WHERE id = $1`

	err := r.db.Get(condition, query, conditionID)
	if err == sql.ErrNoRows {
		return nil, ErrConditionNotFound
	}

	return condition, err
}

func (r *conditionRepository) ByIDs(conditionIDs []string) ([]*model.Condition, error) {
	var conditions []*model.Condition
	if len(conditionIDs) == 0 {
		return conditions, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM conditions WHERE id IN (?)`, conditionIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&conditions, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return conditions, nil
}

func (r *conditionRepository) ByName(name string) (*model.Condition, error) {
	condition := &model.Condition{}
	query := `SELECT * FROM conditions WHERE name = $1`

	err := r.db.Get(condition, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrConditionNotFound
	}

	return condition, err
}

func (r *conditionRepository) All(includeInactive bool) ([]*model.Condition, error) {
	var conditions []*model.Condition

	query := `SELECT * FROM conditions ORDER BY name`
	if !includeInactive {
		query = `SELECT * FROM conditions WHERE active ORDER BY name`
	}

	err := r.db.Select(&conditions, query)
	if err != nil {
		return nil, err
	}

	return conditions, nil
}

func (r *conditionRepository) SetActive(conditionID string, active bool) error {
	result, err := r.db.Exec(`UPDATE conditions SET active = $1 WHERE id = $2`, active, conditionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrConditionNotFound
	}

	return nil
}

func (r *conditionRepository) Update(condition *model.Condition) error {
	query := `UPDATE conditions SET name = $1, active = $2 WHERE id = $3`

	result, err := r.db.Exec(query, condition.Name, condition.Active, condition.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrConditionNotFound
	}

	return nil
}

package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	ByIDs(goalIDs []string) ([]*model.Goal, error)
	All() ([]*model.Goal, error)
	Update(goal *model.Goal) error
	TagsByGoals(goalIDs []string) (map[string][]model.GoalTag, error)
	ConditionsByGoals(goalIDs []string) (map[string][]model.GoalCondition, error)
	ReplaceTags(goalID string, tags []model.GoalTag) error
	ReplaceConditions(goalID string, conditions []model.GoalCondition) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, name, description, active, target_window, target_count, scoring_mode)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.Name,
		goal.Description,
		goal.Active,
		goal.TargetWindow,
		goal.TargetCount,
		goal.ScoringMode,
	)

	return err
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) ByIDs(goalIDs []string) ([]*model.Goal, error) {
	var goals []*model.Goal
	if len(goalIDs) == 0 {
		return goals, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goals WHERE id IN (?)`, goalIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&goals, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) All() ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals ORDER BY name`

	err := r.db.Select(&goals, query)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET name = $1, description = $2, active = $3, target_window = $4, target_count = $5, scoring_mode = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query,
		goal.Name,
		goal.Description,
		goal.Active,
		goal.TargetWindow,
		goal.TargetCount,
		goal.ScoringMode,
		goal.ID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) TagsByGoals(goalIDs []string) (map[string][]model.GoalTag, error) {
	byGoal := map[string][]model.GoalTag{}
	if len(goalIDs) == 0 {
		return byGoal, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goal_tags WHERE goal_id IN (?) ORDER BY tag_id`, goalIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalTag
	err = r.db.Select(&rows, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		byGoal[row.GoalID] = append(byGoal[row.GoalID], row)
	}

	return byGoal, nil
}

func (r *goalRepository) ConditionsByGoals(goalIDs []string) (map[string][]model.GoalCondition, error) {
	byGoal := map[string][]model.GoalCondition{}
	if len(goalIDs) == 0 {
		return byGoal, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goal_conditions WHERE goal_id IN (?) ORDER BY condition_id`, goalIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalCondition
	err = r.db.Select(&rows, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		byGoal[row.GoalID] = append(byGoal[row.GoalID], row)
	}

	return byGoal, nil
}

func (r *goalRepository) ReplaceTags(goalID string, tags []model.GoalTag) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM goal_tags WHERE goal_id = $1`, goalID)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		_, err = tx.Exec(
			`INSERT INTO goal_tags (goal_id, tag_id, weight) VALUES ($1, $2, $3)`,
			goalID, tag.TagID, tag.Weight,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *goalRepository) ReplaceConditions(goalID string, conditions []model.GoalCondition) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM goal_conditions WHERE goal_id = $1`, goalID)
	if err != nil {
		return err
	}

	for _, condition := range conditions {
		_, err = tx.Exec(
			`INSERT INTO goal_conditions (goal_id, condition_id, required_value) VALUES ($1, $2, $3)`,
			goalID, condition.ConditionID, condition.RequiredValue,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

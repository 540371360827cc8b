package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
)

var (
	ErrGoalVersionNotFound = errors.New("goal version not found")
)

type GoalVersionRepository interface {
	// Create inserts a version together with its tag and condition
	// snapshots in one transaction.
	Create(version *model.GoalVersion, tags []model.GoalVersionTag, conditions []model.GoalVersionCondition) error
	ByGoal(goalID string) ([]model.GoalVersion, error)
	UpdateFields(version *model.GoalVersion) error
	SetEndDate(versionID string, endDate *string) error
	// ReplaceSnapshots swaps the version's tag and condition sets
	// atomically.
	ReplaceSnapshots(versionID string, tags []model.GoalVersionTag, conditions []model.GoalVersionCondition) error
}

type goalVersionRepository struct {
	db *sqlx.DB
}

func NewGoalVersionRepository(db *sqlx.DB) GoalVersionRepository {
	return &goalVersionRepository{db: db}
}

func (r *goalVersionRepository) Create(version *model.GoalVersion, tags []model.GoalVersionTag, conditions []model.GoalVersionCondition) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO goal_versions (id, goal_id, start_date, end_date, target_window, target_count, scoring_mode)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(query,
		version.ID,
		version.GoalID,
		version.StartDate,
		version.EndDate,
		version.TargetWindow,
		version.TargetCount,
		version.ScoringMode,
	)
	if err != nil {
		return err
	}

	err = insertSnapshots(tx, version.ID, tags, conditions)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *goalVersionRepository) ByGoal(goalID string) ([]model.GoalVersion, error) {
	var versions []model.GoalVersion
	query := `SELECT * FROM goal_versions WHERE goal_id = $1 ORDER BY start_date`

	err := r.db.Select(&versions, query, goalID)
	if err != nil {
		return nil, err
	}

	return versions, nil
}

func (r *goalVersionRepository) UpdateFields(version *model.GoalVersion) error {
	query := `UPDATE goal_versions
	          SET target_window = $1, target_count = $2, scoring_mode = $3
	          WHERE id = $4`

	result, err := r.db.Exec(query,
		version.TargetWindow,
		version.TargetCount,
		version.ScoringMode,
		version.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalVersionNotFound
	}

	return nil
}

func (r *goalVersionRepository) SetEndDate(versionID string, endDate *string) error {
	result, err := r.db.Exec(`UPDATE goal_versions SET end_date = $1 WHERE id = $2`, endDate, versionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalVersionNotFound
	}

	return nil
}

func (r *goalVersionRepository) ReplaceSnapshots(versionID string, tags []model.GoalVersionTag, conditions []model.GoalVersionCondition) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM goal_version_tags WHERE goal_version_id = $1`, versionID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`DELETE FROM goal_version_conditions WHERE goal_version_id = $1`, versionID)
	if err != nil {
		return err
	}

	err = insertSnapshots(tx, versionID, tags, conditions)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func insertSnapshots(tx *sqlx.Tx, versionID string, tags []model.GoalVersionTag, conditions []model.GoalVersionCondition) error {
	for _, tag := range tags {
		_, err := tx.Exec(
			`INSERT INTO goal_version_tags (goal_version_id, tag_id, weight) VALUES ($1, $2, $3)`,
			versionID, tag.TagID, tag.Weight,
		)
		if err != nil {
			return err
		}
	}

	for _, condition := range conditions {
		_, err := tx.Exec(
			`INSERT INTO goal_version_conditions (goal_version_id, condition_id, required_value) VALUES ($1, $2, $3)`,
			versionID, condition.ConditionID, condition.RequiredValue,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

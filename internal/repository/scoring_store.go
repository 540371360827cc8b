package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
	"github.com/mbharti12/goal-tracker/internal/scoring"
)

// scoringStore implements scoring.Store with one query per load, using IN
// batches so scoring a date stays O(1) queries however many goals exist.
type scoringStore struct {
	db *sqlx.DB
}

func NewScoringStore(db *sqlx.DB) scoring.Store {
	return &scoringStore{db: db}
}

func (s *scoringStore) ActiveGoals() ([]model.Goal, error) {
	var goals []model.Goal
	query := `SELECT * FROM goals WHERE active ORDER BY name`

	err := s.db.Select(&goals, query)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (s *scoringStore) GoalsByIDs(goalIDs []string) ([]model.Goal, error) {
	var goals []model.Goal
	if len(goalIDs) == 0 {
		return goals, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goals WHERE id IN (?)`, goalIDs)
	if err != nil {
		return nil, err
	}

	err = s.db.Select(&goals, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (s *scoringStore) GoalTags(goalIDs []string) (map[string]map[string]int, error) {
	weights := map[string]map[string]int{}
	if len(goalIDs) == 0 {
		return weights, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goal_tags WHERE goal_id IN (?)`, goalIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalTag
	err = s.db.Select(&rows, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if weights[row.GoalID] == nil {
			weights[row.GoalID] = map[string]int{}
		}
		weights[row.GoalID][row.TagID] = row.Weight
	}

	return weights, nil
}

func (s *scoringStore) GoalConditions(goalIDs []string) (map[string][]scoring.ConditionRequirement, error) {
	requirements := map[string][]scoring.ConditionRequirement{}
	if len(goalIDs) == 0 {
		return requirements, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goal_conditions WHERE goal_id IN (?)`, goalIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalCondition
	err = s.db.Select(&rows, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		requirements[row.GoalID] = append(requirements[row.GoalID], scoring.ConditionRequirement{
			ConditionID:   row.ConditionID,
			RequiredValue: row.RequiredValue,
		})
	}

	return requirements, nil
}

func (s *scoringStore) GoalVersions(goalIDs []string) (map[string][]model.GoalVersion, error) {
	versions := map[string][]model.GoalVersion{}
	if len(goalIDs) == 0 {
		return versions, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goal_versions WHERE goal_id IN (?)`, goalIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalVersion
	err = s.db.Select(&rows, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		versions[row.GoalID] = append(versions[row.GoalID], row)
	}

	return versions, nil
}

func (s *scoringStore) VersionTags(versionIDs []string) (map[string]map[string]int, error) {
	weights := map[string]map[string]int{}
	if len(versionIDs) == 0 {
		return weights, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goal_version_tags WHERE goal_version_id IN (?)`, versionIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalVersionTag
	err = s.db.Select(&rows, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if weights[row.GoalVersionID] == nil {
			weights[row.GoalVersionID] = map[string]int{}
		}
		weights[row.GoalVersionID][row.TagID] = row.Weight
	}

	return weights, nil
}

func (s *scoringStore) VersionConditions(versionIDs []string) (map[string][]scoring.ConditionRequirement, error) {
	requirements := map[string][]scoring.ConditionRequirement{}
	if len(versionIDs) == 0 {
		return requirements, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM goal_version_conditions WHERE goal_version_id IN (?)`, versionIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalVersionCondition
	err = s.db.Select(&rows, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		requirements[row.GoalVersionID] = append(requirements[row.GoalVersionID], scoring.ConditionRequirement{
			ConditionID:   row.ConditionID,
			RequiredValue: row.RequiredValue,
		})
	}

	return requirements, nil
}

func (s *scoringStore) DayConditions(date string) (map[string]bool, error) {
	var rows []model.DayCondition
	query := `SELECT * FROM day_conditions WHERE date = $1`

	err := s.db.Select(&rows, query, date)
	if err != nil {
		return nil, err
	}

	values := make(map[string]bool, len(rows))
	for _, row := range rows {
		values[row.ConditionID] = row.Value
	}

	return values, nil
}

func (s *scoringStore) DayConditionsRange(start, end string) (map[string]map[string]bool, error) {
	var rows []model.DayCondition
	query := `SELECT * FROM day_conditions WHERE date >= $1 AND date <= $2`

	err := s.db.Select(&rows, query, start, end)
	if err != nil {
		return nil, err
	}

	values := map[string]map[string]bool{}
	for _, row := range rows {
		if values[row.Date] == nil {
			values[row.Date] = map[string]bool{}
		}
		values[row.Date][row.ConditionID] = row.Value
	}

	return values, nil
}

func (s *scoringStore) TagEventSums(tagIDs []string, start, end string) (map[string]map[string]int, error) {
	sums := map[string]map[string]int{}
	if len(tagIDs) == 0 {
		return sums, nil
	}

	query, args, err := sqlx.In(
		`SELECT tag_id, date, SUM(count) AS total
		 FROM tag_events
		 WHERE tag_id IN (?) AND date >= ? AND date <= ?
		 GROUP BY tag_id, date`,
		tagIDs, start, end,
	)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		TagID string `db:"tag_id"`
		Date  string `db:"date"`
		Total int    `db:"total"`
	}
	err = s.db.Select(&rows, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if sums[row.TagID] == nil {
			sums[row.TagID] = map[string]int{}
		}
		sums[row.TagID][row.Date] += row.Total
	}

	return sums, nil
}

func (s *scoringStore) Ratings(goalIDs []string, start, end string) (map[string][]model.GoalRating, error) {
	ratings := map[string][]model.GoalRating{}
	if len(goalIDs) == 0 {
		return ratings, nil
	}

	query, args, err := sqlx.In(
		`SELECT * FROM goal_ratings WHERE goal_id IN (?) AND date >= ? AND date <= ?`,
		goalIDs, start, end,
	)
	if err != nil {
		return nil, err
	}

	var rows []model.GoalRating
	err = s.db.Select(&rows, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		ratings[row.GoalID] = append(ratings[row.GoalID], row)
	}

	return ratings, nil
}

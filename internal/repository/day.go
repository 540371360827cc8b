package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
)

var (
	ErrDayEntryNotFound = errors.New("day entry not found")
	ErrTagEventNotFound = errors.New("tag event not found")
)

type DayRepository interface {
	EntryByDate(date string) (*model.DayEntry, error)
	CreateEntry(entry *model.DayEntry) error
	UpdateEntry(entry *model.DayEntry) error
	NotesByDates(dates []string) (map[string]*string, error)
	ConditionsByDate(date string) ([]model.DayCondition, error)
	ConditionsRange(start, end string) ([]model.DayCondition, error)
	// TrueConditionDates returns, per date, the set of condition ids
	// recorded true on that date, filtered to the given conditions.
	TrueConditionDates(dates []string, conditionIDs []string) (map[string]map[string]struct{}, error)
	UpsertCondition(value *model.DayCondition) error
	EventsByDate(date string) ([]model.TagEvent, error)
	EventsRange(start, end string) ([]model.TagEvent, error)
	CreateEvent(event *model.TagEvent) error
	EventByID(eventID string) (*model.TagEvent, error)
	DeleteEvent(eventID string) error
	RatingsByDate(date string) ([]model.GoalRating, error)
	RatingByDateAndGoal(date, goalID string) (*model.GoalRating, error)
	UpsertRating(rating *model.GoalRating) error
}

type dayRepository struct {
	db *sqlx.DB
}

func NewDayRepository(db *sqlx.DB) DayRepository {
	return &dayRepository{db: db}
}

func (r *dayRepository) EntryByDate(date string) (*model.DayEntry, error) {
	entry := &model.DayEntry{}
	query := `SELECT * FROM day_entries WHERE date = $1`

	err := r.db.Get(entry, query, date)
	if err == sql.ErrNoRows {
		return nil, ErrDayEntryNotFound
	}

	return entry, err
}

func (r *dayRepository) CreateEntry(entry *model.DayEntry) error {
	query := `INSERT INTO day_entries (date, note, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, entry.Date, entry.Note, entry.CreatedAt, entry.UpdatedAt)
	return err
}

func (r *dayRepository) UpdateEntry(entry *model.DayEntry) error {
	query := `UPDATE day_entries SET note = $1, updated_at = $2 WHERE date = $3`

	result, err := r.db.Exec(query, entry.Note, entry.UpdatedAt, entry.Date)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrDayEntryNotFound
	}

	return nil
}

func (r *dayRepository) NotesByDates(dates []string) (map[string]*string, error) {
	notes := map[string]*string{}
	if len(dates) == 0 {
		return notes, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM day_entries WHERE date IN (?)`, dates)
	if err != nil {
		return nil, err
	}

	var entries []model.DayEntry
	err = r.db.Select(&entries, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		notes[entry.Date] = entry.Note
	}

	return notes, nil
}

func (r *dayRepository) ConditionsByDate(date string) ([]model.DayCondition, error) {
	var conditions []model.DayCondition
	query := `SELECT * FROM day_conditions WHERE date = $1 ORDER BY condition_id`

	err := r.db.Select(&conditions, query, date)
	if err != nil {
		return nil, err
	}

	return conditions, nil
}

func (r *dayRepository) ConditionsRange(start, end string) ([]model.DayCondition, error) {
	var conditions []model.DayCondition
	query := `SELECT * FROM day_conditions WHERE date >= $1 AND date <= $2 ORDER BY date, condition_id`

	err := r.db.Select(&conditions, query, start, end)
	if err != nil {
		return nil, err
	}

	return conditions, nil
}

func (r *dayRepository) TrueConditionDates(dates []string, conditionIDs []string) (map[string]map[string]struct{}, error) {
	byDate := map[string]map[string]struct{}{}
	if len(dates) == 0 || len(conditionIDs) == 0 {
		return byDate, nil
	}

	query, args, err := sqlx.In(
		`SELECT * FROM day_conditions WHERE date IN (?) AND condition_id IN (?) AND value`,
		dates, conditionIDs,
	)
	if err != nil {
		return nil, err
	}

	var rows []model.DayCondition
	err = r.db.Select(&rows, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if byDate[row.Date] == nil {
			byDate[row.Date] = map[string]struct{}{}
		}
		byDate[row.Date][row.ConditionID] = struct{}{}
	}

	return byDate, nil
}

func (r *dayRepository) UpsertCondition(value *model.DayCondition) error {
	query := `INSERT INTO day_conditions (date, condition_id, value) VALUES ($1, $2, $3)
	          ON CONFLICT (date, condition_id) DO UPDATE SET value = excluded.value`

	_, err := r.db.Exec(query, value.Date, value.ConditionID, value.Value)
	return err
}

func (r *dayRepository) EventsByDate(date string) ([]model.TagEvent, error) {
	var events []model.TagEvent
	query := `SELECT * FROM tag_events WHERE date = $1 ORDER BY ts, id`

	err := r.db.Select(&events, query, date)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *dayRepository) EventsRange(start, end string) ([]model.TagEvent, error) {
	var events []model.TagEvent
	query := `SELECT * FROM tag_events WHERE date >= $1 AND date <= $2`

	err := r.db.Select(&events, query, start, end)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *dayRepository) CreateEvent(event *model.TagEvent) error {
	query := `INSERT INTO tag_events (id, date, tag_id, ts, count, note)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		event.ID,
		event.Date,
		event.TagID,
		event.TS,
		event.Count,
		event.Note,
	)

	return err
}

func (r *dayRepository) EventByID(eventID string) (*model.TagEvent, error) {
	event := &model.TagEvent{}
	query := `SELECT * FROM tag_events WHERE id = $1`

	err := r.db.Get(event, query, eventID)
	if err == sql.ErrNoRows {
		return nil, ErrTagEventNotFound
	}

	return event, err
}

func (r *dayRepository) DeleteEvent(eventID string) error {
	result, err := r.db.Exec(`DELETE FROM tag_events WHERE id = $1`, eventID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTagEventNotFound
	}

	return nil
}

func (r *dayRepository) RatingsByDate(date string) ([]model.GoalRating, error) {
	var ratings []model.GoalRating
	query := `SELECT * FROM goal_ratings WHERE date = $1 ORDER BY goal_id`

	err := r.db.Select(&ratings, query, date)
	if err != nil {
		return nil, err
	}

	return ratings, nil
}

func (r *dayRepository) RatingByDateAndGoal(date, goalID string) (*model.GoalRating, error) {
	rating := &model.GoalRating{}
	query := `SELECT * FROM goal_ratings WHERE date = $1 AND goal_id = $2`

	err := r.db.Get(rating, query, date, goalID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rating, nil
}

func (r *dayRepository) UpsertRating(rating *model.GoalRating) error {
	query := `INSERT INTO goal_ratings (date, goal_id, rating, note) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (date, goal_id) DO UPDATE SET rating = excluded.rating, note = excluded.note`

	_, err := r.db.Exec(query, rating.Date, rating.GoalID, rating.Rating, rating.Note)
	return err
}

package model

import (
	"time"
)

// DayEntry is the journal row for one calendar date. Dates are stored
// as ISO YYYY-MM-DD strings so lexicographic order matches date order.
type DayEntry struct {
	Date      string    `db:"date" json:"date"`
	Note      *string   `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DayCondition records the boolean value of a condition on a date.
// Upserted in place, not versioned.
type DayCondition struct {
	Date        string `db:"date" json:"date"`
	ConditionID string `db:"condition_id" json:"condition_id"`
	Value       bool   `db:"value" json:"value"`
}

// GoalRating is a 1-100 self-assessment of a rating-mode goal on a date.
type GoalRating struct {
	Date   string  `db:"date" json:"date"`
	GoalID string  `db:"goal_id" json:"goal_id"`
	Rating int     `db:"rating" json:"rating"`
	Note   *string `db:"note" json:"note"`
}

package model

const (
	TargetWindowDay   = "day"
	TargetWindowWeek  = "week"
	TargetWindowMonth = "month"
)

const (
	ScoringModeCount  = "count"
	ScoringModeBinary = "binary"
	ScoringModeRating = "rating"
)

const (
	StatusMet           = "met"
	StatusPartial       = "partial"
	StatusMissed        = "missed"
	StatusNotApplicable = "na"
)

type Goal struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Description  *string `db:"description" json:"description"`
	Active       bool    `db:"active" json:"active"`
	TargetWindow string  `db:"target_window" json:"target_window"`
	TargetCount  int     `db:"target_count" json:"target_count"`
	ScoringMode  string  `db:"scoring_mode" json:"scoring_mode"`
}

type GoalTag struct {
	GoalID string `db:"goal_id" json:"goal_id"`
	TagID  string `db:"tag_id" json:"tag_id"`
	Weight int    `db:"weight" json:"weight"`
}

// GoalVersion freezes a goal's scoring configuration for a date range.
// EndDate nil means the version is still open.
type GoalVersion struct {
	ID           string  `db:"id" json:"id"`
	GoalID       string  `db:"goal_id" json:"goal_id"`
	StartDate    string  `db:"start_date" json:"start_date"`
	EndDate      *string `db:"end_date" json:"end_date"`
	TargetWindow string  `db:"target_window" json:"target_window"`
	TargetCount  int     `db:"target_count" json:"target_count"`
	ScoringMode  string  `db:"scoring_mode" json:"scoring_mode"`
}

type GoalVersionTag struct {
	GoalVersionID string `db:"goal_version_id" json:"goal_version_id"`
	TagID         string `db:"tag_id" json:"tag_id"`
	Weight        int    `db:"weight" json:"weight"`
}

type GoalVersionCondition struct {
	GoalVersionID string `db:"goal_version_id" json:"goal_version_id"`
	ConditionID   string `db:"condition_id" json:"condition_id"`
	RequiredValue bool   `db:"required_value" json:"required_value"`
}

package model

type Condition struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

type GoalCondition struct {
	GoalID        string `db:"goal_id" json:"goal_id"`
	ConditionID   string `db:"condition_id" json:"condition_id"`
	RequiredValue bool   `db:"required_value" json:"required_value"`
}

package model

import (
	"time"
)

type Tag struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// TagEvent is one occurrence of a tag on a day. Count lets a single
// event carry more than one occurrence.
type TagEvent struct {
	ID    string     `db:"id" json:"id"`
	Date  string     `db:"date" json:"date"`
	TagID string     `db:"tag_id" json:"tag_id"`
	TS    *time.Time `db:"ts" json:"ts"`
	Count int        `db:"count" json:"count"`
	Note  *string    `db:"note" json:"note"`
}

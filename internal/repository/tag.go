package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/model"
)

var (
	ErrTagNotFound = errors.New("tag not found")
)

type TagRepository interface {
	Create(tag *model.Tag) error
	ByID(tagID string) (*model.Tag, error)
	ByIDs(tagIDs []string) ([]*model.Tag, error)
	ByName(name string) (*model.Tag, error)
	All(includeInactive bool) ([]*model.Tag, error)
	Update(tag *model.Tag) error
	SetActive(tagID string, active bool) error
	// LinkedToGoals, LinkedToVersions and HasEvents answer the reference
	// checks that guard hard deletion.
	LinkedToGoals(tagID string) (bool, error)
	LinkedToVersions(tagID string) (bool, error)
	HasEvents(tagID string) (bool, error)
	Delete(tagID string) error
}

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *model.Tag) error {
	query := `INSERT INTO tags (id, name, active) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(query, tag.ID, tag.Name, tag.Active)
	return err
}

func (r *tagRepository) ByID(tagID string) (*model.Tag, error) {
	tag := &model.Tag{}
	query := `SELECT * FROM tags WHERE id = $1`

	err := r.db.Get(tag, query, tagID)
	if err == sql.ErrNoRows {
		return nil, ErrTagNotFound
	}

	return tag, err
}

func (r *tagRepository) ByIDs(tagIDs []string) ([]*model.Tag, error) {
	var tags []*model.Tag
	if len(tagIDs) == 0 {
		return tags, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM tags WHERE id IN (?)`, tagIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&tags, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (r *tagRepository) ByName(name string) (*model.Tag, error) {
	tag := &model.Tag{}
	query := `SELECT * FROM tags WHERE name = $1`

	err := r.db.Get(tag, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrTagNotFound
	}

	return tag, err
}

func (r *tagRepository) All(includeInactive bool) ([]*model.Tag, error) {
	var tags []*model.Tag

	query := `SELECT * FROM tags ORDER BY name`
	if !includeInactive {
		query = `SELECT * FROM tags WHERE active ORDER BY name`
	}

	err := r.db.Select(&tags, query)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (r *tagRepository) Update(tag *model.Tag) error {
	query := `UPDATE tags SET name = $1, active = $2 WHERE id = $3`

	result, err := r.db.Exec(query, tag.Name, tag.Active, tag.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTagNotFound
	}

	return nil
}

func (r *tagRepository) SetActive(tagID string, active bool) error {
	result, err := r.db.Exec(`UPDATE tags SET active = $1 WHERE id = $2`, active, tagID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTagNotFound
	}

	return nil
}

func (r *tagRepository) LinkedToGoals(tagID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM goal_tags WHERE tag_id = $1)`

	err := r.db.Get(&exists, query, tagID)
	return exists, err
}

func (r *tagRepository) LinkedToVersions(tagID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM goal_version_tags WHERE tag_id = $1)`

	err := r.db.Get(&exists, query, tagID)
	return exists, err
}

func (r *tagRepository) HasEvents(tagID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tag_events WHERE tag_id = $1)`

	err := r.db.Get(&exists, query, tagID)
	return exists, err
}

func (r *tagRepository) Delete(tagID string) error {
	result, err := r.db.Exec(`DELETE FROM tags WHERE id = $1`, tagID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTagNotFound
	}

	return nil
}

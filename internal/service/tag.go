package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mbharti12/goal-tracker/internal/apperror"
	"github.com/mbharti12/goal-tracker/internal/model"
	"github.com/mbharti12/goal-tracker/internal/repository"
)

type TagCreateInput struct {
	Name string `json:"name"`
}

type TagUpdateInput struct {
	Name string `json:"name"`
}

type TagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) Tags(includeInactive bool) ([]*model.Tag, error) {
	tags, err := s.tags.All(includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Create returns the existing tag when the name is already taken,
// reactivating it if it was deactivated. Logging flows keep working after a
// user "re-creates" a tag they archived earlier.
func (s *TagService) Create(input TagCreateInput) (*model.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}

	existing, err := s.tags.ByName(name)
	if err == nil {
		if !existing.Active {
			if err := s.tags.SetActive(existing.ID, true); err != nil {
				return nil, fmt.Errorf("failed to reactivate tag: %w", err)
			}
			existing.Active = true
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrTagNotFound) {
		return nil, fmt.Errorf("failed to look up tag by name: %w", err)
	}

	tag := &model.Tag{
		ID:     uuid.New().String(),
		Name:   name,
		Active: true,
	}
	if err := s.tags.Create(tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}

func (s *TagService) Rename(tagID string, input TagUpdateInput) (*model.Tag, error) {
	tag, err := s.tags.ByID(tagID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, apperror.NewNotFound("Tag not found")
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if name == tag.Name {
		return tag, nil
	}

	other, err := s.tags.ByName(name)
	if err == nil && other.ID != tagID {
		return nil, apperror.NewConflict("Tag name already in use.")
	}
	if err != nil && !errors.Is(err, repository.ErrTagNotFound) {
		return nil, fmt.Errorf("failed to look up tag by name: %w", err)
	}

	tag.Name = name
	if err := s.tags.Update(tag); err != nil {
		return nil, fmt.Errorf("failed to rename tag: %w", err)
	}

	return tag, nil
}

func (s *TagService) SetActive(tagID string, active bool) (*model.Tag, error) {
	tag, err := s.tags.ByID(tagID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, apperror.NewNotFound("Tag not found")
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}

	if err := s.tags.SetActive(tagID, active); err != nil {
		return nil, fmt.Errorf("failed to set tag active state: %w", err)
	}
	tag.Active = active

	return tag, nil
}

// Delete removes a tag only when nothing references it. Referenced tags
// must be deactivated instead so logged history keeps its labels.
func (s *TagService) Delete(tagID string) (*model.Tag, error) {
	tag, err := s.tags.ByID(tagID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, apperror.NewNotFound("Tag not found")
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}

	linked, err := s.tags.LinkedToGoals(tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to check goal links: %w", err)
	}
	if linked {
		return nil, apperror.NewConflict("Tag is still linked to goals.")
	}

	linked, err = s.tags.LinkedToVersions(tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to check version links: %w", err)
	}
	if linked {
		return nil, apperror.NewConflict("Tag is still referenced by goal versions.")
	}

	hasEvents, err := s.tags.HasEvents(tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to check tag events: %w", err)
	}
	if hasEvents {
		return nil, apperror.NewConflict("Tag is still referenced by tag events.")
	}

	if err := s.tags.Delete(tagID); err != nil {
		return nil, fmt.Errorf("failed to delete tag: %w", err)
	}

	return tag, nil
}

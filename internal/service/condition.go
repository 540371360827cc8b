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

type ConditionCreateInput struct {
	Name string `json:"name"`
}

type ConditionService struct {
	conditions repository.ConditionRepository
}

func NewConditionService(conditions repository.ConditionRepository) *ConditionService {
	return &ConditionService{conditions: conditions}
}

func (s *ConditionService) Conditions(includeInactive bool) ([]*model.Condition, error) {
	conditions, err := s.conditions.All(includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list conditions: %w", err)
	}
	return conditions, nil
}

// Create returns the existing condition when the name is already taken,
// reactivating it if it was deactivated.
func (s *ConditionService) Create(input ConditionCreateInput) (*model.Condition, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}

	existing, err := s.conditions.ByName(name)
	if err == nil {
		if !existing.Active {
			if err := s.conditions.SetActive(existing.ID, true); err != nil {
				return nil, fmt.Errorf("failed to reactivate condition: %w", err)
			}
			existing.Active = true
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrConditionNotFound) {
		return nil, fmt.Errorf("failed to look up condition by name: %w", err)
	}

	condition := &model.Condition{
		ID:     uuid.New().String(),
		Name:   name,
		Active: true,
	}
	if err := s.conditions.Create(condition); err != nil {
		return nil, fmt.Errorf("failed to create condition: %w", err)
	}

	return condition, nil
}

func (s *ConditionService) SetActive(conditionID string, active bool) (*model.Condition, error) {
	condition, err := s.conditions.ByID(conditionID)
	if err != nil {
		if errors.Is(err, repository.ErrConditionNotFound) {
			return nil, apperror.NewNotFound("Condition not found")
		}
		return nil, fmt.Errorf("failed to load condition: %w", err)
	}

	if err := s.conditions.SetActive(conditionID, active); err != nil {
		return nil, fmt.Errorf("failed to set condition active state: %w", err)
	}
	condition.Active = active

	return condition, nil
}

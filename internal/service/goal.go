package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbharti12/goal-tracker/internal/apperror"
	"github.com/mbharti12/goal-tracker/internal/model"
	"github.com/mbharti12/goal-tracker/internal/repository"
	"github.com/mbharti12/goal-tracker/internal/scoring"
)

// GoalTagInput links a tag to a goal with a progress weight. A nil weight
// defaults to 1.
type GoalTagInput struct {
	TagID  string `json:"tag_id"`
	Weight *int   `json:"weight"`
}

// GoalConditionInput links a condition to a goal. A nil required value
// defaults to true.
type GoalConditionInput struct {
	ConditionID   string `json:"condition_id"`
	RequiredValue *bool  `json:"required_value"`
}

type GoalCreateInput struct {
	Name         string               `json:"name"`
	Description  *string              `json:"description"`
	Active       *bool                `json:"active"`
	TargetWindow string               `json:"target_window"`
	TargetCount  int                  `json:"target_count"`
	ScoringMode  string               `json:"scoring_mode"`
	Tags         []GoalTagInput       `json:"tags"`
	Conditions   []GoalConditionInput `json:"conditions"`
}

// GoalUpdateInput is a partial update. Nil fields are left untouched; a
// non-nil Tags or Conditions slice replaces the whole set. EffectiveDate
// controls from which day a scoring-relevant change applies (default today).
type GoalUpdateInput struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Active        *bool                 `json:"active"`
	TargetWindow  *string               `json:"target_window"`
	TargetCount   *int                  `json:"target_count"`
	ScoringMode   *string               `json:"scoring_mode"`
	Tags          *[]GoalTagInput       `json:"tags"`
	Conditions    *[]GoalConditionInput `json:"conditions"`
	EffectiveDate *string               `json:"effective_date"`
}

type GoalTagPayload struct {
	Tag    model.Tag `json:"tag"`
	Weight int       `json:"weight"`
}

type GoalConditionPayload struct {
	Condition     model.Condition `json:"condition"`
	RequiredValue bool            `json:"required_value"`
}

// GoalPayload is a goal with its live tag and condition links resolved.
type GoalPayload struct {
	model.Goal
	Tags       []GoalTagPayload       `json:"tags"`
	Conditions []GoalConditionPayload `json:"conditions"`
}

type GoalService struct {
	goals      repository.GoalRepository
	versions   repository.GoalVersionRepository
	tags       repository.TagRepository
	conditions repository.ConditionRepository
}

func NewGoalService(
	goals repository.GoalRepository,
	versions repository.GoalVersionRepository,
	tags repository.TagRepository,
	conditions repository.ConditionRepository,
) *GoalService {
	return &GoalService{
		goals:      goals,
		versions:   versions,
		tags:       tags,
		conditions: conditions,
	}
}

func (s *GoalService) Goals() ([]*GoalPayload, error) {
	goals, err := s.goals.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	goalIDs := make([]string, 0, len(goals))
	for _, goal := range goals {
		goalIDs = append(goalIDs, goal.ID)
	}

	payloads, err := s.assemblePayloads(goals, goalIDs)
	if err != nil {
		return nil, err
	}

	return payloads, nil
}

func (s *GoalService) Goal(goalID string) (*GoalPayload, error) {
	goal, err := s.goals.ByID(goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, apperror.NewNotFound("Goal not found")
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	payloads, err := s.assemblePayloads([]*model.Goal{goal}, []string{goalID})
	if err != nil {
		return nil, err
	}

	return payloads[0], nil
}

func (s *GoalService) Create(input GoalCreateInput) (*GoalPayload, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if err := validateTargetWindow(input.TargetWindow); err != nil {
		return nil, err
	}
	if err := validateScoringMode(input.ScoringMode); err != nil {
		return nil, err
	}

	tagItems, err := s.resolveTagInputs(input.Tags)
	if err != nil {
		return nil, err
	}
	conditionItems, err := s.resolveConditionInputs(input.Conditions)
	if err != nil {
		return nil, err
	}
	if err := validateTargetCount(input.ScoringMode, input.TargetCount); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	goal := &model.Goal{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Description:  input.Description,
		Active:       active,
		TargetWindow: input.TargetWindow,
		TargetCount:  input.TargetCount,
		ScoringMode:  input.ScoringMode,
	}
	if err := s.goals.Create(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	if err := s.goals.ReplaceTags(goal.ID, goalTagRows(goal.ID, tagItems)); err != nil {
		return nil, fmt.Errorf("failed to link goal tags: %w", err)
	}
	if err := s.goals.ReplaceConditions(goal.ID, goalConditionRows(goal.ID, conditionItems)); err != nil {
		return nil, fmt.Errorf("failed to link goal conditions: %w", err)
	}

	// Every goal starts with one open-ended version effective today so the
	// scoring history has a baseline from day one.
	version := &model.GoalVersion{
		ID:           uuid.New().String(),
		GoalID:       goal.ID,
		StartDate:    todayStr(),
		EndDate:      nil,
		TargetWindow: input.TargetWindow,
		TargetCount:  input.TargetCount,
		ScoringMode:  input.ScoringMode,
	}
	err = s.versions.Create(version, versionTagRows(version.ID, tagItems), versionConditionRows(version.ID, conditionItems))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal version: %w", err)
	}

	return s.Goal(goal.ID)
}

func (s *GoalService) Update(goalID string, input GoalUpdateInput) (*GoalPayload, error) {
	goal, err := s.goals.ByID(goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, apperror.NewNotFound("Goal not found")
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	existingTagRows, err := s.goals.TagsByGoals([]string{goalID})
	if err != nil {
		return nil, fmt.Errorf("failed to load goal tags: %w", err)
	}
	existingConditionRows, err := s.goals.ConditionsByGoals([]string{goalID})
	if err != nil {
		return nil, fmt.Errorf("failed to load goal conditions: %w", err)
	}
	existingTags := tagItemsFromRows(existingTagRows[goalID])
	existingConditions := conditionItemsFromRows(existingConditionRows[goalID])

	scoringMode := goal.ScoringMode
	if input.ScoringMode != nil {
		if err := validateScoringMode(*input.ScoringMode); err != nil {
			return nil, err
		}
		scoringMode = *input.ScoringMode
	}
	targetCount := goal.TargetCount
	if input.TargetCount != nil {
		targetCount = *input.TargetCount
	}
	if err := validateTargetCount(scoringMode, targetCount); err != nil {
		return nil, err
	}
	targetWindow := goal.TargetWindow
	if input.TargetWindow != nil {
		if err := validateTargetWindow(*input.TargetWindow); err != nil {
			return nil, err
		}
		targetWindow = *input.TargetWindow
	}

	tagsChanged := false
	newTags := existingTags
	if input.Tags != nil {
		newTags, err = s.resolveTagInputs(*input.Tags)
		if err != nil {
			return nil, err
		}
		tagsChanged = !tagItemsEqual(existingTags, newTags)
	}

	conditionsChanged := false
	newConditions := existingConditions
	if input.Conditions != nil {
		newConditions, err = s.resolveConditionInputs(*input.Conditions)
		if err != nil {
			return nil, err
		}
		conditionsChanged = !conditionItemsEqual(existingConditions, newConditions)
	}

	scoringFieldsChanged := (input.TargetWindow != nil && *input.TargetWindow != goal.TargetWindow) ||
		(input.TargetCount != nil && *input.TargetCount != goal.TargetCount) ||
		(input.ScoringMode != nil && *input.ScoringMode != goal.ScoringMode)
	scoringConfigChanged := scoringFieldsChanged || tagsChanged || conditionsChanged

	if input.Name != nil {
		goal.Name = *input.Name
	}
	if input.Description != nil {
		goal.Description = input.Description
	}
	if input.Active != nil {
		goal.Active = *input.Active
	}
	goal.TargetWindow = targetWindow
	if input.TargetCount != nil {
		goal.TargetCount = *input.TargetCount
	}
	if input.ScoringMode != nil {
		goal.ScoringMode = *input.ScoringMode
	}
	if err := s.goals.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	if input.Tags != nil {
		if err := s.goals.ReplaceTags(goalID, goalTagRows(goalID, newTags)); err != nil {
			return nil, fmt.Errorf("failed to replace goal tags: %w", err)
		}
	}
	if input.Conditions != nil {
		if err := s.goals.ReplaceConditions(goalID, goalConditionRows(goalID, newConditions)); err != nil {
			return nil, fmt.Errorf("failed to replace goal conditions: %w", err)
		}
	}

	if scoringConfigChanged {
		err = s.applyVersionChange(goalID, input.EffectiveDate, targetWindow, targetCount, scoringMode, newTags, newConditions)
		if err != nil {
			return nil, err
		}
	}

	return s.Goal(goalID)
}

// applyVersionChange records a scoring configuration change in the version
// timeline. The version covering effectiveDate is updated in place when its
// start matches, split when the date falls inside its range, and a fresh
// version is created when no version covers the date.
func (s *GoalService) applyVersionChange(
	goalID string,
	effectiveDateInput *string,
	targetWindow string,
	targetCount int,
	scoringMode string,
	tagItems []tagItem,
	conditionItems []conditionItem,
) error {
	effectiveDate := todayStr()
	if effectiveDateInput != nil && *effectiveDateInput != "" {
		effectiveDate = *effectiveDateInput
	}
	effectiveDay, err := scoring.ParseDay(effectiveDate)
	if err != nil {
		return apperror.NewValidation(err.Error())
	}

	versions, err := s.versions.ByGoal(goalID)
	if err != nil {
		return fmt.Errorf("failed to load goal versions: %w", err)
	}
	covering := scoring.SelectEffectiveVersion(versions, effectiveDate)

	switch {
	case covering == nil:
		// No version covers the date: open a new one there, closing it
		// just before the next later version if any exists.
		var endDate *string
		nextStart := ""
		for _, version := range versions {
			if version.StartDate > effectiveDate && (nextStart == "" || version.StartDate < nextStart) {
				nextStart = version.StartDate
			}
		}
		if nextStart != "" {
			nextDay, err := scoring.ParseDay(nextStart)
			if err != nil {
				return fmt.Errorf("failed to parse version start date: %w", err)
			}
			end := scoring.FormatDay(nextDay.AddDate(0, 0, -1))
			endDate = &end
		}
		version := &model.GoalVersion{
			ID:           uuid.New().String(),
			GoalID:       goalID,
			StartDate:    effectiveDate,
			EndDate:      endDate,
			TargetWindow: targetWindow,
			TargetCount:  targetCount,
			ScoringMode:  scoringMode,
		}
		err = s.versions.Create(version, versionTagRows(version.ID, tagItems), versionConditionRows(version.ID, conditionItems))
		if err != nil {
			return fmt.Errorf("failed to create goal version: %w", err)
		}

	case covering.StartDate == effectiveDate:
		// Same-day edit: overwrite the covering version instead of
		// splitting it into a zero-length range.
		covering.TargetWindow = targetWindow
		covering.TargetCount = targetCount
		covering.ScoringMode = scoringMode
		if err := s.versions.UpdateFields(covering); err != nil {
			return fmt.Errorf("failed to update goal version: %w", err)
		}
		err = s.versions.ReplaceSnapshots(covering.ID, versionTagRows(covering.ID, tagItems), versionConditionRows(covering.ID, conditionItems))
		if err != nil {
			return fmt.Errorf("failed to replace version snapshots: %w", err)
		}

	default:
		// Split: close the covering version the day before and open a new
		// one at the effective date.
		end := scoring.FormatDay(effectiveDay.AddDate(0, 0, -1))
		if err := s.versions.SetEndDate(covering.ID, &end); err != nil {
			return fmt.Errorf("failed to close goal version: %w", err)
		}
		version := &model.GoalVersion{
			ID:           uuid.New().String(),
			GoalID:       goalID,
			StartDate:    effectiveDate,
			EndDate:      nil,
			TargetWindow: targetWindow,
			TargetCount:  targetCount,
			ScoringMode:  scoringMode,
		}
		err = s.versions.Create(version, versionTagRows(version.ID, tagItems), versionConditionRows(version.ID, conditionItems))
		if err != nil {
			return fmt.Errorf("failed to create goal version: %w", err)
		}
	}

	return nil
}

// Delete soft-deletes a goal. History stays intact; the goal just stops
// being scored.
func (s *GoalService) Delete(goalID string) (*GoalPayload, error) {
	goal, err := s.goals.ByID(goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, apperror.NewNotFound("Goal not found")
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	goal.Active = false
	if err := s.goals.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to deactivate goal: %w", err)
	}

	return s.Goal(goalID)
}

// legacyVersionStart predates any real data, so a backfilled version
// covers the goal's whole history.
const legacyVersionStart = "0001-01-01"

// BackfillVersions creates one open version per goal that has none,
// snapshotting the goal's live configuration. Goals created before
// versioning existed get a usable history this way. Safe to re-run.
func (s *GoalService) BackfillVersions() (int, error) {
	goals, err := s.goals.All()
	if err != nil {
		return 0, fmt.Errorf("failed to list goals: %w", err)
	}

	created := 0
	for _, goal := range goals {
		versions, err := s.versions.ByGoal(goal.ID)
		if err != nil {
			return created, fmt.Errorf("failed to load versions for goal %s: %w", goal.ID, err)
		}
		if len(versions) > 0 {
			continue
		}

		tagRows, err := s.goals.TagsByGoals([]string{goal.ID})
		if err != nil {
			return created, fmt.Errorf("failed to load goal tags: %w", err)
		}
		conditionRows, err := s.goals.ConditionsByGoals([]string{goal.ID})
		if err != nil {
			return created, fmt.Errorf("failed to load goal conditions: %w", err)
		}
		tagItems := tagItemsFromRows(tagRows[goal.ID])
		conditionItems := conditionItemsFromRows(conditionRows[goal.ID])

		version := &model.GoalVersion{
			ID:           uuid.New().String(),
			GoalID:       goal.ID,
			StartDate:    legacyVersionStart,
			EndDate:      nil,
			TargetWindow: goal.TargetWindow,
			TargetCount:  goal.TargetCount,
			ScoringMode:  goal.ScoringMode,
		}
		err = s.versions.Create(version, versionTagRows(version.ID, tagItems), versionConditionRows(version.ID, conditionItems))
		if err != nil {
			return created, fmt.Errorf("failed to backfill version for goal %s: %w", goal.ID, err)
		}
		created++
	}

	return created, nil
}

func (s *GoalService) assemblePayloads(goals []*model.Goal, goalIDs []string) ([]*GoalPayload, error) {
	tagRows, err := s.goals.TagsByGoals(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal tags: %w", err)
	}
	conditionRows, err := s.goals.ConditionsByGoals(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal conditions: %w", err)
	}

	tagIDSet := map[string]bool{}
	conditionIDSet := map[string]bool{}
	for _, rows := range tagRows {
		for _, row := range rows {
			tagIDSet[row.TagID] = true
		}
	}
	for _, rows := range conditionRows {
		for _, row := range rows {
			conditionIDSet[row.ConditionID] = true
		}
	}

	tagsByID, err := s.tagsByID(keys(tagIDSet))
	if err != nil {
		return nil, err
	}
	conditionsByID, err := s.conditionsByID(keys(conditionIDSet))
	if err != nil {
		return nil, err
	}

	payloads := make([]*GoalPayload, 0, len(goals))
	for _, goal := range goals {
		payload := &GoalPayload{
			Goal:       *goal,
			Tags:       []GoalTagPayload{},
			Conditions: []GoalConditionPayload{},
		}
		for _, row := range tagRows[goal.ID] {
			tag, ok := tagsByID[row.TagID]
			if !ok {
				continue
			}
			payload.Tags = append(payload.Tags, GoalTagPayload{Tag: *tag, Weight: row.Weight})
		}
		for _, row := range conditionRows[goal.ID] {
			condition, ok := conditionsByID[row.ConditionID]
			if !ok {
				continue
			}
			payload.Conditions = append(payload.Conditions, GoalConditionPayload{
				Condition:     *condition,
				RequiredValue: row.RequiredValue,
			})
		}
		payloads = append(payloads, payload)
	}

	return payloads, nil
}

func (s *GoalService) tagsByID(tagIDs []string) (map[string]*model.Tag, error) {
	tags, err := s.tags.ByIDs(tagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	byID := make(map[string]*model.Tag, len(tags))
	for _, tag := range tags {
		byID[tag.ID] = tag
	}
	return byID, nil
}

func (s *GoalService) conditionsByID(conditionIDs []string) (map[string]*model.Condition, error) {
	conditions, err := s.conditions.ByIDs(conditionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}
	byID := make(map[string]*model.Condition, len(conditions))
	for _, condition := range conditions {
		byID[condition.ID] = condition
	}
	return byID, nil
}

// tagItem and conditionItem are resolved, defaulted link inputs used for
// both live rows and version snapshots.
type tagItem struct {
	tagID  string
	weight int
}

type conditionItem struct {
	conditionID   string
	requiredValue bool
}

func (s *GoalService) resolveTagInputs(inputs []GoalTagInput) ([]tagItem, error) {
	items := make([]tagItem, 0, len(inputs))
	for _, input := range inputs {
		weight := 1
		if input.Weight != nil {
			weight = *input.Weight
		}
		if weight < 1 {
			return nil, apperror.NewValidation("tag weight must be at least 1")
		}
		if _, err := s.tags.ByID(input.TagID); err != nil {
			if errors.Is(err, repository.ErrTagNotFound) {
				return nil, apperror.NewValidation(fmt.Sprintf("Tag %s does not exist", input.TagID))
			}
			return nil, fmt.Errorf("failed to load tag: %w", err)
		}
		items = append(items, tagItem{tagID: input.TagID, weight: weight})
	}
	return items, nil
}

func (s *GoalService) resolveConditionInputs(inputs []GoalConditionInput) ([]conditionItem, error) {
	items := make([]conditionItem, 0, len(inputs))
	for _, input := range inputs {
		required := true
		if input.RequiredValue != nil {
			required = *input.RequiredValue
		}
		if _, err := s.conditions.ByID(input.ConditionID); err != nil {
			if errors.Is(err, repository.ErrConditionNotFound) {
				return nil, apperror.NewValidation(fmt.Sprintf("Condition %s does not exist", input.ConditionID))
			}
			return nil, fmt.Errorf("failed to load condition: %w", err)
		}
		items = append(items, conditionItem{conditionID: input.ConditionID, requiredValue: required})
	}
	return items, nil
}

func tagItemsFromRows(rows []model.GoalTag) []tagItem {
	items := make([]tagItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, tagItem{tagID: row.TagID, weight: row.Weight})
	}
	return items
}

func conditionItemsFromRows(rows []model.GoalCondition) []conditionItem {
	items := make([]conditionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, conditionItem{conditionID: row.ConditionID, requiredValue: row.RequiredValue})
	}
	return items
}

// tagItemsEqual compares two tag sets order-insensitively, so reordering a
// goal's tags never counts as a scoring change.
func tagItemsEqual(a, b []tagItem) bool {
	if len(a) != len(b) {
		return false
	}
	sortedA := append([]tagItem(nil), a...)
	sortedB := append([]tagItem(nil), b...)
	sortTagItems(sortedA)
	sortTagItems(sortedB)
	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			return false
		}
	}
	return true
}

func conditionItemsEqual(a, b []conditionItem) bool {
	if len(a) != len(b) {
		return false
	}
	sortedA := append([]conditionItem(nil), a...)
	sortedB := append([]conditionItem(nil), b...)
	sortConditionItems(sortedA)
	sortConditionItems(sortedB)
	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			return false
		}
	}
	return true
}

func sortTagItems(items []tagItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].tagID != items[j].tagID {
			return items[i].tagID < items[j].tagID
		}
		return items[i].weight < items[j].weight
	})
}

func sortConditionItems(items []conditionItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].conditionID != items[j].conditionID {
			return items[i].conditionID < items[j].conditionID
		}
		return !items[i].requiredValue && items[j].requiredValue
	})
}

func goalTagRows(goalID string, items []tagItem) []model.GoalTag {
	rows := make([]model.GoalTag, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.GoalTag{GoalID: goalID, TagID: item.tagID, Weight: item.weight})
	}
	return rows
}

func goalConditionRows(goalID string, items []conditionItem) []model.GoalCondition {
	rows := make([]model.GoalCondition, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.GoalCondition{GoalID: goalID, ConditionID: item.conditionID, RequiredValue: item.requiredValue})
	}
	return rows
}

func versionTagRows(versionID string, items []tagItem) []model.GoalVersionTag {
	rows := make([]model.GoalVersionTag, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.GoalVersionTag{GoalVersionID: versionID, TagID: item.tagID, Weight: item.weight})
	}
	return rows
}

func versionConditionRows(versionID string, items []conditionItem) []model.GoalVersionCondition {
	rows := make([]model.GoalVersionCondition, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.GoalVersionCondition{GoalVersionID: versionID, ConditionID: item.conditionID, RequiredValue: item.requiredValue})
	}
	return rows
}

func validateTargetWindow(window string) error {
	switch window {
	case model.TargetWindowDay, model.TargetWindowWeek, model.TargetWindowMonth:
		return nil
	}
	return apperror.NewValidation(fmt.Sprintf("invalid target_window %q", window))
}

func validateScoringMode(mode string) error {
	switch mode {
	case model.ScoringModeCount, model.ScoringModeBinary, model.ScoringModeRating:
		return nil
	}
	return apperror.NewValidation(fmt.Sprintf("invalid scoring_mode %q", mode))
}

func validateTargetCount(scoringMode string, targetCount int) error {
	if scoringMode == model.ScoringModeRating && (targetCount < 1 || targetCount > 100) {
		return apperror.NewValidation("rating goals require target_count between 1 and 100")
	}
	return nil
}

func todayStr() string {
	return scoring.FormatDay(time.Now())
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

package service

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbharti12/goal-tracker/internal/apperror"
	"github.com/mbharti12/goal-tracker/internal/model"
	"github.com/mbharti12/goal-tracker/internal/repository"
	"github.com/mbharti12/goal-tracker/internal/scoring"
)

// In-memory repositories shared by the service tests. Each fake keeps the
// ordering guarantees of its SQL counterpart so list assertions stay
// deterministic.

var (
	_ repository.GoalRepository         = (*fakeGoalRepo)(nil)
	_ repository.GoalVersionRepository  = (*fakeVersionRepo)(nil)
	_ repository.TagRepository          = (*fakeTagRepo)(nil)
	_ repository.ConditionRepository    = (*fakeConditionRepo)(nil)
	_ repository.DayRepository          = (*fakeDayRepo)(nil)
	_ repository.NotificationRepository = (*fakeNotificationRepo)(nil)
	_ repository.AppStateRepository     = (*fakeAppStateRepo)(nil)
	_ scoring.Store                     = (*fakeScoringStore)(nil)
)

type fakeGoalRepo struct {
	goals      map[string]*model.Goal
	tags       map[string][]model.GoalTag
	conditions map[string][]model.GoalCondition
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{
		goals:      map[string]*model.Goal{},
		tags:       map[string][]model.GoalTag{},
		conditions: map[string][]model.GoalCondition{},
	}
}

func (f *fakeGoalRepo) Create(goal *model.Goal) error {
	stored := *goal
	f.goals[goal.ID] = &stored
	return nil
}

func (f *fakeGoalRepo) ByID(goalID string) (*model.Goal, error) {
	goal, ok := f.goals[goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	found := *goal
	return &found, nil
}

func (f *fakeGoalRepo) ByIDs(goalIDs []string) ([]*model.Goal, error) {
	var goals []*model.Goal
	seen := map[string]bool{}
	for _, goalID := range goalIDs {
		if seen[goalID] {
			continue
		}
		seen[goalID] = true
		if goal, ok := f.goals[goalID]; ok {
			found := *goal
			goals = append(goals, &found)
		}
	}
	return goals, nil
}

func (f *fakeGoalRepo) All() ([]*model.Goal, error) {
	var goals []*model.Goal
	for _, goal := range f.goals {
		found := *goal
		goals = append(goals, &found)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].Name < goals[j].Name })
	return goals, nil
}

func (f *fakeGoalRepo) Update(goal *model.Goal) error {
	if _, ok := f.goals[goal.ID]; !ok {
		return repository.ErrGoalNotFound
	}
	stored := *goal
	f.goals[goal.ID] = &stored
	return nil
}

func (f *fakeGoalRepo) TagsByGoals(goalIDs []string) (map[string][]model.GoalTag, error) {
	byGoal := map[string][]model.GoalTag{}
	for _, goalID := range goalIDs {
		if len(f.tags[goalID]) == 0 {
			continue
		}
		rows := append([]model.GoalTag(nil), f.tags[goalID]...)
		sort.Slice(rows, func(i, j int) bool { return rows[i].TagID < rows[j].TagID })
		byGoal[goalID] = rows
	}
	return byGoal, nil
}

func (f *fakeGoalRepo) ConditionsByGoals(goalIDs []string) (map[string][]model.GoalCondition, error) {
	byGoal := map[string][]model.GoalCondition{}
	for _, goalID := range goalIDs {
		if len(f.conditions[goalID]) == 0 {
			continue
		}
		rows := append([]model.GoalCondition(nil), f.conditions[goalID]...)
		sort.Slice(rows, func(i, j int) bool { return rows[i].ConditionID < rows[j].ConditionID })
		byGoal[goalID] = rows
	}
	return byGoal, nil
}

func (f *fakeGoalRepo) ReplaceTags(goalID string, tags []model.GoalTag) error {
	f.tags[goalID] = append([]model.GoalTag(nil), tags...)
	return nil
}

func (f *fakeGoalRepo) ReplaceConditions(goalID string, conditions []model.GoalCondition) error {
	f.conditions[goalID] = append([]model.GoalCondition(nil), conditions...)
	return nil
}

type fakeVersionRepo struct {
	versions   []*model.GoalVersion
	tags       map[string][]model.GoalVersionTag
	conditions map[string][]model.GoalVersionCondition
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{
		tags:       map[string][]model.GoalVersionTag{},
		conditions: map[string][]model.GoalVersionCondition{},
	}
}

func (f *fakeVersionRepo) Create(version *model.GoalVersion, tags []model.GoalVersionTag, conditions []model.GoalVersionCondition) error {
	stored := *version
	f.versions = append(f.versions, &stored)
	f.tags[version.ID] = append([]model.GoalVersionTag(nil), tags...)
	f.conditions[version.ID] = append([]model.GoalVersionCondition(nil), conditions...)
	return nil
}

func (f *fakeVersionRepo) ByGoal(goalID string) ([]model.GoalVersion, error) {
	var versions []model.GoalVersion
	for _, version := range f.versions {
		if version.GoalID == goalID {
			versions = append(versions, *version)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].StartDate < versions[j].StartDate })
	return versions, nil
}

func (f *fakeVersionRepo) UpdateFields(version *model.GoalVersion) error {
	for _, stored := range f.versions {
		if stored.ID == version.ID {
			stored.TargetWindow = version.TargetWindow
			stored.TargetCount = version.TargetCount
			stored.ScoringMode = version.ScoringMode
			return nil
		}
	}
	return repository.ErrGoalVersionNotFound
}

func (f *fakeVersionRepo) SetEndDate(versionID string, endDate *string) error {
	for _, stored := range f.versions {
		if stored.ID == versionID {
			stored.EndDate = endDate
			return nil
		}
	}
	return repository.ErrGoalVersionNotFound
}

func (f *fakeVersionRepo) ReplaceSnapshots(versionID string, tags []model.GoalVersionTag, conditions []model.GoalVersionCondition) error {
	f.tags[versionID] = append([]model.GoalVersionTag(nil), tags...)
	f.conditions[versionID] = append([]model.GoalVersionCondition(nil), conditions...)
	return nil
}

type fakeTagRepo struct {
	tags             map[string]*model.Tag
	linkedToGoals    map[string]bool
	linkedToVersions map[string]bool
	hasEvents        map[string]bool
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		tags:             map[string]*model.Tag{},
		linkedToGoals:    map[string]bool{},
		linkedToVersions: map[string]bool{},
		hasEvents:        map[string]bool{},
	}
}

func (f *fakeTagRepo) Create(tag *model.Tag) error {
	stored := *tag
	f.tags[tag.ID] = &stored
	return nil
}

func (f *fakeTagRepo) ByID(tagID string) (*model.Tag, error) {
	tag, ok := f.tags[tagID]
	if !ok {
		return nil, repository.ErrTagNotFound
	}
	found := *tag
	return &found, nil
}

func (f *fakeTagRepo) ByIDs(tagIDs []string) ([]*model.Tag, error) {
	var tags []*model.Tag
	seen := map[string]bool{}
	for _, tagID := range tagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		if tag, ok := f.tags[tagID]; ok {
			found := *tag
			tags = append(tags, &found)
		}
	}
	return tags, nil
}

func (f *fakeTagRepo) ByName(name string) (*model.Tag, error) {
	for _, tag := range f.tags {
		if tag.Name == name {
			found := *tag
			return &found, nil
		}
	}
	return nil, repository.ErrTagNotFound
}

func (f *fakeTagRepo) All(includeInactive bool) ([]*model.Tag, error) {
	var tags []*model.Tag
	for _, tag := range f.tags {
		if !includeInactive && !tag.Active {
			continue
		}
		found := *tag
		tags = append(tags, &found)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (f *fakeTagRepo) Update(tag *model.Tag) error {
	if _, ok := f.tags[tag.ID]; !ok {
		return repository.ErrTagNotFound
	}
	stored := *tag
	f.tags[tag.ID] = &stored
	return nil
}

func (f *fakeTagRepo) SetActive(tagID string, active bool) error {
	tag, ok := f.tags[tagID]
	if !ok {
		return repository.ErrTagNotFound
	}
	tag.Active = active
	return nil
}

func (f *fakeTagRepo) LinkedToGoals(tagID string) (bool, error) {
	return f.linkedToGoals[tagID], nil
}

func (f *fakeTagRepo) LinkedToVersions(tagID string) (bool, error) {
	return f.linkedToVersions[tagID], nil
}

func (f *fakeTagRepo) HasEvents(tagID string) (bool, error) {
	return f.hasEvents[tagID], nil
}

func (f *fakeTagRepo) Delete(tagID string) error {
	if _, ok := f.tags[tagID]; !ok {
		return repository.ErrTagNotFound
	}
	delete(f.tags, tagID)
	return nil
}

type fakeConditionRepo struct {
	conditions map[string]*model.Condition
}

func newFakeConditionRepo() *fakeConditionRepo {
	return &fakeConditionRepo{conditions: map[string]*model.Condition{}}
}

func (f *fakeConditionRepo) Create(condition *model.Condition) error {
	stored := *condition
	f.conditions[condition.ID] = &stored
	return nil
}

func (f *fakeConditionRepo) ByID(conditionID string) (*model.Condition, error) {
	condition, ok := f.conditions[conditionID]
	if !ok {
		return nil, repository.ErrConditionNotFound
	}
	found := *condition
	return &found, nil
}

func (f *fakeConditionRepo) ByIDs(conditionIDs []string) ([]*model.Condition, error) {
	var conditions []*model.Condition
	seen := map[string]bool{}
	for _, conditionID := range conditionIDs {
		if seen[conditionID] {
			continue
		}
		seen[conditionID] = true
		if condition, ok := f.conditions[conditionID]; ok {
			found := *condition
			conditions = append(conditions, &found)
		}
	}
	return conditions, nil
}

func (f *fakeConditionRepo) ByName(name string) (*model.Condition, error) {
	for _, condition := range f.conditions {
		if condition.Name == name {
			found := *condition
			return &found, nil
		}
	}
	return nil, repository.ErrConditionNotFound
}

func (f *fakeConditionRepo) All(includeInactive bool) ([]*model.Condition, error) {
	var conditions []*model.Condition
	for _, condition := range f.conditions {
		if !includeInactive && !condition.Active {
			continue
		}
		found := *condition
		conditions = append(conditions, &found)
	}
	sort.Slice(conditions, func(i, j int) bool { return conditions[i].Name < conditions[j].Name })
	return conditions, nil
}

func (f *fakeConditionRepo) SetActive(conditionID string, active bool) error {
	condition, ok := f.conditions[conditionID]
	if !ok {
		return repository.ErrConditionNotFound
	}
	condition.Active = active
	return nil
}

func (f *fakeConditionRepo) Update(condition *model.Condition) error {
	if _, ok := f.conditions[condition.ID]; !ok {
		return repository.ErrConditionNotFound
	}
	stored := *condition
	f.conditions[condition.ID] = &stored
	return nil
}

type fakeDayRepo struct {
	entries    map[string]*model.DayEntry
	conditions map[string]map[string]bool
	events     []*model.TagEvent
	ratings    map[string]map[string]*model.GoalRating
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{
		entries:    map[string]*model.DayEntry{},
		conditions: map[string]map[string]bool{},
		ratings:    map[string]map[string]*model.GoalRating{},
	}
}

func (f *fakeDayRepo) EntryByDate(date string) (*model.DayEntry, error) {
	entry, ok := f.entries[date]
	if !ok {
		return nil, repository.ErrDayEntryNotFound
	}
	found := *entry
	return &found, nil
}

func (f *fakeDayRepo) CreateEntry(entry *model.DayEntry) error {
	stored := *entry
	f.entries[entry.Date] = &stored
	return nil
}

func (f *fakeDayRepo) UpdateEntry(entry *model.DayEntry) error {
	if _, ok := f.entries[entry.Date]; !ok {
		return repository.ErrDayEntryNotFound
	}
	stored := *entry
	f.entries[entry.Date] = &stored
	return nil
}

func (f *fakeDayRepo) NotesByDates(dates []string) (map[string]*string, error) {
	notes := map[string]*string{}
	for _, date := range dates {
		if entry, ok := f.entries[date]; ok {
			notes[date] = entry.Note
		}
	}
	return notes, nil
}

func (f *fakeDayRepo) ConditionsByDate(date string) ([]model.DayCondition, error) {
	var rows []model.DayCondition
	for conditionID, value := range f.conditions[date] {
		rows = append(rows, model.DayCondition{Date: date, ConditionID: conditionID, Value: value})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ConditionID < rows[j].ConditionID })
	return rows, nil
}

func (f *fakeDayRepo) ConditionsRange(start, end string) ([]model.DayCondition, error) {
	var rows []model.DayCondition
	for date, values := range f.conditions {
		if date < start || date > end {
			continue
		}
		for conditionID, value := range values {
			rows = append(rows, model.DayCondition{Date: date, ConditionID: conditionID, Value: value})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].ConditionID < rows[j].ConditionID
	})
	return rows, nil
}

func (f *fakeDayRepo) TrueConditionDates(dates []string, conditionIDs []string) (map[string]map[string]struct{}, error) {
	wanted := map[string]bool{}
	for _, conditionID := range conditionIDs {
		wanted[conditionID] = true
	}
	byDate := map[string]map[string]struct{}{}
	for _, date := range dates {
		for conditionID, value := range f.conditions[date] {
			if !value || !wanted[conditionID] {
				continue
			}
			if byDate[date] == nil {
				byDate[date] = map[string]struct{}{}
			}
			byDate[date][conditionID] = struct{}{}
		}
	}
	return byDate, nil
}

func (f *fakeDayRepo) UpsertCondition(value *model.DayCondition) error {
	if f.conditions[value.Date] == nil {
		f.conditions[value.Date] = map[string]bool{}
	}
	f.conditions[value.Date][value.ConditionID] = value.Value
	return nil
}

func (f *fakeDayRepo) EventsByDate(date string) ([]model.TagEvent, error) {
	var events []model.TagEvent
	for _, event := range f.events {
		if event.Date == date {
			events = append(events, *event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		switch {
		case a.TS == nil && b.TS != nil:
			return true
		case a.TS != nil && b.TS == nil:
			return false
		case a.TS != nil && b.TS != nil && !a.TS.Equal(*b.TS):
			return a.TS.Before(*b.TS)
		}
		return a.ID < b.ID
	})
	return events, nil
}

func (f *fakeDayRepo) EventsRange(start, end string) ([]model.TagEvent, error) {
	var events []model.TagEvent
	for _, event := range f.events {
		if event.Date >= start && event.Date <= end {
			events = append(events, *event)
		}
	}
	return events, nil
}

func (f *fakeDayRepo) CreateEvent(event *model.TagEvent) error {
	stored := *event
	f.events = append(f.events, &stored)
	return nil
}

func (f *fakeDayRepo) EventByID(eventID string) (*model.TagEvent, error) {
	for _, event := range f.events {
		if event.ID == eventID {
			found := *event
			return &found, nil
		}
	}
	return nil, repository.ErrTagEventNotFound
}

func (f *fakeDayRepo) DeleteEvent(eventID string) error {
	for i, event := range f.events {
		if event.ID == eventID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return repository.ErrTagEventNotFound
}

func (f *fakeDayRepo) RatingsByDate(date string) ([]model.GoalRating, error) {
	var ratings []model.GoalRating
	for _, rating := range f.ratings[date] {
		ratings = append(ratings, *rating)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].GoalID < ratings[j].GoalID })
	return ratings, nil
}

func (f *fakeDayRepo) RatingByDateAndGoal(date, goalID string) (*model.GoalRating, error) {
	rating, ok := f.ratings[date][goalID]
	if !ok {
		return nil, nil
	}
	found := *rating
	return &found, nil
}

func (f *fakeDayRepo) UpsertRating(rating *model.GoalRating) error {
	if f.ratings[rating.Date] == nil {
		f.ratings[rating.Date] = map[string]*model.GoalRating{}
	}
	stored := *rating
	f.ratings[rating.Date][rating.GoalID] = &stored
	return nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(notification *model.Notification) error {
	stored := *notification
	f.notifications = append(f.notifications, &stored)
	return nil
}

func (f *fakeNotificationRepo) ByID(notificationID string) (*model.Notification, error) {
	for _, notification := range f.notifications {
		if notification.ID == notificationID {
			found := *notification
			return &found, nil
		}
	}
	return nil, repository.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) ByDedupeKey(dedupeKey string) (*model.Notification, error) {
	for _, notification := range f.notifications {
		if notification.DedupeKey != nil && *notification.DedupeKey == dedupeKey {
			found := *notification
			return &found, nil
		}
	}
	return nil, repository.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) List(unreadOnly bool) ([]*model.Notification, error) {
	var notifications []*model.Notification
	for _, notification := range f.notifications {
		if unreadOnly && notification.ReadAt != nil {
			continue
		}
		found := *notification
		notifications = append(notifications, &found)
	}
	sort.Slice(notifications, func(i, j int) bool {
		a, b := notifications[i], notifications[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return notifications, nil
}

func (f *fakeNotificationRepo) MarkRead(notificationID string, at time.Time) error {
	for _, notification := range f.notifications {
		if notification.ID == notificationID && notification.ReadAt == nil {
			readAt := at
			notification.ReadAt = &readAt
		}
	}
	return nil
}

func (f *fakeNotificationRepo) ExistsByDedupeKey(dedupeKey string) (bool, error) {
	for _, notification := range f.notifications {
		if notification.DedupeKey != nil && *notification.DedupeKey == dedupeKey {
			return true, nil
		}
	}
	return false, nil
}

type fakeAppStateRepo struct {
	states map[string]*model.AppState
}

func newFakeAppStateRepo() *fakeAppStateRepo {
	return &fakeAppStateRepo{states: map[string]*model.AppState{}}
}

func (f *fakeAppStateRepo) Get(key string) (*model.AppState, error) {
	state, ok := f.states[key]
	if !ok {
		return nil, repository.ErrAppStateNotFound
	}
	found := *state
	return &found, nil
}

func (f *fakeAppStateRepo) Set(key, value string, at time.Time) error {
	f.states[key] = &model.AppState{Key: key, Value: value, UpdatedAt: at}
	return nil
}

// fakeScoringStore reads the same fake tables the repositories write, so a
// service that mutates data and then rescores sees its own writes.
type fakeScoringStore struct {
	goals    *fakeGoalRepo
	versions *fakeVersionRepo
	days     *fakeDayRepo
}

func (f *fakeScoringStore) ActiveGoals() ([]model.Goal, error) {
	var goals []model.Goal
	for _, goal := range f.goals.goals {
		if goal.Active {
			goals = append(goals, *goal)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].Name < goals[j].Name })
	return goals, nil
}

func (f *fakeScoringStore) GoalsByIDs(goalIDs []string) ([]model.Goal, error) {
	var goals []model.Goal
	seen := map[string]bool{}
	for _, goalID := range goalIDs {
		if seen[goalID] {
			continue
		}
		seen[goalID] = true
		if goal, ok := f.goals.goals[goalID]; ok {
			goals = append(goals, *goal)
		}
	}
	return goals, nil
}

func (f *fakeScoringStore) GoalTags(goalIDs []string) (map[string]map[string]int, error) {
	weights := map[string]map[string]int{}
	for _, goalID := range goalIDs {
		for _, row := range f.goals.tags[goalID] {
			if weights[goalID] == nil {
				weights[goalID] = map[string]int{}
			}
			weights[goalID][row.TagID] = row.Weight
		}
	}
	return weights, nil
}

func (f *fakeScoringStore) GoalConditions(goalIDs []string) (map[string][]scoring.ConditionRequirement, error) {
	requirements := map[string][]scoring.ConditionRequirement{}
	for _, goalID := range goalIDs {
		for _, row := range f.goals.conditions[goalID] {
			requirements[goalID] = append(requirements[goalID], scoring.ConditionRequirement{
				ConditionID:   row.ConditionID,
				RequiredValue: row.RequiredValue,
			})
		}
	}
	return requirements, nil
}

func (f *fakeScoringStore) GoalVersions(goalIDs []string) (map[string][]model.GoalVersion, error) {
	byGoal := map[string][]model.GoalVersion{}
	for _, goalID := range goalIDs {
		versions, err := f.versions.ByGoal(goalID)
		if err != nil {
			return nil, err
		}
		if len(versions) > 0 {
			byGoal[goalID] = versions
		}
	}
	return byGoal, nil
}

func (f *fakeScoringStore) VersionTags(versionIDs []string) (map[string]map[string]int, error) {
	weights := map[string]map[string]int{}
	for _, versionID := range versionIDs {
		for _, row := range f.versions.tags[versionID] {
			if weights[versionID] == nil {
				weights[versionID] = map[string]int{}
			}
			weights[versionID][row.TagID] = row.Weight
		}
	}
	return weights, nil
}

func (f *fakeScoringStore) VersionConditions(versionIDs []string) (map[string][]scoring.ConditionRequirement, error) {
	requirements := map[string][]scoring.ConditionRequirement{}
	for _, versionID := range versionIDs {
		for _, row := range f.versions.conditions[versionID] {
			requirements[versionID] = append(requirements[versionID], scoring.ConditionRequirement{
				ConditionID:   row.ConditionID,
				RequiredValue: row.RequiredValue,
			})
		}
	}
	return requirements, nil
}

func (f *fakeScoringStore) DayConditions(date string) (map[string]bool, error) {
	values := map[string]bool{}
	for conditionID, value := range f.days.conditions[date] {
		values[conditionID] = value
	}
	return values, nil
}

func (f *fakeScoringStore) DayConditionsRange(start, end string) (map[string]map[string]bool, error) {
	values := map[string]map[string]bool{}
	for date, byCondition := range f.days.conditions {
		if date < start || date > end {
			continue
		}
		for conditionID, value := range byCondition {
			if values[date] == nil {
				values[date] = map[string]bool{}
			}
			values[date][conditionID] = value
		}
	}
	return values, nil
}

func (f *fakeScoringStore) TagEventSums(tagIDs []string, start, end string) (map[string]map[string]int, error) {
	wanted := map[string]bool{}
	for _, tagID := range tagIDs {
		wanted[tagID] = true
	}
	sums := map[string]map[string]int{}
	for _, event := range f.days.events {
		if !wanted[event.TagID] || event.Date < start || event.Date > end {
			continue
		}
		if sums[event.TagID] == nil {
			sums[event.TagID] = map[string]int{}
		}
		sums[event.TagID][event.Date] += event.Count
	}
	return sums, nil
}

func (f *fakeScoringStore) Ratings(goalIDs []string, start, end string) (map[string][]model.GoalRating, error) {
	wanted := map[string]bool{}
	for _, goalID := range goalIDs {
		wanted[goalID] = true
	}
	byGoal := map[string][]model.GoalRating{}
	for date, byGoalID := range f.days.ratings {
		if date < start || date > end {
			continue
		}
		for goalID, rating := range byGoalID {
			if wanted[goalID] {
				byGoal[goalID] = append(byGoal[goalID], *rating)
			}
		}
	}
	for _, ratings := range byGoal {
		sort.Slice(ratings, func(i, j int) bool { return ratings[i].Date < ratings[j].Date })
	}
	return byGoal, nil
}

// fixture bundles the fakes wired the same way app.New wires the SQL
// repositories.
type fixture struct {
	goals         *fakeGoalRepo
	versions      *fakeVersionRepo
	tags          *fakeTagRepo
	conditions    *fakeConditionRepo
	days          *fakeDayRepo
	notifications *fakeNotificationRepo
	appState      *fakeAppStateRepo
	store         *fakeScoringStore
	engine        *scoring.Engine
}

func newFixture() *fixture {
	goals := newFakeGoalRepo()
	versions := newFakeVersionRepo()
	days := newFakeDayRepo()
	store := &fakeScoringStore{goals: goals, versions: versions, days: days}
	return &fixture{
		goals:         goals,
		versions:      versions,
		tags:          newFakeTagRepo(),
		conditions:    newFakeConditionRepo(),
		days:          days,
		notifications: newFakeNotificationRepo(),
		appState:      newFakeAppStateRepo(),
		store:         store,
		engine:        scoring.NewEngine(store),
	}
}

func (f *fixture) goalService() *GoalService {
	return NewGoalService(f.goals, f.versions, f.tags, f.conditions)
}

func (f *fixture) tagService() *TagService {
	return NewTagService(f.tags)
}

func (f *fixture) conditionService() *ConditionService {
	return NewConditionService(f.conditions)
}

func (f *fixture) dayService() *DayService {
	return NewDayService(f.days, f.goals, f.tags, f.conditions, f.tagService(), f.engine, f.store)
}

func (f *fixture) trendService() *TrendService {
	return NewTrendService(f.goals, f.engine)
}

func (f *fixture) seedTag(id, name string) {
	f.tags.tags[id] = &model.Tag{ID: id, Name: name, Active: true}
}

func (f *fixture) seedCondition(id, name string) {
	f.conditions.conditions[id] = &model.Condition{ID: id, Name: name, Active: true}
}

// seedCountGoal registers an active count goal with one weight-1 tag and no
// versions, so scoring falls back to the live configuration.
func (f *fixture) seedCountGoal(id, name, window string, target int, tagID string) {
	f.goals.goals[id] = &model.Goal{
		ID:           id,
		Name:         name,
		Active:       true,
		TargetWindow: window,
		TargetCount:  target,
		ScoringMode:  model.ScoringModeCount,
	}
	f.goals.tags[id] = []model.GoalTag{{GoalID: id, TagID: tagID, Weight: 1}}
}

func (f *fixture) seedRatingGoal(id, name, window string, target int) {
	f.goals.goals[id] = &model.Goal{
		ID:           id,
		Name:         name,
		Active:       true,
		TargetWindow: window,
		TargetCount:  target,
		ScoringMode:  model.ScoringModeRating,
	}
}

func (f *fixture) addEvent(id, date, tagID string, count int) {
	f.days.events = append(f.days.events, &model.TagEvent{ID: id, Date: date, TagID: tagID, Count: count})
}

func (f *fixture) addRating(date, goalID string, rating int) {
	if f.days.ratings[date] == nil {
		f.days.ratings[date] = map[string]*model.GoalRating{}
	}
	f.days.ratings[date][goalID] = &model.GoalRating{Date: date, GoalID: goalID, Rating: rating}
}

func (f *fixture) setCondition(date, conditionID string, value bool) {
	if f.days.conditions[date] == nil {
		f.days.conditions[date] = map[string]bool{}
	}
	f.days.conditions[date][conditionID] = value
}

func intPtr(value int) *int {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

// requireAppError asserts err carries the given HTTP status and client
// message.
func requireAppError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
	require.Equal(t, message, appErr.Message)
}

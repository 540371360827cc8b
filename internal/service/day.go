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

type DayNoteInput struct {
	Note string `json:"note"`
}

type DayConditionValueInput struct {
	ConditionID string `json:"condition_id"`
	Value       bool   `json:"value"`
}

type DayConditionsInput struct {
	Conditions []DayConditionValueInput `json:"conditions"`
}

type DayRatingInput struct {
	GoalID string  `json:"goal_id"`
	Rating int     `json:"rating"`
	Note   *string `json:"note"`
}

type DayRatingsInput struct {
	Ratings []DayRatingInput `json:"ratings"`
}

// TagEventInput logs one tag occurrence. Either TagID or TagName must be
// set; an unknown TagName creates the tag on the fly.
type TagEventInput struct {
	TagID   *string    `json:"tag_id"`
	TagName *string    `json:"tag_name"`
	Count   *int       `json:"count"`
	TS      *time.Time `json:"ts"`
	Note    *string    `json:"note"`
}

type DayConditionPayload struct {
	ConditionID string `json:"condition_id"`
	Name        string `json:"name"`
	Value       bool   `json:"value"`
}

type TagEventPayload struct {
	ID      string     `json:"id"`
	Date    string     `json:"date"`
	TagID   string     `json:"tag_id"`
	TagName string     `json:"tag_name"`
	TS      *time.Time `json:"ts"`
	Count   int        `json:"count"`
	Note    *string    `json:"note"`
}

type DayRatingPayload struct {
	GoalID string  `json:"goal_id"`
	Rating int     `json:"rating"`
	Note   *string `json:"note"`
}

// DayPayload is everything recorded and computed for one date.
type DayPayload struct {
	DayEntry    *model.DayEntry       `json:"day_entry"`
	Conditions  []DayConditionPayload `json:"conditions"`
	TagEvents   []TagEventPayload     `json:"tag_events"`
	GoalRatings []DayRatingPayload    `json:"goal_ratings"`
	Goals       []scoring.GoalStatus  `json:"goals"`
}

type CalendarTagPayload struct {
	TagID string `json:"tag_id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CalendarDayPayload struct {
	Date            string                `json:"date"`
	ApplicableGoals int                   `json:"applicable_goals"`
	MetGoals        int                   `json:"met_goals"`
	CompletionRatio float64               `json:"completion_ratio"`
	Conditions      []DayConditionPayload `json:"conditions"`
	Tags            []CalendarTagPayload  `json:"tags"`
}

// CalendarPeriodPayload summarizes one full week or month containing days
// of the requested range.
type CalendarPeriodPayload struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	ApplicableGoals int     `json:"applicable_goals"`
	MetGoals        int     `json:"met_goals"`
	CompletionRatio float64 `json:"completion_ratio"`
}

type CalendarSummaryPayload struct {
	Days   []CalendarDayPayload    `json:"days"`
	Weeks  []CalendarPeriodPayload `json:"weeks"`
	Months []CalendarPeriodPayload `json:"months"`
}

type TagImpactGoalPayload struct {
	GoalID       string `json:"goal_id"`
	GoalName     string `json:"goal_name"`
	TargetWindow string `json:"target_window"`
	ScoringMode  string `json:"scoring_mode"`
	Weight       int    `json:"weight"`
}

type TagImpactPayload struct {
	TagID   string                 `json:"tag_id"`
	TagName string                 `json:"tag_name"`
	Goals   []TagImpactGoalPayload `json:"goals"`
}

type DayService struct {
	days       repository.DayRepository
	goals      repository.GoalRepository
	tags       repository.TagRepository
	conditions repository.ConditionRepository
	tagService *TagService
	engine     *scoring.Engine
	store      scoring.Store
}

func NewDayService(
	days repository.DayRepository,
	goals repository.GoalRepository,
	tags repository.TagRepository,
	conditions repository.ConditionRepository,
	tagService *TagService,
	engine *scoring.Engine,
	store scoring.Store,
) *DayService {
	return &DayService{
		days:       days,
		goals:      goals,
		tags:       tags,
		conditions: conditions,
		tagService: tagService,
		engine:     engine,
		store:      store,
	}
}

func (s *DayService) Day(date string) (*DayPayload, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	entry, err := s.days.EntryByDate(date)
	if err != nil && !errors.Is(err, repository.ErrDayEntryNotFound) {
		return nil, fmt.Errorf("failed to load day entry: %w", err)
	}

	conditions, err := s.loadDayConditions(date)
	if err != nil {
		return nil, err
	}
	events, err := s.loadTagEvents(date)
	if err != nil {
		return nil, err
	}
	ratings, err := s.loadRatings(date)
	if err != nil {
		return nil, err
	}
	statuses, err := s.engine.StatusesForDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to compute goal statuses: %w", err)
	}

	return &DayPayload{
		DayEntry:    entry,
		Conditions:  conditions,
		TagEvents:   events,
		GoalRatings: ratings,
		Goals:       statuses,
	}, nil
}

// UpsertNote writes the free-text note for a date, creating the day entry
// on first write. The updated timestamp only moves when the note actually
// changes.
func (s *DayService) UpsertNote(date string, input DayNoteInput) (*model.DayEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry, err := s.days.EntryByDate(date)
	if errors.Is(err, repository.ErrDayEntryNotFound) {
		entry = &model.DayEntry{
			Date:      date,
			Note:      &input.Note,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.days.CreateEntry(entry); err != nil {
			return nil, fmt.Errorf("failed to create day entry: %w", err)
		}
		return entry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load day entry: %w", err)
	}

	if entry.Note == nil || *entry.Note != input.Note {
		entry.Note = &input.Note
		entry.UpdatedAt = now
		if err := s.days.UpdateEntry(entry); err != nil {
			return nil, fmt.Errorf("failed to update day entry: %w", err)
		}
	}

	return entry, nil
}

func (s *DayService) UpsertConditions(date string, input DayConditionsInput) ([]DayConditionPayload, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if len(input.Conditions) == 0 {
		return s.loadDayConditions(date)
	}

	conditionIDs := make([]string, 0, len(input.Conditions))
	for _, item := range input.Conditions {
		conditionIDs = append(conditionIDs, item.ConditionID)
	}
	if err := s.requireConditions(conditionIDs); err != nil {
		return nil, err
	}

	_, err := s.days.EntryByDate(date)
	if errors.Is(err, repository.ErrDayEntryNotFound) {
		now := time.Now().UTC()
		entry := &model.DayEntry{Date: date, CreatedAt: now, UpdatedAt: now}
		if err := s.days.CreateEntry(entry); err != nil {
			return nil, fmt.Errorf("failed to create day entry: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load day entry: %w", err)
	}

	for _, item := range input.Conditions {
		value := &model.DayCondition{Date: date, ConditionID: item.ConditionID, Value: item.Value}
		if err := s.days.UpsertCondition(value); err != nil {
			return nil, fmt.Errorf("failed to upsert day condition: %w", err)
		}
	}

	return s.loadDayConditions(date)
}

func (s *DayService) UpsertRatings(date string, input DayRatingsInput) ([]DayRatingPayload, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if len(input.Ratings) == 0 {
		return s.loadRatings(date)
	}

	goalIDs := make([]string, 0, len(input.Ratings))
	for _, item := range input.Ratings {
		if item.Rating < 1 || item.Rating > 100 {
			return nil, apperror.NewValidation("rating must be between 1 and 100")
		}
		goalIDs = append(goalIDs, item.GoalID)
	}
	if err := s.requireGoals(goalIDs); err != nil {
		return nil, err
	}

	for _, item := range input.Ratings {
		rating := &model.GoalRating{Date: date, GoalID: item.GoalID, Rating: item.Rating, Note: item.Note}
		if err := s.days.UpsertRating(rating); err != nil {
			return nil, fmt.Errorf("failed to upsert goal rating: %w", err)
		}
	}

	return s.loadRatings(date)
}

func (s *DayService) CreateTagEvent(date string, input TagEventInput) (*TagEventPayload, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	var tag *model.Tag
	if input.TagID != nil {
		found, err := s.tags.ByID(*input.TagID)
		if err != nil {
			if errors.Is(err, repository.ErrTagNotFound) {
				return nil, apperror.NewValidation("Tag not found")
			}
			return nil, fmt.Errorf("failed to load tag: %w", err)
		}
		tag = found
	} else {
		name := ""
		if input.TagName != nil {
			name = strings.TrimSpace(*input.TagName)
		}
		if name == "" {
			return nil, apperror.NewValidation("tag_name is required")
		}
		created, err := s.tagService.Create(TagCreateInput{Name: name})
		if err != nil {
			return nil, err
		}
		tag = created
	}

	count := 1
	if input.Count != nil {
		count = *input.Count
	}
	if count < 1 {
		return nil, apperror.NewValidation("count must be at least 1")
	}

	event := &model.TagEvent{
		ID:    uuid.New().String(),
		Date:  date,
		TagID: tag.ID,
		TS:    input.TS,
		Count: count,
		Note:  input.Note,
	}
	if err := s.days.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to create tag event: %w", err)
	}

	return &TagEventPayload{
		ID:      event.ID,
		Date:    event.Date,
		TagID:   event.TagID,
		TagName: tag.Name,
		TS:      event.TS,
		Count:   event.Count,
		Note:    event.Note,
	}, nil
}

func (s *DayService) DeleteTagEvent(eventID string) error {
	if _, err := s.days.EventByID(eventID); err != nil {
		if errors.Is(err, repository.ErrTagEventNotFound) {
			return apperror.NewNotFound("Tag event not found")
		}
		return fmt.Errorf("failed to load tag event: %w", err)
	}

	if err := s.days.DeleteEvent(eventID); err != nil {
		return fmt.Errorf("failed to delete tag event: %w", err)
	}

	return nil
}

// TagImpacts lists, per tag, which count-scored goals the tag feeds on the
// given date and at what weight, using each goal's configuration effective
// that day. Rating goals are skipped since tag events never move them.
func (s *DayService) TagImpacts(date string) ([]TagImpactPayload, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	goals, err := s.store.ActiveGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	if len(goals) == 0 {
		return []TagImpactPayload{}, nil
	}

	goalIDs := make([]string, 0, len(goals))
	for _, goal := range goals {
		goalIDs = append(goalIDs, goal.ID)
	}

	versionsByGoal, err := s.store.GoalVersions(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal versions: %w", err)
	}
	var versionIDs []string
	for _, versions := range versionsByGoal {
		for _, version := range versions {
			versionIDs = append(versionIDs, version.ID)
		}
	}
	versionTags, err := s.store.VersionTags(versionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load version tags: %w", err)
	}
	liveTags, err := s.store.GoalTags(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal tags: %w", err)
	}

	impactsByTag := map[string][]TagImpactGoalPayload{}
	for _, goal := range goals {
		versions := versionsByGoal[goal.ID]
		effective := scoring.EffectiveOrFallback(versions, date)

		var scoringMode, targetWindow string
		var weights map[string]int
		if effective != nil {
			scoringMode = effective.ScoringMode
			targetWindow = effective.TargetWindow
			weights = versionTags[effective.ID]
		} else {
			scoringMode = goal.ScoringMode
			targetWindow = goal.TargetWindow
			weights = liveTags[goal.ID]
		}

		if scoringMode == model.ScoringModeRating {
			continue
		}

		for tagID, weight := range weights {
			impactsByTag[tagID] = append(impactsByTag[tagID], TagImpactGoalPayload{
				GoalID:       goal.ID,
				GoalName:     goal.Name,
				TargetWindow: targetWindow,
				ScoringMode:  scoringMode,
				Weight:       weight,
			})
		}
	}

	if len(impactsByTag) == 0 {
		return []TagImpactPayload{}, nil
	}

	tagIDs := make([]string, 0, len(impactsByTag))
	for tagID := range impactsByTag {
		tagIDs = append(tagIDs, tagID)
	}
	sort.Strings(tagIDs)
	tagNames, err := s.tagNames(tagIDs)
	if err != nil {
		return nil, err
	}

	payloads := make([]TagImpactPayload, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		name, ok := tagNames[tagID]
		if !ok {
			name = "Unknown tag"
		}
		payloads = append(payloads, TagImpactPayload{
			TagID:   tagID,
			TagName: name,
			Goals:   impactsByTag[tagID],
		})
	}
	sort.Slice(payloads, func(i, j int) bool {
		return strings.ToLower(payloads[i].TagName) < strings.ToLower(payloads[j].TagName)
	})

	return payloads, nil
}

func (s *DayService) Calendar(start, end string) ([]CalendarDayPayload, error) {
	dates, err := rangeDates(start, end)
	if err != nil {
		return nil, err
	}

	conditionsByDate, tagsByDate, err := s.calendarExtras(start, end)
	if err != nil {
		return nil, err
	}

	calendar := make([]CalendarDayPayload, 0, len(dates))
	for _, date := range dates {
		summary, err := s.engine.DaySummary(date)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize day: %w", err)
		}
		calendar = append(calendar, calendarDay(date, summary.Summary, conditionsByDate, tagsByDate))
	}

	return calendar, nil
}

// CalendarSummary returns per-day summaries restricted to day-window goals
// plus one summary per week and month touched by the range, each evaluated
// at the period's own end date.
func (s *DayService) CalendarSummary(start, end string) (*CalendarSummaryPayload, error) {
	dates, err := rangeDates(start, end)
	if err != nil {
		return nil, err
	}

	conditionsByDate, tagsByDate, err := s.calendarExtras(start, end)
	if err != nil {
		return nil, err
	}

	weekBounds := map[string]string{}
	monthBounds := map[string]string{}
	days := make([]CalendarDayPayload, 0, len(dates))
	for _, date := range dates {
		summary, err := s.engine.DaySummaryForWindow(date, model.TargetWindowDay)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize day: %w", err)
		}
		days = append(days, calendarDay(date, summary.Summary, conditionsByDate, tagsByDate))

		day, err := scoring.ParseDay(date)
		if err != nil {
			return nil, err
		}
		weekStart, weekEnd := scoring.WeekBounds(day)
		weekBounds[scoring.FormatDay(weekStart)] = scoring.FormatDay(weekEnd)
		monthStart, monthEnd := scoring.MonthBounds(day)
		monthBounds[scoring.FormatDay(monthStart)] = scoring.FormatDay(monthEnd)
	}

	weeks, err := s.periodSummaries(weekBounds, model.TargetWindowWeek)
	if err != nil {
		return nil, err
	}
	months, err := s.periodSummaries(monthBounds, model.TargetWindowMonth)
	if err != nil {
		return nil, err
	}

	return &CalendarSummaryPayload{Days: days, Weeks: weeks, Months: months}, nil
}

func (s *DayService) periodSummaries(bounds map[string]string, targetWindow string) ([]CalendarPeriodPayload, error) {
	starts := make([]string, 0, len(bounds))
	for start := range bounds {
		starts = append(starts, start)
	}
	sort.Strings(starts)

	periods := make([]CalendarPeriodPayload, 0, len(starts))
	for _, start := range starts {
		end := bounds[start]
		summary, err := s.engine.WindowSummary(end, targetWindow)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize window: %w", err)
		}
		periods = append(periods, CalendarPeriodPayload{
			Start:           start,
			End:             end,
			ApplicableGoals: summary.ApplicableGoals,
			MetGoals:        summary.MetGoals,
			CompletionRatio: summary.CompletionRatio,
		})
	}

	return periods, nil
}

// calendarExtras loads, for a date range, the true-valued conditions and
// the per-tag event totals keyed by date.
func (s *DayService) calendarExtras(start, end string) (map[string][]DayConditionPayload, map[string][]CalendarTagPayload, error) {
	conditionRows, err := s.days.ConditionsRange(start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load day conditions: %w", err)
	}

	conditionIDSet := map[string]bool{}
	for _, row := range conditionRows {
		if row.Value {
			conditionIDSet[row.ConditionID] = true
		}
	}
	conditionNames, err := s.conditionNames(keys(conditionIDSet))
	if err != nil {
		return nil, nil, err
	}

	conditionsByDate := map[string][]DayConditionPayload{}
	for _, row := range conditionRows {
		if !row.Value {
			continue
		}
		conditionsByDate[row.Date] = append(conditionsByDate[row.Date], DayConditionPayload{
			ConditionID: row.ConditionID,
			Name:        conditionNames[row.ConditionID],
			Value:       true,
		})
	}

	events, err := s.days.EventsRange(start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tag events: %w", err)
	}

	counts := map[string]map[string]int{}
	tagIDSet := map[string]bool{}
	for _, event := range events {
		if counts[event.Date] == nil {
			counts[event.Date] = map[string]int{}
		}
		counts[event.Date][event.TagID] += event.Count
		tagIDSet[event.TagID] = true
	}
	tagNames, err := s.tagNames(keys(tagIDSet))
	if err != nil {
		return nil, nil, err
	}

	tagsByDate := map[string][]CalendarTagPayload{}
	for date, byTag := range counts {
		tagIDs := make([]string, 0, len(byTag))
		for tagID := range byTag {
			tagIDs = append(tagIDs, tagID)
		}
		sort.Strings(tagIDs)
		for _, tagID := range tagIDs {
			tagsByDate[date] = append(tagsByDate[date], CalendarTagPayload{
				TagID: tagID,
				Name:  tagNames[tagID],
				Count: byTag[tagID],
			})
		}
	}

	return conditionsByDate, tagsByDate, nil
}

func calendarDay(
	date string,
	summary scoring.Summary,
	conditionsByDate map[string][]DayConditionPayload,
	tagsByDate map[string][]CalendarTagPayload,
) CalendarDayPayload {
	conditions := conditionsByDate[date]
	if conditions == nil {
		conditions = []DayConditionPayload{}
	}
	tags := tagsByDate[date]
	if tags == nil {
		tags = []CalendarTagPayload{}
	}
	return CalendarDayPayload{
		Date:            date,
		ApplicableGoals: summary.ApplicableGoals,
		MetGoals:        summary.MetGoals,
		CompletionRatio: summary.CompletionRatio,
		Conditions:      conditions,
		Tags:            tags,
	}
}

func (s *DayService) loadDayConditions(date string) ([]DayConditionPayload, error) {
	rows, err := s.days.ConditionsByDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day conditions: %w", err)
	}

	conditionIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		conditionIDs = append(conditionIDs, row.ConditionID)
	}
	names, err := s.conditionNames(conditionIDs)
	if err != nil {
		return nil, err
	}

	payloads := make([]DayConditionPayload, 0, len(rows))
	for _, row := range rows {
		payloads = append(payloads, DayConditionPayload{
			ConditionID: row.ConditionID,
			Name:        names[row.ConditionID],
			Value:       row.Value,
		})
	}

	return payloads, nil
}

func (s *DayService) loadTagEvents(date string) ([]TagEventPayload, error) {
	events, err := s.days.EventsByDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag events: %w", err)
	}

	tagIDSet := map[string]bool{}
	for _, event := range events {
		tagIDSet[event.TagID] = true
	}
	names, err := s.tagNames(keys(tagIDSet))
	if err != nil {
		return nil, err
	}

	payloads := make([]TagEventPayload, 0, len(events))
	for _, event := range events {
		payloads = append(payloads, TagEventPayload{
			ID:      event.ID,
			Date:    event.Date,
			TagID:   event.TagID,
			TagName: names[event.TagID],
			TS:      event.TS,
			Count:   event.Count,
			Note:    event.Note,
		})
	}

	return payloads, nil
}

func (s *DayService) loadRatings(date string) ([]DayRatingPayload, error) {
	rows, err := s.days.RatingsByDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal ratings: %w", err)
	}

	payloads := make([]DayRatingPayload, 0, len(rows))
	for _, row := range rows {
		payloads = append(payloads, DayRatingPayload{
			GoalID: row.GoalID,
			Rating: row.Rating,
			Note:   row.Note,
		})
	}

	return payloads, nil
}

func (s *DayService) requireConditions(conditionIDs []string) error {
	found, err := s.conditions.ByIDs(conditionIDs)
	if err != nil {
		return fmt.Errorf("failed to load conditions: %w", err)
	}

	foundSet := map[string]bool{}
	for _, condition := range found {
		foundSet[condition.ID] = true
	}
	var missing []string
	for _, conditionID := range conditionIDs {
		if !foundSet[conditionID] {
			missing = append(missing, conditionID)
		}
	}
	if len(missing) > 0 {
		missing = dedupeSorted(missing)
		return apperror.NewValidation("Condition(s) not found: " + strings.Join(missing, ", "))
	}

	return nil
}

func (s *DayService) requireGoals(goalIDs []string) error {
	found, err := s.goals.ByIDs(goalIDs)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	foundSet := map[string]bool{}
	for _, goal := range found {
		foundSet[goal.ID] = true
	}
	var missing []string
	for _, goalID := range goalIDs {
		if !foundSet[goalID] {
			missing = append(missing, goalID)
		}
	}
	if len(missing) > 0 {
		missing = dedupeSorted(missing)
		return apperror.NewValidation("Goal(s) not found: " + strings.Join(missing, ", "))
	}

	return nil
}

func (s *DayService) tagNames(tagIDs []string) (map[string]string, error) {
	tags, err := s.tags.ByIDs(tagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	names := make(map[string]string, len(tags))
	for _, tag := range tags {
		names[tag.ID] = tag.Name
	}
	return names, nil
}

func (s *DayService) conditionNames(conditionIDs []string) (map[string]string, error) {
	conditions, err := s.conditions.ByIDs(conditionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}
	names := make(map[string]string, len(conditions))
	for _, condition := range conditions {
		names[condition.ID] = condition.Name
	}
	return names, nil
}

func validateDate(date string) error {
	if _, err := scoring.ParseDay(date); err != nil {
		return apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}
	return nil
}

func rangeDates(start, end string) ([]string, error) {
	startDay, err := scoring.ParseDay(start)
	if err != nil {
		return nil, apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}
	endDay, err := scoring.ParseDay(end)
	if err != nil {
		return nil, apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}
	if startDay.After(endDay) {
		return nil, apperror.NewValidation("start must be <= end")
	}

	var dates []string
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		dates = append(dates, scoring.FormatDay(day))
	}
	return dates, nil
}

func dedupeSorted(values []string) []string {
	sort.Strings(values)
	out := make([]string, 0, len(values))
	for i, value := range values {
		if i == 0 || values[i-1] != value {
			out = append(out, value)
		}
	}
	return out
}

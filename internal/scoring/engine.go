// Package scoring evaluates goals against logged tag events, ratings and
// day conditions. All date strings are ISO YYYY-MM-DD. The engine never
// writes; it reads batches through the Store interface and computes
// statuses, summaries and trend series as pure functions of that data.
package scoring

import (
	"fmt"
	"time"

	"github.com/mbharti12/goal-tracker/internal/model"
)

// Store is the read surface the engine needs. Implementations must batch:
// one query per method regardless of how many goals are being scored.
type Store interface {
	ActiveGoals() ([]model.Goal, error)
	GoalsByIDs(goalIDs []string) ([]model.Goal, error)
	// GoalTags returns live tag weights keyed goal id -> tag id -> weight.
	GoalTags(goalIDs []string) (map[string]map[string]int, error)
	GoalConditions(goalIDs []string) (map[string][]ConditionRequirement, error)
	GoalVersions(goalIDs []string) (map[string][]model.GoalVersion, error)
	// VersionTags returns snapshot weights keyed version id -> tag id -> weight.
	VersionTags(versionIDs []string) (map[string]map[string]int, error)
	VersionConditions(versionIDs []string) (map[string][]ConditionRequirement, error)
	// DayConditions returns condition id -> value for one date.
	DayConditions(date string) (map[string]bool, error)
	// DayConditionsRange returns date -> condition id -> value over [start, end].
	DayConditionsRange(start, end string) (map[string]map[string]bool, error)
	// TagEventSums returns summed event counts keyed tag id -> date -> sum
	// over [start, end].
	TagEventSums(tagIDs []string, start, end string) (map[string]map[string]int, error)
	// Ratings returns rating rows keyed by goal id over [start, end].
	Ratings(goalIDs []string, start, end string) (map[string][]model.GoalRating, error)
}

// GoalStatus is the evaluation of one goal on one date. GoalVersionID is
// empty when the goal was scored from its live configuration.
type GoalStatus struct {
	GoalID        string  `json:"goal_id"`
	GoalVersionID string  `json:"goal_version_id"`
	GoalName      string  `json:"goal_name"`
	Applicable    bool    `json:"applicable"`
	Status        string  `json:"status"`
	Progress      float64 `json:"progress"`
	Target        int     `json:"target"`
	Samples       int     `json:"samples"`
	WindowDays    int     `json:"window_days"`
	TargetWindow  string  `json:"target_window"`
	ScoringMode   string  `json:"scoring_mode"`
}

type Summary struct {
	ApplicableGoals int     `json:"applicable_goals"`
	MetGoals        int     `json:"met_goals"`
	CompletionRatio float64 `json:"completion_ratio"`
}

type DatedSummary struct {
	Summary
	Date string `json:"date"`
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// StatusesForDate scores every active goal for one date.
func (e *Engine) StatusesForDate(date string) ([]GoalStatus, error) {
	day, err := ParseDay(date)
	if err != nil {
		return nil, err
	}

	goals, err := e.store.ActiveGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	if len(goals) == 0 {
		return []GoalStatus{}, nil
	}

	goalIDs := make([]string, len(goals))
	for i, goal := range goals {
		goalIDs[i] = goal.ID
	}

	goalTags, err := e.store.GoalTags(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal tags: %w", err)
	}
	goalConditions, err := e.store.GoalConditions(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal conditions: %w", err)
	}
	versionsByGoal, err := e.store.GoalVersions(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal versions: %w", err)
	}
	versionIDs := collectVersionIDs(versionsByGoal)
	versionTags, err := e.store.VersionTags(versionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load version tags: %w", err)
	}
	versionConditions, err := e.store.VersionConditions(versionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load version conditions: %w", err)
	}
	dayConditions, err := e.store.DayConditions(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day conditions: %w", err)
	}

	weekStart, _ := WeekBounds(day)
	monthStart, _ := MonthBounds(day)
	rangeStart := minDay(weekStart, monthStart)

	configs := make([]EffectiveConfig, len(goals))
	for i, goal := range goals {
		configs[i] = resolveConfig(
			goal,
			versionsByGoal[goal.ID],
			versionTags,
			versionConditions,
			goalTags[goal.ID],
			goalConditions[goal.ID],
			date,
		)
	}

	tagIDSet := map[string]struct{}{}
	for _, cfg := range configs {
		for tagID := range cfg.TagWeights {
			tagIDSet[tagID] = struct{}{}
		}
	}
	tagIDs := make([]string, 0, len(tagIDSet))
	for tagID := range tagIDSet {
		tagIDs = append(tagIDs, tagID)
	}
	eventSums, err := e.store.TagEventSums(tagIDs, FormatDay(rangeStart), date)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag events: %w", err)
	}
	weekSums := sumEventsByTag(eventSums, FormatDay(weekStart), date)
	monthSums := sumEventsByTag(eventSums, FormatDay(monthStart), date)

	ratingGoalIDs := make([]string, 0)
	ratingRangeStart := day
	for i := range goals {
		if configs[i].ScoringMode != model.ScoringModeRating {
			continue
		}
		ratingGoalIDs = append(ratingGoalIDs, goals[i].ID)
		start := windowStartDay(day, weekStart, monthStart, configs[i].TargetWindow)
		if start.Before(ratingRangeStart) {
			ratingRangeStart = start
		}
	}
	ratingsByGoal := map[string][]model.GoalRating{}
	if len(ratingGoalIDs) > 0 {
		ratingsByGoal, err = e.store.Ratings(ratingGoalIDs, FormatDay(ratingRangeStart), date)
		if err != nil {
			return nil, fmt.Errorf("failed to load ratings: %w", err)
		}
	}

	statuses := make([]GoalStatus, 0, len(goals))
	for i, goal := range goals {
		cfg := configs[i]
		applicable := IsApplicable(cfg.Conditions, dayConditions)

		status := GoalStatus{
			GoalID:        goal.ID,
			GoalVersionID: cfg.VersionID,
			GoalName:      goal.Name,
			Applicable:    applicable,
			Target:        cfg.TargetCount,
			TargetWindow:  cfg.TargetWindow,
			ScoringMode:   cfg.ScoringMode,
		}

		if !applicable {
			status.Status = model.StatusNotApplicable
			statuses = append(statuses, status)
			continue
		}

		if cfg.ScoringMode == model.ScoringModeRating {
			windowStart := windowStartDay(day, weekStart, monthStart, cfg.TargetWindow)
			windowDays := DaysBetween(windowStart, day) + 1
			windowStartStr := FormatDay(windowStart)
			sumRatings := 0
			for _, rating := range ratingsByGoal[goal.ID] {
				if rating.Date >= windowStartStr && rating.Date <= date {
					sumRatings += rating.Rating
					status.Samples++
				}
			}
			avg := 0.0
			if windowDays > 0 {
				avg = float64(sumRatings) / float64(windowDays)
			}
			status.Progress = avg
			status.WindowDays = windowDays
			if avg >= float64(cfg.TargetCount) {
				status.Status = model.StatusMet
			} else {
				status.Status = model.StatusMissed
			}
		} else {
			progress := 0.0
			switch cfg.TargetWindow {
			case model.TargetWindowWeek:
				for tagID, weight := range cfg.TagWeights {
					progress += float64(weekSums[tagID] * weight)
				}
			case model.TargetWindowMonth:
				for tagID, weight := range cfg.TagWeights {
					progress += float64(monthSums[tagID] * weight)
				}
			default:
				for tagID, weight := range cfg.TagWeights {
					progress += float64(eventSums[tagID][date] * weight)
				}
			}
			status.Progress = progress
			switch {
			case progress >= float64(cfg.TargetCount):
				status.Status = model.StatusMet
			case progress > 0:
				status.Status = model.StatusPartial
			default:
				status.Status = model.StatusMissed
			}
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// Summarize folds statuses into counts. The ratio divides met by applicable
// and is zero when nothing applies.
func Summarize(statuses []GoalStatus) Summary {
	summary := Summary{}
	for _, status := range statuses {
		if status.Applicable {
			summary.ApplicableGoals++
		}
		if status.Status == model.StatusMet {
			summary.MetGoals++
		}
	}
	if summary.ApplicableGoals > 0 {
		summary.CompletionRatio = float64(summary.MetGoals) / float64(summary.ApplicableGoals)
	}
	return summary
}

// DaySummary scores a date and returns its dated summary.
func (e *Engine) DaySummary(date string) (DatedSummary, error) {
	statuses, err := e.StatusesForDate(date)
	if err != nil {
		return DatedSummary{}, err
	}
	return DatedSummary{Summary: Summarize(statuses), Date: date}, nil
}

// DaySummaryForWindow is DaySummary restricted to goals whose effective
// target window matches.
func (e *Engine) DaySummaryForWindow(date, targetWindow string) (DatedSummary, error) {
	statuses, err := e.StatusesForDate(date)
	if err != nil {
		return DatedSummary{}, err
	}
	return DatedSummary{Summary: Summarize(filterByWindow(statuses, targetWindow)), Date: date}, nil
}

// WindowSummary is DaySummaryForWindow without the date attached, used for
// week and month rollups keyed by their own bounds.
func (e *Engine) WindowSummary(date, targetWindow string) (Summary, error) {
	statuses, err := e.StatusesForDate(date)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(filterByWindow(statuses, targetWindow)), nil
}

func filterByWindow(statuses []GoalStatus, targetWindow string) []GoalStatus {
	filtered := make([]GoalStatus, 0, len(statuses))
	for _, status := range statuses {
		if status.TargetWindow == targetWindow {
			filtered = append(filtered, status)
		}
	}
	return filtered
}

func collectVersionIDs(versionsByGoal map[string][]model.GoalVersion) []string {
	ids := make([]string, 0)
	for _, versions := range versionsByGoal {
		for _, version := range versions {
			ids = append(ids, version.ID)
		}
	}
	return ids
}

func sumEventsByTag(eventSums map[string]map[string]int, start, end string) map[string]int {
	totals := map[string]int{}
	for tagID, byDate := range eventSums {
		for date, count := range byDate {
			if date >= start && date <= end {
				totals[tagID] += count
			}
		}
	}
	return totals
}

func windowStartDay(day, weekStart, monthStart time.Time, targetWindow string) time.Time {
	switch targetWindow {
	case model.TargetWindowWeek:
		return weekStart
	case model.TargetWindowMonth:
		return monthStart
	default:
		return day
	}
}

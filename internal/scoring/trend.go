package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/mbharti12/goal-tracker/internal/model"
)

const (
	BucketDay   = "day"
	BucketWeek  = "week"
	BucketMonth = "month"
)

// TrendPoint is one bucket of a goal's trend. Date is the evaluation date
// (the bucket's last day clamped to the requested end); period bounds are
// the bucket's true calendar bounds, unclamped.
type TrendPoint struct {
	Date          string  `json:"date"`
	PeriodStart   string  `json:"period_start"`
	PeriodEnd     string  `json:"period_end"`
	GoalVersionID string  `json:"goal_version_id"`
	Applicable    bool    `json:"applicable"`
	Status        string  `json:"status"`
	Progress      float64 `json:"progress"`
	Target        int     `json:"target"`
	Ratio         float64 `json:"ratio"`
	Samples       int     `json:"samples"`
	WindowDays    int     `json:"window_days"`
	TargetWindow  string  `json:"target_window"`
	ScoringMode   string  `json:"scoring_mode"`
}

type TrendSeries struct {
	GoalID   string       `json:"goal_id"`
	GoalName string       `json:"goal_name"`
	Points   []TrendPoint `json:"points"`
}

// BuildTrendSeries evaluates each goal at every bucket point of [start, end].
// Instead of re-scoring each date from scratch it loads per-day sums once
// and answers every window query with prefix-sum subtraction, so the cost is
// O(days + points) rather than O(points * window).
func (e *Engine) BuildTrendSeries(goalIDs []string, start, end, bucket string) ([]TrendSeries, error) {
	startDay, err := ParseDay(start)
	if err != nil {
		return nil, err
	}
	endDay, err := ParseDay(end)
	if err != nil {
		return nil, err
	}
	if endDay.Before(startDay) {
		startDay, endDay = endDay, startDay
	}
	startStr := FormatDay(startDay)
	endStr := FormatDay(endDay)

	goals, err := e.loadGoalsInOrder(goalIDs)
	if err != nil {
		return nil, err
	}
	pointsMeta := bucketPoints(startDay, endDay, bucket)
	if len(goals) == 0 {
		return []TrendSeries{}, nil
	}

	weekStart, _ := WeekBounds(startDay)
	monthStart, _ := MonthBounds(startDay)
	rangeStart := minDay(weekStart, monthStart)
	dateIndex, totalDays := buildDateIndex(rangeStart, endDay)

	ids := make([]string, len(goals))
	for i, goal := range goals {
		ids[i] = goal.ID
	}
	versionsByGoal, err := e.store.GoalVersions(ids)
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
	liveTags, err := e.store.GoalTags(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal tags: %w", err)
	}
	liveConditions, err := e.store.GoalConditions(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal conditions: %w", err)
	}

	tagIDSet := map[string]struct{}{}
	for _, tags := range versionTags {
		for tagID := range tags {
			tagIDSet[tagID] = struct{}{}
		}
	}
	for _, tags := range liveTags {
		for tagID := range tags {
			tagIDSet[tagID] = struct{}{}
		}
	}
	tagIDs := make([]string, 0, len(tagIDSet))
	for tagID := range tagIDSet {
		tagIDs = append(tagIDs, tagID)
	}
	tagPrefix, err := e.buildTagPrefix(tagIDs, FormatDay(rangeStart), endStr, dateIndex, totalDays)
	if err != nil {
		return nil, err
	}

	ratingGoalIDs := collectRatingGoalIDs(goals, versionsByGoal)
	ratingValues, ratingSamples, err := e.buildRatingPrefix(ratingGoalIDs, FormatDay(rangeStart), endStr, dateIndex, totalDays)
	if err != nil {
		return nil, err
	}

	dayConditions, err := e.store.DayConditionsRange(startStr, endStr)
	if err != nil {
		return nil, fmt.Errorf("failed to load day conditions: %w", err)
	}

	series := make([]TrendSeries, 0, len(goals))
	for _, goal := range goals {
		versions := versionsByGoal[goal.ID]
		points := make([]TrendPoint, 0, len(pointsMeta))
		for _, meta := range pointsMeta {
			cfg := resolveConfig(
				goal,
				versions,
				versionTags,
				versionConditions,
				liveTags[goal.ID],
				liveConditions[goal.ID],
				meta.date,
			)
			applicable := IsApplicable(cfg.Conditions, dayConditions[meta.date])

			point := TrendPoint{
				Date:          meta.date,
				PeriodStart:   meta.periodStart,
				PeriodEnd:     meta.periodEnd,
				GoalVersionID: cfg.VersionID,
				Applicable:    applicable,
				Target:        cfg.TargetCount,
				TargetWindow:  cfg.TargetWindow,
				ScoringMode:   cfg.ScoringMode,
			}

			if !applicable {
				point.Status = model.StatusNotApplicable
			} else if cfg.ScoringMode == model.ScoringModeRating {
				windowStart := windowStartStr(meta.date, cfg.TargetWindow)
				point.WindowDays = windowDaysBetween(windowStart, meta.date)
				sumRatings := sumPrefix(ratingValues[goal.ID], dateIndex, windowStart, meta.date)
				point.Samples = sumPrefix(ratingSamples[goal.ID], dateIndex, windowStart, meta.date)
				if point.WindowDays > 0 {
					point.Progress = float64(sumRatings) / float64(point.WindowDays)
				}
				if point.Progress >= float64(cfg.TargetCount) {
					point.Status = model.StatusMet
				} else {
					point.Status = model.StatusMissed
				}
			} else {
				windowStart := windowStartStr(meta.date, cfg.TargetWindow)
				for tagID, weight := range cfg.TagWeights {
					total := sumPrefix(tagPrefix[tagID], dateIndex, windowStart, meta.date)
					point.Progress += float64(total * weight)
				}
				switch {
				case point.Progress >= float64(cfg.TargetCount):
					point.Status = model.StatusMet
				case point.Progress > 0:
					point.Status = model.StatusPartial
				default:
					point.Status = model.StatusMissed
				}
			}

			if cfg.TargetCount != 0 {
				point.Ratio = point.Progress / float64(cfg.TargetCount)
			}
			points = append(points, point)
		}
		series = append(series, TrendSeries{GoalID: goal.ID, GoalName: goal.Name, Points: points})
	}

	return series, nil
}

// loadGoalsInOrder fetches goals by id (active or not) and returns them in
// request order with duplicates collapsed.
func (e *Engine) loadGoalsInOrder(goalIDs []string) ([]model.Goal, error) {
	if len(goalIDs) == 0 {
		return nil, nil
	}
	rows, err := e.store.GoalsByIDs(goalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	byID := make(map[string]model.Goal, len(rows))
	for _, goal := range rows {
		byID[goal.ID] = goal
	}
	ordered := make([]model.Goal, 0, len(rows))
	seen := map[string]struct{}{}
	for _, id := range goalIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if goal, ok := byID[id]; ok {
			ordered = append(ordered, goal)
		}
	}
	return ordered, nil
}

type pointMeta struct {
	date        string
	periodStart string
	periodEnd   string
}

func bucketPoints(start, end time.Time, bucket string) []pointMeta {
	points := make([]pointMeta, 0)
	switch bucket {
	case BucketDay:
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			date := FormatDay(day)
			points = append(points, pointMeta{date: date, periodStart: date, periodEnd: date})
		}
	case BucketWeek:
		weekStart, _ := WeekBounds(start)
		for !weekStart.After(end) {
			weekEnd := weekStart.AddDate(0, 0, 6)
			points = append(points, pointMeta{
				date:        FormatDay(minDay(weekEnd, end)),
				periodStart: FormatDay(weekStart),
				periodEnd:   FormatDay(weekEnd),
			})
			weekStart = weekStart.AddDate(0, 0, 7)
		}
	default:
		monthStart, monthEnd := MonthBounds(start)
		for !monthStart.After(end) {
			points = append(points, pointMeta{
				date:        FormatDay(minDay(monthEnd, end)),
				periodStart: FormatDay(monthStart),
				periodEnd:   FormatDay(monthEnd),
			})
			monthStart = monthStart.AddDate(0, 1, 0)
			_, monthEnd = MonthBounds(monthStart)
		}
	}
	return points
}

func buildDateIndex(start, end time.Time) (map[string]int, int) {
	index := map[string]int{}
	idx := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		index[FormatDay(day)] = idx
		idx++
	}
	return index, idx
}

func (e *Engine) buildTagPrefix(tagIDs []string, start, end string, dateIndex map[string]int, totalDays int) (map[string][]int, error) {
	prefixByTag := map[string][]int{}
	if len(tagIDs) == 0 {
		return prefixByTag, nil
	}
	sums, err := e.store.TagEventSums(tagIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag events: %w", err)
	}
	for _, tagID := range tagIDs {
		daily := make([]int, totalDays)
		for date, count := range sums[tagID] {
			if idx, ok := dateIndex[date]; ok {
				daily[idx] += count
			}
		}
		prefixByTag[tagID] = runningSum(daily)
	}
	return prefixByTag, nil
}

func (e *Engine) buildRatingPrefix(goalIDs []string, start, end string, dateIndex map[string]int, totalDays int) (map[string][]int, map[string][]int, error) {
	valuesByGoal := map[string][]int{}
	samplesByGoal := map[string][]int{}
	if len(goalIDs) == 0 {
		return valuesByGoal, samplesByGoal, nil
	}
	ratings, err := e.store.Ratings(goalIDs, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	for _, goalID := range goalIDs {
		values := make([]int, totalDays)
		samples := make([]int, totalDays)
		for _, rating := range ratings[goalID] {
			if idx, ok := dateIndex[rating.Date]; ok {
				values[idx] = rating.Rating
				samples[idx] = 1
			}
		}
		valuesByGoal[goalID] = runningSum(values)
		samplesByGoal[goalID] = runningSum(samples)
	}
	return valuesByGoal, samplesByGoal, nil
}

// collectRatingGoalIDs picks the goals that need rating prefixes: any with
// a rating-mode version, plus version-less goals whose live mode is rating.
func collectRatingGoalIDs(goals []model.Goal, versionsByGoal map[string][]model.GoalVersion) []string {
	idSet := map[string]struct{}{}
	for _, goal := range goals {
		if goal.ScoringMode == model.ScoringModeRating && len(versionsByGoal[goal.ID]) == 0 {
			idSet[goal.ID] = struct{}{}
		}
		for _, version := range versionsByGoal[goal.ID] {
			if version.ScoringMode == model.ScoringModeRating {
				idSet[goal.ID] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func runningSum(daily []int) []int {
	prefix := make([]int, len(daily))
	running := 0
	for i, value := range daily {
		running += value
		prefix[i] = running
	}
	return prefix
}

func windowStartStr(date, targetWindow string) string {
	day, err := ParseDay(date)
	if err != nil {
		return date
	}
	switch targetWindow {
	case model.TargetWindowWeek:
		start, _ := WeekBounds(day)
		return FormatDay(start)
	case model.TargetWindowMonth:
		start, _ := MonthBounds(day)
		return FormatDay(start)
	default:
		return date
	}
}

func windowDaysBetween(windowStart, date string) int {
	start, err := ParseDay(windowStart)
	if err != nil {
		return 0
	}
	end, err := ParseDay(date)
	if err != nil {
		return 0
	}
	return DaysBetween(start, end) + 1
}

// sumPrefix answers a sum over [startDate, endDate] from a cumulative array.
// Out-of-range or inverted bounds yield zero rather than an error; the
// trend grid guarantees real windows land inside the index.
func sumPrefix(prefix []int, dateIndex map[string]int, startDate, endDate string) int {
	if len(prefix) == 0 {
		return 0
	}
	startIdx, ok := dateIndex[startDate]
	if !ok {
		return 0
	}
	endIdx, ok := dateIndex[endDate]
	if !ok {
		return 0
	}
	if endIdx < startIdx {
		return 0
	}
	if startIdx == 0 {
		return prefix[endIdx]
	}
	return prefix[endIdx] - prefix[startIdx-1]
}

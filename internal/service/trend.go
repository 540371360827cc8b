package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mbharti12/goal-tracker/internal/apperror"
	"github.com/mbharti12/goal-tracker/internal/repository"
	"github.com/mbharti12/goal-tracker/internal/scoring"
)

type GoalTrendPayload struct {
	GoalID   string               `json:"goal_id"`
	GoalName string               `json:"goal_name"`
	Bucket   string               `json:"bucket"`
	Start    string               `json:"start"`
	End      string               `json:"end"`
	Points   []scoring.TrendPoint `json:"points"`
}

type TrendCompareInput struct {
	GoalIDs []string `json:"goal_ids"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Bucket  string   `json:"bucket"`
}

type TrendComparePayload struct {
	Bucket      string                `json:"bucket"`
	Start       string                `json:"start"`
	End         string                `json:"end"`
	Series      []scoring.TrendSeries `json:"series"`
	Comparisons []scoring.Comparison  `json:"comparisons"`
}

type TrendService struct {
	goals  repository.GoalRepository
	engine *scoring.Engine
}

func NewTrendService(goals repository.GoalRepository, engine *scoring.Engine) *TrendService {
	return &TrendService{goals: goals, engine: engine}
}

func (s *TrendService) GoalTrend(goalID, start, end, bucket string) (*GoalTrendPayload, error) {
	goal, err := s.goals.ByID(goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, apperror.NewNotFound("Goal not found")
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	bucket, err = normalizeBucket(bucket)
	if err != nil {
		return nil, err
	}
	start, end, err = normalizeDates(start, end)
	if err != nil {
		return nil, err
	}

	series, err := s.engine.BuildTrendSeries([]string{goalID}, start, end, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to build trend series: %w", err)
	}

	points := []scoring.TrendPoint{}
	if len(series) > 0 {
		points = series[0].Points
	}

	return &GoalTrendPayload{
		GoalID:   goalID,
		GoalName: goal.Name,
		Bucket:   bucket,
		Start:    start,
		End:      end,
		Points:   points,
	}, nil
}

func (s *TrendService) Compare(input TrendCompareInput) (*TrendComparePayload, error) {
	bucket, err := normalizeBucket(input.Bucket)
	if err != nil {
		return nil, err
	}

	if len(input.GoalIDs) == 0 {
		return &TrendComparePayload{
			Bucket:      bucket,
			Start:       input.Start,
			End:         input.End,
			Series:      []scoring.TrendSeries{},
			Comparisons: []scoring.Comparison{},
		}, nil
	}

	goals, err := s.goals.ByIDs(input.GoalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	foundSet := map[string]bool{}
	for _, goal := range goals {
		foundSet[goal.ID] = true
	}
	var missing []string
	for _, goalID := range input.GoalIDs {
		if !foundSet[goalID] {
			missing = append(missing, goalID)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewNotFound("Goals not found: " + strings.Join(missing, ", "))
	}

	start, end, err := normalizeDates(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	series, err := s.engine.BuildTrendSeries(input.GoalIDs, start, end, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to build trend series: %w", err)
	}

	return &TrendComparePayload{
		Bucket:      bucket,
		Start:       start,
		End:         end,
		Series:      series,
		Comparisons: scoring.BuildComparisons(series),
	}, nil
}

func normalizeBucket(bucket string) (string, error) {
	if bucket == "" {
		return scoring.BucketDay, nil
	}
	switch bucket {
	case scoring.BucketDay, scoring.BucketWeek, scoring.BucketMonth:
		return bucket, nil
	}
	return "", apperror.NewValidation(fmt.Sprintf("invalid bucket %q", bucket))
}

// normalizeDates validates both dates and swaps them when reversed.
func normalizeDates(start, end string) (string, string, error) {
	startDay, err := scoring.ParseDay(start)
	if err != nil {
		return "", "", apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}
	endDay, err := scoring.ParseDay(end)
	if err != nil {
		return "", "", apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}
	if startDay.After(endDay) {
		return end, start, nil
	}
	return start, end, nil
}

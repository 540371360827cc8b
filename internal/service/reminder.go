package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbharti12/goal-tracker/internal/model"
	"github.com/mbharti12/goal-tracker/internal/repository"
	"github.com/mbharti12/goal-tracker/internal/scoring"
)

const remindersStateKey = "reminders.last_run_at"

type ReminderResult struct {
	Ran            bool    `json:"ran"`
	Created        bool    `json:"created"`
	NotificationID *string `json:"notification_id"`
	Reason         *string `json:"reason"`
}

// ReminderService periodically checks today's goal statuses and records a
// notification naming the goals still incomplete, plus trend alerts for
// goals whose completion ratio collapsed versus the previous week.
type ReminderService struct {
	notifications repository.NotificationRepository
	appState      repository.AppStateRepository
	engine        *scoring.Engine
	store         scoring.Store
	email         *EmailService

	enabled bool
	cadence time.Duration
	emailTo string
}

func NewReminderService(
	notifications repository.NotificationRepository,
	appState repository.AppStateRepository,
	engine *scoring.Engine,
	store scoring.Store,
	email *EmailService,
	enabled bool,
	cadence time.Duration,
	emailTo string,
) *ReminderService {
	return &ReminderService{
		notifications: notifications,
		appState:      appState,
		engine:        engine,
		store:         store,
		email:         email,
		enabled:       enabled,
		cadence:       cadence,
		emailTo:       emailTo,
	}
}

// Run executes one reminder sweep. A zero now means the current time.
// Without force, the sweep is skipped while reminders are disabled or the
// cadence has not elapsed since the last run.
func (s *ReminderService) Run(now time.Time, force bool) (*ReminderResult, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	if !force && !s.enabled {
		return &ReminderResult{Reason: stringPtr("disabled")}, nil
	}

	lastRun := s.lastRunAt()
	due := lastRun == nil || now.Sub(*lastRun) >= s.cadence
	if !force && !due {
		return &ReminderResult{Reason: stringPtr("not_due")}, nil
	}

	date := scoring.FormatDay(now)
	statuses, err := s.engine.StatusesForDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to compute goal statuses: %w", err)
	}

	notification := buildReminderNotification(statuses, date, now)

	created := false
	var notificationID *string
	var reason *string

	if notification == nil {
		reason = stringPtr("no_incomplete_goals")
	} else {
		existing, err := s.notifications.ByDedupeKey(*notification.DedupeKey)
		switch {
		case err == nil:
			notificationID = &existing.ID
			reason = stringPtr("deduped")
		case errors.Is(err, repository.ErrNotificationNotFound):
			if err := s.notifications.Create(notification); err != nil {
				return nil, fmt.Errorf("failed to create reminder notification: %w", err)
			}
			created = true
			notificationID = &notification.ID
			s.sendDigest(notification)
		default:
			return nil, fmt.Errorf("failed to check reminder dedupe key: %w", err)
		}
	}

	s.sweepTrendDrops(date, now)

	if err := s.appState.Set(remindersStateKey, now.Format(time.RFC3339), now); err != nil {
		return nil, fmt.Errorf("failed to record reminder run: %w", err)
	}

	return &ReminderResult{
		Ran:            true,
		Created:        created,
		NotificationID: notificationID,
		Reason:         reason,
	}, nil
}

// Loop runs reminder sweeps at the configured cadence until ctx is
// cancelled. Run errors are logged, never propagated.
func (s *ReminderService) Loop(ctx context.Context) {
	cadence := s.cadence
	if cadence < time.Minute {
		cadence = time.Minute
	}
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		if _, err := s.Run(time.Time{}, false); err != nil {
			slog.Error("reminder run failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *ReminderService) lastRunAt() *time.Time {
	state, err := s.appState.Get(remindersStateKey)
	if err != nil {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, state.Value)
	if err != nil {
		return nil
	}
	return &parsed
}

func (s *ReminderService) sendDigest(notification *model.Notification) {
	if s.emailTo == "" || s.email == nil {
		return
	}
	if err := s.email.SendReminderDigest(s.emailTo, notification.Title, notification.Body); err != nil {
		slog.Error("failed to send reminder digest", "error", err)
	}
}

func buildReminderNotification(statuses []scoring.GoalStatus, date string, now time.Time) *model.Notification {
	var incomplete []scoring.GoalStatus
	for _, status := range statuses {
		if status.Applicable && status.Status != model.StatusMet {
			incomplete = append(incomplete, status)
		}
	}
	if len(incomplete) == 0 {
		return nil
	}

	sort.Slice(incomplete, func(i, j int) bool {
		return strings.ToLower(incomplete[i].GoalName) < strings.ToLower(incomplete[j].GoalName)
	})

	names := make([]string, 0, len(incomplete))
	for _, status := range incomplete {
		if status.ScoringMode == model.ScoringModeRating {
			comparison := "<"
			if status.Progress >= float64(status.Target) {
				comparison = ">="
			}
			names = append(names, fmt.Sprintf(
				"%s (avg %.1f %s %d, %d/%d rated)",
				status.GoalName, status.Progress, comparison, status.Target, status.Samples, status.WindowDays,
			))
		} else {
			names = append(names, status.GoalName)
		}
	}

	dedupeKey := "reminder:" + date
	return &model.Notification{
		ID:        uuid.New().String(),
		CreatedAt: now,
		Type:      model.NotificationTypeReminder,
		Title:     "Goal check-in",
		Body:      "Incomplete goals today: " + strings.Join(names, ", ") + ".",
		DedupeKey: &dedupeKey,
	}
}

// sweepTrendDrops compares each active goal's average completion ratio over
// the last 7 days against the 7 days before. A drop to half or less emits a
// trend notification. Detection failures only log; the reminder result is
// unaffected.
func (s *ReminderService) sweepTrendDrops(date string, now time.Time) {
	goals, err := s.store.ActiveGoals()
	if err != nil {
		slog.Error("trend drop sweep failed", "error", err)
		return
	}
	if len(goals) == 0 {
		return
	}

	goalIDs := make([]string, 0, len(goals))
	for _, goal := range goals {
		goalIDs = append(goalIDs, goal.ID)
	}

	end, err := scoring.ParseDay(date)
	if err != nil {
		slog.Error("trend drop sweep failed", "error", err)
		return
	}
	start := scoring.FormatDay(end.AddDate(0, 0, -13))

	series, err := s.engine.BuildTrendSeries(goalIDs, start, date, scoring.BucketDay)
	if err != nil {
		slog.Error("trend drop sweep failed", "error", err)
		return
	}

	for _, goalSeries := range series {
		points := goalSeries.Points
		half := len(points) / 2
		priorAvg, priorN := averageRatio(points[:half])
		recentAvg, recentN := averageRatio(points[half:])
		if priorN < 3 || recentN < 3 {
			continue
		}
		if priorAvg <= 0 || recentAvg > priorAvg/2 {
			continue
		}

		dedupeKey := fmt.Sprintf("trend:avg_drop:%s:%s", goalSeries.GoalID, date)
		exists, err := s.notifications.ExistsByDedupeKey(dedupeKey)
		if err != nil {
			slog.Error("trend drop dedupe check failed", "error", err, "goalID", goalSeries.GoalID)
			continue
		}
		if exists {
			continue
		}

		notification := &model.Notification{
			ID:        uuid.New().String(),
			CreatedAt: now,
			Type:      model.NotificationTypeTrend,
			Title:     "Trend alert",
			Body: fmt.Sprintf(
				"%s: average completion dropped from %.2f to %.2f over the last 7 days.",
				goalSeries.GoalName, priorAvg, recentAvg,
			),
			DedupeKey: &dedupeKey,
		}
		if err := s.notifications.Create(notification); err != nil {
			slog.Error("failed to create trend notification", "error", err, "goalID", goalSeries.GoalID)
		}
	}
}

// averageRatio averages the ratio over applicable, scored points and
// reports how many such points there were.
func averageRatio(points []scoring.TrendPoint) (float64, int) {
	sum := 0.0
	n := 0
	for _, point := range points {
		if !point.Applicable || point.Status == model.StatusNotApplicable {
			continue
		}
		sum += point.Ratio
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

func stringPtr(value string) *string {
	return &value
}

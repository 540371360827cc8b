package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbharti12/goal-tracker/internal/model"
)

func TestDayService_RejectsMalformedDates(t *testing.T) {
	svc := newFixture().dayService()

	_, err := svc.Day("15-05-2024")
	requireAppError(t, err, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD.")

	_, err = svc.UpsertNote("2024-5-15", DayNoteInput{Note: "x"})
	requireAppError(t, err, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD.")

	_, err = svc.CreateTagEvent("yesterday", TagEventInput{TagName: stringPtr("walk")})
	requireAppError(t, err, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD.")
}

func TestDayService_UpsertNote(t *testing.T) {
	svc := newFixture().dayService()

	first, err := svc.UpsertNote("2024-05-15", DayNoteInput{Note: "slept well"})
	require.NoError(t, err)
	require.Equal(t, "slept well", *first.Note)
	require.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := svc.UpsertNote("2024-05-15", DayNoteInput{Note: "slept badly"})
	require.NoError(t, err)
	require.Equal(t, "slept badly", *second.Note)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	third, err := svc.UpsertNote("2024-05-15", DayNoteInput{Note: "slept badly"})
	require.NoError(t, err)
	require.Equal(t, second.UpdatedAt, third.UpdatedAt, "identical note must not bump the timestamp")
}

func TestDayService_UpsertConditions(t *testing.T) {
	fx := newFixture()
	fx.seedCondition("c-home", "at home")
	svc := fx.dayService()

	payloads, err := svc.UpsertConditions("2024-05-15", DayConditionsInput{
		Conditions: []DayConditionValueInput{{ConditionID: "c-home", Value: true}},
	})
	require.NoError(t, err)
	require.Equal(t, []DayConditionPayload{{ConditionID: "c-home", Name: "at home", Value: true}}, payloads)

	entry, err := fx.days.EntryByDate("2024-05-15")
	require.NoError(t, err)
	require.Nil(t, entry.Note, "recording a condition creates a bare day entry")

	// Flipping the value overwrites in place.
	payloads, err = svc.UpsertConditions("2024-05-15", DayConditionsInput{
		Conditions: []DayConditionValueInput{{ConditionID: "c-home", Value: false}},
	})
	require.NoError(t, err)
	require.Equal(t, []DayConditionPayload{{ConditionID: "c-home", Name: "at home", Value: false}}, payloads)
}

func TestDayService_UpsertConditionsUnknownIDs(t *testing.T) {
	fx := newFixture()
	fx.seedCondition("c-home", "at home")
	svc := fx.dayService()

	_, err := svc.UpsertConditions("2024-05-15", DayConditionsInput{
		Conditions: []DayConditionValueInput{
			{ConditionID: "c-z", Value: true},
			{ConditionID: "c-a", Value: false},
		},
	})
	requireAppError(t, err, http.StatusBadRequest, "Condition(s) not found: c-a, c-z")
}

func TestDayService_UpsertConditionsEmptyInputReadsBack(t *testing.T) {
	fx := newFixture()
	fx.seedCondition("c-home", "at home")
	fx.setCondition("2024-05-15", "c-home", true)
	svc := fx.dayService()

	payloads, err := svc.UpsertConditions("2024-05-15", DayConditionsInput{})
	require.NoError(t, err)
	require.Equal(t, []DayConditionPayload{{ConditionID: "c-home", Name: "at home", Value: true}}, payloads)

	_, err = fx.days.EntryByDate("2024-05-15")
	require.Error(t, err, "an empty upsert must not create a day entry")
}

func TestDayService_UpsertRatings(t *testing.T) {
	fx := newFixture()
	fx.seedRatingGoal("g-sleep", "Sleep quality", model.TargetWindowDay, 70)
	svc := fx.dayService()

	_, err := svc.UpsertRatings("2024-05-15", DayRatingsInput{
		Ratings: []DayRatingInput{{GoalID: "g-sleep", Rating: 0}},
	})
	requireAppError(t, err, http.StatusBadRequest, "rating must be between 1 and 100")

	_, err = svc.UpsertRatings("2024-05-15", DayRatingsInput{
		Ratings: []DayRatingInput{{GoalID: "g-sleep", Rating: 101}},
	})
	requireAppError(t, err, http.StatusBadRequest, "rating must be between 1 and 100")

	_, err = svc.UpsertRatings("2024-05-15", DayRatingsInput{
		Ratings: []DayRatingInput{{GoalID: "g-missing", Rating: 50}},
	})
	requireAppError(t, err, http.StatusBadRequest, "Goal(s) not found: g-missing")

	payloads, err := svc.UpsertRatings("2024-05-15", DayRatingsInput{
		Ratings: []DayRatingInput{{GoalID: "g-sleep", Rating: 80, Note: stringPtr("good night")}},
	})
	require.NoError(t, err)
	require.Equal(t, []DayRatingPayload{{GoalID: "g-sleep", Rating: 80, Note: stringPtr("good night")}}, payloads)

	// Rating the same goal again replaces the value.
	payloads, err = svc.UpsertRatings("2024-05-15", DayRatingsInput{
		Ratings: []DayRatingInput{{GoalID: "g-sleep", Rating: 60}},
	})
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, 60, payloads[0].Rating)
}

func TestDayService_CreateTagEventByID(t *testing.T) {
	fx := newFixture()
	fx.seedTag("t-read", "reading")
	svc := fx.dayService()

	payload, err := svc.CreateTagEvent("2024-05-15", TagEventInput{TagID: stringPtr("t-read")})
	require.NoError(t, err)
	require.NotEmpty(t, payload.ID)
	require.Equal(t, "2024-05-15", payload.Date)
	require.Equal(t, "t-read", payload.TagID)
	require.Equal(t, "reading", payload.TagName)
	require.Equal(t, 1, payload.Count, "count defaults to 1")

	stored, err := fx.days.EventByID(payload.ID)
	require.NoError(t, err)
	require.Equal(t, "t-read", stored.TagID)

	_, err = svc.CreateTagEvent("2024-05-15", TagEventInput{TagID: stringPtr("t-missing")})
	requireAppError(t, err, http.StatusBadRequest, "Tag not found")
}

func TestDayService_CreateTagEventByNameCreatesTagOnce(t *testing.T) {
	fx := newFixture()
	svc := fx.dayService()

	first, err := svc.CreateTagEvent("2024-05-15", TagEventInput{TagName: stringPtr("  deep work  ")})
	require.NoError(t, err)
	require.Equal(t, "deep work", first.TagName)

	tag, err := fx.tags.ByName("deep work")
	require.NoError(t, err)
	require.True(t, tag.Active)
	require.Equal(t, tag.ID, first.TagID)

	second, err := svc.CreateTagEvent("2024-05-16", TagEventInput{TagName: stringPtr("deep work"), Count: intPtr(3)})
	require.NoError(t, err)
	require.Equal(t, tag.ID, second.TagID, "logging by name reuses the existing tag")
	require.Equal(t, 3, second.Count)
}

func TestDayService_CreateTagEventValidations(t *testing.T) {
	fx := newFixture()
	fx.seedTag("t-read", "reading")
	svc := fx.dayService()

	_, err := svc.CreateTagEvent("2024-05-15", TagEventInput{})
	requireAppError(t, err, http.StatusBadRequest, "tag_name is required")

	_, err = svc.CreateTagEvent("2024-05-15", TagEventInput{TagName: stringPtr("   ")})
	requireAppError(t, err, http.StatusBadRequest, "tag_name is required")

	_, err = svc.CreateTagEvent("2024-05-15", TagEventInput{TagID: stringPtr("t-read"), Count: intPtr(0)})
	requireAppError(t, err, http.StatusBadRequest, "count must be at least 1")
}

func TestDayService_DeleteTagEvent(t *testing.T) {
	fx := newFixture()
	fx.seedTag("t-read", "reading")
	svc := fx.dayService()

	payload, err := svc.CreateTagEvent("2024-05-15", TagEventInput{TagID: stringPtr("t-read")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTagEvent(payload.ID))
	_, err = fx.days.EventByID(payload.ID)
	require.Error(t, err)

	err = svc.DeleteTagEvent(payload.ID)
	requireAppError(t, err, http.StatusNotFound, "Tag event not found")
}

func TestDayService_DayAggregatesEverythingRecorded(t *testing.T) {
	fx := newFixture()
	fx.seedTag("t-read", "reading")
	fx.seedCondition("c-home", "at home")
	fx.seedCountGoal("g-read", "Reading", model.TargetWindowDay, 1, "t-read")
	fx.seedRatingGoal("g-sleep", "Sleep quality", model.TargetWindowDay, 70)
	fx.addEvent("e1", "2024-05-15", "t-read", 1)
	fx.addRating("2024-05-15", "g-sleep", 80)
	fx.setCondition("2024-05-15", "c-home", true)
	svc := fx.dayService()

	_, err := svc.UpsertNote("2024-05-15", DayNoteInput{Note: "productive day"})
	require.NoError(t, err)

	payload, err := svc.Day("2024-05-15")
	require.NoError(t, err)

	require.NotNil(t, payload.DayEntry)
	require.Equal(t, "productive day", *payload.DayEntry.Note)
	require.Equal(t, []DayConditionPayload{{ConditionID: "c-home", Name: "at home", Value: true}}, payload.Conditions)
	require.Len(t, payload.TagEvents, 1)
	require.Equal(t, "reading", payload.TagEvents[0].TagName)
	require.Equal(t, []DayRatingPayload{{GoalID: "g-sleep", Rating: 80}}, payload.GoalRatings)

	require.Len(t, payload.Goals, 2)
	require.Equal(t, "Reading", payload.Goals[0].GoalName)
	require.Equal(t, model.StatusMet, payload.Goals[0].Status)
	require.Equal(t, "Sleep quality", payload.Goals[1].GoalName)
	require.Equal(t, model.StatusMet, payload.Goals[1].Status)
	require.InDelta(t, 80.0, payload.Goals[1].Progress, 1e-9)
}

func TestDayService_DayWithNothingRecorded(t *testing.T) {
	svc := newFixture().dayService()

	payload, err := svc.Day("2024-05-15")
	require.NoError(t, err)
	require.Nil(t, payload.DayEntry)
	require.Empty(t, payload.Conditions)
	require.Empty(t, payload.TagEvents)
	require.Empty(t, payload.GoalRatings)
	require.Empty(t, payload.Goals)
}

func TestDayService_TagImpacts(t *testing.T) {
	fx := newFixture()
	fx.seedTag("t-read", "reading")
	fx.seedTag("t-gym", "gym")
	fx.seedCountGoal("g-read", "Reading", model.TargetWindowDay, 1, "t-read")
	fx.goals.tags["g-read"] = []model.GoalTag{{GoalID: "g-read", TagID: "t-read", Weight: 2}}
	fx.seedRatingGoal("g-mood", "Mood", model.TargetWindowDay, 70)

	// The versioned goal's snapshot tags apply, not its live links.
	seedVersionedGoal(fx, "g-fit", "Fitness", "v-fit", "2024-05-01", 3)
	fx.goals.tags["g-fit"] = []model.GoalTag{{GoalID: "g-fit", TagID: "t-live", Weight: 9}}
	fx.versions.tags["v-fit"] = []model.GoalVersionTag{{GoalVersionID: "v-fit", TagID: "t-gym", Weight: 1}}

	svc := fx.dayService()
	payloads, err := svc.TagImpacts("2024-05-15")
	require.NoError(t, err)

	require.Len(t, payloads, 2)
	require.Equal(t, "t-gym", payloads[0].TagID)
	require.Equal(t, "gym", payloads[0].TagName)
	require.Equal(t, []TagImpactGoalPayload{{
		GoalID:       "g-fit",
		GoalName:     "Fitness",
		TargetWindow: model.TargetWindowDay,
		ScoringMode:  model.ScoringModeCount,
		Weight:       1,
	}}, payloads[0].Goals)

	require.Equal(t, "t-read", payloads[1].TagID)
	require.Equal(t, []TagImpactGoalPayload{{
		GoalID:       "g-read",
		GoalName:     "Reading",
		TargetWindow: model.TargetWindowDay,
		ScoringMode:  model.ScoringModeCount,
		Weight:       2,
	}}, payloads[1].Goals)
}

func TestDayService_TagImpactsUnknownTagName(t *testing.T) {
	fx := newFixture()
	fx.seedCountGoal("g-read", "Reading", model.TargetWindowDay, 1, "t-ghost")
	svc := fx.dayService()

	payloads, err := svc.TagImpacts("2024-05-15")
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, "Unknown tag", payloads[0].TagName)
}

func TestDayService_Calendar(t *testing.T) {
	fx := newFixture()
	fx.seedTag("t-read", "reading")
	fx.seedCondition("c-home", "at home")
	fx.seedCountGoal("g-read", "Reading", model.TargetWindowDay, 1, "t-read")
	fx.addEvent("e1", "2024-05-14", "t-read", 2)
	fx.setCondition("2024-05-13", "c-home", true)
	fx.setCondition("2024-05-14", "c-home", false)
	svc := fx.dayService()

	days, err := svc.Calendar("2024-05-13", "2024-05-15")
	require.NoError(t, err)
	require.Len(t, days, 3)

	require.Equal(t, "2024-05-13", days[0].Date)
	require.Equal(t, 1, days[0].ApplicableGoals)
	require.Zero(t, days[0].MetGoals)
	require.Equal(t, []DayConditionPayload{{ConditionID: "c-home", Name: "at home", Value: true}}, days[0].Conditions)
	require.Empty(t, days[0].Tags)

	require.Equal(t, "2024-05-14", days[1].Date)
	require.Equal(t, 1, days[1].MetGoals)
	require.InDelta(t, 1.0, days[1].CompletionRatio, 1e-9)
	require.Empty(t, days[1].Conditions, "false-valued conditions stay off the calendar")
	require.Equal(t, []CalendarTagPayload{{TagID: "t-read", Name: "reading", Count: 2}}, days[1].Tags)

	require.Equal(t, "2024-05-15", days[2].Date)
	require.Zero(t, days[2].MetGoals)
}

func TestDayService_CalendarRejectsReversedRange(t *testing.T) {
	svc := newFixture().dayService()

	_, err := svc.Calendar("2024-05-15", "2024-05-13")
	requireAppError(t, err, http.StatusBadRequest, "start must be <= end")
}

func TestDayService_CalendarSummary(t *testing.T) {
	fx := newFixture()
	fx.seedTag("t-d", "daily tag")
	fx.seedTag("t-w", "weekly tag")
	fx.seedCountGoal("g-daily", "Daily goal", model.TargetWindowDay, 1, "t-d")
	fx.seedCountGoal("g-weekly", "Weekly goal", model.TargetWindowWeek, 2, "t-w")
	fx.addEvent("e1", "2024-05-13", "t-d", 1)
	fx.addEvent("e2", "2024-05-13", "t-w", 1)
	fx.addEvent("e3", "2024-05-14", "t-w", 1)
	svc := fx.dayService()

	summary, err := svc.CalendarSummary("2024-05-13", "2024-05-14")
	require.NoError(t, err)

	// Day rows count only day-window goals.
	require.Len(t, summary.Days, 2)
	require.Equal(t, 1, summary.Days[0].ApplicableGoals)
	require.Equal(t, 1, summary.Days[0].MetGoals)
	require.Equal(t, 1, summary.Days[1].ApplicableGoals)
	require.Zero(t, summary.Days[1].MetGoals)

	// The containing week is evaluated at its own end date, so both weekly
	// events count toward the target.
	require.Len(t, summary.Weeks, 1)
	week := summary.Weeks[0]
	require.Equal(t, "2024-05-13", week.Start)
	require.Equal(t, "2024-05-19", week.End)
	require.Equal(t, 1, week.ApplicableGoals)
	require.Equal(t, 1, week.MetGoals)
	require.InDelta(t, 1.0, week.CompletionRatio, 1e-9)

	require.Len(t, summary.Months, 1)
	month := summary.Months[0]
	require.Equal(t, "2024-05-01", month.Start)
	require.Equal(t, "2024-05-31", month.End)
	require.Zero(t, month.ApplicableGoals, "no month-window goals exist")
}

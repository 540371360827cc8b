package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mbharti12/goal-tracker/internal/apperror"
	"github.com/mbharti12/goal-tracker/internal/model"
	"github.com/mbharti12/goal-tracker/internal/repository"
	"github.com/mbharti12/goal-tracker/internal/scoring"
)

const defaultReviewDays = 14

var dowToWeekday = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

var longRangeKeywords = []string{
	"all time",
	"all-time",
	"alltime",
	"year",
	"years",
	"month",
	"months",
	"quarter",
	"quarters",
	"entire",
	"since",
	"overall",
}

// QueryPlan is the structured filter plan the LLM planner produces from a
// free-form prompt.
type QueryPlan struct {
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	LastNDays     *int     `json:"last_n_days"`
	DaysOfWeek    []string `json:"days_of_week"`
	ConditionsAny []string `json:"conditions_any"`
	ConditionsAll []string `json:"conditions_all"`
	Goals         []string `json:"goals"`
	Intent        string   `json:"intent"`
}

type ReviewQueryInput struct {
	Prompt string `json:"prompt"`
}

type ReviewFilterInput struct {
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	DaysOfWeek    []string `json:"days_of_week"`
	ConditionsAll []string `json:"conditions_all"`
	ConditionsAny []string `json:"conditions_any"`
	Goals         []string `json:"goals"`
}

type ReviewDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ReviewFilters struct {
	DOW           []string `json:"dow"`
	ConditionsAll []string `json:"conditions_all"`
	ConditionsAny []string `json:"conditions_any"`
	Goals         []string `json:"goals"`
}

type ReviewDaySummary struct {
	ApplicableGoals int     `json:"applicable_goals"`
	MetGoals        int     `json:"met_goals"`
	CompletionRatio float64 `json:"completion_ratio"`
}

type ReviewDay struct {
	Date    string               `json:"date"`
	Note    *string              `json:"note"`
	Summary ReviewDaySummary     `json:"summary"`
	Goals   []scoring.GoalStatus `json:"goals"`
}

type ReviewContext struct {
	DateRange ReviewDateRange `json:"date_range"`
	Filters   ReviewFilters   `json:"filters"`
	Days      []ReviewDay     `json:"days"`
	Truncated bool            `json:"truncated"`
}

type ReviewFilterPayload struct {
	Context ReviewContext `json:"context"`
}

type ReviewDebugFilters struct {
	DOW        []string `json:"dow"`
	Conditions []string `json:"conditions"`
	Goals      []string `json:"goals"`
}

type ReviewDebug struct {
	Plan         QueryPlan          `json:"plan"`
	DateRange    ReviewDateRange    `json:"date_range"`
	Filters      ReviewDebugFilters `json:"filters"`
	DaysIncluded int                `json:"days_included"`
	Truncated    bool               `json:"truncated"`
}

type ReviewQueryPayload struct {
	Answer string      `json:"answer"`
	Debug  ReviewDebug `json:"debug"`
}

// ReviewService answers natural-language review prompts by planning a
// filtered date range with the LLM, scoring the matching days, and
// summarizing the result.
type ReviewService struct {
	conditions repository.ConditionRepository
	days       repository.DayRepository
	engine     *scoring.Engine
	store      scoring.Store
	ollama     *OllamaClient
	maxDays    int
}

func NewReviewService(
	conditions repository.ConditionRepository,
	days repository.DayRepository,
	engine *scoring.Engine,
	store scoring.Store,
	ollama *OllamaClient,
	maxDays int,
) *ReviewService {
	if maxDays <= 0 {
		maxDays = 60
	}
	return &ReviewService{
		conditions: conditions,
		days:       days,
		engine:     engine,
		store:      store,
		ollama:     ollama,
		maxDays:    maxDays,
	}
}

func (s *ReviewService) Query(input ReviewQueryInput) (*ReviewQueryPayload, error) {
	if input.Prompt == "" {
		return nil, apperror.NewValidation("prompt is required")
	}

	plan, err := s.buildPlan(input.Prompt)
	if err != nil {
		return nil, err
	}

	start, end, err := resolveDateRange(plan, time.Now())
	if err != nil {
		return nil, err
	}

	allowMore := promptRequestsLongRange(input.Prompt)
	context, err := s.buildContext(start, end, reviewFilter{
		daysOfWeek:    plan.DaysOfWeek,
		conditionsAll: plan.ConditionsAll,
		conditionsAny: plan.ConditionsAny,
		goals:         plan.Goals,
	}, allowMore)
	if err != nil {
		return nil, err
	}

	statsTable := buildStatsTable(context.Days)
	notesSnippets := buildNotesSnippets(context.Days)
	answer, err := s.summarize(input.Prompt, plan, context, statsTable, notesSnippets)
	if err != nil {
		return nil, err
	}

	debug := ReviewDebug{
		Plan:      *plan,
		DateRange: context.DateRange,
		Filters: ReviewDebugFilters{
			DOW:        plan.DaysOfWeek,
			Conditions: mergeConditionNames(plan.ConditionsAll, plan.ConditionsAny),
			Goals:      plan.Goals,
		},
		DaysIncluded: len(context.Days),
		Truncated:    context.Truncated,
	}

	return &ReviewQueryPayload{Answer: answer, Debug: debug}, nil
}

func (s *ReviewService) Filter(input ReviewFilterInput) (*ReviewFilterPayload, error) {
	if err := validateDaysOfWeek(input.DaysOfWeek); err != nil {
		return nil, err
	}

	context, err := s.buildContext(input.StartDate, input.EndDate, reviewFilter{
		daysOfWeek:    emptyToNil(input.DaysOfWeek),
		conditionsAll: emptyToNil(input.ConditionsAll),
		conditionsAny: emptyToNil(input.ConditionsAny),
		goals:         emptyToNil(input.Goals),
	}, false)
	if err != nil {
		return nil, err
	}

	return &ReviewFilterPayload{Context: *context}, nil
}

type reviewFilter struct {
	daysOfWeek    []string
	conditionsAll []string
	conditionsAny []string
	goals         []string
}

func (s *ReviewService) buildContext(startDate, endDate string, filter reviewFilter, allowMore bool) (*ReviewContext, error) {
	start, err := scoring.ParseDay(startDate)
	if err != nil {
		return nil, apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}
	end, err := scoring.ParseDay(endDate)
	if err != nil {
		return nil, apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}
	if start.After(end) {
		start, end = end, start
	}

	dates := generateDates(start, end)
	dates = filterByDaysOfWeek(dates, filter.daysOfWeek)
	dates, err = s.filterByConditions(dates, filter.conditionsAll, filter.conditionsAny)
	if err != nil {
		return nil, err
	}

	truncated := false
	if !allowMore && len(dates) > s.maxDays {
		dates = dates[len(dates)-s.maxDays:]
		truncated = true
	}

	notes, err := s.days.NotesByDates(dates)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	goalNameSet := map[string]bool{}
	for _, name := range normalizeNameList(filter.goals) {
		goalNameSet[strings.ToLower(name)] = true
	}

	days := make([]ReviewDay, 0, len(dates))
	for _, date := range dates {
		statuses, err := s.engine.StatusesForDate(date)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", date, err)
		}
		if len(goalNameSet) > 0 {
			filtered := make([]scoring.GoalStatus, 0, len(statuses))
			for _, status := range statuses {
				if goalNameSet[strings.ToLower(status.GoalName)] {
					filtered = append(filtered, status)
				}
			}
			statuses = filtered
		}
		days = append(days, ReviewDay{
			Date:    date,
			Note:    truncateNote(notes[date]),
			Summary: summaryFromStatuses(statuses),
			Goals:   statuses,
		})
	}

	return &ReviewContext{
		DateRange: ReviewDateRange{Start: scoring.FormatDay(start), End: scoring.FormatDay(end)},
		Filters: ReviewFilters{
			DOW:           filter.daysOfWeek,
			ConditionsAll: filter.conditionsAll,
			ConditionsAny: filter.conditionsAny,
			Goals:         filter.goals,
		},
		Days:      days,
		Truncated: truncated,
	}, nil
}

// buildPlan asks the planner twice, the second time with a stricter rule
// set, and falls back to a plain 14-day summary when neither attempt
// parses.
func (s *ReviewService) buildPlan(prompt string) (*QueryPlan, error) {
	conditionNames, err := s.conditionNames()
	if err != nil {
		return nil, err
	}
	goalNames, err := s.activeGoalNames()
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		messages := plannerMessages(prompt, conditionNames, goalNames, attempt == 1)
		responseText, err := s.ollama.Chat(messages, 0.0)
		if err != nil {
			return nil, err
		}
		plan, parseErr := parsePlanResponse(responseText)
		if parseErr == nil {
			return plan, nil
		}
	}

	lastN := defaultReviewDays
	return &QueryPlan{LastNDays: &lastN, Intent: "summary"}, nil
}

func (s *ReviewService) summarize(prompt string, plan *QueryPlan, context *ReviewContext, statsTable, notesSnippets string) (string, error) {
	systemContent := "You are a goal review assistant. Respond with the following format:\n" +
		"Summary:\n" +
		"- 6-10 bullets\n" +
		"Patterns:\n" +
		"- 3 bullets\n" +
		"Suggestions:\n" +
		"- 3 bullets\n" +
		"Mention goal performance when relevant."

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}
	filtersJSON, err := json.Marshal(context.Filters)
	if err != nil {
		return "", fmt.Errorf("failed to encode filters: %w", err)
	}

	userContent := strings.Join([]string{
		"User prompt: " + prompt,
		"Plan: " + string(planJSON),
		fmt.Sprintf("Date range: %s to %s", context.DateRange.Start, context.DateRange.End),
		"Filters: " + string(filtersJSON),
		fmt.Sprintf("Days included: %d (truncated: %t)", len(context.Days), context.Truncated),
		"Stats table:",
		statsTable,
		"Notes snippets:",
		notesSnippets,
	}, "\n")

	messages := []ChatMessage{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}
	return s.ollama.Chat(messages, 0.2)
}

func (s *ReviewService) conditionNames() ([]string, error) {
	conditions, err := s.conditions.All(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}
	names := make([]string, 0, len(conditions))
	for _, condition := range conditions {
		names = append(names, condition.Name)
	}
	return names, nil
}

func (s *ReviewService) activeGoalNames() ([]string, error) {
	goals, err := s.store.ActiveGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	names := make([]string, 0, len(goals))
	for _, goal := range goals {
		names = append(names, goal.Name)
	}
	return names, nil
}

// filterByConditions keeps dates where every conditions_all name and at
// least one conditions_any name was recorded true. Unknown names in the
// all set, or an any set with no known names, match nothing.
func (s *ReviewService) filterByConditions(dates []string, conditionsAll, conditionsAny []string) ([]string, error) {
	if len(dates) == 0 || (len(conditionsAll) == 0 && len(conditionsAny) == 0) {
		return dates, nil
	}

	allNames := normalizeNameList(conditionsAll)
	anyNames := normalizeNameList(conditionsAny)

	conditions, err := s.conditions.All(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}
	idsByName := map[string]string{}
	for _, condition := range conditions {
		idsByName[strings.ToLower(condition.Name)] = condition.ID
	}

	resolvedAll, missingAll := resolveConditionNames(idsByName, allNames)
	resolvedAny, missingAny := resolveConditionNames(idsByName, anyNames)

	if len(missingAll) > 0 {
		return []string{}, nil
	}
	if len(missingAny) > 0 && len(resolvedAny) == 0 {
		return []string{}, nil
	}

	conditionIDs := dedupeSorted(append(append([]string{}, resolvedAll...), resolvedAny...))
	if len(conditionIDs) == 0 {
		return dates, nil
	}

	trueByDate, err := s.days.TrueConditionDates(dates, conditionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load day conditions: %w", err)
	}

	requiredAll := map[string]bool{}
	for _, id := range resolvedAll {
		requiredAll[id] = true
	}
	requiredAny := map[string]bool{}
	for _, id := range resolvedAny {
		requiredAny[id] = true
	}

	var filtered []string
	for _, date := range dates {
		dayConditions := trueByDate[date]
		if len(requiredAll) > 0 && !containsAll(dayConditions, requiredAll) {
			continue
		}
		if len(requiredAny) > 0 && !containsAny(dayConditions, requiredAny) {
			continue
		}
		filtered = append(filtered, date)
	}
	return filtered, nil
}

func resolveConditionNames(idsByName map[string]string, names []string) (resolved []string, missing []string) {
	for _, name := range names {
		if id, ok := idsByName[strings.ToLower(name)]; ok {
			resolved = append(resolved, id)
		} else {
			missing = append(missing, name)
		}
	}
	return resolved, missing
}

func containsAll(have map[string]struct{}, required map[string]bool) bool {
	for id := range required {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

func containsAny(have map[string]struct{}, required map[string]bool) bool {
	for id := range required {
		if _, ok := have[id]; ok {
			return true
		}
	}
	return false
}

func resolveDateRange(plan *QueryPlan, today time.Time) (string, string, error) {
	var start, end time.Time
	var err error

	switch {
	case plan.StartDate != nil && plan.EndDate != nil:
		start, err = scoring.ParseDay(*plan.StartDate)
		if err == nil {
			end, err = scoring.ParseDay(*plan.EndDate)
		}
	case plan.StartDate != nil:
		start, err = scoring.ParseDay(*plan.StartDate)
		end = dayOf(today)
	case plan.EndDate != nil:
		end, err = scoring.ParseDay(*plan.EndDate)
		start = end.AddDate(0, 0, -(defaultReviewDays - 1))
	case plan.LastNDays != nil:
		end = dayOf(today)
		start = end.AddDate(0, 0, -(*plan.LastNDays - 1))
	default:
		end = dayOf(today)
		start = end.AddDate(0, 0, -(defaultReviewDays - 1))
	}
	if err != nil {
		return "", "", apperror.NewValidation("Invalid date format. Expected YYYY-MM-DD.")
	}

	if start.After(end) {
		start, end = end, start
	}
	return scoring.FormatDay(start), scoring.FormatDay(end), nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func promptRequestsLongRange(prompt string) bool {
	if prompt == "" {
		return false
	}
	lowered := strings.ToLower(prompt)
	for _, keyword := range longRangeKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func buildStatsTable(days []ReviewDay) string {
	if len(days) == 0 {
		return "No days matched the filters."
	}
	lines := []string{"date | applicable | met | completion_ratio"}
	for _, day := range days {
		lines = append(lines, fmt.Sprintf(
			"%s | %d | %d | %.2f",
			day.Date, day.Summary.ApplicableGoals, day.Summary.MetGoals, day.Summary.CompletionRatio,
		))
	}
	return strings.Join(lines, "\n")
}

func buildNotesSnippets(days []ReviewDay) string {
	var snippets []string
	for _, day := range days {
		if day.Note == nil {
			continue
		}
		note := strings.TrimSpace(*day.Note)
		if note == "" {
			continue
		}
		snippets = append(snippets, day.Date+": "+note)
	}
	if len(snippets) == 0 {
		return "No notes available."
	}
	return strings.Join(snippets, "\n")
}

func plannerMessages(prompt string, conditions, goals []string, strict bool) []ChatMessage {
	schema := "{\n" +
		"  \"start_date\": \"YYYY-MM-DD\" | null,\n" +
		"  \"end_date\": \"YYYY-MM-DD\" | null,\n" +
		"  \"last_n_days\": int | null,\n" +
		"  \"days_of_week\": [\"mon\",\"tue\",\"wed\",\"thu\",\"fri\",\"sat\",\"sun\"] | null,\n" +
		"  \"conditions_any\": [string] | null,\n" +
		"  \"conditions_all\": [string] | null,\n" +
		"  \"goals\": [string] | null,\n" +
		"  \"intent\": \"summary\"|\"patterns\"|\"coach\"|\"report\"\n" +
		"}"

	rules := []string{
		"Return only JSON. No markdown or extra text.",
		"Use null when a field is not specified.",
		"days_of_week must use the short lowercase form (mon..sun).",
		"intent must be one of: summary, patterns, coach, report.",
	}
	if strict {
		rules = append(rules, "Include every key from the schema, even if null.")
	}

	systemContent := "You convert user prompts into JSON plans.\nSchema:\n" + schema +
		"\nRules:\n- " + strings.Join(rules, "\n- ")

	userContent := strings.Join([]string{
		"Available conditions: " + nameListOrNone(conditions),
		"Available goals: " + nameListOrNone(goals),
		"User prompt: " + prompt,
	}, "\n")

	return []ChatMessage{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}
}

func nameListOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func parsePlanResponse(text string) (*QueryPlan, error) {
	plan, err := decodePlan(text)
	if err != nil {
		extracted, exErr := extractJSONObject(text)
		if exErr != nil {
			return nil, exErr
		}
		plan, err = decodePlan(extracted)
		if err != nil {
			return nil, err
		}
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func decodePlan(text string) (*QueryPlan, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.DisallowUnknownFields()
	plan := &QueryPlan{}
	if err := decoder.Decode(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no JSON object found in planner response")
	}
	return text[start : end+1], nil
}

func validatePlan(plan *QueryPlan) error {
	if plan.StartDate != nil {
		if _, err := scoring.ParseDay(*plan.StartDate); err != nil {
			return errors.New("invalid start_date")
		}
	}
	if plan.EndDate != nil {
		if _, err := scoring.ParseDay(*plan.EndDate); err != nil {
			return errors.New("invalid end_date")
		}
	}
	if plan.LastNDays != nil && *plan.LastNDays < 1 {
		return errors.New("last_n_days must be at least 1")
	}
	if err := validateDaysOfWeek(plan.DaysOfWeek); err != nil {
		return err
	}
	switch plan.Intent {
	case "summary", "patterns", "coach", "report":
	default:
		return fmt.Errorf("invalid intent %q", plan.Intent)
	}

	plan.DaysOfWeek = emptyToNil(plan.DaysOfWeek)
	plan.ConditionsAny = emptyToNil(plan.ConditionsAny)
	plan.ConditionsAll = emptyToNil(plan.ConditionsAll)
	plan.Goals = emptyToNil(plan.Goals)
	return nil
}

func validateDaysOfWeek(daysOfWeek []string) error {
	var invalid []string
	for _, item := range daysOfWeek {
		if _, ok := dowToWeekday[item]; !ok {
			invalid = append(invalid, item)
		}
	}
	if len(invalid) > 0 {
		return apperror.NewValidation("Invalid days_of_week: " + strings.Join(invalid, ", "))
	}
	return nil
}

func generateDates(start, end time.Time) []string {
	var dates []string
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		dates = append(dates, scoring.FormatDay(current))
	}
	return dates
}

func filterByDaysOfWeek(dates []string, daysOfWeek []string) []string {
	if len(daysOfWeek) == 0 {
		return dates
	}
	allowed := map[time.Weekday]bool{}
	for _, item := range daysOfWeek {
		if weekday, ok := dowToWeekday[item]; ok {
			allowed[weekday] = true
		}
	}
	var filtered []string
	for _, date := range dates {
		day, err := scoring.ParseDay(date)
		if err != nil {
			continue
		}
		if allowed[day.Weekday()] {
			filtered = append(filtered, date)
		}
	}
	return filtered
}

func summaryFromStatuses(statuses []scoring.GoalStatus) ReviewDaySummary {
	applicable := 0
	met := 0
	for _, status := range statuses {
		if status.Applicable {
			applicable++
		}
		if status.Status == model.StatusMet {
			met++
		}
	}
	ratio := 0.0
	if applicable > 0 {
		ratio = float64(met) / float64(applicable)
	}
	return ReviewDaySummary{
		ApplicableGoals: applicable,
		MetGoals:        met,
		CompletionRatio: ratio,
	}
}

func truncateNote(note *string) *string {
	if note == nil {
		return nil
	}
	runes := []rune(*note)
	if len(runes) <= 1200 {
		return note
	}
	truncated := string(runes[:1200])
	return &truncated
}

func normalizeNameList(values []string) []string {
	var cleaned []string
	for _, value := range values {
		stripped := strings.TrimSpace(value)
		if stripped != "" {
			cleaned = append(cleaned, stripped)
		}
	}
	return cleaned
}

func mergeConditionNames(conditionsAll, conditionsAny []string) []string {
	var merged []string
	merged = append(merged, conditionsAll...)
	merged = append(merged, conditionsAny...)

	seen := map[string]bool{}
	var ordered []string
	for _, item := range merged {
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, item)
	}
	return ordered
}

func emptyToNil(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

package routes

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/app"
	"github.com/mbharti12/goal-tracker/internal/handler"
	"github.com/mbharti12/goal-tracker/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.Ollama)
	goal := handler.NewGoalHandler(app.GoalService)
	tag := handler.NewTagHandler(app.TagService)
	condition := handler.NewConditionHandler(app.ConditionService)
	day := handler.NewDayHandler(app.DayService)
	trend := handler.NewTrendHandler(app.TrendService)
	notification := handler.NewNotificationHandler(app.NotificationService)
	review := handler.NewReviewHandler(app.ReviewService)
	admin := handler.NewAdminHandler(app.ReminderService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /llm/health", health.LlmHealth)

	// Goals
	mux.HandleFunc("GET /goals", goal.List)
	mux.HandleFunc("POST /goals", goal.Create)
	mux.HandleFunc("PUT /goals/{goal_id}", goal.Update)
	mux.HandleFunc("DELETE /goals/{goal_id}", goal.Delete)
	mux.HandleFunc("GET /goals/{goal_id}/trend", trend.GoalTrend)

	// Tags
	mux.HandleFunc("GET /tags", tag.List)
	mux.HandleFunc("POST /tags", tag.Create)
	mux.HandleFunc("PUT /tags/{tag_id}", tag.Update)
	mux.HandleFunc("PUT /tags/{tag_id}/deactivate", tag.Deactivate)
	mux.HandleFunc("PUT /tags/{tag_id}/reactivate", tag.Reactivate)
	mux.HandleFunc("DELETE /tags/{tag_id}", tag.Delete)

	// Conditions
	mux.HandleFunc("GET /conditions", condition.List)
	mux.HandleFunc("POST /conditions", condition.Create)
	mux.HandleFunc("PUT /conditions/{condition_id}/deactivate", condition.Deactivate)
	mux.HandleFunc("PUT /conditions/{condition_id}/reactivate", condition.Reactivate)

	// Days
	mux.HandleFunc("GET /days/{date}", day.Day)
	mux.HandleFunc("GET /days/{date}/tag-impacts", day.TagImpacts)
	mux.HandleFunc("PUT /days/{date}/note", day.UpsertNote)
	mux.HandleFunc("PUT /days/{date}/conditions", day.UpsertConditions)
	mux.HandleFunc("PUT /days/{date}/ratings", day.UpsertRatings)
	mux.HandleFunc("POST /days/{date}/tag-events", day.CreateTagEvent)
	mux.HandleFunc("DELETE /tag-events/{event_id}", day.DeleteTagEvent)

	// Calendar
	mux.HandleFunc("GET /calendar", day.Calendar)
	mux.HandleFunc("GET /calendar/summary", day.CalendarSummary)

	// Trends
	mux.HandleFunc("POST /trends/compare", trend.Compare)

	// Notifications
	mux.HandleFunc("GET /notifications", notification.List)
	mux.HandleFunc("POST /notifications/{notification_id}/read", notification.MarkRead)

	// Review assistant. Rate limited: every query fans out into Ollama
	// chat calls.
	reviewLimit := middleware.RateLimitReview()
	mux.HandleFunc("POST /review/query", reviewLimit(review.Query))
	mux.HandleFunc("POST /review/filter", reviewLimit(review.Filter))

	// Admin
	mux.HandleFunc("POST /admin/run-reminders", admin.RunReminders)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
	)
}

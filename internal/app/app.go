package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/mbharti12/goal-tracker/internal/config"
	"github.com/mbharti12/goal-tracker/internal/db"
	"github.com/mbharti12/goal-tracker/internal/repository"
	"github.com/mbharti12/goal-tracker/internal/scoring"
	"github.com/mbharti12/goal-tracker/internal/service"
	"github.com/mbharti12/goal-tracker/internal/validation"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Engine              *scoring.Engine
	EmailService        *service.EmailService
	Ollama              *service.OllamaClient
	GoalService         *service.GoalService
	TagService          *service.TagService
	ConditionService    *service.ConditionService
	DayService          *service.DayService
	TrendService        *service.TrendService
	NotificationService *service.NotificationService
	ReminderService     *service.ReminderService
	ReviewService       *service.ReviewService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	versionRepository := repository.NewGoalVersionRepository(database)
	tagRepository := repository.NewTagRepository(database)
	conditionRepository := repository.NewConditionRepository(database)
	dayRepository := repository.NewDayRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)
	appStateRepository := repository.NewAppStateRepository(database)

	// Scoring engine
	store := repository.NewScoringStore(database)
	engine := scoring.NewEngine(store)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	ollama := service.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel)

	// A bad digest recipient should fail loudly once, not on every sweep.
	reminderEmailTo := cfg.ReminderEmailTo
	if reminderEmailTo != "" {
		if err := validation.ValidateEmail(reminderEmailTo); err != nil {
			slog.Warn("invalid REMINDER_EMAIL_TO, digest emails disabled", "error", err)
			reminderEmailTo = ""
		}
	}

	goalService := service.NewGoalService(goalRepository, versionRepository, tagRepository, conditionRepository)
	tagService := service.NewTagService(tagRepository)
	conditionService := service.NewConditionService(conditionRepository)
	dayService := service.NewDayService(dayRepository, goalRepository, tagRepository, conditionRepository, tagService, engine, store)
	trendService := service.NewTrendService(goalRepository, engine)
	notificationService := service.NewNotificationService(notificationRepository)
	reminderService := service.NewReminderService(
		notificationRepository,
		appStateRepository,
		engine,
		store,
		emailService,
		cfg.RemindersEnabled,
		cfg.RemindersCadence,
		reminderEmailTo,
	)
	reviewService := service.NewReviewService(
		conditionRepository,
		dayRepository,
		engine,
		store,
		ollama,
		cfg.ReviewMaxDays,
	)

	// Goals created before versioning existed get a baseline version.
	repaired, err := goalService.BackfillVersions()
	if err != nil {
		return nil, fmt.Errorf("failed to backfill goal versions: %v", err)
	}
	if repaired > 0 {
		slog.Info("backfilled goal versions", "count", repaired)
	}

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Engine:              engine,
		EmailService:        emailService,
		Ollama:              ollama,
		GoalService:         goalService,
		TagService:          tagService,
		ConditionService:    conditionService,
		DayService:          dayService,
		TrendService:        trendService,
		NotificationService: notificationService,
		ReminderService:     reminderService,
		ReviewService:       reviewService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

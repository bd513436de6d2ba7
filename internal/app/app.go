package app

import (
	"context"

	"housemanagement/config"
	"housemanagement/internal/controllers"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	"housemanagement/internal/handlers/middleware"
	"housemanagement/internal/jobs"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	return Build(config, db)
}

// Build wires every layer on top of an open database.
func Build(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("Build")

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)

	services, err := services.New(db, repos, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	if store, ok := services.Files.(interface {
		EnsureBucket(ctx context.Context) error
	}); ok {
		if err := store.EnsureBucket(context.Background()); err != nil {
			return &App{}, log.Err("failed to prepare media bucket", err)
		}
	}

	websocket, err := websockets.New(db, eventBus, config, services.Auth, repos)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos, services.Auth)
	controllers := controllers.New(services, repos, eventBus, config, db)

	if err := jobs.RegisterAllJobs(services.Scheduler, config, db, services, repos); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]bool{
		"websocket":              a.Websocket == nil,
		"eventBus":               a.EventBus == nil,
		"authService":            a.Services.Auth == nil,
		"schedulerService":       a.Services.Scheduler == nil,
		"notificationService":    a.Services.Notification == nil,
		"contractGenerator":      a.Services.Contract == nil,
		"userRepository":         a.Repos.User == nil,
		"userController":         a.Controllers.User == nil,
		"quoteController":        a.Controllers.Quote == nil,
		"chatController":         a.Controllers.Chat == nil,
		"constructionController": a.Controllers.Construction == nil,
	}

	for name, isNil := range nilChecks {
		if isNil {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		a.Services.Scheduler.Stop()
	}

	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

package app

import (
	"context"

	"bakimtrack/config"
	"bakimtrack/internal/controllers"
	"bakimtrack/internal/database"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/jobs"
	"bakimtrack/internal/logger"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Config      config.Config
	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	repos := repositories.New(db)

	svc, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	middleware := middleware.New(db, config, repos, svc.Session)
	controllers := controllers.New(svc, repos, db)

	if config.SchedulerEnabled {
		uploadCleanupJob := jobs.NewUploadCleanupJob(svc.UploadCleanup, services.Daily)
		if err := svc.Scheduler.AddJob(uploadCleanupJob); err != nil {
			return &App{}, log.Err("failed to register upload cleanup job", err)
		}
		log.Info("Registered upload cleanup job with scheduler")

		if err := svc.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Repos:       repos,
		Services:    svc,
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

	nilChecks := []any{
		a.Services.Transaction,
		a.Services.Scope,
		a.Services.Checklist,
		a.Services.Session,
		a.Services.Storage,
		a.Services.UploadCleanup,
		a.Services.Scheduler,
		a.Repos.User,
		a.Repos.Client,
		a.Repos.Branch,
		a.Repos.Template,
		a.Repos.Log,
		a.Controllers.Auth,
		a.Controllers.User,
		a.Controllers.Client,
		a.Controllers.Branch,
		a.Controllers.Template,
		a.Controllers.Maintenance,
		a.Controllers.Dashboard,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

package services

import (
	"bakimtrack/config"
	"bakimtrack/internal/database"
	"bakimtrack/internal/repositories"
)

type Service struct {
	Transaction   *TransactionService
	Scope         *ScopeService
	Checklist     *ChecklistService
	Session       *SessionService
	Storage       *DiskStorageService
	UploadCleanup *UploadCleanupService
	Scheduler     *SchedulerService
}

func New(db database.DB, config config.Config) (Service, error) {
	repos := repositories.New(db)

	transactionService := NewTransactionService(db)
	scopeService := NewScopeService(repos.User)
	checklistService := NewChecklistService(repos.Template)
	sessionService := NewSessionService(db, config)
	schedulerService := NewSchedulerService()

	storageService, err := NewDiskStorageService(config)
	if err != nil {
		return Service{}, err
	}

	uploadCleanupService := NewUploadCleanupService(storageService, repos.Client, repos.Log)

	return Service{
		Transaction:   transactionService,
		Scope:         scopeService,
		Checklist:     checklistService,
		Session:       sessionService,
		Storage:       storageService,
		UploadCleanup: uploadCleanupService,
		Scheduler:     schedulerService,
	}, nil
}

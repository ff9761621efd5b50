package controllers

import (
	"bakimtrack/internal/database"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	authController "bakimtrack/internal/controllers/auth"
	branchController "bakimtrack/internal/controllers/branches"
	clientController "bakimtrack/internal/controllers/clients"
	dashboardController "bakimtrack/internal/controllers/dashboard"
	maintenanceController "bakimtrack/internal/controllers/maintenance"
	templateController "bakimtrack/internal/controllers/templates"
	userController "bakimtrack/internal/controllers/users"
)

type Controllers struct {
	Auth        authController.AuthControllerInterface
	User        userController.UserControllerInterface
	Client      clientController.ClientControllerInterface
	Branch      branchController.BranchControllerInterface
	Template    templateController.TemplateControllerInterface
	Maintenance maintenanceController.MaintenanceControllerInterface
	Dashboard   dashboardController.DashboardControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:        authController.New(repos, services.Session),
		User:        userController.New(repos, services.Scope),
		Client:      clientController.New(repos, services.Scope, services.Storage),
		Branch:      branchController.New(repos, services.Scope),
		Template:    templateController.New(repos, services.Checklist),
		Maintenance: maintenanceController.New(repos, services.Scope, services.Checklist, services.Transaction),
		Dashboard:   dashboardController.New(repos, services.Scope, db),
	}
}

package middleware

import (
	"bakimtrack/config"
	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	session  *services.SessionService
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	session *services.SessionService,
) Middleware {
	return Middleware{
		DB:       db,
		userRepo: repos.User,
		session:  session,
		Config:   config,
		log:      logger.New("middleware"),
	}
}

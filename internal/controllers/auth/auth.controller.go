package authController

import (
	"context"
	"errors"
	"strings"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type AuthControllerInterface interface {
	Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, principal Principal) (*UserProfile, error)
}

type AuthController struct {
	userRepo repositories.UserRepository
	session  *services.SessionService
	log      logger.Logger
}

func New(repos repositories.Repository, session *services.SessionService) AuthControllerInterface {
	return &AuthController{
		userRepo: repos.User,
		session:  session,
		log:      logger.New("authController"),
	}
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password produce the same error so accounts cannot be probed.
func (c *AuthController) Login(
	ctx context.Context,
	request *LoginRequest,
) (*LoginResponse, error) {
	log := c.log.Function("Login")

	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email == "" || request.Password == "" {
		return nil, log.ErrorWithType(apperrors.ErrValidation,
			"email and password are required")
	}

	user, err := c.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, log.ErrorWithType(apperrors.ErrUnauthenticated, "invalid credentials")
		}
		return nil, log.Err("failed to load user for login", err)
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte(request.Password),
	); err != nil {
		return nil, log.ErrorWithType(apperrors.ErrUnauthenticated, "invalid credentials")
	}

	token, err := c.session.Create(ctx, user)
	if err != nil {
		return nil, log.Err("failed to create session", err, "userID", user.ID)
	}

	return &LoginResponse{Token: token, User: user.ToProfile()}, nil
}

// Logout destroys the session. Logging out twice is not an error.
func (c *AuthController) Logout(ctx context.Context, token string) error {
	log := c.log.Function("Logout")

	if err := c.session.Destroy(ctx, token); err != nil {
		return log.Err("failed to destroy session", err)
	}

	return nil
}

func (c *AuthController) Me(
	ctx context.Context,
	principal Principal,
) (*UserProfile, error) {
	log := c.log.Function("Me")

	user, err := c.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, log.Err("failed to load user", err, "userID", principal.UserID)
	}

	profile := user.ToProfile()
	return &profile, nil
}

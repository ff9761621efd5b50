package userController

import (
	"context"
	"strings"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Email     string      `json:"email"    validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=8"`
	FullName  string      `json:"fullName" validate:"required"`
	Role      string      `json:"role"     validate:"required"`
	ClientIDs []uuid.UUID `json:"clientIds,omitempty"`
	BranchIDs []uuid.UUID `json:"branchIds,omitempty"`
}

type UpdateUserRequest struct {
	Email     *string     `json:"email,omitempty"`
	Password  *string     `json:"password,omitempty"`
	FullName  *string     `json:"fullName,omitempty"`
	Role      *string     `json:"role,omitempty"`
	ClientIDs []uuid.UUID `json:"clientIds,omitempty"`
	BranchIDs []uuid.UUID `json:"branchIds,omitempty"`
}

type UserControllerInterface interface {
	ListUsers(ctx context.Context, principal Principal) ([]UserProfile, error)
	GetUser(ctx context.Context, principal Principal, userID uuid.UUID) (*User, error)
	CreateUser(
		ctx context.Context,
		principal Principal,
		request *CreateUserRequest,
	) (*User, error)
	UpdateUser(
		ctx context.Context,
		principal Principal,
		userID uuid.UUID,
		request *UpdateUserRequest,
	) (*User, error)
	DeleteUser(ctx context.Context, principal Principal, userID uuid.UUID) error
}

type UserController struct {
	userRepo   repositories.UserRepository
	branchRepo repositories.BranchRepository
	scope      *services.ScopeService
	log        logger.Logger
}

func New(repos repositories.Repository, scope *services.ScopeService) UserControllerInterface {
	return &UserController{
		userRepo:   repos.User,
		branchRepo: repos.Branch,
		scope:      scope,
		log:        logger.New("userController"),
	}
}

func (c *UserController) ListUsers(
	ctx context.Context,
	principal Principal,
) ([]UserProfile, error) {
	log := c.log.Function("ListUsers")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	users, err := c.userRepo.List(ctx, scope.Users)
	if err != nil {
		return nil, log.Err("failed to list users", err, "userID", principal.UserID)
	}

	profiles := make([]UserProfile, len(users))
	for i := range users {
		profiles[i] = users[i].ToProfile()
	}

	return profiles, nil
}

func (c *UserController) GetUser(
	ctx context.Context,
	principal Principal,
	userID uuid.UUID,
) (*User, error) {
	log := c.log.Function("GetUser")

	if principal.Role != RoleSuperAdmin && principal.UserID != userID {
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"may not read another user's account", "userID", userID)
	}

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to get user", err, "userID", userID)
	}

	return user, nil
}

func (c *UserController) CreateUser(
	ctx context.Context,
	principal Principal,
	request *CreateUserRequest,
) (*User, error) {
	log := c.log.Function("CreateUser")

	role, err := ParseRole(request.Role)
	if err != nil {
		return nil, log.Err("invalid role", err, "role", request.Role)
	}

	if err := c.authorizeManage(ctx, principal, role, request.ClientIDs, request.BranchIDs); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, log.ErrorWithType(apperrors.ErrValidation, "a valid email is required")
	}
	if len(request.Password) < 8 {
		return nil, log.ErrorWithType(apperrors.ErrValidation,
			"password must be at least 8 characters")
	}
	if strings.TrimSpace(request.FullName) == "" {
		return nil, log.ErrorWithType(apperrors.ErrValidation, "full name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(request.FullName),
		Role:         role,
	}

	if err := c.userRepo.Create(ctx, user, request.ClientIDs, request.BranchIDs); err != nil {
		return nil, log.Err("failed to create user", err, "email", email)
	}

	return c.userRepo.GetByID(ctx, user.ID)
}

func (c *UserController) UpdateUser(
	ctx context.Context,
	principal Principal,
	userID uuid.UUID,
	request *UpdateUserRequest,
) (*User, error) {
	log := c.log.Function("UpdateUser")

	if principal.Role != RoleSuperAdmin {
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"only an administrator may update users", "role", principal.Role)
	}

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to get user", err, "userID", userID)
	}

	if request.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*request.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, log.ErrorWithType(apperrors.ErrValidation, "a valid email is required")
		}
		user.Email = email
	}
	if request.Password != nil {
		if len(*request.Password) < 8 {
			return nil, log.ErrorWithType(apperrors.ErrValidation,
				"password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, log.Err("failed to hash password", err)
		}
		user.PasswordHash = string(hash)
	}
	if request.FullName != nil {
		user.FullName = strings.TrimSpace(*request.FullName)
	}
	if request.Role != nil {
		role, err := ParseRole(*request.Role)
		if err != nil {
			return nil, log.Err("invalid role", err, "role", *request.Role)
		}
		user.Role = role
	}

	if err := c.userRepo.Update(ctx, user, request.ClientIDs, request.BranchIDs); err != nil {
		return nil, log.Err("failed to update user", err, "userID", userID)
	}

	return c.userRepo.GetByID(ctx, userID)
}

func (c *UserController) DeleteUser(
	ctx context.Context,
	principal Principal,
	userID uuid.UUID,
) error {
	log := c.log.Function("DeleteUser")

	if principal.Role != RoleSuperAdmin {
		return log.ErrorWithType(apperrors.ErrAccessDenied,
			"only an administrator may delete users", "role", principal.Role)
	}

	if principal.UserID == userID {
		return log.ErrorWithType(apperrors.ErrValidation,
			"an administrator cannot delete its own account")
	}

	if err := c.userRepo.Delete(ctx, userID); err != nil {
		return log.Err("failed to delete user", err, "userID", userID)
	}

	return nil
}

// authorizeManage gates user creation. Administrators create anyone; a
// project manager may only add branch-level staff inside its own clients.
func (c *UserController) authorizeManage(
	ctx context.Context,
	principal Principal,
	role Role,
	clientIDs, branchIDs []uuid.UUID,
) error {
	log := c.log.Function("authorizeManage")

	switch principal.Role {
	case RoleSuperAdmin:
		return nil

	case RoleProjectManager:
		if role != RoleBranchManager && role != RoleFieldStaff {
			return log.ErrorWithType(apperrors.ErrAccessDenied,
				"project managers may only add branch-level staff", "role", role)
		}

		scope, err := c.scope.Resolve(ctx, principal)
		if err != nil {
			return log.Err("failed to resolve scope", err, "userID", principal.UserID)
		}

		for _, clientID := range clientIDs {
			if !scope.Clients.Contains(clientID) {
				return log.ErrorWithType(apperrors.ErrAccessDenied,
					"client outside principal scope", "clientID", clientID)
			}
		}
		for _, branchID := range branchIDs {
			branch, err := c.branchRepo.GetByID(ctx, branchID)
			if err != nil {
				return log.Err("failed to get branch", err, "branchID", branchID)
			}
			if !scope.Branches.Allows(branch) {
				return log.ErrorWithType(apperrors.ErrAccessDenied,
					"branch outside principal scope", "branchID", branchID)
			}
		}
		return nil

	default:
		return log.ErrorWithType(apperrors.ErrAccessDenied,
			"role may not manage users", "role", principal.Role)
	}
}

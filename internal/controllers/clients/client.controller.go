package clientController

import (
	"context"
	"fmt"
	"strings"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	Name            string `json:"name" validate:"required"`
	LogoData        []byte `json:"-"`
	LogoContentType string `json:"-"`
}

type UpdateClientRequest struct {
	Name            *string `json:"name,omitempty"`
	LogoData        []byte  `json:"-"`
	LogoContentType string  `json:"-"`
}

type ClientControllerInterface interface {
	ListClients(ctx context.Context, principal Principal) ([]Client, error)
	GetClient(ctx context.Context, principal Principal, clientID uuid.UUID) (*Client, error)
	CreateClient(
		ctx context.Context,
		principal Principal,
		request *CreateClientRequest,
	) (*Client, error)
	UpdateClient(
		ctx context.Context,
		principal Principal,
		clientID uuid.UUID,
		request *UpdateClientRequest,
	) (*Client, error)
	DeleteClient(ctx context.Context, principal Principal, clientID uuid.UUID) error
}

type ClientController struct {
	clientRepo repositories.ClientRepository
	branchRepo repositories.BranchRepository
	scope      *services.ScopeService
	storage    services.BlobStorage
	log        logger.Logger
}

func New(
	repos repositories.Repository,
	scope *services.ScopeService,
	storage services.BlobStorage,
) ClientControllerInterface {
	return &ClientController{
		clientRepo: repos.Client,
		branchRepo: repos.Branch,
		scope:      scope,
		storage:    storage,
		log:        logger.New("clientController"),
	}
}

func (c *ClientController) ListClients(
	ctx context.Context,
	principal Principal,
) ([]Client, error) {
	log := c.log.Function("ListClients")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	clients, err := c.clientRepo.List(ctx, scope.Clients, true)
	if err != nil {
		return nil, log.Err("failed to list clients", err, "userID", principal.UserID)
	}

	return clients, nil
}

func (c *ClientController) GetClient(
	ctx context.Context,
	principal Principal,
	clientID uuid.UUID,
) (*Client, error) {
	log := c.log.Function("GetClient")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	if !scope.Clients.Contains(clientID) {
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"client outside principal scope", "clientID", clientID)
	}

	client, err := c.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, log.Err("failed to get client", err, "clientID", clientID)
	}

	return client, nil
}

func (c *ClientController) CreateClient(
	ctx context.Context,
	principal Principal,
	request *CreateClientRequest,
) (*Client, error) {
	log := c.log.Function("CreateClient")

	if principal.Role != RoleSuperAdmin {
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"only an administrator may create clients", "role", principal.Role)
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, log.ErrorWithType(apperrors.ErrValidation, "client name is required")
	}

	client := &Client{Name: name}

	if len(request.LogoData) > 0 {
		url, err := c.storage.Store(ctx, request.LogoData, request.LogoContentType)
		if err != nil {
			return nil, log.Err("failed to store client logo", err)
		}
		client.Logo = &url
	}

	if err := c.clientRepo.Create(ctx, client); err != nil {
		return nil, log.Err("failed to create client", err, "name", name)
	}

	return client, nil
}

func (c *ClientController) UpdateClient(
	ctx context.Context,
	principal Principal,
	clientID uuid.UUID,
	request *UpdateClientRequest,
) (*Client, error) {
	log := c.log.Function("UpdateClient")

	// Project managers may update their assigned clients; everyone else
	// below admin is read-only here.
	switch principal.Role {
	case RoleSuperAdmin:
	case RoleProjectManager:
		scope, err := c.scope.Resolve(ctx, principal)
		if err != nil {
			return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
		}
		if !scope.Clients.Contains(clientID) {
			return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
				"client outside principal scope", "clientID", clientID)
		}
	default:
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"insufficient role to update clients", "role", principal.Role)
	}

	client, err := c.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, log.Err("failed to get client", err, "clientID", clientID)
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, log.ErrorWithType(apperrors.ErrValidation, "client name cannot be empty")
		}
		client.Name = name
	}

	if len(request.LogoData) > 0 {
		url, err := c.storage.Store(ctx, request.LogoData, request.LogoContentType)
		if err != nil {
			return nil, log.Err("failed to store client logo", err, "clientID", clientID)
		}
		client.Logo = &url
	}

	if err := c.clientRepo.Update(ctx, client); err != nil {
		return nil, log.Err("failed to update client", err, "clientID", clientID)
	}

	return client, nil
}

// DeleteClient refuses to delete a client that still has branches.
// Cascading effects must be explicit, never silent.
func (c *ClientController) DeleteClient(
	ctx context.Context,
	principal Principal,
	clientID uuid.UUID,
) error {
	log := c.log.Function("DeleteClient")

	if principal.Role != RoleSuperAdmin {
		return log.ErrorWithType(apperrors.ErrAccessDenied,
			"only an administrator may delete clients", "role", principal.Role)
	}

	if _, err := c.clientRepo.GetByID(ctx, clientID); err != nil {
		return log.Err("failed to get client", err, "clientID", clientID)
	}

	branchCount, err := c.branchRepo.CountForClient(ctx, clientID)
	if err != nil {
		return log.Err("failed to count client branches", err, "clientID", clientID)
	}
	if branchCount > 0 {
		return fmt.Errorf("%w: client still has %d branches, delete them first",
			apperrors.ErrValidation, branchCount)
	}

	if err := c.clientRepo.Delete(ctx, clientID); err != nil {
		return log.Err("failed to delete client", err, "clientID", clientID)
	}

	return nil
}

package services

import (
	"context"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"

	"github.com/google/uuid"
)

// ScopeService is the single authoritative implementation of access-scope
// resolution. Every read and write in the system evaluates the same
// resolved Scope; no endpoint derives its own filters.
type ScopeService struct {
	userRepo repositories.UserRepository
	log      logger.Logger
}

func NewScopeService(userRepo repositories.UserRepository) *ScopeService {
	return &ScopeService{
		userRepo: userRepo,
		log:      logger.New("scopeService"),
	}
}

// Resolve computes the filters restricting what the principal may read or
// write. An empty assignment set yields filters that match nothing, which
// scoped listings translate into empty results rather than errors.
func (s *ScopeService) Resolve(ctx context.Context, principal Principal) (*Scope, error) {
	log := s.log.Function("Resolve")

	if principal.UserID == uuid.Nil {
		return nil, log.ErrorWithType(apperrors.ErrUnauthenticated, "no principal on request")
	}

	switch principal.Role {
	case RoleSuperAdmin:
		return &Scope{
			Principal: principal,
			Clients:   IDFilter{Unrestricted: true},
			Branches:  BranchFilter{Unrestricted: true},
			Users:     UserFilter{Unrestricted: true},
			Logs:      LogFilter{Unrestricted: true},
		}, nil

	case RoleProjectManager:
		user, err := s.userRepo.GetByID(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}

		clientIDs := assignedClientIDs(user)
		return &Scope{
			Principal: principal,
			Clients:   IDFilter{IDs: clientIDs},
			Branches:  BranchFilter{ClientIDs: clientIDs},
			Users:     UserFilter{BranchClientIDs: clientIDs},
			Logs:      LogFilter{BranchClientIDs: clientIDs},
		}, nil

	case RoleBranchManager:
		user, err := s.userRepo.GetByID(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}

		branchIDs, clientIDs := assignedBranchAndClientIDs(user)
		return &Scope{
			Principal: principal,
			Clients:   IDFilter{IDs: clientIDs},
			Branches:  BranchFilter{IDs: branchIDs},
			Users:     UserFilter{BranchIDs: branchIDs},
			Logs:      LogFilter{BranchIDs: branchIDs},
		}, nil

	case RoleFieldStaff:
		user, err := s.userRepo.GetByID(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}

		// Client/branch visibility mirrors the branch manager derivation
		// for dashboard purposes; users and logs collapse to self.
		branchIDs, clientIDs := assignedBranchAndClientIDs(user)
		selfID := principal.UserID
		return &Scope{
			Principal: principal,
			Clients:   IDFilter{IDs: clientIDs},
			Branches:  BranchFilter{IDs: branchIDs},
			Users:     UserFilter{SelfID: &selfID},
			Logs:      LogFilter{StaffID: &selfID},
		}, nil
	}

	return nil, log.ErrorWithType(apperrors.ErrValidation,
		"unknown role on principal", "role", principal.Role)
}

func assignedClientIDs(user *User) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(user.Clients))
	for _, client := range user.Clients {
		ids = append(ids, client.ID)
	}
	return ids
}

// assignedBranchAndClientIDs returns the user's branch ids and the
// de-duplicated client ids those branches belong to.
func assignedBranchAndClientIDs(user *User) ([]uuid.UUID, []uuid.UUID) {
	branchIDs := make([]uuid.UUID, 0, len(user.AssignedBranches))
	clientIDs := make([]uuid.UUID, 0, len(user.AssignedBranches))
	seen := make(map[uuid.UUID]struct{}, len(user.AssignedBranches))

	for _, branch := range user.AssignedBranches {
		branchIDs = append(branchIDs, branch.ID)
		if _, ok := seen[branch.ClientID]; !ok {
			seen[branch.ClientID] = struct{}{}
			clientIDs = append(clientIDs, branch.ClientID)
		}
	}

	return branchIDs, clientIDs
}

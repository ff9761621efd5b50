package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bakimtrack/internal/apperrors"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[uuid.UUID]*User
}

func (s *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) List(context.Context, UserFilter) ([]User, error) { return nil, nil }

func (s *stubUserRepo) Count(context.Context, UserFilter) (int64, error) { return 0, nil }

func (s *stubUserRepo) Create(_ context.Context, user *User, _, _ []uuid.UUID) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) Update(_ context.Context, user *User, _, _ []uuid.UUID) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.users, id)
	return nil
}

func newScopeFixture() (*ScopeService, *stubUserRepo) {
	repo := &stubUserRepo{users: map[uuid.UUID]*User{}}
	return NewScopeService(repo), repo
}

func addScopeUser(repo *stubUserRepo, role Role, clients []Client, branches []Branch) *User {
	user := &User{Role: role, Clients: clients, AssignedBranches: branches}
	user.ID = uuid.Must(uuid.NewV7())
	repo.users[user.ID] = user
	return user
}

func newClient() Client {
	client := Client{Name: "client"}
	client.ID = uuid.Must(uuid.NewV7())
	return client
}

func newBranch(clientID uuid.UUID) Branch {
	branch := Branch{Name: "branch", ClientID: clientID}
	branch.ID = uuid.Must(uuid.NewV7())
	return branch
}

func TestResolve_RequiresPrincipal(t *testing.T) {
	service, _ := newScopeFixture()

	_, err := service.Resolve(context.Background(), Principal{})
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
}

func TestResolve_SuperAdminIsUnrestricted(t *testing.T) {
	service, repo := newScopeFixture()
	admin := addScopeUser(repo, RoleSuperAdmin, nil, nil)

	scope, err := service.Resolve(context.Background(), admin.Principal())
	require.NoError(t, err)

	assert.True(t, scope.Clients.Unrestricted)
	assert.True(t, scope.Branches.Unrestricted)
	assert.True(t, scope.Users.Unrestricted)
	assert.True(t, scope.Logs.Unrestricted)
}

func TestResolve_ProjectManager(t *testing.T) {
	service, repo := newScopeFixture()

	clientA := newClient()
	clientB := newClient()
	manager := addScopeUser(repo, RoleProjectManager, []Client{clientA, clientB}, nil)

	scope, err := service.Resolve(context.Background(), manager.Principal())
	require.NoError(t, err)

	assert.False(t, scope.Clients.Unrestricted)
	assert.ElementsMatch(t, []uuid.UUID{clientA.ID, clientB.ID}, scope.Clients.IDs)
	assert.ElementsMatch(t, []uuid.UUID{clientA.ID, clientB.ID}, scope.Branches.ClientIDs)
	assert.ElementsMatch(t, []uuid.UUID{clientA.ID, clientB.ID}, scope.Logs.BranchClientIDs)

	// A log at one of the manager's clients passes, one elsewhere does not.
	inScope := &MaintenanceLog{Branch: &Branch{ClientID: clientA.ID}}
	outOfScope := &MaintenanceLog{Branch: &Branch{ClientID: uuid.Must(uuid.NewV7())}}
	assert.True(t, scope.Logs.Allows(inScope))
	assert.False(t, scope.Logs.Allows(outOfScope))
}

func TestResolve_ProjectManagerWithoutClients(t *testing.T) {
	service, repo := newScopeFixture()
	manager := addScopeUser(repo, RoleProjectManager, nil, nil)

	scope, err := service.Resolve(context.Background(), manager.Principal())
	require.NoError(t, err)

	// Empty assignment means empty results, never an error.
	assert.True(t, scope.Clients.MatchesNone())
	assert.True(t, scope.Branches.MatchesNone())
	assert.True(t, scope.Logs.MatchesNone())
}

func TestResolve_BranchManager(t *testing.T) {
	service, repo := newScopeFixture()

	clientID := uuid.Must(uuid.NewV7())
	branchA := newBranch(clientID)
	branchB := newBranch(clientID)
	manager := addScopeUser(repo, RoleBranchManager, nil, []Branch{branchA, branchB})

	scope, err := service.Resolve(context.Background(), manager.Principal())
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{branchA.ID, branchB.ID}, scope.Branches.IDs)
	// The owning client appears once despite two branches.
	assert.Equal(t, []uuid.UUID{clientID}, scope.Clients.IDs)
	assert.ElementsMatch(t, []uuid.UUID{branchA.ID, branchB.ID}, scope.Logs.BranchIDs)

	inScope := &MaintenanceLog{BranchID: branchA.ID}
	outOfScope := &MaintenanceLog{BranchID: uuid.Must(uuid.NewV7())}
	assert.True(t, scope.Logs.Allows(inScope))
	assert.False(t, scope.Logs.Allows(outOfScope))
}

func TestResolve_FieldStaff(t *testing.T) {
	service, repo := newScopeFixture()

	branch := newBranch(uuid.Must(uuid.NewV7()))
	staff := addScopeUser(repo, RoleFieldStaff, nil, []Branch{branch})

	scope, err := service.Resolve(context.Background(), staff.Principal())
	require.NoError(t, err)

	// Log filter matches only the staff member's own logs, regardless of
	// branch.
	require.NotNil(t, scope.Logs.StaffID)
	assert.Equal(t, staff.ID, *scope.Logs.StaffID)

	own := &MaintenanceLog{StaffID: staff.ID, BranchID: uuid.Must(uuid.NewV7())}
	foreign := &MaintenanceLog{StaffID: uuid.Must(uuid.NewV7()), BranchID: branch.ID}
	assert.True(t, scope.Logs.Allows(own))
	assert.False(t, scope.Logs.Allows(foreign))

	// User filter is self only.
	require.NotNil(t, scope.Users.SelfID)
	assert.Equal(t, staff.ID, *scope.Users.SelfID)
}

func TestResolve_UnknownPrincipal(t *testing.T) {
	service, _ := newScopeFixture()

	principal := Principal{UserID: uuid.Must(uuid.NewV7()), Role: RoleFieldStaff}
	_, err := service.Resolve(context.Background(), principal)
	assert.Error(t, err)
}

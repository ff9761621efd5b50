package maintenanceController

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bakimtrack/internal/apperrors"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeBranchRepo struct {
	branches map[uuid.UUID]*Branch
}

func (f *fakeBranchRepo) GetByID(_ context.Context, id uuid.UUID) (*Branch, error) {
	branch, ok := f.branches[id]
	if !ok {
		return nil, fmt.Errorf("%w: branch", apperrors.ErrNotFound)
	}
	copied := *branch
	return &copied, nil
}

func (f *fakeBranchRepo) List(context.Context, BranchFilter) ([]Branch, error) {
	return nil, nil
}

func (f *fakeBranchRepo) ListForClient(context.Context, uuid.UUID) ([]Branch, error) {
	return nil, nil
}

func (f *fakeBranchRepo) Count(context.Context, BranchFilter) (int64, error) { return 0, nil }

func (f *fakeBranchRepo) CountForClient(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeBranchRepo) Create(_ context.Context, branch *Branch) error {
	f.branches[branch.ID] = branch
	return nil
}

func (f *fakeBranchRepo) Update(_ context.Context, branch *Branch) error {
	f.branches[branch.ID] = branch
	return nil
}

func (f *fakeBranchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.branches, id)
	return nil
}

type fakeTemplateRepo struct {
	templates map[uuid.UUID]*ChecklistTemplate
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*ChecklistTemplate, error) {
	template, ok := f.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: template", apperrors.ErrNotFound)
	}
	return template, nil
}

func (f *fakeTemplateRepo) ListAll(context.Context) ([]ChecklistTemplate, error) {
	return nil, nil
}

func (f *fakeTemplateRepo) ListForClient(
	_ context.Context,
	clientID uuid.UUID,
) ([]ChecklistTemplate, error) {
	var templates []ChecklistTemplate
	for _, template := range f.templates {
		if template.IsGlobal || (template.ClientID != nil && *template.ClientID == clientID) {
			templates = append(templates, *template)
		}
	}
	return templates, nil
}

func (f *fakeTemplateRepo) Create(_ context.Context, template *ChecklistTemplate) error {
	f.templates[template.ID] = template
	return nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, template *ChecklistTemplate) error {
	f.templates[template.ID] = template
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.templates, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(context.Context, string) (*User, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) List(context.Context, UserFilter) ([]User, error) { return nil, nil }

func (f *fakeUserRepo) Count(context.Context, UserFilter) (int64, error) { return 0, nil }

func (f *fakeUserRepo) Create(_ context.Context, user *User, _, _ []uuid.UUID) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *User, _, _ []uuid.UUID) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

type fakeLogRepo struct {
	branches map[uuid.UUID]*Branch
	logs     map[uuid.UUID]*MaintenanceLog
}

func (f *fakeLogRepo) GetByID(_ context.Context, id uuid.UUID) (*MaintenanceLog, error) {
	log, ok := f.logs[id]
	if !ok {
		return nil, fmt.Errorf("%w: maintenance log", apperrors.ErrNotFound)
	}
	copied := *log
	if branch, ok := f.branches[log.BranchID]; ok {
		copied.Branch = branch
	}
	copied.ChecklistItems = append([]ChecklistItem{}, log.ChecklistItems...)
	copied.Photos = append([]Photo{}, log.Photos...)
	return &copied, nil
}

func (f *fakeLogRepo) List(
	_ context.Context,
	filter LogFilter,
	status *Status,
	_ int,
) ([]MaintenanceLog, error) {
	var logs []MaintenanceLog
	for _, log := range f.logs {
		if branch, ok := f.branches[log.BranchID]; ok {
			log.Branch = branch
		}
		if !filter.Allows(log) {
			continue
		}
		if status != nil && log.Status != *status {
			continue
		}
		logs = append(logs, *log)
	}
	return logs, nil
}

func (f *fakeLogRepo) ListForBranch(
	_ context.Context,
	branchID uuid.UUID,
) ([]MaintenanceLog, error) {
	var logs []MaintenanceLog
	for _, log := range f.logs {
		if log.BranchID == branchID {
			logs = append(logs, *log)
		}
	}
	return logs, nil
}

func (f *fakeLogRepo) ListActiveForBranch(
	_ context.Context,
	branchID uuid.UUID,
) ([]MaintenanceLog, error) {
	var logs []MaintenanceLog
	for _, log := range f.logs {
		if log.BranchID != branchID || log.IsArchived {
			continue
		}
		for _, status := range ActiveStatuses {
			if log.Status == status {
				logs = append(logs, *log)
				break
			}
		}
	}
	return logs, nil
}

func (f *fakeLogRepo) ListOpenForStaff(
	_ context.Context,
	staffID uuid.UUID,
) ([]MaintenanceLog, error) {
	var logs []MaintenanceLog
	for _, log := range f.logs {
		if log.StaffID == staffID && !log.IsArchived && log.Status.IsOpen() {
			logs = append(logs, *log)
		}
	}
	return logs, nil
}

func (f *fakeLogRepo) Count(context.Context, LogFilter, *Status) (int64, error) {
	return int64(len(f.logs)), nil
}

func (f *fakeLogRepo) ListPhotoURLs(context.Context) ([]string, error) { return nil, nil }

func (f *fakeLogRepo) Create(_ context.Context, log *MaintenanceLog) error {
	log.ID = uuid.Must(uuid.NewV7())
	for i := range log.ChecklistItems {
		log.ChecklistItems[i].ID = uuid.Must(uuid.NewV7())
		log.ChecklistItems[i].LogID = log.ID
	}
	f.logs[log.ID] = log
	return nil
}

func (f *fakeLogRepo) Save(_ context.Context, _ *gorm.DB, log *MaintenanceLog) error {
	stored, ok := f.logs[log.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.Status = log.Status
	stored.Notes = log.Notes
	stored.IsArchived = log.IsArchived
	stored.CompletedAt = log.CompletedAt
	return nil
}

func (f *fakeLogRepo) UpdateChecklistItem(
	_ context.Context,
	_ *gorm.DB,
	logID, itemID uuid.UUID,
	isChecked bool,
	note *string,
) error {
	log, ok := f.logs[logID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for i := range log.ChecklistItems {
		if log.ChecklistItems[i].ID == itemID {
			log.ChecklistItems[i].IsChecked = isChecked
			log.ChecklistItems[i].Note = note
			return nil
		}
	}
	return fmt.Errorf("%w: checklist item does not belong to log", apperrors.ErrNotFound)
}

func (f *fakeLogRepo) AppendPhotos(
	_ context.Context,
	_ *gorm.DB,
	logID uuid.UUID,
	urls []string,
) error {
	log, ok := f.logs[logID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, url := range urls {
		photo := Photo{LogID: logID, URL: url}
		photo.ID = uuid.Must(uuid.NewV7())
		log.Photos = append(log.Photos, photo)
	}
	return nil
}

// passTransactor runs the function directly; fakes have no transactions.
type passTransactor struct{}

func (passTransactor) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	return fn(ctx, nil)
}

type fixture struct {
	controller MaintenanceControllerInterface
	branches   *fakeBranchRepo
	templates  *fakeTemplateRepo
	users      *fakeUserRepo
	logs       *fakeLogRepo
}

func newFixture() *fixture {
	branches := &fakeBranchRepo{branches: map[uuid.UUID]*Branch{}}
	templates := &fakeTemplateRepo{templates: map[uuid.UUID]*ChecklistTemplate{}}
	users := &fakeUserRepo{users: map[uuid.UUID]*User{}}
	logs := &fakeLogRepo{branches: branches.branches, logs: map[uuid.UUID]*MaintenanceLog{}}

	repos := repositories.Repository{
		User:     users,
		Branch:   branches,
		Template: templates,
		Log:      logs,
	}

	controller := New(
		repos,
		services.NewScopeService(users),
		services.NewChecklistService(templates),
		passTransactor{},
	)

	return &fixture{
		controller: controller,
		branches:   branches,
		templates:  templates,
		users:      users,
		logs:       logs,
	}
}

func (f *fixture) addBranch(name, qrCode string, clientID uuid.UUID) *Branch {
	branch := &Branch{Name: name, QRCode: qrCode, ClientID: clientID}
	branch.ID = uuid.Must(uuid.NewV7())
	f.branches.branches[branch.ID] = branch
	return branch
}

func (f *fixture) addUser(role Role, branches ...*Branch) *User {
	user := &User{Role: role}
	user.ID = uuid.Must(uuid.NewV7())
	for _, branch := range branches {
		user.AssignedBranches = append(user.AssignedBranches, *branch)
	}
	f.users.users[user.ID] = user
	return user
}

func TestValidateQR(t *testing.T) {
	f := newFixture()
	clientID := uuid.Must(uuid.NewV7())
	branch := f.addBranch("Acme-Downtown", "ABC123", clientID)

	t.Run("wrong code", func(t *testing.T) {
		_, err := f.controller.ValidateQR(context.Background(), branch.ID, "WRONG")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCode))
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, err := f.controller.ValidateQR(context.Background(), uuid.Must(uuid.NewV7()), "ABC123")
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("valid scan", func(t *testing.T) {
		result, err := f.controller.ValidateQR(context.Background(), branch.ID, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, branch.ID, result.Branch.ID)
		assert.Empty(t, result.ActiveLogs)
	})
}

func TestStartLog_DefaultChecklist(t *testing.T) {
	f := newFixture()
	branch := f.addBranch("Acme-Downtown", "ABC123", uuid.Must(uuid.NewV7()))
	staff := f.addUser(RoleFieldStaff, branch)

	log, err := f.controller.StartLog(
		context.Background(),
		staff.Principal(),
		&StartLogRequest{BranchID: branch.ID},
	)
	require.NoError(t, err)

	assert.Equal(t, StatusInProgress, log.Status)
	assert.Equal(t, staff.ID, log.StaffID)
	require.Len(t, log.ChecklistItems, len(services.DefaultChecklistQuestions))
	for i, item := range log.ChecklistItems {
		assert.Equal(t, services.DefaultChecklistQuestions[i], item.Question)
		assert.False(t, item.IsChecked)
	}
	assert.Nil(t, log.Instructions)
}

func TestStartLog_FromTemplate(t *testing.T) {
	f := newFixture()
	clientID := uuid.Must(uuid.NewV7())
	branch := f.addBranch("Acme-Downtown", "ABC123", clientID)
	staff := f.addUser(RoleFieldStaff, branch)

	instructions := "Dikkatli olun"
	template := &ChecklistTemplate{
		Name:         "Kombi bakımı",
		Items:        datatypes.JSONSlice[string]{"Soru 1", "Soru 2", "Soru 3"},
		Instructions: &instructions,
		ClientID:     &clientID,
	}
	template.ID = uuid.Must(uuid.NewV7())
	f.templates.templates[template.ID] = template

	log, err := f.controller.StartLog(
		context.Background(),
		staff.Principal(),
		&StartLogRequest{BranchID: branch.ID, TemplateID: &template.ID},
	)
	require.NoError(t, err)

	require.Len(t, log.ChecklistItems, 3)
	assert.Equal(t, "Soru 1", log.ChecklistItems[0].Question)
	assert.Equal(t, "Soru 3", log.ChecklistItems[2].Question)
	require.NotNil(t, log.Instructions)
	assert.Equal(t, instructions, *log.Instructions)
}

func TestStartLog_RequiresTechnician(t *testing.T) {
	f := newFixture()
	branch := f.addBranch("Acme-Downtown", "ABC123", uuid.Must(uuid.NewV7()))
	manager := f.addUser(RoleBranchManager, branch)

	_, err := f.controller.StartLog(
		context.Background(),
		manager.Principal(),
		&StartLogRequest{BranchID: branch.ID},
	)
	assert.True(t, errors.Is(err, apperrors.ErrAccessDenied))
}

func TestUpdateLog_ChecklistItemNotInLog(t *testing.T) {
	f := newFixture()
	branch := f.addBranch("Acme-Downtown", "ABC123", uuid.Must(uuid.NewV7()))
	staff := f.addUser(RoleFieldStaff, branch)

	log, err := f.controller.StartLog(
		context.Background(),
		staff.Principal(),
		&StartLogRequest{BranchID: branch.ID},
	)
	require.NoError(t, err)

	_, err = f.controller.UpdateLog(
		context.Background(),
		staff.Principal(),
		log.ID,
		&UpdateLogRequest{
			ChecklistItems: []ChecklistItemUpdate{
				{ID: uuid.Must(uuid.NewV7()), IsChecked: true},
			},
		},
	)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateLog_ArchiveFlagIsAdminOnly(t *testing.T) {
	f := newFixture()
	branch := f.addBranch("Acme-Downtown", "ABC123", uuid.Must(uuid.NewV7()))
	staff := f.addUser(RoleFieldStaff, branch)

	log, err := f.controller.StartLog(
		context.Background(),
		staff.Principal(),
		&StartLogRequest{BranchID: branch.ID},
	)
	require.NoError(t, err)

	archived := true
	_, err = f.controller.UpdateLog(
		context.Background(),
		staff.Principal(),
		log.ID,
		&UpdateLogRequest{IsArchived: &archived},
	)
	assert.True(t, errors.Is(err, apperrors.ErrAccessDenied))

	admin := f.addUser(RoleSuperAdmin)
	updated, err := f.controller.UpdateLog(
		context.Background(),
		admin.Principal(),
		log.ID,
		&UpdateLogRequest{IsArchived: &archived},
	)
	require.NoError(t, err)
	assert.True(t, updated.IsArchived)
}

// Full lifecycle: scan, start, submit, approve, with an out-of-scope
// manager refused along the way.
func TestLogLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	clientID := uuid.Must(uuid.NewV7())
	branch := f.addBranch("Acme-Downtown", "ABC123", clientID)
	otherBranch := f.addBranch("Other-Site", "XYZ789", uuid.Must(uuid.NewV7()))

	staff := f.addUser(RoleFieldStaff, branch)
	manager := f.addUser(RoleBranchManager, branch)
	outsider := f.addUser(RoleBranchManager, otherBranch)

	scan, err := f.controller.ValidateQR(ctx, branch.ID, "ABC123")
	require.NoError(t, err)
	assert.Empty(t, scan.ActiveLogs)

	log, err := f.controller.StartLog(ctx, staff.Principal(), &StartLogRequest{BranchID: branch.ID})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, log.Status)

	// The open log now shows up on a fresh scan.
	scan, err = f.controller.ValidateQR(ctx, branch.ID, "ABC123")
	require.NoError(t, err)
	require.Len(t, scan.ActiveLogs, 1)

	// Staff checks everything and submits.
	status := StatusPendingApproval
	updates := make([]ChecklistItemUpdate, len(log.ChecklistItems))
	for i, item := range log.ChecklistItems {
		updates[i] = ChecklistItemUpdate{ID: item.ID, IsChecked: true}
	}
	notes := "Her şey tamam"
	log, err = f.controller.UpdateLog(ctx, staff.Principal(), log.ID, &UpdateLogRequest{
		Status:         &status,
		Notes:          &notes,
		ChecklistItems: updates,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, log.Status)
	for _, item := range log.ChecklistItems {
		assert.True(t, item.IsChecked)
	}

	// A manager outside the branch cannot approve.
	approved := StatusApproved
	_, err = f.controller.UpdateLog(ctx, outsider.Principal(), log.ID, &UpdateLogRequest{
		Status: &approved,
	})
	assert.True(t, errors.Is(err, apperrors.ErrAccessDenied))

	// The assigned manager can.
	log, err = f.controller.UpdateLog(ctx, manager.Principal(), log.ID, &UpdateLogRequest{
		Status: &approved,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, log.Status)
	require.NotNil(t, log.CompletedAt)
	assert.True(t, !log.CompletedAt.Before(log.Date))
}

func TestListLogs_ScopedPerRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	clientID := uuid.Must(uuid.NewV7())
	branch := f.addBranch("Acme-Downtown", "ABC123", clientID)
	otherBranch := f.addBranch("Other-Site", "XYZ789", uuid.Must(uuid.NewV7()))

	staff := f.addUser(RoleFieldStaff, branch)
	otherStaff := f.addUser(RoleFieldStaff, otherBranch)
	manager := f.addUser(RoleBranchManager, branch)
	admin := f.addUser(RoleSuperAdmin)

	_, err := f.controller.StartLog(ctx, staff.Principal(), &StartLogRequest{BranchID: branch.ID})
	require.NoError(t, err)
	_, err = f.controller.StartLog(ctx, otherStaff.Principal(),
		&StartLogRequest{BranchID: otherBranch.ID})
	require.NoError(t, err)

	adminLogs, err := f.controller.ListLogs(ctx, admin.Principal(), &ListLogsRequest{})
	require.NoError(t, err)
	assert.Len(t, adminLogs, 2)

	staffLogs, err := f.controller.ListLogs(ctx, staff.Principal(), &ListLogsRequest{})
	require.NoError(t, err)
	require.Len(t, staffLogs, 1)
	assert.Equal(t, staff.ID, staffLogs[0].StaffID)

	managerLogs, err := f.controller.ListLogs(ctx, manager.Principal(), &ListLogsRequest{})
	require.NoError(t, err)
	require.Len(t, managerLogs, 1)
	assert.Equal(t, branch.ID, managerLogs[0].BranchID)

	_, err = f.controller.ListLogsForBranch(ctx, manager.Principal(), otherBranch.ID)
	assert.True(t, errors.Is(err, apperrors.ErrAccessDenied))
}

package repositories

import (
	"context"
	"time"

	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	USER_CACHE_EXPIRY  = 24 * time.Hour
	USER_CACHE_PREFIX  = "user:"
	EMAIL_CACHE_PREFIX = "email:"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	Create(ctx context.Context, user *User, clientIDs, branchIDs []uuid.UUID) error
	Update(ctx context.Context, user *User, clientIDs, branchIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

// GetByID returns the user with its client and branch assignments. The
// assignments are what the scope resolver derives filters from, so the
// cached copy always carries them.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := r.getCacheByID(ctx, id, &user); err == nil {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).
		Preload("Clients").
		Preload("AssignedBranches").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, dbError(log, err, "failed to get user by id", "id", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	// Try the email -> id mapping first so the primary cache is reused
	var userID uuid.UUID
	found, err := database.NewCacheBuilder(r.db.Cache.User, EMAIL_CACHE_PREFIX+email).
		WithContext(ctx).
		Get(&userID)
	if err == nil && found {
		var cached User
		if err := r.getCacheByID(ctx, userID, &cached); err == nil {
			return &cached, nil
		}
	}

	var user User
	if err := r.db.SQLWithContext(ctx).
		Preload("Clients").
		Preload("AssignedBranches").
		First(&user, "email = ?", email).Error; err != nil {
		return nil, dbError(log, err, "failed to get user by email", "email", email)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, EMAIL_CACHE_PREFIX+email).
		WithStruct(user.ID).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache email mapping", "email", email, "error", err)
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]User, error) {
	log := r.log.Function("List")

	if filter.MatchesNone() {
		return []User{}, nil
	}

	query := r.applyFilter(r.db.SQLWithContext(ctx), filter)

	var users []User
	if err := query.
		Preload("Clients").
		Preload("AssignedBranches").
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, dbError(log, err, "failed to list users")
	}

	return users, nil
}

func (r *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	log := r.log.Function("Count")

	if filter.MatchesNone() {
		return 0, nil
	}

	var count int64
	query := r.applyFilter(r.db.SQLWithContext(ctx).Model(&User{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, dbError(log, err, "failed to count users")
	}

	return count, nil
}

func (r *userRepository) applyFilter(query *gorm.DB, filter UserFilter) *gorm.DB {
	switch {
	case filter.Unrestricted:
		return query
	case filter.SelfID != nil:
		return query.Where("id = ?", *filter.SelfID)
	case len(filter.BranchIDs) > 0:
		return query.Where(
			"id IN (SELECT user_id FROM user_branches WHERE branch_id IN ?)",
			filter.BranchIDs,
		)
	default:
		return query.Where(
			"id IN (SELECT ub.user_id FROM user_branches ub JOIN branches b ON b.id = ub.branch_id WHERE b.client_id IN ?)",
			filter.BranchClientIDs,
		)
	}
}

func (r *userRepository) Create(
	ctx context.Context,
	user *User,
	clientIDs, branchIDs []uuid.UUID,
) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return dbError(log, err, "failed to create user", "email", user.Email)
	}

	if err := r.replaceAssignments(ctx, user, clientIDs, branchIDs); err != nil {
		return err
	}

	return nil
}

// Update saves the user record and replaces both assignment sets wholesale.
func (r *userRepository) Update(
	ctx context.Context,
	user *User,
	clientIDs, branchIDs []uuid.UUID,
) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return dbError(log, err, "failed to update user", "userID", user.ID)
	}

	if err := r.replaceAssignments(ctx, user, clientIDs, branchIDs); err != nil {
		return err
	}

	if err := r.clearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) replaceAssignments(
	ctx context.Context,
	user *User,
	clientIDs, branchIDs []uuid.UUID,
) error {
	log := r.log.Function("replaceAssignments")
	db := r.db.SQLWithContext(ctx)

	clients := make([]Client, len(clientIDs))
	for i, id := range clientIDs {
		clients[i] = Client{BaseUUIDModel: BaseUUIDModel{ID: id}}
	}
	if err := db.Model(user).Association("Clients").Replace(clients); err != nil {
		return dbError(log, err, "failed to replace client assignments", "userID", user.ID)
	}

	branches := make([]Branch, len(branchIDs))
	for i, id := range branchIDs {
		branches[i] = Branch{BaseUUIDModel: BaseUUIDModel{ID: id}}
	}
	if err := db.Model(user).Association("AssignedBranches").Replace(branches); err != nil {
		return dbError(log, err, "failed to replace branch assignments", "userID", user.ID)
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.db.SQLWithContext(ctx).Delete(&User{}, "id = ?", id).Error; err != nil {
		return dbError(log, err, "failed to delete user", "userID", id)
	}

	if err := r.clearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after delete", "userID", id, "error", err)
	}

	return nil
}

func (r *userRepository) getCacheByID(ctx context.Context, userID uuid.UUID, user *User) error {
	cacheKey := USER_CACHE_PREFIX + userID.String()
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Get(user)
	if err != nil {
		return r.log.Function("getCacheByID").
			Err("failed to get user from cache", err, "userID", userID)
	}

	if !found {
		return r.log.Function("getCacheByID").
			Error("user not found in cache", "userID", userID)
	}

	return nil
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	cacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addUserToCache").
			Err("failed to add user to cache", err, "userID", user.ID)
	}
	return nil
}

func (r *userRepository) clearUserCache(ctx context.Context, user *User) error {
	log := r.log.Function("clearUserCache")

	userCacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, userCacheKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	emailCacheKey := EMAIL_CACHE_PREFIX + user.Email
	if err := database.NewCacheBuilder(r.db.Cache.User, emailCacheKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear email mapping cache", "email", user.Email, "error", err)
	}

	return nil
}

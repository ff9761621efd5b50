package dashboardController

import (
	"context"
	"time"

	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"
)

const (
	STATS_CACHE_PREFIX = "dashboard:"
	statsCacheTTL      = 60 * time.Second
)

// DashboardStats are the entity counts the landing page shows, computed
// through the caller's resolved scope so every role sees its own slice.
type DashboardStats struct {
	Clients         int64 `json:"clients"`
	Branches        int64 `json:"branches"`
	Users           int64 `json:"users"`
	Logs            int64 `json:"logs"`
	PendingApproval int64 `json:"pendingApproval"`
	Completed       int64 `json:"completed"`
}

type DashboardControllerInterface interface {
	GetStats(ctx context.Context, principal Principal) (*DashboardStats, error)
}

type DashboardController struct {
	repos repositories.Repository
	scope *services.ScopeService
	cache database.CacheClient
	log   logger.Logger
}

func New(
	repos repositories.Repository,
	scope *services.ScopeService,
	db database.DB,
) DashboardControllerInterface {
	return &DashboardController{
		repos: repos,
		scope: scope,
		cache: db.Cache.General,
		log:   logger.New("dashboardController"),
	}
}

// GetStats serves counts from a short-lived per-user cache. Stats are
// advisory; a stale minute is acceptable, a slow dashboard is not.
func (c *DashboardController) GetStats(
	ctx context.Context,
	principal Principal,
) (*DashboardStats, error) {
	log := c.log.Function("GetStats")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	cacheKey := STATS_CACHE_PREFIX + principal.UserID.String()

	var cached DashboardStats
	found, err := database.NewCacheBuilder(c.cache, cacheKey).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Warn("failed to read stats cache", "error", err)
	}
	if found {
		return &cached, nil
	}

	stats, err := c.computeStats(ctx, scope)
	if err != nil {
		return nil, err
	}

	if err := database.NewCacheBuilder(c.cache, cacheKey).
		WithContext(ctx).
		WithStruct(stats).
		WithTTL(statsCacheTTL).
		Set(); err != nil {
		log.Warn("failed to write stats cache", "error", err)
	}

	return stats, nil
}

func (c *DashboardController) computeStats(
	ctx context.Context,
	scope *Scope,
) (*DashboardStats, error) {
	log := c.log.Function("computeStats")

	stats := &DashboardStats{}
	var err error

	if stats.Clients, err = c.repos.Client.Count(ctx, scope.Clients); err != nil {
		return nil, log.Err("failed to count clients", err)
	}
	if stats.Branches, err = c.repos.Branch.Count(ctx, scope.Branches); err != nil {
		return nil, log.Err("failed to count branches", err)
	}
	if stats.Users, err = c.repos.User.Count(ctx, scope.Users); err != nil {
		return nil, log.Err("failed to count users", err)
	}
	if stats.Logs, err = c.repos.Log.Count(ctx, scope.Logs, nil); err != nil {
		return nil, log.Err("failed to count logs", err)
	}

	pending := StatusPendingApproval
	if stats.PendingApproval, err = c.repos.Log.Count(ctx, scope.Logs, &pending); err != nil {
		return nil, log.Err("failed to count pending logs", err)
	}

	completed := StatusCompleted
	if stats.Completed, err = c.repos.Log.Count(ctx, scope.Logs, &completed); err != nil {
		return nil, log.Err("failed to count completed logs", err)
	}

	return stats, nil
}

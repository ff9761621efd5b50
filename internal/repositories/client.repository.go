package repositories

import (
	"context"

	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, filter IDFilter, includeBranches bool) ([]Client, error)
	Count(ctx context.Context, filter IDFilter) (int64, error)
	ListLogoURLs(ctx context.Context) ([]string, error)
	Create(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientRepository struct {
	db  database.DB
	log logger.Logger
}

func NewClientRepository(db database.DB) ClientRepository {
	return &clientRepository{
		db:  db,
		log: logger.New("clientRepository"),
	}
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	log := r.log.Function("GetByID")

	var client Client
	if err := r.db.SQLWithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, dbError(log, err, "failed to get client by id", "id", id)
	}

	return &client, nil
}

func (r *clientRepository) List(
	ctx context.Context,
	filter IDFilter,
	includeBranches bool,
) ([]Client, error) {
	log := r.log.Function("List")

	if filter.MatchesNone() {
		return []Client{}, nil
	}

	query := r.applyFilter(r.db.SQLWithContext(ctx), filter)
	if includeBranches {
		query = query.Preload("Branches")
	}

	var clients []Client
	if err := query.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, dbError(log, err, "failed to list clients")
	}

	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, filter IDFilter) (int64, error) {
	log := r.log.Function("Count")

	if filter.MatchesNone() {
		return 0, nil
	}

	var count int64
	query := r.applyFilter(r.db.SQLWithContext(ctx).Model(&Client{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, dbError(log, err, "failed to count clients")
	}

	return count, nil
}

func (r *clientRepository) applyFilter(query *gorm.DB, filter IDFilter) *gorm.DB {
	if filter.Unrestricted {
		return query
	}
	return query.Where("id IN ?", filter.IDs)
}

func (r *clientRepository) ListLogoURLs(ctx context.Context) ([]string, error) {
	log := r.log.Function("ListLogoURLs")

	var urls []string
	err := r.db.SQLWithContext(ctx).
		Model(&Client{}).
		Where("logo IS NOT NULL").
		Pluck("logo", &urls).Error
	if err != nil {
		return nil, dbError(log, err, "failed to list client logo urls")
	}

	return urls, nil
}

func (r *clientRepository) Create(ctx context.Context, client *Client) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(client).Error; err != nil {
		return dbError(log, err, "failed to create client", "name", client.Name)
	}

	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *Client) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(client).Error; err != nil {
		return dbError(log, err, "failed to update client", "clientID", client.ID)
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Client{}, "id = ?", id).Error; err != nil {
		return dbError(log, err, "failed to delete client", "clientID", id)
	}

	return nil
}

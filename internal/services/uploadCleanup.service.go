package services

import (
	"context"
	"time"

	"bakimtrack/internal/logger"
	"bakimtrack/internal/repositories"
)

// Uploads younger than this are never touched, so a file written moments
// before its Photo row commits cannot be swept.
const uploadCleanupMinAge = 24 * time.Hour

// UploadCleanupService removes stored files no longer referenced by any
// maintenance photo or client logo.
type UploadCleanupService struct {
	storage *DiskStorageService
	clients repositories.ClientRepository
	logs    repositories.MaintenanceLogRepository
	log     logger.Logger
}

func NewUploadCleanupService(
	storage *DiskStorageService,
	clients repositories.ClientRepository,
	logs repositories.MaintenanceLogRepository,
) *UploadCleanupService {
	return &UploadCleanupService{
		storage: storage,
		clients: clients,
		logs:    logs,
		log:     logger.New("uploadCleanupService"),
	}
}

func (s *UploadCleanupService) CleanupOrphanedUploads(ctx context.Context) error {
	log := s.log.Function("CleanupOrphanedUploads")

	referenced, err := s.referencedFileNames(ctx)
	if err != nil {
		return log.Err("failed to collect referenced uploads", err)
	}

	stored, err := s.storage.ListFiles()
	if err != nil {
		return log.Err("failed to list stored uploads", err)
	}

	cutoff := time.Now().Add(-uploadCleanupMinAge)
	removed := 0
	for name, modTime := range stored {
		if referenced[name] || modTime.After(cutoff) {
			continue
		}
		if err := s.storage.Remove(name); err != nil {
			_ = log.Err("failed to remove orphaned upload", err, "file", name)
			continue
		}
		removed++
	}

	log.Info("Upload cleanup completed",
		"stored", len(stored), "referenced", len(referenced), "removed", removed)
	return nil
}

func (s *UploadCleanupService) referencedFileNames(
	ctx context.Context,
) (map[string]bool, error) {
	photoURLs, err := s.logs.ListPhotoURLs(ctx)
	if err != nil {
		return nil, err
	}

	logoURLs, err := s.clients.ListLogoURLs(ctx)
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool, len(photoURLs)+len(logoURLs))
	for _, url := range append(photoURLs, logoURLs...) {
		if name, ok := s.storage.URLToFileName(url); ok {
			referenced[name] = true
		}
	}

	return referenced, nil
}

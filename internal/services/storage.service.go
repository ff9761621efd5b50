package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bakimtrack/config"
	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"

	"github.com/google/uuid"
)

// BlobStorage stores opaque bytes and returns the URL they are served
// under. The core persists URL strings only, never raw bytes.
type BlobStorage interface {
	Store(ctx context.Context, data []byte, contentTypeHint string) (string, error)
}

// DiskStorageService is the local-disk blob store used for branch logos
// and maintenance photos.
type DiskStorageService struct {
	dir     string
	baseURL string
	log     logger.Logger
}

func NewDiskStorageService(config config.Config) (*DiskStorageService, error) {
	log := logger.New("diskStorageService")

	if err := os.MkdirAll(config.UploadDir, 0o755); err != nil {
		return nil, log.Err("failed to create upload directory", err, "dir", config.UploadDir)
	}

	return &DiskStorageService{
		dir:     config.UploadDir,
		baseURL: strings.TrimRight(config.UploadBaseURL, "/"),
		log:     log,
	}, nil
}

func (s *DiskStorageService) Store(
	ctx context.Context,
	data []byte,
	contentTypeHint string,
) (string, error) {
	log := s.log.Function("Store")

	if len(data) == 0 {
		return "", log.ErrorWithType(apperrors.ErrValidation, "empty upload")
	}

	name := uuid.NewString() + extensionForContentType(contentTypeHint)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", log.ErrorWithType(apperrors.ErrStoreUnavailable,
			"failed to write upload", "path", path, "error", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}

// ListFiles returns the stored file names with their modification times,
// used by the orphaned-upload cleanup job.
func (s *DiskStorageService) ListFiles() (map[string]time.Time, error) {
	log := s.log.Function("ListFiles")

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, log.Err("failed to read upload directory", err, "dir", s.dir)
	}

	files := make(map[string]time.Time, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files[entry.Name()] = info.ModTime()
	}

	return files, nil
}

func (s *DiskStorageService) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, name))
}

// URLToFileName maps a stored URL back to its on-disk name; returns false
// for URLs not served from this store.
func (s *DiskStorageService) URLToFileName(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

func extensionForContentType(hint string) string {
	switch hint {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}

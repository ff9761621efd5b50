package jobs

import (
	"context"

	"bakimtrack/internal/logger"
	"bakimtrack/internal/services"
)

type UploadCleanupJob struct {
	cleanup  *services.UploadCleanupService
	log      logger.Logger
	schedule services.Schedule
}

func NewUploadCleanupJob(
	cleanup *services.UploadCleanupService,
	schedule services.Schedule,
) *UploadCleanupJob {
	return &UploadCleanupJob{
		cleanup:  cleanup,
		log:      logger.New("uploadCleanupJob"),
		schedule: schedule,
	}
}

func (j *UploadCleanupJob) Name() string {
	return "DailyUploadCleanup"
}

func (j *UploadCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting scheduled upload cleanup")

	if err := j.cleanup.CleanupOrphanedUploads(ctx); err != nil {
		return log.Err("scheduled upload cleanup failed", err)
	}

	log.Info("Scheduled upload cleanup completed")
	return nil
}

func (j *UploadCleanupJob) Schedule() services.Schedule {
	return j.schedule
}

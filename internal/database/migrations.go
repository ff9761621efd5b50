package database

import (
	"bakimtrack/internal/logger"
	"bakimtrack/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Client{},
		&models.Branch{},
		&models.ChecklistTemplate{},
		&models.MaintenanceLog{},
		&models.ChecklistItem{},
		&models.Photo{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_maintenance_logs_branch_status ON maintenance_logs(branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_logs_staff_status ON maintenance_logs(staff_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_logs_date ON maintenance_logs(date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_checklist_templates_client_global ON checklist_templates(client_id, is_global)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}

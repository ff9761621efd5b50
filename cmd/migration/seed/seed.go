package seed

import (
	"bakimtrack/config"
	"bakimtrack/internal/logger"
	"bakimtrack/internal/services"

	. "bakimtrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed creates the initial administrator account and a global default
// template so a fresh install is usable immediately.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding initial data")

	if err := seedAdminUser(db, log); err != nil {
		return log.Err("failed to seed admin user", err)
	}

	if err := seedDefaultTemplate(db, log); err != nil {
		return log.Err("failed to seed default template", err)
	}

	return nil
}

func seedAdminUser(db *gorm.DB, log logger.Logger) error {
	const adminEmail = "admin@bakim.com"

	var existing User
	if err := db.First(&existing, "email = ?", adminEmail).Error; err == nil {
		log.Info("Admin user already exists", "email", adminEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        adminEmail,
		PasswordHash: string(hash),
		FullName:     "Süper Admin",
		Role:         RoleSuperAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info("Seeded admin user", "email", adminEmail)
	return nil
}

func seedDefaultTemplate(db *gorm.DB, log logger.Logger) error {
	const templateName = "Standart Bakım"

	var existing ChecklistTemplate
	if err := db.First(&existing, "name = ?", templateName).Error; err == nil {
		log.Info("Default template already exists", "name", templateName)
		return nil
	}

	template := ChecklistTemplate{
		Name:     templateName,
		Items:    datatypes.JSONSlice[string](services.DefaultChecklistQuestions),
		IsGlobal: true,
	}

	if err := db.Create(&template).Error; err != nil {
		return err
	}

	log.Info("Seeded default template", "name", templateName)
	return nil
}

package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"plangen/config"
	"plangen/models"
	"plangen/models/roadmap"
)

// Connect opens the PostgreSQL connection and runs migrations. The handle is
// returned to the caller and injected where needed; nothing holds it
// globally.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate performs database migrations for all models.
func Migrate(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.Profile{},
		&models.Dashboard{},
		&models.CalendarEvent{},
		&models.Order{},
		&models.Setting{},
		&roadmap.Module{},
		&roadmap.Step{},
		&roadmap.QuizItem{},
		&roadmap.ChecklistItem{},
		&roadmap.StepProgress{},
		&roadmap.QuizProgress{},
		&roadmap.ChecklistProgress{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully.")
	return nil
}

package database

import (
	"fmt"
	"log"

	"iglesia360/internal/config"
	"iglesia360/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Ministry{},
		&model.Solicitud{},
		&model.SolicitudItem{},
		&model.Attachment{},
		&model.ApprovalInfo{},
		&model.AuditLog{},
	}
}

// NewConnection opens the configured gorm driver and migrates the schema
func NewConnection(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DB.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("storage driver %q has no database", cfg.StorageDriver)
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}
	return db, nil
}

// Open wraps gorm.Open with the settings shared by every driver
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

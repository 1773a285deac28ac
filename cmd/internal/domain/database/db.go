// Package database opens the relational store and migrates its schema.
package database

import (
	"fmt"
	"strings"
	"time"

	"alumninet/cmd/internal/config"
	"alumninet/cmd/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the database named by cfg.URL and migrates it.
// sqlite:// URLs open a local file, postgres:// URLs the hosted backend.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		maxOpen   = cfg.MaxOpenConns
		maxIdle   = cfg.MaxIdleConns
	)

	switch {
	case strings.HasPrefix(cfg.URL, "sqlite://"):
		dialector = sqlite.Open(sqliteDSN(strings.TrimPrefix(cfg.URL, "sqlite://")))
		// SQLite allows a single writer
		maxOpen, maxIdle = 1, 1
	case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
		dialector = postgres.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database URL %q", cfg.URL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infof("Database ready (%s)", dialector.Name())
	return db, nil
}

// OpenMemory opens a migrated in-memory SQLite database. Used by tests.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(":memory:")), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Every new connection would see its own empty database
	sqlDB.SetMaxOpenConns(1)

	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Profile{},
		&entity.Job{},
		&entity.Event{},
		&entity.EventRsvp{},
		&entity.SuccessStory{},
		&entity.Notification{},
		&entity.Connection{},
	)
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

package services

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/startinfo/academy_api/config"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/seed/seeders"
	"github.com/startinfo/academy_api/shared"
	"gorm.io/gorm"
)

// DatabaseService is implemented by both PostgresService and SqliteService.
type DatabaseService interface {
	Db() *gorm.DB
	HandleError(err error) error
}

// resolveDatabase picks the first registered database service.
func resolveDatabase(candidates ...interface{}) (DatabaseService, error) {
	for _, c := range candidates {
		if db, ok := c.(DatabaseService); ok && db != nil && db.Db() != nil {
			return db, nil
		}
	}
	return nil, errors.New("no database service registered")
}

func migrateAndSeed(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Models()...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	if config.GetBool("db.seed", false) {
		if err := seeders.NewMainSeeder(db).SeedAll(); err != nil {
			log.Printf("Failed to seed initial data: %v", err)
			return err
		}
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey recognises the translated gorm error as well as raw
// Postgres and SQLite unique violations.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// classifyDBError turns a repository error into an AppError and logs it.
func classifyDBError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *shared.AppError
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		errorType = "NOT_FOUND"
		appErr = shared.NewNotFoundError(err, "Not Found")
	case IsDuplicateKey(err):
		errorType = "UNIQUE_CONSTRAINT"
		appErr = shared.NewConflictError(err, "Conflict")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		errorType = "FOREIGN_KEY_VIOLATION"
		appErr = shared.NewBadRequestError(err, "Bad Request")
	case errors.Is(err, gorm.ErrInvalidTransaction):
		errorType = "TRANSACTION_ERROR"
		appErr = shared.NewInternalError(err, "Internal Server Error")
	case strings.Contains(err.Error(), "connection refused"):
		errorType = "DATABASE_CONNECTION_ERROR"
		appErr = shared.NewInternalError(err, "Internal Server Error")
	default:
		errorType = "INTERNAL_ERROR"
		appErr = shared.NewInternalError(err, "Internal Server Error")
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": appErr.StatusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if appErr.StatusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	appErr.Err = fmt.Errorf("%s: %w", errorType, err)
	return appErr
}

package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/startinfo/academy_api/config"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/seed/seeders"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	var (
		seedType = flag.String("type", "all", "Type of seeding: all, users, courses")
		dbPath   = flag.String("db", "", "SQLite database path (overrides DB_DATABASE)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if err := config.Load(os.Getenv("CONFIG_FILE")); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := openDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(model.Models()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Info("Running complete database seeding...")
		err = mainSeeder.SeedAll()
	case "users":
		log.Info("Seeding users only...")
		err = mainSeeder.SeedUsersOnly()
	case "courses":
		log.Info("Seeding courses only...")
		err = mainSeeder.SeedCoursesOnly()
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'users' or 'courses'", *seedType)
	}
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Info("Seeding operation completed successfully!")
}

func openDatabase(dbPath string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	if config.GetString("db.driver", "sqlite") == "postgres" {
		dsn := config.GetString("database.url", "")
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				config.GetString("db.host", "localhost"),
				config.GetString("db.user", "postgres"),
				config.GetString("db.password", ""),
				config.GetString("db.name", "academy"),
				config.GetString("db.port", "5432"),
				config.GetString("db.sslmode", "disable"),
			)
		}
		log.WithField("driver", "postgres").Info("Connecting to database")
		return gorm.Open(postgres.Open(dsn), gormConfig)
	}

	if dbPath == "" {
		dbPath = config.GetString("db.database", "academy.db")
	}
	log.WithField("path", dbPath).Info("Connecting to database")
	return gorm.Open(sqlite.Open(dbPath), gormConfig)
}

func showHelp() {
	fmt.Println(`
Database Seeding Tool for the StartInfo academy

Usage: go run ./seed [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, users, courses
  -db string
        SQLite database path (overrides DB_DATABASE)
  -help
        Show this help message

Environment Variables:
  DB_DRIVER   - sqlite (default) or postgres
  DB_DATABASE - SQLite database path (default: academy.db)
  DATABASE_URL or DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME - Postgres connection`)
}

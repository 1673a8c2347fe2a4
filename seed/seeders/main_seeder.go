package seeders

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	logrus.Info("Starting database seeding...")

	if err := s.SeedUsersOnly(); err != nil {
		logrus.WithError(err).Error("User seeding failed")
		return err
	}

	if err := s.SeedCoursesOnly(); err != nil {
		logrus.WithError(err).Error("Course seeding failed")
		return err
	}

	logrus.Info("Database seeding completed successfully!")
	return nil
}

// SeedUsersOnly seeds only the development accounts
func (s *MainSeeder) SeedUsersOnly() error {
	return NewUserSeeder(s.db).SeedUsers()
}

// SeedCoursesOnly seeds only the course catalog
func (s *MainSeeder) SeedCoursesOnly() error {
	return NewCourseSeeder(s.db).SeedCourses()
}

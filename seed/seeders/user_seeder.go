package seeders

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/shared"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TestUserID       = "user_test_student"
	TestUserEmail    = "test@startinfo.com"
	TestUserPassword = "testpass123"
)

// UserSeeder handles seeding development accounts
type UserSeeder struct {
	db *gorm.DB
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

// SeedUsers creates the test student unless an account with its email exists
func (s *UserSeeder) SeedUsers() error {
	var existing model.User
	err := s.db.Where("email = ?", TestUserEmail).First(&existing).Error
	if err == nil {
		logrus.WithField("email", TestUserEmail).Info("Test user already exists, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		ID:       TestUserID,
		Email:    TestUserEmail,
		Name:     "Test User",
		Password: string(hashedPassword),
		Role:     shared.RoleStudent,
		Verified: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("Error creating test user")
		return err
	}

	logrus.WithField("email", user.Email).Info("Created test user")
	return nil
}

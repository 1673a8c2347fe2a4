package testutils

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/startinfo/academy_api/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TestPassword = "Password123"

// CreateTestUser creates a student with a unique email and TestPassword
func CreateTestUser(db *gorm.DB, opts ...UserOption) *model.User {
	uniqueID := uuid.NewString()

	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("Failed to hash test password: %v", err))
	}

	testUser := &model.User{
		ID:       uniqueID,
		Email:    fmt.Sprintf("test_%s@example.com", uniqueID),
		Name:     "Test Student",
		Password: string(hashed),
		Role:     "STUDENT",
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return testUser
}

// UserOption configures test user
type UserOption func(*model.User)

// WithEmail sets the email
func WithEmail(email string) UserOption {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithName sets the display name
func WithName(name string) UserOption {
	return func(u *model.User) {
		u.Name = name
	}
}

// CreateTestCourse creates a published course with lessonCount lessons
// ordered 1..lessonCount. Returned lessons are in order.
func CreateTestCourse(db *gorm.DB, lessonCount int, opts ...CourseOption) *model.Course {
	uniqueID := uuid.NewString()

	testCourse := &model.Course{
		ID:          uniqueID,
		Title:       fmt.Sprintf("Test course %s", uniqueID[:8]),
		Description: "Test course description",
		Level:       "BEGINNER",
		Duration:    60,
		Published:   true,
	}

	for i := 1; i <= lessonCount; i++ {
		testCourse.Lessons = append(testCourse.Lessons, model.Lesson{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Lesson %d", i),
			Description: "Test lesson description",
			Content:     "# Lesson",
			Duration:    10,
			Order:       i,
			IsPublished: true,
		})
	}

	for _, opt := range opts {
		opt(testCourse)
	}

	if err := db.Create(testCourse).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test course: %v", err))
	}

	return testCourse
}

// CourseOption configures test course
type CourseOption func(*model.Course)

// WithTitle sets the course title
func WithTitle(title string) CourseOption {
	return func(c *model.Course) {
		c.Title = title
	}
}

// Unpublished hides the course from the catalog listing
func Unpublished() CourseOption {
	return func(c *model.Course) {
		c.Published = false
	}
}

// WithLessonOrders overrides lesson orders, e.g. to leave gaps
func WithLessonOrders(orders ...int) CourseOption {
	return func(c *model.Course) {
		for i := range c.Lessons {
			if i < len(orders) {
				c.Lessons[i].Order = orders[i]
			}
		}
	}
}

// WithSimulator attaches a simulator to the lesson at index
func WithSimulator(index int, config, components string) CourseOption {
	return func(c *model.Course) {
		if index >= len(c.Lessons) {
			return
		}
		c.Lessons[index].Simulator = &model.Simulator{
			ID:         uuid.NewString(),
			Config:     config,
			Components: components,
		}
	}
}

// WithResource attaches a resource to the lesson at index
func WithResource(index int, title, url, resourceType string) CourseOption {
	return func(c *model.Course) {
		if index >= len(c.Lessons) {
			return
		}
		c.Lessons[index].Resources = append(c.Lessons[index].Resources, model.Resource{
			ID:    uuid.NewString(),
			Title: title,
			URL:   url,
			Type:  resourceType,
		})
	}
}

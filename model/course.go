package model

import "time"

// Course is a catalog entry owning an ordered list of lessons.
type Course struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Level       string    `json:"level" gorm:"default:BEGINNER"`
	Duration    int       `json:"duration"` // minutes
	Thumbnail   string    `json:"thumbnail"`
	Price       float64   `json:"price" gorm:"default:0"`
	Published   bool      `json:"published" gorm:"default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
}

// Lesson belongs to one course; Order is unique within that course and
// drives next/previous navigation.
type Lesson struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CourseID    string    `json:"courseId" gorm:"not null;uniqueIndex:idx_course_lesson_order"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Content     string    `json:"content" gorm:"type:text"`
	VideoURL    string    `json:"videoUrl"`
	Duration    int       `json:"duration"` // minutes
	Order       int       `json:"order" gorm:"column:lesson_order;not null;uniqueIndex:idx_course_lesson_order"`
	IsPublished bool      `json:"isPublished" gorm:"default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Resources []Resource `json:"resources,omitempty" gorm:"foreignKey:LessonID"`
	Simulator *Simulator `json:"-" gorm:"foreignKey:LessonID"`
}

type Resource struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	LessonID  string    `json:"lessonId" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	URL       string    `json:"url" gorm:"not null"`
	Type      string    `json:"type" gorm:"default:LINK"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Simulator holds the two opaque JSON payloads handed to the circuit simulator.
type Simulator struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	LessonID   string    `json:"lessonId" gorm:"not null;uniqueIndex"`
	Config     string    `json:"config" gorm:"type:text"`
	Components string    `json:"components" gorm:"type:text"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

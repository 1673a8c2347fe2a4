package model

import "time"

// LessonProgress is unique per (user, lesson). CompletedAt is set iff Completed.
type LessonProgress struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"userId" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	LessonID    string     `json:"lessonId" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time `json:"completedAt"`
	TimeSpent   int        `json:"timeSpent" gorm:"not null;default:0"` // seconds
	Attempts    int        `json:"attempts" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// Certificate is unique per (user, course); the index is the only duplicate guard.
type Certificate struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"userId" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          string    `json:"courseId" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificateNumber" gorm:"not null;uniqueIndex"`
	IssuedAt          time.Time `json:"issuedAt" gorm:"not null"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// Models lists every table the services migrate.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Lesson{},
		&Resource{},
		&Simulator{},
		&LessonProgress{},
		&Certificate{},
	}
}

package repositories

import (
	"time"

	"github.com/startinfo/academy_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	BaseRepository
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ProgressRepository) GetProgress(userID, lessonID string) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	if err := ds.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertProgress writes the (user, lesson) row in a single statement. A new
// row starts at one attempt; an existing row gets attempts + 1 and its
// completion and time spent replaced.
func (ds *ProgressRepository) UpsertProgress(userID, lessonID string, completed bool, timeSpent int, now time.Time) (*model.LessonProgress, error) {
	var completedAt *time.Time
	var completedAtValue interface{}
	if completed {
		completedAt = &now
		completedAtValue = now
	}

	row := model.LessonProgress{
		ID:          newID(),
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   completed,
		CompletedAt: completedAt,
		TimeSpent:   timeSpent,
		Attempts:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    completed,
			"completed_at": completedAtValue,
			"time_spent":   timeSpent,
			"attempts":     gorm.Expr("lesson_progress.attempts + 1"),
			"updated_at":   now,
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	return ds.GetProgress(userID, lessonID)
}

// GetProgressForLessons returns the user's rows among the given lessons.
// Lessons without a row are simply absent.
func (ds *ProgressRepository) GetProgressForLessons(userID string, lessonIDs []string) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	if len(lessonIDs) == 0 {
		return rows, nil
	}
	if err := ds.db.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

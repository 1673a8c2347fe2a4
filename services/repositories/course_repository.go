package repositories

import (
	"github.com/startinfo/academy_api/model"
	"gorm.io/gorm"
)

// CourseRepository reads the course catalog. Lessons always come back in
// ascending order.
type CourseRepository struct {
	BaseRepository
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("lesson_order ASC")
}

func (ds *CourseRepository) ListCourses(publishedOnly bool) ([]model.Course, error) {
	var courses []model.Course
	query := ds.db.Preload("Lessons", orderedLessons).Order("created_at ASC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (ds *CourseRepository) GetCourse(id string) (*model.Course, error) {
	var course model.Course
	if err := ds.db.Preload("Lessons", orderedLessons).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (ds *CourseRepository) CourseExists(id string) (bool, error) {
	return ds.exists(&model.Course{}, "id = ?", id)
}

func (ds *CourseRepository) CreateCourse(course *model.Course) (*model.Course, error) {
	if course.ID == "" {
		course.ID = newID()
	}
	for i := range course.Lessons {
		assignLessonIDs(&course.Lessons[i])
	}
	if err := ds.db.Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func assignLessonIDs(lesson *model.Lesson) {
	if lesson.ID == "" {
		lesson.ID = newID()
	}
	for i := range lesson.Resources {
		if lesson.Resources[i].ID == "" {
			lesson.Resources[i].ID = newID()
		}
	}
	if lesson.Simulator != nil && lesson.Simulator.ID == "" {
		lesson.Simulator.ID = newID()
	}
}

// ==================== LESSON METHODS ====================

func (ds *CourseRepository) LessonExists(id string) (bool, error) {
	return ds.exists(&model.Lesson{}, "id = ?", id)
}

// GetCourseLesson loads a lesson with its resources and simulator, scoped to the course.
func (ds *CourseRepository) GetCourseLesson(courseID, lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := ds.db.
		Preload("Resources").
		Preload("Simulator").
		Where("id = ? AND course_id = ?", lessonID, courseID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (ds *CourseRepository) GetCourseLessons(courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := ds.db.
		Preload("Resources").
		Preload("Simulator").
		Where("course_id = ?", courseID).
		Order("lesson_order ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

// GetAdjacentLessonIDs returns the ids of the lessons right before and after
// the given order in the same course. A missing neighbour is nil.
func (ds *CourseRepository) GetAdjacentLessonIDs(courseID string, order int) (prev *string, next *string, err error) {
	var prevLesson model.Lesson
	err = ds.db.Select("id").
		Where("course_id = ? AND lesson_order < ?", courseID, order).
		Order("lesson_order DESC").
		Limit(1).
		Find(&prevLesson).Error
	if err != nil {
		return nil, nil, err
	}
	if prevLesson.ID != "" {
		prev = &prevLesson.ID
	}

	var nextLesson model.Lesson
	err = ds.db.Select("id").
		Where("course_id = ? AND lesson_order > ?", courseID, order).
		Order("lesson_order ASC").
		Limit(1).
		Find(&nextLesson).Error
	if err != nil {
		return nil, nil, err
	}
	if nextLesson.ID != "" {
		next = &nextLesson.ID
	}

	return prev, next, nil
}

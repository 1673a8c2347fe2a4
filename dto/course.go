package dto

import (
	"time"

	"github.com/startinfo/academy_api/model"
)

type CourseResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Level       string           `json:"level"`
	Duration    int              `json:"duration"`
	Thumbnail   string           `json:"thumbnail"`
	Price       float64          `json:"price"`
	Published   bool             `json:"published"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Lessons     []LessonOverview `json:"lessons"`
}

type LessonOverview struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	VideoURL    string    `json:"videoUrl"`
	Duration    int       `json:"duration"`
	Order       int       `json:"order"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ResourceResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type LessonResponse struct {
	LessonOverview
	Resources       []ResourceResponse `json:"resources"`
	SimulatorConfig *SimulatorConfig   `json:"simulatorConfig"`
}

// LessonDetailResponse adds navigation; both ids are null at the ends of the course.
type LessonDetailResponse struct {
	LessonResponse
	NextLessonID *string `json:"nextLessonId"`
	PrevLessonID *string `json:"prevLessonId"`
}

func MapCourseToResponse(course *model.Course) CourseResponse {
	lessons := make([]LessonOverview, len(course.Lessons))
	for i := range course.Lessons {
		lessons[i] = MapLessonToOverview(&course.Lessons[i])
	}

	return CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Level:       course.Level,
		Duration:    course.Duration,
		Thumbnail:   course.Thumbnail,
		Price:       course.Price,
		Published:   course.Published,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
		Lessons:     lessons,
	}
}

func MapLessonToOverview(lesson *model.Lesson) LessonOverview {
	return LessonOverview{
		ID:          lesson.ID,
		CourseID:    lesson.CourseID,
		Title:       lesson.Title,
		Description: lesson.Description,
		Content:     lesson.Content,
		VideoURL:    lesson.VideoURL,
		Duration:    lesson.Duration,
		Order:       lesson.Order,
		IsPublished: lesson.IsPublished,
		CreatedAt:   lesson.CreatedAt,
		UpdatedAt:   lesson.UpdatedAt,
	}
}

func MapLessonToResponse(lesson *model.Lesson) LessonResponse {
	resources := make([]ResourceResponse, len(lesson.Resources))
	for i, r := range lesson.Resources {
		resources[i] = ResourceResponse{
			ID:    r.ID,
			Title: r.Title,
			URL:   r.URL,
			Type:  r.Type,
		}
	}

	// a malformed simulator payload degrades to a null config
	simulatorConfig, _ := DecodeSimulatorConfig(lesson.Simulator)

	return LessonResponse{
		LessonOverview:  MapLessonToOverview(lesson),
		Resources:       resources,
		SimulatorConfig: simulatorConfig,
	}
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/startinfo/academy_api/shared"
)

type CourseHandler struct {
	catalogSvc CatalogServiceInterface
}

func NewCourseHandler(catalogSvc CatalogServiceInterface) *CourseHandler {
	return &CourseHandler{
		catalogSvc: catalogSvc,
	}
}

// @Summary List courses
// @Description Published courses with their lessons in order
// @Tags courses
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.CourseResponse}
// @Router /api/courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	resp, err := h.catalogSvc.ListCourses()
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.CourseResponse}
// @Failure 404 {object} shared.Response
// @Router /api/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	resp, err := h.catalogSvc.GetCourse(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary List lessons of a course
// @Description Lessons in order with resources and simulator configuration
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=[]dto.LessonResponse}
// @Failure 404 {object} shared.Response
// @Router /api/courses/{courseId}/lessons [get]
func (h *CourseHandler) ListLessons(c *fiber.Ctx) error {
	resp, err := h.catalogSvc.ListLessons(c.Params("courseId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Get lesson
// @Description Lesson with resources, simulator configuration and neighbour lesson ids
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonDetailResponse}
// @Failure 404 {object} shared.Response
// @Router /api/courses/{courseId}/lessons/{lessonId} [get]
func (h *CourseHandler) GetLesson(c *fiber.Ctx) error {
	resp, err := h.catalogSvc.GetLesson(c.Params("courseId"), c.Params("lessonId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

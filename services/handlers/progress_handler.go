package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/middleware"
	"github.com/startinfo/academy_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
	}
}

// @Summary Get lesson progress
// @Description Progress of the current user on a lesson, zeroed when never recorded
// @Tags progress
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/lessons/{lessonId}/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	resp, err := h.progressSvc.GetProgress(middleware.UserIDFrom(c), c.Params("lessonId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Record lesson progress
// @Description Upsert progress of the current user; every call counts as an attempt
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Param progressRequest body dto.UpdateProgressRequest true "Completion flag and seconds spent"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Failure 400 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/lessons/{lessonId}/progress [post]
func (h *ProgressHandler) RecordProgress(c *fiber.Ctx) error {
	// field types are checked by the service after the lesson lookup
	var req dto.UpdateProgressRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid progress data")
		}
	}

	resp, err := h.progressSvc.RecordProgress(middleware.UserIDFrom(c), c.Params("lessonId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Progress updated", resp)
}

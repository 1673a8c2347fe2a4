package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/startinfo/academy_api/middleware"
	"github.com/startinfo/academy_api/shared"
)

type CertificateHandler struct {
	certificateSvc CertificateServiceInterface
}

func NewCertificateHandler(certificateSvc CertificateServiceInterface) *CertificateHandler {
	return &CertificateHandler{
		certificateSvc: certificateSvc,
	}
}

// @Summary Issue course certificate
// @Description Issue a certificate once every lesson of the course is completed
// @Tags certificates
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param courseId path string true "Course ID"
// @Success 201 {object} shared.Response{data=dto.CertificateResponse}
// @Failure 400 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/courses/{courseId}/certificate [post]
func (h *CertificateHandler) IssueCertificate(c *fiber.Ctx) error {
	resp, err := h.certificateSvc.IssueCertificate(middleware.UserIDFrom(c), c.Params("courseId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Certificate issued", resp)
}

// @Summary Get course certificate
// @Tags certificates
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.CertificateResponse}
// @Failure 404 {object} shared.Response
// @Router /api/courses/{courseId}/certificate [get]
func (h *CertificateHandler) GetCertificate(c *fiber.Ctx) error {
	resp, err := h.certificateSvc.GetCertificate(middleware.UserIDFrom(c), c.Params("courseId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary List certificates
// @Description Certificates of the current user, newest first
// @Tags certificates
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.CertificateResponse}
// @Router /api/certificates [get]
func (h *CertificateHandler) ListCertificates(c *fiber.Ctx) error {
	resp, err := h.certificateSvc.ListCertificates(middleware.UserIDFrom(c))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Download certificate
// @Tags certificates
// @Produce application/pdf
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Certificate ID"
// @Success 200 {file} file
// @Failure 404 {object} shared.Response
// @Router /api/certificates/{id}/download [get]
func (h *CertificateHandler) DownloadCertificate(c *fiber.Ctx) error {
	doc, err := h.certificateSvc.DownloadCertificate(middleware.UserIDFrom(c), c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	return c.Status(http.StatusOK).Send(doc.Content)
}

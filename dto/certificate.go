package dto

import (
	"time"

	"github.com/startinfo/academy_api/model"
)

type CourseSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

type CertificateResponse struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	CourseID          string         `json:"courseId"`
	CertificateNumber string         `json:"certificateNumber"`
	IssuedAt          time.Time      `json:"issuedAt"`
	Course            *CourseSummary `json:"course,omitempty"`
}

func MapCertificateToResponse(cert *model.Certificate) CertificateResponse {
	resp := CertificateResponse{
		ID:                cert.ID,
		UserID:            cert.UserID,
		CourseID:          cert.CourseID,
		CertificateNumber: cert.CertificateNumber,
		IssuedAt:          cert.IssuedAt,
	}
	if cert.Course != nil {
		resp.Course = &CourseSummary{
			Title:       cert.Course.Title,
			Description: cert.Course.Description,
			Level:       cert.Course.Level,
		}
	}
	return resp
}

// CertificateDocument is the rendered certificate file handed to downloads.
type CertificateDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

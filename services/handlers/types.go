package handlers

import (
	"github.com/startinfo/academy_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Me(userID string) (*dto.UserResponse, error)
}

type CatalogServiceInterface interface {
	ListCourses() ([]dto.CourseResponse, error)
	GetCourse(courseID string) (*dto.CourseResponse, error)
	ListLessons(courseID string) ([]dto.LessonResponse, error)
	GetLesson(courseID, lessonID string) (*dto.LessonDetailResponse, error)
}

type ProgressServiceInterface interface {
	GetProgress(userID, lessonID string) (*dto.ProgressResponse, error)
	RecordProgress(userID, lessonID string, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error)
}

type CertificateServiceInterface interface {
	IssueCertificate(userID, courseID string) (*dto.CertificateResponse, error)
	GetCertificate(userID, courseID string) (*dto.CertificateResponse, error)
	ListCertificates(userID string) ([]dto.CertificateResponse, error)
	DownloadCertificate(userID, certificateID string) (*dto.CertificateDocument, error)
}

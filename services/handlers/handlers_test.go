package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgressService struct {
	lastUserID   string
	lastLessonID string
	lastRequest  dto.UpdateProgressRequest
}

func (f *fakeProgressService) GetProgress(userID, lessonID string) (*dto.ProgressResponse, error) {
	f.lastUserID, f.lastLessonID = userID, lessonID
	resp := dto.DefaultProgress(lessonID)
	return &resp, nil
}

func (f *fakeProgressService) RecordProgress(userID, lessonID string, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error) {
	f.lastUserID, f.lastLessonID, f.lastRequest = userID, lessonID, req
	if lessonID == "missing" {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}
	completed, seconds, err := req.Values()
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid progress data")
	}
	return &dto.ProgressResponse{LessonID: lessonID, Completed: completed, TimeSpent: seconds, Attempts: 1}, nil
}

type fakeCertificateService struct{}

func (fakeCertificateService) IssueCertificate(userID, courseID string) (*dto.CertificateResponse, error) {
	return nil, shared.NewAlreadyExistsError(nil, "Certificate already exists")
}

func (fakeCertificateService) GetCertificate(userID, courseID string) (*dto.CertificateResponse, error) {
	return &dto.CertificateResponse{UserID: userID, CourseID: courseID}, nil
}

func (fakeCertificateService) ListCertificates(userID string) ([]dto.CertificateResponse, error) {
	return nil, nil
}

func (fakeCertificateService) DownloadCertificate(userID, certificateID string) (*dto.CertificateDocument, error) {
	return &dto.CertificateDocument{
		Filename:    "certificate-CERT-1-ABCDEF12.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	}, nil
}

// withUser stands in for the auth middleware
func withUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, nil)
			}
			return shared.ResponseInternalError(c)
		},
	})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecordProgressHandler(t *testing.T) {
	svc := &fakeProgressService{}
	h := NewProgressHandler(svc)

	app := newTestApp()
	app.Post("/lessons/:lessonId/progress", withUser("user-1"), h.RecordProgress)

	req := httptest.NewRequest(fiber.MethodPost, "/lessons/lesson-9/progress", strings.NewReader(`{"completed":true,"timeSpent":12.5}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", svc.lastUserID)
	assert.Equal(t, "lesson-9", svc.lastLessonID)
	assert.JSONEq(t, "12.5", string(svc.lastRequest.TimeSpent))

	req = httptest.NewRequest(fiber.MethodPost, "/lessons/lesson-9/progress", strings.NewReader(`{"completed":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid progress data")

	for _, body := range []string{`{"completed":true,"timeSpent":1}`, `{"completed":"yes"}`, ``} {
		req = httptest.NewRequest(fiber.MethodPost, "/lessons/missing/progress", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, body)
	}
}

func TestGetProgressHandler(t *testing.T) {
	svc := &fakeProgressService{}
	h := NewProgressHandler(svc)

	app := newTestApp()
	app.Get("/lessons/:lessonId/progress", withUser("user-2"), h.GetProgress)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/lessons/lesson-3/progress", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-2", svc.lastUserID)
	assert.Contains(t, readBody(t, resp), `"attempts":0`)
}

func TestCertificateHandlers(t *testing.T) {
	h := NewCertificateHandler(fakeCertificateService{})

	app := newTestApp()
	app.Post("/courses/:courseId/certificate", withUser("user-1"), h.IssueCertificate)
	app.Get("/courses/:courseId/certificate", withUser("user-1"), h.GetCertificate)
	app.Get("/certificates", withUser("user-1"), h.ListCertificates)
	app.Get("/certificates/:id/download", withUser("user-1"), h.DownloadCertificate)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/courses/c1/certificate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Certificate already exists")

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/courses/c1/certificate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"courseId":"c1"`)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/certificates", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/certificates/cert-1/download", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="certificate-CERT-1-ABCDEF12.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Equal(t, "%PDF-1.4", readBody(t, resp))
}

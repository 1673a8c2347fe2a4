package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/startinfo/academy_api/config"
	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/services/repositories"
	"github.com/startinfo/academy_api/shared"
)

type documentStore interface {
	Load(ctx context.Context, objectName string) ([]byte, bool, error)
	Save(ctx context.Context, objectName string, data []byte, contentType string) error
}

// CertificateService decides course completion and mints one certificate
// per (user, course).
type CertificateService struct {
	appContext.DefaultService

	db           DatabaseService
	courses      *repositories.CourseRepository
	progress     *repositories.ProgressRepository
	certificates *repositories.CertificateRepository
	users        *repositories.UserRepository

	store        documentStore
	storeTimeout time.Duration

	now func() time.Time
}

const CERTIFICATE_SVC = "certificate_svc"

func (svc CertificateService) Id() string {
	return CERTIFICATE_SVC
}

func (svc *CertificateService) Configure(ctx *appContext.Context) error {
	svc.storeTimeout = config.GetDuration("certificate.store.timeout", 5*time.Second)
	return svc.DefaultService.Configure(ctx)
}

func (svc *CertificateService) Start() error {
	db, err := resolveDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC))
	if err != nil {
		return err
	}
	svc.wire(db)

	if minioSvc, ok := svc.Service(MINIO_SVC).(*MinIOService); ok {
		svc.store = minioSvc
		log.Info().Str("bucket", minioSvc.GetBucketName()).Msg("Certificate documents stored in MinIO")
	}
	return nil
}

func (svc *CertificateService) wire(db DatabaseService) {
	svc.db = db
	svc.courses = repositories.NewCourseRepository(db.Db())
	svc.progress = repositories.NewProgressRepository(db.Db())
	svc.certificates = repositories.NewCertificateRepository(db.Db())
	svc.users = repositories.NewUserRepository(db.Db())
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.storeTimeout == 0 {
		svc.storeTimeout = 5 * time.Second
	}
}

// IssueCertificate checks that every lesson of the course has a completed
// progress row for the user and inserts the certificate. The unique index on
// (user_id, course_id) decides duplicates, so concurrent calls yield exactly
// one certificate and Conflict for the rest.
func (svc *CertificateService) IssueCertificate(userID, courseID string) (*dto.CertificateResponse, error) {
	course, err := svc.courses.GetCourse(courseID)
	if err != nil {
		if IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "Course not found")
		}
		return nil, svc.db.HandleError(err)
	}

	if len(course.Lessons) == 0 {
		certificateRejectionsTotal.WithLabelValues("no_lessons").Inc()
		return nil, shared.NewInvalidStateError(nil, "Course has no lessons")
	}

	lessonIDs := make([]string, len(course.Lessons))
	for i, l := range course.Lessons {
		lessonIDs[i] = l.ID
	}

	rows, err := svc.progress.GetProgressForLessons(userID, lessonIDs)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if !allLessonsCompleted(lessonIDs, rows) {
		certificateRejectionsTotal.WithLabelValues("incomplete").Inc()
		return nil, shared.NewPreconditionFailedError(nil, "Course not completed")
	}

	now := svc.now()
	cert, err := svc.certificates.CreateCertificate(&model.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: newCertificateNumber(now),
		IssuedAt:          now,
	})
	if err != nil {
		if IsDuplicateKey(err) {
			certificateRejectionsTotal.WithLabelValues("duplicate").Inc()
			return nil, shared.NewAlreadyExistsError(err, "Certificate already exists")
		}
		return nil, svc.db.HandleError(err)
	}

	cert.Course = course
	certificatesIssuedTotal.Inc()
	log.Info().
		Str("user_id", userID).
		Str("course_id", courseID).
		Str("certificate_number", cert.CertificateNumber).
		Msg("Certificate issued")

	resp := dto.MapCertificateToResponse(cert)
	return &resp, nil
}

// allLessonsCompleted is true when each lesson has a completed row. Lessons
// without a row count as incomplete.
func allLessonsCompleted(lessonIDs []string, rows []model.LessonProgress) bool {
	completed := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.Completed {
			completed[r.LessonID] = true
		}
	}
	for _, id := range lessonIDs {
		if !completed[id] {
			return false
		}
	}
	return true
}

func newCertificateNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", shared.CertificatePrefix, now.UnixMilli(), suffix)
}

func (svc *CertificateService) GetCertificate(userID, courseID string) (*dto.CertificateResponse, error) {
	cert, err := svc.certificates.GetCertificate(userID, courseID)
	if err != nil {
		if IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "Certificate not found")
		}
		return nil, svc.db.HandleError(err)
	}

	resp := dto.MapCertificateToResponse(cert)
	return &resp, nil
}

func (svc *CertificateService) ListCertificates(userID string) ([]dto.CertificateResponse, error) {
	certs, err := svc.certificates.ListCertificates(userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	resp := make([]dto.CertificateResponse, len(certs))
	for i := range certs {
		resp[i] = dto.MapCertificateToResponse(&certs[i])
	}
	return resp, nil
}

// DownloadCertificate serves the stored document when there is one and
// otherwise renders it, keeping a copy in the store for later downloads.
// Store failures only cost the copy.
func (svc *CertificateService) DownloadCertificate(userID, certificateID string) (*dto.CertificateDocument, error) {
	cert, err := svc.certificates.GetUserCertificate(userID, certificateID)
	if err != nil {
		if IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "Certificate not found")
		}
		return nil, svc.db.HandleError(err)
	}

	doc := &dto.CertificateDocument{
		Filename:    certificateFilename(cert),
		ContentType: certificateContentType,
	}
	objectName := certificateObjectName(cert)

	if svc.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), svc.storeTimeout)
		defer cancel()

		data, found, err := svc.store.Load(ctx, objectName)
		if err != nil {
			log.Warn().Err(err).Str("object", objectName).Msg("Failed to load certificate document")
		} else if found {
			doc.Content = data
			return doc, nil
		}
	}

	holder := userID
	if user, err := svc.users.GetUser(userID); err == nil && user.Name != "" {
		holder = user.Name
	}
	content, err := renderCertificatePDF(cert, holder)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to render certificate")
	}
	doc.Content = content

	if svc.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), svc.storeTimeout)
		defer cancel()

		if err := svc.store.Save(ctx, objectName, doc.Content, doc.ContentType); err != nil {
			log.Warn().Err(err).Str("object", objectName).Msg("Failed to store certificate document")
		}
	}

	return doc, nil
}

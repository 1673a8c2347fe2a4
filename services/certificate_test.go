package services

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/services/testutils"
	"github.com/startinfo/academy_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var certificateNumberPattern = regexp.MustCompile(`^CERT-\d+-[0-9A-F]{8}$`)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	loads   int
	saves   int
	failing bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (s *memoryStore) Load(ctx context.Context, objectName string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loads++
	if s.failing {
		return nil, false, errors.New("store unavailable")
	}
	data, ok := s.objects[objectName]
	return data, ok, nil
}

func (s *memoryStore) Save(ctx context.Context, objectName string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves++
	if s.failing {
		return errors.New("store unavailable")
	}
	s.objects[objectName] = data
	return nil
}

type certificateFixture struct {
	db           *gorm.DB
	progressSvc  *ProgressService
	certSvc      *CertificateService
	user         *model.User
	course       *model.Course
	emptyCourse  *model.Course
	otherStudent *model.User
}

func newCertificateFixture(t *testing.T) *certificateFixture {
	t.Helper()

	db, dbSvc := setupDatabase(t)

	progressSvc := &ProgressService{}
	progressSvc.wire(dbSvc)

	certSvc := &CertificateService{}
	certSvc.wire(dbSvc)

	return &certificateFixture{
		db:           db,
		progressSvc:  progressSvc,
		certSvc:      certSvc,
		user:         testutils.CreateTestUser(db, testutils.WithName("Ada Lovelace")),
		otherStudent: testutils.CreateTestUser(db),
		course:       testutils.CreateTestCourse(db, 3, testutils.WithTitle("Introduction to Arduino")),
		emptyCourse:  testutils.CreateTestCourse(db, 0),
	}
}

func (f *certificateFixture) complete(t *testing.T, userID string, lessons ...model.Lesson) {
	t.Helper()

	for _, lesson := range lessons {
		_, err := f.progressSvc.RecordProgress(userID, lesson.ID, dto.UpdateProgressRequest{
			Completed: rawJSON(true),
			TimeSpent: rawJSON(60),
		})
		require.NoError(t, err)
	}
}

func TestIssueCertificateRequiresEveryLesson(t *testing.T) {
	f := newCertificateFixture(t)

	_, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindPreconditionFailed))

	f.complete(t, f.user.ID, f.course.Lessons[:2]...)

	_, err = f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindPreconditionFailed))

	// a row that is present but not completed still blocks issuance
	_, err = f.progressSvc.RecordProgress(f.user.ID, f.course.Lessons[2].ID, dto.UpdateProgressRequest{
		Completed: rawJSON(false),
		TimeSpent: rawJSON(10),
	})
	require.NoError(t, err)

	_, err = f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindPreconditionFailed))
}

func TestIssueCertificate(t *testing.T) {
	f := newCertificateFixture(t)
	issuedAt := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	f.certSvc.now = func() time.Time { return issuedAt }

	f.complete(t, f.user.ID, f.course.Lessons...)

	cert, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, f.user.ID, cert.UserID)
	assert.Equal(t, f.course.ID, cert.CourseID)
	assert.Regexp(t, certificateNumberPattern, cert.CertificateNumber)
	assert.Equal(t, issuedAt.Unix(), cert.IssuedAt.Unix())
	require.NotNil(t, cert.Course)
	assert.Equal(t, "Introduction to Arduino", cert.Course.Title)

	stored, err := f.certSvc.GetCertificate(f.user.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.ID, stored.ID)
	assert.Equal(t, cert.CertificateNumber, stored.CertificateNumber)
}

func TestIssueCertificateTwiceConflicts(t *testing.T) {
	f := newCertificateFixture(t)
	f.complete(t, f.user.ID, f.course.Lessons...)

	_, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.NoError(t, err)

	_, err = f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindConflict))
}

func TestIssueCertificateUnknownCourse(t *testing.T) {
	f := newCertificateFixture(t)

	_, err := f.certSvc.IssueCertificate(f.user.ID, "missing")
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestIssueCertificateCourseWithoutLessons(t *testing.T) {
	f := newCertificateFixture(t)

	_, err := f.certSvc.IssueCertificate(f.user.ID, f.emptyCourse.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindInvalidState))

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestIssueCertificateProgressIsPerUser(t *testing.T) {
	f := newCertificateFixture(t)
	f.complete(t, f.otherStudent.ID, f.course.Lessons...)

	_, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindPreconditionFailed))
}

func TestIssueCertificateConcurrentCallsIssueOnce(t *testing.T) {
	f := newCertificateFixture(t)
	f.complete(t, f.user.ID, f.course.Lessons...)

	const calls = 8
	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	issued, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			issued++
		case shared.IsKind(err, shared.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, issued)
	assert.Equal(t, calls-1, conflicts)

	var count int64
	require.NoError(t, f.db.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", f.user.ID, f.course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetCertificateNotIssued(t *testing.T) {
	f := newCertificateFixture(t)

	_, err := f.certSvc.GetCertificate(f.user.ID, f.course.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestListCertificatesNewestFirst(t *testing.T) {
	f := newCertificateFixture(t)
	second := testutils.CreateTestCourse(f.db, 1, testutils.WithTitle("Advanced Arduino Programming"))

	f.complete(t, f.user.ID, f.course.Lessons...)
	f.complete(t, f.user.ID, second.Lessons...)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.certSvc.now = func() time.Time { return base }
	_, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.NoError(t, err)

	f.certSvc.now = func() time.Time { return base.Add(24 * time.Hour) }
	_, err = f.certSvc.IssueCertificate(f.user.ID, second.ID)
	require.NoError(t, err)

	certs, err := f.certSvc.ListCertificates(f.user.ID)
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, second.ID, certs[0].CourseID)
	require.NotNil(t, certs[0].Course)
	assert.Equal(t, "Advanced Arduino Programming", certs[0].Course.Title)
	assert.Equal(t, f.course.ID, certs[1].CourseID)

	others, err := f.certSvc.ListCertificates(f.otherStudent.ID)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestDownloadCertificate(t *testing.T) {
	f := newCertificateFixture(t)
	f.complete(t, f.user.ID, f.course.Lessons...)

	cert, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.NoError(t, err)

	doc, err := f.certSvc.DownloadCertificate(f.user.ID, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "certificate-"+cert.CertificateNumber+".pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
	assert.True(t, bytes.Contains(doc.Content, []byte("Ada Lovelace")))

	_, err = f.certSvc.DownloadCertificate(f.otherStudent.ID, cert.ID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestDownloadCertificateUsesStore(t *testing.T) {
	f := newCertificateFixture(t)
	store := newMemoryStore()
	f.certSvc.store = store
	f.complete(t, f.user.ID, f.course.Lessons...)

	cert, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.NoError(t, err)

	first, err := f.certSvc.DownloadCertificate(f.user.ID, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)
	assert.Contains(t, store.objects, "certificates/"+cert.CertificateNumber+".pdf")

	// a stored document is served as is
	store.objects["certificates/"+cert.CertificateNumber+".pdf"] = []byte("%PDF-stored")
	second, err := f.certSvc.DownloadCertificate(f.user.ID, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stored"), second.Content)
	assert.Equal(t, 1, store.saves)
	assert.NotEqual(t, first.Content, second.Content)
}

func TestDownloadCertificateStoreFailureStillRenders(t *testing.T) {
	f := newCertificateFixture(t)
	store := newMemoryStore()
	store.failing = true
	f.certSvc.store = store
	f.complete(t, f.user.ID, f.course.Lessons...)

	cert, err := f.certSvc.IssueCertificate(f.user.ID, f.course.ID)
	require.NoError(t, err)

	doc, err := f.certSvc.DownloadCertificate(f.user.ID, cert.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
}

// A student walks the whole course, then earns and fetches the certificate.
func TestCourseCompletionFlow(t *testing.T) {
	db, dbSvc := setupDatabase(t)
	user := testutils.CreateTestUser(db)
	course := testutils.CreateTestCourse(db, 2)

	catalogSvc := &CatalogService{}
	catalogSvc.wire(dbSvc)
	progressSvc := &ProgressService{}
	progressSvc.wire(dbSvc)
	certSvc := &CertificateService{}
	certSvc.wire(dbSvc)

	lessons, err := catalogSvc.ListLessons(course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	for _, lesson := range lessons {
		progress, err := progressSvc.GetProgress(user.ID, lesson.ID)
		require.NoError(t, err)
		assert.False(t, progress.Completed)

		_, err = progressSvc.RecordProgress(user.ID, lesson.ID, dto.UpdateProgressRequest{
			Completed: rawJSON(true),
			TimeSpent: rawJSON(300),
		})
		require.NoError(t, err)
	}

	cert, err := certSvc.IssueCertificate(user.ID, course.ID)
	require.NoError(t, err)

	certs, err := certSvc.ListCertificates(user.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, cert.CertificateNumber, certs[0].CertificateNumber)
}

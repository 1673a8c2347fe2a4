package services

import (
	"sync"
	"testing"
	"time"

	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/services/testutils"
	"github.com/startinfo/academy_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressService(t *testing.T) (*ProgressService, *model.User, *model.Course) {
	t.Helper()

	db, dbSvc := setupDatabase(t)
	user := testutils.CreateTestUser(db)
	course := testutils.CreateTestCourse(db, 2)

	svc := &ProgressService{}
	svc.wire(dbSvc)
	return svc, user, course
}

func TestGetProgressDefaultsWhenNeverRecorded(t *testing.T) {
	svc, user, course := newProgressService(t)
	lessonID := course.Lessons[0].ID

	resp, err := svc.GetProgress(user.ID, lessonID)
	require.NoError(t, err)

	assert.Equal(t, lessonID, resp.LessonID)
	assert.False(t, resp.Completed)
	assert.Nil(t, resp.CompletedAt)
	assert.Equal(t, 0, resp.TimeSpent)
	assert.Equal(t, 0, resp.Attempts)
	assert.Empty(t, resp.ID)
}

func TestRecordProgressCreatesThenUpdates(t *testing.T) {
	svc, user, course := newProgressService(t)
	lessonID := course.Lessons[0].ID

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	resp, err := svc.RecordProgress(user.ID, lessonID, dto.UpdateProgressRequest{
		Completed: rawJSON(true),
		TimeSpent: rawJSON(120),
	})
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, first.Unix(), resp.CompletedAt.Unix())
	assert.Equal(t, 120, resp.TimeSpent)
	assert.Equal(t, 1, resp.Attempts)

	svc.now = func() time.Time { return first.Add(time.Hour) }
	resp, err = svc.RecordProgress(user.ID, lessonID, dto.UpdateProgressRequest{
		Completed: rawJSON(false),
		TimeSpent: rawJSON(30),
	})
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.Nil(t, resp.CompletedAt)
	assert.Equal(t, 30, resp.TimeSpent)
	assert.Equal(t, 2, resp.Attempts)

	stored, err := svc.GetProgress(user.ID, lessonID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, stored.ID)
	assert.Equal(t, 2, stored.Attempts)
}

func TestRecordProgressTimeSpent(t *testing.T) {
	tests := []struct {
		name      string
		timeSpent float64
		expected  int
	}{
		{"whole seconds", 45, 45},
		{"fraction is truncated", 12.9, 12},
		{"negative clamps to zero", -5, 0},
		{"zero", 0, 0},
		{"beyond int32 saturates", 1e19, dto.MaxTimeSpentSeconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, user, course := newProgressService(t)

			resp, err := svc.RecordProgress(user.ID, course.Lessons[0].ID, dto.UpdateProgressRequest{
				Completed: rawJSON(false),
				TimeSpent: rawJSON(tt.timeSpent),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.TimeSpent)
		})
	}
}

func TestRecordProgressUnknownLesson(t *testing.T) {
	svc, user, _ := newProgressService(t)

	_, err := svc.RecordProgress(user.ID, "missing-lesson", dto.UpdateProgressRequest{
		Completed: rawJSON(true),
		TimeSpent: rawJSON(10),
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))

	_, err = svc.RecordProgress(user.ID, "missing-lesson", dto.UpdateProgressRequest{
		Completed: rawJSON("yes"),
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindNotFound), "lesson lookup comes before body checks")
}

func TestRecordProgressRejectsMissingFields(t *testing.T) {
	svc, user, course := newProgressService(t)
	lessonID := course.Lessons[0].ID

	requests := []dto.UpdateProgressRequest{
		{TimeSpent: rawJSON(10)},
		{Completed: rawJSON(true)},
		{},
		{Completed: rawJSON("yes"), TimeSpent: rawJSON(10)},
		{Completed: rawJSON(true), TimeSpent: rawJSON("10")},
		{Completed: rawJSON(nil), TimeSpent: rawJSON(10)},
	}

	for _, req := range requests {
		_, err := svc.RecordProgress(user.ID, lessonID, req)
		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindInvalidArgument))
	}

	resp, err := svc.GetProgress(user.ID, lessonID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Attempts)
}

func TestRecordProgressIsPerUser(t *testing.T) {
	db, dbSvc := setupDatabase(t)
	alice := testutils.CreateTestUser(db)
	bob := testutils.CreateTestUser(db)
	course := testutils.CreateTestCourse(db, 1)
	lessonID := course.Lessons[0].ID

	svc := &ProgressService{}
	svc.wire(dbSvc)

	_, err := svc.RecordProgress(alice.ID, lessonID, dto.UpdateProgressRequest{
		Completed: rawJSON(true),
		TimeSpent: rawJSON(60),
	})
	require.NoError(t, err)

	resp, err := svc.GetProgress(bob.ID, lessonID)
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.Equal(t, 0, resp.Attempts)
}

func TestRecordProgressConcurrentCallsKeepOneRow(t *testing.T) {
	db, dbSvc := setupDatabase(t)
	user := testutils.CreateTestUser(db)
	course := testutils.CreateTestCourse(db, 1)
	lessonID := course.Lessons[0].ID

	svc := &ProgressService{}
	svc.wire(dbSvc)

	const calls = 10
	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordProgress(user.ID, lessonID, dto.UpdateProgressRequest{
				Completed: rawJSON(true),
				TimeSpent: rawJSON(5),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", user.ID, lessonID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	resp, err := svc.GetProgress(user.ID, lessonID)
	require.NoError(t, err)
	assert.Equal(t, calls, resp.Attempts)
}

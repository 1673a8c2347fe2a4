package services

import (
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/rs/zerolog/log"
	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/services/repositories"
	"github.com/startinfo/academy_api/shared"
)

// ProgressService records per-user lesson completion. The stored row is the
// source of truth the other views read back.
type ProgressService struct {
	context.DefaultService

	db       DatabaseService
	courses  *repositories.CourseRepository
	progress *repositories.ProgressRepository

	now func() time.Time
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	db, err := resolveDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC))
	if err != nil {
		return err
	}
	svc.wire(db)
	return nil
}

func (svc *ProgressService) wire(db DatabaseService) {
	svc.db = db
	svc.courses = repositories.NewCourseRepository(db.Db())
	svc.progress = repositories.NewProgressRepository(db.Db())
	if svc.now == nil {
		svc.now = time.Now
	}
}

// GetProgress returns the stored row or, when the user never touched the
// lesson, a zero record that is not persisted.
func (svc *ProgressService) GetProgress(userID, lessonID string) (*dto.ProgressResponse, error) {
	row, err := svc.progress.GetProgress(userID, lessonID)
	if err != nil {
		if IsNotFound(err) {
			resp := dto.DefaultProgress(lessonID)
			return &resp, nil
		}
		return nil, svc.db.HandleError(err)
	}

	resp := dto.MapProgressToResponse(row)
	return &resp, nil
}

// RecordProgress upserts the (user, lesson) row. Every call is an attempt,
// time spent replaces the previous value and is clamped at zero.
func (svc *ProgressService) RecordProgress(userID, lessonID string, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error) {
	exists, err := svc.courses.LessonExists(lessonID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	if !exists {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}

	completed, seconds, err := req.Values()
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid progress data")
	}

	row, err := svc.progress.UpsertProgress(userID, lessonID, completed, seconds, svc.now())
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	progressUpdatesTotal.WithLabelValues(strconv.FormatBool(completed)).Inc()
	log.Info().
		Str("user_id", userID).
		Str("lesson_id", lessonID).
		Bool("completed", row.Completed).
		Int("time_spent", row.TimeSpent).
		Int("attempts", row.Attempts).
		Msg("Lesson progress updated")

	resp := dto.MapProgressToResponse(row)
	return &resp, nil
}

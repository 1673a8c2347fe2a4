package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/rs/zerolog/log"
	"github.com/startinfo/academy_api/config"
	"github.com/startinfo/academy_api/dto"
	"github.com/startinfo/academy_api/services/repositories"
	"github.com/startinfo/academy_api/shared"
)

const (
	catalogCoursesKey      = "catalog:courses"
	catalogCourseKeyPrefix = "catalog:course:"
)

type catalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CatalogService is the read side of courses and lessons.
type CatalogService struct {
	appContext.DefaultService

	db      DatabaseService
	courses *repositories.CourseRepository

	cache        catalogCache
	cacheTTL     time.Duration
	cacheTimeout time.Duration
}

const CATALOG_SVC = "catalog_svc"

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *appContext.Context) error {
	svc.cacheTTL = config.GetDuration("catalog.cache.ttl", 5*time.Minute)
	svc.cacheTimeout = config.GetDuration("catalog.cache.timeout", 250*time.Millisecond)
	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	db, err := resolveDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC))
	if err != nil {
		return err
	}
	svc.wire(db)

	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.cache = redisSvc
		log.Info().Dur("ttl", svc.cacheTTL).Msg("Catalog cache enabled")
	}
	return nil
}

func (svc *CatalogService) wire(db DatabaseService) {
	svc.db = db
	svc.courses = repositories.NewCourseRepository(db.Db())
	if svc.cacheTimeout == 0 {
		svc.cacheTimeout = 250 * time.Millisecond
	}
}

func (svc *CatalogService) ListCourses() ([]dto.CourseResponse, error) {
	var cached []dto.CourseResponse
	if svc.fromCache(catalogCoursesKey, &cached) {
		return cached, nil
	}

	courses, err := svc.courses.ListCourses(true)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	resp := make([]dto.CourseResponse, len(courses))
	for i := range courses {
		resp[i] = dto.MapCourseToResponse(&courses[i])
	}

	svc.toCache(catalogCoursesKey, resp)
	return resp, nil
}

func (svc *CatalogService) GetCourse(courseID string) (*dto.CourseResponse, error) {
	key := catalogCourseKeyPrefix + courseID

	var cached dto.CourseResponse
	if svc.fromCache(key, &cached) {
		return &cached, nil
	}

	course, err := svc.courses.GetCourse(courseID)
	if err != nil {
		if IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "Course not found")
		}
		return nil, svc.db.HandleError(err)
	}

	resp := dto.MapCourseToResponse(course)
	svc.toCache(key, resp)
	return &resp, nil
}

// ListLessons returns every lesson of the course in ascending order, each
// with resources and a decoded simulator config.
func (svc *CatalogService) ListLessons(courseID string) ([]dto.LessonResponse, error) {
	exists, err := svc.courses.CourseExists(courseID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	if !exists {
		return nil, shared.NewNotFoundError(nil, "Course not found")
	}

	lessons, err := svc.courses.GetCourseLessons(courseID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	resp := make([]dto.LessonResponse, len(lessons))
	for i := range lessons {
		resp[i] = dto.MapLessonToResponse(&lessons[i])
		if lessons[i].Simulator != nil && resp[i].SimulatorConfig == nil {
			log.Warn().Str("lesson_id", lessons[i].ID).Msg("Simulator config is not valid JSON, serving lesson without it")
		}
	}
	return resp, nil
}

func (svc *CatalogService) GetLesson(courseID, lessonID string) (*dto.LessonDetailResponse, error) {
	lesson, err := svc.courses.GetCourseLesson(courseID, lessonID)
	if err != nil {
		if IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "Lesson not found")
		}
		return nil, svc.db.HandleError(err)
	}

	prev, next, err := svc.courses.GetAdjacentLessonIDs(courseID, lesson.Order)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	lessonResp := dto.MapLessonToResponse(lesson)
	if lesson.Simulator != nil && lessonResp.SimulatorConfig == nil {
		log.Warn().Str("lesson_id", lesson.ID).Msg("Simulator config is not valid JSON, serving lesson without it")
	}

	return &dto.LessonDetailResponse{
		LessonResponse: lessonResp,
		NextLessonID:   next,
		PrevLessonID:   prev,
	}, nil
}

func (svc *CatalogService) fromCache(key string, dest interface{}) bool {
	if svc.cache == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), svc.cacheTimeout)
	defer cancel()

	found, err := svc.cache.GetJSON(ctx, key, dest)
	if err != nil {
		catalogCacheResultsTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed")
		return false
	}
	if !found {
		catalogCacheResultsTotal.WithLabelValues("miss").Inc()
		return false
	}
	catalogCacheResultsTotal.WithLabelValues("hit").Inc()
	return true
}

func (svc *CatalogService) toCache(key string, value interface{}) {
	if svc.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), svc.cacheTimeout)
	defer cancel()

	if err := svc.cache.Set(ctx, key, value, svc.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
	}
}

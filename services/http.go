package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"
	"github.com/startinfo/academy_api/config"
	"github.com/startinfo/academy_api/docs"
	"github.com/startinfo/academy_api/middleware"
	"github.com/startinfo/academy_api/services/handlers"
	"github.com/startinfo/academy_api/shared"
)

type HttpService struct {
	context.DefaultService

	jwtSvc         *JWTService
	authSvc        *AuthService
	catalogSvc     *CatalogService
	progressSvc    *ProgressService
	certificateSvc *CertificateService
	monitoringSvc  *MonitoringService

	port         int
	allowOrigins string
	app          *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	svc.port = config.GetInt("http.port", 8000)
	svc.allowOrigins = config.GetString("http.cors.origins", "*")

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.certificateSvc = svc.Service(CERTIFICATE_SVC).(*CertificateService)

	if monitoringSvc, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoringSvc = monitoringSvc
	}

	svc.app = svc.NewApp()

	log.Info().Int("port", svc.port).Msg("HTTP server listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

// NewApp builds the fiber application with every route mounted.
func (svc *HttpService) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               SERVICE_NAME,
		DisableStartupMessage: true,
		JSONEncoder:           shared.JSONAPI.Marshal,
		JSONDecoder:           shared.JSONAPI.Unmarshal,
		ErrorHandler:          svc.HandleError,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	docs.SwaggerInfo.BasePath = "/"

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: svc.allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}, ","),
	}))
	if svc.monitoringSvc != nil {
		app.Use(MonitoringMiddleware())
	}

	//Validation endpoints
	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/health", svc.ping)

	RegisterRoutes(api, svc.jwtSvc, Handlers{
		Auth:        handlers.NewAuthHandler(svc.authSvc),
		Course:      handlers.NewCourseHandler(svc.catalogSvc),
		Progress:    handlers.NewProgressHandler(svc.progressSvc),
		Certificate: handlers.NewCertificateHandler(svc.certificateSvc),
	})

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	return app
}

type Handlers struct {
	Auth        *handlers.AuthHandler
	Course      *handlers.CourseHandler
	Progress    *handlers.ProgressHandler
	Certificate *handlers.CertificateHandler
}

// RegisterRoutes mounts the API under router. Routes behind the token check
// see the caller's id through middleware.UserIDFrom.
func RegisterRoutes(router fiber.Router, verifier middleware.TokenVerifier, h Handlers) {
	requireAuth := middleware.RequireAuth(verifier)

	auth := router.Group("/auth")
	auth.Post("/register", middleware.RateLimit("register"), h.Auth.Register)
	auth.Post("/login", middleware.RateLimit("login"), h.Auth.Login)
	auth.Get("/me", requireAuth, h.Auth.Me)

	courses := router.Group("/courses")
	courses.Get("/", h.Course.ListCourses)
	courses.Get("/:id", h.Course.GetCourse)
	courses.Get("/:courseId/lessons", h.Course.ListLessons)
	courses.Get("/:courseId/lessons/:lessonId", h.Course.GetLesson)
	courses.Get("/:courseId/certificate", requireAuth, h.Certificate.GetCertificate)
	courses.Post("/:courseId/certificate", requireAuth, middleware.RateLimit("certificate"), h.Certificate.IssueCertificate)

	lessons := router.Group("/lessons", requireAuth)
	lessons.Get("/:lessonId/progress", h.Progress.GetProgress)
	lessons.Post("/:lessonId/progress", middleware.RateLimit("progress"), h.Progress.RecordProgress)

	certificates := router.Group("/certificates", requireAuth)
	certificates.Get("/", h.Certificate.ListCertificates)
	certificates.Get("/:id/download", h.Certificate.DownloadCertificate)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// HandleError writes the envelope for errors returned by handlers. Only
// AppError messages reach the client.
func (svc *HttpService) HandleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unhandled request error")
	return shared.ResponseInternalError(c)
}

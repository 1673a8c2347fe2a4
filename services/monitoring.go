package services

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/startinfo/academy_api/config"
	"github.com/startinfo/academy_api/shared"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "academy_api"
	DEFAULT_PROMETHEUS_PORT = 2112
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// HTTP
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: SERVICE_NAME,
			Name:      "http_requests_total",
			Help:      "API requests by route, method and status class",
		},
		[]string{"route", "method", "class"},
	)

	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: SERVICE_NAME,
			Name:      "http_requests_in_flight",
			Help:      "API requests currently being served",
		},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: SERVICE_NAME,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route",
			Buckets:   latencyBuckets,
		},
		[]string{"route", "method"},
	)
)

// Runtime
var (
	heapAllocBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: SERVICE_NAME,
			Name:      "heap_alloc_bytes",
			Help:      "Heap bytes allocated at the last sample",
		},
	)

	gcTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: SERVICE_NAME,
			Name:      "gc_total",
			Help:      "Garbage collections observed by the sampler",
		},
	)
)

// Domain
var (
	progressUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: SERVICE_NAME,
			Name:      "lesson_progress_updates_total",
			Help:      "Lesson progress writes, by completion flag",
		},
		[]string{"completed"},
	)

	certificatesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: SERVICE_NAME,
			Name:      "certificates_issued_total",
			Help:      "Certificates issued",
		},
	)

	certificateRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: SERVICE_NAME,
			Name:      "certificate_issue_rejections_total",
			Help:      "Refused certificate requests, by reason",
		},
		[]string{"reason"},
	)

	catalogCacheResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: SERVICE_NAME,
			Name:      "catalog_cache_results_total",
			Help:      "Catalog cache lookups, by result",
		},
		[]string{"result"},
	)
)

// MonitoringService exposes the metrics registry on its own port. The API
// server records into it through MonitoringMiddleware.
type MonitoringService struct {
	context.DefaultService

	port           int
	sampleInterval time.Duration
	registry       *prometheus.Registry

	closed      chan struct{}
	server      *fiber.App
	lastGCCount uint32
}

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *context.Context) error {
	svc.port = config.GetInt("prometheus.port", DEFAULT_PROMETHEUS_PORT)
	svc.sampleInterval = config.GetDuration("prometheus.sample.interval", 15*time.Second)
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	svc.closed = make(chan struct{}, 1)
	svc.registry = newMetricsRegistry()

	if svc.sampleInterval <= 0 {
		svc.sampleInterval = 15 * time.Second
	}
	go svc.sampleRuntime()

	svc.server = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	svc.server.Use(recover.New())
	svc.server.Get("/metrics", svc.metricsHandler)
	svc.server.Get("/health", svc.healthHandler)

	// HttpService owns the blocking Start
	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	log.Info().Int("port", svc.port).Msg("Metrics server started")
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.closed != nil {
		svc.closed <- struct{}{}
	}
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestsInFlight,
		httpRequestDurationSeconds,
		heapAllocBytes,
		gcTotal,
		progressUpdatesTotal,
		certificatesIssuedTotal,
		certificateRejectionsTotal,
		catalogCacheResultsTotal,
	)
	return reg
}

func (svc *MonitoringService) metricsHandler(c *fiber.Ctx) error {
	handler := promhttp.HandlerFor(svc.registry, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)(c)
}

func (svc *MonitoringService) healthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}

func (svc *MonitoringService) sampleRuntime() {
	ticker := time.NewTicker(svc.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			heapAllocBytes.Set(float64(m.HeapAlloc))
			if m.NumGC > svc.lastGCCount {
				gcTotal.Add(float64(m.NumGC - svc.lastGCCount))
				svc.lastGCCount = m.NumGC
			}
		case <-svc.closed:
			return
		}
	}
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

// MonitoringMiddleware records latency and outcome per route pattern, so
// /api/courses/:id is one series however many courses exist.
func MonitoringMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		err := c.Next()

		// the matched route is only known after the chain ran
		route := c.Route().Path
		method := c.Method()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if appErr, ok := shared.GetAppError(err); ok {
				status = appErr.StatusCode
			} else if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		httpRequestsTotal.WithLabelValues(route, method, statusClass(status)).Inc()
		httpRequestDurationSeconds.WithLabelValues(route, method).Observe(time.Since(start).Seconds())

		return err
	}
}

package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/startinfo/academy_api/config"
	"github.com/startinfo/academy_api/services"
)

// @title StartInfo Academy API
// @version 1.0
// @description Course catalog, lesson progress and certificates
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := config.Load(os.Getenv("CONFIG_FILE")); err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	if level, err := zerolog.ParseLevel(config.GetString("log.level", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, err := context.NewCtx(registeredServices()...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating service context")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
		return
	}
}

// registeredServices lists services in start order. Storage comes first and
// the HTTP server last since its Start blocks.
func registeredServices() []context.Service {
	var svcs []context.Service

	switch config.GetString("db.driver", "sqlite") {
	case "postgres":
		svcs = append(svcs, &services.PostgresService{})
	default:
		svcs = append(svcs, &services.SqliteService{})
	}

	if config.GetBool("redis.enabled", false) {
		svcs = append(svcs, &services.RedisService{})
	}
	if config.GetBool("minio.enabled", false) {
		svcs = append(svcs, &services.MinIOService{})
	}

	svcs = append(svcs,
		&services.MonitoringService{},
		&services.JWTService{},
		&services.AuthService{},
		&services.CatalogService{},
		&services.ProgressService{},
		&services.CertificateService{},

		&services.HttpService{},
	)
	return svcs
}

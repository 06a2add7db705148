package router

import (
	"github.com/nsdigital/agency-api/internal/application"
	"github.com/nsdigital/agency-api/internal/container"
	pginfra "github.com/nsdigital/agency-api/internal/infrastructure/postgres"
	handlers "github.com/nsdigital/agency-api/internal/interface/http"
	"github.com/nsdigital/agency-api/internal/router/modules"
)

// InitModules wires repositories, services, and handlers from the container
// singletons and registers every feature module with the registry. Called
// once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewService(
		repo,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetLogger(),
	)

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	adminHandler := handlers.NewAdminHandler(svc, container.GetLogger())
	profileHandler := handlers.NewProfileHandler(svc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminHandler, container.GetJWT()))
	r.Add(modules.NewProfileModule(profileHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

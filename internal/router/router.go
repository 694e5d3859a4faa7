package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskboard/api/handler"
)

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

type Handlers struct {
	Auth        *apiHandler.AuthHandler
	Profile     *apiHandler.ProfileHandler
	Task        *apiHandler.TaskHandler
	Statistics  *apiHandler.StatisticsHandler
	Preferences *apiHandler.PreferenceHandler
	Health      *apiHandler.HealthHandler
}

// Middlewares groups the wrappers applied per route class.
type Middlewares struct {
	Auth         Middleware
	OptionalAuth Middleware
}

func New(handlers Handlers, mw Middlewares) *router.Router {
	r := router.New()
	r.RedirectTrailingSlash = false

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", mw.Auth(handlers.Auth.Logout))

	// Public statistics, personalised when a token is sent
	r.GET("/api/v1/statistics", mw.OptionalAuth(handlers.Statistics.Dashboard))
	r.GET("/api/v1/statistics/my", mw.OptionalAuth(handlers.Statistics.My))

	// Protected routes
	r.GET("/api/v1/profile", mw.Auth(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", mw.Auth(handlers.Profile.UpdateProfile))
	r.GET("/api/v1/users", mw.Auth(handlers.Profile.ListUsers))

	r.GET("/api/v1/tasks/my", mw.Auth(handlers.Task.ListMy))
	r.GET("/api/v1/tasks/delegated", mw.Auth(handlers.Task.ListDelegated))
	r.POST("/api/v1/tasks", mw.Auth(handlers.Task.Create))
	r.POST("/api/v1/tasks/{id}/complete", mw.Auth(handlers.Task.Complete))

	r.GET("/api/v1/preferences", mw.Auth(handlers.Preferences.List))
	r.GET("/api/v1/preferences/{key}", mw.Auth(handlers.Preferences.Get))
	r.PUT("/api/v1/preferences/{key}", mw.Auth(handlers.Preferences.Put))

	return r
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/handler"
	"github.com/iliyamo/cinema-session-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes and the authenticated
// account endpoints.  Unauthenticated operations live under /v1/auth;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers the catalog mutation routes.  Every route requires
// a valid access token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))

	g.POST("/films", a.CreateFilm)
	g.GET("/films", a.ListFilms)
	g.GET("/films/:id", a.GetFilm)
	g.DELETE("/films/:id", a.DeleteFilm)

	g.POST("/halls", a.CreateHall)
	g.GET("/halls", a.ListHalls)
	g.GET("/halls/:id", a.GetHall)
	g.PUT("/halls/:id", a.UpdateHall)
	g.DELETE("/halls/:id", a.DeleteHall)

	g.POST("/sessions", a.CreateSession)
	g.PUT("/sessions/:id", a.UpdateSession)
	g.DELETE("/sessions/:id", a.DeleteSession)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// listing routes carry the Redis response cache and token-bucket rate
// limiter when a Redis client is available; with rdb nil they are served
// plain, which keeps local runs independent of Redis.
func RegisterPublic(e *echo.Echo, s *handler.SessionHandler, rdb *redis.Client) {
	var mw []echo.MiddlewareFunc
	if rdb != nil {
		mw = append(mw,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		)
	}
	e.GET("/v1/sessions", s.List, mw...)
	e.GET("/v1/sessions/search", s.Search, mw...)
	e.GET("/v1/sessions/:id", s.Get, mw...)
}

// RegisterPurchases registers the ticket sale and history routes for any
// authenticated role.
func RegisterPurchases(e *echo.Echo, p *handler.PurchaseHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "CUSTOMER"))
	g.POST("/purchases", p.Buy)
	g.GET("/purchases", p.History)
}

package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"showprep-backend/config"
	"showprep-backend/internal/intake"
	"showprep-backend/internal/mw"
	"showprep-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, intakeService *intake.Service, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()
	if cfg.Server.RequestIPHeader != "" {
		r.RemoteIPHeaders = []string{cfg.Server.RequestIPHeader}
	}

	handler := NewHandler(s, intakeService, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)
	invalidating := mw.Invalidate(cacheStore)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/health", handler.GetHealth)

		// Every status transition, live or replayed from an offline queue,
		// lands here.
		api.POST("/scan", invalidating, handler.PostScan)

		api.GET("/cases", caching, handler.GetCases)
		api.POST("/cases", invalidating, handler.PostCase)
		api.GET("/cases/template", handler.GetCaseTemplate)
		api.GET("/cases/export", handler.GetCaseExport)
		api.POST("/cases/import", invalidating, handler.PostCaseImport)
		api.GET("/cases/:id", handler.GetCase)
		api.PUT("/cases/:id", invalidating, handler.PutCase)

		api.GET("/shows", caching, handler.GetShows)
		api.GET("/trucks", caching, handler.GetTrucks)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}

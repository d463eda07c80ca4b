package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	itemRequestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	MaxPageSize    int
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool
	Logger         zerolog.Logger

	UserService        user.Service
	ItemService        item.Service
	ItemRequestService itemrequest.Service
	BookingService     booking.Service

	// HealthCheck reports whether backing stores are reachable. Nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (recovery, CORS, logging, metrics, rate limiting) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(RequestLogger(cfg.Logger))
	if cfg.MetricsEnabled {
		r.Use(Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/healthz", healthHandler(cfg.HealthCheck))

	identity := auth.IdentityRequired()

	api := r.Group("")
	api.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		userHttp.RegisterRoutes(api, userHttp.NewHandler(cfg.UserService, cfg.MaxPageSize))
		itemHttp.RegisterRoutes(api, itemHttp.NewHandler(cfg.ItemService, cfg.MaxPageSize), identity)
		itemRequestHttp.RegisterRoutes(api, itemRequestHttp.NewHandler(cfg.ItemRequestService, cfg.MaxPageSize), identity)
		bookingHttp.RegisterRoutes(api, bookingHttp.NewHandler(cfg.BookingService, cfg.MaxPageSize), identity)
	}

	return r
}

func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	if cfg.IsProduction && strings.TrimSpace(cfg.ProdOrigins) != "" {
		var origins []string
		for _, o := range strings.Split(cfg.ProdOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.AllowOrigins = origins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", auth.UserIDHeader}
	return config
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/cache"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	App    *config.Config
	DB     db.Querier
	Cache  cache.Cache
	Logger zerolog.Logger

	// HealthCheck is exposed on /healthz. Nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine

	UserService        user.Service
	ItemService        item.Service
	ItemRequestService itemrequest.Service
	BookingService     booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNoop()
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DB)
	userService := user.NewService(userRepo, c)

	// Booking Repository (also serves item projections)
	bookingRepo := booking.NewPgxRepository(cfg.DB)

	// Item Request Module
	itemRepo := item.NewPgxRepository(cfg.DB)
	requestRepo := itemrequest.NewPgxRepository(cfg.DB)
	requestService := itemrequest.NewService(requestRepo, userService, itemRepo)

	// Item Module
	itemService := item.NewService(itemRepo, userService, requestService, bookingRepo, c)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, userService, itemService, cfg.Logger)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.App.IsProduction,
		ProdOrigins:        cfg.App.ProdOrigins,
		MaxPageSize:        cfg.App.API.MaxPageSize,
		RateLimitRPS:       cfg.App.API.RateLimitRPS,
		RateLimitBurst:     cfg.App.API.RateLimitBurst,
		MetricsEnabled:     cfg.App.API.MetricsEnabled,
		Logger:             cfg.Logger,
		UserService:        userService,
		ItemService:        itemService,
		ItemRequestService: requestService,
		BookingService:     bookingService,
		HealthCheck:        cfg.HealthCheck,
	})

	return &Container{
		Router:             router,
		UserService:        userService,
		ItemService:        itemService,
		ItemRequestService: requestService,
		BookingService:     bookingService,
	}
}

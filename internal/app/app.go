// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"hwcatalog/internal/handlers"
	"hwcatalog/internal/lock"
	"hwcatalog/internal/metrics"
	"hwcatalog/internal/middleware"
	"hwcatalog/internal/models"
	"hwcatalog/internal/repositories"
	"hwcatalog/internal/services"
)

// Options are the dependencies of an App. Only Logger is required; a nil DB
// selects the in-memory repositories, a nil Locker a local one, a nil
// Publisher disables events, a nil Auth leaves mutations open.
type Options struct {
	DB        *gorm.DB
	Locker    lock.Locker
	Publisher services.EventPublisher
	Auth      *services.AuthService
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// Services holds one engine per category.
type Services struct {
	CPU           *services.ProductService[models.CPU, *models.CPU]
	GPU           *services.ProductService[models.GPU, *models.GPU]
	Motherboard   *services.ProductService[models.Motherboard, *models.Motherboard]
	RAM           *services.ProductService[models.RAM, *models.RAM]
	StorageDevice *services.ProductService[models.StorageDevice, *models.StorageDevice]
	PowerSupply   *services.ProductService[models.PowerSupply, *models.PowerSupply]
}

// App is the assembled HTTP service.
type App struct {
	Fiber    *fiber.App
	Services Services
	Catalog  *services.CatalogService
	Metrics  *metrics.Metrics
}

// New assembles the App.
func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Locker == nil {
		opts.Locker = lock.NewLocal()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	f := fiber.New(fiber.Config{
		AppName:      "hwcatalog",
		ErrorHandler: errorHandler(opts.Logger),
	})

	f.Use(recover.New())
	f.Use(requestid.New())
	if opts.AccessLog {
		f.Use(fiberlogger.New())
	}
	f.Use(cors.New())
	f.Use(opts.Metrics.Middleware())

	f.Get("/health", healthHandler(opts.DB))
	f.Get("/metrics", opts.Metrics.Handler())

	api := f.Group("/api")
	if opts.Auth != nil {
		api.Use(middleware.MutationsOnly(middleware.AuthRequired(opts.Auth, opts.Logger)))
	}

	a := &App{Fiber: f, Metrics: opts.Metrics}
	a.Services.CPU = register[models.CPU](api, models.CPUSchema, opts)
	a.Services.GPU = register[models.GPU](api, models.GPUSchema, opts)
	a.Services.Motherboard = register[models.Motherboard](api, models.MotherboardSchema, opts)
	a.Services.RAM = register[models.RAM](api, models.RAMSchema, opts)
	a.Services.StorageDevice = register[models.StorageDevice](api, models.StorageDeviceSchema, opts)
	a.Services.PowerSupply = register[models.PowerSupply](api, models.PowerSupplySchema, opts)

	a.Catalog = services.NewCatalogService(opts.Logger, a.Services.sources()...)
	handlers.NewCatalogHandler(a.Catalog, opts.Metrics, opts.Logger).RegisterRoutes(api)

	return a
}

// sources returns the engines in aggregate listing order.
func (s Services) sources() []services.CategorySource {
	return []services.CategorySource{s.CPU, s.GPU, s.Motherboard, s.RAM, s.StorageDevice, s.PowerSupply}
}

func register[T any, P models.RecordPtr[T]](api fiber.Router, schema models.Schema, opts Options) *services.ProductService[T, P] {
	var repo repositories.ProductRepository[T]
	if opts.DB != nil {
		repo = repositories.NewGORMProductRepository[T, P](opts.DB, schema)
	} else {
		repo = repositories.NewMemoryProductRepository[T, P](schema)
	}

	svc := services.NewProductService[T, P](repo, schema, opts.Locker, opts.Publisher, opts.Logger)
	handlers.NewProductHandler(svc, opts.Metrics, opts.Logger).RegisterRoutes(api)
	return svc
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		database := "memory"
		if db != nil {
			database = "connected"
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status":   "unhealthy",
					"time":     time.Now().Format(time.RFC3339),
					"database": "unavailable",
				})
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
		})
	}
}

// errorHandler answers errors that escape the handlers, such as unknown
// routes and recovered panics, in the same JSON shape.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
			return c.Status(code).JSON(fiber.Map{"message": "Internal server error"})
		}
		return c.Status(code).JSON(fiber.Map{"message": fe.Message})
	}
}

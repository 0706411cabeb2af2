package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/statement-ledger/internal/observability"
)

// ServerConfig configures the fiber app.
type ServerConfig struct {
	BodyLimitMB int
	StaticDir   string
	Metrics     *observability.Metrics
}

// NewApp builds the fiber app with middleware and all routes.
func NewApp(h *Handler, cfg ServerConfig) *fiber.App {
	bodyLimit := cfg.BodyLimitMB << 20
	if bodyLimit <= 0 {
		bodyLimit = 32 << 20
	}
	app := fiber.New(fiber.Config{
		AppName:               "statement-ledger",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return writeError(c, code, err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(observability.ZapLoggerMiddleware(h.logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	h.RegisterRoutes(app)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
	return app
}

// RegisterRoutes sets up the API routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/analyze", h.HandleAnalyze)
	api.Get("/categories", h.HandleListCategories)
	api.Post("/categories", h.HandleAddCategory)

	if h.store == nil {
		return
	}
	api.Post("/users", h.HandleRegister)
	api.Post("/login", h.HandleLogin)
	api.Get("/users/:account/documents", h.RequireAccount, h.HandleListDocuments)
	api.Post("/users/:account/documents", h.RequireAccount, h.HandleUploadDocuments)
	api.Post("/users/:account/analyze", h.RequireAccount, h.HandleAnalyzeStored)
	api.Delete("/documents/:id", h.RequireAccount, h.HandleDeleteDocument)
}

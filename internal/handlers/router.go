package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Handlers struct {
	Rank       *RankHandler
	Result     *ResultHandler
	Transcribe *TranscribeHandler
	Search     *SearchHandler
}

// NewApp builds the Fiber application with middleware and all routes.
func NewApp(h Handlers, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Resume Ranker API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/rank", h.Rank.HandleRank)
	api.Post("/compare", h.Rank.HandleCompare)
	api.Get("/rankings/:id", h.Result.HandleGetResult)
	api.Get("/rankings/:id/csv", h.Result.HandleDownloadCSV)
	api.Delete("/rankings/:id", h.Result.HandleDelete)
	api.Post("/transcribe", h.Transcribe.HandleTranscribe)
	api.Get("/candidates/search", h.Search.HandleSearch)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Ranker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/rank",
				"POST /api/v1/compare",
				"GET /api/v1/rankings/:id",
				"GET /api/v1/rankings/:id/csv",
				"DELETE /api/v1/rankings/:id",
				"POST /api/v1/transcribe",
				"GET /api/v1/candidates/search",
			},
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

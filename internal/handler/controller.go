package handler

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"trends-go/internal/service"
	"trends-go/pkg/logger"
	"trends-go/pkg/trends"
)

// Controller exposes the trend fetch over HTTP
type Controller struct {
	trends service.TrendService
	log    *logger.Logger
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StatusResponse is the health check body
type StatusResponse struct {
	Status string `json:"status"`
}

func NewController(svc service.TrendService) *Controller {
	return &Controller{
		trends: svc,
		log:    logger.GetLogger().WithField("component", "controller"),
	}
}

// Register mounts the routes on app
func (c *Controller) Register(app *fiber.App) {
	app.Get("/healthz", c.Health)
	app.Get("/api/trends", c.GetTrends)
	app.Post("/api/trends", c.PostTrends)
}

func (c *Controller) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(StatusResponse{Status: "ok"})
}

// GetTrends reads the keyword array from the "keywords" query parameter
func (c *Controller) GetTrends(ctx *fiber.Ctx) error {
	return c.fetch(ctx, ctx.Query("keywords"))
}

// PostTrends reads the keyword array from the request body
func (c *Controller) PostTrends(ctx *fiber.Ctx) error {
	return c.fetch(ctx, string(ctx.Body()))
}

func (c *Controller) fetch(ctx *fiber.Ctx, arg string) error {
	keywords, err := trends.ParseKeywords(arg)
	if err != nil {
		return c.fail(ctx, err)
	}

	records, err := c.trends.Fetch(ctx.UserContext(), keywords)
	if err != nil {
		return c.fail(ctx, err)
	}

	var buf bytes.Buffer
	if err := trends.Encode(&buf, records); err != nil {
		return c.fail(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (c *Controller) fail(ctx *fiber.Ctx, err error) error {
	status := StatusFor(err)
	kind := trends.KindOf(err).String()

	log := c.log.WithError(err).WithFields(map[string]interface{}{
		"kind":       kind,
		"status":     status,
		"request_id": ctx.Locals(requestIDKey),
	})
	if status >= fiber.StatusInternalServerError {
		log.Error("Trend fetch failed")
	} else {
		log.Warn("Trend fetch rejected")
	}
	return ctx.Status(status).JSON(ErrorResponse{Error: err.Error(), Kind: kind})
}

// StatusFor maps a fetch error to the HTTP status returned to the caller
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch trends.KindOf(err) {
	case trends.KindInput:
		return fiber.StatusBadRequest
	case trends.KindRateLimited:
		return fiber.StatusTooManyRequests
	case 0:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadGateway
	}
}

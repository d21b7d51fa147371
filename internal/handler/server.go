package handler

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"trends-go/internal/service"
	"trends-go/pkg/logger"
	"trends-go/pkg/trends"
)

const requestIDKey = "requestid"

// NewApp builds the Fiber app serving svc
func NewApp(svc service.TrendService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "trends-go",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(accessLog(logger.GetLogger().WithField("component", "http")))

	NewController(svc).Register(app)
	return app
}

func errorHandler(ctx *fiber.Ctx, err error) error {
	status := StatusFor(err)
	return ctx.Status(status).JSON(ErrorResponse{
		Error: err.Error(),
		Kind:  trends.KindOf(err).String(),
	})
}

func accessLog(log *logger.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		status := ctx.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		log.WithFields(map[string]interface{}{
			"method":      ctx.Method(),
			"path":        ctx.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  ctx.Locals(requestIDKey),
		}).Info("Request handled")
		return err
	}
}

// Serve listens on host:port until ctx is done, then shuts the app down
// within shutdownTimeout
func Serve(ctx context.Context, app *fiber.App, host string, port int, shutdownTimeout time.Duration) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	log := logger.GetLogger().WithField("component", "server")

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Server listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down gracefully")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

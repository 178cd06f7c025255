package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"opportunity-matcher/internal/delivery/http/middleware"
	"opportunity-matcher/internal/delivery/http/routes"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application over an existing container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	routes.NewRegistry(routes.Deps{
		Config:        c.Config,
		Logger:        c.Logger,
		Stats:         c.Stats,
		Catalog:       c.Catalog,
		Profiles:      c.Profiles,
		Opportunities: c.Opportunities,
		Ranker:        c.Ranker,
		Summary:       c.Summary,
		Hub:           c.Hub,
		JWT:           c.JWT,
	}).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts the websocket hub and, when
// enabled, the digest scheduler. The returned cleanup stops them in reverse.
func Bootstrap(ctx context.Context, c *Container) (*App, func() error, error) {
	app := New(c)

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	if c.Config.Digest.Enabled {
		if err := c.Digest.Start(); err != nil {
			stopHub()
			return nil, nil, err
		}
	}

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(c.Logger)
	accessMw := middleware.NewAccessLogMiddleware(c.Logger.With().Str("component", "http").Logger())
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

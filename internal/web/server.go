package web

import (
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"kanban-board/internal/render"
)

// templateRenderer adapts the board templates to echo's Renderer.
type templateRenderer struct {
	templates *render.Templates
}

func (r templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.Execute(w, name, data)
}

// NewServer builds the echo instance serving the board.
func NewServer(h *Handler, templates *render.Templates, log *logrus.Logger) *echo.Echo {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = templateRenderer{templates: templates}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/clock/stream"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.Round(time.Microsecond).String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	}))

	e.StaticFS("/static", render.Static())
	Register(e, h)

	// Shutdown waits for active connections, so open clock streams must end.
	e.Server.RegisterOnShutdown(h.Close)
	return e
}

package mdblog

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/mdblog/comments"
)

// contentSecurityPolicy allows the comment widget's script and frame.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' " + comments.Origin + "; " +
	"frame-src " + comments.Origin + "; " +
	"style-src 'self' 'unsafe-inline' " + comments.Origin + "; " +
	"img-src 'self' https: data:; font-src 'self'; connect-src 'self'"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
	}))

	e.Use(a.cacheControlMiddleware)
}

// cacheControlMiddleware keeps the index and the markdown sources fresh so a
// rebuild shows up on the next load.
func (a *App) cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	indexPath := "/" + strings.TrimPrefix(a.Config.IndexFile, "/")
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case path == indexPath || strings.HasSuffix(path, ".md"):
			c.Response().Header().Set("Cache-Control", "no-cache")
		case path == "/"+SitemapFile || path == "/"+FeedFile || path == "/"+RobotsFile:
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}

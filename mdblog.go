// Package mdblog is a static markdown blog built with Go, Echo, and templ.
// It builds the post index, RSS feed and sitemap from a directory of markdown
// files, and serves the site locally with optional rebuild-on-change.
//
// The page components live in sub-packages: listing for the front page, post
// for single posts, theme for the light/dark switch.
package mdblog

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/mdblog/debounce"
	"github.com/eringen/mdblog/index"
)

// Feed and sitemap file names under the site directory.
const (
	FeedFile    = "feed.xml"
	SitemapFile = "sitemap.xml"
	RobotsFile  = "robots.txt"
)

// App is the central mdblog application. It wires together the build
// pipeline, the static server and the page watcher.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Logger *log.Logger

	customRoutes []func(*App)
	now          func() time.Time

	buildMu   sync.Mutex
	setupOnce sync.Once
	watcher   *fsnotify.Watcher
	rebuild   *debounce.Debouncer
	watchDone chan struct{}
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: log.New("mdblog"),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.Echo.HideBanner = true
	a.Echo.Logger = a.Logger
	return a
}

// BuildResult reports what Build wrote.
type BuildResult struct {
	Posts []index.Post
	Files []string
}

// Build regenerates the post index, feed, sitemap and robots.txt. Builds
// are serialized.
func (a *App) Build() (*BuildResult, error) {
	a.buildMu.Lock()
	defer a.buildMu.Unlock()

	builder := index.NewBuilder(a.Config.PagesPath(),
		index.WithClock(a.now),
		index.WithLogger(a.Logger),
	)
	posts, err := builder.WriteFile(a.Config.IndexPath())
	if err != nil {
		return nil, fmt.Errorf("mdblog: build index: %w", err)
	}
	res := &BuildResult{Posts: posts, Files: []string{a.Config.IndexPath()}}

	outputs := []struct {
		name  string
		write func(path string, posts []index.Post) error
	}{
		{FeedFile, a.writeFeed},
		{SitemapFile, a.writeSitemap},
		{RobotsFile, a.writeRobots},
	}
	for _, out := range outputs {
		path := filepath.Join(a.Config.SiteDir, out.name)
		if err := out.write(path, posts); err != nil {
			return nil, fmt.Errorf("mdblog: write %s: %w", out.name, err)
		}
		res.Files = append(res.Files, path)
	}
	a.Logger.Infof("built %d posts into %s", len(posts), a.Config.SiteDir)
	return res, nil
}

// Setup installs middleware and routes. It runs once; Start calls it.
func (a *App) Setup() {
	a.setupOnce.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
}

// Start builds the site, starts the watcher when configured, and serves the
// site directory until the server is shut down.
func (a *App) Start() error {
	if _, err := a.Build(); err != nil {
		return err
	}
	a.Setup()

	if a.Config.Watch {
		if err := a.Watch(); err != nil {
			return err
		}
	}

	a.Logger.Infof("serving %s on %s", a.Config.SiteDir, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo
	e.Static("/", a.Config.SiteDir)
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var err error
	if a.watcher != nil {
		err = a.watcher.Close()
		a.watcher = nil
		<-a.watchDone
	}
	// The watch loop has exited, so nothing can schedule another rebuild.
	if a.rebuild != nil {
		a.rebuild.Cancel()
	}
	return err
}

package mdblog

import (
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/mdblog/comments"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/views"
)

// SiteConfig holds all configuration for an mdblog site. Field tags name the
// keys of blog.yaml and, upper-cased with an MDBLOG_ prefix, the environment.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Blog")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Feed description
	Author      string `mapstructure:"author"`      // Author name for JSON-LD
	Locale      string `mapstructure:"locale"`      // Date and label locale (default "en_US")

	Addr      string `mapstructure:"addr"`       // Listen address (default ":3000")
	SiteDir   string `mapstructure:"site_dir"`   // Static site root (default "site")
	PagesDir  string `mapstructure:"pages_dir"`  // Markdown directory under SiteDir (default "pages")
	IndexFile string `mapstructure:"index_file"` // Index path under SiteDir (default "posts.json")

	HighlightStyle string        `mapstructure:"highlight_style"` // chroma style (default "github")
	SearchDebounce time.Duration `mapstructure:"search_debounce"` // default 300ms
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`  // default 500ms
	Watch          bool          `mapstructure:"watch"`           // rebuild on page changes while serving

	Comments comments.Config `mapstructure:"comments"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Locale == "" {
		c.Locale = views.DefaultLocale
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.SiteDir == "" {
		c.SiteDir = "site"
	}
	if c.PagesDir == "" {
		c.PagesDir = "pages"
	}
	if c.IndexFile == "" {
		c.IndexFile = "posts.json"
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = markdown.DefaultHighlightStyle
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = 300 * time.Millisecond
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = 500 * time.Millisecond
	}
	c.Comments.SetLocale(c.Locale)
	c.Comments.SetDefaults()
}

// PagesPath is the directory the index is built from.
func (c SiteConfig) PagesPath() string {
	return filepath.Join(c.SiteDir, c.PagesDir)
}

// IndexPath is the generated index file.
func (c SiteConfig) IndexPath() string {
	return filepath.Join(c.SiteDir, c.IndexFile)
}

// View returns the settings the page components need.
func (c SiteConfig) View() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		Locale:      c.Locale,
	}
}

// MarkdownOptions returns the converter settings for post bodies.
func (c SiteConfig) MarkdownOptions() markdown.Options {
	opts := markdown.DefaultOptions()
	opts.HighlightStyle = c.HighlightStyle
	return opts
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the application logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithClock sets the clock used for defaulted post dates.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

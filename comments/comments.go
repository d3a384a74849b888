// Package comments embeds the giscus discussion widget on post pages and keeps
// its color theme in step with the page theme.
package comments

import (
	"encoding/json"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/mdblog/page"
)

const (
	// Origin is the widget's origin; theme messages are posted only to it.
	Origin = "https://giscus.app"
	// ScriptSrc is the widget loader.
	ScriptSrc = Origin + "/client.js"
	// ThemeAttr is the root attribute the widget theme follows.
	ThemeAttr = "data-theme"
)

// Config identifies the discussion repository and tunes the widget.
type Config struct {
	Repo          string `mapstructure:"repo"`
	RepoID        string `mapstructure:"repo_id"`
	Category      string `mapstructure:"category"`
	CategoryID    string `mapstructure:"category_id"`
	Mapping       string `mapstructure:"mapping"`
	Strict        bool   `mapstructure:"strict"`
	Reactions     bool   `mapstructure:"reactions"`
	EmitMetadata  bool   `mapstructure:"emit_metadata"`
	InputPosition string `mapstructure:"input_position"`
	Lang          string `mapstructure:"lang"`
	Loading       string `mapstructure:"loading"`
}

// DefaultConfig returns the widget settings used when the site config leaves
// them out. The repository identity has no default.
func DefaultConfig() Config {
	return Config{
		Category:      "General",
		Mapping:       "pathname",
		Reactions:     true,
		EmitMetadata:  true,
		InputPosition: "top",
		Lang:          "en",
		Loading:       "lazy",
	}
}

// LangFor returns the widget language for a site locale such as "ko_KR":
// its lowercased language part, or "" when the locale is empty.
func LangFor(locale string) string {
	lang, _, _ := strings.Cut(locale, "_")
	lang, _, _ = strings.Cut(lang, "-")
	return strings.ToLower(strings.TrimSpace(lang))
}

// SetLocale sets the widget language from the site locale unless one is
// already configured.
func (c *Config) SetLocale(locale string) {
	if c.Lang == "" {
		c.Lang = LangFor(locale)
	}
}

// SetDefaults fills empty settings from DefaultConfig.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Category == "" {
		c.Category = d.Category
	}
	if c.Mapping == "" {
		c.Mapping = d.Mapping
	}
	if c.InputPosition == "" {
		c.InputPosition = d.InputPosition
	}
	if c.Lang == "" {
		c.Lang = d.Lang
	}
	if c.Loading == "" {
		c.Loading = d.Loading
	}
}

// Enabled reports whether a repository is configured.
func (c Config) Enabled() bool {
	return c.Repo != "" && c.RepoID != ""
}

// WidgetTheme maps a page theme to the widget's: dark stays dark, anything
// else is light.
func WidgetTheme(theme string) string {
	if theme == "dark" {
		return "dark"
	}
	return "light"
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Script renders the widget's loader tag with the given initial theme. It
// renders nothing when no repository is configured.
func Script(cfg Config, theme string) templ.Component {
	cfg.SetDefaults()
	attrs := [][2]string{
		{"src", ScriptSrc},
		{"data-repo", cfg.Repo},
		{"data-repo-id", cfg.RepoID},
		{"data-category", cfg.Category},
		{"data-category-id", cfg.CategoryID},
		{"data-mapping", cfg.Mapping},
		{"data-strict", flag(cfg.Strict)},
		{"data-reactions-enabled", flag(cfg.Reactions)},
		{"data-emit-metadata", flag(cfg.EmitMetadata)},
		{"data-input-position", cfg.InputPosition},
		{"data-theme", WidgetTheme(theme)},
		{"data-lang", cfg.Lang},
		{"data-loading", cfg.Loading},
		{"crossorigin", "anonymous"},
	}
	var b strings.Builder
	if cfg.Enabled() {
		b.WriteString("<script")
		for _, a := range attrs {
			b.WriteString(" " + a[0] + `="` + templ.EscapeString(a[1]) + `"`)
		}
		b.WriteString(" async></script>")
	}
	return templ.Raw(b.String())
}

// SetConfigMessage is the cross-frame message that updates widget settings.
type SetConfigMessage struct {
	Giscus struct {
		SetConfig struct {
			Theme string `json:"theme"`
		} `json:"setConfig"`
	} `json:"giscus"`
}

// ThemeMessage encodes the message switching the widget to theme.
func ThemeMessage(theme string) ([]byte, error) {
	var m SetConfigMessage
	m.Giscus.SetConfig.Theme = WidgetTheme(theme)
	return json.Marshal(m)
}

// Frame is the widget's embedded frame.
type Frame interface {
	PostMessage(msg []byte, targetOrigin string) error
}

// FrameFunc looks up the frame. It returns nil while the widget has not
// loaded.
type FrameFunc func() Frame

// Document is the page whose root theme attribute is observed.
type Document interface {
	Observe(attr string, fn page.AttrFunc) (cancel func())
}

// Logger receives delivery failures.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Attach forwards every change of the root theme attribute to the widget
// frame. Changes made before the frame exists are dropped. The returned
// function stops forwarding.
func Attach(doc Document, frame FrameFunc, log Logger) (detach func()) {
	return doc.Observe(ThemeAttr, func(_, _, value string) {
		f := frame()
		if f == nil {
			log.Debugf("comments: widget not loaded, skipping theme %s", value)
			return
		}
		msg, err := ThemeMessage(value)
		if err != nil {
			log.Warnf("comments: encode theme message: %v", err)
			return
		}
		if err := f.PostMessage(msg, Origin); err != nil {
			log.Warnf("comments: post theme message: %v", err)
		}
	})
}

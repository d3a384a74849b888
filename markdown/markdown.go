// Package markdown turns post bodies into HTML and plain-text excerpts.
//
// Conversion is delegated to goldmark with GitHub-flavoured extensions, hard
// line breaks and chroma syntax highlighting for fenced code.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// Options selects converter behaviour.
type Options struct {
	// HardWraps turns single newlines into <br>.
	HardWraps bool
	// GFM enables tables, strikethrough, autolinks and task lists.
	GFM bool
	// Highlight enables syntax highlighting of fenced code blocks.
	Highlight bool
	// HighlightStyle names the chroma style (default "github").
	HighlightStyle string
}

// DefaultOptions mirrors the post page: line breaks kept, GFM on, code
// highlighted.
func DefaultOptions() Options {
	return Options{
		HardWraps:      true,
		GFM:            true,
		Highlight:      true,
		HighlightStyle: DefaultHighlightStyle,
	}
}

// Converter renders markdown to HTML. It is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a Converter for opts.
func NewConverter(opts Options) *Converter {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	if opts.Highlight {
		style := opts.HighlightStyle
		if style == "" {
			style = DefaultHighlightStyle
		}
		exts = append(exts, highlighting.NewHighlighting(highlighting.WithStyle(style)))
	}

	rendererOptions := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Convert renders src as HTML.
func (c *Converter) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}

// Markdown returns a templ.Component that renders src as HTML using c.
func Markdown(c *Converter, src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := c.Convert(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Package post renders a single post page: the markdown file named by the
// page's query is fetched, its front matter fills the header, its body is
// converted to HTML and the comment widget is embedded below it.
package post

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/eringen/mdblog/comments"
	"github.com/eringen/mdblog/fetch"
	"github.com/eringen/mdblog/frontmatter"
	"github.com/eringen/mdblog/index"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/page"
	"github.com/eringen/mdblog/views"
)

// ErrNoPost is returned when the query names no post.
var ErrNoPost = errors.New("post: no post requested")

// QueryParam names the post file in the page query.
const QueryParam = "post"

// PagesDir is the site directory holding the markdown files.
const PagesDir = "pages"

// Regions of the post page.
const (
	TitleRegion    = "post-title"
	MetaRegion     = "post-meta"
	ContentRegion  = "post-content"
	CommentsRegion = "giscus-container"
	DataRegion     = "structured-data"
)

// NewPage returns an empty post page document.
func NewPage() *page.Document {
	return page.New(DataRegion, TitleRegion, MetaRegion, ContentRegion, CommentsRegion)
}

// Logger is the subset of gommon's logger the renderer reports to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Renderer fills a post page.
type Renderer struct {
	fetcher  fetch.Fetcher
	doc      *page.Document
	conv     *markdown.Converter
	site     views.SiteConfig
	labels   views.Labels
	comments comments.Config
	frame    comments.FrameFunc
	log      Logger
	detach   func()

	// initial page state, restored before every load
	blankTitle   string
	blankRegions map[string]string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSite sets the site name, URL and locale used in titles and dates.
func WithSite(cfg views.SiteConfig) Option {
	return func(r *Renderer) {
		r.site = cfg
	}
}

// WithComments configures the comment widget. Without a repository the
// widget is left out.
func WithComments(cfg comments.Config) Option {
	return func(r *Renderer) {
		r.comments = cfg
	}
}

// WithFrame keeps the widget's theme in sync with the page once frame
// returns the loaded widget.
func WithFrame(frame comments.FrameFunc) Option {
	return func(r *Renderer) {
		r.frame = frame
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(r *Renderer) {
		r.log = l
	}
}

// New returns a renderer writing into doc. conv may be nil, in which case
// the body cannot be converted and a failure message is shown instead.
func New(f fetch.Fetcher, doc *page.Document, conv *markdown.Converter, opts ...Option) *Renderer {
	r := &Renderer{
		fetcher: f,
		doc:     doc,
		conv:    conv,
		log:     log.New("post"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.labels = views.LabelsFor(r.site.Locale)
	r.blankTitle = doc.Title()
	r.blankRegions = make(map[string]string)
	for _, id := range []string{TitleRegion, MetaRegion, ContentRegion, CommentsRegion, DataRegion} {
		if region, ok := doc.Region(id); ok {
			r.blankRegions[id] = region.HTML
		}
	}
	return r
}

// Load renders the post named by the query's post parameter. A missing
// parameter or a failed fetch renders the error state and returns the error.
func (r *Renderer) Load(ctx context.Context, query url.Values) error {
	r.reset()
	file := query.Get(QueryParam)
	if file == "" {
		r.showError(ctx, r.labels.NoPost)
		return ErrNoPost
	}

	raw, err := r.fetcher.Fetch(ctx, PagesDir+"/"+url.PathEscape(file))
	if err != nil {
		r.log.Errorf("post: load %s: %v", file, err)
		r.showError(ctx, r.labels.LoadFailed)
		return fmt.Errorf("post: load %s: %w", file, err)
	}

	meta, body := frontmatter.Parse(string(raw))
	if err := r.renderHeader(ctx, meta); err != nil {
		return err
	}
	if err := r.renderContent(ctx, body); err != nil {
		return err
	}
	if err := r.renderStructuredData(ctx, file, string(raw)); err != nil {
		return err
	}
	return r.renderComments(ctx)
}

// Close stops the comment theme sync.
func (r *Renderer) Close() {
	if r.detach != nil {
		r.detach()
		r.detach = nil
	}
}

// reset puts the page back the way it was when the renderer was created, so
// nothing from a previously loaded post survives into the next one.
func (r *Renderer) reset() {
	r.doc.SetTitle(r.blankTitle)
	for id, html := range r.blankRegions {
		_ = r.doc.SetHTML(id, html)
	}
}

func (r *Renderer) renderHeader(ctx context.Context, meta frontmatter.Metadata) error {
	if title, ok := meta.String("title"); ok && title != "" && r.doc.Has(TitleRegion) {
		if err := r.doc.Render(ctx, TitleRegion, views.Text(title)); err != nil {
			return err
		}
		r.doc.SetTitle(title + " - " + r.site.Name)
	}
	if !r.doc.Has(MetaRegion) {
		return nil
	}
	date, _ := meta.String("date")
	category, _ := meta.String("category")
	tags, hasTags := meta.List(frontmatter.TagsKey)
	return r.doc.Render(ctx, MetaRegion, views.PostMeta(date, category, tags, hasTags, r.site.Locale))
}

func (r *Renderer) renderContent(ctx context.Context, body string) error {
	if !r.doc.Has(ContentRegion) {
		return nil
	}
	if r.conv == nil {
		return r.doc.Render(ctx, ContentRegion, views.Message(r.labels.RendererFailed))
	}
	html, err := r.conv.Convert(body)
	if err != nil {
		r.log.Errorf("post: %v", err)
		return r.doc.Render(ctx, ContentRegion, views.Message(r.labels.RendererFailed))
	}
	return r.doc.SetHTML(ContentRegion, html)
}

func (r *Renderer) renderStructuredData(ctx context.Context, file, raw string) error {
	if !r.doc.Has(DataRegion) {
		return nil
	}
	p := index.NewPost(file, raw, "")
	return r.doc.Render(ctx, DataRegion, views.JSONLD(views.BlogPostingJsonLD(r.site, p)))
}

func (r *Renderer) renderComments(ctx context.Context) error {
	if !r.doc.Has(CommentsRegion) {
		return nil
	}
	if !r.comments.Enabled() {
		r.log.Debugf("post: no comment repository configured")
		return nil
	}
	current, ok := r.doc.Attr(comments.ThemeAttr)
	if !ok {
		current = "light"
	}
	if err := r.doc.Render(ctx, CommentsRegion, comments.Script(r.comments, current)); err != nil {
		return err
	}
	if r.frame != nil && r.detach == nil {
		r.detach = comments.Attach(r.doc, r.frame, r.log)
	}
	return nil
}

func (r *Renderer) showError(ctx context.Context, message string) {
	if r.doc.Has(TitleRegion) {
		_ = r.doc.Render(ctx, TitleRegion, views.Text(r.labels.ErrorTitle))
	}
	if r.doc.Has(ContentRegion) {
		if err := r.doc.Render(ctx, ContentRegion, views.ErrorState(message, r.labels)); err != nil {
			r.log.Warnf("post: render error state: %v", err)
		}
	}
	r.doc.SetTitle(strings.TrimSuffix(r.labels.ErrorTitle+" - "+r.site.Name, " - "))
}

package post

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/mdblog/comments"
	"github.com/eringen/mdblog/fetch"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/page"
	"github.com/eringen/mdblog/views"
)

type testLogger struct{ errors int }

func (l *testLogger) Debugf(string, ...interface{}) {}
func (l *testLogger) Warnf(string, ...interface{})  {}
func (l *testLogger) Errorf(string, ...interface{}) { l.errors++ }

type frame struct{ messages []string }

func (f *frame) PostMessage(msg []byte, _ string) error {
	f.messages = append(f.messages, string(msg))
	return nil
}

var site = views.SiteConfig{Name: "My Blog", URL: "https://blog.example.com", Locale: "en_US"}

var pages = fstest.MapFS{
	"pages/hello.md": {Data: []byte("---\n" +
		"title: \"Hello\"\n" +
		"date: 2024-01-01\n" +
		"category: intro\n" +
		"tags: [\"go\", \"web\"]\n" +
		"---\n" +
		"# Heading\n\nSome **bold** text.\n\n```go\nfmt.Println(1)\n```\n")},
	"pages/plain.md":      {Data: []byte("no front matter here")},
	"pages/scalar.md":     {Data: []byte("---\ntitle: S\ntags: go\n---\nbody")},
	"pages/with space.md": {Data: []byte("---\ntitle: Spaced\n---\nok")},
	"secret.md":           {Data: []byte("---\ntitle: Secret\n---\n")},
}

func newRenderer(t *testing.T, opts ...Option) (*Renderer, *page.Document, *testLogger) {
	t.Helper()
	doc := NewPage()
	lg := &testLogger{}
	opts = append([]Option{WithSite(site), WithLogger(lg)}, opts...)
	r := New(fetch.NewDir(pages), doc, markdown.NewConverter(markdown.DefaultOptions()), opts...)
	t.Cleanup(r.Close)
	return r, doc, lg
}

func query(file string) url.Values {
	return url.Values{QueryParam: []string{file}}
}

func TestLoadRendersPost(t *testing.T) {
	r, doc, lg := newRenderer(t)
	require.NoError(t, r.Load(context.Background(), query("hello.md")))

	assert.Equal(t, "Hello", doc.HTML(TitleRegion))
	assert.Equal(t, "Hello - My Blog", doc.Title())

	meta := doc.HTML(MetaRegion)
	assert.Contains(t, meta, `<span class="post-date">January 1, 2024</span>`)
	assert.Contains(t, meta, `<span class="post-category">intro</span>`)
	assert.Contains(t, meta, `<span class="post-card-tag">go</span><span class="post-card-tag">web</span>`)

	content := doc.HTML(ContentRegion)
	assert.Contains(t, content, `<h1 id="heading">Heading</h1>`)
	assert.Contains(t, content, "<strong>bold</strong>")
	assert.Contains(t, content, "<pre")

	assert.Contains(t, doc.HTML(DataRegion), `"headline":"Hello"`)
	assert.Empty(t, doc.HTML(CommentsRegion), "no widget without a repository")
	assert.Zero(t, lg.errors)
}

func TestLoadWithoutFrontMatter(t *testing.T) {
	r, doc, _ := newRenderer(t)
	require.NoError(t, r.Load(context.Background(), query("plain.md")))

	assert.Equal(t, "", doc.HTML(TitleRegion))
	assert.Equal(t, "", doc.HTML(MetaRegion))
	assert.Contains(t, doc.HTML(ContentRegion), "no front matter here")
}

func TestScalarTagsShowNoChips(t *testing.T) {
	r, doc, _ := newRenderer(t)
	require.NoError(t, r.Load(context.Background(), query("scalar.md")))
	assert.NotContains(t, doc.HTML(MetaRegion), "post-tags")
}

func TestFileNameIsEscaped(t *testing.T) {
	r, doc, _ := newRenderer(t)
	require.NoError(t, r.Load(context.Background(), query("with space.md")))
	assert.Equal(t, "Spaced", doc.HTML(TitleRegion))

	err := r.Load(context.Background(), query("../secret.md"))
	assert.ErrorIs(t, err, fetch.ErrNotFound)
}

func TestMissingParameter(t *testing.T) {
	r, doc, _ := newRenderer(t)
	err := r.Load(context.Background(), url.Values{})
	assert.ErrorIs(t, err, ErrNoPost)

	assert.Equal(t, "Error", doc.HTML(TitleRegion))
	content := doc.HTML(ContentRegion)
	assert.Contains(t, content, "The post could not be found.")
	assert.Contains(t, content, `href="index.html"`)
}

func TestFetchFailure(t *testing.T) {
	r, doc, lg := newRenderer(t)
	err := r.Load(context.Background(), query("missing.md"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetch.ErrNotFound))

	content := doc.HTML(ContentRegion)
	assert.Contains(t, content, "Something went wrong while loading the post.")
	assert.Contains(t, content, `<a href="index.html" class="back-link">`)
	assert.Equal(t, "", doc.HTML(MetaRegion), "no partial render")
	assert.Equal(t, 1, lg.errors)
}

func TestReloadStartsFromBlankPage(t *testing.T) {
	doc := NewPage()
	doc.SetTitle("My Blog")
	r := New(fetch.NewDir(pages), doc, markdown.NewConverter(markdown.DefaultOptions()),
		WithSite(site), WithLogger(&testLogger{}))
	t.Cleanup(r.Close)
	ctx := context.Background()

	require.NoError(t, r.Load(ctx, query("hello.md")))
	require.NoError(t, r.Load(ctx, query("plain.md")))
	assert.Equal(t, "", doc.HTML(TitleRegion))
	assert.Equal(t, "My Blog", doc.Title())
	assert.Equal(t, "", doc.HTML(MetaRegion))
	assert.NotContains(t, doc.HTML(DataRegion), `"headline":"Hello"`)

	require.NoError(t, r.Load(ctx, query("hello.md")))
	require.Error(t, r.Load(ctx, query("missing.md")))
	assert.Equal(t, "Error", doc.HTML(TitleRegion))
	assert.Equal(t, "", doc.HTML(MetaRegion))
	assert.Equal(t, "", doc.HTML(DataRegion))
	assert.NotContains(t, doc.HTML(ContentRegion), "<strong>bold</strong>")
}

func TestNilConverterShowsFailure(t *testing.T) {
	doc := NewPage()
	r := New(fetch.NewDir(pages), doc, nil, WithSite(site), WithLogger(&testLogger{}))
	require.NoError(t, r.Load(context.Background(), query("hello.md")))
	assert.Contains(t, doc.HTML(ContentRegion), "The markdown renderer failed to load.")
	assert.Equal(t, "Hello", doc.HTML(TitleRegion))
}

func TestCommentsFollowTheme(t *testing.T) {
	f := &frame{}
	cfg := comments.Config{Repo: "me/blog", RepoID: "R_1", CategoryID: "DIC_1"}
	r, doc, _ := newRenderer(t, WithComments(cfg), WithFrame(func() comments.Frame { return f }))
	doc.SetAttr(comments.ThemeAttr, "dark")

	require.NoError(t, r.Load(context.Background(), query("hello.md")))
	widget := doc.HTML(CommentsRegion)
	assert.Contains(t, widget, `data-theme="dark"`)
	assert.Contains(t, widget, `data-repo="me/blog"`)
	assert.Empty(t, f.messages)

	doc.SetAttr(comments.ThemeAttr, "light")
	require.Len(t, f.messages, 1)
	assert.JSONEq(t, `{"giscus":{"setConfig":{"theme":"light"}}}`, f.messages[0])

	r.Close()
	doc.SetAttr(comments.ThemeAttr, "dark")
	assert.Len(t, f.messages, 1)
}

func TestCommentsDefaultToLightTheme(t *testing.T) {
	cfg := comments.Config{Repo: "me/blog", RepoID: "R_1"}
	r, doc, _ := newRenderer(t, WithComments(cfg))
	require.NoError(t, r.Load(context.Background(), query("hello.md")))
	assert.True(t, strings.Contains(doc.HTML(CommentsRegion), `data-theme="light"`))
}

package listing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/mdblog/fetch"
	"github.com/eringen/mdblog/index"
	"github.com/eringen/mdblog/views"
)

type testLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *testLogger) Infof(string, ...interface{}) {}
func (l *testLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, format)
}

type recordingView struct {
	mu     sync.Mutex
	tags   []string
	active string
	posts  [][]index.Post
}

func (v *recordingView) ShowTags(tags []string, active string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tags, v.active = tags, active
	return nil
}

func (v *recordingView) ShowPosts(posts []index.Post) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.posts = append(v.posts, posts)
	return nil
}

func (v *recordingView) last() []index.Post {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.posts[len(v.posts)-1]
}

func titles(posts []index.Post) []string {
	out := []string{}
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

const indexJSON = `[
  {"file":"c.md","title":"Gopher notes","date":"2024-06-01","tags":["go","notes"],"category":"dev","excerpt":"about goroutines"},
  {"file":"b.md","title":"Borrow checker","date":"2024-05-01","tags":["rust"],"category":"dev","excerpt":"ownership"},
  {"file":"a.md","title":"Holiday","date":"2024-01-01","tags":[],"category":"Life","excerpt":"beach"}
]`

func loadListing(t *testing.T, data string) (*Listing, *recordingView, *testLogger) {
	t.Helper()
	view := &recordingView{}
	lg := &testLogger{}
	l := New(fetch.NewDir(fstest.MapFS{"posts.json": {Data: []byte(data)}}), view, WithLogger(lg))
	require.NoError(t, l.Load(context.Background()))
	return l, view, lg
}

func TestLoadRendersEverything(t *testing.T) {
	l, view, lg := loadListing(t, indexJSON)

	assert.Equal(t, []string{"go", "notes", "rust"}, view.tags)
	assert.Equal(t, "", view.active)
	assert.Equal(t, []string{"Gopher notes", "Borrow checker", "Holiday"}, titles(view.last()))
	assert.Len(t, l.Posts(), 3)
	assert.Empty(t, lg.errors)
}

func TestLoadFailuresYieldEmptyList(t *testing.T) {
	for name, fsys := range map[string]fstest.MapFS{
		"missing": {},
		"corrupt": {"posts.json": {Data: []byte("{nope")}},
	} {
		t.Run(name, func(t *testing.T) {
			view := &recordingView{}
			lg := &testLogger{}
			l := New(fetch.NewDir(fsys), view, WithLogger(lg))

			require.NoError(t, l.Load(context.Background()))
			assert.Empty(t, view.last())
			assert.Empty(t, view.tags)
			assert.Len(t, lg.errors, 1)
			assert.Empty(t, l.Posts())
		})
	}
}

func TestWithIndexPath(t *testing.T) {
	view := &recordingView{}
	fsys := fstest.MapFS{"data/index.json": {Data: []byte(indexJSON)}}
	l := New(fetch.NewDir(fsys), view, WithIndexPath("data/index.json"), WithLogger(&testLogger{}))
	require.NoError(t, l.Load(context.Background()))
	assert.Len(t, view.last(), 3)
}

func TestSelectTagAndSearch(t *testing.T) {
	l, view, _ := loadListing(t, indexJSON)

	require.NoError(t, l.SelectTag("go"))
	assert.Equal(t, "go", view.active)
	assert.Equal(t, []string{"Gopher notes"}, titles(view.last()))

	require.NoError(t, l.FilterAndRender("ROUTINE"))
	assert.Equal(t, []string{"Gopher notes"}, titles(view.last()))

	require.NoError(t, l.FilterAndRender("ownership"))
	assert.Empty(t, view.last())

	require.NoError(t, l.SelectTag(""))
	assert.Equal(t, []string{"Borrow checker"}, titles(view.last()), "tag change keeps the term")
	assert.Equal(t, "ownership", l.Term())

	require.NoError(t, l.FilterAndRender("life"))
	assert.Equal(t, []string{"Holiday"}, titles(view.last()))
	assert.Equal(t, []string{"Holiday"}, titles(l.Visible()))
}

func TestFilterIsConjunctive(t *testing.T) {
	posts := []index.Post{
		{Title: "A", Tags: []string{"go"}},
		{Title: "B go", Tags: []string{"rust"}},
	}
	assert.Equal(t, []string{"A"}, titles(Filter(posts, "go", "go")))
	assert.Empty(t, Filter(posts, "go", "rust"))
	assert.Equal(t, []string{"A", "B go"}, titles(Filter(posts, "", "go")))
	assert.Equal(t, []string{"A", "B go"}, titles(Filter(posts, "", "   ")))
	assert.Empty(t, Filter(nil, "", ""))
}

func TestFilterFields(t *testing.T) {
	p := index.Post{Title: "Title", Excerpt: "Excerpt", Category: "Cat", Tags: []string{"TagOne"}, Description: "hidden"}
	for _, term := range []string{"title", "EXCERPT", "cat", "tagone"} {
		assert.Len(t, Filter([]index.Post{p}, "", term), 1, term)
	}
	assert.Empty(t, Filter([]index.Post{p}, "", "hidden"), "description is not searched")
}

func TestExtractTags(t *testing.T) {
	posts := []index.Post{
		{Tags: []string{"b", "a"}},
		{Tags: []string{"a", "c"}},
		{},
	}
	assert.Equal(t, []string{"a", "b", "c"}, ExtractTags(posts))
	assert.Equal(t, []string{}, ExtractTags(nil))
}

type failingView struct{ recordingView }

func (*failingView) ShowPosts([]index.Post) error { return errors.New("render failed") }

func TestSearchCallbackLogsViewErrors(t *testing.T) {
	lg := &testLogger{}
	l := New(fetch.NewDir(fstest.MapFS{}), &failingView{}, WithLogger(lg))
	l.Search("x")
	assert.NotEmpty(t, lg.errors)
}

func TestDocumentView(t *testing.T) {
	cfg := views.SiteConfig{Name: "My Blog", URL: "https://blog.example.com", Locale: "en_US"}
	doc := NewPage(cfg)
	l := New(fetch.NewDir(fstest.MapFS{"posts.json": {Data: []byte(indexJSON)}}), NewDocumentView(doc, cfg), WithLogger(&testLogger{}))
	require.NoError(t, l.Load(context.Background()))

	assert.Equal(t, "My Blog", doc.Title())
	assert.Contains(t, doc.HTML(DataRegion), `"@type":"WebSite"`)

	tags, _ := doc.Region(TagsRegion)
	assert.False(t, tags.Hidden)
	assert.True(t, strings.HasPrefix(tags.HTML, `<button class="tag active" data-tag="">All</button>`))
	assert.Equal(t, 3, strings.Count(doc.HTML(ListRegion), `class="post-card"`))
	empty, _ := doc.Region(EmptyRegion)
	assert.True(t, empty.Hidden)

	require.NoError(t, l.FilterAndRender("no such post"))
	assert.Equal(t, "", doc.HTML(ListRegion))
	empty, _ = doc.Region(EmptyRegion)
	assert.False(t, empty.Hidden)
	assert.Contains(t, empty.HTML, "No posts found.")

	require.NoError(t, l.FilterAndRender(""))
	require.NoError(t, l.SelectTag("rust"))
	assert.Contains(t, doc.HTML(TagsRegion), `<button class="tag active" data-tag="rust">rust</button>`)
	assert.Equal(t, 1, strings.Count(doc.HTML(ListRegion), `class="post-card"`))
	empty, _ = doc.Region(EmptyRegion)
	assert.True(t, empty.Hidden)
}

func TestDocumentViewHidesEmptyTagBar(t *testing.T) {
	cfg := views.SiteConfig{Name: "Blog"}
	doc := NewPage(cfg)
	l := New(fetch.NewDir(fstest.MapFS{"posts.json": {Data: []byte(`[{"file":"a.md","title":"A","tags":[]}]`)}}),
		NewDocumentView(doc, cfg), WithLogger(&testLogger{}))
	require.NoError(t, l.Load(context.Background()))

	tags, _ := doc.Region(TagsRegion)
	assert.True(t, tags.Hidden)
}

func TestSearchDebounces(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	s := NewSearch(func(term string) {
		mu.Lock()
		calls = append(calls, term)
		mu.Unlock()
	}, 20*time.Millisecond)
	defer s.Close()

	s.Input("g")
	s.Input("go")
	s.Input("gop")
	assert.Equal(t, "gop", s.Value())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"gop"}, calls)
}

func TestSearchConfirmCancelsPending(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	s := NewSearch(func(term string) {
		mu.Lock()
		calls = append(calls, term)
		mu.Unlock()
	}, 30*time.Millisecond)

	s.Input("rust")
	s.Confirm()
	assert.False(t, s.Pending())
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"rust"}, calls)
	mu.Unlock()

	s.Input("x")
	s.Clear()
	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"rust", ""}, calls)
	mu.Unlock()
	assert.Equal(t, "", s.Value())
}

func TestSearchDefaultDelay(t *testing.T) {
	s := NewSearch(func(string) {}, 0)
	assert.Equal(t, DefaultSearchDelay, s.deb.Delay())
}

func TestSearchDrivesListing(t *testing.T) {
	l, view, _ := loadListing(t, indexJSON)
	s := NewSearch(l.Search, 10*time.Millisecond)
	defer s.Close()

	s.Input("borrow")
	assert.Eventually(t, func() bool {
		return len(view.last()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "borrow", l.Term())
}

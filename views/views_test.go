package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/mdblog/index"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestTagBar(t *testing.T) {
	got := render(t, TagBar([]string{"go", "rust"}, "rust", LabelsFor("en_US")))
	want := `<button class="tag" data-tag="">All</button>` +
		`<button class="tag" data-tag="go">go</button>` +
		`<button class="tag active" data-tag="rust">rust</button>`
	if got != want {
		t.Errorf("TagBar =\n%s\nwant\n%s", got, want)
	}

	got = render(t, TagBar(nil, "", LabelsFor("ko_KR")))
	if got != `<button class="tag active" data-tag="">전체</button>` {
		t.Errorf("TagBar all active = %s", got)
	}
}

func TestPostCardEscapes(t *testing.T) {
	p := index.Post{
		File:     "a&b.md",
		Title:    "<script>x</script>",
		Date:     "2024-01-05",
		Category: "c<at>",
		Excerpt:  "one & two",
		Tags:     []string{"<go>"},
	}
	got := render(t, PostCard(p, "en_US"))
	for _, want := range []string{
		`href="post.html?post=a%26b.md"`,
		`&lt;script&gt;x&lt;/script&gt;`,
		`<span class="post-card-date">January 5, 2024</span>`,
		`<span class="post-card-category">c&lt;at&gt;</span>`,
		`<p class="post-card-excerpt">one &amp; two</p>`,
		`<span class="post-card-tag">&lt;go&gt;</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("card missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("card contains raw script: %s", got)
	}
}

func TestPostCardOptionalParts(t *testing.T) {
	got := render(t, PostCard(index.Post{File: "a.md", Title: "A", Date: "2024-01-05", Tags: []string{}}, "en_US"))
	for _, absent := range []string{"post-card-category", "post-card-excerpt", "post-card-tags"} {
		if strings.Contains(got, absent) {
			t.Errorf("card should not contain %s: %s", absent, got)
		}
	}
}

func TestPostList(t *testing.T) {
	got := render(t, PostList([]index.Post{{Title: "A"}, {Title: "B"}}, "en_US"))
	if strings.Count(got, `<article class="post-card">`) != 2 {
		t.Errorf("expected two cards: %s", got)
	}
	if strings.Index(got, ">A<") > strings.Index(got, ">B<") {
		t.Error("cards out of order")
	}
	if got := render(t, PostList(nil, "en_US")); got != "" {
		t.Errorf("empty list rendered %q", got)
	}
}

func TestPostMeta(t *testing.T) {
	got := render(t, PostMeta("2024-03-01", "log", []string{"go"}, true, "ko_KR"))
	for _, want := range []string{
		`<span class="post-date">2024년 3월 1일</span>`,
		`<span class="post-category">log</span>`,
		`<div class="post-tags"><span class="post-card-tag">go</span></div>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("meta missing %q:\n%s", want, got)
		}
	}

	got = render(t, PostMeta("", "", nil, false, "en_US"))
	if got != "" {
		t.Errorf("empty meta = %q", got)
	}
}

func TestErrorState(t *testing.T) {
	got := render(t, ErrorState("gone <now>", LabelsFor("en_US")))
	if !strings.Contains(got, `<p>gone &lt;now&gt;</p>`) {
		t.Errorf("message not escaped: %s", got)
	}
	if !strings.Contains(got, `<a href="index.html" class="back-link">Back to the list</a>`) {
		t.Errorf("missing back link: %s", got)
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		date, locale, want string
	}{
		{"2024-01-01", "en_US", "January 1, 2024"},
		{"2024-01-01", "ko_KR", "2024년 1월 1일"},
		{"2024-01-01", "de_DE", "1 Januar 2024"},
		{"2024-01-01", "xx_XX", "January 1, 2024"},
		{"2024-01-01T09:00:00Z", "en_US", "January 1, 2024"},
		{"not a date", "en_US", "not a date"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.date, tt.locale); got != tt.want {
			t.Errorf("FormatDate(%q, %q) = %q, want %q", tt.date, tt.locale, got, tt.want)
		}
	}
}

func TestLabelsFallback(t *testing.T) {
	if LabelsFor("fr_FR") != LabelsFor(DefaultLocale) {
		t.Error("unknown locale should fall back to English")
	}
}

func TestPostURL(t *testing.T) {
	if got := PostURL("https://blog.example.com/", "hello world.md"); got != "https://blog.example.com/post.html?post=hello+world.md" {
		t.Errorf("PostURL = %q", got)
	}
	if got := PostURL("https://example.com/blog", "a.md"); got != "https://example.com/blog/post.html?post=a.md" {
		t.Errorf("PostURL with base path = %q", got)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Blog", URL: "https://blog.example.com", Author: "Kim"}
	raw := BlogPostingJsonLD(cfg, index.Post{File: "a.md", Title: "A", Date: "2024-01-01", Tags: []string{"go", "web"}})

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["headline"] != "A" || data["keywords"] != "go, web" {
		t.Errorf("unexpected JSON-LD: %v", data)
	}
	if data["url"] != "https://blog.example.com/post.html?post=a.md" {
		t.Errorf("url = %v", data["url"])
	}
}

func TestNotFoundPage(t *testing.T) {
	got := render(t, NotFoundPage(SiteConfig{Name: "Blog"}))
	if !strings.Contains(got, "<title>Page not found - Blog</title>") {
		t.Errorf("404 page = %s", got)
	}
}

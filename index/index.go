// Package index builds the post index: one record per markdown file in the
// pages directory, newest first, serialised as an indented JSON array.
package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/mdblog/frontmatter"
	"github.com/eringen/mdblog/markdown"
)

// Ext is the extension a page must carry to be indexed.
const Ext = ".md"

// DateLayout is the format of defaulted dates.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when ordering posts by date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// Post is one entry of the generated index.
type Post struct {
	File        string   `json:"file"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Excerpt     string   `json:"excerpt"`
}

// Logger is the subset of gommon's logger the builder writes to.
type Logger interface {
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Builder scans a pages directory and produces the post index.
type Builder struct {
	dir string
	now func() time.Time
	log Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for posts without a date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithLogger sets the logger for build progress.
func WithLogger(l Logger) Option {
	return func(b *Builder) {
		b.log = l
	}
}

// NewBuilder returns a Builder for the markdown files directly inside dir.
func NewBuilder(dir string, opts ...Option) *Builder {
	b := &Builder{
		dir: dir,
		now: time.Now,
		log: log.New("index"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build reads every page and returns the records, newest first. A missing
// directory is not an error and yields an empty index.
func (b *Builder) Build() ([]Post, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.log.Infof("pages directory %s not found, writing an empty index", b.dir)
			return []Post{}, nil
		}
		return nil, fmt.Errorf("index: read %s: %w", b.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), Ext) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	today := b.now().UTC().Format(DateLayout)
	posts := make([]Post, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(b.dir, name))
		if err != nil {
			return nil, fmt.Errorf("index: read %s: %w", name, err)
		}
		posts = append(posts, NewPost(name, string(raw), today))
		b.log.Debugf("indexed %s", name)
	}

	SortByDate(posts)
	return posts, nil
}

// WriteFile builds the index and writes it to path.
func (b *Builder) WriteFile(path string) ([]Post, error) {
	posts, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("index: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, posts); err != nil {
		return nil, fmt.Errorf("index: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("index: close %s: %w", path, err)
	}
	b.log.Infof("generated %s with %d posts", path, len(posts))
	return posts, nil
}

// NewPost builds the record for one page. today fills in a missing date.
func NewPost(file, raw, today string) Post {
	meta, body := frontmatter.Parse(raw)

	tags, ok := meta.List(frontmatter.TagsKey)
	if !ok {
		tags = []string{}
	}

	return Post{
		File:        file,
		Title:       meta.StringOr("title", strings.TrimSuffix(file, Ext)),
		Date:        meta.StringOr("date", today),
		Tags:        tags,
		Category:    meta.StringOr("category", ""),
		Description: meta.StringOr("description", ""),
		Excerpt:     markdown.Excerpt(body),
	}
}

// SortByDate orders posts newest first. Posts with equal dates keep their
// relative order; unparseable dates sort last.
func SortByDate(posts []Post) {
	keys := make(map[string]time.Time, len(posts))
	for _, p := range posts {
		if _, ok := keys[p.Date]; !ok {
			keys[p.Date] = ParseDate(p.Date)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return keys[posts[i].Date].After(keys[posts[j].Date])
	})
}

// ParseDate parses a front-matter date in any of the accepted layouts. It
// returns the zero time when none match.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Encode writes posts as an indented JSON array.
func Encode(w io.Writer, posts []Post) error {
	if posts == nil {
		posts = []Post{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return err
	}
	// Encoder terminates the value with a newline; the index file has none.
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// Decode reads an index produced by Encode.
func Decode(r io.Reader) ([]Post, error) {
	var posts []Post
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("index: decode: %w", err)
	}
	for i := range posts {
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}
	return posts, nil
}

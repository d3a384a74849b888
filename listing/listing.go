// Package listing renders the blog's front page: the post index as a list of
// cards, narrowed by one active tag and a free-text search.
package listing

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/eringen/mdblog/fetch"
	"github.com/eringen/mdblog/index"
)

// DefaultIndexPath is where the index is fetched from.
const DefaultIndexPath = "posts.json"

// View displays the listing.
type View interface {
	// ShowTags displays the tag bar. active is "" when no tag is selected.
	ShowTags(tags []string, active string) error
	// ShowPosts replaces the displayed posts.
	ShowPosts(posts []index.Post) error
}

// Logger is the subset of gommon's logger the listing reports to.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Listing holds the loaded posts and the current filter.
type Listing struct {
	fetcher   fetch.Fetcher
	view      View
	log       Logger
	indexPath string

	mu        sync.Mutex
	posts     []index.Post
	tags      []string
	activeTag string
	term      string
	visible   []index.Post
}

// Option configures a Listing.
type Option func(*Listing)

// WithIndexPath fetches the index from path instead of DefaultIndexPath.
func WithIndexPath(path string) Option {
	return func(l *Listing) {
		l.indexPath = path
	}
}

// WithLogger sets the logger for load failures.
func WithLogger(lg Logger) Option {
	return func(l *Listing) {
		l.log = lg
	}
}

// New returns an empty listing. Call Load to fetch the index.
func New(f fetch.Fetcher, v View, opts ...Option) *Listing {
	l := &Listing{
		fetcher:   f,
		view:      v,
		log:       log.New("listing"),
		indexPath: DefaultIndexPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the index and renders the tag bar and every post. A fetch or
// decode failure is logged and leaves the listing empty; only view errors are
// returned.
func (l *Listing) Load(ctx context.Context) error {
	posts := l.fetchPosts(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.posts = posts
	l.tags = ExtractTags(posts)
	l.activeTag = ""
	l.term = ""
	if err := l.view.ShowTags(l.tags, ""); err != nil {
		return err
	}
	return l.show(posts)
}

func (l *Listing) fetchPosts(ctx context.Context) []index.Post {
	raw, err := l.fetcher.Fetch(ctx, l.indexPath)
	if err != nil {
		l.log.Errorf("listing: load %s: %v", l.indexPath, err)
		return []index.Post{}
	}
	posts, err := index.Decode(bytes.NewReader(raw))
	if err != nil {
		l.log.Errorf("listing: load %s: %v", l.indexPath, err)
		return []index.Post{}
	}
	l.log.Infof("listing: loaded %d posts", len(posts))
	return posts
}

// SelectTag makes tag the active tag, "" for all posts, and re-filters with
// the current search term.
func (l *Listing) SelectTag(tag string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.activeTag = tag
	if err := l.view.ShowTags(l.tags, tag); err != nil {
		return err
	}
	return l.show(Filter(l.posts, l.activeTag, l.term))
}

// FilterAndRender stores term as the search term and re-filters from the
// full post list.
func (l *Listing) FilterAndRender(term string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.term = term
	return l.show(Filter(l.posts, l.activeTag, l.term))
}

// Search is FilterAndRender for use as a Search callback; view errors are
// logged.
func (l *Listing) Search(term string) {
	if err := l.FilterAndRender(term); err != nil {
		l.log.Errorf("listing: render: %v", err)
	}
}

func (l *Listing) show(posts []index.Post) error {
	l.visible = posts
	return l.view.ShowPosts(posts)
}

// Posts returns every loaded post.
func (l *Listing) Posts() []index.Post {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]index.Post(nil), l.posts...)
}

// Visible returns the posts of the last render.
func (l *Listing) Visible() []index.Post {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]index.Post(nil), l.visible...)
}

// Tags returns the tag bar's tags, without the "all" pseudo-tag.
func (l *Listing) Tags() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.tags...)
}

// ActiveTag returns the selected tag, "" for all.
func (l *Listing) ActiveTag() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeTag
}

// Term returns the applied search term.
func (l *Listing) Term() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.term
}

// ExtractTags returns the sorted union of all post tags.
func ExtractTags(posts []index.Post) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}

// Filter returns the posts carrying tag (any post when tag is "") that also
// match term. A post matches when term occurs, ignoring case, in its title,
// excerpt, category or any tag. A blank term matches every post.
func Filter(posts []index.Post, tag, term string) []index.Post {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := []index.Post{}
	for _, p := range posts {
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasTag(p index.Post, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matches(p index.Post, needle string) bool {
	if contains(p.Title, needle) || contains(p.Excerpt, needle) || contains(p.Category, needle) {
		return true
	}
	for _, t := range p.Tags {
		if contains(t, needle) {
			return true
		}
	}
	return false
}

func contains(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), needle)
}

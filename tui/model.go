// Package tui is a terminal reader for the blog: the listing with its tag
// bar and debounced search, and the post page, both rendered by the same
// components the static pages use.
package tui

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eringen/mdblog/comments"
	"github.com/eringen/mdblog/fetch"
	"github.com/eringen/mdblog/index"
	"github.com/eringen/mdblog/listing"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/page"
	"github.com/eringen/mdblog/post"
	"github.com/eringen/mdblog/theme"
	"github.com/eringen/mdblog/views"
)

// Logger receives what the page components report.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Config wires the reader to a site.
type Config struct {
	Fetcher     fetch.Fetcher
	Site        views.SiteConfig
	IndexPath   string
	Comments    comments.Config
	Converter   *markdown.Converter
	SearchDelay time.Duration

	// Store keeps the theme preference; nil keeps it in memory.
	Store theme.Store
	// System is the theme used while no preference is stored.
	System theme.Theme
	Logger Logger
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modePost
)

type loadedMsg struct{ err error }

// filteredMsg reports a debounced search run.
type filteredMsg struct{}

type postMsg struct {
	file  string
	title string
	meta  string
	body  string
	err   error
}

// termView records what the listing shows. The listing calls it with its
// lock held, so it never calls back.
type termView struct {
	mu     sync.Mutex
	tags   []string
	active string
	posts  []index.Post
}

func (v *termView) ShowTags(tags []string, active string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tags = append([]string(nil), tags...)
	v.active = active
	return nil
}

func (v *termView) ShowPosts(posts []index.Post) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.posts = append([]index.Post(nil), posts...)
	return nil
}

func (v *termView) state() ([]string, string, []index.Post) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tags, v.active, v.posts
}

// Model is the bubbletea model of the reader.
type Model struct {
	ctx    context.Context
	site   views.SiteConfig
	labels views.Labels

	listing *listing.Listing
	view    *termView
	search  *listing.Search
	doc     *page.Document
	reader  *post.Renderer
	theme   *theme.Controller
	send    func(tea.Msg)

	input    textinput.Model
	viewport viewport.Model
	styles   Styles

	mode    mode
	loaded  bool
	tags    []string
	active  string
	posts   []index.Post
	cursor  int
	opening string
	article *postMsg
	width   int
	height  int
	err     error
}

// New returns a reader for cfg. Call Close when done.
func New(ctx context.Context, cfg Config) *Model {
	m := &Model{
		ctx:    ctx,
		site:   cfg.Site,
		labels: views.LabelsFor(cfg.Site.Locale),
		view:   &termView{},
		width:  80,
		height: 24,
	}

	var listOpts []listing.Option
	var postOpts []post.Option
	var themeOpts []theme.Option
	if cfg.IndexPath != "" {
		listOpts = append(listOpts, listing.WithIndexPath(cfg.IndexPath))
	}
	if cfg.Logger != nil {
		listOpts = append(listOpts, listing.WithLogger(cfg.Logger))
		postOpts = append(postOpts, post.WithLogger(cfg.Logger))
		themeOpts = append(themeOpts, theme.WithLogger(cfg.Logger))
	}
	postOpts = append(postOpts, post.WithSite(cfg.Site), post.WithComments(cfg.Comments))

	m.listing = listing.New(cfg.Fetcher, m.view, listOpts...)
	m.search = listing.NewSearch(func(term string) {
		m.listing.Search(term)
		m.notify(filteredMsg{})
	}, cfg.SearchDelay)

	m.doc = post.NewPage()
	m.reader = post.New(cfg.Fetcher, m.doc, cfg.Converter, postOpts...)

	store := cfg.Store
	if store == nil {
		store = theme.NewMemoryStore()
	}
	m.theme = theme.NewController(store, m.doc, cfg.System, themeOpts...)
	m.styles = NewStyles(m.theme.Current())

	m.input = textinput.New()
	m.input.Prompt = "/ "
	m.input.Placeholder = "search"
	m.viewport = viewport.New(m.width, m.height-2)
	return m
}

// notify delivers msg to the running program. Send blocks until the event
// loop reads it, so it must not run on the loop itself.
func (m *Model) notify(msg tea.Msg) {
	if m.send != nil {
		go m.send(msg)
	}
}

// Close stops pending searches and the comment theme sync.
func (m *Model) Close() {
	m.search.Close()
	m.reader.Close()
}

// Theme returns the applied theme.
func (m *Model) Theme() theme.Theme {
	return m.theme.Current()
}

// Init loads the index.
func (m *Model) Init() tea.Cmd {
	return m.load
}

func (m *Model) load() tea.Msg {
	return loadedMsg{err: m.listing.Load(m.ctx)}
}

// Update handles messages for the reader.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		return m, nil

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.refresh()
		return m, nil

	case filteredMsg:
		m.refresh()
		return m, nil

	case postMsg:
		if m.mode != modePost || msg.file != m.opening {
			return m, nil
		}
		m.article = &msg
		m.err = msg.err
		m.viewport.SetContent(m.renderArticle())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.handleSearchKey(msg)
		case modePost:
			return m.handlePostKey(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh copies the listing's last render into the model.
func (m *Model) refresh() {
	m.tags, m.active, m.posts = m.view.state()
	if m.cursor >= len(m.posts) {
		m.cursor = max(len(m.posts)-1, 0)
	}
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case "right", "l", "tab":
		m.cycleTag(1)
	case "left", "h", "shift+tab":
		m.cycleTag(-1)
	case "/":
		m.mode = modeSearch
		return m, m.input.Focus()
	case "t":
		m.toggleTheme()
	case "enter":
		if len(m.posts) > 0 {
			return m, m.open(m.posts[m.cursor].File)
		}
	}
	return m, nil
}

// cycleTag selects the next or previous tag, with "all" before the first.
func (m *Model) cycleTag(step int) {
	options := append([]string{""}, m.tags...)
	i := 0
	for j, tag := range options {
		if tag == m.active {
			i = j
			break
		}
	}
	next := options[(i+step+len(options))%len(options)]
	m.err = m.listing.SelectTag(next)
	m.cursor = 0
	m.refresh()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Confirm()
		m.leaveSearch()
		return m, nil
	case tea.KeyEsc:
		m.search.Clear()
		m.input.Reset()
		m.leaveSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.search.Value() {
		m.search.Input(v)
	}
	return m, cmd
}

func (m *Model) leaveSearch() {
	m.mode = modeList
	m.input.Blur()
	m.cursor = 0
	m.refresh()
}

func (m *Model) handlePostKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace":
		m.mode = modeList
		m.opening = ""
		m.article = nil
		return m, nil
	case "t":
		m.toggleTheme()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// open switches to the post view and loads file in the background.
func (m *Model) open(file string) tea.Cmd {
	m.mode = modePost
	m.opening = file
	m.article = nil
	m.viewport.SetContent(m.styles.Muted.Render("Loading..."))
	return func() tea.Msg {
		err := m.reader.Load(m.ctx, url.Values{post.QueryParam: {file}})
		return postMsg{
			file:  file,
			title: Text(m.doc.HTML(post.TitleRegion)),
			meta:  Text(m.doc.HTML(post.MetaRegion)),
			body:  Text(m.doc.HTML(post.ContentRegion)),
			err:   err,
		}
	}
}

func (m *Model) toggleTheme() {
	if _, err := m.theme.Toggle(); err != nil {
		m.err = err
	}
	m.styles = NewStyles(m.theme.Current())
	if m.article != nil {
		m.viewport.SetContent(m.renderArticle())
	}
}

func (m *Model) renderArticle() string {
	a := m.article
	var b strings.Builder
	if a.title != "" {
		b.WriteString(m.styles.Title.Render(a.title))
		b.WriteString("\n")
	}
	if a.meta != "" {
		b.WriteString(m.styles.Muted.Render(a.meta))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Normal.Render(a.body))
	return b.String()
}

// View renders the current screen.
func (m *Model) View() string {
	if m.mode == modePost {
		return m.viewport.View() + "\n" + m.styles.Muted.Render("↑/↓ scroll • t theme • esc back")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.site.Name))
	b.WriteString(" ")
	b.WriteString(m.styles.Muted.Render("(" + m.theme.Current().String() + ")"))
	b.WriteString("\n\n")

	if len(m.tags) > 0 {
		options := append([]string{""}, m.tags...)
		parts := make([]string, len(options))
		for i, tag := range options {
			label := tag
			if tag == "" {
				label = m.labels.All
			}
			if tag == m.active {
				parts[i] = m.styles.ActiveTag.Render(label)
			} else {
				parts[i] = m.styles.Tag.Render(label)
			}
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}

	switch {
	case m.mode == modeSearch:
		b.WriteString(m.input.View())
	case m.search.Value() != "":
		b.WriteString(m.styles.Muted.Render("/ " + m.search.Value()))
	default:
		b.WriteString(m.styles.Muted.Render("/ to search"))
	}
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString(m.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case len(m.posts) == 0:
		b.WriteString(m.styles.Muted.Render(m.labels.Empty))
		b.WriteString("\n")
	default:
		for i, p := range m.posts {
			cursor, title := "  ", m.styles.Normal.Render(p.Title)
			if i == m.cursor {
				cursor, title = "> ", m.styles.Selected.Render(p.Title)
			}
			b.WriteString(cursor + title + "\n")
			meta := views.FormatDate(p.Date, m.site.Locale)
			if p.Category != "" {
				meta += " · " + p.Category
			}
			b.WriteString("  " + m.styles.Muted.Render(meta) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n" + m.styles.Error.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("↑/↓ move • ←/→ tag • / search • enter read • t theme • q quit"))
	return b.String()
}

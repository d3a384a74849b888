package mdblog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eringen/mdblog/frontmatter"
	"github.com/eringen/mdblog/index"
)

var (
	// ErrSlugRequired is returned for a draft with neither slug nor a title
	// to derive one from.
	ErrSlugRequired = errors.New("mdblog: slug is required, add a title or slug")
	// ErrInvalidDate is returned for a draft date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("mdblog: invalid date format, use YYYY-MM-DD")
	// ErrDraftExists is returned instead of overwriting a page.
	ErrDraftExists = errors.New("mdblog: page already exists")
)

// Draft describes a new page.
type Draft struct {
	Title       string
	Slug        string
	Date        string
	Tags        []string
	Category    string
	Description string
}

// NewDraft writes a page named <date>-<slug>.md into the pages directory
// and returns its path.
func (a *App) NewDraft(d Draft) (string, error) {
	title := oneLine(d.Title)
	slug := strings.TrimSpace(d.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return "", ErrSlugRequired
	}
	date := strings.TrimSpace(d.Date)
	if date == "" {
		date = a.now().UTC().Format(index.DateLayout)
	}
	if _, err := time.Parse(index.DateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	tags := FilterEmpty(d.Tags)

	var b strings.Builder
	b.WriteString(frontmatter.Delimiter + "\n")
	writeField(&b, "title", title)
	writeField(&b, "date", date)
	if tags == nil {
		tags = []string{}
	}
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("mdblog: encode tags: %w", err)
	}
	fmt.Fprintf(&b, "%s: %s\n", frontmatter.TagsKey, rawTags)
	writeField(&b, "category", oneLine(d.Category))
	writeField(&b, "description", oneLine(d.Description))
	b.WriteString(frontmatter.Delimiter + "\n\n")
	if title != "" {
		b.WriteString("# " + title + "\n\n")
	}

	dir := a.Config.PagesPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mdblog: %w", err)
	}
	path := filepath.Join(dir, date+"-"+slug+index.Ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrDraftExists, path)
		}
		return "", fmt.Errorf("mdblog: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return "", fmt.Errorf("mdblog: write %s: %w", path, err)
	}
	a.Logger.Infof("created %s", path)
	return path, f.Close()
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", key, quoteValue(value))
}

// quoteValue wraps v in quotes the front-matter parser strips again.
func quoteValue(v string) string {
	switch {
	case !strings.Contains(v, `"`):
		return `"` + v + `"`
	case !strings.Contains(v, `'`):
		return `'` + v + `'`
	}
	return v
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package page models the parts of an HTML page the blog's components write
// into: named regions, attributes on the root element, and the document title.
//
// Components render templ fragments into regions by element ID. Root
// attribute changes are delivered to observers, and the whole document can be
// written out as a static HTML snapshot.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/a-h/templ"
)

// ErrNoRegion is returned when a component addresses a region the document
// does not have.
var ErrNoRegion = errors.New("page: no such region")

// Region is one addressable element of the page.
type Region struct {
	ID     string
	HTML   string
	Hidden bool
}

// AttrFunc receives a root attribute change. old is empty when the attribute
// was not set before.
type AttrFunc func(name, old, value string)

type observer struct {
	attr string
	fn   AttrFunc
}

// Document is an in-memory page. It is safe for concurrent use; observers are
// called without the lock held.
type Document struct {
	mu        sync.Mutex
	title     string
	lang      string
	attrs     map[string]string
	regions   map[string]*Region
	order     []string
	observers map[int]observer
	nextObs   int
}

// New returns a document with the given regions, in page order.
func New(ids ...string) *Document {
	d := &Document{
		lang:      "en",
		attrs:     make(map[string]string),
		regions:   make(map[string]*Region, len(ids)),
		observers: make(map[int]observer),
	}
	for _, id := range ids {
		d.AddRegion(id)
	}
	return d
}

// AddRegion appends a region if it does not exist yet.
func (d *Document) AddRegion(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.regions[id]; ok {
		return
	}
	d.regions[id] = &Region{ID: id}
	d.order = append(d.order, id)
}

// SetLang sets the lang attribute written on the snapshot's <html> element.
func (d *Document) SetLang(lang string) {
	d.mu.Lock()
	d.lang = lang
	d.mu.Unlock()
}

// SetTitle sets the document title.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	d.title = title
	d.mu.Unlock()
}

// Title returns the document title.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// SetAttr sets an attribute on the root element and notifies observers of
// that attribute. Every call is a mutation, even when the value is unchanged.
func (d *Document) SetAttr(name, value string) {
	d.mu.Lock()
	old := d.attrs[name]
	d.attrs[name] = value
	fns := d.observersFor(name)
	d.mu.Unlock()

	for _, fn := range fns {
		fn(name, old, value)
	}
}

// Attr returns a root attribute.
func (d *Document) Attr(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.attrs[name]
	return v, ok
}

// Observe registers fn for changes to the named root attribute. The returned
// function removes the observer.
func (d *Document) Observe(attr string, fn AttrFunc) (cancel func()) {
	d.mu.Lock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = observer{attr: attr, fn: fn}
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

func (d *Document) observersFor(name string) []AttrFunc {
	ids := make([]int, 0, len(d.observers))
	for id, o := range d.observers {
		if o.attr == name {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	fns := make([]AttrFunc, len(ids))
	for i, id := range ids {
		fns[i] = d.observers[id].fn
	}
	return fns
}

// Render replaces the content of region id with the output of c.
func (d *Document) Render(ctx context.Context, id string, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return fmt.Errorf("page: render %s: %w", id, err)
	}
	return d.SetHTML(id, buf.String())
}

// SetHTML replaces the content of region id.
func (d *Document) SetHTML(id, html string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.regions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRegion, id)
	}
	r.HTML = html
	return nil
}

// SetHidden shows or hides region id.
func (d *Document) SetHidden(id string, hidden bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.regions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRegion, id)
	}
	r.Hidden = hidden
	return nil
}

// Region returns a copy of region id.
func (d *Document) Region(id string) (Region, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.regions[id]
	if !ok {
		return Region{}, false
	}
	return *r, true
}

// HTML returns the content of region id, or "" if there is no such region.
func (d *Document) HTML(id string) string {
	r, _ := d.Region(id)
	return r.HTML
}

// Has reports whether the document has region id.
func (d *Document) Has(id string) bool {
	_, ok := d.Region(id)
	return ok
}

// Snapshot returns a component rendering the whole document as HTML.
func (d *Document) Snapshot() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		d.mu.Lock()
		title, lang := d.title, d.lang
		attrs := make([]string, 0, len(d.attrs))
		for name := range d.attrs {
			attrs = append(attrs, name)
		}
		sort.Strings(attrs)
		rootAttrs := make([][2]string, len(attrs))
		for i, name := range attrs {
			rootAttrs[i] = [2]string{name, d.attrs[name]}
		}
		regions := make([]Region, len(d.order))
		for i, id := range d.order {
			regions[i] = *d.regions[id]
		}
		d.mu.Unlock()

		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html lang=\""+templ.EscapeString(lang)+"\""); err != nil {
			return err
		}
		for _, a := range rootAttrs {
			if _, err := io.WriteString(w, " "+templ.EscapeString(a[0])+"=\""+templ.EscapeString(a[1])+"\""); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">\n<head>\n<meta charset=\"utf-8\">\n<title>"+templ.EscapeString(title)+"</title>\n</head>\n<body>\n"); err != nil {
			return err
		}
		for _, r := range regions {
			open := "<div id=\"" + templ.EscapeString(r.ID) + "\""
			if r.Hidden {
				open += " hidden"
			}
			if _, err := io.WriteString(w, open+">"+r.HTML+"</div>\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// WriteHTML writes the snapshot to w.
func (d *Document) WriteHTML(ctx context.Context, w io.Writer) error {
	return d.Snapshot().Render(ctx, w)
}

package listing

import (
	"context"

	"github.com/eringen/mdblog/index"
	"github.com/eringen/mdblog/page"
	"github.com/eringen/mdblog/views"
)

// Regions of the listing page.
const (
	TagsRegion  = "tags-container"
	EmptyRegion = "empty-state"
	ListRegion  = "posts-list"
	DataRegion  = "structured-data"
)

// NewPage returns the listing page document, titled with the site name and
// carrying the site's JSON-LD.
func NewPage(cfg views.SiteConfig) *page.Document {
	doc := page.New(DataRegion, TagsRegion, EmptyRegion, ListRegion)
	doc.SetTitle(cfg.Name)
	_ = doc.Render(context.Background(), DataRegion, views.JSONLD(views.WebsiteJsonLD(cfg)))
	_ = doc.SetHidden(EmptyRegion, true)
	return doc
}

// DocumentView renders the listing into a page document. Regions missing
// from the document are skipped.
type DocumentView struct {
	doc    *page.Document
	locale string
	labels views.Labels
}

// NewDocumentView returns a view writing into doc.
func NewDocumentView(doc *page.Document, cfg views.SiteConfig) *DocumentView {
	return &DocumentView{
		doc:    doc,
		locale: cfg.Locale,
		labels: views.LabelsFor(cfg.Locale),
	}
}

// ShowTags renders the tag bar, or hides it when there are no tags.
func (v *DocumentView) ShowTags(tags []string, active string) error {
	if !v.doc.Has(TagsRegion) {
		return nil
	}
	if len(tags) == 0 {
		return v.doc.SetHidden(TagsRegion, true)
	}
	if err := v.doc.Render(context.Background(), TagsRegion, views.TagBar(tags, active, v.labels)); err != nil {
		return err
	}
	return v.doc.SetHidden(TagsRegion, false)
}

// ShowPosts replaces the list. An empty result clears it and shows the empty
// state instead.
func (v *DocumentView) ShowPosts(posts []index.Post) error {
	if !v.doc.Has(ListRegion) {
		return nil
	}
	if len(posts) == 0 {
		if err := v.doc.SetHTML(ListRegion, ""); err != nil {
			return err
		}
		return v.setEmpty(true)
	}
	if err := v.setEmpty(false); err != nil {
		return err
	}
	return v.doc.Render(context.Background(), ListRegion, views.PostList(posts, v.locale))
}

func (v *DocumentView) setEmpty(show bool) error {
	if !v.doc.Has(EmptyRegion) {
		return nil
	}
	if show {
		if err := v.doc.Render(context.Background(), EmptyRegion, views.EmptyState(v.labels)); err != nil {
			return err
		}
	}
	return v.doc.SetHidden(EmptyRegion, !show)
}

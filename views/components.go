package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/mdblog/index"
)

// component adapts a string builder function to templ.Component.
func component(build func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// TagBar renders the tag filter buttons: the "all" pseudo-tag first, then
// each tag. active is the selected tag, "" for all.
func TagBar(tags []string, active string, l Labels) templ.Component {
	return component(func(b *strings.Builder) {
		writeTagButton(b, "", l.All, active == "")
		for _, tag := range tags {
			writeTagButton(b, tag, tag, active == tag)
		}
	})
}

func writeTagButton(b *strings.Builder, tag, label string, active bool) {
	b.WriteString(`<button class="`)
	b.WriteString(TagClass(active))
	b.WriteString(`" data-tag="`)
	b.WriteString(esc(tag))
	b.WriteString(`">`)
	b.WriteString(esc(label))
	b.WriteString(`</button>`)
}

// PostCard renders one entry of the listing.
func PostCard(p index.Post, locale string) templ.Component {
	return component(func(b *strings.Builder) {
		writePostCard(b, p, locale)
	})
}

func writePostCard(b *strings.Builder, p index.Post, locale string) {
	b.WriteString(`<article class="post-card"><h2 class="post-card-title"><a href="`)
	b.WriteString(esc(PostHref(p.File)))
	b.WriteString(`">`)
	b.WriteString(esc(p.Title))
	b.WriteString(`</a></h2><div class="post-card-meta"><span class="post-card-date">`)
	b.WriteString(esc(FormatDate(p.Date, locale)))
	b.WriteString(`</span>`)
	if p.Category != "" {
		b.WriteString(`<span class="post-card-category">`)
		b.WriteString(esc(p.Category))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	if p.Excerpt != "" {
		b.WriteString(`<p class="post-card-excerpt">`)
		b.WriteString(esc(p.Excerpt))
		b.WriteString(`</p>`)
	}
	if len(p.Tags) > 0 {
		b.WriteString(`<div class="post-card-tags">`)
		writeTagChips(b, p.Tags)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</article>`)
}

func writeTagChips(b *strings.Builder, tags []string) {
	for _, tag := range tags {
		b.WriteString(`<span class="post-card-tag">`)
		b.WriteString(esc(tag))
		b.WriteString(`</span>`)
	}
}

// PostList renders every card in order.
func PostList(posts []index.Post, locale string) templ.Component {
	return component(func(b *strings.Builder) {
		for _, p := range posts {
			writePostCard(b, p, locale)
		}
	})
}

// EmptyState is shown in place of an empty listing.
func EmptyState(l Labels) templ.Component {
	return component(func(b *strings.Builder) {
		b.WriteString(`<p class="empty-state-message">`)
		b.WriteString(esc(l.Empty))
		b.WriteString(`</p>`)
	})
}

// Text renders s escaped, with no markup.
func Text(s string) templ.Component {
	return component(func(b *strings.Builder) {
		b.WriteString(esc(s))
	})
}

// Message renders s as a paragraph.
func Message(s string) templ.Component {
	return component(func(b *strings.Builder) {
		b.WriteString(`<p>`)
		b.WriteString(esc(s))
		b.WriteString(`</p>`)
	})
}

// PostMeta renders the header line of a post page. Date and category are
// skipped when empty; tag chips are shown only when the post has a tag list.
func PostMeta(date, category string, tags []string, hasTags bool, locale string) templ.Component {
	return component(func(b *strings.Builder) {
		if date != "" {
			b.WriteString(`<span class="post-date">`)
			b.WriteString(esc(FormatDate(date, locale)))
			b.WriteString(`</span>`)
		}
		if category != "" {
			b.WriteString(`<span class="post-category">`)
			b.WriteString(esc(category))
			b.WriteString(`</span>`)
		}
		if hasTags {
			b.WriteString(`<div class="post-tags">`)
			writeTagChips(b, tags)
			b.WriteString(`</div>`)
		}
	})
}

// ErrorState replaces a post body when it cannot be shown, linking back to
// the listing.
func ErrorState(message string, l Labels) templ.Component {
	return component(func(b *strings.Builder) {
		b.WriteString(`<div class="error-message"><p>`)
		b.WriteString(esc(message))
		b.WriteString(`</p><a href="index.html" class="back-link">`)
		b.WriteString(esc(l.BackToList))
		b.WriteString(`</a></div>`)
	})
}

// JSONLD wraps a JSON-LD document in its script tag.
func JSONLD(data string) templ.Component {
	return component(func(b *strings.Builder) {
		b.WriteString(`<script type="application/ld+json">`)
		b.WriteString(data)
		b.WriteString(`</script>`)
	})
}

// NotFoundPage is the static server's 404 page.
func NotFoundPage(cfg SiteConfig) templ.Component {
	l := LabelsFor(cfg.Locale)
	return component(func(b *strings.Builder) {
		b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
		b.WriteString(esc(l.NotFound + " - " + cfg.Name))
		b.WriteString(`</title></head><body><main class="not-found"><h1>404</h1><p>`)
		b.WriteString(esc(l.NotFound))
		b.WriteString(`</p><a href="/index.html" class="back-link">`)
		b.WriteString(esc(l.BackToList))
		b.WriteString("</a></main></body></html>\n")
	})
}

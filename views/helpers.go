package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/mdblog/index"
)

// BuildURL joins path segments onto a base URL. With no segments the result
// ends in a slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) == 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostHref is the relative link to a post page.
func PostHref(file string) string {
	return "post.html?post=" + url.QueryEscape(file)
}

// PostURL is the absolute link to a post page under base.
func PostURL(base, file string) string {
	return BuildURL(base, "post.html") + "?post=" + url.QueryEscape(file)
}

// TagClass returns CSS classes for a tag button, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag active"
	}
	return "tag"
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

type ldThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type ldWebSite struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Author      *ldThing `json:"author,omitempty"`
}

type ldBlogPosting struct {
	Context          string   `json:"@context"`
	Type             string   `json:"@type"`
	Headline         string   `json:"headline"`
	Description      string   `json:"description,omitempty"`
	DatePublished    string   `json:"datePublished,omitempty"`
	URL              string   `json:"url"`
	Author           *ldThing `json:"author,omitempty"`
	Publisher        ldThing  `json:"publisher"`
	MainEntityOfPage ldThing  `json:"mainEntityOfPage"`
	Keywords         string   `json:"keywords,omitempty"`
	ArticleSection   string   `json:"articleSection,omitempty"`
}

func person(name string) *ldThing {
	if name == "" {
		return nil
	}
	return &ldThing{Type: "Person", Name: name}
}

// WebsiteJsonLD is the schema.org WebSite block of the listing page.
func WebsiteJsonLD(cfg SiteConfig) string {
	return marshalLD(ldWebSite{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        cfg.Name,
		URL:         BuildURL(cfg.URL),
		Description: cfg.Description,
		Author:      person(cfg.Author),
	})
}

// BlogPostingJsonLD is the schema.org BlogPosting block of a post page.
func BlogPostingJsonLD(cfg SiteConfig, p index.Post) string {
	postURL := PostURL(cfg.URL, p.File)
	return marshalLD(ldBlogPosting{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         p.Title,
		Description:      p.Description,
		DatePublished:    p.Date,
		URL:              postURL,
		Author:           person(cfg.Author),
		Publisher:        ldThing{Type: "Organization", Name: cfg.Name},
		MainEntityOfPage: ldThing{Type: "WebPage", ID: postURL},
		Keywords:         JoinTags(p.Tags),
		ArticleSection:   p.Category,
	})
}

func marshalLD(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

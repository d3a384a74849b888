package mdblog

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/eringen/mdblog/index"
	"github.com/eringen/mdblog/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) writeSitemap(path string, posts []index.Post) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	for _, p := range posts {
		lastMod := ""
		if t := index.ParseDate(p.Date); !t.IsZero() {
			lastMod = t.Format(index.DateLayout)
		}
		urls = append(urls, sitemapURL{
			Loc:     views.PostURL(base, p.File),
			LastMod: lastMod,
		})
	}
	return writeXML(path, sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

func (a *App) writeRobots(path string, _ []index.Post) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", BuildURL(a.Config.URL, SitemapFile))
	return os.WriteFile(path, []byte(body), 0o644)
}

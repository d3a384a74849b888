package mdblog

import (
	"encoding/xml"
	"os"
	"time"

	"github.com/eringen/mdblog/index"
	"github.com/eringen/mdblog/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

func (a *App) writeFeed(path string, posts []index.Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if t := index.ParseDate(p.Date); !t.IsZero() {
			pubDate = t.Format(time.RFC1123Z)
		}
		description := p.Description
		if description == "" {
			description = p.Excerpt
		}
		var categories []string
		if p.Category != "" {
			categories = append(categories, p.Category)
		}
		categories = append(categories, p.Tags...)
		postURL := views.PostURL(base, p.File)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: description,
			Categories:  categories,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base),
			Description: a.Config.Description,
			Language:    languageTag(a.Config.Locale),
			Items:       items,
		},
	}
	return writeXML(path, feed)
}

// languageTag turns a locale such as "ko_KR" into "ko-KR".
func languageTag(locale string) string {
	b := []byte(locale)
	for i, c := range b {
		if c == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

func writeXML(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

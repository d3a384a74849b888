package tui

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// blockTags end a line of text.
var blockTags = map[string]bool{
	"p": true, "div": true, "pre": true, "blockquote": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "tr": true, "hr": true, "table": true,
}

// Text renders an HTML fragment as plain terminal text. Script and style
// contents are dropped; list items get a bullet.
func Text(fragment string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	inPre := false
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far stands.
			return tidy(b.String())
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(tokenizer.Text())
			if !inPre {
				text = collapseSpace(text)
				if atSpace(&b) {
					text = strings.TrimLeft(text, " ")
				}
			}
			b.WriteString(text)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if tokenType == html.StartTagToken {
					skip++
				}
			case tag == "pre":
				inPre = true
				newline(&b)
			case tag == "li":
				newline(&b)
				b.WriteString("• ")
			case blockTags[tag]:
				newline(&b)
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if skip > 0 {
					skip--
				}
			case tag == "pre":
				inPre = false
				paragraph(&b)
			case tag == "li":
				newline(&b)
			case blockTags[tag]:
				paragraph(&b)
			}
		}
	}
}

// collapseSpace turns every run of whitespace into a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

// atSpace reports whether the text so far is empty or ends in whitespace.
func atSpace(b *strings.Builder) bool {
	s := b.String()
	if s == "" {
		return true
	}
	last := s[len(s)-1]
	return last == ' ' || last == '\n'
}

func newline(b *strings.Builder) {
	s := b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		b.WriteByte('\n')
	}
}

func paragraph(b *strings.Builder) {
	newline(b)
	if s := b.String(); s != "" && !strings.HasSuffix(s, "\n\n") {
		b.WriteByte('\n')
	}
}

// tidy trims the text and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

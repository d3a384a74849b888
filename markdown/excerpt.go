package markdown

import (
	"strings"
	"unicode/utf8"
)

// ExcerptLimit is the number of runes kept before an excerpt is cut.
const ExcerptLimit = 200

// Ellipsis marks a cut excerpt.
const Ellipsis = "..."

// Excerpt derives a short plain-text preview from a markdown body. Text from
// a '#' to the end of its line is dropped, as are fenced code, bracketed link
// text, bold and italic spans. Line breaks become spaces and the result is
// cut to ExcerptLimit runes.
//
// Every pass is a single forward scan. Unterminated fences, brackets and
// emphasis markers are left in place as ordinary text.
func Excerpt(body string) string {
	s := stripHeadings(body)
	s = stripFences(s)
	s = stripBrackets(s)
	s = mapLines(s, func(line string) string { return stripSpan(line, "**") })
	s = mapLines(s, func(line string) string { return stripSpan(line, "*") })
	s = strings.TrimSpace(collapseNewlines(s))

	if utf8.RuneCountInString(s) < ExcerptLimit {
		return s
	}
	return strings.TrimRightFunc(truncateRunes(s, ExcerptLimit), isSpace) + Ellipsis
}

// stripHeadings cuts every line at its first '#', which drops heading lines
// whole and anything after a mid-line hash.
func stripHeadings(s string) string {
	return mapLines(s, func(line string) string {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			return line[:i]
		}
		return line
	})
}

const fence = "```"

// stripFences removes ``` ... ``` spans, which may cross lines. A fence that
// never closes is kept verbatim.
func stripFences(s string) string {
	return stripDelimited(s, fence, fence)
}

// stripBrackets removes [ ... ] spans, closing on the nearest ']'.
func stripBrackets(s string) string {
	return stripDelimited(s, "[", "]")
}

// stripDelimited removes each open ... close span, matching each opener with
// the nearest closer after it. An opener with no closer ends the scan.
func stripDelimited(s, opener, closer string) string {
	var out strings.Builder
	for {
		start := strings.Index(s, opener)
		if start < 0 {
			break
		}
		end := strings.Index(s[start+len(opener):], closer)
		if end < 0 {
			break
		}
		out.WriteString(s[:start])
		s = s[start+len(opener)+end+len(closer):]
	}
	out.WriteString(s)
	return out.String()
}

// stripSpan removes everything from the first marker to the last marker on
// the line, markers included.
func stripSpan(line, marker string) string {
	first := strings.Index(line, marker)
	if first < 0 {
		return line
	}
	last := strings.LastIndex(line, marker)
	if last < first+len(marker) {
		return line
	}
	return line[:first] + line[last+len(marker):]
}

func mapLines(s string, fn func(string) string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = fn(line)
	}
	return strings.Join(lines, "\n")
}

func collapseNewlines(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inBreak := false
	for _, r := range s {
		if r == '\n' || r == '\r' {
			if !inBreak {
				b.WriteByte(' ')
				inBreak = true
			}
			continue
		}
		inBreak = false
		b.WriteRune(r)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// Package frontmatter splits a markdown document into its `---` delimited
// metadata header and body, and parses the header's `key: value` lines.
//
// Parsing never fails. A document without a well-formed header yields empty
// metadata and the whole input as body; a malformed tag list degrades to a
// best-effort comma split.
package frontmatter

import (
	"encoding/json"
	"strings"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

// TagsKey is the one key whose bracketed value is parsed as a list.
const TagsKey = "tags"

// Value is a metadata value: either a plain string or a list of strings.
type Value struct {
	Str    string
	List   []string
	IsList bool
}

// String returns a scalar value.
func String(s string) Value { return Value{Str: s} }

// List returns a list value.
func List(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{List: items, IsList: true}
}

// Metadata maps header keys to their values. Keys consumers don't know about
// are retained.
type Metadata map[string]Value

// String returns the scalar value for key. List values are not strings.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v.IsList {
		return "", false
	}
	return v.Str, true
}

// StringOr returns the scalar value for key, or fallback when it is missing,
// empty, or a list.
func (m Metadata) StringOr(key, fallback string) string {
	if s, ok := m.String(key); ok && s != "" {
		return s
	}
	return fallback
}

// List returns the list value for key. Scalar values are not coerced.
func (m Metadata) List(key string) ([]string, bool) {
	v, ok := m[key]
	if !ok || !v.IsList {
		return nil, false
	}
	return v.List, true
}

type state int

const (
	stateOutside state = iota
	stateInside
	stateAfter
)

// Parse splits raw into metadata and body.
//
// The header is recognised only when the first line is exactly the delimiter
// and a later line is exactly the delimiter again. Everything after the
// closing delimiter line is the body, byte for byte.
func Parse(raw string) (Metadata, string) {
	st := stateOutside
	var block []string
	body := raw

	pos := 0
	for pos <= len(raw) && st != stateAfter {
		line, next, terminated := nextLine(raw, pos)
		switch st {
		case stateOutside:
			if !terminated || !isDelimiter(line) {
				return Metadata{}, raw
			}
			st = stateInside
		case stateInside:
			if isDelimiter(line) {
				st = stateAfter
				body = raw[next:]
				continue
			}
			block = append(block, line)
			if !terminated {
				// ran out of input without a closing delimiter
				return Metadata{}, raw
			}
		}
		pos = next
	}
	if st != stateAfter {
		return Metadata{}, raw
	}
	return parseBlock(block), body
}

// nextLine returns the line starting at pos, the offset just past it, and
// whether it ended in a newline.
func nextLine(s string, pos int) (string, int, bool) {
	i := strings.IndexByte(s[pos:], '\n')
	if i < 0 {
		return s[pos:], len(s), false
	}
	return s[pos : pos+i], pos + i + 1, true
}

func isDelimiter(line string) bool {
	return strings.TrimSuffix(line, "\r") == Delimiter
}

func parseBlock(lines []string) Metadata {
	meta := Metadata{}
	for _, line := range lines {
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := unquote(strings.TrimSpace(line[idx+1:]))

		if key == TagsKey && strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			meta[key] = List(parseList(value)...)
			continue
		}
		meta[key] = String(value)
	}
	return meta
}

func isQuote(b byte) bool { return b == '"' || b == '\'' }

// unquote strips one pair of matching single or double quotes.
func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	first, last := v[0], v[len(v)-1]
	if isQuote(first) && first == last {
		return v[1 : len(v)-1]
	}
	return v
}

// parseList reads a bracketed list literal. Valid JSON string arrays are taken
// as-is; anything else is split on commas.
func parseList(v string) []string {
	var strict []string
	if err := json.Unmarshal([]byte(v), &strict); err == nil {
		if strict == nil {
			strict = []string{}
		}
		return strict
	}

	inner := v[1 : len(v)-1]
	items := []string{}
	for _, part := range strings.Split(inner, ",") {
		item := strings.TrimSpace(part)
		if item != "" && isQuote(item[0]) {
			item = item[1:]
		}
		if item != "" && isQuote(item[len(item)-1]) {
			item = item[:len(item)-1]
		}
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

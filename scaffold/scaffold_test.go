package scaffold

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/mdblog/frontmatter"
)

func TestToTitle(t *testing.T) {
	tests := map[string]string{
		"my-blog": "My Blog",
		"myblog":  "Myblog",
		"a--b":    "A  B",
	}
	for in, want := range tests {
		if got := ToTitle(in); got != want {
			t.Errorf("ToTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	var out bytes.Buffer
	if err := Write(dir, NewData(dir, "2025-01-02"), &out); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for _, name := range []string{
		"blog.yaml",
		filepath.Join("site", "index.html"),
		filepath.Join("site", "post.html"),
		filepath.Join("site", "pages", "hello-world.md"),
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
		if !strings.Contains(out.String(), name) {
			t.Errorf("%s not reported in %q", name, out.String())
		}
	}

	cfg, err := os.ReadFile(filepath.Join(dir, "blog.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(cfg), `name: "My Blog"`) {
		t.Errorf("blog.yaml = %s", cfg)
	}

	page, err := os.ReadFile(filepath.Join(dir, "site", "pages", "hello-world.md"))
	if err != nil {
		t.Fatal(err)
	}
	meta, _ := frontmatter.Parse(string(page))
	if got := meta.StringOr("date", ""); got != "2025-01-02" {
		t.Errorf("date = %q", got)
	}
	if tags, ok := meta.List(frontmatter.TagsKey); !ok || len(tags) != 1 || tags[0] != "intro" {
		t.Errorf("tags = %v %v", tags, ok)
	}

	index, err := os.ReadFile(filepath.Join(dir, "site", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"tags-container", "posts-list", "empty-state", "search-input"} {
		if !strings.Contains(string(index), `id="`+id+`"`) {
			t.Errorf("index.html lacks #%s", id)
		}
	}
}

func TestWriteRefusesExistingDir(t *testing.T) {
	dir := t.TempDir()
	err := Write(dir, NewData(dir, "2025-01-02"), &bytes.Buffer{})
	if !errors.Is(err, ErrExists) {
		t.Errorf("err = %v, want ErrExists", err)
	}
}

package page

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestRenderReplacesRegion(t *testing.T) {
	d := New("list")
	ctx := context.Background()

	if err := d.Render(ctx, "list", text("<p>one</p>")); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := d.Render(ctx, "list", text("<p>two</p>")); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := d.HTML("list"); got != "<p>two</p>" {
		t.Errorf("HTML = %q, want full replacement", got)
	}
}

func TestUnknownRegion(t *testing.T) {
	d := New("a")
	if err := d.SetHTML("b", "x"); !errors.Is(err, ErrNoRegion) {
		t.Errorf("SetHTML unknown region err = %v", err)
	}
	if err := d.SetHidden("b", true); !errors.Is(err, ErrNoRegion) {
		t.Errorf("SetHidden unknown region err = %v", err)
	}
	if d.Has("b") {
		t.Error("Has(b) = true")
	}
	d.AddRegion("b")
	if !d.Has("b") {
		t.Error("AddRegion did not add b")
	}
}

func TestRenderError(t *testing.T) {
	d := New("a")
	boom := templ.ComponentFunc(func(context.Context, io.Writer) error { return errors.New("boom") })
	if err := d.Render(context.Background(), "a", boom); err == nil {
		t.Error("expected render error")
	}
}

func TestObserveAttr(t *testing.T) {
	d := New()
	var got []string
	cancel := d.Observe("data-theme", func(name, old, value string) {
		got = append(got, old+">"+value)
	})
	d.Observe("lang", func(string, string, string) {
		t.Error("observer for another attribute was called")
	})

	d.SetAttr("data-theme", "dark")
	d.SetAttr("data-theme", "dark")
	d.SetAttr("data-theme", "light")
	cancel()
	d.SetAttr("data-theme", "dark")

	want := []string{">dark", "dark>dark", "dark>light"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("observed %v, want %v", got, want)
	}
	if v, _ := d.Attr("data-theme"); v != "dark" {
		t.Errorf("Attr = %q", v)
	}
}

func TestObserverMayReadDocument(t *testing.T) {
	d := New()
	var seen string
	d.Observe("data-theme", func(string, string, string) {
		seen, _ = d.Attr("data-theme")
	})
	d.SetAttr("data-theme", "dark")
	if seen != "dark" {
		t.Errorf("observer saw %q", seen)
	}
}

func TestSnapshot(t *testing.T) {
	d := New("tags", "list")
	d.SetTitle("A & B")
	d.SetAttr("data-theme", "dark")
	_ = d.SetHTML("list", "<p>x</p>")
	_ = d.SetHidden("tags", true)

	var buf bytes.Buffer
	if err := d.WriteHTML(context.Background(), &buf); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<html lang="en" data-theme="dark">`,
		`<title>A &amp; B</title>`,
		`<div id="tags" hidden></div>`,
		`<div id="list"><p>x</p></div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, `id="tags"`) > strings.Index(out, `id="list"`) {
		t.Error("regions out of page order")
	}
}

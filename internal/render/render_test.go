package render

import (
	"context"
	"strings"
	"testing"
)

func TestTextRenderer(t *testing.T) {
	out, err := TextRenderer{}.Render(context.Background(), Input{
		Title: "Tailored Resume - Backend Engineer",
		Body:  "SKILLS: Go, Python",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Tailored Resume - Backend Engineer\n\nSKILLS: Go, Python\n"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if got := (TextRenderer{}).Format(); got != FormatText {
		t.Errorf("format = %q", got)
	}
}

func TestTextRendererNoTitle(t *testing.T) {
	out, err := TextRenderer{}.Render(context.Background(), Input{Body: "body\n"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "body\n" {
		t.Errorf("got %q", out)
	}
}

func TestBuildHTMLBoldsHeadings(t *testing.T) {
	html, err := BuildHTML(Input{
		Title: "Cover Letter - Dev",
		Body:  "TECHNICAL SKILLS:\nPython, Go\nEXPERIENCE\nplain line",
	})
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}
	if !strings.Contains(html, `<p class="heading">TECHNICAL SKILLS:</p>`) {
		t.Errorf("heading not bolded:\n%s", html)
	}
	// Caps without the trailing colon stays a normal paragraph, as does prose.
	if strings.Contains(html, `<p class="heading">EXPERIENCE</p>`) {
		t.Errorf("EXPERIENCE should not be bolded:\n%s", html)
	}
	if !strings.Contains(html, "<p>plain line</p>") {
		t.Errorf("plain line missing:\n%s", html)
	}
	if !strings.Contains(html, "<h1>Cover Letter - Dev</h1>") {
		t.Errorf("title missing:\n%s", html)
	}
}

func TestBuildHTMLEscapes(t *testing.T) {
	html, err := BuildHTML(Input{Title: "T", Body: "<script>alert(1)</script>"})
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("body not escaped:\n%s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag:\n%s", html)
	}
}

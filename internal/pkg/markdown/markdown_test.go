package markdown

import (
	"strings"
	"testing"
)

func TestRender_Basic(t *testing.T) {
	html := Render("# Title\n\nSome **bold** text.")
	if !strings.Contains(html, "<h1") {
		t.Fatalf("missing heading in %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("missing bold in %q", html)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render("   \n  "); got != "" {
		t.Fatalf("blank input rendered %q", got)
	}
}

func TestRender_GFMStrikethrough(t *testing.T) {
	html := Render("~~nope~~")
	if !strings.Contains(html, "<del>") {
		t.Fatalf("missing strikethrough in %q", html)
	}
}

func TestRender_AutoLink(t *testing.T) {
	html := Render("see https://techplay.gg/news")
	if !strings.Contains(html, "<a href=") {
		t.Fatalf("missing autolink in %q", html)
	}
}

package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPreview(t *testing.T) {
	long := strings.Repeat("a", PreviewLength+1)
	exact := strings.Repeat("é", PreviewLength)
	cases := []struct {
		name     string
		in       string
		want     string
		readMore bool
	}{
		{"short", "Hello world", "Hello world", false},
		{"exact length", exact, exact, false},
		{"one over", long, strings.Repeat("a", PreviewLength) + "...", true},
		{"markup stripped", "<p>Hi <b>there</b></p>", "Hi there", false},
		{"entities decoded", "Fish &amp; chips", "Fish & chips", false},
		{"script dropped", "safe<script>alert(1)</script>", "safe", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, more := Preview(tc.in)
			if got != tc.want || more != tc.readMore {
				t.Fatalf("Preview(%q) = %q, %v", tc.in, got, more)
			}
		})
	}
}

func TestPreviewCountsRunes(t *testing.T) {
	got, more := Preview(strings.Repeat("日", 200))
	if !more || utf8.RuneCountInString(got) != PreviewLength+3 {
		t.Fatalf("got %d runes, more %v", utf8.RuneCountInString(got), more)
	}
}

func TestRenderContent(t *testing.T) {
	out, err := RenderContent("# Title\n\n**bold** [x](javascript:alert(1)) <script>alert(1)</script>")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<h1", "Title</h1>", "<strong>bold</strong>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	for _, bad := range []string{"<script", "javascript:"} {
		if strings.Contains(out, bad) {
			t.Errorf("unsafe %q survived in %q", bad, out)
		}
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<a href="https://example.com" onclick="x()">link</a><img src=x onerror=alert(1)>`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "onerror") {
		t.Fatalf("handlers survived: %q", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Fatalf("link dropped: %q", got)
	}
}

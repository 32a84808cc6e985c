package utils

import (
	"bytes"
	stdhtml "html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// PreviewLength is the number of characters shown on a post card before "Read More".
const PreviewLength = 150

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	stripPolicy  = bluemonday.StrictPolicy()
	markdownConv = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // raw HTML is cleaned by bluemonday afterwards
		),
	)
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// RenderContent converts post content (Markdown) into sanitized HTML.
func RenderContent(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownConv.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// Preview returns the card text for content: markup stripped, truncated to PreviewLength
// characters with a trailing "...", and whether a read-more toggle applies.
func Preview(content string) (string, bool) {
	text := strings.TrimSpace(stdhtml.UnescapeString(stripPolicy.Sanitize(content)))
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:PreviewLength]) + "...", true
}

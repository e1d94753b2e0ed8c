package senses

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	nonSlug  = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}-]`)
	slugRuns = regexp.MustCompile(`[-\s\p{Z}]+`)
)

// Slugify drops everything but letters, digits, underscores, spaces and
// hyphens, trims and lowercases, then collapses runs of spaces and hyphens
// into a single hyphen.
func Slugify(value string) string {
	value = nonSlug.ReplaceAllString(value, "")
	value = strings.ToLower(strings.TrimSpace(value))
	return slugRuns.ReplaceAllString(value, "-")
}

// PlainText returns the text content of a lyric that may carry inline
// markup. Line breaks become spaces and entities are decoded.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "br" || n.Data == "p"):
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

package codeforces

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var spaceRe = regexp.MustCompile(`[ \t\r\n]+`)

// cleanText collapses runs of whitespace into single spaces and trims.
func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// preText renders a <pre> element keeping its line structure. Codeforces
// emits multi-test samples either as raw text with <br> or as one
// div.test-example-line per row.
func preText(pre *goquery.Selection) string {
	if lines := pre.Find("div.test-example-line"); lines.Length() > 0 {
		rows := make([]string, 0, lines.Length())
		lines.Each(func(_ int, l *goquery.Selection) {
			rows = append(rows, strings.TrimRight(l.Text(), " \t\r\n"))
		})
		return strings.TrimSpace(strings.Join(rows, "\n"))
	}

	var b strings.Builder
	for _, n := range pre.Nodes {
		writeLines(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data == "br":
			b.WriteByte('\n')
		case c.Type == html.ElementNode:
			writeLines(b, c)
		}
	}
}

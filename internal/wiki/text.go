package wiki

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	bracketSpan    = regexp.MustCompile(`[\(\[\{].*?[\)\]\}]`)
	headerNoise    = regexp.MustCompile(`[\(\[\{].*?[\)\]\}]|[^a-zA-Z\s]`)
	cellWhitespace = regexp.MustCompile(`[\r\n]+|\s{2,}`)
)

const nbsp = "\u00a0"

// strippedText joins every non-empty text node below sel, each trimmed, with
// a single space
func strippedText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		walkText(n, func(s string) {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		})
	}
	return strings.Join(parts, " ")
}

// rawText concatenates text nodes below sel without any separator
func rawText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		walkText(n, func(s string) { b.WriteString(s) })
	}
	return b.String()
}

// cellText renders a table cell the way a table reader would: concatenated
// text with line breaks and whitespace runs collapsed
func cellText(sel *goquery.Selection) string {
	text := cellWhitespace.ReplaceAllString(rawText(sel), " ")
	return strings.TrimSpace(strings.ReplaceAll(text, nbsp, " "))
}

func walkText(n *html.Node, emit func(string)) {
	switch n.Type {
	case html.TextNode:
		emit(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, emit)
	}
}

// CleanHeader strips footnote spans, parenthetical asides and every
// character that is not a letter or whitespace
func CleanHeader(s string) string {
	s = strings.ReplaceAll(s, nbsp, "")
	return strings.TrimSpace(headerNoise.ReplaceAllString(s, ""))
}

// CleanValue strips bracketed and parenthesized spans and stray parentheses
func CleanValue(s string) string {
	s = strings.ReplaceAll(s, nbsp, "")
	s = strings.TrimSpace(bracketSpan.ReplaceAllString(s, ""))
	return strings.NewReplacer("(", "", ")", "").Replace(s)
}

package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoContent is returned when a document holds no visible text
var ErrNoContent = errors.New("no text content found")

// contentSelectors are tried in order; the first one with text wins
var contentSelectors = []string{"article", "main", "body"}

// blockElements start a new line in the extracted text
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "footer": true, "form": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// Parser extracts plain text from HTML
type Parser struct{}

// New creates a new Parser
func New() *Parser {
	return &Parser{}
}

// ExtractText returns the visible text of an HTML document, one line per
// block element, with runs of whitespace collapsed
func (p *Parser) ExtractText(reader io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	for _, selector := range contentSelectors {
		content := doc.Find(selector).First()
		if content.Length() == 0 {
			continue
		}
		if text := normalize(blockText(content)); text != "" {
			return text, nil
		}
	}

	return "", ErrNoContent
}

func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	writeText(&b, sel)
	return b.String()
}

func writeText(b *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch {
		case name == "#text":
			b.WriteString(node.Text())
		case name == "#comment":
		case blockElements[name]:
			b.WriteByte('\n')
			writeText(b, node)
			b.WriteByte('\n')
		default:
			writeText(b, node)
		}
	})
}

// normalize collapses whitespace inside lines and drops blank lines
func normalize(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			kept = append(kept, strings.Join(fields, " "))
		}
	}
	return strings.Join(kept, "\n")
}

// IsHTML reports whether a Content-Type header or a document prefix looks like HTML
func IsHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}

	prefix := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 512)])))
	return strings.HasPrefix(prefix, "<!doctype html") || strings.HasPrefix(prefix, "<html")
}

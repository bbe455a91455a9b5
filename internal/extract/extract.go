// Package extract turns raw HTML documents into clean prose text and a
// page title. Extraction fails soft: malformed or unreadable input yields
// an empty result, never an error the batch has to handle.
package extract

import (
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/company-intel/intel-cli/internal/model"
)

// noiseTags are stripped wholesale before text collection.
var noiseTags = []string{
	"script", "style", "nav", "footer",
	"header", "aside", "iframe", "noscript",
}

// noiseClasses mark cookie banners, popups and navigation chrome. Any
// element whose class attribute contains one of these is dropped.
var noiseClasses = []string{
	"cookie", "banner", "popup", "modal",
	"navigation", "menu", "sidebar",
}

// titleSeparators are site-name suffixes stripped from <title> text, in
// order. Each separator that occurs truncates the title at its position.
var titleSeparators = []string{
	" | Home", " - Home", " | ", " - ", " – ", "Home - ",
}

// Extractor parses HTML documents into ExtractedText.
type Extractor struct {
	maxTextLength int
}

// New creates an Extractor. maxTextLength bounds the prose output;
// values <= 0 fall back to 3000 characters.
func New(maxTextLength int) *Extractor {
	if maxTextLength <= 0 {
		maxTextLength = 3000
	}
	return &Extractor{maxTextLength: maxTextLength}
}

// ExtractFile reads and extracts one HTML file. An unreadable file yields
// an empty result.
func (e *Extractor) ExtractFile(path string) model.ExtractedText {
	f, err := os.Open(path)
	if err != nil {
		zap.L().Debug("extract: open failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return model.ExtractedText{}
	}
	defer f.Close() //nolint:errcheck

	return e.Extract(f)
}

// Extract parses an HTML document and returns its cleaned text and title.
func (e *Extractor) Extract(r io.Reader) model.ExtractedText {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		zap.L().Debug("extract: parse failed", zap.Error(err))
		return model.ExtractedText{}
	}

	title := extractTitle(doc)

	// Title is metadata, not prose.
	doc.Find("title").Remove()
	doc.Find(strings.Join(noiseTags, ", ")).Remove()
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		lower := strings.ToLower(class)
		for _, noise := range noiseClasses {
			if strings.Contains(lower, noise) {
				s.Remove()
				return
			}
		}
	})

	text := collectText(doc)
	text = strings.Join(strings.Fields(text), " ")
	text = truncate(text, e.maxTextLength)

	return model.ExtractedText{Text: text, Title: title}
}

// extractTitle resolves the page title: <title> text with site-name
// suffixes stripped, else the first <h1>, else empty.
func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		for _, sep := range titleSeparators {
			if strings.Contains(title, sep) {
				title = strings.Split(title, sep)[0]
			}
		}
		return strings.TrimSpace(title)
	}

	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// collectText concatenates the remaining visible text nodes with single
// spaces. Nodes removed above are detached from the tree and never visited.
func collectText(doc *goquery.Document) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteByte(' ')
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return sb.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

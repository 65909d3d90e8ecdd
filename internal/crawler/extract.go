package crawler

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// LinkExtractor pulls raw href values out of an HTML document
type LinkExtractor interface {
	ExtractHrefs(body []byte) ([]string, error)
}

// GoqueryExtractor extracts the href of every anchor in document order
type GoqueryExtractor struct{}

// ExtractHrefs returns duplicates as they appear; deduplication happens downstream
func (GoqueryExtractor) ExtractHrefs(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs, nil
}

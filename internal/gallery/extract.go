package gallery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks parses rendered gallery HTML and returns the href of every
// element matching selector, in document order. Relative hrefs are resolved
// against base when it is non-nil; elements without an href are skipped.
func ExtractLinks(html, selector string, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gallery HTML: %w", err)
	}

	var links []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		href = strings.TrimSpace(href)
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				href = base.ResolveReference(ref).String()
			}
		}
		links = append(links, href)
	})
	return links, nil
}

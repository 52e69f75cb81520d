package crawler

import (
	"regexp"
	"strconv"
	"strings"

	"knagahashi/cardharvester/helpers"

	"github.com/PuerkitoBio/goquery"
)

var reResultCount = regexp.MustCompile(`検索結果：([0-9,]+)件`)

// ExtractDetailLinks returns every detail page link of one listing page,
// resolved absolute against baseURL, in document order. An empty result is
// a valid state, not an error: trailing pages can be empty.
func ExtractDetailLinks(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href*='card-detail']").Each(func(i int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, helpers.ResolveURL(baseURL, strings.TrimSpace(href)))
	})
	return links
}

// DiscoverTotalCount extracts the total result count from the first listing
// page. When the labelled count cannot be located, fallback is returned so
// the crawl can still make progress: an approximate page count only affects
// progress reporting.
func DiscoverTotalCount(html string, fallback int) int {
	m := reResultCount.FindStringSubmatch(html)
	if m == nil {
		return fallback
	}

	countStr := strings.ReplaceAll(m[1], ",", "")
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		return fallback
	}
	return count
}

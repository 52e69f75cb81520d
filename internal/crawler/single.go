package crawler

import (
	"context"
	"net/url"

	"knagahashi/cardharvester/helpers"
	apperr "knagahashi/cardharvester/pkg/errors"

	"github.com/go-resty/resty/v2"
)

// SingleCardCrawler fetches and parses one card detail page by URL. This is
// the fetch path that sends the browser User-Agent header; non-2xx answers
// are still decoded since the site serves card markup on some of them.
type SingleCardCrawler struct {
	http   *resty.Client
	parser *DetailParser
}

// NewSingleCardCrawler creates a single-card crawler resolving relative
// image paths against baseURL.
func NewSingleCardCrawler(baseURL string) *SingleCardCrawler {
	return &SingleCardCrawler{
		http:   newBrowserClient(),
		parser: &DetailParser{BaseURL: baseURL},
	}
}

// Crawl fetches rawURL and parses it into a CardRecord
func (c *SingleCardCrawler) Crawl(ctx context.Context, rawURL string) (*CardRecord, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, apperr.NewInvalidURL(rawURL, err)
	}

	resp, err := c.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, apperr.NewNetwork(rawURL, "card page fetch failed", err)
	}

	body, err := helpers.DecodeToUTF8(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	return c.parser.Parse(body, rawURL)
}

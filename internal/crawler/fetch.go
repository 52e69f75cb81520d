package crawler

import (
	"context"
	"net/url"

	"knagahashi/cardharvester/helpers"
	apperr "knagahashi/cardharvester/pkg/errors"
	"knagahashi/cardharvester/services/cache"
)

// HTTPFetcher fetches pages over plain HTTP with a rate-limit guard. While
// a host is blocked, fetches against it fail fast instead of hitting the
// site again.
type HTTPFetcher struct {
	Guard *cache.RateLimitGuard
}

// Fetch retrieves the UTF-8 text of a page
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", apperr.NewInvalidURL(rawURL, err)
	}

	host := parsed.Host
	if f.Guard.Blocked(host) {
		return "", apperr.NewRateLimit(host, f.Guard.BlockTime())
	}

	body, err := helpers.FetchText(ctx, rawURL)
	if err != nil {
		if apperr.IsType(err, apperr.ErrorTypeRateLimit) {
			if blockErr := f.Guard.Block(host); blockErr != nil {
				return "", blockErr
			}
		}
		return "", err
	}

	return body, nil
}

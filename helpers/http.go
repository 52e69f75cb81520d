package helpers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	apperr "knagahashi/cardharvester/pkg/errors"

	"golang.org/x/net/html/charset"
)

var (
	// HTTP client with timeout, shared by all plain fetches
	client = &http.Client{
		Timeout: 10 * time.Second,
	}
)

// FetchText sends an HTTP GET request and returns the body decoded to UTF-8.
// Non-2xx responses are not treated as errors: the body is still decoded,
// since the site serves usable markup on some error pages. Rate limiting
// status codes are reported as a typed rate_limit error. A body that cannot
// be decoded as text is a decode error.
func FetchText(ctx context.Context, rawURL string) (string, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return "", apperr.NewInvalidURL(rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", apperr.NewInvalidURL(rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", apperr.NewNetwork(rawURL, "request failed", err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter := resp.Header.Get("Retry-After")
		return "", apperr.New(apperr.ErrorTypeRateLimit, rawURL, "rate limited; retry after "+retryAfter, nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.NewNetwork(rawURL, "failed to read response body", err)
	}

	return DecodeToUTF8(bodyBytes, resp.Header.Get("Content-Type"))
}

// DecodeToUTF8 converts a response body to UTF-8 based on the Content-Type
// header and the body content itself.
func DecodeToUTF8(body []byte, contentType string) (string, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	// Already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return string(body), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return "", apperr.NewDecode(contentType, "body is not decodable as text", err)
	}

	return buf.String(), nil
}

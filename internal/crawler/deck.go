package crawler

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"knagahashi/cardharvester/helpers"
	apperr "knagahashi/cardharvester/pkg/errors"

	"github.com/go-resty/resty/v2"
)

// browserUserAgent is the one browser-like header this program sends.
// The deck and single-card pages answer differently to the default Go UA.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

var reDeckCardID = regexp.MustCompile(`card_id="([a-zA-Z0-9/-]+)"`)

// newBrowserClient builds the resty client used by the deck and single-card
// fetch paths.
func newBrowserClient() *resty.Client {
	client := resty.New()
	client.SetHeader("User-Agent", browserUserAgent)
	client.SetTimeout(10 * time.Second)
	return client
}

// DeckResolver resolves an opaque deck code into the ordered list of card
// identifiers the deck page lists.
type DeckResolver struct {
	http    *resty.Client
	deckURL func(code string) string
}

// NewDeckResolver creates a deck resolver. deckURL builds the page URL for
// a code.
func NewDeckResolver(deckURL func(code string) string) *DeckResolver {
	return &DeckResolver{
		http:    newBrowserClient(),
		deckURL: deckURL,
	}
}

// Resolve fetches the deck page for code and extracts its card identifiers
// in document order, duplicates preserved. An empty list is a valid outcome
// meaning "no cards found", distinct from a fetch failure.
func (d *DeckResolver) Resolve(ctx context.Context, code string) ([]string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.NewDeckCode(code, "deck code is empty")
	}

	pageURL := d.deckURL(code)
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		return nil, apperr.NewDeckCode(code, "constructed deck URL is invalid")
	}

	resp, err := d.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, apperr.NewNetwork(pageURL, "deck page fetch failed", err)
	}

	body, err := helpers.DecodeToUTF8(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, m := range reDeckCardID.FindAllStringSubmatch(body, -1) {
		if len(m) > 1 {
			ids = append(ids, m[1])
		}
	}
	return ids, nil
}

package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperr "knagahashi/cardharvester/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleCardCrawler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(fullDetailHTML))
	}))
	defer server.Close()

	crawler := NewSingleCardCrawler(server.URL)
	record, err := crawler.Crawl(context.Background(), server.URL+"/card-search/details.php/card/33000")
	require.NoError(t, err)

	assert.Equal(t, "033/106", record.CardID)
	assert.Equal(t, "ピカチュウex", record.Name)
	assert.Equal(t, server.URL+"/card-search/details.php/card/33000", record.PageURL)
}

func TestSingleCardCrawlerNonOKStatusStillParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(fullDetailHTML))
	}))
	defer server.Close()

	crawler := NewSingleCardCrawler(server.URL)
	record, err := crawler.Crawl(context.Background(), server.URL+"/card")
	require.NoError(t, err)
	assert.Equal(t, "033/106", record.CardID)
}

func TestSingleCardCrawlerInvalidURL(t *testing.T) {
	crawler := NewSingleCardCrawler("https://cards.test")

	_, err := crawler.Crawl(context.Background(), "not a url")
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeInvalidURL))
}

func TestSingleCardCrawlerUnparseablePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	defer server.Close()

	crawler := NewSingleCardCrawler(server.URL)
	_, err := crawler.Crawl(context.Background(), server.URL+"/card")
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnparseable))
}

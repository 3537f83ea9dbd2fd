package fetcher

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
)

// ErrDNSFailure marks a name-resolution failure. Unlike ordinary transport
// errors, which the next scheduled tick retries, a DNS failure means the
// environment is broken and the process should halt.
var ErrDNSFailure = errors.New("dns resolution failed")

// Fetcher retrieves forum pages as parsed documents. Implementations own
// transport concerns: authentication cookies and character-set decoding.
type Fetcher interface {
	RecentPosts() (*goquery.Document, error)
	MeritStats() (*goquery.Document, error)
	ModerationLog() (*goquery.Document, error)
	SinglePost(url string) (*goquery.Document, error)
	SingleTopic(url string) (*goquery.Document, error)
}

// HTTPFetcher fetches pages over HTTP. The forum serves ISO-8859-1, so
// every response body is decoded before parsing.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	cookie  string
}

// NewHTTPFetcher creates a fetcher for the given forum base URL. cookie is
// the session cookie required by authenticated pages (merit stats, single
// posts); it may be empty for anonymous scraping.
func NewHTTPFetcher(baseURL, cookie string) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		cookie:  cookie,
	}
}

// RecentPosts fetches the recent-posts listing.
func (f *HTTPFetcher) RecentPosts() (*goquery.Document, error) {
	return f.get(f.baseURL+"/index.php?action=recent", false)
}

// MeritStats fetches the recent merit awards listing.
func (f *HTTPFetcher) MeritStats() (*goquery.Document, error) {
	return f.get(f.baseURL+"/index.php?action=merit;stats=recent", true)
}

// ModerationLog fetches the public moderation log.
func (f *HTTPFetcher) ModerationLog() (*goquery.Document, error) {
	return f.get(f.baseURL+"/modlog.php", false)
}

// SinglePost fetches one topic page anchored at a specific message.
func (f *HTTPFetcher) SinglePost(url string) (*goquery.Document, error) {
	return f.get(url, true)
}

// SingleTopic fetches a topic's first page.
func (f *HTTPFetcher) SingleTopic(url string) (*goquery.Document, error) {
	return f.get(url, true)
}

func (f *HTTPFetcher) get(url string, withCookie bool) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	if withCookie && f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	// The forum serves ISO-8859-1; decode before handing off to the parser.
	decoded := charmap.ISO8859_1.NewDecoder().Reader(resp.Body)
	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document from %s: %w", url, err)
	}
	return doc, nil
}

// classify separates name-resolution failures from ordinary transport
// errors so callers can decide whether to retry or halt.
func classify(url string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("fetching %s: %w: %v", url, ErrDNSFailure, err)
	}
	return fmt.Errorf("failed to fetch %s: %w", url, err)
}

// IsFatal reports whether a fetch error should halt the process.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDNSFailure)
}

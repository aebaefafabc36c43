package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "sjsage522/mpcontacts/pkg/errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.bing.com/",
		"https://duckduckgo.com/",
	}

	// HTTP client with timeout
	client = &http.Client{
		Timeout: 30 * time.Second,
	}
)

// ApplyBrowserHeaders sets browser-like request headers on h. An empty
// userAgent picks a random one.
func ApplyBrowserHeaders(h http.Header, userAgent string) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	if userAgent == "" {
		userAgent = userAgents[rnd.Intn(len(userAgents))]
	}

	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-CA,en;q=0.9,fr-CA;q=0.8,fr;q=0.7")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("Referer", referers[rnd.Intn(len(referers))])
	h.Set("Upgrade-Insecure-Requests", "1")
}

// DecodeUTF8 converts body to UTF-8 using the Content-Type header and any
// meta charset declaration in the body.
func DecodeUTF8(body []byte, contentType string) (io.Reader, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	// If already UTF-8, return as is
	if strings.EqualFold(name, "utf-8") {
		return bytes.NewReader(body), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return &buf, nil
}

// ParseHTML decodes body to UTF-8 and parses it into a goquery document.
func ParseHTML(body []byte, contentType string) (*goquery.Document, error) {
	reader, err := DecodeUTF8(body, contentType)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Page is a fetched HTML page.
type Page struct {
	Doc      *goquery.Document
	FinalURL string
}

// FetchWithRandomHeaders sends a GET request with browser-like headers and
// parses the response. FinalURL is the address after redirects.
func FetchWithRandomHeaders(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	ApplyBrowserHeaders(req.Header, "")

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetwork("", "fetch "+url, err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, apperrors.NewRateLimit("", retryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetwork("", fmt.Sprintf("fetch %s unexpected status code: %d", url, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetwork("", "read response body", err)
	}

	doc, err := ParseHTML(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	doc.Url = resp.Request.URL

	return &Page{Doc: doc, FinalURL: resp.Request.URL.String()}, nil
}

// retryAfter reads a Retry-After header given in seconds. Dates and missing
// values give zero.
func retryAfter(value string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

package crawler

import (
	"context"
	"time"

	"sjsage522/mpcontacts/internal/contact"
)

// EmitFunc receives every extracted record. It is called from several
// goroutines at once.
type EmitFunc func(ctx context.Context, rec contact.Record) error

// Crawler interface defines the contract for all crawler implementations
type Crawler interface {
	// Crawl fetches the index page, follows every discovered profile link
	// and emits one record per fetched profile page
	Crawl(ctx context.Context, emit EmitFunc) (Stats, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetJurisdiction returns the jurisdiction ID the crawler serves
	GetJurisdiction() string
}

// Stats summarises one crawl of one jurisdiction.
type Stats struct {
	IndexPages      int `json:"index_pages"`
	Discovered      int `json:"discovered"`
	Records         int `json:"records"`
	FetchErrors     int `json:"fetch_errors"`
	EmitErrors      int `json:"emit_errors"`
	DiscoveryMisses int `json:"discovery_misses"`
	FieldMisses     int `json:"field_misses"`
	// Skipped counts profile pages left unfetched after a rate limit.
	Skipped int `json:"skipped"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.IndexPages += o.IndexPages
	s.Discovered += o.Discovered
	s.Records += o.Records
	s.FetchErrors += o.FetchErrors
	s.EmitErrors += o.EmitErrors
	s.DiscoveryMisses += o.DiscoveryMisses
	s.FieldMisses += o.FieldMisses
	s.Skipped += o.Skipped
}

// Options tune the HTTP engine shared by all profile crawlers.
type Options struct {
	// Parallelism is the number of concurrent requests per crawl
	Parallelism int
	// RandomDelay is the upper bound of the pause before each request
	RandomDelay    time.Duration
	RequestTimeout time.Duration
	// RespectRobotsTxt makes the engine honour robots.txt disallow rules
	RespectRobotsTxt bool
	// UserAgent overrides the random browser user agent
	UserAgent string
	// ProxyURLs are rotated round robin when set
	ProxyURLs []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Parallelism:      2,
		RandomDelay:      time.Second,
		RequestTimeout:   30 * time.Second,
		RespectRobotsTxt: true,
	}
}

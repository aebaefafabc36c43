package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"sjsage522/mpcontacts/helpers"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
	"sjsage522/mpcontacts/internal/profiles"
	"sjsage522/mpcontacts/logger"
	apperrors "sjsage522/mpcontacts/pkg/errors"
	"sjsage522/mpcontacts/services/cache"

	colly "github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/proxy"
)

const (
	indexDepth = 1
	// profile pages are one hop from the index
	maxDepth = 2

	// statusSiteOverloaded is sent by some hosts instead of 429
	statusSiteOverloaded = 430
)

// ProfileCrawler crawls one jurisdiction as described by its profile: the
// start page is the member index, every discovered link is a profile page.
type ProfileCrawler struct {
	profile    profiles.Profile
	discoverer *discover.Discoverer
	extractor  *extract.Extractor
	gate       *cache.Gate
	opts       Options
	log        *logger.Logger
}

// NewProfileCrawler compiles p. gate may be nil.
func NewProfileCrawler(p profiles.Profile, gate *cache.Gate, opts Options) (*ProfileCrawler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	d, err := p.Discoverer()
	if err != nil {
		return nil, apperrors.NewValidation(p.ID, "invalid link selector", err)
	}
	ex, err := p.Extractor()
	if err != nil {
		return nil, apperrors.NewValidation(p.ID, "invalid field rules", err)
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}

	return &ProfileCrawler{
		profile:    p,
		discoverer: d,
		extractor:  ex,
		gate:       gate,
		opts:       opts,
		log:        logger.ForJurisdiction(p.ID),
	}, nil
}

// GetName returns the legislature's name
func (c *ProfileCrawler) GetName() string {
	if c.profile.Name != "" {
		return c.profile.Name
	}
	return c.profile.ID
}

// GetJurisdiction returns the profile ID
func (c *ProfileCrawler) GetJurisdiction() string {
	return c.profile.ID
}

// crawlRun holds the counters of one Crawl call.
type crawlRun struct {
	indexPages      atomic.Int64
	discovered      atomic.Int64
	records         atomic.Int64
	fetchErrors     atomic.Int64
	emitErrors      atomic.Int64
	discoveryMisses atomic.Int64
	fieldMisses     atomic.Int64
	skipped         atomic.Int64

	rateLimited atomic.Bool
	blockOnce   sync.Once

	mu       sync.Mutex
	fatalErr error
}

func (r *crawlRun) setFatal(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fatalErr == nil {
		r.fatalErr = err
	}
}

func (r *crawlRun) stats() Stats {
	return Stats{
		IndexPages:      int(r.indexPages.Load()),
		Discovered:      int(r.discovered.Load()),
		Records:         int(r.records.Load()),
		FetchErrors:     int(r.fetchErrors.Load()),
		EmitErrors:      int(r.emitErrors.Load()),
		DiscoveryMisses: int(r.discoveryMisses.Load()),
		FieldMisses:     int(r.fieldMisses.Load()),
		Skipped:         int(r.skipped.Load()),
	}
}

// Crawl runs one crawl. Failures on individual profile pages are counted in
// Stats and never fail the crawl; an error is returned only when the index
// page itself could not be used or the jurisdiction is blocked. A rate-limit
// answer to a profile page blocks the jurisdiction for later rounds and
// skips the pages not yet fetched.
func (c *ProfileCrawler) Crawl(ctx context.Context, emit EmitFunc) (Stats, error) {
	id := c.profile.ID

	blocked, err := c.gate.Blocked(id)
	if err != nil {
		c.log.Warn().Err(err).Msg("Rate limit check failed, crawling anyway")
	}
	if blocked {
		return Stats{}, apperrors.NewRateLimit(id, c.gate.BlockTime())
	}

	collector, err := c.newCollector(ctx)
	if err != nil {
		return Stats{}, err
	}

	run := &crawlRun{}

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		if run.rateLimited.Load() {
			run.skipped.Add(1)
			r.Abort()
			return
		}
		helpers.ApplyBrowserHeaders(*r.Headers, c.opts.UserAgent)
		c.log.Debug().Str("url", r.URL.String()).Int("depth", r.Depth).Msg("Visiting")
	})

	// Runs once the request holds a parallelism slot, so requests queued
	// behind a rate-limited one are dropped here.
	collector.OnRequestHeaders(func(r *colly.Request) {
		if run.rateLimited.Load() {
			r.Abort()
		}
	})

	// Runs before the slot is released.
	collector.OnResponseHeaders(func(r *colly.Response) {
		if isRateLimitStatus(r.StatusCode) {
			run.rateLimited.Store(true)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		if r.Request.Depth <= indexDepth {
			c.handleIndex(ctx, r, run)
			return
		}
		c.handleProfile(ctx, r, emit, run)
	})

	collector.OnError(func(r *colly.Response, err error) {
		c.handleError(r, err, run)
	})

	c.log.Info().Str("url", c.profile.StartURL).Msg("Crawl started")

	if err := collector.Visit(c.profile.StartURL); err != nil {
		run.setFatal(apperrors.NewNetwork(id, "visit index page", err))
	}
	collector.Wait()

	stats := run.stats()
	c.log.Info().
		Int("discovered", stats.Discovered).
		Int("records", stats.Records).
		Int("fetch_errors", stats.FetchErrors).
		Int("field_misses", stats.FieldMisses).
		Int("skipped", stats.Skipped).
		Msg("Crawl finished")

	if run.fatalErr != nil {
		return stats, run.fatalErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (c *ProfileCrawler) newCollector(ctx context.Context) (*colly.Collector, error) {
	collector := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.Async(true),
		colly.MaxDepth(maxDepth),
	)
	collector.IgnoreRobotsTxt = !c.opts.RespectRobotsTxt

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: c.opts.Parallelism,
		RandomDelay: c.opts.RandomDelay,
	}); err != nil {
		return nil, apperrors.NewConfiguration("set crawl limits", err)
	}

	if c.opts.RequestTimeout > 0 {
		collector.SetRequestTimeout(c.opts.RequestTimeout)
	}

	if len(c.opts.ProxyURLs) > 0 {
		rp, err := proxy.RoundRobinProxySwitcher(c.opts.ProxyURLs...)
		if err != nil {
			return nil, apperrors.NewConfiguration("create proxy switcher", err)
		}
		collector.SetProxyFunc(rp)
	}

	return collector, nil
}

func (c *ProfileCrawler) handleIndex(ctx context.Context, r *colly.Response, run *crawlRun) {
	pageURL := r.Request.URL.String()

	doc, err := helpers.ParseHTML(r.Body, bodyContentType(r.Headers))
	if err != nil {
		run.fetchErrors.Add(1)
		run.setFatal(apperrors.NewParsing(c.profile.ID, "parse index page", err))
		return
	}
	run.indexPages.Add(1)

	n := 0
	for link := range c.discoverer.Discover(doc, r.Request.URL, c.profile.AllowedDomains) {
		if ctx.Err() != nil {
			break
		}
		n++
		if err := r.Request.Visit(link); err != nil && !isExpectedVisitError(err) {
			c.log.Warn().Err(err).Str("url", link).Msg("Could not queue profile page")
		}
	}
	run.discovered.Add(int64(n))

	if n == 0 {
		run.discoveryMisses.Add(1)
		c.log.Warn().
			Err(apperrors.NewDiscovery(c.profile.ID, c.discoverer.Selector())).
			Str("url", pageURL).
			Msg("Index page yielded no profile links; the site layout may have changed")
		return
	}
	c.log.Debug().Int("links", n).Str("url", pageURL).Msg("Profile links discovered")
}

func (c *ProfileCrawler) handleProfile(ctx context.Context, r *colly.Response, emit EmitFunc, run *crawlRun) {
	pageURL := r.Request.URL.String()

	doc, err := helpers.ParseHTML(r.Body, bodyContentType(r.Headers))
	if err != nil {
		run.fetchErrors.Add(1)
		c.log.Warn().Err(err).Str("url", pageURL).Msg("Could not parse profile page")
		return
	}

	rec := c.extractor.Extract(doc, pageURL)
	run.records.Add(1)

	if missed := c.extractor.Misses(rec); len(missed) > 0 {
		run.fieldMisses.Add(int64(len(missed)))
		c.log.Debug().Strs("fields", missed).Str("url", pageURL).Msg("Fields not found on profile page")
	}

	if err := emit(ctx, rec); err != nil {
		run.emitErrors.Add(1)
		c.log.Error().Err(err).Str("url", pageURL).Msg("Failed to emit record")
	}
}

func (c *ProfileCrawler) handleError(r *colly.Response, err error, run *crawlRun) {
	pageURL := ""
	depth := indexDepth
	if r != nil && r.Request != nil {
		pageURL = r.Request.URL.String()
		depth = r.Request.Depth
	}

	if errors.Is(err, colly.ErrAbortedBeforeRequest) {
		run.skipped.Add(1)
		c.log.Debug().Str("url", pageURL).Msg("Skipped after rate limit")
		return
	}
	if isExpectedVisitError(err) {
		c.log.Debug().Err(err).Str("url", pageURL).Msg("Skipped")
		return
	}

	run.fetchErrors.Add(1)

	status := 0
	if r != nil {
		status = r.StatusCode
	}
	if isRateLimitStatus(status) {
		run.rateLimited.Store(true)
		run.blockOnce.Do(func() {
			if blockErr := c.gate.Block(c.profile.ID); blockErr != nil {
				c.log.Warn().Err(blockErr).Msg("Could not record rate limit block")
			}
			c.log.Warn().Int("status", status).Str("url", pageURL).Dur("block", c.gate.BlockTime()).Msg("Rate limited, skipping remaining pages")
		})
		if depth <= indexDepth {
			run.setFatal(apperrors.NewRateLimit(c.profile.ID, c.gate.BlockTime()))
		}
		return
	}

	if depth <= indexDepth {
		run.setFatal(apperrors.NewNetwork(c.profile.ID, fmt.Sprintf("fetch index page %s (status %d)", pageURL, status), err))
		c.log.Error().Err(err).Int("status", status).Str("url", pageURL).Msg("Index page fetch failed")
		return
	}
	c.log.Warn().Err(err).Int("status", status).Str("url", pageURL).Msg("Profile page fetch failed")
}

func isRateLimitStatus(status int) bool {
	return status == http.StatusTooManyRequests || status == statusSiteOverloaded
}

// isExpectedVisitError reports the engine's refusals to visit a URL, which
// are not fetch failures.
func isExpectedVisitError(err error) bool {
	if errors.Is(err, colly.ErrMaxDepth) || errors.Is(err, colly.ErrForbiddenDomain) || errors.Is(err, colly.ErrRobotsTxtBlocked) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already visited") || strings.Contains(msg, "request aborted")
}

// bodyContentType returns the Content-Type to decode a colly body with. colly
// has already converted bodies whose header names a charset to UTF-8.
func bodyContentType(h *http.Header) string {
	if h == nil {
		return ""
	}
	ct := h.Get("Content-Type")
	if strings.Contains(strings.ToLower(ct), "charset") {
		return "text/html; charset=utf-8"
	}
	return ct
}

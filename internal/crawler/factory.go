package crawler

import (
	"errors"

	"sjsage522/mpcontacts/config"
	"sjsage522/mpcontacts/internal/profiles"
	"sjsage522/mpcontacts/logger"
	"sjsage522/mpcontacts/services/cache"
)

// OptionsFromConfig maps the crawler settings of cfg to Options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Parallelism:      cfg.Parallelism,
		RandomDelay:      cfg.RandomDelay,
		RequestTimeout:   cfg.RequestTimeout,
		RespectRobotsTxt: cfg.RespectRobotsTxt,
		UserAgent:        cfg.UserAgent,
		ProxyURLs:        cfg.ProxyURLs,
	}
}

// CreateCrawlers creates one crawler per profile. Every profile is checked
// before any crawler is returned.
func CreateCrawlers(ps []profiles.Profile, gate *cache.Gate, opts Options) ([]Crawler, error) {
	var (
		crawlers []Crawler
		errs     []error
	)
	for _, p := range ps {
		c, err := NewProfileCrawler(p, gate, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		crawlers = append(crawlers, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if logger.IsDebugEnabled() {
		for i, c := range crawlers {
			logger.Debug("Crawler %d: %s (%s)", i, c.GetJurisdiction(), c.GetName())
		}
	}
	logger.Info("Created %d crawlers", len(crawlers))

	return crawlers, nil
}

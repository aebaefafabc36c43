// Package profiles holds the per-jurisdiction site configuration: where the
// member index lives, how to find profile links on it and how to read each
// contact field off a profile page.
package profiles

import (
	"fmt"
	"net/url"
	"strings"

	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
	apperrors "sjsage522/mpcontacts/pkg/errors"
)

// Profile is the complete configuration for one jurisdiction.
type Profile struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	StartURL string `yaml:"start_url" json:"start_url"`
	// AllowedDomains limits which hosts discovered links may point to. A
	// domain also admits its subdomains.
	AllowedDomains []string              `yaml:"allowed_domains,omitempty" json:"allowed_domains,omitempty"`
	Links          discover.LinkSelector `yaml:"links" json:"links"`
	Fields         []extract.FieldRules  `yaml:"fields" json:"fields"`
	Constants      map[string]string     `yaml:"constants,omitempty" json:"constants,omitempty"`
}

// Validate checks that the profile can be crawled: the start URL is absolute
// and inside AllowedDomains, and every selector and pattern compiles.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return apperrors.NewValidation("", "profile has no id", nil)
	}

	u, err := url.Parse(p.StartURL)
	if err != nil {
		return apperrors.NewValidation(p.ID, "invalid start url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewValidation(p.ID, fmt.Sprintf("start url %q is not an absolute http(s) url", p.StartURL), nil)
	}
	if !discover.InDomains(u.Hostname(), p.AllowedDomains) {
		return apperrors.NewValidation(p.ID, fmt.Sprintf("start url host %q is outside allowed domains %v", u.Hostname(), p.AllowedDomains), nil)
	}

	if _, err := p.Discoverer(); err != nil {
		return apperrors.NewValidation(p.ID, "invalid link selector", err)
	}
	if _, err := p.Extractor(); err != nil {
		return apperrors.NewValidation(p.ID, "invalid field rules", err)
	}
	return nil
}

// Discoverer compiles the profile's link selector.
func (p Profile) Discoverer() (*discover.Discoverer, error) {
	return discover.New(p.Links)
}

// Extractor compiles the profile's field rules and constants.
func (p Profile) Extractor() (*extract.Extractor, error) {
	return extract.New(p.Fields, p.Constants)
}

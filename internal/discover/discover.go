// Package discover finds member profile links on a legislature's index page.
package discover

import (
	"fmt"
	"iter"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// DefaultSkipPrefixes are hrefs that never lead to a profile page.
var DefaultSkipPrefixes = []string{"mailto:", "javascript:", "tel:", "#"}

// Rewrite replaces Old with New in a raw href before it is resolved.
type Rewrite struct {
	Old string `yaml:"old" json:"old"`
	New string `yaml:"new" json:"new"`
}

// LinkSelector describes where profile links live on an index page and which
// of them to keep.
type LinkSelector struct {
	Selector string `yaml:"selector" json:"selector"`
	// Attr defaults to href.
	Attr string `yaml:"attr,omitempty" json:"attr,omitempty"`
	// SkipPrefixes defaults to DefaultSkipPrefixes.
	SkipPrefixes []string `yaml:"skip_prefixes,omitempty" json:"skip_prefixes,omitempty"`
	// Allow and Deny are substrings matched against the resolved URL.
	Allow []string `yaml:"allow,omitempty" json:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty" json:"deny,omitempty"`
	// AllowPatterns and DenyPatterns are regular expressions matched against
	// the resolved URL.
	AllowPatterns []string  `yaml:"allow_patterns,omitempty" json:"allow_patterns,omitempty"`
	DenyPatterns  []string  `yaml:"deny_patterns,omitempty" json:"deny_patterns,omitempty"`
	Rewrite       []Rewrite `yaml:"rewrite,omitempty" json:"rewrite,omitempty"`
}

// Validate reports whether the selector and patterns compile.
func (ls LinkSelector) Validate() error {
	_, err := New(ls)
	return err
}

// Discoverer applies a compiled LinkSelector. It holds no mutable state and
// may be shared between goroutines.
type Discoverer struct {
	selector     string
	attr         string
	skipPrefixes []string
	allow        []string
	deny         []string
	allowRe      []*regexp.Regexp
	denyRe       []*regexp.Regexp
	rewrites     []Rewrite
}

// New compiles ls.
func New(ls LinkSelector) (*Discoverer, error) {
	if strings.TrimSpace(ls.Selector) == "" {
		return nil, fmt.Errorf("link selector is empty")
	}
	if _, err := cascadia.Compile(ls.Selector); err != nil {
		return nil, fmt.Errorf("invalid link selector %q: %w", ls.Selector, err)
	}

	d := &Discoverer{
		selector:     ls.Selector,
		attr:         ls.Attr,
		skipPrefixes: ls.SkipPrefixes,
		allow:        ls.Allow,
		deny:         ls.Deny,
		rewrites:     ls.Rewrite,
	}
	if d.attr == "" {
		d.attr = "href"
	}
	if d.skipPrefixes == nil {
		d.skipPrefixes = DefaultSkipPrefixes
	}

	var err error
	if d.allowRe, err = compileAll(ls.AllowPatterns); err != nil {
		return nil, fmt.Errorf("allow pattern: %w", err)
	}
	if d.denyRe, err = compileAll(ls.DenyPatterns); err != nil {
		return nil, fmt.Errorf("deny pattern: %w", err)
	}
	return d, nil
}

// Selector returns the structural selector used to find candidate links.
func (d *Discoverer) Selector() string {
	return d.selector
}

// Discover yields the absolute URL of every profile link on doc, in page
// order. Duplicates are kept. A page without matching links yields nothing.
// When domains is non-empty, links to other hosts are dropped; a domain also
// admits its subdomains.
func (d *Discoverer) Discover(doc *goquery.Document, base *url.URL, domains []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		doc.Find(d.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			raw, ok := s.Attr(d.attr)
			if !ok {
				return true
			}
			link, ok := d.resolve(raw, base, domains)
			if !ok {
				return true
			}
			return yield(link)
		})
	}
}

// Count returns how many links Discover would yield.
func (d *Discoverer) Count(doc *goquery.Document, base *url.URL, domains []string) int {
	n := 0
	for range d.Discover(doc, base, domains) {
		n++
	}
	return n
}

func (d *Discoverer) resolve(raw string, base *url.URL, domains []string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	lower := strings.ToLower(raw)
	for _, p := range d.skipPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			return "", false
		}
	}

	for _, rw := range d.rewrites {
		raw = strings.ReplaceAll(raw, rw.Old, rw.New)
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !InDomains(abs.Hostname(), domains) {
		return "", false
	}
	abs.Fragment = ""
	link := abs.String()

	if !d.allowed(link) {
		return "", false
	}
	return link, true
}

func (d *Discoverer) allowed(link string) bool {
	for _, s := range d.deny {
		if strings.Contains(link, s) {
			return false
		}
	}
	for _, re := range d.denyRe {
		if re.MatchString(link) {
			return false
		}
	}

	if len(d.allow) == 0 && len(d.allowRe) == 0 {
		return true
	}
	for _, s := range d.allow {
		if strings.Contains(link, s) {
			return true
		}
	}
	for _, re := range d.allowRe {
		if re.MatchString(link) {
			return true
		}
	}
	return false
}

// InDomains reports whether host is one of domains or a subdomain of one.
// An empty list admits every host.
func InDomains(host string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, d := range domains {
		d = strings.ToLower(strings.TrimPrefix(d, "."))
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

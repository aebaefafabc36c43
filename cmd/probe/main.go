// Command probe runs one site profile against a single page and prints what
// it finds, for checking selectors against a live site or a saved copy.
//
// By default the page is treated as a member profile page and the extracted
// record is printed as JSON together with the fields that came back empty.
// With --index the page is treated as the member index and the discovered
// profile links are printed instead. With --unblock no page is read; the
// jurisdiction's rate-limit block is lifted in the memcache at MEMCACHE_ADDR.
//
//	probe --jurisdiction Ontario https://www.ola.org/en/members/all/jane-doe
//	probe -j BC --index --base https://www.leg.bc.ca/ saved.html
//	MEMCACHE_ADDR=localhost:11211 probe -j Quebec --unblock
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"sjsage522/mpcontacts/helpers"
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/profiles"
	"sjsage522/mpcontacts/logger"
	"sjsage522/mpcontacts/services/cache"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

type recordReport struct {
	Jurisdiction string         `json:"jurisdiction"`
	Record       contact.Record `json:"record"`
	Missing      []string       `json:"missing"`
}

type indexReport struct {
	Jurisdiction string   `json:"jurisdiction"`
	Selector     string   `json:"selector"`
	Links        []string `json:"links"`
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), "development")

	if err := newProbeCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type probeOptions struct {
	jurisdiction string
	index        bool
	base         string
	profilesFile string
	timeout      time.Duration
	unblock      bool

	// cache holds rate-limit blocks; nil dials MEMCACHE_ADDR.
	cache cache.CacheService
}

// newProbeCmd creates the probe command writing its report to stdout.
func newProbeCmd(stdout io.Writer) *cobra.Command {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe [flags] <url-or-file>",
		Short: "Run one site profile against a single page",
		Long: `Probe fetches a URL, or reads a saved HTML file, and runs one jurisdiction's
profile against it. Profile pages print the extracted record and the fields
that came back empty; with --index the discovered profile links are printed.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.unblock {
				if len(args) > 0 {
					return fmt.Errorf("--unblock takes no page")
				}
				return runUnblock(opts, stdout)
			}
			if len(args) != 1 {
				return fmt.Errorf("accepts 1 arg, received %d", len(args))
			}
			return runProbe(cmd.Context(), opts, args[0], stdout)
		},
	}

	cmd.Flags().StringVarP(&opts.jurisdiction, "jurisdiction", "j", "", "Profile ID, e.g. Ontario")
	cmd.Flags().BoolVar(&opts.index, "index", false, "Treat the page as the member index and print discovered links")
	cmd.Flags().StringVar(&opts.base, "base", "", "Page URL to assume for a local file; defaults to the profile start URL")
	cmd.Flags().StringVar(&opts.profilesFile, "profiles", "", "YAML profiles file overriding the built-in profiles")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Fetch timeout")
	cmd.Flags().BoolVar(&opts.unblock, "unblock", false, "Lift the jurisdiction's rate-limit block instead of reading a page")
	_ = cmd.MarkFlagRequired("jurisdiction")

	return cmd
}

func lookup(opts *probeOptions) (profiles.Profile, error) {
	set := profiles.Builtin()
	if opts.profilesFile != "" {
		loaded, err := profiles.LoadFile(opts.profilesFile)
		if err != nil {
			return profiles.Profile{}, err
		}
		set.Override(loaded...)
	}
	p, ok := set.Lookup(opts.jurisdiction)
	if !ok {
		return profiles.Profile{}, fmt.Errorf("unknown jurisdiction %q, known: %s", opts.jurisdiction, strings.Join(set.IDs(), ", "))
	}
	return p, nil
}

// runUnblock clears the block the worker sets after a rate-limit response.
func runUnblock(opts *probeOptions, stdout io.Writer) error {
	p, err := lookup(opts)
	if err != nil {
		return err
	}

	svc := opts.cache
	if svc == nil {
		addr := os.Getenv("MEMCACHE_ADDR")
		if addr == "" {
			return fmt.Errorf("MEMCACHE_ADDR is not set; blocks held in worker memory end with the process")
		}
		svc = cache.NewMemcacheService(addr)
	}

	if err := cache.NewGate(svc, 0).Clear(p.ID); err != nil {
		return err
	}
	logger.Info("Cleared rate-limit block for %s", p.ID)
	_, err = fmt.Fprintf(stdout, "unblocked %s\n", p.ID)
	return err
}

func runProbe(ctx context.Context, opts *probeOptions, target string, stdout io.Writer) error {
	p, err := lookup(opts)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	doc, pageURL, err := load(ctx, target, opts.base, p.StartURL)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if opts.index {
		d, err := p.Discoverer()
		if err != nil {
			return err
		}
		base, err := url.Parse(pageURL)
		if err != nil {
			return err
		}
		links := []string{}
		for link := range d.Discover(doc, base, p.AllowedDomains) {
			links = append(links, link)
		}
		return enc.Encode(indexReport{Jurisdiction: p.ID, Selector: d.Selector(), Links: links})
	}

	ex, err := p.Extractor()
	if err != nil {
		return err
	}
	rec := ex.Extract(doc, pageURL)
	missing := ex.Misses(rec)
	if missing == nil {
		missing = []string{}
	}
	return enc.Encode(recordReport{Jurisdiction: p.ID, Record: rec, Missing: missing})
}

// load fetches an http(s) URL or reads a local file. It returns the document
// and the URL the page is known by.
func load(ctx context.Context, target, base, fallback string) (*goquery.Document, string, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		page, err := helpers.FetchWithRandomHeaders(ctx, target)
		if err != nil {
			return nil, "", err
		}
		return page.Doc, page.FinalURL, nil
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, "", err
	}
	doc, err := helpers.ParseHTML(data, "")
	if err != nil {
		return nil, "", err
	}
	pageURL := base
	if pageURL == "" {
		pageURL = fallback
	}
	return doc, pageURL, nil
}

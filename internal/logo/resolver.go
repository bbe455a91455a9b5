// Package logo resolves a company logo URL through an ordered chain of
// fallback tiers. The final tier is constructed without a network check,
// so Resolve always returns a non-empty, syntactically valid URL.
package logo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultProbeTimeout    = 3 * time.Second
	defaultProbesPerSecond = 4
	defaultUserAgent       = "intel-cli/1.0"
	defaultClearbitBaseURL = "https://logo.clearbit.com"
	defaultFaviconBaseURL  = "https://www.google.com/s2/favicons"
	faviconSize            = 128
)

// iconSelectors are tried in priority order: high-res iOS icons first,
// generic icons last.
var iconSelectors = []string{
	`link[rel='apple-touch-icon']`,
	`link[rel='icon'][sizes='192x192']`,
	`link[rel='icon'][type='image/png']`,
	`link[rel='shortcut icon']`,
	`link[rel='icon']`,
}

// commonFaviconPaths are conventional favicon locations probed in tier 2.
var commonFaviconPaths = []string{
	"/favicon.ico",
	"/favicon.png",
	"/apple-touch-icon.png",
	"/assets/favicon.ico",
	"/static/favicon.ico",
}

// imageExtensions is the allowlist used to decide whether an href
// plausibly names an image.
var imageExtensions = []string{
	".ico", ".png", ".jpg", ".jpeg", ".svg", ".gif", ".webp",
}

// Options configures a Resolver. Zero values fall back to defaults.
type Options struct {
	Client          *http.Client
	ProbeTimeout    time.Duration
	ProbesPerSecond float64
	UserAgent       string
	ClearbitBaseURL string
	FaviconBaseURL  string
}

// Resolver resolves logo URLs for domains. Safe for concurrent use; the
// shared rate limiter keeps probe traffic polite across workers.
type Resolver struct {
	client       *http.Client
	limiter      *rate.Limiter
	probeTimeout time.Duration
	userAgent    string
	clearbitBase string
	faviconBase  string
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	if opts.ProbesPerSecond <= 0 {
		opts.ProbesPerSecond = defaultProbesPerSecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.ClearbitBaseURL == "" {
		opts.ClearbitBaseURL = defaultClearbitBaseURL
	}
	if opts.FaviconBaseURL == "" {
		opts.FaviconBaseURL = defaultFaviconBaseURL
	}
	return &Resolver{
		client:       opts.Client,
		limiter:      rate.NewLimiter(rate.Limit(opts.ProbesPerSecond), 1),
		probeTimeout: opts.ProbeTimeout,
		userAgent:    opts.UserAgent,
		clearbitBase: strings.TrimSuffix(opts.ClearbitBaseURL, "/"),
		faviconBase:  strings.TrimSuffix(opts.FaviconBaseURL, "/"),
	}
}

// Resolve walks the fallback tiers for a domain, first success wins. A
// probe timeout or non-200 is a tier failure, never an error: control
// falls through until the unconditional favicon-service tier.
func (r *Resolver) Resolve(ctx context.Context, domain, htmlPath string) string {
	if u := r.fromHTML(domain, htmlPath); u != "" {
		return u
	}
	if u := r.probeCommonPaths(ctx, domain); u != "" {
		return u
	}
	if u := r.probeClearbit(ctx, domain); u != "" {
		return u
	}
	return r.faviconServiceURL(domain)
}

// fromHTML is tier 1: parse the document for <link rel> icon variants in
// priority order, then the og:image meta tag.
func (r *Resolver) fromHTML(domain, htmlPath string) string {
	f, err := os.Open(htmlPath)
	if err != nil {
		return ""
	}
	defer f.Close() //nolint:errcheck

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		zap.L().Debug("logo: html parse failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return ""
	}

	for _, selector := range iconSelectors {
		href, ok := doc.Find(selector).First().Attr("href")
		if !ok || href == "" {
			continue
		}
		resolved := resolveHref(domain, href)
		if looksLikeImage(resolved) && isValidURL(resolved) {
			return resolved
		}
	}

	// og:image is often the highest-quality image on the page.
	if content, ok := doc.Find(`meta[property='og:image']`).First().Attr("content"); ok && content != "" {
		if isValidURL(content) {
			return content
		}
	}

	return ""
}

// probeCommonPaths is tier 2: HEAD-check conventional favicon paths.
func (r *Resolver) probeCommonPaths(ctx context.Context, domain string) string {
	for _, path := range commonFaviconPaths {
		candidate := fmt.Sprintf("https://%s%s", domain, path)
		if r.urlExists(ctx, candidate) {
			return candidate
		}
	}
	return ""
}

// probeClearbit is tier 3: the logo-by-domain service, keyed by root
// domain so subdomains share their parent's logo.
func (r *Resolver) probeClearbit(ctx context.Context, domain string) string {
	candidate := fmt.Sprintf("%s/%s", r.clearbitBase, RootDomain(domain))
	if r.urlExists(ctx, candidate) {
		return candidate
	}
	return ""
}

// faviconServiceURL is tier 4: constructed without a network check, so it
// cannot fail. The favicon service itself serves a generic icon when the
// domain has none.
func (r *Resolver) faviconServiceURL(domain string) string {
	return fmt.Sprintf("%s?sz=%d&domain=%s", r.faviconBase, faviconSize, RootDomain(domain))
}

// urlExists HEAD-checks a URL with the shared rate limiter and per-probe
// timeout. Any failure reads as "does not exist".
func (r *Resolver) urlExists(ctx context.Context, rawURL string) bool {
	if err := r.limiter.Wait(ctx); err != nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		zap.L().Debug("logo: probe failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	return resp.StatusCode == http.StatusOK
}

// resolveHref turns relative and protocol-relative hrefs into absolute
// URLs against the domain.
func resolveHref(domain, href string) string {
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return fmt.Sprintf("https://%s%s", domain, href)
	case strings.HasPrefix(href, "http"):
		return href
	default:
		base, err := url.Parse(fmt.Sprintf("https://%s/", domain))
		if err != nil {
			return ""
		}
		ref, err := url.Parse(href)
		if err != nil {
			return ""
		}
		return base.ResolveReference(ref).String()
	}
}

func looksLikeImage(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

func isValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// twoPartTLDs lists known two-part public suffixes that need three labels
// to form a root domain.
var twoPartTLDs = map[string]bool{
	"co.uk":  true,
	"com.au": true,
	"co.nz":  true,
	"co.za":  true,
	"com.br": true,
}

// RootDomain strips subdomains: www.example.com → example.com,
// api.app.example.co.uk → example.co.uk.
func RootDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if idx := strings.Index(domain, "/"); idx >= 0 {
		domain = domain[:idx]
	}

	parts := strings.Split(domain, ".")
	if len(parts) >= 3 && twoPartTLDs[strings.Join(parts[len(parts)-2:], ".")] {
		return strings.Join(parts[len(parts)-3:], ".")
	}
	if len(parts) > 1 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return domain
}

package logo

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc lets tests script probe responses without a listener.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(status func(url string) int) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status(req.URL.String()),
				Body:       http.NoBody,
				Request:    req,
			}, nil
		}),
	}
}

func writeDump(t *testing.T, html string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))
	return path
}

func newTestResolver(client *http.Client) *Resolver {
	return New(Options{
		Client:          client,
		ProbesPerSecond: 1000, // no throttling in tests
	})
}

func TestResolve_AppleTouchIconWinsOverIcon(t *testing.T) {
	path := writeDump(t, `<html><head>
		<link rel="icon" href="/favicon.ico">
		<link rel="apple-touch-icon" href="/apple-icon.png">
	</head></html>`)
	r := newTestResolver(newTestClient(func(string) int { return http.StatusNotFound }))

	got := r.Resolve(context.Background(), "acme.com", path)

	assert.Equal(t, "https://acme.com/apple-icon.png", got)
}

func TestResolve_ProtocolRelativeHref(t *testing.T) {
	path := writeDump(t, `<html><head><link rel="icon" href="//cdn.acme.com/fav.png"></head></html>`)
	r := newTestResolver(newTestClient(func(string) int { return http.StatusNotFound }))

	got := r.Resolve(context.Background(), "acme.com", path)

	assert.Equal(t, "https://cdn.acme.com/fav.png", got)
}

func TestResolve_RelativeHrefResolvesAgainstDomain(t *testing.T) {
	path := writeDump(t, `<html><head><link rel="icon" href="assets/fav.png"></head></html>`)
	r := newTestResolver(newTestClient(func(string) int { return http.StatusNotFound }))

	got := r.Resolve(context.Background(), "acme.com", path)

	assert.Equal(t, "https://acme.com/assets/fav.png", got)
}

func TestResolve_NonImageHrefSkipped(t *testing.T) {
	path := writeDump(t, `<html><head>
		<link rel="apple-touch-icon" href="/manifest.json">
		<meta property="og:image" content="https://acme.com/hero.png">
	</head></html>`)
	r := newTestResolver(newTestClient(func(string) int { return http.StatusNotFound }))

	got := r.Resolve(context.Background(), "acme.com", path)

	assert.Equal(t, "https://acme.com/hero.png", got)
}

func TestResolve_CommonPathProbeAfterHTMLMiss(t *testing.T) {
	path := writeDump(t, `<html><head></head><body></body></html>`)
	r := newTestResolver(newTestClient(func(url string) int {
		if url == "https://acme.com/favicon.ico" {
			return http.StatusOK
		}
		return http.StatusNotFound
	}))

	got := r.Resolve(context.Background(), "acme.com", path)

	assert.Equal(t, "https://acme.com/favicon.ico", got)
}

func TestResolve_ClearbitUsesRootDomain(t *testing.T) {
	path := writeDump(t, `<html></html>`)
	r := newTestResolver(newTestClient(func(url string) int {
		if strings.HasPrefix(url, "https://logo.clearbit.com/") {
			return http.StatusOK
		}
		return http.StatusNotFound
	}))

	got := r.Resolve(context.Background(), "shop.acme.co.uk", path)

	assert.Equal(t, "https://logo.clearbit.com/acme.co.uk", got)
}

func TestResolve_AllTiersFailYieldsFaviconService(t *testing.T) {
	r := newTestResolver(newTestClient(func(string) int { return http.StatusNotFound }))

	got := r.Resolve(context.Background(), "acme.com", filepath.Join(t.TempDir(), "missing.html"))

	assert.Equal(t, "https://www.google.com/s2/favicons?sz=128&domain=acme.com", got)
	assert.True(t, strings.HasPrefix(got, "http"))
}

func TestResolve_ProbeErrorTreatedAsMiss(t *testing.T) {
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return nil, context.DeadlineExceeded
		}),
	}
	r := newTestResolver(client)

	got := r.Resolve(context.Background(), "acme.com", filepath.Join(t.TempDir(), "missing.html"))

	assert.Equal(t, "https://www.google.com/s2/favicons?sz=128&domain=acme.com", got)
}

func TestRootDomain(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"acme.com", "acme.com"},
		{"www.acme.com", "acme.com"},
		{"api.app.acme.com", "acme.com"},
		{"acme.co.uk", "acme.co.uk"},
		{"www.acme.co.uk", "acme.co.uk"},
		{"shop.acme.com.au", "acme.com.au"},
		{"https://www.acme.com/about", "acme.com"},
		{"localhost", "localhost"},
	} {
		assert.Equal(t, tc.want, RootDomain(tc.in), "input %q", tc.in)
	}
}

func TestResolveHref(t *testing.T) {
	for _, tc := range []struct {
		href string
		want string
	}{
		{"//cdn.acme.com/a.png", "https://cdn.acme.com/a.png"},
		{"/a.png", "https://acme.com/a.png"},
		{"https://other.com/a.png", "https://other.com/a.png"},
		{"img/a.png", "https://acme.com/img/a.png"},
	} {
		assert.Equal(t, tc.want, resolveHref("acme.com", tc.href), "href %q", tc.href)
	}
}

func TestLooksLikeImage(t *testing.T) {
	assert.True(t, looksLikeImage("https://acme.com/favicon.ico"))
	assert.True(t, looksLikeImage("https://acme.com/logo.SVG"))
	assert.True(t, looksLikeImage("https://acme.com/icon.png?v=2"))
	assert.False(t, looksLikeImage("https://acme.com/manifest.json"))
}

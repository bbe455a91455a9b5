package serve

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/company-intel/intel-cli/internal/config"
	"github.com/company-intel/intel-cli/internal/model"
)

func writeArtifact(t *testing.T, profiles []model.Profile) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.json")
	data, err := json.Marshal(profiles)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestServer(t *testing.T, profiles []model.Profile) (*Server, *Cache) {
	t.Helper()
	cache := NewCache(writeArtifact(t, profiles))
	require.NoError(t, cache.Load())
	return NewServer(cache, config.ServerConfig{}), cache
}

func TestNormalizeDomain(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"acme.com", "acme.com"},
		{"www.acme.com", "acme.com"},
		{"https://acme.com", "acme.com"},
		{"https://www.acme.com", "acme.com"},
		{"http://www.acme.com/about", "acme.com"},
		{"  ACME.com ", "acme.com"},
	} {
		assert.Equal(t, tc.want, NormalizeDomain(tc.in), "input %q", tc.in)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, []model.Profile{{Domain: "acme.com"}})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["companies"])
}

func TestGetCompany(t *testing.T) {
	srv, _ := newTestServer(t, []model.Profile{
		{Domain: "acme.com", CompanyName: "Acme Corp"},
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/company/acme.com", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Acme Corp", got.CompanyName)
}

func TestGetCompany_NormalizesLookup(t *testing.T) {
	srv, _ := newTestServer(t, []model.Profile{
		{Domain: "acme.com", CompanyName: "Acme Corp"},
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/company/www.acme.com", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCompany_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, []model.Profile{{Domain: "acme.com"}})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/company/nope.com", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestListCompanies(t *testing.T) {
	srv, _ := newTestServer(t, []model.Profile{
		{Domain: "a.com", CompanyName: "Alpha"},
		{Domain: "b.com", CompanyName: "Beta"},
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Total     int             `json:"total"`
		Companies []model.Profile `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Len(t, got.Companies, 2)
}

func TestListCompanies_EmptyArtifactIsEmptyArray(t *testing.T) {
	srv, _ := newTestServer(t, []model.Profile{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total": 0, "companies": []}`, rec.Body.String())
}

func TestReload_PicksUpNewArtifact(t *testing.T) {
	path := writeArtifact(t, []model.Profile{{Domain: "acme.com"}})
	cache := NewCache(path)
	require.NoError(t, cache.Load())
	srv := NewServer(cache, config.ServerConfig{})

	// Rewrite the artifact with an extra company.
	data, err := json.Marshal([]model.Profile{{Domain: "acme.com"}, {Domain: "beta.com"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, cache.Len())

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/company/beta.com", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReload_FailureKeepsOldIndex(t *testing.T) {
	path := writeArtifact(t, []model.Profile{{Domain: "acme.com"}})
	cache := NewCache(path)
	require.NoError(t, cache.Load())
	srv := NewServer(cache, config.ServerConfig{})

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, cache.Len())

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/company/acme.com", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Package serve exposes the merged profile artifact over a small lookup
// API. The artifact is loaded into memory at startup and can be reloaded
// without restarting the process.
package serve

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/company-intel/intel-cli/internal/config"
	"github.com/company-intel/intel-cli/internal/merge"
	"github.com/company-intel/intel-cli/internal/model"
)

// Cache holds the merged artifact indexed by normalized domain. Reads are
// concurrent; Reload swaps the whole index atomically.
type Cache struct {
	path string

	mu       sync.RWMutex
	byDomain map[string]model.Profile
	profiles []model.Profile
}

// NewCache creates a cache bound to an artifact path. Call Load before
// serving.
func NewCache(path string) *Cache {
	return &Cache{
		path:     path,
		byDomain: make(map[string]model.Profile),
	}
}

// Load reads the artifact from disk and replaces the in-memory index.
func (c *Cache) Load() error {
	profiles, err := merge.LoadRaw(c.path)
	if err != nil {
		return eris.Wrapf(err, "serve: load artifact %s", c.path)
	}

	byDomain := make(map[string]model.Profile, len(profiles))
	for _, p := range profiles {
		byDomain[NormalizeDomain(p.Domain)] = p
	}

	c.mu.Lock()
	c.byDomain = byDomain
	c.profiles = profiles
	c.mu.Unlock()

	zap.L().Info("serve: artifact loaded",
		zap.String("path", c.path),
		zap.Int("companies", len(profiles)),
	)
	return nil
}

// Reload re-reads the artifact. The previous index stays live if the
// read fails.
func (c *Cache) Reload() error {
	return c.Load()
}

// Get looks up a profile by raw domain input.
func (c *Cache) Get(domain string) (model.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byDomain[NormalizeDomain(domain)]
	return p, ok
}

// All returns the loaded profiles in artifact order.
func (c *Cache) All() []model.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profiles
}

// Len returns the number of loaded profiles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.profiles)
}

// NormalizeDomain strips the scheme, a leading www. and any path so that
// lookups accept the forms users actually paste in.
func NormalizeDomain(domain string) string {
	d := strings.TrimSpace(strings.ToLower(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if idx := strings.IndexByte(d, '/'); idx >= 0 {
		d = d[:idx]
	}
	return d
}

// Server is the lookup API over a loaded cache.
type Server struct {
	cache *Cache
	cfg   config.ServerConfig
}

// NewServer creates a Server for a loaded cache.
func NewServer(cache *Cache, cfg config.ServerConfig) *Server {
	return &Server{cache: cache, cfg: cfg}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/companies", s.handleListCompanies)
		r.Get("/company/{domain}", s.handleGetCompany)
		r.Post("/reload", s.handleReload)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"companies": s.cache.Len(),
	})
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	profiles := s.cache.All()
	if profiles == nil {
		profiles = []model.Profile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     len(profiles),
		"companies": profiles,
	})
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	profile, ok := s.cache.Get(domain)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "company not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Reload(); err != nil {
		zap.L().Error("serve: reload failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "reload failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "reloaded",
		"companies": s.cache.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: write response", zap.Error(err))
	}
}

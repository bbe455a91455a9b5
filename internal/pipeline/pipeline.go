// Package pipeline orchestrates the per-document enrichment flow: extract
// text, classify, synthesize descriptions and resolve a logo, then pass
// the candidate profile through the quality gate. Documents are processed
// concurrently; one bad domain never aborts the batch.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/company-intel/intel-cli/internal/classify"
	"github.com/company-intel/intel-cli/internal/config"
	"github.com/company-intel/intel-cli/internal/describe"
	"github.com/company-intel/intel-cli/internal/enrich"
	"github.com/company-intel/intel-cli/internal/extract"
	"github.com/company-intel/intel-cli/internal/gate"
	"github.com/company-intel/intel-cli/internal/logo"
	"github.com/company-intel/intel-cli/internal/model"
)

// indexFile is the document each domain directory must contain.
const indexFile = "index.html"

// Result is the outcome of one batch run.
type Result struct {
	Accepted []model.Profile   `json:"accepted"`
	Failures []model.Rejection `json:"failures"`
	Total    int               `json:"total"`
}

// Pipeline processes a website-dumps directory into accepted profiles.
type Pipeline struct {
	cfg        config.PipelineConfig
	extractor  *extract.Extractor
	classifier *classify.Classifier
	resolver   *logo.Resolver
	augmenter  *enrich.Augmenter // nil disables the LLM path
}

// New wires a Pipeline. augmenter may be nil for fully offline runs.
func New(cfg config.PipelineConfig, classifier *classify.Classifier, resolver *logo.Resolver, augmenter *enrich.Augmenter) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		extractor:  extract.New(cfg.MaxTextLength),
		classifier: classifier,
		resolver:   resolver,
		augmenter:  augmenter,
	}
}

// Run processes every domain subdirectory of dumpsDir. The only fatal
// condition is the dumps directory itself being unreadable; everything
// per-domain is collected as a failure and the batch continues.
func (p *Pipeline) Run(ctx context.Context, dumpsDir string) (*Result, error) {
	entries, err := os.ReadDir(dumpsDir)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read dumps dir %s", dumpsDir)
	}

	var domains []string
	for _, e := range entries {
		if e.IsDir() {
			domains = append(domains, e.Name())
		}
	}

	zap.L().Info("pipeline: starting batch",
		zap.String("dumps_dir", dumpsDir),
		zap.Int("domains", len(domains)),
	)

	workers := p.cfg.MaxConcurrentDomains
	if workers <= 0 {
		workers = 5
	}

	var (
		mu       sync.Mutex
		accepted []model.Profile
		failures []model.Rejection
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, domain := range domains {
		g.Go(func() error {
			profile, rejection := p.processDomain(gCtx, dumpsDir, domain)

			mu.Lock()
			defer mu.Unlock()
			if rejection != nil {
				failures = append(failures, *rejection)
				return nil
			}
			accepted = append(accepted, profile)
			return nil
		})
	}

	_ = g.Wait()

	// Directory listing order is not meaningful and workers finish out of
	// order; sort by domain so the raw result is reproducible.
	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Domain < accepted[j].Domain })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Domain < failures[j].Domain })

	zap.L().Info("pipeline: batch complete",
		zap.Int("accepted", len(accepted)),
		zap.Int("failed", len(failures)),
		zap.Int("total", len(domains)),
	)

	return &Result{
		Accepted: accepted,
		Failures: failures,
		Total:    len(domains),
	}, nil
}

// processDomain runs the full per-document flow. Ownership of the
// candidate profile passes linearly: extractor → classifier/synthesizer/
// resolver → gate; nothing is shared across goroutines.
func (p *Pipeline) processDomain(ctx context.Context, dumpsDir, domain string) (model.Profile, *model.Rejection) {
	htmlPath := filepath.Join(dumpsDir, domain, indexFile)

	if _, err := os.Stat(htmlPath); err != nil {
		zap.L().Warn("pipeline: document missing",
			zap.String("domain", domain),
			zap.String("path", htmlPath),
		)
		return model.Profile{}, &model.Rejection{Domain: domain, Reason: model.ReasonMissingDocument}
	}

	extracted := p.extractor.ExtractFile(htmlPath)

	minText := p.cfg.MinTextLength
	if minText <= 0 {
		minText = 50
	}
	if len(extracted.Text) < minText {
		zap.L().Warn("pipeline: insufficient text",
			zap.String("domain", domain),
			zap.Int("text_len", len(extracted.Text)),
		)
		return model.Profile{}, &model.Rejection{Domain: domain, Reason: model.ReasonInsufficientText}
	}

	classification := p.classifier.Classify(extracted.Text)
	short, long := describe.Synthesize(extracted.Text)
	logoURL := p.resolver.Resolve(ctx, domain, htmlPath)

	candidate := model.Profile{
		Domain:           domain,
		CompanyName:      extracted.Title,
		Logo:             logoURL,
		ShortDescription: short,
		LongDescription:  long,
		Sector:           classification.Sector,
		Industry:         classification.Industry,
		SubIndustry:      classification.SubIndustry,
		SICCode:          classification.SICCode,
		SICText:          classification.SICText,
		Tags:             classification.Tags,
	}

	candidate = p.augmenter.Augment(ctx, candidate, extracted.Text)

	return gate.Validate(candidate)
}

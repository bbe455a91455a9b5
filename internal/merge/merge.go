// Package merge produces the final serving artifact: schema-enforced,
// deduplicated by domain, sorted by company name. It re-applies the same
// coercion as the quality gate, so running it over already-clean input is
// a no-op.
package merge

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/company-intel/intel-cli/internal/model"
)

// Stats aggregates coverage numbers from one merge. Reporting output only;
// not part of the artifact.
type Stats struct {
	Total         int            `json:"total"`
	Duplicates    int            `json:"duplicates"`
	FieldCoverage map[string]int `json:"field_coverage"`
	Sectors       map[string]int `json:"sectors"`
}

// Merge coerces, deduplicates and sorts a batch of profiles. The first
// occurrence of a domain wins; later duplicates are dropped and counted.
func Merge(profiles []model.Profile) ([]model.Profile, Stats) {
	stats := Stats{
		FieldCoverage: make(map[string]int),
		Sectors:       make(map[string]int),
	}

	seen := make(map[string]bool)
	merged := make([]model.Profile, 0, len(profiles))
	for _, p := range profiles {
		clean := model.Coerce(p)
		if seen[clean.Domain] {
			stats.Duplicates++
			zap.L().Warn("merge: duplicate domain dropped",
				zap.String("domain", clean.Domain),
			)
			continue
		}
		seen[clean.Domain] = true
		merged = append(merged, clean)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return strings.ToLower(merged[i].CompanyName) < strings.ToLower(merged[j].CompanyName)
	})

	stats.Total = len(merged)
	for _, p := range merged {
		for field, value := range p.AsMap() {
			if value != "" {
				stats.FieldCoverage[field]++
			}
		}
		sector := p.Sector
		if sector == "" {
			sector = "Unknown"
		}
		stats.Sectors[sector]++
	}

	return merged, stats
}

// LoadRaw reads a raw batch result file. The input is treated as loosely
// typed JSON so nulls, lists and numbers from older producers coerce to
// the string schema.
func LoadRaw(path string) ([]model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "merge: read %s", path)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "merge: parse %s", path)
	}

	profiles := make([]model.Profile, 0, len(raw))
	for _, item := range raw {
		profiles = append(profiles, model.FromLoose(item))
	}
	return profiles, nil
}

// WriteArtifact writes the final profile array as indented JSON.
func WriteArtifact(path string, profiles []model.Profile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return eris.Wrap(err, "merge: marshal artifact")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "merge: write %s", path)
	}
	return nil
}

// LogStats emits the aggregate statistics the way the pipeline reports
// every phase.
func LogStats(stats Stats) {
	zap.L().Info("merge: complete",
		zap.Int("total", stats.Total),
		zap.Int("duplicates_removed", stats.Duplicates),
	)
	for _, field := range model.SchemaFields {
		zap.L().Info("merge: field coverage",
			zap.String("field", field),
			zap.Int("populated", stats.FieldCoverage[field]),
			zap.Int("total", stats.Total),
		)
	}
	for sector, count := range stats.Sectors {
		zap.L().Info("merge: sector distribution",
			zap.String("sector", sector),
			zap.Int("count", count),
		)
	}
}

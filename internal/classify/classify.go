// Package classify assigns a sector/industry/SIC classification to website
// text using offline keyword scoring. Classification is a pure function of
// the input text: no network, no randomness, no map iteration order.
package classify

import (
	"strings"

	"github.com/company-intel/intel-cli/internal/model"
)

// minTextLength guards against empty or garbage input: shorter text goes
// straight to the default classification.
const minTextLength = 20

// Default is returned when no keyword evidence exists. The classification
// field set is never left empty.
var Default = model.Classification{
	Sector:      "Technology",
	Industry:    "Software",
	SubIndustry: "Software",
	SICCode:     "7372",
	SICText:     "Prepackaged Software",
	Tags:        "Technology, Software",
}

// Classifier scores text against the ordered rule table.
type Classifier struct {
	sectors []Sector
}

// New creates a Classifier from the embedded rule table.
func New() (*Classifier, error) {
	sectors, err := loadRules()
	if err != nil {
		return nil, err
	}
	return &Classifier{sectors: sectors}, nil
}

// Classify maps text to a classification. Keywords match by substring
// containment, not word boundaries: "bank" matches inside "bankingcorp".
// That is intentional for compatibility; tightening it would change
// classification outcomes.
func (c *Classifier) Classify(text string) model.Classification {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if len(normalized) < minTextLength {
		return Default
	}

	// Strictly-greater comparison in declaration order makes the
	// first-declared sector win ties.
	bestSector := -1
	bestScore := 0
	for i, sector := range c.sectors {
		score := countMatches(normalized, sector.Keywords)
		if score > bestScore {
			bestSector = i
			bestScore = score
		}
	}
	if bestSector < 0 {
		return Default
	}

	sector := c.sectors[bestSector]
	bestIndustry := 0 // first-declared industry is the deterministic fallback
	bestScore = 0
	for i, industry := range sector.Industries {
		score := countMatches(normalized, industry.Keywords)
		if score > bestScore {
			bestIndustry = i
			bestScore = score
		}
	}

	industry := sector.Industries[bestIndustry]
	return model.Classification{
		Sector:      sector.Name,
		Industry:    industry.Name,
		SubIndustry: industry.Name,
		SICCode:     industry.SICCode,
		SICText:     industry.SICText,
		Tags:        sector.Name + ", " + industry.Name,
	}
}

// countMatches counts how many keywords occur in the normalized text. Each
// keyword counts once regardless of repetition.
func countMatches(normalized string, keywords []string) int {
	score := 0
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			score++
		}
	}
	return score
}

// Package describe synthesizes short and long company descriptions from
// website prose. Fully offline: candidate sentences are filtered, scored
// against fixed phrase lists and ranked. The synthesizer never returns an
// empty description.
package describe

import (
	"regexp"
	"sort"
	"strings"
)

const (
	minSentenceLength = 20
	maxSentenceLength = 200
	minShortLength    = 20
	minLongLength     = 40

	// maxSpecialRatio drops sentences that are mostly markup debris.
	maxSpecialRatio = 0.3

	businessPhraseScore = 15
	industryTermScore   = 5
	callToActionPenalty = -20
)

const (
	fallbackShort = "Company providing business services and solutions."
	fallbackLong  = "Company providing business services and solutions. Committed to delivering quality products and professional support to customers."
	fallbackTail  = " Committed to delivering quality products and professional support."
)

// noisePatterns strip cookie/privacy/social boilerplate before sentence
// splitting.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(home|about|contact|privacy|terms|cookies?|login|sign up|subscribe)\s*\|`),
	regexp.MustCompile(`(?i)copyright\s+©?\s*\d{4}`),
	regexp.MustCompile(`(?i)all rights reserved`),
	regexp.MustCompile(`(?i)follow us on`),
	regexp.MustCompile(`(?i)(facebook|twitter|linkedin|instagram|youtube)\s*:?`),
	regexp.MustCompile(`(?i)skip to (main )?content`),
}

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// noiseKeywords disqualify a candidate sentence outright.
var noiseKeywords = []string{
	"cookie", "privacy policy", "terms of service", "login",
	"sign up", "subscribe", "newsletter", "click here", "read more",
}

// businessPhrases are high-value "business voice" markers.
var businessPhrases = []string{
	"we provide", "we offer", "we help", "we are", "we specialize",
	"our company", "our mission", "our service", "our product",
	"leading provider", "established", "founded", "specializes in",
	"delivers", "creates", "develops", "builds", "designs",
	"trusted by", "serving", "dedicated to",
}

var industryTerms = []string{
	"software", "technology", "services", "solutions", "platform",
	"healthcare", "financial", "consulting", "manufacturing", "retail",
	"education", "enterprise", "business", "professional", "digital",
	"innovative", "comprehensive", "quality", "expert",
}

var callToActionWords = []string{
	"click", "here", "more info", "learn more", "contact us",
}

// Synthesize builds (short, long) descriptions from raw website text.
func Synthesize(text string) (string, string) {
	cleaned := stripNoise(text)
	sentences := extractSentences(cleaned)

	if len(sentences) == 0 {
		return fallbackShort, fallbackLong
	}

	type scored struct {
		sentence string
		score    int
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		ranked[i] = scored{sentence: s, score: Score(s)}
	}
	// Stable sort keeps document order among equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	var best []string
	for _, r := range ranked {
		if r.score > 0 {
			best = append(best, r.sentence)
		}
	}
	if len(best) == 0 {
		best = sentences
		if len(best) > 3 {
			best = best[:3]
		}
	}

	short := ensurePeriod(collapseSpace(best[0]))

	longParts := best
	if len(longParts) > 3 {
		longParts = longParts[:3]
	}
	long := ensurePeriod(collapseSpace(strings.Join(longParts, ". ")))

	if len(short) < minShortLength {
		short = fallbackShort
	}
	if len(long) < minLongLength {
		long = short + fallbackTail
	}

	return short, long
}

// Score rates one sentence for business-description quality. May be
// negative.
func Score(sentence string) int {
	lower := strings.ToLower(sentence)

	score := 0
	for _, phrase := range businessPhrases {
		if strings.Contains(lower, phrase) {
			score += businessPhraseScore
		}
	}
	for _, term := range industryTerms {
		if strings.Contains(lower, term) {
			score += industryTermScore
		}
	}
	for _, word := range callToActionWords {
		if strings.Contains(lower, word) {
			score += callToActionPenalty
		}
	}
	return score
}

func stripNoise(text string) string {
	for _, p := range noisePatterns {
		text = p.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(collapseSpace(text))
}

// extractSentences splits on sentence terminators and keeps candidates that
// look like prose: bounded length, no boilerplate keywords, mostly
// alphanumeric.
func extractSentences(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	for _, raw := range sentenceTerminators.Split(text, -1) {
		sent := strings.TrimSpace(raw)
		if len(sent) < minSentenceLength || len(sent) > maxSentenceLength {
			continue
		}

		lower := strings.ToLower(sent)
		if containsAny(lower, noiseKeywords) {
			continue
		}

		special := len(nonAlphanumeric.FindAllString(sent, -1))
		if float64(special) > float64(len(sent))*maxSpecialRatio {
			continue
		}

		out = append(out, sent)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func ensurePeriod(s string) string {
	if s != "" && !strings.HasSuffix(s, ".") {
		return s + "."
	}
	return s
}

package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New()
	require.NoError(t, err)
	return c
}

func TestClassify_EmptyTextGetsDefault(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("")

	assert.Equal(t, Default, got)
}

func TestClassify_ShortTextGetsDefault(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("hello world")

	assert.Equal(t, Default, got)
}

func TestClassify_HealthcareText(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("Our hospital provides patient care with experienced doctors and a modern clinic for medical treatment and wellness.")

	assert.Equal(t, "Healthcare", got.Sector)
	assert.Equal(t, "Healthcare Services", got.Industry)
	assert.Equal(t, "8062", got.SICCode)
	assert.Equal(t, "Healthcare, Healthcare Services", got.Tags)
}

func TestClassify_FinancialText(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("We are a full service bank offering savings accounts, checking, deposits and personal loan products with ATM access.")

	assert.Equal(t, "Financial Services", got.Sector)
	assert.Equal(t, "Banking", got.Industry)
	assert.Equal(t, "6020", got.SICCode)
}

func TestClassify_NoKeywordEvidenceGetsDefault(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("zzz qqq xxx yyy www vvv uuu ttt sss rrr")

	assert.Equal(t, Default, got)
}

func TestClassify_SubstringMatching(t *testing.T) {
	c := newClassifier(t)

	// "bank" and "loan" match inside longer tokens.
	got := c.Classify("bankingcorp handles mortgage refinancing and loanservicing for credit unions and insurance partners")

	assert.Equal(t, "Financial Services", got.Sector)
}

func TestClassify_TieGoesToFirstDeclaredSector(t *testing.T) {
	c := newClassifier(t)

	// One Technology keyword and one Healthcare keyword: Technology is
	// declared first and a later equal score never displaces it.
	got := c.Classify("our software product also serves hospital administrators nationwide")

	assert.Equal(t, "Technology", got.Sector)
}

func TestClassify_IndustryFallsBackToFirstDeclared(t *testing.T) {
	c := newClassifier(t)

	// Sector keywords hit but none of the industry keyword lists do, so
	// the first-declared industry is used.
	got := c.Classify("manufacture of industrial machinery for fabrication plants and heavy equipment operations")

	assert.Equal(t, "Manufacturing", got.Sector)
	assert.Equal(t, "Industrial Manufacturing", got.Industry)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newClassifier(t)
	text := "cloud software platform with consulting and managed services for enterprise data teams"

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
}

func TestClassify_SubIndustryMirrorsIndustry(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("full service law firm with experienced attorneys providing legal advice and litigation support")

	assert.Equal(t, got.Industry, got.SubIndustry)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := newClassifier(t)

	lower := c.Classify("restaurant dining and catering with a seasonal cafe menu for events")
	upper := c.Classify(strings.ToUpper("restaurant dining and catering with a seasonal cafe menu for events"))

	assert.Equal(t, lower, upper)
	assert.Equal(t, "Hospitality", lower.Sector)
	assert.Equal(t, "Restaurants", lower.Industry)
}

func TestLoadRules_AllSectorsHaveIndustries(t *testing.T) {
	sectors, err := loadRules()
	require.NoError(t, err)
	require.NotEmpty(t, sectors)

	for _, s := range sectors {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Keywords, "sector %s has no keywords", s.Name)
		assert.NotEmpty(t, s.Industries, "sector %s has no industries", s.Name)
		for _, ind := range s.Industries {
			assert.NotEmpty(t, ind.SICCode, "industry %s has no SIC code", ind.Name)
			assert.NotEmpty(t, ind.SICText, "industry %s has no SIC text", ind.Name)
		}
	}
}

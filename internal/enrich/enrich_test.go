package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/company-intel/intel-cli/internal/config"
	"github.com/company-intel/intel-cli/internal/model"
)

func TestNew_NoKeyDisablesAugmentation(t *testing.T) {
	a := New(config.AnthropicConfig{})

	assert.Nil(t, a)
}

func TestAugment_NilAugmenterPassesThrough(t *testing.T) {
	var a *Augmenter
	p := model.Profile{Domain: "acme.com", CompanyName: "Acme"}

	got := a.Augment(context.Background(), p, "some text")

	assert.Equal(t, p, got)
}

func TestParseExtraction_PlainJSON(t *testing.T) {
	ext, err := ParseExtraction(`{"company_name": "Acme Corp", "industry": "Software"}`)

	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", ext.CompanyName)
	assert.Equal(t, "Software", ext.Industry)
}

func TestParseExtraction_MarkdownFenced(t *testing.T) {
	ext, err := ParseExtraction("```json\n{\"company_name\": \"Acme Corp\"}\n```")

	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", ext.CompanyName)
}

func TestParseExtraction_ProseAroundJSON(t *testing.T) {
	ext, err := ParseExtraction(`Here is the extraction: {"company_name": "Acme"} Hope that helps!`)

	require.NoError(t, err)
	assert.Equal(t, "Acme", ext.CompanyName)
}

func TestParseExtraction_NoJSON(t *testing.T) {
	_, err := ParseExtraction("I could not find any company information.")

	assert.Error(t, err)
}

func TestParseExtraction_MalformedJSON(t *testing.T) {
	_, err := ParseExtraction(`{"company_name": `)

	assert.Error(t, err)
}

func TestFillEmpty_OnlyFillsEmptyFields(t *testing.T) {
	p := model.Profile{
		Domain:           "acme.com",
		CompanyName:      "Offline Name",
		ShortDescription: "",
		Industry:         "Software",
	}
	ext := &Extraction{
		CompanyName:      "Model Name",
		ShortDescription: "Model short description.",
		LongDescription:  "Model long description.",
		Industry:         "Model Industry",
		SubIndustry:      "Model Sub",
	}

	got := fillEmpty(p, ext)

	assert.Equal(t, "Offline Name", got.CompanyName)
	assert.Equal(t, "Model short description.", got.ShortDescription)
	assert.Equal(t, "Model long description.", got.LongDescription)
	assert.Equal(t, "Software", got.Industry)
	assert.Equal(t, "Model Sub", got.SubIndustry)
}

func TestFillEmpty_TrimsModelOutput(t *testing.T) {
	got := fillEmpty(model.Profile{}, &Extraction{CompanyName: "  Acme  "})

	assert.Equal(t, "Acme", got.CompanyName)
}

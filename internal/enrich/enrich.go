// Package enrich is the optional LLM augmentation path. It asks a model
// to extract profile fields from website text and fills in only the
// fields the offline pipeline left empty. Any failure degrades to the
// offline result; correctness never depends on this package.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/company-intel/intel-cli/internal/config"
	"github.com/company-intel/intel-cli/internal/model"
)

const extractPrompt = `Extract company info as JSON. Output ONLY JSON, no text.

Schema:
{
  "company_name": "string",
  "short_description": "1 sentence what they do",
  "long_description": "2-3 sentences",
  "industry": "e.g. Software, Healthcare",
  "sub_industry": "more specific"
}

Text:
%s

JSON:`

// Extraction is the model's answer, loosely typed on purpose.
type Extraction struct {
	CompanyName      string `json:"company_name"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	Industry         string `json:"industry"`
	SubIndustry      string `json:"sub_industry"`
}

// Augmenter calls the Anthropic API for profile field extraction.
type Augmenter struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// New creates an Augmenter, or nil when no API key is configured. A nil
// Augmenter is valid and augments nothing.
func New(cfg config.AnthropicConfig) *Augmenter {
	if cfg.Key == "" {
		return nil
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Augmenter{
		client:    sdk.NewClient(option.WithAPIKey(cfg.Key)),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Augment fills empty fields of the candidate profile from a single model
// call. The offline values always win when present.
func (a *Augmenter) Augment(ctx context.Context, profile model.Profile, text string) model.Profile {
	if a == nil {
		return profile
	}

	ext, err := a.extract(ctx, text)
	if err != nil {
		zap.L().Warn("enrich: extraction failed, keeping offline result",
			zap.String("domain", profile.Domain),
			zap.Error(err),
		)
		return profile
	}

	return fillEmpty(profile, ext)
}

func (a *Augmenter) extract(ctx context.Context, text string) (*Extraction, error) {
	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(fmt.Sprintf(extractPrompt, text))),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "enrich: create message")
	}

	var raw strings.Builder
	for _, block := range msg.Content {
		raw.WriteString(block.Text)
	}

	return ParseExtraction(raw.String())
}

// ParseExtraction parses a model answer into an extraction, tolerating
// markdown fences and prose around the JSON object.
func ParseExtraction(text string) (*Extraction, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.New("enrich: no JSON object in response")
	}

	var ext Extraction
	if err := json.Unmarshal([]byte(cleaned), &ext); err != nil {
		return nil, eris.Wrap(err, "enrich: parse response")
	}
	return &ext, nil
}

func fillEmpty(p model.Profile, ext *Extraction) model.Profile {
	if p.CompanyName == "" {
		p.CompanyName = strings.TrimSpace(ext.CompanyName)
	}
	if p.ShortDescription == "" {
		p.ShortDescription = strings.TrimSpace(ext.ShortDescription)
	}
	if p.LongDescription == "" {
		p.LongDescription = strings.TrimSpace(ext.LongDescription)
	}
	if p.Industry == "" {
		p.Industry = strings.TrimSpace(ext.Industry)
	}
	if p.SubIndustry == "" {
		p.SubIndustry = strings.TrimSpace(ext.SubIndustry)
	}
	return p
}

// cleanJSON strips markdown code fences and extracts the outermost JSON
// object bounds.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

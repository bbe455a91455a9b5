// Package model defines the core data types shared across the enrichment
// pipeline: the company profile schema, intermediate extraction results,
// and validation outcomes.
package model

import (
	"fmt"
	"strings"
)

// Profile is the final per-company record. Every field is a plain string:
// once a profile leaves the merger there are no nulls and no lists.
type Profile struct {
	Domain           string `json:"domain"`
	CompanyName      string `json:"company_name"`
	Logo             string `json:"logo"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	Sector           string `json:"sector"`
	Industry         string `json:"industry"`
	SubIndustry      string `json:"sub_industry"`
	SICCode          string `json:"sic_code"`
	SICText          string `json:"sic_text"`
	Tags             string `json:"tags"`
}

// SchemaFields lists the profile schema keys in output order.
var SchemaFields = []string{
	"domain",
	"company_name",
	"logo",
	"short_description",
	"long_description",
	"sector",
	"industry",
	"sub_industry",
	"sic_code",
	"sic_text",
	"tags",
}

// AsMap returns the profile as a key→value map using schema field names.
func (p Profile) AsMap() map[string]string {
	return map[string]string{
		"domain":            p.Domain,
		"company_name":      p.CompanyName,
		"logo":              p.Logo,
		"short_description": p.ShortDescription,
		"long_description":  p.LongDescription,
		"sector":            p.Sector,
		"industry":          p.Industry,
		"sub_industry":      p.SubIndustry,
		"sic_code":          p.SICCode,
		"sic_text":          p.SICText,
		"tags":              p.Tags,
	}
}

// Coerce trims every field of the profile. It is idempotent: applying it
// twice yields the same result as applying it once. Both the quality gate
// and the merger call this same function so the two stages can never
// disagree on schema cleanup.
func Coerce(p Profile) Profile {
	return Profile{
		Domain:           strings.TrimSpace(p.Domain),
		CompanyName:      strings.TrimSpace(p.CompanyName),
		Logo:             strings.TrimSpace(p.Logo),
		ShortDescription: strings.TrimSpace(p.ShortDescription),
		LongDescription:  strings.TrimSpace(p.LongDescription),
		Sector:           strings.TrimSpace(p.Sector),
		Industry:         strings.TrimSpace(p.Industry),
		SubIndustry:      strings.TrimSpace(p.SubIndustry),
		SICCode:          strings.TrimSpace(p.SICCode),
		SICText:          strings.TrimSpace(p.SICText),
		Tags:             strings.TrimSpace(p.Tags),
	}
}

// FromLoose converts a loosely-typed profile object (as decoded from raw
// JSON) into the strict schema. Missing keys become empty strings, nulls
// and empty lists become "", non-empty lists are comma-joined, and other
// scalars are stringified.
func FromLoose(raw map[string]any) Profile {
	get := func(key string) string { return looseString(raw[key]) }
	return Coerce(Profile{
		Domain:           get("domain"),
		CompanyName:      get("company_name"),
		Logo:             get("logo"),
		ShortDescription: get("short_description"),
		LongDescription:  get("long_description"),
		Sector:           get("sector"),
		Industry:         get("industry"),
		SubIndustry:      get("sub_industry"),
		SICCode:          get("sic_code"),
		SICText:          get("sic_text"),
		Tags:             get("tags"),
	})
}

func looseString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		var parts []string
		for _, item := range val {
			s := looseString(item)
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		// JSON numbers decode as float64; render integers without a
		// trailing ".0" so sic_code 7372 stays "7372".
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ExtractedText holds the cleaned prose and title pulled from one HTML
// document. Empty text means the document had no usable content.
type ExtractedText struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// Classification is the sector/industry/SIC assignment for one document.
// It is never partially populated.
type Classification struct {
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	SubIndustry string `json:"sub_industry"`
	SICCode     string `json:"sic_code"`
	SICText     string `json:"sic_text"`
	Tags        string `json:"tags"`
}

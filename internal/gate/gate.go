// Package gate is the accept/repair/reject checkpoint between raw
// extraction and the merged output. Rejection is an expected outcome with
// a reason code, not an error: the batch records it and moves on.
package gate

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/company-intel/intel-cli/internal/model"
)

var titleCaser = cases.Title(language.English)

// Validate coerces a candidate profile to the schema, applies the
// rejection rules, and repairs fixable defects. Exactly one of the return
// values is non-zero: an accepted profile or a rejection.
func Validate(p model.Profile) (model.Profile, *model.Rejection) {
	fixed := model.Coerce(p)

	// Rejection rules, each fatal to the item.
	if fixed.ShortDescription == "" {
		return model.Profile{}, reject(fixed.Domain, model.ReasonEmptyShortDesc)
	}
	if fixed.Industry == "" || strings.EqualFold(fixed.Industry, "unknown") {
		return model.Profile{}, reject(fixed.Domain, model.ReasonUnknownIndustry)
	}
	if fixed.Sector == "" {
		return model.Profile{}, reject(fixed.Domain, model.ReasonEmptySector)
	}

	// Repair rules run only on profiles that passed every rejection rule.
	if fixed.CompanyName == "" {
		fixed.CompanyName = nameFromDomain(fixed.Domain)
	}
	if fixed.LongDescription == "" {
		fixed.LongDescription = fixed.ShortDescription
	}
	if fixed.Logo != "" && !strings.HasPrefix(fixed.Logo, "http://") && !strings.HasPrefix(fixed.Logo, "https://") {
		// A schemeless logo is worse than none; the serving layer treats
		// empty as "no logo".
		fixed.Logo = ""
	}

	return fixed, nil
}

func reject(domain, reason string) *model.Rejection {
	zap.L().Info("gate: rejected profile",
		zap.String("domain", domain),
		zap.String("reason", reason),
	)
	return &model.Rejection{Domain: domain, Reason: reason}
}

// nameFromDomain derives a display name from the domain's first label:
// acme-corp.example.com → "Acme-Corp".
func nameFromDomain(domain string) string {
	if domain == "" {
		return "Unknown Company"
	}
	label := strings.TrimPrefix(domain, "www.")
	if idx := strings.Index(label, "."); idx > 0 {
		label = label[:idx]
	}
	if label == "" {
		return "Unknown Company"
	}
	return titleCaser.String(strings.ToLower(label))
}

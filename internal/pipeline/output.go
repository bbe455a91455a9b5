package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	// RawResultFile holds the accepted, coerced but unmerged profiles.
	RawResultFile = "companies_raw.json"
	// FailedListFile lists skipped and rejected domains, one per line.
	FailedListFile = "failed_companies.txt"
)

// WriteOutputs writes the raw batch result and the failure list under
// outputDir, creating it if needed.
func WriteOutputs(outputDir string, result *Result) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return eris.Wrapf(err, "pipeline: create output dir %s", outputDir)
	}

	data, err := json.MarshalIndent(result.Accepted, "", "  ")
	if err != nil {
		return eris.Wrap(err, "pipeline: marshal raw result")
	}
	rawPath := filepath.Join(outputDir, RawResultFile)
	if err := os.WriteFile(rawPath, data, 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: write %s", rawPath)
	}

	var sb strings.Builder
	for _, f := range result.Failures {
		sb.WriteString(f.Domain)
		sb.WriteByte('\n')
	}
	failedPath := filepath.Join(outputDir, FailedListFile)
	if err := os.WriteFile(failedPath, []byte(sb.String()), 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: write %s", failedPath)
	}

	return nil
}

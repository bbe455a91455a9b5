package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/company-intel/intel-cli/internal/merge"
	"github.com/company-intel/intel-cli/internal/pipeline"
	"github.com/company-intel/intel-cli/internal/report"
)

var (
	mergeInput  string
	mergeOutput string
	mergeReport string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge a raw batch result into the serving artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := mergeInput
		if input == "" {
			input = filepath.Join(cfg.Pipeline.OutputDir, pipeline.RawResultFile)
		}
		output := mergeOutput
		if output == "" {
			output = filepath.Join(cfg.Pipeline.OutputDir, "companies.json")
		}

		profiles, err := merge.LoadRaw(input)
		if err != nil {
			return eris.Wrap(err, "load raw result")
		}

		merged, stats := merge.Merge(profiles)

		if err := merge.WriteArtifact(output, merged); err != nil {
			return eris.Wrap(err, "write artifact")
		}
		merge.LogStats(stats)

		if mergeReport != "" {
			if err := report.WriteXLSX(mergeReport, stats); err != nil {
				return eris.Wrap(err, "write report")
			}
			zap.L().Info("coverage report written", zap.String("path", mergeReport))
		}

		zap.L().Info("artifact written",
			zap.String("path", output),
			zap.Int("companies", len(merged)),
		)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeInput, "input", "", "raw batch result file (default <output-dir>/companies_raw.json)")
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "", "artifact path (default <output-dir>/companies.json)")
	mergeCmd.Flags().StringVar(&mergeReport, "report", "", "optional XLSX coverage report path")
	rootCmd.AddCommand(mergeCmd)
}

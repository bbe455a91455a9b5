package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/company-intel/intel-cli/internal/classify"
	"github.com/company-intel/intel-cli/internal/enrich"
	"github.com/company-intel/intel-cli/internal/logo"
	"github.com/company-intel/intel-cli/internal/model"
	"github.com/company-intel/intel-cli/internal/pipeline"
)

var (
	runDumpsDir  string
	runOutputDir string
	runNoStore   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the enrichment pipeline over a website-dumps directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dumpsDir := runDumpsDir
		if dumpsDir == "" {
			dumpsDir = cfg.Pipeline.DumpsDir
		}
		outputDir := runOutputDir
		if outputDir == "" {
			outputDir = cfg.Pipeline.OutputDir
		}

		classifier, err := classify.New()
		if err != nil {
			return eris.Wrap(err, "load classification rules")
		}

		resolver := logo.New(logo.Options{
			ProbeTimeout:    time.Duration(cfg.Logo.ProbeTimeoutSecs) * time.Second,
			ProbesPerSecond: cfg.Logo.ProbesPerSecond,
			UserAgent:       cfg.Logo.UserAgent,
			ClearbitBaseURL: cfg.Logo.ClearbitBaseURL,
			FaviconBaseURL:  cfg.Logo.FaviconBaseURL,
		})

		augmenter := enrich.New(cfg.Anthropic)
		if augmenter == nil {
			zap.L().Info("no API key configured, running fully offline")
		}

		p := pipeline.New(cfg.Pipeline, classifier, resolver, augmenter)

		if runNoStore {
			result, err := p.Run(ctx, dumpsDir)
			if err != nil {
				return eris.Wrap(err, "pipeline run")
			}
			return pipeline.WriteOutputs(outputDir, result)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.CreateRun(ctx, dumpsDir)
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		result, err := p.Run(ctx, dumpsDir)
		if err != nil {
			if cErr := st.CompleteRun(ctx, run.ID, model.RunStatusFailed, 0, 0); cErr != nil {
				zap.L().Error("mark run failed", zap.Error(cErr))
			}
			return eris.Wrap(err, "pipeline run")
		}

		if err := st.SaveProfiles(ctx, run.ID, result.Accepted); err != nil {
			return eris.Wrap(err, "save profiles")
		}
		if err := st.CompleteRun(ctx, run.ID, model.RunStatusComplete, len(result.Accepted), len(result.Failures)); err != nil {
			return eris.Wrap(err, "complete run")
		}

		zap.L().Info("run recorded",
			zap.String("run_id", run.ID),
			zap.Int("accepted", len(result.Accepted)),
			zap.Int("failed", len(result.Failures)),
		)

		return pipeline.WriteOutputs(outputDir, result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runDumpsDir, "dumps-dir", "", "website dumps directory (default from config)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "output directory (default from config)")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip run persistence")
	rootCmd.AddCommand(runCmd)
}

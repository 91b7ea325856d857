package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smartbean/smartbean/internal/common"
	"github.com/smartbean/smartbean/internal/config"
	"github.com/smartbean/smartbean/internal/hooks"
	"github.com/smartbean/smartbean/internal/importer"
	"github.com/smartbean/smartbean/internal/ledger"
	"github.com/smartbean/smartbean/internal/model"
	"github.com/smartbean/smartbean/internal/predictor"
)

func enhanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enhance [statement files...]",
		Short: "Extract and enhance transactions from statement files",
		Long: `Runs each statement file through its configured importer, trains the
predictors on the existing ledger and prints the enhanced entries.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEnhance,
	}

	cmd.Flags().StringP("ledger", "l", "", "existing ledger file to train on")
	cmd.Flags().Bool("suggest", false, "attach ranked suggestions as metadata")
	cmd.Flags().Bool("overwrite", false, "overwrite payees already present")
	cmd.Flags().StringP("output", "o", "", "write enhanced entries to this file instead of stdout")

	_ = viper.BindPFlag("ledger_file", cmd.Flags().Lookup("ledger"))
	_ = viper.BindPFlag("predictor.suggest", cmd.Flags().Lookup("suggest"))
	_ = viper.BindPFlag("predictor.overwrite", cmd.Flags().Lookup("overwrite"))

	return cmd
}

func runEnhance(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(cfg.Importers) == 0 {
		return fmt.Errorf("no importers configured")
	}

	var existing []model.Directive
	if cfg.LedgerFile != "" {
		existing, err = ledger.ParseFile(cfg.LedgerFile)
		if err != nil {
			return err
		}
		slog.Info("Loaded existing ledger", "file", cfg.LedgerFile, "entries", len(existing))
	} else {
		slog.Warn("No ledger file configured, predictions will pass entries through")
	}

	importers := make([]importer.Importer, 0, len(cfg.Importers))
	for _, ic := range cfg.Importers {
		imp, err := ic.Build()
		if err != nil {
			return err
		}
		importers = append(importers, importer.Apply(imp, buildHooks(cfg)...))
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Enhancing statements..."),
	)

	header := color.New(color.FgCyan, color.Bold)
	total := 0
	for _, path := range args {
		imp, err := identify(importers, path)
		if err != nil {
			slog.Warn("Skipping file", "error", err)
			_ = bar.Add(1)
			continue
		}
		if dater, ok := imp.(importer.Dater); ok {
			if date, ok := dater.Date(path); ok {
				slog.Debug("Statement date", "file", path, "date", date.Format("2006-01-02"))
			}
		}

		entries, err := imp.Extract(path, existing)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}

		_, _ = header.Fprintf(out, ";; %s (%s, %d entries)\n\n", path, imp.Name(), len(entries))
		if err := ledger.Print(out, entries); err != nil {
			return err
		}
		fmt.Fprintln(out)

		total += len(entries)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	slog.Info("Enhancement complete", "files", len(args), "entries", total)
	return nil
}

// identify returns the first importer that recognizes the file.
func identify(importers []importer.Importer, path string) (importer.Importer, error) {
	for _, imp := range importers {
		if imp.Identify(path) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnrecognizedFile, path)
}

// buildHooks assembles the per-importer hook chain: predictions first, then
// duplicate marking, then trimming, mirroring the order the entries are
// consumed in.
func buildHooks(cfg *config.Config) []hooks.Hook {
	opts := cfg.Predictor.Options()

	var chain []hooks.Hook
	chain = append(chain, hooks.PredictorHook{Predictor: predictor.NewPostings(opts)})
	if cfg.Predictor.Payees {
		chain = append(chain, hooks.PredictorHook{Predictor: predictor.NewPayees(opts)})
	}
	if cfg.Hooks.DetectDuplicates {
		chain = append(chain, hooks.NewDuplicateDetector())
	}
	if cfg.Hooks.TrimOldEntries {
		trimmer := hooks.NewOldEntryTrimmer()
		trimmer.OnlyTrimDuplicates = cfg.Hooks.TrimOnlyDupes
		chain = append(chain, trimmer)
	}
	return chain
}

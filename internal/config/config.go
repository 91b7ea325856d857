// Package config loads the enhancement settings from Viper: which ledger file
// holds the historical entries, how statement files map to importers, and how
// the predictors should behave.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/smartbean/smartbean/internal/common"
	"github.com/smartbean/smartbean/internal/importer"
	"github.com/smartbean/smartbean/internal/predictor"
)

// Config is the full runtime configuration.
type Config struct {
	LedgerFile string
	Importers  []ImporterConfig
	Predictor  PredictorConfig
	Hooks      HookConfig
}

// PredictorConfig controls both predictors.
type PredictorConfig struct {
	Predict          bool
	Overwrite        bool
	Suggest          bool
	Payees           bool
	DenylistAccounts []string
}

// HookConfig controls the post-prediction hooks.
type HookConfig struct {
	DetectDuplicates bool
	TrimOldEntries   bool
	TrimOnlyDupes    bool
}

// ImporterConfig describes one configured statement importer.
type ImporterConfig struct {
	Type         string
	Account      string
	Currency     string
	FilePattern  string
	DateFormat   string
	DateColumn   int
	AmountCol    int
	NarrationCol int
	PayeeCol     int
}

// Load reads the configuration from Viper's current state.
func Load() (*Config, error) {
	cfg := &Config{
		LedgerFile: ExpandPath(viper.GetString("ledger_file")),
		Predictor: PredictorConfig{
			Predict:          boolOr("predictor.predict", true),
			Overwrite:        viper.GetBool("predictor.overwrite"),
			Suggest:          viper.GetBool("predictor.suggest"),
			Payees:           boolOr("predictor.payees", true),
			DenylistAccounts: viper.GetStringSlice("predictor.denylist_accounts"),
		},
		Hooks: HookConfig{
			DetectDuplicates: boolOr("hooks.detect_duplicates", true),
			TrimOldEntries:   viper.GetBool("hooks.trim_old_entries"),
			TrimOnlyDupes:    boolOr("hooks.trim_only_duplicates", true),
		},
	}

	var raw []map[string]any
	if err := viper.UnmarshalKey("importers", &raw); err != nil {
		return nil, fmt.Errorf("%w: importers: %v", common.ErrInvalidConfig, err)
	}
	for _, entry := range raw {
		cfg.Importers = append(cfg.Importers, importerFromMap(entry))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func importerFromMap(m map[string]any) ImporterConfig {
	str := func(key, fallback string) string {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
		return fallback
	}
	num := func(key string, fallback int) int {
		switch v := m[key].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
		return fallback
	}
	return ImporterConfig{
		Type:         str("type", "csv"),
		Account:      str("account", ""),
		Currency:     str("currency", "USD"),
		FilePattern:  str("file_pattern", ""),
		DateFormat:   str("date_format", "2006-01-02"),
		DateColumn:   num("date_column", 0),
		NarrationCol: num("narration_column", 1),
		AmountCol:    num("amount_column", 2),
		PayeeCol:     num("payee_column", -1),
	}
}

// Validate checks the configuration for problems that would only surface
// mid-run otherwise.
func (c *Config) Validate() error {
	for i, imp := range c.Importers {
		if imp.Account == "" {
			return fmt.Errorf("%w: importer %d has no account", common.ErrInvalidConfig, i)
		}
		switch imp.Type {
		case "csv", "ofx":
		default:
			return fmt.Errorf("%w: importer %d has unknown type %q", common.ErrInvalidConfig, i, imp.Type)
		}
	}
	return nil
}

// Build constructs the configured importer.
func (ic ImporterConfig) Build() (importer.Importer, error) {
	switch ic.Type {
	case "ofx":
		return importer.NewOFXImporter(ic.Account, ic.Currency), nil
	case "csv":
		return importer.NewCSVImporter(ic.Account, ic.Currency, ic.FilePattern, ic.DateFormat,
			importer.CSVColumns{
				Date:      ic.DateColumn,
				Narration: ic.NarrationCol,
				Amount:    ic.AmountCol,
				Payee:     ic.PayeeCol,
			})
	}
	return nil, fmt.Errorf("%w: unknown importer type %q", common.ErrInvalidConfig, ic.Type)
}

// Options translates the predictor settings into predictor options.
func (pc PredictorConfig) Options() predictor.Options {
	return predictor.Options{
		Predict:          pc.Predict,
		Overwrite:        pc.Overwrite,
		Suggest:          pc.Suggest,
		DenylistAccounts: pc.DenylistAccounts,
	}
}

// boolOr reads a boolean key, falling back when the key is absent so that
// features defaulting to on stay on.
func boolOr(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}
	return os.ExpandEnv(path)
}

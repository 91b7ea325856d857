package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbean/smartbean/internal/common"
	"github.com/smartbean/smartbean/internal/importer"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Predictor.Predict)
	assert.False(t, cfg.Predictor.Overwrite)
	assert.False(t, cfg.Predictor.Suggest)
	assert.True(t, cfg.Predictor.Payees)
	assert.True(t, cfg.Hooks.DetectDuplicates)
	assert.False(t, cfg.Hooks.TrimOldEntries)
	assert.Empty(t, cfg.Importers)
}

func TestLoadExplicitSettings(t *testing.T) {
	resetViper(t)
	viper.Set("ledger_file", "main.beancount")
	viper.Set("predictor.predict", false)
	viper.Set("predictor.suggest", true)
	viper.Set("predictor.denylist_accounts", []string{"Expenses:Todo"})
	viper.Set("importers", []map[string]any{
		{
			"type":         "csv",
			"account":      "Assets:US:BofA:Checking",
			"file_pattern": "^statement-",
			"payee_column": 3,
		},
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "main.beancount", cfg.LedgerFile)
	assert.False(t, cfg.Predictor.Predict)
	assert.True(t, cfg.Predictor.Suggest)
	assert.Equal(t, []string{"Expenses:Todo"}, cfg.Predictor.DenylistAccounts)

	require.Len(t, cfg.Importers, 1)
	imp := cfg.Importers[0]
	assert.Equal(t, "csv", imp.Type)
	assert.Equal(t, "USD", imp.Currency)
	assert.Equal(t, 3, imp.PayeeCol)
	assert.Equal(t, 2, imp.AmountCol)

	opts := cfg.Predictor.Options()
	assert.False(t, opts.Predict)
	assert.True(t, opts.Suggest)
	assert.Equal(t, []string{"Expenses:Todo"}, opts.DenylistAccounts)
}

func TestValidateRejectsBadImporters(t *testing.T) {
	missing := &Config{Importers: []ImporterConfig{{Type: "csv"}}}
	assert.ErrorIs(t, missing.Validate(), common.ErrInvalidConfig)

	unknown := &Config{Importers: []ImporterConfig{{Type: "qif", Account: "Assets:Checking"}}}
	assert.ErrorIs(t, unknown.Validate(), common.ErrInvalidConfig)
}

func TestImporterBuild(t *testing.T) {
	csvCfg := ImporterConfig{
		Type: "csv", Account: "Assets:Checking", Currency: "USD",
		FilePattern: `\.csv$`, DateFormat: "2006-01-02",
		NarrationCol: 1, AmountCol: 2, PayeeCol: -1,
	}
	imp, err := csvCfg.Build()
	require.NoError(t, err)
	assert.IsType(t, &importer.CSVImporter{}, imp)

	ofxCfg := ImporterConfig{Type: "ofx", Account: "Assets:Checking", Currency: "USD"}
	imp, err = ofxCfg.Build()
	require.NoError(t, err)
	assert.IsType(t, &importer.OFXImporter{}, imp)

	bad := ImporterConfig{Type: "qif", Account: "Assets:Checking"}
	_, err = bad.Build()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("LEDGER_DIR", "/data/ledgers")
	assert.Equal(t, "/data/ledgers/main.beancount", ExpandPath("$LEDGER_DIR/main.beancount"))
	assert.Equal(t, "", ExpandPath(""))
}

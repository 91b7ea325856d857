// Package hooks composes the post-extraction steps an import pipeline applies
// to freshly imported entries: prediction, duplicate marking and old-entry
// trimming. Hooks run in sequence, each receiving the previous hook's output.
package hooks

import (
	"github.com/smartbean/smartbean/internal/model"
	"github.com/smartbean/smartbean/internal/predictor"
)

// Hook transforms imported entries after extraction. The file identifier and
// the importer's known account describe where the entries came from; existing
// holds the ledger entries the importer was given.
type Hook interface {
	Apply(file, knownAccount string, imported, existing []model.Directive) ([]model.Directive, error)
}

// ApplyAll runs the hooks in order, feeding each hook's output to the next.
func ApplyAll(hooks []Hook, file, knownAccount string, imported, existing []model.Directive) ([]model.Directive, error) {
	var err error
	for _, hook := range hooks {
		imported, err = hook.Apply(file, knownAccount, imported, existing)
		if err != nil {
			return nil, err
		}
	}
	return imported, nil
}

// PredictorHook adapts a predictor to the hook interface.
type PredictorHook struct {
	Predictor *predictor.Predictor
}

// Apply implements Hook.
func (h PredictorHook) Apply(_, knownAccount string, imported, existing []model.Directive) ([]model.Directive, error) {
	return h.Predictor.Enhance(imported, existing, knownAccount)
}

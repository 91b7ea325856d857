// Package importer defines the boundary contract with statement importers
// and provides the adapters that run enhancement hooks over their output.
package importer

import (
	"time"

	"github.com/smartbean/smartbean/internal/hooks"
	"github.com/smartbean/smartbean/internal/model"
)

// Importer extracts ledger entries from a statement file.
type Importer interface {
	// Name identifies the importer in log output.
	Name() string
	// Identify reports whether this importer handles the given file.
	Identify(path string) bool
	// Account returns the ledger account the file's entries belong to.
	Account(path string) string
	// Extract converts the statement file into ledger entries. The existing
	// ledger entries are provided for importers that need them.
	Extract(path string, existing []model.Directive) ([]model.Directive, error)
}

// Dater is implemented by importers that can report a statement date.
type Dater interface {
	Date(path string) (time.Time, bool)
}

// Apply wraps an importer so that the hooks run, in order, over everything
// it extracts. The wrapped importer delegates identification and account
// resolution to the original.
func Apply(imp Importer, hks ...hooks.Hook) Importer {
	return &hooked{importer: imp, hooks: hks}
}

type hooked struct {
	importer Importer
	hooks    []hooks.Hook
}

func (h *hooked) Name() string              { return h.importer.Name() }
func (h *hooked) Identify(path string) bool { return h.importer.Identify(path) }
func (h *hooked) Account(path string) string {
	return h.importer.Account(path)
}

// Date forwards to the wrapped importer when it reports statement dates.
func (h *hooked) Date(path string) (time.Time, bool) {
	if dater, ok := h.importer.(Dater); ok {
		return dater.Date(path)
	}
	return time.Time{}, false
}

func (h *hooked) Extract(path string, existing []model.Directive) ([]model.Directive, error) {
	imported, err := h.importer.Extract(path, existing)
	if err != nil {
		return nil, err
	}
	return hooks.ApplyAll(h.hooks, path, h.importer.Account(path), imported, existing)
}

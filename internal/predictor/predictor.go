// Package predictor implements the entry enhancement engine: it derives a
// training set from historical ledger entries, fits a feature-union
// classifier and applies predictions (and optional ranked suggestions) to
// newly imported transactions.
package predictor

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/smartbean/smartbean/internal/entries"
	"github.com/smartbean/smartbean/internal/feature"
	"github.com/smartbean/smartbean/internal/learn"
	"github.com/smartbean/smartbean/internal/model"
)

// Options holds the configuration surface of a predictor.
type Options struct {
	// Tokenizer overrides the text tokenization, e.g. for languages that are
	// not whitespace-segmented. Nil selects the default word tokenizer.
	Tokenizer learn.Tokenizer
	// DenylistAccounts excludes transactions touching these accounts from the
	// training data.
	DenylistAccounts []string
	// Predict applies the best-guess prediction to each transaction.
	Predict bool
	// Overwrite replaces a pre-existing attribute value with the prediction.
	Overwrite bool
	// Suggest attaches ranked alternative labels as transaction metadata.
	Suggest bool
}

// DefaultOptions returns the options used when nothing is configured:
// predictions on, no overwriting, no suggestions.
func DefaultOptions() Options {
	return Options{Predict: true}
}

// target defines the attribute-specific behavior that distinguishes the payee
// predictor from the posting predictor.
type target interface {
	// name identifies the predicted attribute in log output.
	name() string
	// descriptors lists the candidate features, including any data-driven
	// inclusion predicates.
	descriptors() []feature.Descriptor
	// trainingItems expands the filtered transactions into training items and
	// their target labels.
	trainingItems(txns []*model.Transaction) ([]feature.TrainingItem, []string)
	// predictionItems builds the items evaluated at prediction time.
	predictionItems(txns []*model.Transaction, knownAccount string) []feature.TrainingItem
	// apply sets the predicted label on a transaction.
	apply(txn *model.Transaction, label string, overwrite bool) *model.Transaction
	// suggestionsKey is the metadata key for the ranked label list.
	suggestionsKey() string
}

// Predictor enhances imported entries for one target attribute. A single
// instance may be shared by concurrent import jobs; every invocation
// retrains from scratch under the instance lock.
type Predictor struct {
	target   target
	denylist map[string]struct{}
	opts     Options
	mu       sync.Mutex
}

func newPredictor(target target, opts Options) *Predictor {
	denylist := make(map[string]struct{}, len(opts.DenylistAccounts))
	for _, account := range opts.DenylistAccounts {
		denylist[account] = struct{}{}
	}
	return &Predictor{target: target, opts: opts, denylist: denylist}
}

// fittedModel is the immutable result of one training run. It is built into
// a local value and discarded after the invocation; nothing is cached.
type fittedModel struct {
	union       *feature.Union
	classifier  *learn.Perceptron
	singleLabel string
	fitted      bool
	multiClass  bool
}

// Enhance predicts the target attribute for the imported entries, training on
// the existing entries. Non-transaction directives pass through unchanged and
// the input order is preserved. Recoverable data conditions (no training
// data, single-class data) degrade to a logged pass-through; an error is
// returned only for invariant violations.
func (p *Predictor) Enhance(imported, existing []model.Directive, knownAccount string) ([]model.Directive, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	training := p.assembleTrainingData(existing, knownAccount)
	m, err := p.fit(training)
	if err != nil {
		return nil, err
	}

	txns := model.FilterTransactions(imported)
	if !m.fitted || len(txns) == 0 {
		return imported, nil
	}

	enhanced, err := p.processTransactions(m, txns, knownAccount)
	if err != nil {
		return nil, err
	}
	return entries.MergeTransactions(imported, enhanced), nil
}

// assembleTrainingData filters the historical transactions down to usable
// training input: every posting account open, no denylisted account, and at
// least one posting on (or under) the known account when one is given.
func (p *Predictor) assembleTrainingData(existing []model.Directive, knownAccount string) []*model.Transaction {
	open := openAccounts(existing)
	all := model.FilterTransactions(existing)

	var filtered []*model.Transaction
	for _, txn := range all {
		if p.usableForTraining(txn, open, knownAccount) {
			filtered = append(filtered, txn)
		}
	}

	if len(filtered) == 0 {
		if len(all) > 0 {
			slog.Warn("Cannot train the prediction model",
				"target", p.target.name(),
				"reason", "no training data matches the known account",
				"known_account", knownAccount,
				"total_transactions", len(all))
		} else {
			slog.Warn("Cannot train the prediction model",
				"target", p.target.name(),
				"reason", "no training data found")
		}
		return nil
	}

	slog.Debug("Assembled training data",
		"target", p.target.name(),
		"transactions", len(filtered),
		"filtered_from", len(all))
	return filtered
}

func (p *Predictor) usableForTraining(txn *model.Transaction, open map[string]*model.Open, knownAccount string) bool {
	for _, posting := range txn.Postings {
		if _, ok := open[posting.Account]; !ok {
			return false
		}
		if _, ok := p.denylist[posting.Account]; ok {
			return false
		}
	}
	return txn.InvolvesAccount(knownAccount)
}

// fit trains a fresh model for this invocation. Empty training data yields an
// unfitted model; a single distinct label short-circuits the classifier.
func (p *Predictor) fit(training []*model.Transaction) (*fittedModel, error) {
	items, labels := p.target.trainingItems(training)

	distinct := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		distinct[label] = struct{}{}
	}

	switch len(distinct) {
	case 0:
		slog.Warn("Cannot train the prediction model",
			"target", p.target.name(),
			"reason", "training data is empty")
		return &fittedModel{}, nil
	case 1:
		slog.Warn("Only one target label in the training data, skipping classifier",
			"target", p.target.name())
		for label := range distinct {
			return &fittedModel{fitted: true, singleLabel: label}, nil
		}
	}

	union, err := feature.NewUnion(p.target.descriptors(), items, p.opts.Tokenizer)
	if err != nil {
		return nil, err
	}
	union.Fit(items)
	x, err := union.Transform(items)
	if err != nil {
		return nil, err
	}

	classifier := learn.NewPerceptron()
	if err := classifier.Fit(x, labels); err != nil {
		return nil, fmt.Errorf("fitting classifier: %w", err)
	}

	slog.Debug("Trained the prediction model",
		"target", p.target.name(),
		"examples", len(items),
		"classes", len(classifier.Classes()),
		"features", strings.Join(union.Attrs(), ","))
	return &fittedModel{union: union, classifier: classifier, fitted: true, multiClass: true}, nil
}

// processTransactions applies predictions and suggestions to the imported
// transactions.
func (p *Predictor) processTransactions(m *fittedModel, txns []*model.Transaction, knownAccount string) ([]*model.Transaction, error) {
	predictions, scores, err := p.evaluate(m, txns, knownAccount)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Transaction, len(txns))
	for i, txn := range txns {
		enhanced := txn
		if p.opts.Predict {
			enhanced = p.target.apply(enhanced, predictions[i], p.opts.Overwrite)
		}
		if p.opts.Suggest {
			enhanced = entries.AttachSuggestions(enhanced, p.target.suggestionsKey(), p.rank(m, scores, i))
		}
		out[i] = enhanced
	}

	if p.opts.Predict {
		slog.Debug("Added predictions to transactions",
			"target", p.target.name(),
			"count", len(out))
	}
	return out, nil
}

// evaluate computes the per-transaction prediction and, for multi-class
// models, the per-class decision scores.
func (p *Predictor) evaluate(m *fittedModel, txns []*model.Transaction, knownAccount string) ([]string, learn.Matrix, error) {
	if !m.multiClass {
		predictions := make([]string, len(txns))
		for i := range predictions {
			predictions[i] = m.singleLabel
		}
		return predictions, learn.Matrix{}, nil
	}

	items := p.target.predictionItems(txns, knownAccount)
	x, err := m.union.Transform(items)
	if err != nil {
		return nil, learn.Matrix{}, err
	}
	predictions, err := m.classifier.Predict(x)
	if err != nil {
		return nil, learn.Matrix{}, err
	}

	var scores learn.Matrix
	if p.opts.Suggest {
		scores, err = m.classifier.DecisionFunction(x)
		if err != nil {
			return nil, learn.Matrix{}, err
		}
	}
	return predictions, scores, nil
}

// rank orders the class labels for one transaction by descending decision
// score. Ties keep the class order of the classifier, so the first entry
// always agrees with the applied prediction. Single-label models suggest the
// one known label.
func (p *Predictor) rank(m *fittedModel, scores learn.Matrix, row int) []string {
	if !m.multiClass {
		return []string{m.singleLabel}
	}

	classes := m.classifier.Classes()
	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	values := scores.Row(row)
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	ranked := make([]string, len(order))
	for i, c := range order {
		ranked[i] = classes[c]
	}
	return ranked
}

// openAccounts replays Open and Close directives in chronological order and
// returns the accounts that remain open. It is rebuilt on every invocation.
func openAccounts(existing []model.Directive) map[string]*model.Open {
	open := make(map[string]*model.Open)
	for _, entry := range model.SortedByDate(existing) {
		switch directive := entry.(type) {
		case *model.Open:
			open[directive.Account] = directive
		case *model.Close:
			delete(open, directive.Account)
		}
	}
	return open
}

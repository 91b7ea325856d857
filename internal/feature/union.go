package feature

import (
	"fmt"

	"github.com/smartbean/smartbean/internal/learn"
)

// Descriptor declares one candidate feature for a predictor: the attribute it
// extracts, its relative weight in the union, and an optional inclusion
// predicate evaluated against the assembled training set. A nil predicate
// always includes the feature.
type Descriptor struct {
	Include func(items []TrainingItem) bool
	Attr    string
	Weight  float64
}

// Union is a weighted column-wise concatenation of per-feature pipelines. It
// is built fresh for every training set since the included features depend on
// the data.
type Union struct {
	attrs     []string
	weights   []float64
	pipelines []Pipeline
}

// NewUnion builds pipelines for the descriptors whose predicate accepts the
// training set. Unknown attribute names are reported immediately.
func NewUnion(descriptors []Descriptor, items []TrainingItem, tokenizer learn.Tokenizer) (*Union, error) {
	u := &Union{}
	for _, desc := range descriptors {
		if desc.Include != nil && !desc.Include(items) {
			continue
		}
		pipeline, err := newPipeline(desc.Attr, tokenizer)
		if err != nil {
			return nil, fmt.Errorf("building feature %q: %w", desc.Attr, err)
		}
		u.attrs = append(u.attrs, desc.Attr)
		u.weights = append(u.weights, desc.Weight)
		u.pipelines = append(u.pipelines, pipeline)
	}
	return u, nil
}

// Attrs returns the attribute names of the included features, in union order.
func (u *Union) Attrs() []string {
	return u.attrs
}

// Fit fits every included pipeline on the training items.
func (u *Union) Fit(items []TrainingItem) {
	for _, pipeline := range u.pipelines {
		pipeline.Fit(items)
	}
}

// Transform extracts each feature matrix, applies the feature weight and
// concatenates the blocks column-wise.
func (u *Union) Transform(items []TrainingItem) (learn.Matrix, error) {
	blocks := make([]learn.Matrix, len(u.pipelines))
	for i, pipeline := range u.pipelines {
		blocks[i] = pipeline.Transform(items).Scale(u.weights[i])
	}
	out, err := learn.HStack(blocks...)
	if err != nil {
		return learn.Matrix{}, fmt.Errorf("concatenating feature union: %w", err)
	}
	return out, nil
}

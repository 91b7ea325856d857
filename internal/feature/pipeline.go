package feature

import (
	"strings"

	"github.com/smartbean/smartbean/internal/learn"
)

// Pipeline turns training items into a numeric feature matrix. Fit learns any
// per-feature state (the text vocabulary); Transform produces a matrix with
// one row per item.
type Pipeline interface {
	Fit(items []TrainingItem)
	Transform(items []TrainingItem) learn.Matrix
}

// TextPipeline chains a string extractor with an n-gram count vectorizer. A
// document set without extractable vocabulary transforms into a zero-width
// matrix so union concatenation stays shape-consistent.
type TextPipeline struct {
	extract    StringExtractor
	vectorizer *learn.CountVectorizer
}

// NewTextPipeline creates a text feature pipeline.
func NewTextPipeline(extract StringExtractor, tokenizer learn.Tokenizer) *TextPipeline {
	return &TextPipeline{
		extract:    extract,
		vectorizer: learn.NewCountVectorizer(tokenizer),
	}
}

// Fit learns the vocabulary from the extracted documents.
func (p *TextPipeline) Fit(items []TrainingItem) {
	p.vectorizer.Fit(p.documents(items))
}

// Transform vectorizes the extracted documents.
func (p *TextPipeline) Transform(items []TrainingItem) learn.Matrix {
	return p.vectorizer.Transform(p.documents(items))
}

func (p *TextPipeline) documents(items []TrainingItem) []string {
	docs := make([]string, len(items))
	for i, item := range items {
		docs[i] = p.extract(item)
	}
	return docs
}

// NumericPipeline extracts a scalar per item and shapes the values into a
// single-column matrix.
type NumericPipeline struct {
	extract NumericExtractor
}

// NewNumericPipeline creates a numeric feature pipeline.
func NewNumericPipeline(extract NumericExtractor) *NumericPipeline {
	return &NumericPipeline{extract: extract}
}

// Fit is a no-op; numeric extraction is stateless.
func (p *NumericPipeline) Fit([]TrainingItem) {}

// Transform returns an N-row, one-column matrix of extracted values.
func (p *NumericPipeline) Transform(items []TrainingItem) learn.Matrix {
	out := learn.NewMatrix(len(items), 1)
	for i, item := range items {
		out.Set(i, 0, p.extract(item))
	}
	return out
}

// newPipeline builds the pipeline shape for an attribute name: "date." names
// are numeric, everything else is treated as text.
func newPipeline(attr string, tokenizer learn.Tokenizer) (Pipeline, error) {
	if strings.HasPrefix(attr, "date.") {
		extract, err := NumericAttribute(attr)
		if err != nil {
			return nil, err
		}
		return NewNumericPipeline(extract), nil
	}

	extract, err := StringAttribute(attr)
	if err != nil {
		return nil, err
	}
	return NewTextPipeline(extract, tokenizer), nil
}
